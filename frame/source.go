// Copyright 2022 RelationalAI, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame

import "context"

// Schema describes the records of a source.
type Schema struct {
	PrimaryKey string
	Fields     []string // concrete, non auto-generated fields
}

// Source is a lazily evaluated, filterable collection of records of type R
// keyed by K. Only the calls that take a context touch the backend.
type Source[K Key, R any] interface {
	Schema() Schema
	Ordered() bool

	// OrderBy returns the source ordered by field. Ordering an already
	// ordered source by the same field returns an equivalent source.
	OrderBy(field string) Source[K, R]

	// Filter returns the subset of the source whose keys are in keys.
	Filter(keys []K) Source[K, R]

	Lookup(ctx context.Context, key K) (R, error)
	Project(ctx context.Context, fields []string) ([]map[string]any, error)
	Iterate(ctx context.Context) ([]R, error)
	Count(ctx context.Context) (int, error)
	KeyOf(rec R) (K, error)
}

// Attributer is implemented by records that resolve their own attributes,
// eg. rows of a SQL source.
type Attributer interface {
	Attr(name string) (any, bool)
}
