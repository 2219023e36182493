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

package sqlsource

import "strings"

// Row is one record of a table. Column order is kept as selected.
type Row struct {
	fields []string
	values []any
}

func NewRow(fields []string, values []any) *Row {
	return &Row{fields: fields, values: values}
}

func (r *Row) Len() int {
	return len(r.fields)
}

func (r *Row) Fields() []string {
	return r.fields
}

func (r *Row) Values() []any {
	return r.values
}

// Attr returns the value of column name, matched case insensitively when
// there is no exact match.
func (r *Row) Attr(name string) (any, bool) {
	for i, f := range r.fields {
		if f == name {
			return r.values[i], true
		}
	}
	for i, f := range r.fields {
		if strings.EqualFold(f, name) {
			return r.values[i], true
		}
	}
	return nil, false
}

func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for i, field := range r.fields {
		m[field] = r.values[i]
	}
	return m
}
