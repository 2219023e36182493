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

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNoLink is returned by operations that need the record source link
	// of a view that does not have one.
	ErrNoLink = errors.New("view is not linked to a record source")

	// ErrIndexRedefined is returned by ToSource, and by record lookups of
	// AddCol, after the index column was replaced with one that does not
	// hold primary keys.
	ErrIndexRedefined = errors.New("view index no longer holds primary keys")

	ErrDuplicateKey    = errors.New("duplicate row key")
	ErrNotFound        = errors.New("record not found")
	ErrNoIndex         = errors.New("view has no index column")
	ErrNotRecord       = errors.New("item is a row, not a record")
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// ConfigError reports an attribute declared with an unknown dtype tag.
type ConfigError struct {
	Attr  string
	DType string
}

func (e *ConfigError) Error() string {
	if e.Attr == "" {
		return fmt.Sprintf("unknown dtype '%s'", e.DType)
	}
	return fmt.Sprintf("attribute '%s': unknown dtype '%s'", e.Attr, e.DType)
}

// ResolutionError reports a path segment that could not be resolved on a
// record.
type ResolutionError struct {
	Path    string
	Segment string
	Type    string
}

func (e *ResolutionError) Error() string {
	if e.Path == e.Segment {
		return fmt.Sprintf("%s has no attribute '%s'", e.Type, e.Segment)
	}
	return fmt.Sprintf("%s has no attribute '%s' (resolving '%s')", e.Type, e.Segment, e.Path)
}

// LookupError reports a row key that is not present in the link.
type LookupError struct {
	Key any
}

func (e *LookupError) Error() string {
	return fmt.Sprintf(
		"primary key %v does not exist in the record source link, "+
			"has the index of the view been changed?", e.Key)
}
