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

import "github.com/pkg/errors"

// Item is what a column function is applied to: either a row of the view,
// or the source record of a row.
type Item interface {
	// Key returns the row key, nil if the view has no index.
	Key() any

	// Get resolves a dotted path. Rows answer from their columns only.
	Get(path string) (any, error)

	// Call invokes a method of the record. Rows have no methods.
	Call(method string, args ...any) (any, error)

	// Record returns the source record, false for rows.
	Record() (any, bool)
}

// RecordOf returns the record of it as an R.
func RecordOf[R any](it Item) (R, error) {
	var zero R
	rec, ok := it.Record()
	if !ok {
		return zero, ErrNotRecord
	}
	r, ok := rec.(R)
	if !ok {
		return zero, errors.Errorf("record is %T", rec)
	}
	return r, nil
}

type rowItem struct {
	key  any
	data map[string]any
}

func (it rowItem) Key() any {
	return it.key
}

func (it rowItem) Get(path string) (any, error) {
	v, ok := it.data[path]
	if !ok {
		return nil, &ResolutionError{Path: path, Segment: path, Type: "row"}
	}
	return v, nil
}

func (it rowItem) Call(method string, args ...any) (any, error) {
	return nil, errors.Wrapf(ErrNotRecord, "calling '%s'", method)
}

func (it rowItem) Record() (any, bool) {
	return nil, false
}

type recordItem struct {
	key any
	rec any
}

func (it recordItem) Key() any {
	return it.key
}

func (it recordItem) Get(path string) (any, error) {
	return Resolve(it.rec, path)
}

func (it recordItem) Call(method string, args ...any) (any, error) {
	return Call(it.rec, method, args...)
}

func (it recordItem) Record() (any, bool) {
	return it.rec, true
}
