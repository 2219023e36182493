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

// Positional and label based access to the rows and columns of a view. An
// accessor holds the state of the view at the time it was created, and the
// views it returns share that view's link.

import (
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
)

type Positional[K Key, R any] struct {
	view View[K, R]
}

type Labeled[K Key, R any] struct {
	view View[K, R]
}

// ILoc returns the positional accessor of v.
func (v *View[K, R]) ILoc() Positional[K, R] {
	return Positional[K, R]{view: *v}
}

// Loc returns the label accessor of v, rows are addressed by key.
func (v *View[K, R]) Loc() Labeled[K, R] {
	return Labeled[K, R]{view: *v}
}

// Rows returns the rows at positions. A position out of range is reported in
// the Err of the result.
func (a Positional[K, R]) Rows(positions ...int) *View[K, R] {
	for _, p := range positions {
		if p < 0 || p >= a.view.Nrow() {
			err := errors.Errorf("row position %d out of range", p)
			return a.view.derive(dataframe.DataFrame{Err: err})
		}
	}
	return a.view.Subset(positions)
}

// Range returns the rows in [lo, hi), clamped to the view.
func (a Positional[K, R]) Range(lo, hi int) *View[K, R] {
	lo = max(lo, 0)
	hi = min(hi, a.view.Nrow())
	var positions []int
	for i := lo; i < hi; i++ {
		positions = append(positions, i)
	}
	return a.view.Subset(positions)
}

// Cols returns the data columns at positions, the index column is kept.
func (a Positional[K, R]) Cols(positions ...int) (*View[K, R], error) {
	cols := a.view.Columns()
	names := make([]string, len(positions))
	for i, p := range positions {
		if p < 0 || p >= len(cols) {
			return nil, errors.Errorf("column position %d out of range", p)
		}
		names[i] = cols[p]
	}
	return a.view.selectCols(names), nil
}

// At returns the value at row and data column position col.
func (a Positional[K, R]) At(row, col int) (any, error) {
	cols := a.view.Columns()
	if col < 0 || col >= len(cols) {
		return nil, errors.Errorf("column position %d out of range", col)
	}
	if row < 0 || row >= a.view.Nrow() {
		return nil, errors.Errorf("row position %d out of range", row)
	}
	return a.view.Col(cols[col]).Elem(row).Val(), nil
}

// Rows returns the rows of keys, in the order given.
func (a Labeled[K, R]) Rows(keys ...K) (*View[K, R], error) {
	positions, err := a.view.positions(keys)
	if err != nil {
		return nil, err
	}
	return a.view.Subset(positions), nil
}

// Cols returns the named data columns, the index column is kept.
func (a Labeled[K, R]) Cols(names ...string) (*View[K, R], error) {
	all := a.view.Names()
	for _, name := range names {
		if !slices.Contains(all, name) {
			return nil, errors.Errorf("no column '%s'", name)
		}
	}
	return a.view.selectCols(names), nil
}

// At returns the value of column col in the row of key.
func (a Labeled[K, R]) At(key K, col string) (any, error) {
	if !slices.Contains(a.view.Names(), col) {
		return nil, errors.Errorf("no column '%s'", col)
	}
	positions, err := a.view.positions([]K{key})
	if err != nil {
		return nil, err
	}
	return a.view.Col(col).Elem(positions[0]).Val(), nil
}

// At returns the value of column col in the row of key.
func (v *View[K, R]) At(key K, col string) (any, error) {
	return v.Loc().At(key, col)
}

// IAt returns the value at row and data column position col.
func (v *View[K, R]) IAt(row, col int) (any, error) {
	return v.ILoc().At(row, col)
}

func (v *View[K, R]) selectCols(names []string) *View[K, R] {
	sel := make([]string, 0, len(names)+1)
	if slices.Contains(v.Names(), v.index) {
		sel = append(sel, v.index)
	}
	for _, name := range names {
		if name != v.index {
			sel = append(sel, name)
		}
	}
	return v.Select(sel)
}

func (v *View[K, R]) positions(keys []K) ([]int, error) {
	current, err := v.Keys()
	if err != nil {
		return nil, err
	}
	pos := make(map[K]int, len(current))
	for i, k := range current {
		pos[k] = i
	}
	result := make([]int, len(keys))
	for i, k := range keys {
		p, ok := pos[k]
		if !ok {
			return nil, errors.Wrapf(ErrNotFound, "row key %v", k)
		}
		result[i] = p
	}
	return result, nil
}
