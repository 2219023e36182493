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

// Column synthesis: AddCol applies a function to every row of a view, and
// falls back to the source records when the rows do not carry what the
// function needs.

import (
	"slices"
	"sort"

	"github.com/pkg/errors"
)

// ColFunc computes the value of a new column for one row or record. A
// result of type map[string]any or Values adds one column per entry.
type ColFunc func(Item) (any, error)

type NamedValue struct {
	Name  string
	Value any
}

// Values is an ordered set of named results, one column each.
type Values []NamedValue

// AddCol adds the column name computed by fn. fn is first applied to the
// rows of the view; if that fails and fast is false, it is applied to the
// linked source records instead. AddCol on an empty view does nothing.
func (v *View[K, R]) AddCol(name string, fn ColFunc, fast bool) error {
	if v.Empty() {
		return nil
	}
	if name == v.index {
		return errors.Errorf("column '%s' is the row index", name)
	}
	vals, err := v.apply(fn)
	if err != nil {
		if fast {
			return err
		}
		log().Debug("column function failed on rows, using records",
			"column", name, "error", err)
		if vals, err = v.applyRecords(fn); err != nil {
			return err
		}
	}
	return v.assign(name, vals)
}

// Column adds the column name computed by fn to v and returns fn.
func Column[K Key, R any](v *View[K, R], name string, fast bool, fn ColFunc) (ColFunc, error) {
	log().Info("adding column", "column", name)
	return fn, v.AddCol(name, fn, fast)
}

func (v *View[K, R]) apply(fn ColFunc) (result []any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("column function panicked: %v", r)
		}
	}()
	rows := v.Maps()
	var keys []K
	if v.keyed {
		// Rows of a view without its index column have no key.
		if keys, err = v.Keys(); err != nil && err != ErrNoIndex {
			return nil, err
		}
	}
	result = make([]any, len(rows))
	for i, row := range rows {
		it := rowItem{data: row}
		if keys != nil {
			it.key = keys[i]
		}
		x, err := fn(it)
		if err != nil {
			return nil, err
		}
		result[i] = x
	}
	return result, nil
}

func (v *View[K, R]) applyRecords(fn ColFunc) ([]any, error) {
	if v.link == nil {
		return nil, ErrNoLink
	}
	if !v.keyed {
		return nil, ErrIndexRedefined
	}
	keys, err := v.Keys()
	if err != nil {
		return nil, err
	}
	recs := make([]R, len(keys))
	for i, k := range keys {
		if recs[i], err = v.link.Record(k); err != nil {
			return nil, err
		}
	}
	result := make([]any, len(recs))
	for i, rec := range recs {
		x, err := fn(recordItem{key: keys[i], rec: rec})
		if err != nil {
			return nil, err
		}
		result[i] = x
	}
	return result, nil
}

func (v *View[K, R]) assign(name string, vals []any) error {
	n := len(vals)
	cols := map[string][]any{}
	var order []string
	switch vals[0].(type) {
	case map[string]any:
		for i, x := range vals {
			m, ok := x.(map[string]any)
			if !ok {
				return errors.Errorf("column function returned %T for row %d, expected a map", x, i)
			}
			var added []string
			for k, val := range m {
				if _, ok := cols[k]; !ok {
					cols[k] = make([]any, n)
					added = append(added, k)
				}
				cols[k][i] = val
			}
			sort.Strings(added)
			order = append(order, added...)
		}
	case Values:
		for i, x := range vals {
			nv, ok := x.(Values)
			if !ok {
				return errors.Errorf("column function returned %T for row %d, expected Values", x, i)
			}
			for _, e := range nv {
				if _, ok := cols[e.Name]; !ok {
					cols[e.Name] = make([]any, n)
					order = append(order, e.Name)
				}
				cols[e.Name][i] = e.Value
			}
		}
	default:
		cols[name] = vals
		order = []string{name}
	}
	if slices.Contains(order, v.index) {
		return errors.Errorf("column '%s' is the row index", v.index)
	}
	df := v.DataFrame
	for _, col := range order {
		s, err := CastToDType(cols[col], DTypeNone, col, n)
		if err != nil {
			return err
		}
		if df = df.Mutate(s); df.Err != nil {
			return errors.Wrapf(df.Err, "add column '%s'", col)
		}
	}
	v.DataFrame = df
	return nil
}
