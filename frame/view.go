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
	"context"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// IndexColumn is the name of the column holding the row keys of a view
// built from a source.
const IndexColumn = "pk"

// View is a data frame whose rows are keyed by the primary keys of the
// records they were built from. Every dataframe.DataFrame operation that
// returns a frame returns a *View sharing the link of its receiver, the
// other operations are promoted unchanged.
type View[K Key, R any] struct {
	dataframe.DataFrame
	index string
	keyed bool // index holds primary keys
	link  *Link[K, R]
}

// NewView builds a view over the records of src. With no attrs the view has
// one column per schema field, except a primary key field named IndexColumn.
func NewView[K Key, R any](ctx context.Context, src Source[K, R], attrs ...Attr) (*View[K, R], error) {
	dtypes := make([]DType, len(attrs))
	for i, a := range attrs {
		dt, err := a.dtype()
		if err != nil {
			return nil, err
		}
		if a.ColumnName() == IndexColumn {
			return nil, errors.Errorf("column name '%s' is reserved for the row index", IndexColumn)
		}
		dtypes[i] = dt
	}
	schema := src.Schema()
	explicit := len(attrs) > 0
	if !explicit {
		// A primary key named like the index column is the index column.
		for _, f := range schema.Fields {
			if f != IndexColumn {
				attrs = append(attrs, Field(f))
			} else if f != schema.PrimaryKey {
				return nil, errors.Errorf("column name '%s' is reserved for the row index", IndexColumn)
			}
		}
		dtypes = make([]DType, len(attrs))
	}

	var fields, computed []int
	for i, a := range attrs {
		if a.Kind == FieldAttr {
			fields = append(fields, i)
		} else {
			computed = append(computed, i)
		}
	}

	if !src.Ordered() {
		src = src.OrderBy(schema.PrimaryKey)
	}

	names := []string{schema.PrimaryKey}
	for _, i := range fields {
		if !slices.Contains(names, attrs[i].Name) {
			names = append(names, attrs[i].Name)
		}
	}
	rows, err := src.Project(ctx, names)
	if err != nil {
		return nil, errors.Wrap(err, "project fields")
	}
	if len(rows) == 0 {
		return emptyView[K, R](attrs, fields), nil
	}

	n := len(rows)
	keys := make([]K, n)
	pos := make(map[K]int, n)
	for i, row := range rows {
		k, err := ToKey[K](row[schema.PrimaryKey])
		if err != nil {
			return nil, err
		}
		if _, ok := pos[k]; ok {
			return nil, errors.Wrapf(ErrDuplicateKey, "key %v", k)
		}
		keys[i] = k
		pos[k] = i
	}

	cols := []series.Series{keySeries(IndexColumn, keys)}
	for _, i := range fields {
		vals := make([]any, n)
		for j, row := range rows {
			vals[j] = row[attrs[i].Name]
		}
		s, err := CastToDType(vals, dtypes[i], attrs[i].ColumnName(), n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, s)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "build frame")
	}

	for _, i := range computed {
		vals, err := evaluate(ctx, src, attrs[i], pos)
		if err != nil {
			return nil, err
		}
		s, err := CastToDType(vals, dtypes[i], attrs[i].ColumnName(), n)
		if err != nil {
			return nil, err
		}
		if df = df.Mutate(s); df.Err != nil {
			return nil, errors.Wrapf(df.Err, "add column '%s'", s.Name)
		}
	}

	if explicit {
		order := []string{IndexColumn}
		for _, a := range attrs {
			if !slices.Contains(order, a.ColumnName()) {
				order = append(order, a.ColumnName())
			}
		}
		if df = df.Select(order); df.Err != nil {
			return nil, errors.Wrap(df.Err, "order columns")
		}
	}

	link, err := newLink(ctx, src)
	if err != nil {
		return nil, err
	}
	log().Debug("view built", "rows", n, "fields", len(fields), "computed", len(computed))
	return &View[K, R]{DataFrame: df, index: IndexColumn, keyed: true, link: link}, nil
}

// Evaluates a property or method attribute with one pass over the records,
// aligning the values with the projected rows.
func evaluate[K Key, R any](ctx context.Context, src Source[K, R], a Attr, pos map[K]int) ([]any, error) {
	recs, err := src.Iterate(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "iterate records for '%s'", a.ColumnName())
	}
	vals := make([]any, len(pos))
	for _, rec := range recs {
		k, err := src.KeyOf(rec)
		if err != nil {
			return nil, err
		}
		i, ok := pos[k]
		if !ok {
			return nil, errors.Errorf("record %v was not projected", k)
		}
		v, err := a.Value(rec)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// The columns of an empty view are the index and the projected fields.
func emptyView[K Key, R any](attrs []Attr, fields []int) *View[K, R] {
	cols := []series.Series{keySeries[K](IndexColumn, nil)}
	for _, i := range fields {
		cols = append(cols, emptySeries(attrs[i].ColumnName(), series.String))
	}
	return &View[K, R]{DataFrame: dataframe.New(cols...), index: IndexColumn, keyed: true}
}

// FromFrame wraps plain tabular data. The view has no link; index names the
// column holding its row keys and may be empty.
func FromFrame[K Key, R any](df dataframe.DataFrame, index string) *View[K, R] {
	return &View[K, R]{DataFrame: df, index: index, keyed: index != ""}
}

// Index returns the name of the index column.
func (v *View[K, R]) Index() string {
	return v.index
}

// Keys returns the row keys, in row order.
func (v *View[K, R]) Keys() ([]K, error) {
	if v.index == "" || !slices.Contains(v.Names(), v.index) {
		return nil, ErrNoIndex
	}
	s := v.Col(v.index)
	keys := make([]K, s.Len())
	for i := range keys {
		k, err := ToKey[K](s.Elem(i).Val())
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		keys[i] = k
	}
	return keys, nil
}

// Columns returns the names of the data columns.
func (v *View[K, R]) Columns() []string {
	var result []string
	for _, name := range v.Names() {
		if name != v.index {
			result = append(result, name)
		}
	}
	return result
}

func (v *View[K, R]) Len() int {
	return v.Nrow()
}

func (v *View[K, R]) Empty() bool {
	return v.Nrow() == 0
}

// Linked reports whether the view has a record source link. A view derived
// from an unlinked view is silently unlinked too.
func (v *View[K, R]) Linked() bool {
	return v.link != nil
}

func (v *View[K, R]) Link() *Link[K, R] {
	return v.link
}

// ToDataFrame returns a copy of the underlying frame, without the link.
func (v *View[K, R]) ToDataFrame() dataframe.DataFrame {
	return v.DataFrame.Copy()
}

// ToSource returns the linked source filtered to the current row keys.
func (v *View[K, R]) ToSource() (Source[K, R], error) {
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
	for _, k := range keys {
		if !v.link.Has(k) {
			return nil, &LookupError{Key: k}
		}
	}
	return v.link.src.Filter(keys), nil
}

// SetIndex makes col the index column, in place. Unless col is the current
// index, the view no longer maps back to the source with ToSource.
func (v *View[K, R]) SetIndex(col string) error {
	if !slices.Contains(v.Names(), col) {
		return errors.Errorf("no column '%s'", col)
	}
	if col != v.index {
		v.index = col
		v.keyed = false
	}
	return nil
}

// Reindex reorders the rows of the view to keys, in place.
func (v *View[K, R]) Reindex(keys []K) error {
	rows, err := v.positions(keys)
	if err != nil {
		return err
	}
	df := v.DataFrame.Subset(rows)
	if df.Err != nil {
		return df.Err
	}
	v.DataFrame = df
	return nil
}

// Relink replaces the link with one holding exactly the records of the
// current row keys, read again from the source.
func (v *View[K, R]) Relink(ctx context.Context) error {
	if v.link == nil {
		return ErrNoLink
	}
	if !v.keyed {
		return ErrIndexRedefined
	}
	keys, err := v.Keys()
	if err != nil {
		return err
	}
	link, err := newLink(ctx, v.link.src.Filter(keys))
	if err != nil {
		return err
	}
	if link.Len() != len(keys) {
		log().Warn("relinked source does not hold every row key",
			"rows", len(keys), "records", link.Len())
	}
	link.src = v.link.src
	v.link = link
	return nil
}
