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

// Package raisource implements a frame.Source over the tuples of a relation
// returned by a RelationalAI transaction.
package raisource

import (
	"cmp"
	"context"
	"fmt"
	"math/big"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/relationalai/rai-sdk-go/rai"
	"github.com/shopspring/decimal"

	"qframe/frame"
)

// Relation is the part of rai.Relation a source reads.
type Relation interface {
	NumRows() int
	NumCols() int
	Row(int) []any
}

var _ Relation = rai.Relation(nil)

// Tuple is one row of a relation, with named columns.
type Tuple struct {
	fields []string
	values []any
}

func (t *Tuple) Values() []any {
	return t.values
}

func (t *Tuple) Attr(name string) (any, bool) {
	for i, f := range t.fields {
		if strings.EqualFold(f, name) {
			return t.values[i], true
		}
	}
	return nil, false
}

type Source[K frame.Key] struct {
	fields []string
	tuples []*Tuple
	order  string
}

var _ frame.Source[int64, *Tuple] = (*Source[int64])(nil)

// New returns a source over the rows of rel. fields name the columns of
// rel, the first one is the primary key.
func New[K frame.Key](rel Relation, fields ...string) (*Source[K], error) {
	if len(fields) == 0 {
		return nil, errors.New("missing field names")
	}
	if len(fields) != rel.NumCols() {
		return nil, errors.Errorf("relation has %d columns, %d fields given", rel.NumCols(), len(fields))
	}
	tuples := make([]*Tuple, rel.NumRows())
	for i := range tuples {
		tuples[i] = &Tuple{fields: fields, values: rel.Row(i)}
	}
	return &Source[K]{fields: fields, tuples: tuples}, nil
}

// Output runs source as a read only transaction and returns the relation
// it outputs, without its name column.
func Output(client *rai.Client, database, engine, source string) (rai.Relation, error) {
	rsp, err := client.Execute(database, engine, source, nil, true)
	if err != nil {
		return nil, err
	}
	rc := rsp.Relations("output")
	if len(rc) == 0 {
		return nil, errors.New("transaction has no output")
	}
	return rc.Union().Slice(1), nil
}

func (s *Source[K]) derive(tuples []*Tuple, order string) *Source[K] {
	return &Source[K]{fields: s.fields, tuples: tuples, order: order}
}

func (s *Source[K]) Schema() frame.Schema {
	return frame.Schema{PrimaryKey: s.fields[0], Fields: s.fields}
}

func (s *Source[K]) Ordered() bool {
	return s.order != ""
}

func (s *Source[K]) OrderBy(field string) frame.Source[K, *Tuple] {
	if s.order == field {
		return s
	}
	tuples := slices.Clone(s.tuples)
	sort.SliceStable(tuples, func(i, j int) bool {
		a, _ := tuples[i].Attr(field)
		b, _ := tuples[j].Attr(field)
		return compare(a, b) < 0
	})
	return s.derive(tuples, field)
}

func (s *Source[K]) Filter(keys []K) frame.Source[K, *Tuple] {
	want := make(map[K]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var tuples []*Tuple
	for _, t := range s.tuples {
		if k, err := s.KeyOf(t); err == nil && want[k] {
			tuples = append(tuples, t)
		}
	}
	return s.derive(tuples, s.order)
}

func (s *Source[K]) Lookup(_ context.Context, key K) (*Tuple, error) {
	for _, t := range s.tuples {
		if k, err := s.KeyOf(t); err == nil && k == key {
			return t, nil
		}
	}
	return nil, errors.Wrapf(frame.ErrNotFound, "key %v", key)
}

func (s *Source[K]) Project(_ context.Context, fields []string) ([]map[string]any, error) {
	rows := make([]map[string]any, len(s.tuples))
	for i, t := range s.tuples {
		row := make(map[string]any, len(fields))
		for _, f := range fields {
			v, ok := t.Attr(f)
			if !ok {
				return nil, errors.Errorf("relation has no field '%s'", f)
			}
			row[f] = v
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *Source[K]) Iterate(_ context.Context) ([]*Tuple, error) {
	return slices.Clone(s.tuples), nil
}

func (s *Source[K]) Count(_ context.Context) (int, error) {
	return len(s.tuples), nil
}

func (s *Source[K]) KeyOf(t *Tuple) (K, error) {
	return frame.ToKey[K](t.values[0])
}

// Orders values of the same kind, others by their text.
func compare(a, b any) int {
	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case *big.Int:
		if y, ok := b.(*big.Int); ok {
			return x.Cmp(y)
		}
	case decimal.Decimal:
		if y, ok := b.(decimal.Decimal); ok {
			return x.Cmp(y)
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
