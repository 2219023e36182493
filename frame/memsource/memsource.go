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

// Package memsource implements a frame.Source over records held in memory.
// Every backend call is counted, which makes it the source of choice for
// checking how often a view touches its source.
package memsource

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"qframe/frame"
)

// Stats counts the calls that reach the records of a source.
type Stats struct {
	Lookups     int
	Projections int
	Iterations  int
	Counts      int
}

func (s *Stats) Total() int {
	return s.Lookups + s.Projections + s.Iterations + s.Counts
}

func (s *Stats) Reset() {
	*s = Stats{}
}

type Source[K frame.Key, R any] struct {
	schema  frame.Schema
	records []R
	key     func(R) (K, error)
	order   string
	stats   *Stats
}

var _ frame.Source[int, any] = (*Source[int, any])(nil)

// New returns a source over records, key returns the primary key of a
// record. Sources derived with Filter and OrderBy share the Stats of the
// source they were derived from.
func New[K frame.Key, R any](schema frame.Schema, key func(R) (K, error), records ...R) *Source[K, R] {
	return &Source[K, R]{
		schema:  schema,
		records: records,
		key:     key,
		stats:   &Stats{}}
}

// Structs returns a source over struct records, or pointers to structs. The
// fields of the schema are the exported fields of R, named by their frame
// or json tag when they have one.
func Structs[K frame.Key, R any](pk string, records ...R) (*Source[K, R], error) {
	t := reflect.TypeOf((*R)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Errorf("%s is not a struct", t)
	}
	var fields []string
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := f.Name
		for _, tag := range []string{"frame", "json"} {
			if v, ok := f.Tag.Lookup(tag); ok {
				name, _, _ = strings.Cut(v, ",")
				break
			}
		}
		if name == "-" || name == "" {
			continue
		}
		fields = append(fields, name)
	}
	if !slices.Contains(fields, pk) {
		return nil, errors.Errorf("%s has no field '%s'", t, pk)
	}
	return New(frame.Schema{PrimaryKey: pk, Fields: fields}, resolveKey[K, R](pk), records...), nil
}

// Maps returns a source over rows. Fields are the keys found in the rows,
// primary key first and the others sorted.
func Maps[K frame.Key](pk string, rows []map[string]any) (*Source[K, map[string]any], error) {
	seen := map[string]bool{pk: true}
	var rest []string
	for i, row := range rows {
		if _, ok := row[pk]; !ok {
			return nil, errors.Errorf("row %d has no '%s'", i, pk)
		}
		for k := range row {
			if !seen[k] {
				seen[k] = true
				rest = append(rest, k)
			}
		}
	}
	sort.Strings(rest)
	schema := frame.Schema{PrimaryKey: pk, Fields: append([]string{pk}, rest...)}
	return New(schema, resolveKey[K, map[string]any](pk), rows...), nil
}

func resolveKey[K frame.Key, R any](pk string) func(R) (K, error) {
	return func(rec R) (K, error) {
		v, err := frame.Resolve(rec, pk)
		if err != nil {
			var zero K
			return zero, err
		}
		return frame.ToKey[K](v)
	}
}

// Stats returns the call counters shared by s and its derived sources.
func (s *Source[K, R]) Stats() *Stats {
	return s.stats
}

func (s *Source[K, R]) derive(records []R, order string) *Source[K, R] {
	return &Source[K, R]{
		schema:  s.schema,
		records: records,
		key:     s.key,
		order:   order,
		stats:   s.stats}
}

func (s *Source[K, R]) Schema() frame.Schema {
	return s.schema
}

func (s *Source[K, R]) Ordered() bool {
	return s.order != ""
}

func (s *Source[K, R]) OrderBy(field string) frame.Source[K, R] {
	if s.order == field {
		return s
	}
	records := slices.Clone(s.records)
	vals := make(map[int]any, len(records))
	for i, rec := range records {
		vals[i], _ = frame.Resolve(rec, field)
	}
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return less(vals[idx[a]], vals[idx[b]])
	})
	for i, j := range idx {
		records[i] = s.records[j]
	}
	return s.derive(records, field)
}

func (s *Source[K, R]) Filter(keys []K) frame.Source[K, R] {
	want := make(map[K]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var records []R
	for _, rec := range s.records {
		if k, err := s.key(rec); err == nil && want[k] {
			records = append(records, rec)
		}
	}
	return s.derive(records, s.order)
}

func (s *Source[K, R]) Lookup(_ context.Context, key K) (R, error) {
	s.stats.Lookups++
	for _, rec := range s.records {
		if k, err := s.key(rec); err == nil && k == key {
			return rec, nil
		}
	}
	var zero R
	return zero, errors.Wrapf(frame.ErrNotFound, "key %v", key)
}

func (s *Source[K, R]) Project(_ context.Context, fields []string) ([]map[string]any, error) {
	s.stats.Projections++
	rows := make([]map[string]any, len(s.records))
	for i, rec := range s.records {
		row := make(map[string]any, len(fields))
		for _, f := range fields {
			v, err := frame.Resolve(rec, f)
			if err != nil {
				return nil, err
			}
			row[f] = v
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *Source[K, R]) Iterate(_ context.Context) ([]R, error) {
	s.stats.Iterations++
	return slices.Clone(s.records), nil
}

func (s *Source[K, R]) Count(_ context.Context) (int, error) {
	s.stats.Counts++
	return len(s.records), nil
}

func (s *Source[K, R]) KeyOf(rec R) (K, error) {
	return s.key(rec)
}

// Orders nils first, then by value. Values of different kinds compare by
// their text.
func less(a, b any) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return x < y
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Before(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return !x && y
		}
	}
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return x < y
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
