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

// Package sqlsource implements a frame.Source over a database/sql table.
// Statements are only built and run when a view asks for data.
package sqlsource

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"qframe/frame"
)

// Table maps a database table.
type Table struct {
	Name       string   // eg. "public"."person" or person
	PrimaryKey string   // primary key column
	Columns    []string // concrete columns, in select order
}

// Placeholder renders the n-th (1 based) statement parameter.
type Placeholder func(n int) string

// Question renders ? parameters (MySQL, SQLite).
func Question(int) string { return "?" }

// Dollar renders $n parameters (PostgreSQL).
func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

type Option func(*options)

type options struct {
	placeholder Placeholder
}

func WithPlaceholder(p Placeholder) Option {
	return func(o *options) { o.placeholder = p }
}

type Source[K frame.Key] struct {
	db       *sql.DB
	table    Table
	opts     options
	keys     []K
	filtered bool
	order    string
}

var _ frame.Source[int64, *Row] = (*Source[int64])(nil)

func New[K frame.Key](db *sql.DB, table Table, opts ...Option) *Source[K] {
	o := options{placeholder: Question}
	for _, opt := range opts {
		opt(&o)
	}
	return &Source[K]{db: db, table: table, opts: o}
}

// Describe returns the table name with its column names, read from an empty
// result of the table.
func Describe(ctx context.Context, db *sql.DB, name, pk string) (Table, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s WHERE 1 = 0", quote(name)))
	if err != nil {
		return Table{}, errors.Wrapf(err, "describe %s", name)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return Table{}, err
	}
	if !slices.Contains(cols, pk) {
		return Table{}, errors.Errorf("table %s has no column '%s'", name, pk)
	}
	return Table{Name: name, PrimaryKey: pk, Columns: cols}, nil
}

func (s *Source[K]) clone() *Source[K] {
	c := *s
	return &c
}

func (s *Source[K]) Schema() frame.Schema {
	return frame.Schema{PrimaryKey: s.table.PrimaryKey, Fields: s.table.Columns}
}

func (s *Source[K]) Ordered() bool {
	return s.order != ""
}

func (s *Source[K]) OrderBy(field string) frame.Source[K, *Row] {
	if s.order == field {
		return s
	}
	c := s.clone()
	c.order = field
	return c
}

// Filter restricts the source to keys, further filters intersect.
func (s *Source[K]) Filter(keys []K) frame.Source[K, *Row] {
	c := s.clone()
	if s.filtered {
		want := make(map[K]bool, len(keys))
		for _, k := range keys {
			want[k] = true
		}
		c.keys = nil
		for _, k := range s.keys {
			if want[k] {
				c.keys = append(c.keys, k)
			}
		}
	} else {
		c.keys = append([]K(nil), keys...)
	}
	c.filtered = true
	return c
}

func quote(name string) string {
	if strings.HasPrefix(name, `"`) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s *Source[K]) columns(fields []string) string {
	if len(fields) == 0 {
		return "*"
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quote(f)
	}
	return strings.Join(quoted, ", ")
}

// Builds the where clause of the key filter, and its arguments.
func (s *Source[K]) where(n int) (string, []any) {
	if !s.filtered {
		return "", nil
	}
	if len(s.keys) == 0 {
		return " WHERE 1 = 0", nil
	}
	params := make([]string, len(s.keys))
	args := make([]any, len(s.keys))
	for i, k := range s.keys {
		params[i] = s.opts.placeholder(n + i + 1)
		args[i] = k
	}
	return fmt.Sprintf(" WHERE %s IN (%s)", quote(s.table.PrimaryKey), strings.Join(params, ", ")), args
}

func (s *Source[K]) selectStmt(fields []string) (string, []any) {
	where, args := s.where(0)
	stmt := fmt.Sprintf("SELECT %s FROM %s%s", s.columns(fields), quote(s.table.Name), where)
	if s.order != "" {
		stmt += " ORDER BY " + quote(s.order)
	}
	return stmt, args
}

func (s *Source[K]) query(ctx context.Context, stmt string, args []any) ([]*Row, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query %s", s.table.Name)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var result []*Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrapf(err, "scan %s", s.table.Name)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		result = append(result, NewRow(cols, vals))
	}
	return result, rows.Err()
}

func (s *Source[K]) Lookup(ctx context.Context, key K) (*Row, error) {
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		s.columns(s.table.Columns), quote(s.table.Name),
		quote(s.table.PrimaryKey), s.opts.placeholder(1))
	rows, err := s.query(ctx, stmt, []any{key})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(frame.ErrNotFound, "%s %v", s.table.Name, key)
	}
	return rows[0], nil
}

func (s *Source[K]) Project(ctx context.Context, fields []string) ([]map[string]any, error) {
	stmt, args := s.selectStmt(fields)
	rows, err := s.query(ctx, stmt, args)
	if err != nil {
		return nil, err
	}
	result := make([]map[string]any, len(rows))
	for i, row := range rows {
		result[i] = row.Map()
	}
	return result, nil
}

func (s *Source[K]) Iterate(ctx context.Context) ([]*Row, error) {
	stmt, args := s.selectStmt(s.table.Columns)
	return s.query(ctx, stmt, args)
}

func (s *Source[K]) Count(ctx context.Context) (int, error) {
	where, args := s.where(0)
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", quote(s.table.Name), where)
	var n int
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, errors.Wrapf(err, "count %s", s.table.Name)
	}
	return n, nil
}

func (s *Source[K]) KeyOf(row *Row) (K, error) {
	v, ok := row.Attr(s.table.PrimaryKey)
	if !ok {
		var zero K
		return zero, errors.Errorf("row has no '%s'", s.table.PrimaryKey)
	}
	return frame.ToKey[K](v)
}
