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

package frame_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"qframe/frame"
	"qframe/frame/memsource"
)

var errBadAge = errors.New("bad age")

type address struct {
	City string `frame:"city"`
}

type person struct {
	ID      int             `frame:"id"`
	Name    string          `frame:"name"`
	Age     int             `frame:"age"`
	Salary  decimal.Decimal `frame:"salary"`
	Address *address        `frame:"-"`
}

func (p *person) Greet() string {
	return "hi " + p.Name
}

func (p *person) Older(years int) int {
	return p.Age + years
}

func (p *person) Check() (bool, error) {
	if p.Age < 0 {
		return false, errBadAge
	}
	return true, nil
}

// Not in key order, views are ordered by key.
func people() []*person {
	return []*person{
		{ID: 3, Name: "carol", Age: 41, Salary: decimal.New(510050, -2), Address: &address{City: "Oslo"}},
		{ID: 1, Name: "alice", Age: 30, Salary: decimal.New(4200, 0), Address: &address{City: "Lima"}},
		{ID: 2, Name: "bob", Age: 25, Salary: decimal.New(390025, -2), Address: &address{City: "Kyiv"}},
	}
}

func newSource(t *testing.T, recs ...*person) *memsource.Source[int, *person] {
	t.Helper()
	src, err := memsource.Structs[int, *person]("id", recs...)
	require.NoError(t, err)
	return src
}

func newView(t *testing.T, src *memsource.Source[int, *person], attrs ...frame.Attr) *frame.View[int, *person] {
	t.Helper()
	v, err := frame.NewView[int, *person](context.Background(), src, attrs...)
	require.NoError(t, err)
	return v
}

func column(t *testing.T, v *frame.View[int, *person], name string) []any {
	t.Helper()
	require.Contains(t, v.Names(), name)
	s := v.Col(name)
	result := make([]any, s.Len())
	for i := range result {
		result[i] = s.Elem(i).Val()
	}
	return result
}

func keys(t *testing.T, v *frame.View[int, *person]) []int {
	t.Helper()
	ks, err := v.Keys()
	require.NoError(t, err)
	return ks
}
