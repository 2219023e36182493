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

package memsource

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qframe/frame"
)

type item struct {
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
	Notes string  `json:"-"`
	stock int
}

func items() []item {
	return []item{
		{SKU: "c", Price: 3},
		{SKU: "a", Price: 5},
		{SKU: "b", Price: 1},
	}
}

func TestStructs(t *testing.T) {
	src, err := Structs[string, item]("sku", items()...)
	require.NoError(t, err)
	assert.Equal(t, frame.Schema{PrimaryKey: "sku", Fields: []string{"sku", "price"}}, src.Schema())
	assert.False(t, src.Ordered())

	_, err = Structs[string, item]("id", items()...)
	assert.Error(t, err)

	_, err = Structs[string, int]("id")
	assert.Error(t, err)
}

func TestMaps(t *testing.T) {
	src, err := Maps[int]("id", []map[string]any{
		{"id": 2.0, "name": "b"},
		{"id": 1.0, "name": "a", "age": 3}})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "age", "name"}, src.Schema().Fields)

	k, err := src.KeyOf(map[string]any{"id": 2.0})
	require.NoError(t, err)
	assert.Equal(t, 2, k)

	_, err = Maps[int]("id", []map[string]any{{"name": "x"}})
	assert.Error(t, err)
}

func TestOrderBy(t *testing.T) {
	ctx := context.Background()
	src, err := Structs[string, item]("sku", items()...)
	require.NoError(t, err)

	bySKU := src.OrderBy("sku")
	assert.True(t, bySKU.Ordered())
	assert.Same(t, bySKU, bySKU.OrderBy("sku"))
	recs, err := bySKU.Iterate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, skus(recs))

	recs, err = src.OrderBy("price").Iterate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, skus(recs))

	recs, err = src.Iterate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, skus(recs))
}

func TestFilterLookup(t *testing.T) {
	ctx := context.Background()
	src, err := Structs[string, item]("sku", items()...)
	require.NoError(t, err)

	sub := src.Filter([]string{"a", "c", "z"})
	n, err := sub.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rec, err := sub.Lookup(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 5.0, rec.Price)

	_, err = sub.Lookup(ctx, "b")
	assert.True(t, errors.Is(err, frame.ErrNotFound))

	rows, err := sub.Project(ctx, []string{"sku", "price"})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"sku": "c", "price": 3.0},
		{"sku": "a", "price": 5.0}}, rows)

	_, err = sub.Project(ctx, []string{"weight"})
	assert.Error(t, err)

	assert.Equal(t, Stats{Lookups: 2, Projections: 2, Counts: 1}, *src.Stats())
	assert.Equal(t, 5, src.Stats().Total())
}

func skus(recs []item) []string {
	var result []string
	for _, rec := range recs {
		result = append(result, rec.SKU)
	}
	return result
}
