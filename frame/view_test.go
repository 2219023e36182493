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

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qframe/frame"
	"qframe/frame/memsource"
)

func TestNewView(t *testing.T) {
	src := newSource(t, people()...)
	v := newView(t, src, frame.Field("name"), frame.Meth("Greet").As("greeting"))

	assert.Equal(t, []string{"name", "greeting"}, v.Columns())
	assert.Equal(t, []int{1, 2, 3}, keys(t, v))
	assert.Equal(t, []any{"alice", "bob", "carol"}, column(t, v, "name"))
	assert.Equal(t, []any{"hi alice", "hi bob", "hi carol"}, column(t, v, "greeting"))
	assert.True(t, v.Linked())
	assert.Equal(t, 3, v.Link().Len())

	x, err := v.At(2, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hi bob", x)
}

func TestNewViewDefaultColumns(t *testing.T) {
	src := newSource(t, people()...)
	v := newView(t, src)

	assert.Equal(t, src.Schema().Fields, v.Columns())
	assert.Equal(t, []string{"id", "name", "age", "salary"}, v.Columns())
	assert.Equal(t, series.Int, v.Col("age").Type())
	assert.Equal(t, []any{30, 25, 41}, column(t, v, "age"))
	assert.Equal(t, []any{"4200", "3900.25", "5100.5"}, column(t, v, "salary"))
}

func TestNewViewColumnOrder(t *testing.T) {
	src := newSource(t, people()...)
	v := newView(t, src,
		frame.Prop("address.city"),
		frame.Field("age"),
		frame.Meth("Older", 10).As("later"),
		frame.Field("name"))

	assert.Equal(t, []string{frame.IndexColumn, "address_city", "age", "later", "name"}, v.Names())
	assert.Equal(t, []any{"Lima", "Kyiv", "Oslo"}, column(t, v, "address_city"))
	assert.Equal(t, []any{40, 35, 51}, column(t, v, "later"))
}

func TestNewViewQueries(t *testing.T) {
	src := newSource(t, people()...)
	newView(t, src, frame.Field("name"))
	assert.Equal(t, memsource.Stats{Projections: 1, Iterations: 1}, *src.Stats())

	src.Stats().Reset()
	newView(t, src, frame.Field("name"), frame.Prop("address.city"), frame.Meth("Greet"))
	assert.Equal(t, memsource.Stats{Projections: 1, Iterations: 3}, *src.Stats())
}

func TestNewViewEmpty(t *testing.T) {
	src := newSource(t)
	v := newView(t, src, frame.Field("name"), frame.Meth("Greet"))

	assert.True(t, v.Empty())
	assert.False(t, v.Linked())
	assert.Equal(t, []string{"name"}, v.Columns())
	assert.Equal(t, 0, src.Stats().Iterations)

	called := false
	err := v.AddCol("x", func(frame.Item) (any, error) {
		called = true
		return 1, nil
	}, false)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, []string{"name"}, v.Columns())
}

func TestNewViewDTypes(t *testing.T) {
	src := newSource(t, people()...)
	v := newView(t, src,
		frame.Field("age").Typed("float"),
		frame.Field("salary").Typed("float").As("salary_f"),
		frame.Field("salary").Typed("decimal").As("salary_d"),
		frame.Meth("Check").Typed("int"))

	assert.Equal(t, series.Float, v.Col("age").Type())
	assert.Equal(t, []any{30.0, 25.0, 41.0}, column(t, v, "age"))
	assert.Equal(t, []any{4200.0, 3900.25, 5100.5}, column(t, v, "salary_f"))
	assert.Equal(t, []any{"4200", "3900.25", "5100.5"}, column(t, v, "salary_d"))
	assert.Equal(t, []any{1, 1, 1}, column(t, v, "Check"))
}

func TestNewViewUnknownDType(t *testing.T) {
	src := newSource(t, people()...)
	_, err := frame.NewView[int, *person](context.Background(), src, frame.Field("age").Typed("complex"))

	var cerr *frame.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "complex", cerr.DType)
	assert.Equal(t, 0, src.Stats().Total())
}

func TestNewViewErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("resolution", func(t *testing.T) {
		src := newSource(t, people()...)
		_, err := frame.NewView[int, *person](ctx, src, frame.Prop("address.zip"))
		var rerr *frame.ResolutionError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, "zip", rerr.Segment)
	})

	t.Run("method error", func(t *testing.T) {
		recs := append(people(), &person{ID: 4, Name: "dan", Age: -1})
		_, err := frame.NewView[int, *person](ctx, newSource(t, recs...), frame.Meth("Check"))
		assert.Equal(t, errBadAge, err)
	})

	t.Run("duplicate key", func(t *testing.T) {
		src, err := memsource.Maps[int]("id", []map[string]any{
			{"id": 1, "name": "a"},
			{"id": 1, "name": "b"}})
		require.NoError(t, err)
		_, err = frame.NewView[int, map[string]any](ctx, src)
		assert.True(t, errors.Is(err, frame.ErrDuplicateKey))
	})

	t.Run("reserved column", func(t *testing.T) {
		_, err := frame.NewView[int, *person](ctx, newSource(t, people()...), frame.Field("name").As(frame.IndexColumn))
		assert.Error(t, err)
	})

	t.Run("reserved field", func(t *testing.T) {
		src, err := memsource.Maps[int]("id", []map[string]any{{"id": 1, frame.IndexColumn: "x"}})
		require.NoError(t, err)
		_, err = frame.NewView[int, map[string]any](ctx, src)
		assert.Error(t, err)
	})
}

func TestToSource(t *testing.T) {
	ctx := context.Background()
	src := newSource(t, people()...)
	v := newView(t, src, frame.Field("name"), frame.Field("age"))

	sub, err := v.Filter(dataframe.F{Colname: "age", Comparator: series.Greater, Comparando: 26}).ToSource()
	require.NoError(t, err)
	n, err := sub.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recs, err := sub.Iterate(ctx)
	require.NoError(t, err)
	var names []string
	for _, rec := range recs {
		names = append(names, rec.Name)
	}
	assert.Equal(t, []string{"alice", "carol"}, names)
}

func TestToSourceErrors(t *testing.T) {
	src := newSource(t, people()...)
	v := newView(t, src, frame.Field("name"))

	_, err := frame.FromFrame[int, *person](v.ToDataFrame(), frame.IndexColumn).ToSource()
	assert.Equal(t, frame.ErrNoLink, err)

	require.NoError(t, v.SetIndex("name"))
	_, err = v.ToSource()
	assert.Equal(t, frame.ErrIndexRedefined, err)
	assert.Equal(t, "name", v.Index())
}

func TestReindex(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))

	require.NoError(t, v.Reindex([]int{3, 1, 2}))
	assert.Equal(t, []int{3, 1, 2}, keys(t, v))
	assert.Equal(t, []any{"carol", "alice", "bob"}, column(t, v, "name"))

	err := v.Reindex([]int{9})
	assert.True(t, errors.Is(err, frame.ErrNotFound))
}

func TestRelink(t *testing.T) {
	src := newSource(t, people()...)
	v := newView(t, src, frame.Field("name"))

	sub := v.ILoc().Rows(0, 2)
	assert.Equal(t, 3, sub.Link().Len())
	require.NoError(t, sub.Relink(context.Background()))
	assert.Equal(t, 2, sub.Link().Len())
	assert.Equal(t, 3, v.Link().Len())
	assert.Equal(t, []int{1, 3}, sub.Link().Keys())
}

func TestToDataFrame(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))
	df := v.ToDataFrame()
	assert.Equal(t, v.Names(), df.Names())

	mutated := df.Mutate(series.New([]string{"x", "y", "z"}, series.String, "name"))
	require.NoError(t, mutated.Err)
	assert.Equal(t, "x", mutated.Col("name").Elem(0).Val())
	assert.Equal(t, []any{"alice", "bob", "carol"}, column(t, v, "name"))
}

func TestNewViewIndexNamedKey(t *testing.T) {
	ctx := context.Background()
	src, err := memsource.Maps[int](frame.IndexColumn, []map[string]any{
		{frame.IndexColumn: 2, "name": "bob"},
		{frame.IndexColumn: 1, "name": "alice"}})
	require.NoError(t, err)

	v, err := frame.NewView[int, map[string]any](ctx, src)
	require.NoError(t, err)
	assert.Equal(t, []string{frame.IndexColumn, "name"}, v.Names())
	assert.Equal(t, []string{"name"}, v.Columns())
	k, err := v.Keys()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, k)

	sub, err := v.ToSource()
	require.NoError(t, err)
	n, err := sub.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestViewSourceRoundTrip(t *testing.T) {
	ctx := context.Background()
	attrs := []frame.Attr{frame.Field("name"), frame.Field("age"), frame.Meth("Greet")}
	v := newView(t, newSource(t, people()...), attrs...)
	filtered := v.Filter(dataframe.F{Colname: "age", Comparator: series.Less, Comparando: 40})
	require.NoError(t, filtered.Err)

	sub, err := filtered.ToSource()
	require.NoError(t, err)
	again, err := frame.NewView[int, *person](ctx, sub, attrs...)
	require.NoError(t, err)

	assert.Equal(t, filtered.Names(), again.Names())
	for _, name := range filtered.Names() {
		assert.Equal(t, column(t, filtered, name), column(t, again, name), name)
	}
	assert.Equal(t, filtered.ToDataFrame().Records(), again.ToDataFrame().Records())
	assert.Equal(t, keys(t, filtered), keys(t, again))
}
