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
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qframe/frame"
)

func double(it frame.Item) (any, error) {
	age, err := it.Get("age")
	if err != nil {
		return nil, err
	}
	return age.(int) * 2, nil
}

func greet(it frame.Item) (any, error) {
	return it.Call("Greet")
}

func TestAddColRows(t *testing.T) {
	src := newSource(t, people()...)
	v := newView(t, src, frame.Field("name"), frame.Field("age"))
	before := *src.Stats()

	require.NoError(t, v.AddCol("double", double, true))
	assert.Equal(t, []any{60, 50, 82}, column(t, v, "double"))
	assert.Equal(t, before, *src.Stats())
	assert.Equal(t, []int{1, 2, 3}, keys(t, v))
}

func TestAddColRecords(t *testing.T) {
	src := newSource(t, people()...)
	v := newView(t, src, frame.Field("name"))
	before := *src.Stats()

	require.NoError(t, v.AddCol("greeting", greet, false))
	assert.Equal(t, []any{"hi alice", "hi bob", "hi carol"}, column(t, v, "greeting"))
	assert.Equal(t, before, *src.Stats(), "records come from the link")
	assert.Equal(t, []int{1, 2, 3}, keys(t, v))
}

func TestAddColFast(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))

	err := v.AddCol("greeting", greet, true)
	assert.True(t, errors.Is(err, frame.ErrNotRecord))
	assert.NotContains(t, v.Names(), "greeting")
}

func TestAddColPanic(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))

	// age is not a column, the assertion panics on rows
	err := v.AddCol("double", func(it frame.Item) (any, error) {
		age, _ := it.Get("age")
		return age.(int) * 2, nil
	}, false)
	require.NoError(t, err)
	assert.Equal(t, []any{60, 50, 82}, column(t, v, "double"))
}

func TestAddColRecordOf(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))

	err := v.AddCol("city", func(it frame.Item) (any, error) {
		p, err := frame.RecordOf[*person](it)
		if err != nil {
			return nil, err
		}
		return p.Address.City, nil
	}, false)
	require.NoError(t, err)
	assert.Equal(t, []any{"Lima", "Kyiv", "Oslo"}, column(t, v, "city"))
}

func TestAddColMap(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))

	err := v.AddCol("ignored", func(it frame.Item) (any, error) {
		name, err := it.Get("name")
		if err != nil {
			return nil, err
		}
		s := name.(string)
		return map[string]any{"upper": strings.ToUpper(s), "len": len(s)}, nil
	}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{frame.IndexColumn, "name", "len", "upper"}, v.Names())
	assert.Equal(t, []any{5, 3, 5}, column(t, v, "len"))
	assert.Equal(t, []any{"ALICE", "BOB", "CAROL"}, column(t, v, "upper"))
}

func TestAddColValues(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))

	err := v.AddCol("ignored", func(it frame.Item) (any, error) {
		g, err := it.Call("Greet")
		if err != nil {
			return nil, err
		}
		return frame.Values{{Name: "greeting", Value: g}, {Name: "key", Value: it.Key()}}, nil
	}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{frame.IndexColumn, "name", "greeting", "key"}, v.Names())
	assert.Equal(t, []any{1, 2, 3}, column(t, v, "key"))
}

func TestAddColMissingKey(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))
	moved := v.Mutate(series.New([]int{1, 2, 7}, series.Int, frame.IndexColumn))
	require.NoError(t, moved.Err)
	require.True(t, moved.Linked())

	err := moved.AddCol("greeting", greet, false)
	var lerr *frame.LookupError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, 7, lerr.Key)
	assert.Contains(t, lerr.Error(), "index")
}

func TestAddColNoLink(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))
	plain := frame.FromFrame[int, *person](v.ToDataFrame(), frame.IndexColumn)

	assert.Equal(t, frame.ErrNoLink, plain.AddCol("greeting", greet, false))
}

func TestAddColIndex(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))
	assert.Error(t, v.AddCol(frame.IndexColumn, double, false))
}

func TestColumn(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"), frame.Field("age"))

	fn, err := frame.Column(v, "double", true, double)
	require.NoError(t, err)
	require.NotNil(t, fn)
	assert.Equal(t, []any{60, 50, 82}, column(t, v, "double"))
}

func TestAddColRedefinedIndex(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))
	ranked := v.Mutate(series.New([]int{3, 1, 2}, series.Int, "rank"))
	require.NoError(t, ranked.Err)
	require.NoError(t, ranked.SetIndex("rank"))

	err := ranked.AddCol("greeting", greet, false)
	assert.True(t, errors.Is(err, frame.ErrIndexRedefined))
	assert.NotContains(t, ranked.Names(), "greeting")

	require.NoError(t, ranked.AddCol("double", func(it frame.Item) (any, error) {
		rank, err := it.Get("rank")
		if err != nil {
			return nil, err
		}
		return rank.(int) * 2, nil
	}, false))
	assert.Equal(t, []any{6, 2, 4}, column(t, ranked, "double"))
}

func TestAddColMixedResults(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))

	err := v.AddCol("ignored", func(it frame.Item) (any, error) {
		if it.Key() == 1 {
			return map[string]any{"upper": "ALICE"}, nil
		}
		return "plain", nil
	}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
	assert.NotContains(t, v.Names(), "upper")

	err = v.AddCol("ignored", func(it frame.Item) (any, error) {
		if it.Key() == 1 {
			return frame.Values{{Name: "upper", Value: "ALICE"}}, nil
		}
		return nil, nil
	}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected Values")
}

func TestAddColBadKeys(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"), frame.Field("age"))
	bad := v.Mutate(series.New([]string{"a", "b", "c"}, series.String, frame.IndexColumn))
	require.NoError(t, bad.Err)

	err := bad.AddCol("double", double, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad integer key")

	noIndex := v.Select([]string{"name", "age"})
	require.NoError(t, noIndex.AddCol("double", double, true))
	assert.Equal(t, []any{60, 50, 82}, column(t, noIndex, "double"))
}
