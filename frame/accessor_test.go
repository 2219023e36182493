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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qframe/frame"
)

func TestILoc(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"), frame.Field("age"))

	rows := v.ILoc().Rows(2, 0)
	require.NoError(t, rows.Err)
	assert.Equal(t, []int{3, 1}, keys(t, rows))
	assert.Same(t, v.Link(), rows.Link())

	bad := v.ILoc().Rows(0, 7)
	assert.Error(t, bad.Err)
	assert.True(t, bad.Linked())

	rng := v.ILoc().Range(1, 10)
	assert.Equal(t, []int{2, 3}, keys(t, rng))
	assert.True(t, rng.Linked())

	cols, err := v.ILoc().Cols(1)
	require.NoError(t, err)
	assert.Equal(t, []string{frame.IndexColumn, "age"}, cols.Names())
	assert.Same(t, v.Link(), cols.Link())

	_, err = v.ILoc().Cols(5)
	assert.Error(t, err)

	x, err := v.IAt(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, x)

	_, err = v.IAt(3, 0)
	assert.Error(t, err)
}

func TestLoc(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"), frame.Field("age"))

	rows, err := v.Loc().Rows(3, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{"carol", "bob"}, column(t, rows, "name"))
	assert.Same(t, v.Link(), rows.Link())

	_, err = v.Loc().Rows(8)
	assert.True(t, errors.Is(err, frame.ErrNotFound))

	cols, err := v.Loc().Cols("name")
	require.NoError(t, err)
	assert.Equal(t, []string{frame.IndexColumn, "name"}, cols.Names())

	_, err = v.Loc().Cols("height")
	assert.Error(t, err)

	x, err := v.At(3, "age")
	require.NoError(t, err)
	assert.Equal(t, 41, x)
}

// An accessor keeps the link of the view it was created from.
func TestAccessorCapturesLink(t *testing.T) {
	v := newView(t, newSource(t, people()...), frame.Field("name"))
	loc := v.ILoc()
	link := v.Link()

	require.NoError(t, v.Relink(context.Background()))
	require.NotSame(t, link, v.Link())

	assert.Same(t, link, loc.Rows(0).Link())
	assert.Same(t, v.Link(), v.ILoc().Rows(0).Link())
}
