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

// Views are saved as an Arrow IPC stream of their frame. The schema
// metadata records the index column and the keys of the link, so a restored
// view can be linked again to the source it came from.

import (
	"context"
	"io"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	json "github.com/goccy/go-json"
	"github.com/minio/highwayhash"
	"github.com/pkg/errors"
)

const (
	metaIndex    = "qframe.index"
	metaKeyed    = "qframe.keyed"
	metaLink     = "qframe.link"
	metaLinkHash = "qframe.link.hash"
)

var snapshotKey = []byte("qframe-snapshot-link-checksum-k!")

func linkHash(data []byte) (string, error) {
	hash, err := highwayhash.New64(snapshotKey)
	if err != nil {
		return "", err
	}
	if _, err = hash.Write(data); err != nil {
		return "", err
	}
	return strconv.FormatUint(hash.Sum64(), 16), nil
}

func arrowType(t series.Type) arrow.DataType {
	switch t {
	case series.Int:
		return arrow.PrimitiveTypes.Int64
	case series.Float:
		return arrow.PrimitiveTypes.Float64
	case series.Bool:
		return arrow.FixedWidthTypes.Boolean
	}
	return arrow.BinaryTypes.String
}

func (v *View[K, R]) snapshotSchema() (*arrow.Schema, error) {
	keys := []string{metaIndex, metaKeyed}
	vals := []string{v.index, strconv.FormatBool(v.keyed)}
	if v.link != nil {
		data, err := json.Marshal(v.link.Keys())
		if err != nil {
			return nil, errors.Wrap(err, "encode link keys")
		}
		sum, err := linkHash(data)
		if err != nil {
			return nil, err
		}
		keys = append(keys, metaLink, metaLinkHash)
		vals = append(vals, string(data), sum)
	}
	md := arrow.NewMetadata(keys, vals)

	names, types := v.Names(), v.Types()
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: arrowType(types[i]), Nullable: true}
	}
	return arrow.NewSchema(fields, &md), nil
}

// Snapshot writes v to w as an Arrow IPC stream.
func (v *View[K, R]) Snapshot(w io.Writer) error {
	if v.Err != nil {
		return errors.Wrap(v.Err, "snapshot of a failed frame")
	}
	schema, err := v.snapshotSchema()
	if err != nil {
		return err
	}
	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for j, name := range v.Names() {
		s := v.Col(name)
		for i := 0; i < s.Len(); i++ {
			e := s.Elem(i)
			fb := b.Field(j)
			if e.IsNA() {
				fb.AppendNull()
				continue
			}
			switch fb := fb.(type) {
			case *array.Int64Builder:
				x, err := e.Int()
				if err != nil {
					return errors.Wrapf(err, "column '%s'", name)
				}
				fb.Append(int64(x))
			case *array.Float64Builder:
				fb.Append(e.Float())
			case *array.BooleanBuilder:
				x, err := e.Bool()
				if err != nil {
					return errors.Wrapf(err, "column '%s'", name)
				}
				fb.Append(x)
			case *array.StringBuilder:
				fb.Append(e.String())
			}
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	return iw.Close()
}

// Restore reads a view written by Snapshot. If the view was linked and src
// is not nil, the link is rebuilt from the records of src with the saved
// keys. Otherwise the view is unlinked.
func Restore[K Key, R any](ctx context.Context, r io.Reader, src Source[K, R]) (*View[K, R], error) {
	mem := memory.NewGoAllocator()
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, errors.Wrap(ErrCorruptSnapshot, err.Error())
	}
	defer rdr.Release()

	schema := rdr.Schema()
	cols := make([][]any, schema.NumFields())
	for rdr.Next() {
		rec := rdr.Record()
		for j := range cols {
			cols[j] = appendValues(cols[j], rec.Column(j))
		}
	}
	if err := rdr.Err(); err != nil && err != io.EOF {
		return nil, errors.Wrap(ErrCorruptSnapshot, err.Error())
	}

	restored := make([]series.Series, len(cols))
	for j, f := range schema.Fields() {
		s, err := restoreSeries(f, cols[j])
		if err != nil {
			return nil, err
		}
		restored[j] = s
	}
	df := dataframe.New(restored...)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "restore frame")
	}

	md := schema.Metadata()
	v := &View[K, R]{DataFrame: df}
	if i := md.FindKey(metaIndex); i >= 0 {
		v.index = md.Values()[i]
	}
	if i := md.FindKey(metaKeyed); i >= 0 {
		v.keyed, _ = strconv.ParseBool(md.Values()[i])
	}
	i := md.FindKey(metaLink)
	if i < 0 {
		return v, nil
	}
	data := []byte(md.Values()[i])
	sum, err := linkHash(data)
	if err != nil {
		return nil, err
	}
	if j := md.FindKey(metaLinkHash); j < 0 || md.Values()[j] != sum {
		return nil, errors.Wrap(ErrCorruptSnapshot, "link checksum mismatch")
	}
	var keys []K
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, errors.Wrap(ErrCorruptSnapshot, err.Error())
	}
	if src == nil {
		return v, nil
	}
	if v.link, err = newLink(ctx, src.Filter(keys)); err != nil {
		return nil, err
	}
	v.link.src = src
	return v, nil
}

func appendValues(vals []any, col arrow.Array) []any {
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			vals = append(vals, nil)
			continue
		}
		switch col := col.(type) {
		case *array.Int64:
			vals = append(vals, int(col.Value(i)))
		case *array.Float64:
			vals = append(vals, col.Value(i))
		case *array.Boolean:
			vals = append(vals, col.Value(i))
		case *array.String:
			vals = append(vals, col.Value(i))
		default:
			vals = append(vals, col.ValueStr(i))
		}
	}
	return vals
}

func restoreSeries(f arrow.Field, vals []any) (series.Series, error) {
	var t series.Type
	switch f.Type.ID() {
	case arrow.INT64:
		t = series.Int
	case arrow.FLOAT64:
		t = series.Float
	case arrow.BOOL:
		t = series.Bool
	default:
		t = series.String
	}
	if len(vals) == 0 {
		return emptySeries(f.Name, t), nil
	}
	s := series.New(vals, t, f.Name)
	if s.Err != nil {
		return series.Series{}, errors.Wrapf(s.Err, "column '%s'", f.Name)
	}
	return s, nil
}
