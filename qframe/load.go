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

package main

import (
	"bytes"
	"context"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"qframe/frame"
	"qframe/frame/memsource"
)

// Reads the records at URL, see decodeRecords.
func loadRecords(ctx context.Context, URL string) ([]map[string]any, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "download %s", URL)
	}
	return decodeRecords(URL, data)
}

// Decodes a YAML sequence of mappings (.yaml, .yml), a JSON array of objects
// or a stream of JSON objects, one per record.
func decodeRecords(name string, data []byte) ([]map[string]any, error) {
	var rows []map[string]any
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rows); err != nil {
			return nil, errors.Wrapf(err, "decode %s", name)
		}
		return rows, nil
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, errors.Wrapf(err, "decode %s", name)
		}
		return rows, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		var row map[string]any
		err := dec.Decode(&row)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s, record %d", name, len(rows)+1)
		}
		rows = append(rows, row)
	}
}

// Parses an attribute given on the command line:
//
//	name          field
//	prop:a.b      property path
//	meth:f(1, x)  method call, arguments are JSON values or plain text
//
// each optionally followed by =column.
func parseAttr(spec string) (frame.Attr, error) {
	var column string
	if i := strings.LastIndex(spec, "="); i > strings.LastIndex(spec, ")") {
		spec, column = spec[:i], spec[i+1:]
	}
	var a frame.Attr
	kind, name, found := strings.Cut(spec, ":")
	switch {
	case !found:
		a = frame.Field(spec)
	case kind == "prop":
		a = frame.Prop(name)
	case kind == "meth":
		var err error
		if a, err = parseMethod(name); err != nil {
			return frame.Attr{}, err
		}
	default:
		return frame.Attr{}, errors.Errorf("bad attribute kind '%s'", kind)
	}
	if a.Name == "" {
		return frame.Attr{}, errors.Errorf("bad attribute '%s'", spec)
	}
	if column != "" {
		a = a.As(column)
	}
	return a, nil
}

func parseMethod(spec string) (frame.Attr, error) {
	name, rest, found := strings.Cut(spec, "(")
	if !found {
		return frame.Meth(spec), nil
	}
	rest, ok := strings.CutSuffix(rest, ")")
	if !ok {
		return frame.Attr{}, errors.Errorf("bad method call '%s'", spec)
	}
	var args []any
	if strings.TrimSpace(rest) != "" {
		for _, s := range strings.Split(rest, ",") {
			args = append(args, parseArg(strings.TrimSpace(s)))
		}
	}
	return frame.Meth(name, args...), nil
}

func parseArg(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

// Returns the attributes of a view over schema, the fields of schema when
// none is given. Each dtype spec, column=tag, types the attribute of that
// column.
func viewAttrs(schema frame.Schema, attrSpecs, dtypeSpecs []string) ([]frame.Attr, error) {
	var attrs []frame.Attr
	for _, spec := range attrSpecs {
		a, err := parseAttr(spec)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	if len(dtypeSpecs) == 0 {
		return attrs, nil
	}
	if len(attrs) == 0 {
		for _, f := range schema.Fields {
			if f != frame.IndexColumn || f != schema.PrimaryKey {
				attrs = append(attrs, frame.Field(f))
			}
		}
	}
	for _, spec := range dtypeSpecs {
		column, tag, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, errors.Errorf("bad dtype '%s', expected column=tag", spec)
		}
		found := false
		for i, a := range attrs {
			if a.ColumnName() == column {
				attrs[i] = a.Typed(tag)
				found = true
			}
		}
		if !found {
			return nil, errors.Errorf("dtype for unknown column '%s'", column)
		}
	}
	return attrs, nil
}

// Builds a view keyed by the key field of rows.
func recordView(ctx context.Context, rows []map[string]any, key string, attrSpecs, dtypeSpecs []string) (*frame.View[string, map[string]any], error) {
	src, err := memsource.Maps[string](key, rows)
	if err != nil {
		return nil, err
	}
	attrs, err := viewAttrs(src.Schema(), attrSpecs, dtypeSpecs)
	if err != nil {
		return nil, err
	}
	return frame.NewView[string, map[string]any](ctx, src, attrs...)
}
