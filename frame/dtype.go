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

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DType is the coercion applied to the values of a column. Dates, datetimes
// and decimals are stored as canonical strings, gota has no element type
// for them.
type DType int

const (
	DTypeNone DType = iota
	DTypeInt
	DTypeFloat
	DTypeString
	DTypeBool
	DTypeDate
	DTypeDateTime
	DTypeDecimal
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = time.RFC3339Nano
)

var dtypeTags = map[string]DType{
	"":         DTypeNone,
	"int":      DTypeInt,
	"int64":    DTypeInt,
	"integer":  DTypeInt,
	"float":    DTypeFloat,
	"float64":  DTypeFloat,
	"str":      DTypeString,
	"string":   DTypeString,
	"bool":     DTypeBool,
	"boolean":  DTypeBool,
	"date":     DTypeDate,
	"datetime": DTypeDateTime,
	"decimal":  DTypeDecimal}

// ParseDType maps a dtype tag to a DType.
func ParseDType(tag string) (DType, error) {
	dt, ok := dtypeTags[strings.ToLower(tag)]
	if !ok {
		return DTypeNone, &ConfigError{DType: tag}
	}
	return dt, nil
}

func (dt DType) String() string {
	switch dt {
	case DTypeInt:
		return "int"
	case DTypeFloat:
		return "float"
	case DTypeString:
		return "str"
	case DTypeBool:
		return "bool"
	case DTypeDate:
		return "date"
	case DTypeDateTime:
		return "datetime"
	case DTypeDecimal:
		return "decimal"
	}
	return ""
}

func (dt DType) seriesType() series.Type {
	switch dt {
	case DTypeInt:
		return series.Int
	case DTypeFloat:
		return series.Float
	case DTypeBool:
		return series.Bool
	}
	return series.String
}

// CastToDType returns values as a column called name of n elements. A series
// with no dtype is returned as is, renamed. Any other input is expected to
// be a slice of n values, which are coerced to dt.
func CastToDType(values any, dt DType, name string, n int) (series.Series, error) {
	if s, ok := values.(series.Series); ok {
		if dt == DTypeNone {
			s.Name = name
			return s, nil
		}
		values = seriesValues(s)
	}
	vals, err := anySlice(values)
	if err != nil {
		return series.Series{}, errors.Wrapf(err, "column '%s'", name)
	}
	if len(vals) != n {
		return series.Series{}, errors.Errorf(
			"column '%s' has %d values, expected %d", name, len(vals), n)
	}
	return newSeries(name, vals, dt)
}

func newSeries(name string, vals []any, dt DType) (series.Series, error) {
	coerced := make([]any, len(vals))
	for i, v := range vals {
		c, err := dt.coerce(v)
		if err != nil {
			return series.Series{}, errors.Wrapf(err, "column '%s' row %d", name, i)
		}
		coerced[i] = c
	}
	t := dt.seriesType()
	if dt == DTypeNone {
		t = inferType(coerced)
	}
	if len(coerced) == 0 {
		return emptySeries(name, t), nil
	}
	s := series.New(coerced, t, name)
	if s.Err != nil {
		return series.Series{}, errors.Wrapf(s.Err, "column '%s'", name)
	}
	return s, nil
}

func emptySeries(name string, t series.Type) series.Series {
	switch t {
	case series.Int:
		return series.New([]int{}, t, name)
	case series.Float:
		return series.New([]float64{}, t, name)
	case series.Bool:
		return series.New([]bool{}, t, name)
	}
	return series.New([]string{}, series.String, name)
}

func seriesValues(s series.Series) []any {
	result := make([]any, s.Len())
	for i := range result {
		result[i] = s.Elem(i).Val()
	}
	return result
}

func anySlice(values any) ([]any, error) {
	if vals, ok := values.([]any); ok {
		return vals, nil
	}
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.Errorf("expected a slice of values, got %T", values)
	}
	result := make([]any, rv.Len())
	for i := range result {
		result[i] = rv.Index(i).Interface()
	}
	return result, nil
}

// Picks the narrowest gota type that holds every normalized value.
func inferType(vals []any) series.Type {
	var t series.Type
	for _, v := range vals {
		var vt series.Type
		switch v.(type) {
		case nil:
			continue
		case int:
			vt = series.Int
		case float64:
			vt = series.Float
		case bool:
			vt = series.Bool
		default:
			return series.String
		}
		switch {
		case t == "" || t == vt:
			t = vt
		case (t == series.Int && vt == series.Float) || (t == series.Float && vt == series.Int):
			t = series.Float
		default:
			return series.String
		}
	}
	if t == "" {
		return series.String
	}
	return t
}

func (dt DType) coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch dt {
	case DTypeInt:
		return toInt(v)
	case DTypeFloat:
		return toFloat(v)
	case DTypeString:
		s, _ := normalize(v)
		if s == nil {
			return nil, nil
		}
		return fmt.Sprint(s), nil
	case DTypeBool:
		return toBool(v)
	case DTypeDate:
		return toTime(v, dateLayout)
	case DTypeDateTime:
		return toTime(v, dateTimeLayout)
	case DTypeDecimal:
		return toDecimal(v)
	}
	v, _ = normalize(v)
	return v, nil
}

// Converts v to one of the element types gota accepts.
func normalize(v any) (any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, true
	case bool, int, string:
		return v, true
	case float64:
		if math.IsNaN(v) {
			return nil, true
		}
		return v, true
	case float32:
		return float64(v), true
	case []byte:
		return string(v), true
	case time.Time:
		return v.Format(dateTimeLayout), true
	case decimal.Decimal:
		return v.String(), true
	case fmt.Stringer:
		return v.String(), true
	}
	if i, ok := asInt64(v); ok {
		return int(i), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, true
		}
		return normalize(rv.Elem().Interface())
	}
	return fmt.Sprint(v), false
}

type floater interface {
	Float64() (float64, bool)
}

func toInt(v any) (any, error) {
	switch v := v.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case decimal.Decimal:
		return int(v.IntPart()), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.Errorf("bad int '%s'", v)
		}
		return i, nil
	case interface{ Int64() int64 }:
		return int(v.Int64()), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return nil, nil
		}
		return int(f), nil
	}
	return nil, errors.Errorf("cannot convert %T to int", v)
}

func toFloat(v any) (any, error) {
	switch v := v.(type) {
	case bool:
		if v {
			return 1.0, nil
		}
		return 0.0, nil
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, nil
	case floater:
		f, _ := v.Float64()
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, errors.Errorf("bad float '%s'", v)
		}
		return f, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return nil, errors.Errorf("cannot convert %T to float", v)
}

func toBool(v any) (any, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.Errorf("bad bool '%s'", v)
		}
		return b, nil
	case decimal.Decimal:
		return !v.IsZero(), nil
	}
	if f, err := toFloat(v); err == nil {
		return f.(float64) != 0, nil
	}
	return nil, errors.Errorf("cannot convert %T to bool", v)
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", dateLayout}

func toTime(v any, layout string) (any, error) {
	switch v := v.(type) {
	case time.Time:
		return v.Format(layout), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.Format(layout), nil
	case string:
		for _, l := range timeLayouts {
			if t, err := time.Parse(l, strings.TrimSpace(v)); err == nil {
				return t.Format(layout), nil
			}
		}
		return nil, errors.Errorf("bad date '%s'", v)
	}
	return nil, errors.Errorf("cannot convert %T to a date", v)
}

func toDecimal(v any) (any, error) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v.String(), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.Errorf("bad decimal '%s'", v)
		}
		return d.String(), nil
	case float64:
		return decimal.NewFromFloat(v).String(), nil
	case float32:
		return decimal.NewFromFloat32(v).String(), nil
	}
	if i, ok := asInt64(v); ok {
		return decimal.NewFromInt(i).String(), nil
	}
	if f, ok := v.(floater); ok {
		x, _ := f.Float64()
		return decimal.NewFromFloat(x).String(), nil
	}
	return nil, errors.Errorf("cannot convert %T to decimal", v)
}
