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

	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// Key is the set of primary key types a view can be indexed by.
type Key interface {
	~int | ~int64 | ~string
}

// ToKey converts a scalar, as returned by a source projection or read back
// from a frame element, to a key of type K. String keys accept any scalar,
// integer keys accept integers and integral floats.
func ToKey[K Key](v any) (K, error) {
	var k K
	rv := reflect.ValueOf(&k).Elem()
	if rv.Kind() == reflect.String {
		s, ok := keyString(v)
		if !ok {
			return k, errors.Errorf("bad key '%v' (%T)", v, v)
		}
		rv.SetString(s)
		return k, nil
	}
	i, ok := asInt64(v)
	if !ok {
		return k, errors.Errorf("bad integer key '%v' (%T)", v, v)
	}
	rv.SetInt(i)
	return k, nil
}

func keyString(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	case float32, float64:
		f := reflect.ValueOf(v).Float()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return strconv.FormatInt(int64(f), 10), true
		}
		return strconv.FormatFloat(f, 'g', -1, 64), true
	}
	if i, ok := asInt64(v); ok {
		return strconv.FormatInt(i, 10), true
	}
	return "", false
}

func asInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

func keyType[K Key]() series.Type {
	var k K
	if reflect.ValueOf(k).Kind() == reflect.String {
		return series.String
	}
	return series.Int
}

// keySeries builds the index column for keys.
func keySeries[K Key](name string, keys []K) series.Series {
	vals := make([]any, len(keys))
	for i, k := range keys {
		rv := reflect.ValueOf(k)
		if rv.Kind() == reflect.String {
			vals[i] = rv.String()
		} else {
			vals[i] = int(rv.Int())
		}
	}
	if len(vals) == 0 {
		if keyType[K]() == series.String {
			return series.New([]string{}, series.String, name)
		}
		return series.New([]int{}, series.Int, name)
	}
	return series.New(vals, keyType[K](), name)
}
