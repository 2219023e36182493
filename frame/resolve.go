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

// Attribute resolution over arbitrary Go values.

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Resolve walks the dot separated path over v, one attribute at a time.
func Resolve(v any, path string) (any, error) {
	cur := v
	for _, seg := range strings.Split(path, ".") {
		next, ok, err := attr(cur, seg)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ResolutionError{Path: path, Segment: seg, Type: typeName(cur)}
		}
		cur = next
	}
	return cur, nil
}

// Call invokes the named method of v with args.
func Call(v any, name string, args ...any) (any, error) {
	m, ok := method(reflect.ValueOf(v), name)
	if !ok {
		return nil, &ResolutionError{Path: name, Segment: name, Type: typeName(v)}
	}
	return invoke(m, name, args)
}

// Resolves a single attribute: Attributer, map key, struct field and
// finally a zero argument method.
func attr(v any, name string) (any, bool, error) {
	if v == nil {
		return nil, false, nil
	}
	if a, ok := v.(Attributer); ok {
		if x, ok := a.Attr(name); ok {
			return x, true, nil
		}
	}
	rv := reflect.ValueOf(v)
	base := rv
	for base.Kind() == reflect.Pointer || base.Kind() == reflect.Interface {
		if base.IsNil() {
			return nil, false, nil
		}
		base = base.Elem()
	}
	switch base.Kind() {
	case reflect.Map:
		kt := base.Type().Key()
		if kt.Kind() == reflect.String {
			x := base.MapIndex(reflect.ValueOf(name).Convert(kt))
			if x.IsValid() {
				return x.Interface(), true, nil
			}
		}
	case reflect.Struct:
		if f, ok := field(base, name); ok {
			return f.Interface(), true, nil
		}
	}
	m, ok := method(rv, name)
	if !ok {
		return nil, false, nil
	}
	if m.Type().NumIn() != 0 {
		return nil, false, errors.Errorf("'%s' of %s takes arguments", name, typeName(v))
	}
	x, err := invoke(m, name, nil)
	return x, true, err
}

func field(v reflect.Value, name string) (reflect.Value, bool) {
	folded := strings.ReplaceAll(name, "_", "")
	var byName []int
	for _, f := range reflect.VisibleFields(v.Type()) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tagName(f.Tag.Get("frame")) == name || tagName(f.Tag.Get("json")) == name || f.Name == name {
			return fieldByIndex(v, f.Index)
		}
		if byName == nil && strings.EqualFold(f.Name, folded) {
			byName = f.Index
		}
	}
	if byName != nil {
		return fieldByIndex(v, byName)
	}
	return reflect.Value{}, false
}

func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	f, err := v.FieldByIndexErr(index)
	if err != nil {
		return reflect.Value{}, false
	}
	return f, true
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// Finds a method on v, including pointer receiver methods of values.
func method(v reflect.Value, name string) (reflect.Value, bool) {
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	if v.Kind() != reflect.Pointer && v.Kind() != reflect.Interface {
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p
	}
	if m := v.MethodByName(name); m.IsValid() {
		return m, true
	}
	folded := strings.ReplaceAll(name, "_", "")
	t := v.Type()
	for i := 0; i < t.NumMethod(); i++ {
		if strings.EqualFold(t.Method(i).Name, folded) {
			return v.Method(i), true
		}
	}
	return reflect.Value{}, false
}

func invoke(m reflect.Value, name string, args []any) (any, error) {
	t := m.Type()
	n := t.NumIn()
	if t.IsVariadic() {
		if len(args) < n-1 {
			return nil, errors.Errorf("'%s' takes at least %d arguments, %d given", name, n-1, len(args))
		}
	} else if len(args) != n {
		return nil, errors.Errorf("'%s' takes %d arguments, %d given", name, n, len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if t.IsVariadic() && i >= n-1 {
			pt = t.In(n - 1).Elem()
		} else {
			pt = t.In(i)
		}
		av, err := argValue(arg, pt)
		if err != nil {
			return nil, errors.Wrapf(err, "'%s' argument %d", name, i)
		}
		in[i] = av
	}
	out := m.Call(in)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if t.Out(0).Implements(errorType) && t.Out(0).Kind() == reflect.Interface {
			if err, _ := out[0].Interface().(error); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return out[0].Interface(), nil
	default:
		last := out[len(out)-1]
		if t.Out(len(out) - 1).Implements(errorType) {
			if err, _ := last.Interface().(error); err != nil {
				return nil, err
			}
		}
		return out[0].Interface(), nil
	}
}

func argValue(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(t), nil
	}
	av := reflect.ValueOf(arg)
	if av.Type().AssignableTo(t) {
		return av, nil
	}
	if av.Type().ConvertibleTo(t) {
		return av.Convert(t), nil
	}
	return reflect.Value{}, errors.Errorf("cannot use %T as %s", arg, t)
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
