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

import "strings"

type AttrKind int

const (
	FieldAttr  AttrKind = iota // projected by the source in one batch
	PropAttr                   // dotted path evaluated per record
	MethodAttr                 // method invoked per record
)

func (k AttrKind) String() string {
	switch k {
	case FieldAttr:
		return "field"
	case PropAttr:
		return "prop"
	case MethodAttr:
		return "meth"
	}
	return "unknown"
}

// Attr describes one column of a view: where its values come from, what it
// is called and how its values are coerced. Attr values are immutable, the
// As and Typed methods return modified copies.
type Attr struct {
	Name   string
	Column string
	DType  string
	Kind   AttrKind
	Args   []any
}

// Field declares a concrete source field.
func Field(name string) Attr {
	return Attr{Name: name, Kind: FieldAttr}
}

// Fields declares one Field per name.
func Fields(names ...string) []Attr {
	result := make([]Attr, len(names))
	for i, name := range names {
		result[i] = Field(name)
	}
	return result
}

// Prop declares a property evaluated on each record, path segments are
// separated by dots, eg. "address.city".
func Prop(path string) Attr {
	return Attr{Name: path, Kind: PropAttr}
}

// Meth declares a method called on each record with the given arguments.
func Meth(name string, args ...any) Attr {
	return Attr{Name: name, Kind: MethodAttr, Args: args}
}

func (a Attr) As(column string) Attr {
	a.Column = column
	return a
}

func (a Attr) Typed(dtype string) Attr {
	a.DType = dtype
	return a
}

// ColumnName returns the alias, or the name with path separators replaced.
func (a Attr) ColumnName() string {
	if a.Column != "" {
		return a.Column
	}
	return strings.ReplaceAll(a.Name, ".", "_")
}

func (a Attr) String() string {
	return a.ColumnName()
}

// Value evaluates the attribute on rec.
func (a Attr) Value(rec any) (any, error) {
	if a.Kind == MethodAttr {
		return Call(rec, a.Name, a.Args...)
	}
	return Resolve(rec, a.Name)
}

func (a Attr) dtype() (DType, error) {
	dt, err := ParseDType(a.DType)
	if err != nil {
		return DTypeNone, &ConfigError{Attr: a.Name, DType: a.DType}
	}
	return dt, nil
}
