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
	"fmt"
	"go/format"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"qframe/frame/internal/policy"
)

const (
	gotaModule    = "github.com/go-gota/gota"
	dataframePath = gotaModule + "/dataframe"
	seriesPath    = gotaModule + "/series"
)

// Method is a wrapped frame method.
type Method struct {
	Name    string
	Params  string // parameter list of the wrapper
	Args    string // arguments passed on to the frame
	Series  bool   // signature refers to the series package
	Unkeyed bool   // result is no longer keyed by its index
}

// Returns the directory of the nearest go.mod at or above dir.
func findGoMod(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		fname := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(fname); err == nil {
			return fname, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}
		dir = parent
	}
}

// Returns the version of module required by the go.mod file fname.
func requiredVersion(fname, module string) (string, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	f, err := modfile.ParseLax(fname, data, nil)
	if err != nil {
		return "", errors.Wrapf(err, "parse %s", fname)
	}
	for _, req := range f.Require {
		if req.Mod.Path == module {
			return req.Mod.Version, nil
		}
	}
	return "", errors.Errorf("%s does not require %s", fname, module)
}

func loadMethods() ([]Method, error) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedTypes | packages.NeedImports}
	pkgs, err := packages.Load(cfg, dataframePath)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", dataframePath)
	}
	if len(pkgs) != 1 || pkgs[0].Types == nil {
		return nil, errors.Errorf("load %s: no type information", dataframePath)
	}
	obj := pkgs[0].Types.Scope().Lookup("DataFrame")
	if obj == nil {
		return nil, errors.Errorf("%s.DataFrame not found", dataframePath)
	}
	frame, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, errors.Errorf("%s.DataFrame is not a named type", dataframePath)
	}
	return frameMethods(frame), nil
}

// Applies the interception policy to the method set of *frame.
func frameMethods(frame *types.Named) []Method {
	var result []Method
	mset := types.NewMethodSet(types.NewPointer(frame))
	for i := 0; i < mset.Len(); i++ {
		fn, ok := mset.At(i).Obj().(*types.Func)
		if !ok {
			continue
		}
		sig := fn.Type().(*types.Signature)
		returnsFrame := sig.Results().Len() == 1 && types.Identical(sig.Results().At(0).Type(), frame)
		verdict := policy.Classify(fn.Name(), returnsFrame)
		if verdict != policy.Wrap {
			continue
		}
		if !returnsFrame {
			fmt.Fprintf(os.Stderr, "warning: %s does not return a frame, not wrapped\n", fn.Name())
			continue
		}
		m := newMethod(fn.Name(), sig)
		m.Unkeyed = policy.DropsKeys(fn.Name())
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func newMethod(name string, sig *types.Signature) Method {
	m := Method{Name: name}
	qualifier := func(p *types.Package) string {
		if p.Path() == seriesPath {
			m.Series = true
		}
		return p.Name()
	}
	params := sig.Params()
	var decl, args []string
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		pname := p.Name()
		if pname == "" || pname == "_" {
			pname = fmt.Sprintf("a%d", i)
		}
		typ := p.Type()
		variadic := sig.Variadic() && i == params.Len()-1
		if variadic {
			typ = typ.(*types.Slice).Elem()
			decl = append(decl, pname+" ..."+types.TypeString(typ, qualifier))
			args = append(args, pname+"...")
		} else {
			decl = append(decl, pname+" "+types.TypeString(typ, qualifier))
			args = append(args, pname)
		}
	}
	m.Params = strings.Join(decl, ", ")
	m.Args = strings.Join(args, ", ")
	return m
}

var fileTemplate = template.Must(template.New("intercept").Parse(`// Code generated by qframegen from {{.Module}} {{.Version}}; DO NOT EDIT.

package {{.Package}}

import (
	"github.com/go-gota/gota/dataframe"
{{- if .Series}}
	"github.com/go-gota/gota/series"
{{- end}}
)

var interceptedMethods = []string{
{{- range .Methods}}
	"{{.Name}}",
{{- end}}
}
{{range .Methods}}
// {{.Name}} wraps dataframe.DataFrame.{{.Name}}.
func (v *View[K, R]) {{.Name}}({{.Params}}) *View[K, R] {
	return v.{{if .Unkeyed}}deriveUnkeyed{{else}}derive{{end}}(v.DataFrame.{{.Name}}({{.Args}}))
}
{{end}}`))

func render(pkg, version string, methods []Method) ([]byte, error) {
	data := struct {
		Module  string
		Version string
		Package string
		Series  bool
		Methods []Method
	}{Module: gotaModule, Version: version, Package: pkg, Methods: methods}
	for _, m := range methods {
		data.Series = data.Series || m.Series
	}
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "format generated source")
	}
	return src, nil
}
