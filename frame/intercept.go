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

//go:generate go run ./internal/qframegen -o intercept_gen.go

import (
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"qframe/frame/internal/policy"
)

// derive wraps df, the result of an operation on v, as a view sharing the
// link of v. The error of a failed operation stays in df.Err.
func (v *View[K, R]) derive(df dataframe.DataFrame) *View[K, R] {
	return &View[K, R]{DataFrame: df, index: v.index, keyed: v.keyed, link: v.link}
}

// deriveUnkeyed is derive for results whose rows or index values no longer
// identify records.
func (v *View[K, R]) deriveUnkeyed(df dataframe.DataFrame) *View[K, R] {
	d := v.derive(df)
	d.keyed = false
	return d
}

// Capply applies f to every column except the index column.
func (v *View[K, R]) Capply(f func(series.Series) series.Series) *View[K, R] {
	if v.Err != nil {
		return v.derive(v.DataFrame)
	}
	cols := make([]series.Series, 0, v.Ncol())
	for _, name := range v.Names() {
		s := v.Col(name)
		if name != v.index {
			applied := f(s)
			applied.Name = name
			s = applied
		}
		cols = append(cols, s)
	}
	return v.derive(dataframe.New(cols...))
}

// InterceptedMethods returns the frame methods a view re-wraps, sorted.
func InterceptedMethods() []string {
	return slices.Clone(interceptedMethods)
}

// Classify returns how a view treats the frame method name.
func Classify(name string, returnsFrame bool) string {
	return policy.Classify(name, returnsFrame).String()
}
