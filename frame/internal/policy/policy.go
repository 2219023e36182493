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

// Package policy decides which data frame methods a view intercepts.
package policy

import (
	"go/token"
	"sort"
	"strings"
)

type Verdict int

const (
	Wrap        Verdict = iota // result is re-wrapped as a linked view
	PassThrough                // result is not a frame
	Internal                   // unexported
	Escape                     // conversion out of the view, drops the link
	Excluded                   // defined by the view itself
)

func (v Verdict) String() string {
	switch v {
	case Wrap:
		return "wrap"
	case PassThrough:
		return "pass-through"
	case Internal:
		return "internal"
	case Escape:
		return "escape"
	case Excluded:
		return "excluded"
	}
	return "unknown"
}

// ElementAccess is the frame method every positional and label accessor of
// a view goes through.
const ElementAccess = "Subset"

// EscapePrefix marks conversions out of a view.
const EscapePrefix = "To"

var excluded = map[string]bool{
	"AddCol":   true,
	"Capply":   true,
	"Reindex":  true,
	"SetIndex": true,
}

// Frame methods whose result rows or index values no longer identify
// records.
var dropsKeys = map[string]bool{
	"Describe": true,
	"Rapply":   true,
}

// DropsKeys tells whether the wrapped result of the frame method name must
// be marked as no longer keyed by its index.
func DropsKeys(name string) bool {
	return dropsKeys[name]
}

// Classify returns the verdict for the frame method name, returnsFrame tells
// whether its only result is a frame.
func Classify(name string, returnsFrame bool) Verdict {
	switch {
	case name == ElementAccess:
		return Wrap
	case !token.IsExported(name):
		return Internal
	case strings.HasPrefix(name, EscapePrefix):
		return Escape
	case excluded[name]:
		return Excluded
	case !returnsFrame:
		return PassThrough
	}
	return Wrap
}

// ExcludedNames returns the names the view defines itself, sorted.
func ExcludedNames() []string {
	names := make([]string, 0, len(excluded))
	for name := range excluded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
