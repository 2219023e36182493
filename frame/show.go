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
	"io"
	"os"
	"strconv"
	"strings"
)

// Returns a "showable" string for the given value.
func displayString(v any) string {
	switch vv := v.(type) {
	case nil:
		return "NaN"
	case bool:
		return strconv.FormatBool(vv)
	case int:
		return strconv.Itoa(vv)
	case float64:
		return strconv.FormatFloat(vv, 'g', -1, 64)
	case string:
		return fmt.Sprintf("\"%s\"", vv)
	}
	return fmt.Sprintf("%v", v)
}

// Fprint writes the column names of v, followed by one line per row.
func (v *View[K, R]) Fprint(w io.Writer) {
	names := v.Names()
	fmt.Fprintf(w, "// %s\n", strings.Join(names, ", "))
	if v.link != nil {
		fmt.Fprintf(w, "// index %s, linked to %d records\n", v.index, v.link.Len())
	} else if v.index != "" {
		fmt.Fprintf(w, "// index %s\n", v.index)
	}
	row := make([]string, len(names))
	for i := 0; i < v.Nrow(); i++ {
		for j := range names {
			row[j] = displayString(v.Elem(i, j).Val())
		}
		fmt.Fprintln(w, strings.Join(row, ", "))
	}
}

// Show prints v to stdout.
func (v *View[K, R]) Show() {
	v.Fprint(os.Stdout)
}
