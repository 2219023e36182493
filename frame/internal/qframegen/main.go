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

// qframegen writes the view methods that wrap the frame returning methods
// of dataframe.DataFrame.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "qframegen",
		Short: "Generate the intercepted methods of frame.View",
		Args:  cobra.NoArgs,
		RunE:  generate}
	root.Flags().StringP("output", "o", "intercept_gen.go", "output file")
	root.Flags().String("gomod", "", "go.mod to read the gota version from (default: nearest)")
	root.Flags().String("package", "frame", "package name of the output")
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}
}

func generate(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	gomod, _ := cmd.Flags().GetString("gomod")
	pkg, _ := cmd.Flags().GetString("package")

	if gomod == "" {
		var err error
		if gomod, err = findGoMod("."); err != nil {
			return err
		}
	}
	version, err := requiredVersion(gomod, gotaModule)
	if err != nil {
		return err
	}
	methods, err := loadMethods()
	if err != nil {
		return err
	}
	src, err := render(pkg, version, methods)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, src, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %d methods to %s\n", len(methods), output)
	return nil
}
