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
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"qframe/frame"
)

func addCommands(root *cobra.Command) {
	// Records
	cmd := &cobra.Command{
		Use:   "show url",
		Short: "Show a view of the JSON or YAML records at the given url",
		Args:  cobra.ExactArgs(1),
		Run:   showRecords}
	addViewFlags(cmd)
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "snapshot url dest",
		Short: "Save a view of the records at url as an Arrow snapshot",
		Args:  cobra.ExactArgs(2),
		Run:   snapshotRecords}
	addViewFlags(cmd)
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "restore snapshot",
		Short: "Show a view saved with snapshot",
		Args:  cobra.ExactArgs(1),
		Run:   restoreSnapshot}
	cmd.Flags().String("source", "", "records to link the view to")
	cmd.Flags().String("key", "id", "primary key field of the source records")
	root.AddCommand(cmd)

	// Databases
	cmd = &cobra.Command{
		Use:   "query table",
		Short: "Show a view of the given SQL table",
		Args:  cobra.ExactArgs(1),
		Run:   queryTable}
	addViewFlags(cmd)
	cmd.Flags().String("dsn", "", "data source name (default: profile dsn)")
	cmd.Flags().String("driver", "pgx", "database/sql driver name")
	cmd.Flags().String("key-type", "string", "primary key type, 'string' or 'int'")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "exec database",
		Short: "Show a view of the output of a Rel transaction",
		Args:  cobra.ExactArgs(1),
		Run:   execRel}
	cmd.Flags().StringP("engine", "e", "", "engine (default: profile engine, or latest provisioned)")
	cmd.Flags().StringP("code", "c", "", "rel source code")
	cmd.Flags().StringP("file", "f", "", "rel source file")
	cmd.Flags().StringSlice("fields", nil, "names of the output columns, primary key first")
	cmd.Flags().StringArray("attr", nil, "view attribute, name[=column], prop:path or meth:name(args)")
	cmd.Flags().StringArray("dtype", nil, "column dtype, column=tag")
	cmd.Flags().String("rai-config", "~/.rai/config", "RelationalAI config file")
	cmd.Flags().String("rai-profile", "default", "RelationalAI config profile")
	root.AddCommand(cmd)

	// Misc
	cmd = &cobra.Command{
		Use:   "policy [method...]",
		Short: "List how views treat the data frame methods",
		Run:   listPolicy}
	root.AddCommand(cmd)
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().String("key", "id", "primary key field")
	cmd.Flags().StringArray("attr", nil, "view attribute, name[=column], prop:path or meth:name(args)")
	cmd.Flags().StringArray("dtype", nil, "column dtype, column=tag")
}

func setLogger(cmd *cobra.Command, _ []string) {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	frame.SetLogger(logger)
}

func main() {
	var root = &cobra.Command{Use: "qframe", PersistentPreRun: setLogger}
	root.PersistentFlags().String("config", "~/.qframe/config", "config file")
	root.PersistentFlags().String("profile", "default", "config profile")
	root.PersistentFlags().BoolP("quiet", "q", false, "silence status output")
	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	root.PersistentFlags().String("format", "pretty", "format results, 'json' or 'pretty'")
	root.PersistentFlags().String("index", "", "column to use as the index of the view")
	addCommands(root)
	root.Execute()
}
