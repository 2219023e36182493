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
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/relationalai/rai-sdk-go/rai"
	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"qframe/frame"
	"qframe/frame/memsource"
	"qframe/frame/raisource"
	"qframe/frame/sqlsource"
)

var ErrNoEngines = errors.New("no engines available")

func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(1)
}

// A result that prints as a table or as a list of JSON objects.
type table interface {
	Fprint(io.Writer)
	Maps() []map[string]any
}

// Represents the state used when processing a command.
type Action struct {
	cmd     *cobra.Command
	quiet   bool
	profile *Profile
	client  *rai.Client
	start   time.Time
}

func newAction(cmd *cobra.Command) *Action {
	result := &Action{cmd: cmd, start: time.Now()}
	result.quiet = result.getBool("quiet")
	profile, err := loadProfile(result.getString("config"), result.getString("profile"))
	if err != nil {
		fatal(err.Error())
	}
	result.profile = profile
	return result
}

func (a *Action) Context() context.Context {
	return a.cmd.Context()
}

func (a *Action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *Action) getStringArray(name string) []string {
	result, _ := a.cmd.Flags().GetStringArray(name)
	return result
}

func (a *Action) getStringSlice(name string) []string {
	result, _ := a.cmd.Flags().GetStringSlice(name)
	return result
}

// Returns the value of the named flag, or the profile value when the flag
// was not given.
func (a *Action) setting(name, profileValue string) string {
	if profileValue == "" || a.cmd.Flags().Changed(name) {
		return a.getString(name)
	}
	return profileValue
}

func (a *Action) Client() *rai.Client {
	if a.client == nil {
		var cfg rai.Config
		fname := a.setting("rai-config", a.profile.RAIConfig)
		profile := a.setting("rai-profile", a.profile.RAIProfile)
		if err := rai.LoadConfigFile(fname, profile, &cfg); err != nil {
			fatal(rtrimEol(err.Error()))
		}
		a.client = rai.NewClient(a.Context(), &rai.ClientOptions{Config: cfg})
	}
	return a.client
}

func rtrimEol(value string) string {
	return strings.TrimRight(value, "\r\n")
}

func showJSON(v any) {
	e := json.NewEncoder(os.Stdout)
	e.SetIndent("", "  ")
	e.Encode(v)
}

func (a *Action) showValue(v any) {
	switch vv := v.(type) {
	case nil:
		return
	case string:
		fmt.Println(rtrimEol(vv))
	case table:
		if reflect.ValueOf(v).IsNil() {
			return
		}
		switch a.setting("format", a.profile.Format) {
		case "pretty":
			vv.Fprint(os.Stdout)
		default:
			showJSON(vv.Maps())
		}
	default:
		showJSON(v)
	}
}

func (a *Action) Append(format string, args ...any) *Action {
	if a.quiet {
		return a
	}
	fmt.Printf(format, args...)
	return a
}

// Show the action banner message.
func (a *Action) Start(format string, args ...any) *Action {
	if a.quiet {
		return a
	}
	fmt.Printf("%s .. ", fmt.Sprintf(format, args...))
	return a
}

// Update the action banner and exit.
func (a *Action) Exit(result any, err error) {
	delta := time.Since(a.start).Seconds()
	if err != nil {
		a.Append("(%.1fs)\n%s\n", delta, rtrimEol(err.Error()))
		os.Exit(1)
	}
	a.Append("Ok (%.1fs)\n", delta)
	a.showValue(result)
	os.Exit(0)
}

// Moves the index of v to the column named by --index or the profile.
func indexView[K frame.Key, R any](a *Action, v *frame.View[K, R]) (*frame.View[K, R], error) {
	col := a.setting("index", a.profile.Index)
	if col == "" {
		return v, nil
	}
	if err := v.SetIndex(col); err != nil {
		return nil, err
	}
	return v, nil
}

//
// Records
//

func loadRecordView(a *Action, url string) (*frame.View[string, map[string]any], error) {
	rows, err := loadRecords(a.Context(), url)
	if err != nil {
		return nil, err
	}
	return recordView(a.Context(), rows, a.getString("key"), a.getStringArray("attr"), a.getStringArray("dtype"))
}

func showRecords(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	action.Start("Loading '%s'", args[0])
	v, err := loadRecordView(action, args[0])
	if err == nil {
		v, err = indexView(action, v)
	}
	action.Exit(v, err)
}

func snapshotRecords(cmd *cobra.Command, args []string) {
	url, dest := args[0], args[1]
	action := newAction(cmd)
	action.Start("Snapshot '%s' to '%s'", url, dest)
	v, err := loadRecordView(action, url)
	if err != nil {
		action.Exit(nil, err)
	}
	var buf bytes.Buffer
	if err := v.Snapshot(&buf); err != nil {
		action.Exit(nil, err)
	}
	err = afs.New().Upload(action.Context(), dest, 0o644, &buf)
	action.Exit(nil, err)
}

func restoreSnapshot(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	action.Start("Restoring '%s'", args[0])
	data, err := afs.New().DownloadWithURL(action.Context(), args[0])
	if err != nil {
		action.Exit(nil, err)
	}
	var src frame.Source[string, map[string]any]
	if url := action.getString("source"); url != "" {
		rows, err := loadRecords(action.Context(), url)
		if err != nil {
			action.Exit(nil, err)
		}
		if src, err = memsource.Maps[string](action.getString("key"), rows); err != nil {
			action.Exit(nil, err)
		}
	}
	v, err := frame.Restore(action.Context(), bytes.NewReader(data), src)
	if err == nil {
		v, err = indexView(action, v)
	}
	action.Exit(v, err)
}

//
// Databases
//

func queryTable(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	driver := action.setting("driver", action.profile.Driver)
	dsn := action.setting("dsn", action.profile.DSN)
	if dsn == "" {
		fatal("no data source name, give --dsn or set dsn in the config profile")
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		fatal(err.Error())
	}

	action.Start("Query '%s' (%s)", args[0], driver)
	result, err := queryView(action.Context(), action, db, driver, args[0])
	// Exit does not return, close here.
	db.Close()
	action.Exit(result, err)
}

// Builds the view of the table name, keyed as given by --key-type.
func queryView(ctx context.Context, a *Action, db *sql.DB, driver, name string) (any, error) {
	keyType := a.getString("key-type")
	if keyType != "int" && keyType != "string" {
		return nil, errors.Errorf("bad key type '%s', expected 'string' or 'int'", keyType)
	}
	table, err := sqlsource.Describe(ctx, db, name, a.getString("key"))
	if err != nil {
		return nil, err
	}
	var opts []sqlsource.Option
	if driver == "pgx" || driver == "postgres" {
		opts = append(opts, sqlsource.WithPlaceholder(sqlsource.Dollar))
	}
	if keyType == "int" {
		return tableView(ctx, a, sqlsource.New[int64](db, table, opts...))
	}
	return tableView(ctx, a, sqlsource.New[string](db, table, opts...))
}

func tableView[K frame.Key](ctx context.Context, a *Action, src *sqlsource.Source[K]) (any, error) {
	attrs, err := viewAttrs(src.Schema(), a.getStringArray("attr"), a.getStringArray("dtype"))
	if err != nil {
		return nil, err
	}
	v, err := frame.NewView[K, *sqlsource.Row](ctx, src, attrs...)
	if err != nil {
		return nil, err
	}
	return indexView(a, v)
}

//
// Transactions
//

// Pick the most recently created PROVISIONED engine.
func pickEngine(action *Action) string {
	items, err := action.Client().ListEngines("state", "PROVISIONED")
	if err != nil {
		action.Exit(nil, err)
	}
	var best *rai.Engine
	for i := 0; i < len(items); i++ {
		item := &items[i]
		if best == nil || best.CreatedOn < item.CreatedOn {
			best = item
		}
	}
	if best == nil {
		action.Exit(nil, ErrNoEngines)
	}
	return best.Name
}

// Retrieve query source from command option or named source file.
func getQuerySource(cmd *cobra.Command) string {
	source, _ := cmd.Flags().GetString("code")
	if source != "" {
		return source
	}
	fname, _ := cmd.Flags().GetString("file")
	if fname == "" {
		fatal("nothing to execute")
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		fatal(err.Error())
	}
	return string(data)
}

func execRel(cmd *cobra.Command, args []string) {
	database := args[0]
	source := getQuerySource(cmd)
	action := newAction(cmd)
	fields := action.getStringSlice("fields")
	if len(fields) == 0 {
		fatal("no output fields, give --fields")
	}
	engine := action.setting("engine", action.profile.Engine)
	if engine == "" {
		engine = pickEngine(action)
	}
	action.Start("Executing query (%s/%s)", database, engine)
	rel, err := raisource.Output(action.Client(), database, engine, source)
	if err != nil {
		action.Exit(nil, err)
	}
	src, err := raisource.New[string](rel, fields...)
	if err != nil {
		action.Exit(nil, err)
	}
	attrs, err := viewAttrs(src.Schema(), action.getStringArray("attr"), action.getStringArray("dtype"))
	if err != nil {
		action.Exit(nil, err)
	}
	v, err := frame.NewView[string, *raisource.Tuple](action.Context(), src, attrs...)
	if err == nil {
		v, err = indexView(action, v)
	}
	action.Exit(v, err)
}

//
// Misc
//

type policyEntry struct {
	Method  string `json:"method"`
	Verdict string `json:"verdict"`
}

type policyTable []policyEntry

func (t policyTable) Fprint(w io.Writer) {
	for _, e := range t {
		fmt.Fprintf(w, "%-20s %s\n", e.Method, e.Verdict)
	}
}

func (t policyTable) Maps() []map[string]any {
	result := make([]map[string]any, len(t))
	for i, e := range t {
		result[i] = map[string]any{"method": e.Method, "verdict": e.Verdict}
	}
	return result
}

// Returns the verdict for each method of dataframe.DataFrame, or for the
// given names only.
func frameMethodPolicy(names ...string) policyTable {
	frameType := reflect.TypeOf(dataframe.DataFrame{})
	methods := reflect.PointerTo(frameType)
	var result policyTable
	if len(names) == 0 {
		for i := 0; i < methods.NumMethod(); i++ {
			names = append(names, methods.Method(i).Name)
		}
	}
	for _, name := range names {
		returnsFrame := false
		if m, ok := methods.MethodByName(name); ok {
			returnsFrame = m.Type.NumOut() == 1 && m.Type.Out(0) == frameType
		}
		result = append(result, policyEntry{Method: name, Verdict: frame.Classify(name, returnsFrame)})
	}
	return result
}

func listPolicy(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	action.Exit(frameMethodPolicy(args...), nil)
}
