package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wongpratan/abquery/internal/dialect"
	"github.com/wongpratan/abquery/internal/engine"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	requestFlags
	Output string // output file path
}

// CompileOutput is the compiled form of one request.
type CompileOutput struct {
	Object   string   `json:"object"`
	Dialect  string   `json:"dialect"`
	SQL      string   `json:"sql"`
	Args     []any    `json:"args"`
	Dropped  []string `json:"dropped,omitempty"`
	Eager    []string `json:"eager,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <object>",
		Short: "Compile a request to SQL without running it",
		Long: `Compile a JSON request for a catalog object into a SELECT statement and
its bound arguments. No database connection is made.

Leaves that cannot be compiled are dropped from the WHERE clause and listed
as "-- dropped:" lines.

Examples:
  abquery compile person --request req.json --dialect postgres
  echo '{"where": {"rules": [{"key": "age", "rule": "greater", "value": 30}]}}' | abquery compile person -r -
  abquery compile person -r req.json --user '{"username": "alice"}' --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	opts.requestFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "also write the JSON output to this file")

	return cmd
}

func runCompile(opts *CompileOptions, object string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	d, err := dialect.Lookup(cfg.Dialect)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err)
	}

	cat, err := loadCatalog(formatter, cfg.CatalogDir)
	if err != nil {
		return err
	}

	raw, user, err := opts.requestFlags.read(cmd, formatter)
	if err != nil {
		return err
	}

	eng := engine.NewOffline(cat, d,
		engine.WithLogger(cfg.Logger(cmd.ErrOrStderr())),
		engine.WithCompilerOptions(cfg.CompilerOptions()...))

	res, err := eng.Explain(object, raw, user)
	if err != nil {
		return requestFailure(formatter, err)
	}

	out := CompileOutput{
		Object:   object,
		Dialect:  d.Name(),
		SQL:      res.SQL,
		Args:     res.Args,
		Eager:    res.Plan.Eager,
		Warnings: res.Warnings,
	}
	if out.Args == nil {
		out.Args = []any{}
	}
	for _, drop := range res.Plan.Dropped {
		out.Dropped = append(out.Dropped, drop.String())
	}

	if opts.Output != "" {
		if err := writeJSONFile(opts.Output, out); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err)
		}
		formatter.VerboseLog("Wrote %s", opts.Output)
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	return writeCompileText(formatter, out)
}

func writeCompileText(f *OutputFormatter, out CompileOutput) error {
	args, err := json.Marshal(out.Args)
	if err != nil {
		return err
	}
	fmt.Fprintln(f.Writer, out.SQL)
	fmt.Fprintf(f.Writer, "-- args: %s\n", args)
	for _, d := range out.Dropped {
		fmt.Fprintf(f.Writer, "-- dropped: %s\n", d)
	}
	if len(out.Eager) > 0 {
		fmt.Fprintf(f.Writer, "-- eager: %v\n", out.Eager)
	}
	for _, w := range out.Warnings {
		fmt.Fprintf(f.Writer, "-- warning: %s\n", w)
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
