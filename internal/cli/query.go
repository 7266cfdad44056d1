package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wongpratan/abquery/internal/engine"
	"github.com/wongpratan/abquery/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	requestFlags
	Count bool
}

// QueryOutput is the JSON payload of the query command.
type QueryOutput struct {
	Object string      `json:"object"`
	SQL    string      `json:"sql,omitempty"`
	Args   []any       `json:"args,omitempty"`
	Rows   []store.Row `json:"rows,omitempty"`
	Count  *int64      `json:"count,omitempty"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <object>",
		Short: "Run a request against the database",
		Long: `Compile a request, run it against --dsn and print the matching rows,
one JSON object per line. With includeRelativeData the object's relations
are loaded and attached under their relation names.

Exit codes:
  0 - Query ran
  1 - Request rejected (not JSON, cannot be compiled)
  2 - Command error (config, catalog, database)

Examples:
  abquery query person --dialect sqlite --dsn app.db -r req.json
  abquery query person --count -r req.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	opts.requestFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.Count, "count", false, "print the number of matching rows, ignoring sort and paging")

	return cmd
}

func runQuery(opts *QueryOptions, object string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()

	cfg, err := opts.loadConfig(cmd)
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

	st, err := store.Open(ctx, store.Config{Dialect: cfg.Dialect, DSN: cfg.DSN})
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err)
	}
	defer st.Close()

	eng := engine.New(st, cat,
		engine.WithLogger(cfg.Logger(cmd.ErrOrStderr())),
		engine.WithCompilerOptions(cfg.CompilerOptions()...))

	if opts.Count {
		n, err := eng.Count(ctx, object, raw, user)
		if err != nil {
			return requestFailure(formatter, err)
		}
		if formatter.Format == "json" {
			return formatter.Success(QueryOutput{Object: object, Count: &n})
		}
		fmt.Fprintln(formatter.Writer, n)
		return nil
	}

	res, err := eng.Find(ctx, object, raw, user)
	if err != nil {
		return requestFailure(formatter, err)
	}
	formatter.VerboseLog("%s", res.SQL)

	if formatter.Format == "json" {
		return formatter.Success(QueryOutput{Object: object, SQL: res.SQL, Args: res.Args, Rows: res.Rows})
	}

	for _, row := range res.Rows {
		line, err := json.Marshal(row)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
		}
		fmt.Fprintln(formatter.Writer, string(line))
	}
	formatter.VerboseLog("%d row(s)", len(res.Rows))
	return nil
}
