package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/wongpratan/abquery/internal/catalog"
	"github.com/wongpratan/abquery/internal/compiler"
	"github.com/wongpratan/abquery/internal/dialect"
	"github.com/wongpratan/abquery/internal/engine"
	"github.com/wongpratan/abquery/internal/store"
	"github.com/wongpratan/abquery/internal/testutil"
)

// Fixtures are the built-in data sets a scenario can load by name.
var Fixtures = map[string]func() []string{
	"people": testutil.Seed,
}

// Run executes a scenario and returns the result.
//
// Each executing scenario gets a fresh in-memory database. The returned
// error is reserved for problems with the scenario itself (catalog, seed);
// a request that fails is reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	cat, err := loadCatalog(scenario)
	if err != nil {
		return nil, err
	}

	raw, err := scenario.RequestJSON()
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithCompilerOptions(compilerOptions(scenario.Options)...),
	}

	var (
		res    *engine.Result
		runErr error
	)
	if scenario.executes() {
		st, err := store.Open(ctx, store.Config{Dialect: "sqlite", DSN: ":memory:"})
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()

		if err := seed(ctx, st, scenario); err != nil {
			return nil, err
		}
		res, runErr = engine.New(st, cat, opts...).Find(ctx, scenario.Object, raw, scenario.User)
	} else {
		d, err := dialect.Lookup(scenario.dialectName())
		if err != nil {
			return nil, err
		}
		res, runErr = engine.NewOffline(cat, d, opts...).Explain(scenario.Object, raw, scenario.User)
	}

	result := NewResult()
	if runErr != nil {
		result.Err = runErr.Error()
	} else {
		result.SQL = res.SQL
		result.Args = res.Args
		for _, d := range res.Plan.Dropped {
			result.Dropped = append(result.Dropped, d.String())
		}
		if res.Rows != nil {
			result.RowIDs, err = rowIDs(cat, scenario.Object, res.Rows)
			if err != nil {
				return nil, err
			}
		}
	}

	for _, msg := range EvaluateExpect(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

func loadCatalog(s *Scenario) (*catalog.Catalog, error) {
	if s.Catalog == "" {
		return testutil.Catalog(), nil
	}
	cat, err := catalog.LoadDir(s.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

func compilerOptions(o CompileOptions) []compiler.Option {
	var opts []compiler.Option
	if mode, ok := compiler.ParseEmptyMode(o.EmptyMode); ok {
		opts = append(opts, compiler.WithEmptyMode(mode))
	}
	if o.SkipZeroOffset != nil {
		opts = append(opts, compiler.WithZeroOffsetSkip(*o.SkipZeroOffset))
	}
	return opts
}

func seed(ctx context.Context, st *store.Store, s *Scenario) error {
	if s.Fixture != "" {
		fixture, ok := Fixtures[s.Fixture]
		if !ok {
			return fmt.Errorf("unknown fixture %q", s.Fixture)
		}
		if err := st.Exec(ctx, fixture()...); err != nil {
			return fmt.Errorf("failed to load fixture %s: %w", s.Fixture, err)
		}
	}
	if err := st.Exec(ctx, s.Seed...); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	return nil
}

// rowIDs extracts the object's primary key from each row.
func rowIDs(cat *catalog.Catalog, object string, rows []store.Row) ([]int64, error) {
	obj, ok := cat.Object(object)
	if !ok {
		return nil, fmt.Errorf("unknown object %q", object)
	}
	ids := make([]int64, 0, len(rows))
	for i, r := range rows {
		id, ok := r.Int64(obj.PKName())
		if !ok {
			return nil, fmt.Errorf("row %d: primary key %s is not an integer", i, obj.PKName())
		}
		ids = append(ids, id)
	}
	return ids, nil
}
