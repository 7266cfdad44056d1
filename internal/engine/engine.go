package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/wongpratan/abquery/internal/catalog"
	"github.com/wongpratan/abquery/internal/compiler"
	"github.com/wongpratan/abquery/internal/condition"
	"github.com/wongpratan/abquery/internal/dialect"
	"github.com/wongpratan/abquery/internal/queryplan"
	"github.com/wongpratan/abquery/internal/querysql"
	"github.com/wongpratan/abquery/internal/store"
)

var errNoStore = errors.New("engine has no store")

// Engine compiles and executes query requests for one catalog and dialect.
type Engine struct {
	store    *store.Store
	catalog  *catalog.Catalog
	compiler *compiler.Compiler
	renderer *querysql.Renderer
	logger   *slog.Logger

	compilerOpts []compiler.Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for request diagnostics. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCompilerOptions passes options to the underlying compiler.
func WithCompilerOptions(opts ...compiler.Option) Option {
	return func(e *Engine) {
		e.compilerOpts = append(e.compilerOpts, opts...)
	}
}

// New creates an Engine executing against st. The dialect is taken from st.
func New(st *store.Store, cat *catalog.Catalog, opts ...Option) *Engine {
	return newEngine(st, cat, st.Dialect(), opts...)
}

// NewOffline creates an Engine that can only Explain.
func NewOffline(cat *catalog.Catalog, d dialect.Dialect, opts ...Option) *Engine {
	return newEngine(nil, cat, d, opts...)
}

func newEngine(st *store.Store, cat *catalog.Catalog, d dialect.Dialect, opts ...Option) *Engine {
	e := &Engine{
		store:   st,
		catalog: cat,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.compiler = compiler.New(cat, d, append([]compiler.Option{compiler.WithLogger(e.logger)}, e.compilerOpts...)...)
	e.renderer = querysql.New(d)
	return e
}

// Dialect returns the dialect queries are rendered for.
func (e *Engine) Dialect() dialect.Dialect {
	return e.compiler.Dialect()
}

// Result is one processed request.
type Result struct {
	Plan *queryplan.Plan
	SQL  string
	Args []any

	// Warnings are plan validation findings. They never stop execution.
	Warnings []string

	// Rows is nil for Explain.
	Rows []store.Row
}

// Explain decodes, compiles and renders raw without touching the database.
func (e *Engine) Explain(object string, raw []byte, user condition.UserContext) (*Result, error) {
	req, err := condition.DecodeRequest(raw)
	if err != nil {
		return nil, newRequestError(ErrCodeDecode, object, err)
	}
	return e.ExplainRequest(object, req, user)
}

// ExplainRequest compiles and renders an already decoded request.
func (e *Engine) ExplainRequest(object string, req condition.Request, user condition.UserContext) (*Result, error) {
	plan, err := e.compiler.Compile(object, req, user)
	if err != nil {
		return nil, newRequestError(ErrCodeCompile, object, err)
	}

	validation := queryplan.Validate(plan)
	for _, w := range validation.Warnings {
		e.logger.Warn("plan warning", "object", object, "warning", w)
	}

	sql, args, err := e.renderer.Render(plan)
	if err != nil {
		return nil, newRequestError(ErrCodeRender, object, err)
	}

	e.logger.Debug("query compiled",
		"object", object,
		"sql", sql,
		"args", len(args),
		"dropped", len(plan.Dropped))

	return &Result{Plan: plan, SQL: sql, Args: args, Warnings: validation.Warnings}, nil
}

// Find runs raw against the store and returns the matching rows with their
// eager relations attached.
func (e *Engine) Find(ctx context.Context, object string, raw []byte, user condition.UserContext) (*Result, error) {
	req, err := condition.DecodeRequest(raw)
	if err != nil {
		return nil, newRequestError(ErrCodeDecode, object, err)
	}
	return e.FindRequest(ctx, object, req, user)
}

// FindRequest runs an already decoded request.
func (e *Engine) FindRequest(ctx context.Context, object string, req condition.Request, user condition.UserContext) (*Result, error) {
	if e.store == nil {
		return nil, newRequestError(ErrCodeNoStore, object, errNoStore)
	}

	res, err := e.ExplainRequest(object, req, user)
	if err != nil {
		return nil, err
	}

	rows, err := e.store.Select(ctx, res.SQL, res.Args...)
	if err != nil {
		return nil, newRequestError(ErrCodeExecute, object, err)
	}

	if len(res.Plan.Eager) > 0 {
		obj, _ := e.catalog.Object(object)
		if err := e.store.LoadRelations(ctx, obj, rows, res.Plan.Eager); err != nil {
			return nil, newRequestError(ErrCodeExecute, object, err)
		}
	}

	e.logger.Debug("query executed", "object", object, "rows", len(rows))
	res.Rows = rows
	if res.Rows == nil {
		res.Rows = []store.Row{}
	}
	return res, nil
}

// Count returns the number of rows matching raw, ignoring sort and paging.
func (e *Engine) Count(ctx context.Context, object string, raw []byte, user condition.UserContext) (int64, error) {
	if e.store == nil {
		return 0, newRequestError(ErrCodeNoStore, object, errNoStore)
	}
	req, err := condition.DecodeRequest(raw)
	if err != nil {
		return 0, newRequestError(ErrCodeDecode, object, err)
	}
	plan, err := e.compiler.Compile(object, req, user)
	if err != nil {
		return 0, newRequestError(ErrCodeCompile, object, err)
	}
	sql, args, err := e.renderer.Count(plan)
	if err != nil {
		return 0, newRequestError(ErrCodeRender, object, err)
	}

	rows, err := e.store.Select(ctx, sql, args...)
	if err != nil {
		return 0, newRequestError(ErrCodeExecute, object, err)
	}
	if len(rows) != 1 {
		return 0, nil
	}
	for column := range rows[0] {
		if n, ok := rows[0].Int64(column); ok {
			return n, nil
		}
	}
	return 0, nil
}
