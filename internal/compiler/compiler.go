package compiler

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/wongpratan/abquery/internal/catalog"
	"github.com/wongpratan/abquery/internal/condition"
	"github.com/wongpratan/abquery/internal/dialect"
	"github.com/wongpratan/abquery/internal/queryplan"
)

// Compiler compiles condition requests against one catalog and dialect.
// It is immutable after New and safe for concurrent use.
type Compiler struct {
	catalog *catalog.Catalog
	dialect dialect.Dialect

	emptyMode       EmptyMode
	skipZeroOffset  bool
	defaultLanguage language.Tag
	logger          *slog.Logger
}

// New creates a Compiler.
//
// Options can be passed to configure it (e.g., WithEmptyMode).
func New(cat *catalog.Catalog, d dialect.Dialect, opts ...Option) *Compiler {
	c := &Compiler{
		catalog:         cat,
		dialect:         d,
		emptyMode:       EmptyCompat,
		skipZeroOffset:  true,
		defaultLanguage: DefaultLanguage,
		logger:          discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the dialect the compiler targets.
func (c *Compiler) Dialect() dialect.Dialect {
	return c.dialect
}

// Catalog returns the catalog the compiler resolves against.
func (c *Compiler) Catalog() *catalog.Catalog {
	return c.catalog
}

// Compile builds the plan for querying object with req on behalf of user.
//
// Compile does not modify req.
func (c *Compiler) Compile(object string, req condition.Request, user condition.UserContext) (*queryplan.Plan, error) {
	obj, ok := c.catalog.Object(object)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObject, object)
	}

	cc := &compilation{
		c:      c,
		object: obj,
		user:   user,
		res: resolver{
			catalog:  c.catalog,
			dialect:  c.dialect,
			object:   obj,
			language: c.Language(user.LanguageCode),
		},
		plan: &queryplan.Plan{
			Object: obj.Name,
			Table:  c.dialect.QuoteIdent(obj.DBTableName()),
			Key:    dialect.Qualified(c.dialect, obj.DBTableName(), obj.PKName()),
		},
		joined: make(map[string]bool),
	}

	where, err := cc.walk(req.Where, "where")
	if err != nil {
		return nil, err
	}
	if !queryplan.IsEmpty(where) {
		cc.plan.Where = where
	}

	cc.applySort(req.Sort)
	cc.applyPage(req.Offset, req.Limit)
	if req.IncludeRelativeData {
		cc.applyEager()
	}

	for _, d := range cc.plan.Dropped {
		c.logger.Debug("condition dropped",
			"object", obj.Name,
			"path", d.Path,
			"reason", d.Reason)
	}
	return cc.plan, nil
}

// Language canonicalizes a BCP 47 language code, falling back to the
// default language when code is empty or malformed.
func (c *Compiler) Language(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return c.defaultLanguage.String()
	}
	tag, err := language.Parse(code)
	if err != nil {
		return c.defaultLanguage.String()
	}
	return tag.String()
}

// Resolve returns the SQL expression for a condition key of object as the
// compiler would emit it for user. The third result is false, with a
// reason, when the key cannot be resolved.
func (c *Compiler) Resolve(object, key string, user condition.UserContext) (Column, string, bool) {
	obj, ok := c.catalog.Object(object)
	if !ok {
		return Column{}, reasonUnknownObject, false
	}
	r := resolver{catalog: c.catalog, dialect: c.dialect, object: obj, language: c.Language(user.LanguageCode)}
	col, reason := r.resolve(key)
	return col, reason, reason == ""
}

// compilation is the state of one Compile call.
type compilation struct {
	c   *Compiler
	res resolver

	object *catalog.Object
	user   condition.UserContext
	plan   *queryplan.Plan
	joined map[string]bool
}

func (cc *compilation) drop(path, reason string) {
	cc.plan.Dropped = append(cc.plan.Dropped, queryplan.Drop{Path: path, Reason: reason})
}
