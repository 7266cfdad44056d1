package compiler

import (
	"strings"

	"github.com/wongpratan/abquery/internal/catalog"
	"github.com/wongpratan/abquery/internal/dialect"
)

// Column is a resolved condition or sort key.
type Column struct {
	// Expr is the SQL expression addressing the value.
	Expr string
	// Args are values bound by Expr (the language of a translation).
	Args []any
	// Field is the catalog field, or nil for a raw column name.
	Field *catalog.Field
}

// resolver maps keys onto SQL expressions of one object. It holds no
// per-request state beyond the language, so resolving the same key twice
// is identical.
type resolver struct {
	catalog  *catalog.Catalog
	dialect  dialect.Dialect
	object   *catalog.Object
	language string
}

// resolve returns the column for key, or a drop reason.
//
// A key that parses as a field id is looked up in the catalog and must
// belong to the resolver's object; anything else is a raw column name and
// is quoted as a single identifier.
func (r *resolver) resolve(key string) (Column, string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Column{}, reasonMissingKey
	}

	if !catalog.IsFieldID(key) {
		if !validRawColumn(key) {
			return Column{}, reasonInvalidColumn
		}
		return Column{Expr: r.dialect.QuoteIdent(key)}, ""
	}

	f, ok := r.lookup(key)
	if !ok {
		return Column{}, reasonUnknownField
	}
	return r.field(f), ""
}

// lookup finds a field of the resolver's object by id.
func (r *resolver) lookup(id string) (*catalog.Field, bool) {
	f, ok := r.catalog.Field(id)
	if !ok || f.Object() == nil || f.Object() != r.object {
		return nil, false
	}
	return f, true
}

// field resolves a catalog field against its own object's table.
func (r *resolver) field(f *catalog.Field) Column {
	table := f.Object().DBTableName()
	if f.Multilingual {
		expr, args := r.dialect.Translation(table, f.ColumnName, r.language)
		return Column{Expr: expr, Args: args, Field: f}
	}
	return Column{Expr: dialect.Qualified(r.dialect, table, f.ColumnName), Field: f}
}

// validRawColumn rejects names that would change the placeholder count or
// be truncated by a driver.
func validRawColumn(name string) bool {
	return !strings.ContainsAny(name, "?\x00")
}

// listValue rewrites a value of a list field to the id of the option whose
// id or text matches it. Arrays are rewritten element-wise; values without
// a matching option are kept.
func listValue(f *catalog.Field, value any) any {
	if f == nil || f.Key != catalog.KeyList || len(f.Options) == 0 {
		return value
	}
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = listValue(f, elem)
		}
		return out
	case nil, map[string]any:
		return value
	default:
		if o, ok := f.Option(text(v)); ok {
			return o.ID
		}
		return value
	}
}
