// Package dialect isolates the SQL differences between the supported
// backends: identifier quoting, placeholder style and the expression that
// extracts one property of the current locale from a translations blob.
//
// Translations are stored as a JSON array in a "translations" column:
//
//	[{"language_code": "en", "name": "Bob"}, {"language_code": "es", "name": "Roberto"}]
//
// Every dialect's Translation expression yields the named property of the
// entry whose language_code matches the bound language, or NULL.
package dialect

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/wongpratan/abquery/internal/catalog"
)

// TranslationsColumn is the column holding multilingual values.
const TranslationsColumn = "translations"

// Dialect renders backend-specific SQL fragments.
type Dialect interface {
	// Name is the canonical dialect name ("mysql", "sqlite", "postgres").
	Name() string

	// Driver is the database/sql driver name for this dialect.
	Driver() string

	// QuoteIdent quotes a single identifier.
	QuoteIdent(name string) string

	// Placeholder is the squirrel placeholder format for bound arguments.
	Placeholder() sq.PlaceholderFormat

	// OffsetNeedsLimit reports whether OFFSET is only valid after LIMIT.
	OffsetNeedsLimit() bool

	// Translation returns an expression extracting column from the
	// translations blob of table for the bound language. The expression
	// uses "?" for the language; args holds its value.
	Translation(table, column, language string) (expr string, args []any)
}

// Lookup resolves a dialect by name.
func Lookup(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql", "mariadb":
		return MySQL{}, nil
	case "sqlite", "sqlite3":
		return SQLite{}, nil
	case "postgres", "postgresql", "pg":
		return Postgres{}, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", name)
	}
}

// Names lists the canonical dialect names.
func Names() []string {
	return []string{"mysql", "sqlite", "postgres"}
}

// Qualified quotes table and column and joins them with a dot.
func Qualified(d Dialect, table, column string) string {
	return d.QuoteIdent(table) + "." + d.QuoteIdent(column)
}

// jsonKey sanitizes a property name embedded in a JSON path literal.
func jsonKey(column string) string {
	return catalog.Alphanumeric(column)
}

// quoteBacktick quotes with backticks, doubling embedded backticks.
func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
