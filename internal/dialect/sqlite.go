package dialect

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// SQLite targets SQLite 3.38+ with the built-in JSON functions.
type SQLite struct{}

func (SQLite) Name() string   { return "sqlite" }
func (SQLite) Driver() string { return "sqlite3" }

func (SQLite) QuoteIdent(name string) string { return quoteBacktick(name) }

func (SQLite) Placeholder() sq.PlaceholderFormat { return sq.Question }

func (SQLite) OffsetNeedsLimit() bool { return true }

func (d SQLite) Translation(table, column, language string) (string, []any) {
	expr := fmt.Sprintf(
		`(SELECT json_extract(tr.value, '$."%s"') FROM json_each(%s) AS tr WHERE json_extract(tr.value, '$.language_code') = ? LIMIT 1)`,
		jsonKey(column), Qualified(d, table, TranslationsColumn))
	return expr, []any{language}
}
