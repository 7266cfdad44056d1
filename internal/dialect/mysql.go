package dialect

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// MySQL targets MySQL 5.7+ and MariaDB.
type MySQL struct{}

func (MySQL) Name() string   { return "mysql" }
func (MySQL) Driver() string { return "mysql" }

func (MySQL) QuoteIdent(name string) string { return quoteBacktick(name) }

func (MySQL) Placeholder() sq.PlaceholderFormat { return sq.Question }

func (MySQL) OffsetNeedsLimit() bool { return true }

// Translation uses JSON_SEARCH to find the path of the matching
// language_code ("$[n].language_code") and keeps its first four
// characters ("$[n]") to address the entry.
//
// The four-character cut only addresses the first ten entries.
func (d MySQL) Translation(table, column, language string) (string, []any) {
	blob := Qualified(d, table, TranslationsColumn)
	expr := fmt.Sprintf(
		`JSON_UNQUOTE(JSON_EXTRACT(JSON_EXTRACT(%s, SUBSTRING(JSON_UNQUOTE(JSON_SEARCH(%s, 'one', ?)), 1, 4)), '$."%s"'))`,
		blob, blob, jsonKey(column))
	return expr, []any{language}
}
