package dialect

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// Postgres targets PostgreSQL 9.4+ (jsonb).
type Postgres struct{}

func (Postgres) Name() string   { return "postgres" }
func (Postgres) Driver() string { return "postgres" }

func (Postgres) QuoteIdent(name string) string { return pq.QuoteIdentifier(name) }

// Placeholder renders $1, $2, ... in argument order.
func (Postgres) Placeholder() sq.PlaceholderFormat { return sq.Dollar }

func (Postgres) OffsetNeedsLimit() bool { return false }

func (d Postgres) Translation(table, column, language string) (string, []any) {
	expr := fmt.Sprintf(
		`(SELECT tr->>'%s' FROM jsonb_array_elements(%s::jsonb) AS tr WHERE tr->>'language_code' = ? LIMIT 1)`,
		jsonKey(column), Qualified(d, table, TranslationsColumn))
	return expr, []any{language}
}
