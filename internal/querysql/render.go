package querysql

import (
	"errors"
	"fmt"
	"math"

	sq "github.com/Masterminds/squirrel"

	"github.com/wongpratan/abquery/internal/dialect"
	"github.com/wongpratan/abquery/internal/queryplan"
)

// ErrNilPlan is returned when rendering a nil plan.
var ErrNilPlan = errors.New("nil plan")

// unboundedLimit stands in for "no limit" where OFFSET requires LIMIT.
const unboundedLimit = math.MaxInt64

// Renderer turns plans into SQL for one dialect.
type Renderer struct {
	Dialect dialect.Dialect
}

// New creates a Renderer.
func New(d dialect.Dialect) *Renderer {
	return &Renderer{Dialect: d}
}

// Apply decorates b with the plan's joins, predicate, order terms and page.
// It does not set FROM, columns or the placeholder format.
//
// A plan whose joins can repeat base rows is applied as a key filter,
// "<key> IN (SELECT <key> FROM <table> <joins> WHERE ...)", so every base
// row appears at most once and paging counts base rows.
func (r *Renderer) Apply(plan *queryplan.Plan, b sq.SelectBuilder) sq.SelectBuilder {
	if plan.FansOut() && plan.Key != "" {
		b = b.Where(keyFilter{plan: plan})
	} else {
		b = applyFilter(plan, b)
	}

	for _, o := range plan.Orders {
		b = b.OrderByClause(o.SQL(), o.Args...)
	}

	if plan.Limit != nil {
		b = b.Limit(*plan.Limit)
	}
	if plan.Offset != nil {
		if plan.Limit == nil && r.Dialect.OffsetNeedsLimit() {
			b = b.Limit(unboundedLimit)
		}
		b = b.Offset(*plan.Offset)
	}
	return b
}

// Select builds a complete SELECT for the plan. Without columns it selects
// every column of the base table only, so joined relations never shadow
// base columns.
func (r *Renderer) Select(plan *queryplan.Plan, columns ...string) sq.SelectBuilder {
	if len(columns) == 0 {
		columns = []string{plan.Table + ".*"}
	}
	b := sq.Select(columns...).
		From(plan.Table).
		PlaceholderFormat(r.Dialect.Placeholder())
	return r.Apply(plan, b)
}

// Render returns the SQL text and bound arguments for the plan.
func (r *Renderer) Render(plan *queryplan.Plan, columns ...string) (string, []any, error) {
	if plan == nil {
		return "", nil, ErrNilPlan
	}
	query, args, err := r.Select(plan, columns...).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("render %s: %w", plan.Object, err)
	}
	return query, args, nil
}

// Count returns a COUNT(*) query over the plan's rows, ignoring order and
// page.
func (r *Renderer) Count(plan *queryplan.Plan) (string, []any, error) {
	if plan == nil {
		return "", nil, ErrNilPlan
	}
	unpaged := *plan
	unpaged.Orders, unpaged.Offset, unpaged.Limit = nil, nil, nil
	return r.Render(&unpaged, "COUNT(*)")
}

// RenderWhere renders a predicate tree alone, with dialect placeholders.
// An empty tree renders as "".
func (r *Renderer) RenderWhere(pred queryplan.Predicate) (string, []any, error) {
	if queryplan.IsEmpty(pred) {
		return "", nil, nil
	}
	query, args, err := Predicate(pred).ToSql()
	if err != nil {
		return "", nil, err
	}
	query, err = r.Dialect.Placeholder().ReplacePlaceholders(query)
	if err != nil {
		return "", nil, err
	}
	return query, args, nil
}

// applyFilter adds the plan's joins and predicate to b.
func applyFilter(plan *queryplan.Plan, b sq.SelectBuilder) sq.SelectBuilder {
	for _, j := range plan.Joins {
		b = b.JoinClause(j.SQL)
	}
	if plan.HasWhere() {
		b = b.Where(Predicate(plan.Where))
	}
	return b
}

// keyFilter selects base rows by key through the plan's joins.
type keyFilter struct {
	plan *queryplan.Plan
}

func (k keyFilter) ToSql() (string, []any, error) {
	inner := applyFilter(k.plan, sq.Select(k.plan.Key).From(k.plan.Table))
	query, args, err := inner.ToSql()
	if err != nil {
		return "", nil, err
	}
	return k.plan.Key + " IN (" + query + ")", args, nil
}

// Predicate adapts a predicate tree to a squirrel expression with "?"
// placeholders.
func Predicate(pred queryplan.Predicate) sq.Sqlizer {
	return sq.Expr(queryplan.Format(pred), queryplan.PredicateArgs(pred)...)
}
