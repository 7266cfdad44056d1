package queryplan

import (
	"fmt"
	"strings"
)

// Predicate is a filter condition of a Plan.
//
// This is a sealed interface - only types in this package implement it.
type Predicate interface {
	predicateNode()
}

// Glue joins the predicates of a Group.
type Glue string

const (
	And Glue = "AND"
	Or  Glue = "OR"
)

// Raw is a single translated leaf.
//
// SQL uses "?" for every bound value; len(Args) equals the number of
// placeholders. Example:
//
//	Raw{SQL: "`person`.`age` BETWEEN ? AND ?", Args: []any{int64(18), int64(30)}}
type Raw struct {
	SQL  string
	Args []any
}

func (*Raw) predicateNode() {}

// Group is a conjunction or disjunction of predicates.
//
// A Group nested inside another Group renders inside parentheses; the root
// Group does not. An empty Group renders nothing.
type Group struct {
	Glue       Glue
	Predicates []Predicate
}

func (*Group) predicateNode() {}

// Dir is a sort direction.
type Dir string

const (
	Asc  Dir = "ASC"
	Desc Dir = "DESC"
)

// Order is one ORDER BY term.
type Order struct {
	// Expr is a quoted column or a translation expression.
	Expr string
	// Args are bound values referenced by Expr (the language code of a
	// translation expression).
	Args []any
	Dir  Dir
}

// SQL renders the term with its direction.
func (o Order) SQL() string {
	return o.Expr + " " + string(o.Dir)
}

// Join is a relation joined into the query for a have_no_relation filter.
type Join struct {
	// Relation is the relation name ("owner__relation").
	Relation string
	// Alias is the quoted alias the linked table is visible under.
	Alias string
	// SQL holds one or more complete LEFT JOIN clauses.
	SQL string
	// ToMany is set when a base row can match several joined rows.
	ToMany bool
}

// Drop records part of a request that produced no SQL.
type Drop struct {
	// Path locates the node: "where.rules[1].rules[0]" or "sort[2]".
	Path   string
	Reason string
}

func (d Drop) String() string {
	return d.Path + ": " + d.Reason
}

// Plan is a compiled request.
//
// Plans are built once by the compiler and treated as read-only afterwards;
// adapters must not modify them.
type Plan struct {
	// Object is the catalog object queried; Table its quoted table name.
	Object string
	Table  string
	// Key is the table-qualified, quoted primary key of the base table.
	Key string

	// Where is nil when no leaf survived compilation.
	Where Predicate

	Joins  []Join
	Orders []Order

	// Offset and Limit are nil when not applied.
	Offset *uint64
	Limit  *uint64

	// Eager lists relation names to load alongside the base rows.
	Eager []string

	Dropped []Drop
}

// HasWhere reports whether the plan filters rows.
func (p *Plan) HasWhere() bool {
	return !IsEmpty(p.Where)
}

// FansOut reports whether a join can repeat base rows. Such plans must
// filter base rows by key instead of selecting through the joins.
func (p *Plan) FansOut() bool {
	for _, j := range p.Joins {
		if j.ToMany {
			return true
		}
	}
	return false
}

// EagerExpr renders the eager relations as a bracketed list, "[a, b]",
// or "" when there are none.
func (p *Plan) EagerExpr() string {
	if len(p.Eager) == 0 {
		return ""
	}
	return "[" + strings.Join(p.Eager, ", ") + "]"
}

// Args returns every bound value of the plan in rendering order:
// where predicates first, then order terms.
func (p *Plan) Args() []any {
	args := PredicateArgs(p.Where)
	for _, o := range p.Orders {
		args = append(args, o.Args...)
	}
	return args
}

// IsEmpty reports whether pred renders nothing: nil, or a Group whose
// predicates are all empty.
func IsEmpty(pred Predicate) bool {
	switch p := pred.(type) {
	case nil:
		return true
	case *Raw:
		return p == nil || p.SQL == ""
	case *Group:
		if p == nil {
			return true
		}
		for _, child := range p.Predicates {
			if !IsEmpty(child) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// PredicateArgs collects the bound values of pred depth-first.
func PredicateArgs(pred Predicate) []any {
	var args []any
	var walk func(Predicate)
	walk = func(pred Predicate) {
		switch p := pred.(type) {
		case *Raw:
			if p != nil {
				args = append(args, p.Args...)
			}
		case *Group:
			if p != nil {
				for _, child := range p.Predicates {
					walk(child)
				}
			}
		}
	}
	walk(pred)
	return args
}

// Format renders pred as SQL text with "?" placeholders. Nested groups are
// parenthesized; empty children are skipped.
func Format(pred Predicate) string {
	return format(pred, true)
}

func format(pred Predicate, root bool) string {
	switch p := pred.(type) {
	case *Raw:
		if p == nil {
			return ""
		}
		return p.SQL
	case *Group:
		if p == nil {
			return ""
		}
		var parts []string
		for _, child := range p.Predicates {
			if s := format(child, false); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return ""
		}
		glue := p.Glue
		if glue != Or {
			glue = And
		}
		s := strings.Join(parts, " "+string(glue)+" ")
		if !root && len(parts) > 1 {
			s = "(" + s + ")"
		}
		return s
	default:
		panic(fmt.Sprintf("queryplan: unknown predicate type %T", pred))
	}
}
