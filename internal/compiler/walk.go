package compiler

import (
	"fmt"

	"github.com/wongpratan/abquery/internal/condition"
	"github.com/wongpratan/abquery/internal/queryplan"
)

// walk compiles a node into a predicate. A nil predicate means the node
// contributed nothing.
func (cc *compilation) walk(n condition.Node, path string) (queryplan.Predicate, error) {
	switch node := n.(type) {
	case nil:
		return nil, nil
	case *condition.Group:
		return cc.walkGroup(node, path)
	case *condition.Leaf:
		return cc.walkLeaf(node, path)
	default:
		cc.drop(path, reasonNotANode)
		return nil, nil
	}
}

func (cc *compilation) walkGroup(g *condition.Group, path string) (queryplan.Predicate, error) {
	glue := queryplan.And
	if g.Glue == condition.GlueOr {
		glue = queryplan.Or
	}

	group := &queryplan.Group{Glue: glue}
	for i, child := range g.Rules {
		pred, err := cc.walk(child, fmt.Sprintf("%s.rules[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if !queryplan.IsEmpty(pred) {
			group.Predicates = append(group.Predicates, pred)
		}
	}

	if len(g.Rules) == 0 {
		cc.drop(path, reasonEmptyGroup)
	}
	if len(group.Predicates) == 0 {
		return nil, nil
	}
	return group, nil
}

func (cc *compilation) walkLeaf(l *condition.Leaf, path string) (queryplan.Predicate, error) {
	kind, ok := l.Kind()
	if !ok {
		cc.drop(path, reasonUnknownRule)
		return nil, nil
	}
	if kind == condition.RuleHaveNoRelation {
		return cc.haveNoRelation(l, path), nil
	}

	col, reason := cc.res.resolve(l.Key)
	if reason != "" {
		cc.drop(path, reason)
		return nil, nil
	}

	value := l.Value
	if kind == condition.RuleIsEmpty || kind == condition.RuleIsNotEmpty {
		if cc.c.emptyMode == EmptyStrict {
			return emptyCheck(kind, col), nil
		}
		if !l.HasValue {
			value = ""
		}
	} else if kind.TakesValue() && !l.HasValue {
		cc.drop(path, reasonMissingValue)
		return nil, nil
	}
	value = listValue(col.Field, value)

	t, err := Translate(kind, value, cc.user)
	if err != nil {
		return nil, &CompileError{Path: path, Rule: string(kind), Message: err.Error()}
	}

	raw := &queryplan.Raw{SQL: t.SQL(col.Expr)}
	if t.Constant == "" {
		raw.Args = append(append([]any(nil), col.Args...), t.Args...)
	}
	return raw, nil
}

// emptyCheck is the strict is_empty / is_not_empty predicate.
func emptyCheck(kind condition.RuleKind, col Column) queryplan.Predicate {
	args := append(append(append([]any(nil), col.Args...), col.Args...), "")
	if kind == condition.RuleIsEmpty {
		return &queryplan.Raw{SQL: fmt.Sprintf("(%s IS NULL OR %s = ?)", col.Expr, col.Expr), Args: args}
	}
	return &queryplan.Raw{SQL: fmt.Sprintf("(%s IS NOT NULL AND %s <> ?)", col.Expr, col.Expr), Args: args}
}

// haveNoRelation joins the leaf's relation and tests its key for NULL.
func (cc *compilation) haveNoRelation(l *condition.Leaf, path string) queryplan.Predicate {
	f, reason := relationField(cc.c.catalog, cc.object, l.Key)
	if reason != "" {
		cc.drop(path, reason)
		return nil
	}

	join, ok := relationJoin(cc.c.dialect, f)
	if !ok {
		cc.drop(path, reasonRelationShape)
		return nil
	}
	if !cc.joined[join.Relation] {
		cc.joined[join.Relation] = true
		cc.plan.Joins = append(cc.plan.Joins, join)
	}

	pk := relationPK(f, l.Value)
	return &queryplan.Raw{SQL: join.Alias + "." + cc.c.dialect.QuoteIdent(pk) + " IS NULL"}
}
