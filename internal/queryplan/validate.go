package queryplan

import (
	"fmt"
	"strings"
)

// ValidationResult lists structural problems of a plan.
type ValidationResult struct {
	// OK is true when Warnings is empty.
	OK       bool
	Warnings []string
}

// Validate checks a plan for inconsistencies the compiler should never
// produce: placeholder/argument mismatches, duplicate joins, empty groups.
// It is meant for tests and debugging; a plan with warnings still renders.
func Validate(p *Plan) ValidationResult {
	v := &validator{warnings: []string{}}
	if p == nil {
		v.addWarning("nil plan")
	} else {
		v.validatePlan(p)
	}
	return ValidationResult{
		OK:       len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validatePlan(p *Plan) {
	if p.Table == "" {
		v.addWarning("plan has no table")
	}

	if p.FansOut() && p.Key == "" {
		v.addWarning("plan joins a to-many relation but has no key")
	}

	if p.Where != nil {
		v.validatePredicate(p.Where, "where")
	}

	seen := make(map[string]bool, len(p.Joins))
	for i, j := range p.Joins {
		if seen[j.Relation] {
			v.addWarning("joins[%d]: duplicate join for relation %s", i, j.Relation)
		}
		seen[j.Relation] = true
		if j.SQL == "" {
			v.addWarning("joins[%d]: relation %s has no join clause", i, j.Relation)
		}
	}

	for i, o := range p.Orders {
		if o.Dir != Asc && o.Dir != Desc {
			v.addWarning("orders[%d]: invalid direction %q", i, o.Dir)
		}
		if n := strings.Count(o.Expr, "?"); n != len(o.Args) {
			v.addWarning("orders[%d]: %d placeholders but %d args", i, n, len(o.Args))
		}
	}

	eager := make(map[string]bool, len(p.Eager))
	for _, rel := range p.Eager {
		if eager[rel] {
			v.addWarning("eager: duplicate relation %s", rel)
		}
		eager[rel] = true
	}
}

func (v *validator) validatePredicate(pred Predicate, path string) {
	switch p := pred.(type) {
	case *Raw:
		if p.SQL == "" {
			v.addWarning("%s: empty predicate", path)
			return
		}
		if n := strings.Count(p.SQL, "?"); n != len(p.Args) {
			v.addWarning("%s: %d placeholders but %d args", path, n, len(p.Args))
		}
	case *Group:
		if p.Glue != And && p.Glue != Or {
			v.addWarning("%s: invalid glue %q", path, p.Glue)
		}
		if len(p.Predicates) == 0 {
			v.addWarning("%s: empty group", path)
		}
		for i, child := range p.Predicates {
			v.validatePredicate(child, fmt.Sprintf("%s[%d]", path, i))
		}
	default:
		v.addWarning("%s: unknown predicate type %T", path, pred)
	}
}
