package compiler

import (
	"fmt"

	"github.com/wongpratan/abquery/internal/catalog"
	"github.com/wongpratan/abquery/internal/condition"
	"github.com/wongpratan/abquery/internal/queryplan"
)

// applySort adds one ORDER BY term per resolvable descriptor, in order.
// Sort keys must be field ids of the compiled object.
func (cc *compilation) applySort(sorts []condition.SortDescriptor) {
	for i, s := range sorts {
		path := fmt.Sprintf("sort[%d]", i)
		if !catalog.IsFieldID(s.Key) {
			cc.drop(path, reasonSortNotFieldID)
			continue
		}
		f, ok := cc.res.lookup(s.Key)
		if !ok {
			cc.drop(path, reasonUnknownField)
			continue
		}

		col := cc.res.field(f)
		dir := queryplan.Asc
		if s.IsDesc() {
			dir = queryplan.Desc
		}
		cc.plan.Orders = append(cc.plan.Orders, queryplan.Order{Expr: col.Expr, Args: col.Args, Dir: dir})
	}
}

// applyPage sets offset and limit. Zero values are not applied, except
// offset 0 when zero-offset skipping is disabled.
func (cc *compilation) applyPage(offset, limit *int64) {
	if offset != nil {
		switch {
		case *offset < 0:
			cc.drop("offset", reasonNegativeOffset)
		case *offset > 0 || !cc.c.skipZeroOffset:
			n := uint64(*offset)
			cc.plan.Offset = &n
		}
	}
	if limit != nil {
		switch {
		case *limit < 0:
			cc.drop("limit", reasonNegativeLimit)
		case *limit > 0:
			n := uint64(*limit)
			cc.plan.Limit = &n
		}
	}
}

// applyEager requests every relation of the object whose reciprocal field
// resolves. No relations means no eager directive at all.
func (cc *compilation) applyEager() {
	seen := make(map[string]bool)
	for _, f := range cc.object.ConnectFields() {
		if f.FieldLink() == nil {
			continue
		}
		name := f.RelationName()
		if seen[name] {
			continue
		}
		seen[name] = true
		cc.plan.Eager = append(cc.plan.Eager, name)
	}
}
