// Package queryplan is the immutable result of compiling a condition
// request: a typed predicate tree plus joins, ordering, page bounds and the
// relations to eager-load.
//
// A Plan is the boundary between the condition compiler and any query
// builder. The compiler never touches a builder; adapters (see querysql)
// read the plan and apply it:
//
//	[condition.Request] -> compiler -> [queryplan.Plan] -> querysql -> SQL + args
//
// PREDICATES:
//
// Predicate is a sealed interface with two implementations:
//   - Raw: one translated leaf, SQL text with "?" placeholders and its args
//   - Group: an AND/OR list of predicates
//
// Raw SQL only ever contains quoted identifiers, dialect expressions and
// placeholders. Client values travel in Args.
//
// Switches over Predicate are exhaustive:
//
//	switch p := pred.(type) {
//	case *Raw:
//	    // leaf
//	case *Group:
//	    // recurse
//	}
//
// DIAGNOSTICS:
//
// Leaves and sort keys the compiler could not translate are not errors.
// They are recorded in Plan.Dropped with their path in the request, so a
// caller can log or display them.
package queryplan
