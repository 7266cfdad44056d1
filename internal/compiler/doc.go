// Package compiler turns a condition request into a queryplan.Plan.
//
// Compilation is pure: it reads the request, the catalog and the user
// context, performs no I/O and shares no mutable state, so one Compiler may
// serve any number of goroutines.
//
// The work is split four ways:
//
//   - the tree walker descends AND/OR groups in array order
//   - the rule translator maps a rule kind onto its SQL operator and binds
//     the shaped value as parameters
//   - the column resolver turns a key into a SQL expression: a quoted raw
//     column, a table-qualified catalog column or a translation expression
//     for multilingual fields
//   - the assembler adds ORDER BY terms, offset/limit and eager relations
//
// Tolerated input problems (unknown rules, unknown field ids, empty groups,
// unresolvable relations) drop the offending part and are listed in
// Plan.Dropped. Values that cannot be shaped for their rule (a between
// without two values, an in without an array, an object where a scalar is
// expected) fail the compile with a *CompileError.
//
// Example:
//
//	c := compiler.New(cat, dialect.MySQL{})
//	plan, err := c.Compile("person", req, user)
//	sqlText, args, err := querysql.New(dialect.MySQL{}).Render(plan)
package compiler
