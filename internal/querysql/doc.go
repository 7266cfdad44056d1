// Package querysql applies a queryplan.Plan to a squirrel SELECT builder.
//
// The plan already carries dialect-specific SQL fragments; this package
// only places them: joins after FROM, the predicate tree as one WHERE
// expression, order terms, then LIMIT/OFFSET. Placeholders are written as
// "?" throughout and converted by squirrel for the dialect ($n on
// PostgreSQL).
package querysql
