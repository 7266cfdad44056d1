package compiler

import (
	"errors"
	"fmt"
)

// ErrUnknownObject is returned when the requested object is not in the
// catalog.
var ErrUnknownObject = errors.New("unknown object")

// CompileError reports a value that cannot be shaped for its rule.
type CompileError struct {
	// Path locates the leaf in the request, e.g. "where.rules[2]".
	Path    string
	Rule    string
	Message string
}

func (e *CompileError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Rule, e.Message)
}

// IsCompileError reports whether err is or wraps a *CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

// Drop reasons recorded in Plan.Dropped.
const (
	reasonEmptyGroup       = "empty group"
	reasonNotANode         = "not a condition"
	reasonMissingKey       = "missing key"
	reasonUnknownRule      = "unknown rule"
	reasonUnknownField     = "unknown field id"
	reasonInvalidColumn    = "invalid column name"
	reasonMissingValue     = "missing value"
	reasonNoRelation       = "unresolvable relation"
	reasonRelationShape    = "relation shape cannot be joined"
	reasonSortNotFieldID   = "sort key is not a field id"
	reasonNegativeOffset   = "negative offset"
	reasonNegativeLimit    = "negative limit"
	reasonRelationNotMatch = "field is not a relation"
	reasonUnknownObject    = "unknown object"
)
