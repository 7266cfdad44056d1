package compiler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/wongpratan/abquery/internal/condition"
)

// operators maps every rule kind onto its SQL operator. equals/is_empty and
// not_equal/is_not_empty share an operator on purpose.
var operators = map[condition.RuleKind]string{
	condition.RuleEquals:           "=",
	condition.RuleNotEqual:         "<>",
	condition.RuleIsEmpty:          "=",
	condition.RuleIsNotEmpty:       "<>",
	condition.RuleGreater:          ">",
	condition.RuleGreaterOrEqual:   ">=",
	condition.RuleLess:             "<",
	condition.RuleLessOrEqual:      "<=",
	condition.RuleBeginsWith:       "LIKE",
	condition.RuleNotBeginsWith:    "NOT LIKE",
	condition.RuleContains:         "LIKE",
	condition.RuleNotContains:      "NOT LIKE",
	condition.RuleEndsWith:         "LIKE",
	condition.RuleNotEndsWith:      "NOT LIKE",
	condition.RuleBetween:          "BETWEEN",
	condition.RuleNotBetween:       "NOT BETWEEN",
	condition.RuleIsCurrentUser:    "=",
	condition.RuleIsNotCurrentUser: "<>",
	condition.RuleIsNull:           "IS NULL",
	condition.RuleIsNotNull:        "IS NOT NULL",
	condition.RuleIn:               "IN",
	condition.RuleNotIn:            "NOT IN",
	condition.RuleHaveNoRelation:   "IS NULL",
}

// Operator returns the SQL operator of a rule kind.
func Operator(kind condition.RuleKind) (string, bool) {
	op, ok := operators[kind]
	return op, ok
}

// Translation is the operator and bound right-hand side of one leaf.
type Translation struct {
	Operator string
	// Input is the right-hand side with placeholders: "?", "? AND ?",
	// "(?, ?)" or "" when the operator takes none.
	Input string
	Args  []any
	// Constant replaces the whole predicate when set ("1 = 0" for an
	// empty IN list).
	Constant string
}

// SQL renders the predicate "<column> <operator> <input>".
func (t Translation) SQL(column string) string {
	if t.Constant != "" {
		return t.Constant
	}
	if t.Input == "" {
		return column + " " + t.Operator
	}
	return column + " " + t.Operator + " " + t.Input
}

// Translate maps one rule and its value onto an operator and bound
// arguments. Values are never embedded in the SQL text.
//
// For have_no_relation it returns the IS NULL operator only; the join is
// built by the compiler.
func Translate(kind condition.RuleKind, value any, user condition.UserContext) (Translation, error) {
	op, ok := operators[kind]
	if !ok {
		return Translation{}, fmt.Errorf("unknown rule %q", kind)
	}
	t := Translation{Operator: op}

	switch kind {
	case condition.RuleIsNull, condition.RuleIsNotNull, condition.RuleHaveNoRelation:
		return t, nil

	case condition.RuleIsCurrentUser, condition.RuleIsNotCurrentUser:
		t.Input, t.Args = "?", []any{user.Username}
		return t, nil

	case condition.RuleBeginsWith, condition.RuleNotBeginsWith,
		condition.RuleContains, condition.RuleNotContains,
		condition.RuleEndsWith, condition.RuleNotEndsWith:
		if !isScalar(value) {
			return Translation{}, fmt.Errorf("expects a scalar value, got %s", describe(value))
		}
		t.Input, t.Args = "?", []any{likePattern(kind, text(value))}
		return t, nil

	case condition.RuleBetween, condition.RuleNotBetween:
		values, ok := value.([]any)
		if !ok || len(values) != 2 {
			return Translation{}, fmt.Errorf("expects an array of two values, got %s", describe(value))
		}
		for _, v := range values {
			if !isScalar(v) {
				return Translation{}, fmt.Errorf("expects scalar bounds, got %s", describe(v))
			}
		}
		t.Input, t.Args = "? AND ?", []any{values[0], values[1]}
		return t, nil

	case condition.RuleIn, condition.RuleNotIn:
		values, ok := value.([]any)
		if !ok {
			return Translation{}, fmt.Errorf("expects an array, got %s", describe(value))
		}
		if len(values) == 0 {
			if kind == condition.RuleIn {
				t.Constant = "1 = 0"
			} else {
				t.Constant = "1 = 1"
			}
			return t, nil
		}
		for _, v := range values {
			if !isScalar(v) {
				return Translation{}, fmt.Errorf("expects scalar members, got %s", describe(v))
			}
		}
		t.Input = "(" + strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ") + ")"
		t.Args = append([]any(nil), values...)
		return t, nil

	default:
		if !isScalar(value) {
			return Translation{}, fmt.Errorf("expects a scalar value, got %s", describe(value))
		}
		t.Input, t.Args = "?", []any{value}
		return t, nil
	}
}

func likePattern(kind condition.RuleKind, v string) string {
	switch kind {
	case condition.RuleBeginsWith, condition.RuleNotBeginsWith:
		return v + "%"
	case condition.RuleEndsWith, condition.RuleNotEndsWith:
		return "%" + v
	default:
		return "%" + v + "%"
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, bool, string, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// text is the string form a scalar takes inside a LIKE pattern.
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case []any:
		return fmt.Sprintf("array of %d", len(x))
	case map[string]any:
		return "object"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "number"
	}
}
