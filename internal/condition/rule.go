package condition

// RuleKind names a leaf comparison. The set is closed; see AllRuleKinds.
type RuleKind string

const (
	RuleEquals           RuleKind = "equals"
	RuleNotEqual         RuleKind = "not_equal"
	RuleIsEmpty          RuleKind = "is_empty"
	RuleIsNotEmpty       RuleKind = "is_not_empty"
	RuleGreater          RuleKind = "greater"
	RuleGreaterOrEqual   RuleKind = "greater_or_equal"
	RuleLess             RuleKind = "less"
	RuleLessOrEqual      RuleKind = "less_or_equal"
	RuleBeginsWith       RuleKind = "begins_with"
	RuleNotBeginsWith    RuleKind = "not_begins_with"
	RuleContains         RuleKind = "contains"
	RuleNotContains      RuleKind = "not_contains"
	RuleEndsWith         RuleKind = "ends_with"
	RuleNotEndsWith      RuleKind = "not_ends_with"
	RuleBetween          RuleKind = "between"
	RuleNotBetween       RuleKind = "not_between"
	RuleIsCurrentUser    RuleKind = "is_current_user"
	RuleIsNotCurrentUser RuleKind = "is_not_current_user"
	RuleIsNull           RuleKind = "is_null"
	RuleIsNotNull        RuleKind = "is_not_null"
	RuleIn               RuleKind = "in"
	RuleNotIn            RuleKind = "not_in"
	RuleHaveNoRelation   RuleKind = "have_no_relation"
)

var allRuleKinds = []RuleKind{
	RuleEquals,
	RuleNotEqual,
	RuleIsEmpty,
	RuleIsNotEmpty,
	RuleGreater,
	RuleGreaterOrEqual,
	RuleLess,
	RuleLessOrEqual,
	RuleBeginsWith,
	RuleNotBeginsWith,
	RuleContains,
	RuleNotContains,
	RuleEndsWith,
	RuleNotEndsWith,
	RuleBetween,
	RuleNotBetween,
	RuleIsCurrentUser,
	RuleIsNotCurrentUser,
	RuleIsNull,
	RuleIsNotNull,
	RuleIn,
	RuleNotIn,
	RuleHaveNoRelation,
}

// AllRuleKinds returns every rule kind in declaration order.
// The returned slice is a copy.
func AllRuleKinds() []RuleKind {
	out := make([]RuleKind, len(allRuleKinds))
	copy(out, allRuleKinds)
	return out
}

// ParseRuleKind matches s against the enumeration exactly (case-sensitive).
func ParseRuleKind(s string) (RuleKind, bool) {
	for _, k := range allRuleKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// IsValid reports whether k is a member of the enumeration.
func (k RuleKind) IsValid() bool {
	_, ok := ParseRuleKind(string(k))
	return ok
}

// TakesValue reports whether the rule reads the leaf value at all.
func (k RuleKind) TakesValue() bool {
	switch k {
	case RuleIsNull, RuleIsNotNull, RuleIsCurrentUser, RuleIsNotCurrentUser:
		return false
	}
	return true
}
