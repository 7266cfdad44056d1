package condition

import "strings"

// Node is one element of a where tree: either a *Group or a *Leaf.
//
// This is a sealed interface; only types in this package implement it, so
// the compiler can switch over it exhaustively.
type Node interface {
	conditionNode()
}

// Glue joins the children of a Group.
type Glue string

const (
	GlueAnd Glue = "and"
	GlueOr  Glue = "or"
)

// ParseGlue maps client input onto a Glue. Anything that is not "or"
// (case-insensitive) is treated as "and", including the empty string.
func ParseGlue(s string) Glue {
	if strings.EqualFold(strings.TrimSpace(s), string(GlueOr)) {
		return GlueOr
	}
	return GlueAnd
}

// Group is an AND/OR list of child nodes.
type Group struct {
	Glue  Glue
	Rules []Node

	// GlueSet is false when the client omitted "glue" and GlueAnd was
	// assumed.
	GlueSet bool
}

func (*Group) conditionNode() {}

// Leaf is a single field/rule/value comparison.
//
// Rule is kept as the raw client string so that unknown rule names survive
// decoding; use Kind to validate it.
type Leaf struct {
	Key   string
	Rule  string
	Value any

	// HasValue distinguishes an absent "value" from an explicit null.
	HasValue bool
}

func (*Leaf) conditionNode() {}

// Kind returns the parsed rule kind and whether it is a known rule.
func (l *Leaf) Kind() (RuleKind, bool) {
	return ParseRuleKind(l.Rule)
}

// SortDescriptor orders results by one field.
type SortDescriptor struct {
	Key string `json:"key"`
	Dir string `json:"dir"`
}

// IsDesc reports whether the descriptor asks for descending order.
func (s SortDescriptor) IsDesc() bool {
	return strings.EqualFold(strings.TrimSpace(s.Dir), "desc")
}

// Request is the full query description received at the system boundary.
type Request struct {
	Where               Node
	Sort                []SortDescriptor
	Offset              *int64
	Limit               *int64
	IncludeRelativeData bool
}

// UserContext carries the session values referenced by conditions.
type UserContext struct {
	Username     string `json:"username" yaml:"username"`
	GUID         string `json:"guid" yaml:"guid"`
	LanguageCode string `json:"languageCode" yaml:"languageCode"`
}

// And builds a Group with GlueAnd.
func And(rules ...Node) *Group {
	return &Group{Glue: GlueAnd, Rules: rules, GlueSet: true}
}

// Or builds a Group with GlueOr.
func Or(rules ...Node) *Group {
	return &Group{Glue: GlueOr, Rules: rules, GlueSet: true}
}

// Rule builds a Leaf carrying a value.
func Rule(key string, rule RuleKind, value any) *Leaf {
	return &Leaf{Key: key, Rule: string(rule), Value: value, HasValue: true}
}

// Check builds a Leaf without a value (is_null, is_current_user, ...).
func Check(key string, rule RuleKind) *Leaf {
	return &Leaf{Key: key, Rule: string(rule)}
}

// Int64 returns a pointer to n, for Request.Offset and Request.Limit.
func Int64(n int64) *int64 {
	return &n
}
