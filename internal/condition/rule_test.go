package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllRuleKinds_Count(t *testing.T) {
	kinds := AllRuleKinds()
	assert.Len(t, kinds, 23)

	seen := make(map[RuleKind]bool, len(kinds))
	for _, k := range kinds {
		assert.False(t, seen[k], "duplicate rule kind %q", k)
		seen[k] = true
	}
}

func TestAllRuleKinds_ReturnsCopy(t *testing.T) {
	kinds := AllRuleKinds()
	kinds[0] = "mutated"
	assert.Equal(t, RuleEquals, AllRuleKinds()[0])
}

func TestParseRuleKind(t *testing.T) {
	k, ok := ParseRuleKind("not_between")
	assert.True(t, ok)
	assert.Equal(t, RuleNotBetween, k)

	_, ok = ParseRuleKind("NOT_BETWEEN")
	assert.False(t, ok, "rule names are case-sensitive")

	_, ok = ParseRuleKind("sounds_like")
	assert.False(t, ok)

	assert.True(t, RuleIn.IsValid())
	assert.False(t, RuleKind("").IsValid())
}

func TestRuleKind_TakesValue(t *testing.T) {
	assert.False(t, RuleIsNull.TakesValue())
	assert.False(t, RuleIsNotNull.TakesValue())
	assert.False(t, RuleIsCurrentUser.TakesValue())
	assert.True(t, RuleEquals.TakesValue())
	assert.True(t, RuleHaveNoRelation.TakesValue())
}

func TestLeaf_Kind(t *testing.T) {
	k, ok := Rule("a", RuleContains, "x").Kind()
	assert.True(t, ok)
	assert.Equal(t, RuleContains, k)

	_, ok = (&Leaf{Key: "a", Rule: "bogus"}).Kind()
	assert.False(t, ok)
}
