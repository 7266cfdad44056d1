package condition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest_FullDocument(t *testing.T) {
	data := []byte(`{
		"where": {"glue": "and", "rules": [
			{"key": "name", "rule": "equals", "value": "Bob"},
			{"glue": "or", "rules": [
				{"key": "age", "rule": "greater", "value": 30},
				{"key": "age", "rule": "less", "value": 10}
			]}
		]},
		"sort": [{"key": "name", "dir": "desc"}],
		"offset": 20,
		"limit": 10,
		"includeRelativeData": true
	}`)

	req, err := DecodeRequest(data)
	require.NoError(t, err)

	root, ok := req.Where.(*Group)
	require.True(t, ok, "where should decode to a group")
	assert.Equal(t, GlueAnd, root.Glue)
	assert.True(t, root.GlueSet)
	require.Len(t, root.Rules, 2)

	first, ok := root.Rules[0].(*Leaf)
	require.True(t, ok)
	assert.Equal(t, "name", first.Key)
	assert.Equal(t, "equals", first.Rule)
	assert.Equal(t, "Bob", first.Value)
	assert.True(t, first.HasValue)

	nested, ok := root.Rules[1].(*Group)
	require.True(t, ok)
	assert.Equal(t, GlueOr, nested.Glue)
	require.Len(t, nested.Rules, 2)
	assert.Equal(t, int64(30), nested.Rules[0].(*Leaf).Value)

	require.Len(t, req.Sort, 1)
	assert.Equal(t, SortDescriptor{Key: "name", Dir: "desc"}, req.Sort[0])
	assert.True(t, req.Sort[0].IsDesc())

	require.NotNil(t, req.Offset)
	assert.Equal(t, int64(20), *req.Offset)
	require.NotNil(t, req.Limit)
	assert.Equal(t, int64(10), *req.Limit)
	assert.True(t, req.IncludeRelativeData)
}

func TestDecodeRequest_Empty(t *testing.T) {
	req, err := DecodeRequest([]byte(`{}`))
	require.NoError(t, err)

	assert.Nil(t, req.Where)
	assert.Empty(t, req.Sort)
	assert.Nil(t, req.Offset)
	assert.Nil(t, req.Limit)
	assert.False(t, req.IncludeRelativeData)
}

func TestDecodeRequest_InvalidJSON(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"where": `))
	assert.Error(t, err)

	_, err = DecodeRequest([]byte(`[1, 2]`))
	assert.Error(t, err)
}

func TestDecodeRequest_WrongTypesAreAbsent(t *testing.T) {
	req, err := DecodeRequest([]byte(`{
		"sort": {"key": "x"},
		"offset": "ten",
		"limit": 2.5,
		"includeRelativeData": "yes"
	}`))
	require.NoError(t, err)

	assert.Empty(t, req.Sort)
	assert.Nil(t, req.Offset)
	assert.Nil(t, req.Limit)
	assert.False(t, req.IncludeRelativeData)
}

func TestDecodeRequest_ZeroOffsetIsPresent(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"offset": 0, "limit": 0}`))
	require.NoError(t, err)

	require.NotNil(t, req.Offset)
	assert.Equal(t, int64(0), *req.Offset)
	require.NotNil(t, req.Limit)
	assert.Equal(t, int64(0), *req.Limit)
}

func ptr[T any](v T) *T { return &v }

func TestDecodeRequest_IntegerBounds(t *testing.T) {
	v, err := DecodeValue([]byte(`9223372036854775808`))
	require.NoError(t, err)
	assert.IsType(t, float64(0), v)

	tests := []struct {
		body string
		want *int64
	}{
		{`{"limit": 9223372036854775807}`, ptr(int64(math.MaxInt64))},
		{`{"limit": 9223372036854775808}`, nil},
		{`{"limit": 1e19}`, nil},
		{`{"limit": 2e18}`, ptr(int64(2000000000000000000))},
		{`{"limit": -9.223372036854775808e18}`, ptr(int64(math.MinInt64))},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Limit)
		})
	}
}

func TestDecodeNode_MissingGlueDefaultsToAnd(t *testing.T) {
	n, err := DecodeNode([]byte(`{"rules": [{"key": "a", "rule": "is_null"}]}`))
	require.NoError(t, err)

	g, ok := n.(*Group)
	require.True(t, ok)
	assert.Equal(t, GlueAnd, g.Glue)
	assert.False(t, g.GlueSet)
	require.Len(t, g.Rules, 1)

	leaf := g.Rules[0].(*Leaf)
	assert.False(t, leaf.HasValue)
}

func TestDecodeNode_GlueWithoutRules(t *testing.T) {
	n, err := DecodeNode([]byte(`{"glue": "or"}`))
	require.NoError(t, err)

	g, ok := n.(*Group)
	require.True(t, ok)
	assert.Equal(t, GlueOr, g.Glue)
	assert.Empty(t, g.Rules)
}

func TestDecodeNode_MalformedChildrenBecomeEmptyLeaves(t *testing.T) {
	n, err := DecodeNode([]byte(`{"glue": "and", "rules": ["oops", 3, {"key": 5, "rule": true}]}`))
	require.NoError(t, err)

	g := n.(*Group)
	require.Len(t, g.Rules, 3)
	for _, r := range g.Rules {
		leaf, ok := r.(*Leaf)
		require.True(t, ok)
		assert.Empty(t, leaf.Key)
		assert.Empty(t, leaf.Rule)
	}
}

func TestDecodeNode_Null(t *testing.T) {
	n, err := DecodeNode([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestDecodeNode_ExplicitNullValue(t *testing.T) {
	n, err := DecodeNode([]byte(`{"key": "a", "rule": "equals", "value": null}`))
	require.NoError(t, err)

	leaf := n.(*Leaf)
	assert.True(t, leaf.HasValue)
	assert.Nil(t, leaf.Value)
}

func TestDecodeValue_Types(t *testing.T) {
	tests := []struct {
		name string
		json string
		want any
	}{
		{"string", `"x"`, "x"},
		{"int", `42`, int64(42)},
		{"negative int", `-7`, int64(-7)},
		{"float", `2.5`, 2.5},
		{"bool", `true`, true},
		{"null", `null`, nil},
		{"array", `["A", 1]`, []any{"A", int64(1)}},
		{"object", `{"n": 1}`, map[string]any{"n": int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeValue([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGlue(t *testing.T) {
	assert.Equal(t, GlueOr, ParseGlue("or"))
	assert.Equal(t, GlueOr, ParseGlue(" OR "))
	assert.Equal(t, GlueAnd, ParseGlue("and"))
	assert.Equal(t, GlueAnd, ParseGlue(""))
	assert.Equal(t, GlueAnd, ParseGlue("xor"))
}
