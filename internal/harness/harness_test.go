package harness

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wongpratan/abquery/internal/condition"
)

func requestNode(t *testing.T, src string) yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return *doc.Content[0]
}

func TestRun_CompileOnly(t *testing.T) {
	scenario := &Scenario{
		Name:        "compile_only",
		Description: "compile without a database",
		Dialect:     "postgres",
		Object:      "person",
		Request:     requestNode(t, `{where: {rules: [{key: age, rule: less, value: 10}]}}`),
		Expect: Expect{
			SQL:  `SELECT "person".* FROM "person" WHERE "age" < $1`,
			Args: []any{10},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Nil(t, result.RowIDs)
}

func TestRun_ExecutesWithFixture(t *testing.T) {
	scenario := &Scenario{
		Name:        "owner_missing",
		Description: "people without an owner",
		Object:      "person",
		Fixture:     "people",
		Request:     requestNode(t, `{where: {rules: [{key: owner, rule: have_no_relation}]}}`),
		Expect:      Expect{RowIDs: []int64{2}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []int64{2}, result.RowIDs)
}

func TestRun_SeedStatements(t *testing.T) {
	scenario := &Scenario{
		Name:        "extra_row",
		Description: "seed adds a row",
		Object:      "person",
		Fixture:     "people",
		Seed:        []string{`INSERT INTO person (id, age) VALUES (4, 70)`},
		Request:     requestNode(t, `{where: {rules: [{key: age, rule: greater_or_equal, value: 35}]}, sort: [{key: 1a0e7c52-3b4d-4e6f-8a9b-000000000002}]}`),
		Expect:      Expect{RowIDs: []int64{1, 4}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ReportsMismatches(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "every expectation wrong",
		Dialect:     "mysql",
		Object:      "person",
		Request:     requestNode(t, `{where: {rules: [{key: age, rule: equals, value: 1}, {key: age, rule: nope}]}}`),
		Expect: Expect{
			SQL:     "SELECT 1",
			Args:    []any{2},
			Dropped: []string{},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "sql mismatch")
	assert.Contains(t, result.Errors[1], "args mismatch")
	assert.Contains(t, result.Errors[2], "dropped mismatch")
}

func TestRun_ExpectedError(t *testing.T) {
	scenario := &Scenario{
		Name:        "unknown_object",
		Description: "object not in catalog",
		Object:      "planet",
		Expect:      Expect{Error: "unknown object"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Contains(t, result.Err, "COMPILE_FAILED")
}

func TestRun_UnexpectedError(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_between",
		Description: "fails but no error expected",
		Object:      "person",
		Request:     requestNode(t, `{where: {rules: [{key: age, rule: between, value: [1]}]}}`),
		Expect:      Expect{SQL: "SELECT 1"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unexpected error")
}

func TestRun_BadCatalog(t *testing.T) {
	scenario := &Scenario{
		Name:        "no_catalog",
		Description: "missing catalog dir",
		Catalog:     t.TempDir(),
		Object:      "person",
		Expect:      Expect{SQL: "x"},
	}
	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalog")
}

func TestRun_BadSeed(t *testing.T) {
	scenario := &Scenario{
		Name:        "bad_seed",
		Description: "seed statement fails",
		Object:      "person",
		Seed:        []string{"NOT SQL"},
		Expect:      Expect{RowIDs: []int64{}},
	}
	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seed")
}

func TestRun_UserLanguage(t *testing.T) {
	scenario := &Scenario{
		Name:        "english",
		Description: "English translation",
		Object:      "person",
		Fixture:     "people",
		User:        condition.UserContext{LanguageCode: "en"},
		Request:     requestNode(t, `{where: {rules: [{key: 1a0e7c52-3b4d-4e6f-8a9b-000000000001, rule: equals, value: Carl}]}}`),
		Expect:      Expect{RowIDs: []int64{3}, Args: []any{"en", "Carl"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestScenarios_Golden(t *testing.T) {
	if _, err := os.Stat("testdata/scenarios"); os.IsNotExist(err) {
		t.Skip("testdata/scenarios not found")
	}
	if _, err := os.Stat("../../testdata/catalog"); os.IsNotExist(err) {
		t.Skip("testdata/catalog not found")
	}

	scenarios, err := LoadDir("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			if s.Expect.Error != "" {
				result, err := Run(s)
				require.NoError(t, err)
				assert.True(t, result.Pass, "errors: %v", result.Errors)
				return
			}

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}
