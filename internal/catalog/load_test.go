package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamCUE = `
object: team: {
	table: "site_team"
	pk:    "id"
	fields: {
		name: {id: "6f3c1d2e-0000-4000-8000-000000000001", type: "string", multilingual: true}
		kind: {
			id:      "6f3c1d2e-0000-4000-8000-000000000005"
			column:  "team_kind"
			type:    "list"
			options: [{id: "k1", text: "Internal"}, {id: "k2", text: "External"}]
		}
		lead: {
			id:   "6f3c1d2e-0000-4000-8000-000000000002"
			type: "connectObject"
			link: {object: "user", column: "6f3c1d2e-0000-4000-8000-000000000004"}
		}
	}
}

object: user: {
	table: "site_user"
	fields: {
		teams: {
			id:   "6f3c1d2e-0000-4000-8000-000000000004"
			type: "connectObject"
			link: {object: "team", column: "6f3c1d2e-0000-4000-8000-000000000002", type: "many", via: "one"}
		}
	}
}
`

func TestLoadString_Objects(t *testing.T) {
	c, err := LoadString("team.cue", teamCUE)
	require.NoError(t, err)
	require.NoError(t, Validate(c))

	team, ok := c.Object("team")
	require.True(t, ok)
	assert.Equal(t, "site_team", team.DBTableName())
	assert.Equal(t, "id", team.PKName())
	require.Len(t, team.Fields, 3)

	user, ok := c.Object("user")
	require.True(t, ok)
	assert.Equal(t, DefaultPK, user.PKName())
}

func TestLoadString_FieldAttributes(t *testing.T) {
	c, err := LoadString("team.cue", teamCUE)
	require.NoError(t, err)

	name, ok := c.Field(teamNameID)
	require.True(t, ok)
	assert.Equal(t, "name", name.ColumnName)
	assert.True(t, name.Multilingual)

	kind, ok := c.Field(teamKindID)
	require.True(t, ok)
	assert.Equal(t, "team_kind", kind.ColumnName)
	assert.Equal(t, KeyList, kind.Key)
	assert.Equal(t, []Option{{ID: "k1", Text: "Internal"}, {ID: "k2", Text: "External"}}, kind.Options)
}

func TestLoadString_LinkDefaults(t *testing.T) {
	c, err := LoadString("team.cue", teamCUE)
	require.NoError(t, err)

	lead, ok := c.Field(teamLeadID)
	require.True(t, ok)
	require.NotNil(t, lead.Link)
	assert.Equal(t, LinkOne, lead.Link.Type)
	assert.Equal(t, LinkOne, lead.Link.ViaType)
	assert.Equal(t, ShapeOwnColumn, lead.Shape())

	teams, _ := c.Field(userTeamsID)
	assert.Equal(t, ShapeLinkedColumn, teams.Shape())
	assert.Same(t, lead, teams.FieldLink())
}

func TestLoadString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		field   string
		message string
	}{
		{
			name:    "no objects",
			src:     `other: 1`,
			field:   "object",
			message: "no objects defined",
		},
		{
			name:    "missing table",
			src:     `object: a: {pk: "id"}`,
			field:   "table",
			message: "table is required",
		},
		{
			name:    "table not a string",
			src:     `object: a: {table: 42}`,
			field:   "table",
			message: "must be a string",
		},
		{
			name:    "missing field id",
			src:     `object: a: {table: "a", fields: x: {type: "string"}}`,
			field:   "id",
			message: "field x: id is required",
		},
		{
			name:    "missing field type",
			src:     `object: a: {table: "a", fields: x: {id: "6f3c1d2e-0000-4000-8000-000000000001"}}`,
			field:   "type",
			message: "field x: type is required",
		},
		{
			name:    "connect without link",
			src:     `object: a: {table: "a", fields: x: {id: "6f3c1d2e-0000-4000-8000-000000000001", type: "connectObject"}}`,
			field:   "link",
			message: "connectObject requires link",
		},
		{
			name:    "link without object",
			src:     `object: a: {table: "a", fields: x: {id: "6f3c1d2e-0000-4000-8000-000000000001", type: "connectObject", link: {type: "one"}}}`,
			field:   "link.object",
			message: "link.object is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadString("bad.cue", tt.src)
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "want *LoadError, got %T", err)
			assert.Equal(t, tt.field, loadErr.Field)
			assert.Contains(t, loadErr.Message, tt.message)
		})
	}
}

func TestLoadString_SyntaxErrorHasPosition(t *testing.T) {
	_, err := LoadString("syntax.cue", "object: a: {table: \"a\"\n  fields: {{\n")
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "cue", loadErr.Field)
	assert.True(t, loadErr.Pos.IsValid())
	assert.Contains(t, err.Error(), "syntax.cue:")
}

func TestLoadDir_Fixture(t *testing.T) {
	dir := filepath.Join("..", "..", "testdata", "catalog")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Skip("testdata/catalog directory not found")
	}

	c, err := LoadDir(dir)
	require.NoError(t, err)
	require.NoError(t, Validate(c))

	for _, name := range []string{"person", "user", "tag"} {
		_, ok := c.Object(name)
		assert.True(t, ok, name)
	}
}

func TestLoadDir_NotFound(t *testing.T) {
	_, err := LoadDir("/nonexistent/catalog/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not accessible")
}

func TestLoadDir_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.cue")
	require.NoError(t, os.WriteFile(file, []byte("object: {}"), 0644))

	_, err := LoadDir(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CUE files found")
}

func TestLoadDir_InvalidDefinition(t *testing.T) {
	_, err := LoadDir("testdata")
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "table", loadErr.Field)
	assert.Contains(t, loadErr.Pos.Filename(), "broken.cue")
}

func TestLoadDir_TempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "team.cue"), []byte("package c\n"+teamCUE), 0644))

	c, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, c.Objects(), 2)
}
