package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	teamNameID    = "6f3c1d2e-0000-4000-8000-000000000001"
	teamLeadID    = "6f3c1d2e-0000-4000-8000-000000000002"
	userNameID    = "6f3c1d2e-0000-4000-8000-000000000003"
	userTeamsID   = "6f3c1d2e-0000-4000-8000-000000000004"
	teamKindID    = "6f3c1d2e-0000-4000-8000-000000000005"
	teamMembersID = "6f3c1d2e-0000-4000-8000-000000000006"
)

func newTestCatalog() *Catalog {
	team := &Object{Name: "team", Table: "site_team", PK: "id", Fields: []*Field{
		{ID: teamNameID, Name: "name", Key: KeyString, Multilingual: true},
		{ID: teamLeadID, Name: "lead-user", Key: KeyConnect, Link: &Link{
			Object: "user", Column: userTeamsID, Type: LinkOne, ViaType: LinkMany,
		}},
		{ID: teamKindID, Name: "kind", Key: KeyList, Options: []Option{
			{ID: "k1", Text: "Internal"},
			{ID: "k2", Text: "External"},
		}},
		{ID: teamMembersID, Name: "members", Key: KeyConnect, Link: &Link{
			Object: "user", Type: LinkMany, ViaType: LinkMany,
			JoinTable: "team_member", SourceColumn: "team_id", TargetColumn: "user_id",
		}},
	}}
	user := &Object{Name: "user", Table: "site_user", Fields: []*Field{
		{ID: userNameID, Name: "username", Key: KeyString},
		{ID: userTeamsID, Name: "teams", Key: KeyConnect, Link: &Link{
			Object: "team", Column: teamLeadID, Type: LinkMany, ViaType: LinkOne,
		}},
	}}
	return New(team, user)
}

func TestCatalog_FieldLookupByID(t *testing.T) {
	c := newTestCatalog()

	f, ok := c.Field(teamNameID)
	require.True(t, ok)
	assert.Equal(t, "name", f.ColumnName)
	assert.True(t, f.Multilingual)
	require.NotNil(t, f.Object())
	assert.Equal(t, "site_team", f.Object().DBTableName())
}

func TestCatalog_FieldLookupCaseInsensitive(t *testing.T) {
	c := newTestCatalog()

	_, ok := c.Field("6F3C1D2E-0000-4000-8000-000000000001")
	assert.True(t, ok)
}

func TestCatalog_FieldNotFound(t *testing.T) {
	c := newTestCatalog()

	f, ok := c.Field("00000000-0000-4000-8000-000000000000")
	assert.False(t, ok)
	assert.Nil(t, f)
}

func TestCatalog_ObjectsInOrder(t *testing.T) {
	c := newTestCatalog()

	objs := c.Objects()
	require.Len(t, objs, 2)
	assert.Equal(t, "team", objs[0].Name)
	assert.Equal(t, "user", objs[1].Name)

	objs[0] = nil
	assert.NotNil(t, c.Objects()[0], "Objects returns a copy")
}

func TestObject_PKNameDefault(t *testing.T) {
	c := newTestCatalog()

	team, _ := c.Object("team")
	user, _ := c.Object("user")
	assert.Equal(t, "id", team.PKName())
	assert.Equal(t, DefaultPK, user.PKName())
}

func TestObject_FieldByColumn(t *testing.T) {
	c := newTestCatalog()
	team, _ := c.Object("team")

	f, ok := team.FieldByColumn("kind")
	require.True(t, ok)
	assert.Equal(t, teamKindID, f.ID)

	_, ok = team.FieldByColumn("missing")
	assert.False(t, ok)
}

func TestObject_ConnectFieldsAndRelation(t *testing.T) {
	c := newTestCatalog()
	team, _ := c.Object("team")

	connect := team.ConnectFields()
	require.Len(t, connect, 2)
	assert.Equal(t, "lead-user", connect[0].ColumnName)
	assert.Equal(t, "members", connect[1].ColumnName)

	f, ok := team.Relation("leaduser__relation")
	require.True(t, ok)
	assert.Equal(t, teamLeadID, f.ID)
}

func TestField_LinksResolve(t *testing.T) {
	c := newTestCatalog()
	lead, _ := c.Field(teamLeadID)

	require.NotNil(t, lead.DatasourceLink())
	assert.Equal(t, "user", lead.DatasourceLink().Name)
	require.NotNil(t, lead.FieldLink())
	assert.Equal(t, userTeamsID, lead.FieldLink().ID)

	members, _ := c.Field(teamMembersID)
	assert.NotNil(t, members.DatasourceLink())
	assert.Nil(t, members.FieldLink(), "no reciprocal column declared")
}

func TestField_NonConnectHasNoLinks(t *testing.T) {
	c := newTestCatalog()
	name, _ := c.Field(teamNameID)

	assert.False(t, name.IsConnect())
	assert.Nil(t, name.DatasourceLink())
	assert.Nil(t, name.FieldLink())
}

func TestField_OptionByIDOrText(t *testing.T) {
	c := newTestCatalog()
	kind, _ := c.Field(teamKindID)

	o, ok := kind.Option("k2")
	require.True(t, ok)
	assert.Equal(t, "External", o.Text)

	o, ok = kind.Option("Internal")
	require.True(t, ok)
	assert.Equal(t, "k1", o.ID)

	_, ok = kind.Option("internal")
	assert.False(t, ok, "option text compares exactly")
}

func TestNew_ColumnDefaultsToName(t *testing.T) {
	c := New(&Object{Name: "o", Table: "o", Fields: []*Field{{ID: teamNameID, Name: "title", Key: KeyString}}})

	f, _ := c.Field(teamNameID)
	assert.Equal(t, "title", f.ColumnName)
}

func TestNew_DuplicatesKeepFirst(t *testing.T) {
	first := &Object{Name: "o", Table: "first", Fields: []*Field{{ID: teamNameID, Name: "a", Key: KeyString}}}
	second := &Object{Name: "o", Table: "second"}
	other := &Object{Name: "p", Table: "p", Fields: []*Field{{ID: teamNameID, Name: "b", Key: KeyString}}}

	c := New(first, second, other)

	o, _ := c.Object("o")
	assert.Equal(t, "first", o.Table)
	f, _ := c.Field(teamNameID)
	assert.Equal(t, "a", f.ColumnName)
	assert.Len(t, c.duplicates, 2)
}

func TestIsFieldID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{teamNameID, true},
		{"6F3C1D2E-0000-4000-8000-000000000001", true},
		{"age", false},
		{"", false},
		{"6f3c1d2e00004000800000000000000001", false},
		{"{6f3c1d2e-0000-4000-8000-000000000001}", false},
		{"urn:uuid:6f3c1d2e-0000-4000-8000-000000000001", false},
		{"6f3c1d2e-0000-4000-8000-00000000000z", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFieldID(tt.in))
		})
	}
}
