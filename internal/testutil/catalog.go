package testutil

import "github.com/wongpratan/abquery/internal/catalog"

// Field ids of the fixture catalog. They mirror testdata/catalog/*.cue.
const (
	PersonNameID      = "1a0e7c52-3b4d-4e6f-8a9b-000000000001"
	PersonAgeID       = "1a0e7c52-3b4d-4e6f-8a9b-000000000002"
	PersonStatusID    = "1a0e7c52-3b4d-4e6f-8a9b-000000000003"
	PersonOwnerID     = "1a0e7c52-3b4d-4e6f-8a9b-000000000004"
	PersonTagsID      = "1a0e7c52-3b4d-4e6f-8a9b-000000000005"
	PersonCreatedID   = "1a0e7c52-3b4d-4e6f-8a9b-000000000006"
	PersonNicknameID  = "1a0e7c52-3b4d-4e6f-8a9b-000000000007"
	PersonCreatedByID = "1a0e7c52-3b4d-4e6f-8a9b-000000000008"

	UserUsernameID = "1a0e7c52-3b4d-4e6f-8a9b-000000000011"
	UserPersonsID  = "1a0e7c52-3b4d-4e6f-8a9b-000000000012"

	TagLabelID   = "1a0e7c52-3b4d-4e6f-8a9b-000000000021"
	TagPersonsID = "1a0e7c52-3b4d-4e6f-8a9b-000000000022"
)

// Status option ids of person.status.
const (
	StatusActive = "active_1"
	StatusClosed = "closed_2"
)

// Catalog builds the fixture catalog:
//
//	person (person, pk id)
//	  name        string, multilingual
//	  age         number
//	  status      list {active_1: Active, closed_2: Closed}
//	  owner       connectObject -> user      (one:many, person.owner holds user.id)
//	  tags        connectObject -> tag       (many:many via person_tag)
//	  created     date
//	  nickname    string
//	  created_by  user
//	user (site_user, pk id)
//	  username    string
//	  persons     connectObject -> person    (many:one, reciprocal of owner)
//	tag (tag, pk id)
//	  label       string
//	  persons     connectObject -> person    (many:many via person_tag)
//
// Each call returns a fresh catalog.
func Catalog() *catalog.Catalog {
	person := &catalog.Object{
		Name:  "person",
		Table: "person",
		PK:    "id",
		Fields: []*catalog.Field{
			{ID: PersonNameID, Name: "name", Key: catalog.KeyString, Multilingual: true},
			{ID: PersonAgeID, Name: "age", Key: catalog.KeyNumber},
			{ID: PersonStatusID, Name: "status", Key: catalog.KeyList, Options: []catalog.Option{
				{ID: StatusActive, Text: "Active"},
				{ID: StatusClosed, Text: "Closed"},
			}},
			{ID: PersonOwnerID, Name: "owner", Key: catalog.KeyConnect, Link: &catalog.Link{
				Object: "user", Column: UserPersonsID,
				Type: catalog.LinkOne, ViaType: catalog.LinkMany,
			}},
			{ID: PersonTagsID, Name: "tags", Key: catalog.KeyConnect, Link: &catalog.Link{
				Object: "tag", Column: TagPersonsID,
				Type: catalog.LinkMany, ViaType: catalog.LinkMany,
				JoinTable: "person_tag", SourceColumn: "person_id", TargetColumn: "tag_id",
			}},
			{ID: PersonCreatedID, Name: "created", Key: catalog.KeyDate},
			{ID: PersonNicknameID, Name: "nickname", Key: catalog.KeyString},
			{ID: PersonCreatedByID, Name: "created_by", Key: catalog.KeyUser},
		},
	}

	user := &catalog.Object{
		Name:  "user",
		Table: "site_user",
		PK:    "id",
		Fields: []*catalog.Field{
			{ID: UserUsernameID, Name: "username", Key: catalog.KeyString},
			{ID: UserPersonsID, Name: "persons", Key: catalog.KeyConnect, Link: &catalog.Link{
				Object: "person", Column: PersonOwnerID,
				Type: catalog.LinkMany, ViaType: catalog.LinkOne,
			}},
		},
	}

	tag := &catalog.Object{
		Name:  "tag",
		Table: "tag",
		PK:    "id",
		Fields: []*catalog.Field{
			{ID: TagLabelID, Name: "label", Key: catalog.KeyString},
			{ID: TagPersonsID, Name: "persons", Key: catalog.KeyConnect, Link: &catalog.Link{
				Object: "person", Column: PersonTagsID,
				Type: catalog.LinkMany, ViaType: catalog.LinkMany,
				JoinTable: "person_tag", SourceColumn: "tag_id", TargetColumn: "person_id",
			}},
		},
	}

	return catalog.New(person, user, tag)
}
