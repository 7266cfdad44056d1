package catalog

import "strings"

// LinkType is one side's cardinality of a relation.
type LinkType string

const (
	LinkOne  LinkType = "one"
	LinkMany LinkType = "many"
)

// Link is the relation metadata of a connect field.
type Link struct {
	// Object is the name of the linked object.
	Object string
	// Column is the id of the reciprocal field on the linked object.
	Column string
	// Type is this side's cardinality; ViaType the linked side's.
	Type    LinkType
	ViaType LinkType

	// Join table of a many-to-many relation. SourceColumn references this
	// object's primary key, TargetColumn the linked object's.
	JoinTable    string
	SourceColumn string
	TargetColumn string
}

// Shape says where the foreign key of a relation is stored.
type Shape int

const (
	// ShapeUnknown means the link metadata is incomplete.
	ShapeUnknown Shape = iota
	// ShapeOwnColumn: this table's column holds the linked primary key.
	ShapeOwnColumn
	// ShapeLinkedColumn: the linked table's column holds this primary key.
	ShapeLinkedColumn
	// ShapeJoinTable: a separate join table holds both keys.
	ShapeJoinTable
)

func (s Shape) String() string {
	switch s {
	case ShapeOwnColumn:
		return "own-column"
	case ShapeLinkedColumn:
		return "linked-column"
	case ShapeJoinTable:
		return "join-table"
	default:
		return "unknown"
	}
}

// Shape classifies the field's relation.
//
//	one  : *     -> ShapeOwnColumn
//	many : one   -> ShapeLinkedColumn (needs the reciprocal field)
//	many : many  -> ShapeJoinTable    (needs JoinTable/SourceColumn/TargetColumn)
//
// A one-to-one field always holds the key. The side of a one-to-one
// relation without the column is declared many:one; Validate rejects a
// pair of one:one fields naming each other.
func (f *Field) Shape() Shape {
	if !f.IsConnect() {
		return ShapeUnknown
	}
	switch f.Link.Type {
	case LinkOne:
		return ShapeOwnColumn
	case LinkMany:
		if f.Link.ViaType == LinkMany {
			if f.Link.JoinTable == "" || f.Link.SourceColumn == "" || f.Link.TargetColumn == "" {
				return ShapeUnknown
			}
			return ShapeJoinTable
		}
		if f.FieldLink() == nil {
			return ShapeUnknown
		}
		return ShapeLinkedColumn
	default:
		return ShapeUnknown
	}
}

// RelationSuffix is appended to a column name to form its relation name.
const RelationSuffix = "__relation"

// RelationFormat derives the relation name for a column: every character
// outside [A-Za-z0-9_] is removed and RelationSuffix appended.
func RelationFormat(column string) string {
	return Alphanumeric(column) + RelationSuffix
}

// Alphanumeric keeps ASCII letters, digits and underscores.
func Alphanumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
