package compiler

import (
	"fmt"
	"strings"

	"github.com/wongpratan/abquery/internal/catalog"
	"github.com/wongpratan/abquery/internal/dialect"
	"github.com/wongpratan/abquery/internal/queryplan"
)

// relationField finds the connect field a have_no_relation key names: a
// field id of obj, a column of obj, or a relation name of obj.
func relationField(cat *catalog.Catalog, obj *catalog.Object, key string) (*catalog.Field, string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, reasonMissingKey
	}

	var f *catalog.Field
	if catalog.IsFieldID(key) {
		found, ok := cat.Field(key)
		if !ok {
			return nil, reasonUnknownField
		}
		if found.Object() != obj {
			return nil, reasonNoRelation
		}
		f = found
	} else if byColumn, ok := obj.FieldByColumn(key); ok {
		f = byColumn
	} else if byRelation, ok := obj.Relation(catalog.RelationFormat(key)); ok {
		f = byRelation
	} else if byRelation, ok := obj.Relation(key); ok {
		f = byRelation
	} else {
		return nil, reasonNoRelation
	}

	if !f.IsConnect() {
		return nil, reasonRelationNotMatch
	}
	if f.DatasourceLink() == nil || f.Object() == nil {
		return nil, reasonNoRelation
	}
	return f, ""
}

// relationJoin builds the LEFT JOIN clause(s) exposing f's linked table
// under its relation name.
func relationJoin(d dialect.Dialect, f *catalog.Field) (queryplan.Join, bool) {
	base := f.Object()
	linked := f.DatasourceLink()
	relation := f.RelationName()
	alias := d.QuoteIdent(relation)
	linkedTable := d.QuoteIdent(linked.DBTableName())

	var clause string
	switch f.Shape() {
	case catalog.ShapeOwnColumn:
		clause = fmt.Sprintf("LEFT JOIN %s AS %s ON %s.%s = %s",
			linkedTable, alias,
			alias, d.QuoteIdent(linked.PKName()),
			dialect.Qualified(d, base.DBTableName(), f.ColumnName))

	case catalog.ShapeLinkedColumn:
		back := f.FieldLink()
		clause = fmt.Sprintf("LEFT JOIN %s AS %s ON %s.%s = %s",
			linkedTable, alias,
			alias, d.QuoteIdent(back.ColumnName),
			dialect.Qualified(d, base.DBTableName(), base.PKName()))

	case catalog.ShapeJoinTable:
		link := d.QuoteIdent(relation + "_link")
		clause = fmt.Sprintf("LEFT JOIN %s AS %s ON %s.%s = %s LEFT JOIN %s AS %s ON %s.%s = %s.%s",
			d.QuoteIdent(f.Link.JoinTable), link,
			link, d.QuoteIdent(f.Link.SourceColumn),
			dialect.Qualified(d, base.DBTableName(), base.PKName()),
			linkedTable, alias,
			alias, d.QuoteIdent(linked.PKName()),
			link, d.QuoteIdent(f.Link.TargetColumn))

	default:
		return queryplan.Join{}, false
	}

	return queryplan.Join{
		Relation: relation,
		Alias:    alias,
		SQL:      clause,
		ToMany:   f.Shape() != catalog.ShapeOwnColumn,
	}, true
}

// relationPK picks the primary key column tested for NULL: the leaf value
// when it is a non-empty string, otherwise the linked object's key.
func relationPK(f *catalog.Field, value any) string {
	if s, ok := value.(string); ok && strings.TrimSpace(s) != "" && validRawColumn(s) {
		return strings.TrimSpace(s)
	}
	return f.DatasourceLink().PKName()
}
