package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/wongpratan/abquery/internal/catalog"
	"github.com/wongpratan/abquery/internal/dialect"
)

// sourceKey is the column carrying the owning row's key in join table
// loads. It is removed before rows are attached.
const sourceKey = "__source_key"

// LoadRelations attaches the named relations of obj to rows. A to-one
// relation is stored as a Row or nil, a to-many relation as a []Row that is
// never nil. Names that are not relations of obj are ignored.
func (s *Store) LoadRelations(ctx context.Context, obj *catalog.Object, rows []Row, relations []string) error {
	if len(rows) == 0 {
		return nil
	}
	for _, name := range relations {
		f, ok := obj.Relation(name)
		if !ok || f.DatasourceLink() == nil {
			continue
		}

		var err error
		switch f.Shape() {
		case catalog.ShapeOwnColumn:
			err = s.loadOwnColumn(ctx, f, rows)
		case catalog.ShapeLinkedColumn:
			err = s.loadLinkedColumn(ctx, f, rows)
		case catalog.ShapeJoinTable:
			err = s.loadJoinTable(ctx, f, rows)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("load relation %s: %w", name, err)
		}
	}
	return nil
}

// loadOwnColumn follows the foreign key stored on each row.
func (s *Store) loadOwnColumn(ctx context.Context, f *catalog.Field, rows []Row) error {
	linked := f.DatasourceLink()
	name := f.RelationName()

	keys := collectKeys(rows, f.ColumnName)
	for _, r := range rows {
		r[name] = nil
	}
	if len(keys) == 0 {
		return nil
	}

	pk := dialect.Qualified(s.dialect, linked.DBTableName(), linked.PKName())
	related, err := s.selectBuilder(ctx, sq.Select("*").
		From(s.dialect.QuoteIdent(linked.DBTableName())).
		Where(sq.Eq{pk: keys}).
		OrderBy(pk))
	if err != nil {
		return err
	}

	byKey := make(map[string]Row, len(related))
	for _, r := range related {
		if k, ok := keyOf(r[linked.PKName()]); ok {
			byKey[k] = r
		}
	}
	for _, r := range rows {
		if k, ok := keyOf(r[f.ColumnName]); ok {
			if match, found := byKey[k]; found {
				r[name] = match.clone()
			}
		}
	}
	return nil
}

// loadLinkedColumn collects the linked rows pointing back at each row.
func (s *Store) loadLinkedColumn(ctx context.Context, f *catalog.Field, rows []Row) error {
	base := f.Object()
	linked := f.DatasourceLink()
	back := f.FieldLink()
	name := f.RelationName()

	keys := collectKeys(rows, base.PKName())
	for _, r := range rows {
		r[name] = []Row{}
	}
	if len(keys) == 0 {
		return nil
	}

	table := linked.DBTableName()
	related, err := s.selectBuilder(ctx, sq.Select("*").
		From(s.dialect.QuoteIdent(table)).
		Where(sq.Eq{dialect.Qualified(s.dialect, table, back.ColumnName): keys}).
		OrderBy(dialect.Qualified(s.dialect, table, linked.PKName())))
	if err != nil {
		return err
	}

	groups := groupBy(related, back.ColumnName)
	attachGroups(rows, base.PKName(), name, groups)
	return nil
}

// loadJoinTable goes through the link table of a many-to-many relation.
func (s *Store) loadJoinTable(ctx context.Context, f *catalog.Field, rows []Row) error {
	base := f.Object()
	linked := f.DatasourceLink()
	name := f.RelationName()

	keys := collectKeys(rows, base.PKName())
	for _, r := range rows {
		r[name] = []Row{}
	}
	if len(keys) == 0 {
		return nil
	}

	d := s.dialect
	jt := f.Link.JoinTable
	table := linked.DBTableName()
	source := dialect.Qualified(d, jt, f.Link.SourceColumn)

	related, err := s.selectBuilder(ctx, sq.Select(
		source+" AS "+d.QuoteIdent(sourceKey),
		d.QuoteIdent(table)+".*",
	).
		From(d.QuoteIdent(jt)).
		Join(fmt.Sprintf("%s ON %s = %s",
			d.QuoteIdent(table),
			dialect.Qualified(d, table, linked.PKName()),
			dialect.Qualified(d, jt, f.Link.TargetColumn))).
		Where(sq.Eq{source: keys}).
		OrderBy(dialect.Qualified(d, table, linked.PKName())))
	if err != nil {
		return err
	}

	groups := groupBy(related, sourceKey)
	for _, group := range groups {
		for _, r := range group {
			delete(r, sourceKey)
		}
	}
	attachGroups(rows, base.PKName(), name, groups)
	return nil
}

func (s *Store) selectBuilder(ctx context.Context, b sq.SelectBuilder) ([]Row, error) {
	query, args, err := b.PlaceholderFormat(s.dialect.Placeholder()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.Select(ctx, query, args...)
}

// collectKeys returns the distinct non-NULL values of column, in row order.
func collectKeys(rows []Row, column string) []any {
	seen := make(map[string]bool)
	var keys []any
	for _, r := range rows {
		v := r[column]
		k, ok := keyOf(v)
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, v)
	}
	return keys
}

func groupBy(rows []Row, column string) map[string][]Row {
	out := make(map[string][]Row)
	for _, r := range rows {
		if k, ok := keyOf(r[column]); ok {
			out[k] = append(out[k], r)
		}
	}
	return out
}

func attachGroups(rows []Row, keyColumn, name string, groups map[string][]Row) {
	for _, r := range rows {
		if k, ok := keyOf(r[keyColumn]); ok {
			if g, found := groups[k]; found {
				r[name] = g
			}
		}
	}
}
