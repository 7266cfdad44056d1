package catalog

import (
	"strings"

	"github.com/google/uuid"
)

// FieldKey is the type tag of a field.
type FieldKey string

const (
	KeyString   FieldKey = "string"
	KeyLongText FieldKey = "LongText"
	KeyNumber   FieldKey = "number"
	KeyBoolean  FieldKey = "boolean"
	KeyDate     FieldKey = "date"
	KeyDateTime FieldKey = "datetime"
	KeyList     FieldKey = "list"
	KeyUser     FieldKey = "user"
	KeyConnect  FieldKey = "connectObject"
)

// DefaultPK is the primary key column used when an object does not name one.
const DefaultPK = "uuid"

// Option is one choice of a list field.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Object is a table exposed to the query builder.
type Object struct {
	Name   string
	Table  string
	PK     string
	Fields []*Field

	byColumn map[string]*Field
	catalog  *Catalog
}

// DBTableName returns the table the object is stored in.
func (o *Object) DBTableName() string {
	return o.Table
}

// PKName returns the primary key column.
func (o *Object) PKName() string {
	if o.PK == "" {
		return DefaultPK
	}
	return o.PK
}

// FieldByColumn looks a field up by its column name.
func (o *Object) FieldByColumn(column string) (*Field, bool) {
	f, ok := o.byColumn[column]
	return f, ok
}

// ConnectFields returns the object's relation fields in declaration order.
func (o *Object) ConnectFields() []*Field {
	var out []*Field
	for _, f := range o.Fields {
		if f.IsConnect() {
			out = append(out, f)
		}
	}
	return out
}

// Relation returns the connect field whose relation name is name.
func (o *Object) Relation(name string) (*Field, bool) {
	for _, f := range o.Fields {
		if f.IsConnect() && f.RelationName() == name {
			return f, true
		}
	}
	return nil, false
}

// Field is one column of an object.
type Field struct {
	ID           string
	Name         string
	ColumnName   string
	Key          FieldKey
	Multilingual bool
	Options      []Option
	Link         *Link

	object *Object
}

// Object returns the object the field belongs to. It is nil until the field
// has been added to a Catalog.
func (f *Field) Object() *Object {
	return f.object
}

// IsConnect reports whether the field is a relation to another object.
func (f *Field) IsConnect() bool {
	return f.Key == KeyConnect && f.Link != nil
}

// RelationName is the name of the relation the field defines.
func (f *Field) RelationName() string {
	return RelationFormat(f.ColumnName)
}

// DatasourceLink returns the linked object, or nil.
func (f *Field) DatasourceLink() *Object {
	if !f.IsConnect() || f.object == nil || f.object.catalog == nil {
		return nil
	}
	o, ok := f.object.catalog.Object(f.Link.Object)
	if !ok {
		return nil
	}
	return o
}

// FieldLink returns the reciprocal field on the linked object, or nil.
func (f *Field) FieldLink() *Field {
	linked := f.DatasourceLink()
	if linked == nil || f.Link.Column == "" {
		return nil
	}
	other, ok := f.object.catalog.Field(f.Link.Column)
	if !ok || other.object != linked {
		return nil
	}
	return other
}

// Option returns the list option whose id or text equals value.
// Values are compared in their string form.
func (f *Field) Option(value string) (Option, bool) {
	for _, o := range f.Options {
		if o.ID == value || o.Text == value {
			return o, true
		}
	}
	return Option{}, false
}

// Catalog is an immutable set of objects with an id index over fields.
type Catalog struct {
	objects map[string]*Object
	order   []*Object
	fields  map[string]*Field

	// problems found while indexing; reported by Validate.
	duplicates []string
}

// New indexes the given objects. It takes ownership of them: objects and
// fields get back-pointers set and must not be modified afterwards.
// Duplicate object names or field ids keep the first definition and are
// reported by Validate.
func New(objects ...*Object) *Catalog {
	c := &Catalog{
		objects: make(map[string]*Object, len(objects)),
		fields:  make(map[string]*Field),
	}

	for _, o := range objects {
		if _, dup := c.objects[o.Name]; dup {
			c.duplicates = append(c.duplicates, "object "+o.Name)
			continue
		}
		o.catalog = c
		o.byColumn = make(map[string]*Field, len(o.Fields))
		c.objects[o.Name] = o
		c.order = append(c.order, o)

		for _, f := range o.Fields {
			f.object = o
			if f.ColumnName == "" {
				f.ColumnName = f.Name
			}
			if _, dup := o.byColumn[f.ColumnName]; dup {
				c.duplicates = append(c.duplicates, "column "+o.Name+"."+f.ColumnName)
			} else {
				o.byColumn[f.ColumnName] = f
			}
			if f.ID == "" {
				continue
			}
			key := normalizeID(f.ID)
			if _, dup := c.fields[key]; dup {
				c.duplicates = append(c.duplicates, "field id "+f.ID)
				continue
			}
			c.fields[key] = f
		}
	}

	return c
}

// Object looks an object up by name.
func (c *Catalog) Object(name string) (*Object, bool) {
	o, ok := c.objects[name]
	return o, ok
}

// Objects returns all objects in the order they were added.
func (c *Catalog) Objects() []*Object {
	out := make([]*Object, len(c.order))
	copy(out, c.order)
	return out
}

// Field looks a field up by id. Ids compare case-insensitively.
func (c *Catalog) Field(id string) (*Field, bool) {
	f, ok := c.fields[normalizeID(id)]
	return f, ok
}

// IsFieldID reports whether s has the opaque field-id format.
func IsFieldID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
