package catalog

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate reports every structural problem in the catalog at once.
// A nil result means every id, link and relation resolves.
func Validate(c *Catalog) error {
	var err error

	for _, d := range c.duplicates {
		err = multierr.Append(err, fmt.Errorf("duplicate %s", d))
	}

	for _, o := range c.order {
		if o.Table == "" {
			err = multierr.Append(err, fmt.Errorf("object %s: table is required", o.Name))
		}
		for _, f := range o.Fields {
			err = multierr.Append(err, validateField(o, f))
		}
	}

	return err
}

// Errors splits a Validate result into its individual problems.
func Errors(err error) []error {
	return multierr.Errors(err)
}

func validateField(o *Object, f *Field) error {
	var err error
	where := o.Name + "." + f.Name

	if !IsFieldID(f.ID) {
		err = multierr.Append(err, fmt.Errorf("field %s: id %q is not a UUID", where, f.ID))
	}
	if f.ColumnName == "" {
		err = multierr.Append(err, fmt.Errorf("field %s: column is required", where))
	}
	if f.Key == KeyList && len(f.Options) == 0 {
		err = multierr.Append(err, fmt.Errorf("field %s: list field has no options", where))
	}

	if f.Key != KeyConnect {
		if f.Link != nil {
			err = multierr.Append(err, fmt.Errorf("field %s: link set on %s field", where, f.Key))
		}
		return err
	}

	if f.Link == nil {
		return multierr.Append(err, fmt.Errorf("field %s: connectObject requires link", where))
	}
	if f.DatasourceLink() == nil {
		return multierr.Append(err, fmt.Errorf("field %s: linked object %q not found", where, f.Link.Object))
	}
	if f.Link.Column != "" && f.FieldLink() == nil {
		err = multierr.Append(err, fmt.Errorf("field %s: reciprocal field %q not found on %s", where, f.Link.Column, f.Link.Object))
	}
	if f.Link.Type != LinkOne && f.Link.Type != LinkMany {
		err = multierr.Append(err, fmt.Errorf("field %s: invalid link type %q", where, f.Link.Type))
	}
	if f.Link.ViaType != LinkOne && f.Link.ViaType != LinkMany {
		err = multierr.Append(err, fmt.Errorf("field %s: invalid link via type %q", where, f.Link.ViaType))
	}
	if back := f.FieldLink(); back != nil && back.Link != nil &&
		f.Link.Type == LinkOne && f.Link.ViaType == LinkOne &&
		back.Link.Type == LinkOne && back.Link.ViaType == LinkOne {
		err = multierr.Append(err, fmt.Errorf(
			"field %s: one-to-one reciprocal %s.%s also claims the key column; declare the keyless side as many:one",
			where, f.Link.Object, back.Name))
	}
	if f.Shape() == ShapeUnknown {
		err = multierr.Append(err, fmt.Errorf("field %s: relation shape cannot be resolved", where))
	}

	return err
}
