package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// LoadError is a catalog definition problem with its CUE position.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadDir loads every .cue file in dir as one catalog.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Field: "dir", Message: fmt.Sprintf("catalog directory not accessible: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Field: "dir", Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Field: "dir", Message: fmt.Sprintf("scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Field: "dir", Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Field: "load", Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileCatalog(value)
}

// LoadString compiles a catalog from CUE source. filename is used only in
// error positions.
func LoadString(filename, src string) (*Catalog, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileCatalog(value)
}

func compileCatalog(v cue.Value) (*Catalog, error) {
	objectsVal := v.LookupPath(cue.ParsePath("object"))
	if !objectsVal.Exists() {
		return nil, &LoadError{Field: "object", Message: "no objects defined", Pos: v.Pos()}
	}

	iter, err := objectsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var objects []*Object
	for iter.Next() {
		obj, err := compileObject(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	return New(objects...), nil
}

func compileObject(name string, v cue.Value) (*Object, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	obj := &Object{Name: name}

	table, err := lookupString(v, "table")
	if err != nil {
		return nil, err
	}
	if table == "" {
		return nil, &LoadError{Field: "table", Message: fmt.Sprintf("object %s: table is required", name), Pos: v.Pos()}
	}
	obj.Table = table

	if obj.PK, err = lookupString(v, "pk"); err != nil {
		return nil, err
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return obj, nil
	}
	iter, err := fieldsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		f, err := compileField(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		obj.Fields = append(obj.Fields, f)
	}

	return obj, nil
}

func compileField(name string, v cue.Value) (*Field, error) {
	f := &Field{Name: name}

	var err error
	if f.ID, err = lookupString(v, "id"); err != nil {
		return nil, err
	}
	if f.ID == "" {
		return nil, &LoadError{Field: "id", Message: fmt.Sprintf("field %s: id is required", name), Pos: v.Pos()}
	}

	column, err := lookupString(v, "column")
	if err != nil {
		return nil, err
	}
	f.ColumnName = column
	if f.ColumnName == "" {
		f.ColumnName = name
	}

	key, err := lookupString(v, "type")
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, &LoadError{Field: "type", Message: fmt.Sprintf("field %s: type is required", name), Pos: v.Pos()}
	}
	f.Key = FieldKey(key)

	if ml := v.LookupPath(cue.ParsePath("multilingual")); ml.Exists() {
		b, err := ml.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		f.Multilingual = b
	}

	if opts := v.LookupPath(cue.ParsePath("options")); opts.Exists() {
		if err := opts.Decode(&f.Options); err != nil {
			return nil, formatCUEError(err)
		}
	}

	if linkVal := v.LookupPath(cue.ParsePath("link")); linkVal.Exists() {
		link, err := compileLink(name, linkVal)
		if err != nil {
			return nil, err
		}
		f.Link = link
	}
	if f.Key == KeyConnect && f.Link == nil {
		return nil, &LoadError{Field: "link", Message: fmt.Sprintf("field %s: connectObject requires link", name), Pos: v.Pos()}
	}

	return f, nil
}

func compileLink(fieldName string, v cue.Value) (*Link, error) {
	link := &Link{}
	var err error

	if link.Object, err = lookupString(v, "object"); err != nil {
		return nil, err
	}
	if link.Object == "" {
		return nil, &LoadError{Field: "link.object", Message: fmt.Sprintf("field %s: link.object is required", fieldName), Pos: v.Pos()}
	}
	if link.Column, err = lookupString(v, "column"); err != nil {
		return nil, err
	}

	typ, err := lookupString(v, "type")
	if err != nil {
		return nil, err
	}
	via, err := lookupString(v, "via")
	if err != nil {
		return nil, err
	}
	link.Type, link.ViaType = LinkType(typ), LinkType(via)
	if link.Type == "" {
		link.Type = LinkOne
	}
	if link.ViaType == "" {
		link.ViaType = LinkOne
	}

	if link.JoinTable, err = lookupString(v, "joinTable"); err != nil {
		return nil, err
	}
	if link.SourceColumn, err = lookupString(v, "sourceColumn"); err != nil {
		return nil, err
	}
	if link.TargetColumn, err = lookupString(v, "targetColumn"); err != nil {
		return nil, err
	}

	return link, nil
}

// lookupString returns the string at path, or "" when it is absent.
func lookupString(v cue.Value, path string) (string, error) {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return "", nil
	}
	s, err := val.String()
	if err != nil {
		return "", &LoadError{Field: path, Message: "must be a string", Pos: val.Pos()}
	}
	return s, nil
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &LoadError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
