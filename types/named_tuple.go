package types

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cottand/typex/txerr"
	"github.com/hashicorp/go-set/v3"
	"github.com/pkg/errors"
)

// Field is one typed field of a named tuple
type Field struct {
	Name string
	Type Expr
}

func (f Field) String() string { return f.Name + ": " + exprString(f.Type) }

type NamedTupleSpec struct {
	Name   string
	Module string
	Fields []Field
}

// NamedTuple declares a subclass of tuple with named, typed fields.
// Field types are kept as given, forward references included, and are never enforced
// on the values of instances
func (ctx *TypeCtx) NamedTuple(spec NamedTupleSpec) (*Class, error) {
	names := set.New[string](len(spec.Fields))
	fields := make([]Field, len(spec.Fields))
	for i, field := range spec.Fields {
		switch {
		case field.Name == "":
			return nil, txerr.Typef(txerr.InvalidField, "Field %d of %s has no name", i, spec.Name)
		case strings.HasPrefix(field.Name, "_"):
			return nil, txerr.Typef(txerr.InvalidField, "Field names cannot start with an underscore: %q", field.Name)
		case !names.Insert(field.Name):
			return nil, txerr.Typef(txerr.InvalidField, "Encountered duplicate field name: %q", field.Name)
		}
		checked, err := ctx.checkTypeArg(field.Type, "NamedTuple('Name', [(f0, t0), (f1, t1), ...]); each t must be a type.")
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", field.Name)
		}
		fields[i] = Field{Name: field.Name, Type: checked}
	}

	cls, err := ctx.DeclareClass(ClassSpec{
		Name:    spec.Name,
		Module:  spec.Module,
		Bases:   []Expr{ctx.Builtins.Tuple},
		Methods: names.Slice(),
	})
	if err != nil {
		return nil, err
	}
	cls.fields = fields
	ctx.logger.Debug("declared named tuple", "class", cls, "fields", fields)
	return cls, nil
}

// Fields are the fields of a named tuple in declaration order. ok is false for other classes
func (c *Class) Fields() (fields []Field, ok bool) {
	return slices.Clone(c.fields), c.fields != nil
}

// FieldTypes maps every field name of a named tuple to its type
func (c *Class) FieldTypes() map[string]Expr {
	fieldTypes := make(map[string]Expr, len(c.fields))
	for _, f := range c.fields {
		fieldTypes[f.Name] = f.Type
	}
	return fieldTypes
}

// MakeTuple creates an instance of the named tuple cls from positional values
func (ctx *TypeCtx) MakeTuple(cls *Class, values ...any) (*Instance, error) {
	if cls.fields == nil {
		return nil, txerr.Typef(txerr.NotInstantiable, "%s is not a named tuple", cls)
	}
	if len(values) != len(cls.fields) {
		return nil, txerr.Typef(txerr.ArityMismatch, "%s takes %d values, got %d", cls.name, len(cls.fields), len(values))
	}
	if err := ctx.checkInstantiable(cls); err != nil {
		return nil, err
	}
	return &Instance{class: cls, values: slices.Clone(values)}, nil
}

// MakeTupleFields creates an instance of the named tuple cls from values by field name.
// Every field must be given exactly once
func (ctx *TypeCtx) MakeTupleFields(cls *Class, values map[string]any) (*Instance, error) {
	positional := make([]any, len(cls.fields))
	for i, f := range cls.fields {
		v, ok := values[f.Name]
		if !ok {
			return nil, txerr.Typef(txerr.InvalidField, "%s is missing field %q", cls.name, f.Name)
		}
		positional[i] = v
	}
	if len(values) != len(cls.fields) {
		for name := range values {
			if _, ok := cls.FieldTypes()[name]; !ok {
				return nil, txerr.Typef(txerr.InvalidField, "%s has no field %q", cls.name, name)
			}
		}
	}
	return ctx.MakeTuple(cls, positional...)
}

// Field returns the value of the named field of a named tuple instance
func (i *Instance) Field(name string) (any, bool) {
	idx := slices.IndexFunc(i.class.fields, func(f Field) bool { return f.Name == name })
	if idx < 0 || idx >= len(i.values) {
		return nil, false
	}
	return i.values[idx], true
}

// Values are the field values of a named tuple instance, in field order
func (i *Instance) Values() []any { return slices.Clone(i.values) }

func (i *Instance) tupleString() string {
	parts := make([]string, len(i.class.fields))
	for idx, f := range i.class.fields {
		parts[idx] = fmt.Sprintf("%s=%v", f.Name, i.values[idx])
	}
	return i.class.name + "(" + strings.Join(parts, ", ") + ")"
}
