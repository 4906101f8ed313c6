package types

import (
	"reflect"
	"strings"

	"github.com/cottand/typex/txerr"
)

// Instance is a value created by TypeCtx.New.
// Its runtime class is always the erased class, and the alias it was created from,
// if any, is kept as its origin
type Instance struct {
	class     *Class
	origClass *GenericAlias
	// values are the field values of a named tuple, in field order
	values []any
}

func (i *Instance) Class() *Class { return i.class }

// OrigClass is the generic alias the instance was created from. ok is false
// when the instance was created from a plain class
func (i *Instance) OrigClass() (alias *GenericAlias, ok bool) {
	return i.origClass, i.origClass != nil
}

func (i *Instance) String() string {
	if i.values != nil {
		return i.tupleString()
	}
	if i.origClass != nil {
		return "<" + i.origClass.String() + " instance>"
	}
	return "<" + i.class.String() + " instance>"
}

// New instantiates target, which must be a class or a generic alias of a class.
// Abstract classes, catalog categories like List and special forms cannot be instantiated
func (ctx *TypeCtx) New(target Expr) (*Instance, error) {
	switch target := target.(type) {
	case *Class:
		if err := ctx.checkInstantiable(target); err != nil {
			return nil, err
		}
		return &Instance{class: target}, nil
	case *GenericAlias:
		if err := ctx.checkInstantiable(target.origin); err != nil {
			return nil, err
		}
		return &Instance{class: target.origin, origClass: target}, nil
	default:
		return nil, txerr.Typef(txerr.NotInstantiable, "Cannot instantiate %s", target)
	}
}

func (ctx *TypeCtx) checkInstantiable(cls *Class) error {
	if cls.flags&flagNoInstance != 0 {
		if cls.extra != nil {
			return txerr.Typef(txerr.NotInstantiable, "Type %s cannot be instantiated; use %s() instead", cls.name, cls.extra)
		}
		return txerr.Typef(txerr.NotInstantiable, "Type %s cannot be instantiated", cls.name)
	}
	if len(cls.abstracts) > 0 {
		return txerr.Typef(txerr.NotInstantiable, "Can't instantiate abstract class %s with abstract methods %s",
			cls.name, strings.Join(cls.abstracts, ", "))
	}
	return nil
}

// ClassOf is the runtime class of a Go value: the builtin class for Go primitives,
// slices, maps and functions, and the class an Instance was created with.
// A *Class value is itself of class type
func (ctx *TypeCtx) ClassOf(v any) (*Class, error) {
	switch v := v.(type) {
	case nil:
		return ctx.Builtins.NoneType, nil
	case *Instance:
		return v.class, nil
	case *Class:
		return ctx.Builtins.Type, nil
	case bool:
		return ctx.Builtins.Bool, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return ctx.Builtins.Int, nil
	case float32, float64:
		return ctx.Builtins.Float, nil
	case complex64, complex128:
		return ctx.Builtins.Complex, nil
	case string:
		return ctx.Builtins.Str, nil
	case []byte:
		return ctx.Builtins.Bytes, nil
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func:
		return ctx.Builtins.Function, nil
	case reflect.Slice:
		return ctx.Builtins.List, nil
	case reflect.Array:
		return ctx.Builtins.Tuple, nil
	case reflect.Map:
		return ctx.Builtins.Dict, nil
	default:
		return nil, txerr.Typef(txerr.UnsupportedValue, "values of Go type %T have no class", v)
	}
}
