package types

import (
	"github.com/cottand/typex/txerr"
)

// IsSubclass reports whether left is a subclass of right.
//
// right must be a plain class, or a type alias that is not subscripted yet. Parameterised
// generics, unions, type variables, Any and the other special forms cannot be checked against
// and return a txerr.TypeError. left may be a generic alias, which is checked as its origin
func (ctx *TypeCtx) IsSubclass(left, right Expr) (bool, error) {
	target, err := checkTarget(right, false)
	if err != nil {
		return false, err
	}
	var cls *Class
	switch left := left.(type) {
	case *Class:
		cls = left
	case *GenericAlias:
		cls = left.origin
	default:
		return false, txerr.Typef(txerr.NotAClass, "issubclass() arg 1 must be a class, got %s", left)
	}
	res := ctx.isSubclass(cls, target)
	ctx.logger.Debug("subclass check", "left", left, "right", right, "result", res)
	return res, nil
}

// IsInstance reports whether the class of value (see ClassOf) is a subclass of t.
// Protocols additionally refuse instance checks
func (ctx *TypeCtx) IsInstance(value any, t Expr) (bool, error) {
	target, err := checkTarget(t, true)
	if err != nil {
		return false, err
	}
	cls, err := ctx.ClassOf(value)
	if err != nil {
		return false, err
	}
	return ctx.isSubclass(cls, target), nil
}

func checkTarget(t Expr, instance bool) (*Class, error) {
	switch t := t.(type) {
	case *Class:
		if t.flags&flagNoChecks != 0 {
			return nil, txerr.Typef(txerr.NotReifiable, "Class %s cannot be used with class or instance checks", t)
		}
		if instance && t.IsProtocol() {
			return nil, txerr.Typef(txerr.NotReifiable, "Protocols cannot be used with isinstance(), %s is a protocol", t)
		}
		return t, nil
	case *TypeAlias:
		if !t.isBare() {
			return nil, txerr.Typef(txerr.NotReifiable, "Parameterized type aliases cannot be used with class or instance checks, got %s", t)
		}
		return t.impl, nil
	case *GenericAlias:
		return nil, txerr.Typef(txerr.NotReifiable, "Parameterized generics cannot be used with class or instance checks, got %s", t)
	case anyType:
		return nil, txerr.Typef(txerr.NotReifiable, "typing.Any cannot be used with class or instance checks")
	case *TypeVar:
		return nil, txerr.Typef(txerr.NotReifiable, "Type variables cannot be used with class or instance checks, got %s", t)
	case *UnionType, *SpecialForm:
		return nil, txerr.Typef(txerr.NotReifiable, "Unions cannot be used with class or instance checks, got %s", t)
	case *TupleType, *CallableType:
		return nil, txerr.Typef(txerr.NotReifiable, "Parameterized %s cannot be used with class or instance checks", t)
	case *ClassVarType:
		return nil, txerr.Typef(txerr.NotReifiable, "%s cannot be used with class or instance checks", t)
	case *NewTypeToken:
		return nil, txerr.Typef(txerr.NotReifiable, "NewType %s cannot be used with class or instance checks", t)
	case *ForwardRef:
		return nil, txerr.Typef(txerr.NotReifiable, "Forward references cannot be used with class or instance checks, got %s", t)
	default:
		return nil, txerr.Typef(txerr.NotAClass, "issubclass() arg 2 must be a class, got %v", t)
	}
}
