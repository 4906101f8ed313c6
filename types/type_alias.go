package types

import (
	"iter"

	"github.com/cottand/typex/txerr"
)

// TypeAlias is a named alias over a class that is not generic itself, parameterised by a single
// constrained type variable, like Pattern[AnyStr] over the class of compiled regular expressions.
//
// The bare alias, still parameterised by its own variable, can be used in class and
// instance checks. Once subscripted with a concrete type it cannot be subscripted again
type TypeAlias struct {
	name string
	// param is the declared *TypeVar until the alias is subscripted
	param Expr
	impl  *Class
}

// NewTypeAlias declares name[param] as an alias over impl
func (ctx *TypeCtx) NewTypeAlias(name string, param *TypeVar, impl *Class) *TypeAlias {
	return &TypeAlias{name: name, param: param, impl: impl}
}

func (a *TypeAlias) Name() string   { return a.name }
func (a *TypeAlias) Param() Expr    { return a.param }
func (a *TypeAlias) Impl() *Class   { return a.impl }
func (a *TypeAlias) String() string { return a.name + "[" + a.param.String() + "]" }

func (a *TypeAlias) Hash() uint64 {
	return mix(mix(mix(offsetBasis, seedTypeAlias), hashString(a.name)), a.param.Hash())
}

func (a *TypeAlias) equals(other Expr) bool {
	o, ok := other.(*TypeAlias)
	return ok && o.name == a.name && o.impl == a.impl && Equal(o.param, a.param)
}

// type aliases do not contribute free parameters to the expressions they appear in
func (a *TypeAlias) children() iter.Seq[Expr] { return emptySeqExpr }

func (a *TypeAlias) isBare() bool {
	_, ok := a.param.(*TypeVar)
	return ok
}

func (ctx *TypeCtx) subscriptTypeAlias(a *TypeAlias, args []Expr) (Expr, error) {
	if len(args) != 1 {
		return nil, txerr.Typef(txerr.ArityMismatch, "%s takes a single parameter, got %d", a, len(args))
	}
	tv, ok := a.param.(*TypeVar)
	if !ok {
		return nil, txerr.Typef(txerr.TerminalAlias, "%s cannot be further parameterized.", a)
	}
	arg, err := ctx.checkTypeArg(args[0], "Parameter to a type alias must be a type.")
	if err != nil {
		return nil, err
	}
	if argVar, ok := arg.(*TypeVar); ok && argVar != tv {
		return nil, txerr.Typef(txerr.TerminalAlias, "%s cannot be re-parameterized.", a)
	}
	if cls, ok := arg.(*Class); ok && len(tv.constraints) > 0 {
		satisfied := false
		for _, constraint := range tv.constraints {
			if constraintCls, ok := constraint.(*Class); ok && ctx.isSubclass(cls, constraintCls) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return nil, txerr.Typef(txerr.ConstraintViolation, "%s is not a valid substitution for %s.", arg, tv)
		}
	}
	return &TypeAlias{name: a.name, param: arg, impl: a.impl}, nil
}
