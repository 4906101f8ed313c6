package types

import (
	"iter"
	"slices"

	"github.com/cottand/typex/txerr"
	"github.com/cottand/typex/util"
	"github.com/hashicorp/go-set/v3"
)

// GenericAlias is a generic class applied to type arguments, like List[int] or Dict[str, T].
//
// Aliases are always flattened to their root class: subscripting List[T] with int
// builds List[int], not an alias of an alias
type GenericAlias struct {
	origin *Class
	args   []Expr
	params []*TypeVar
	hash   uint64
}

func (a *GenericAlias) Origin() *Class           { return a.origin }
func (a *GenericAlias) Args() []Expr             { return slices.Clone(a.args) }
func (a *GenericAlias) Parameters() []*TypeVar   { return slices.Clone(a.params) }
func (a *GenericAlias) Hash() uint64             { return a.hash }
func (a *GenericAlias) children() iter.Seq[Expr] { return slices.Values(a.args) }

func (a *GenericAlias) String() string {
	return a.origin.String() + "[" + util.JoinString(a.args, ", ") + "]"
}

func (a *GenericAlias) equals(other Expr) bool {
	o, ok := other.(*GenericAlias)
	return ok && o.origin == a.origin && sliceEqual(a.args, o.args)
}

// newAlias builds origin[args] without validating args, interning the result
func (ctx *TypeCtx) newAlias(origin *Class, args []Expr) *GenericAlias {
	alias := &GenericAlias{
		origin: origin,
		args:   args,
		params: collectParams(args...),
		hash:   mix(hashSeq(seedAlias, args), origin.Hash()),
	}
	return ctx.aliases.intern(alias)
}

// Subscript applies target to args, like List[int] or Union[int, str].
//
// target may be a generic class, a catalog special form, a parameterised expression with
// free type variables, a ClassVar or a constrained type alias. The empty tuple of
// Tuple[()] is spelled as no arguments at all
func (ctx *TypeCtx) Subscript(target Expr, args ...Expr) (res Expr, err error) {
	defer func() {
		if err == nil {
			ctx.logger.Debug("subscripted", "target", target, "args", args, "result", res)
		}
	}()
	switch target := target.(type) {
	case *Class:
		return ctx.subscriptClass(target, args)
	case *SpecialForm:
		switch target {
		case OptionalForm:
			if len(args) != 1 {
				return nil, txerr.Typef(txerr.ArityMismatch, "Optional[t] requires a single type, got %d", len(args))
			}
			return ctx.Optional(args[0])
		default:
			return ctx.Union(args...)
		}
	case *ClassVarType:
		return ctx.subscriptClassVar(target, args)
	case *TypeAlias:
		return ctx.subscriptTypeAlias(target, args)
	case *GenericAlias:
		if target.origin.flags&flagParamDecl != 0 {
			// Generic[T][S] is still a parameter list
			return ctx.subscriptParamDecl(target.origin, args)
		}
		return ctx.subscriptParameterised(target, target.params, args)
	case *UnionType, *TupleType, *CallableType:
		return ctx.subscriptParameterised(target, collectParams(target), args)
	case anyType:
		return nil, txerr.Typef(txerr.NotSubscriptable, "%s cannot be subscripted", target)
	case *TypeVar:
		return nil, txerr.Typef(txerr.NotSubscriptable, "type variable %s cannot be subscripted", target)
	case *ForwardRef:
		return nil, txerr.Typef(txerr.NotSubscriptable, "%s must be resolved before it can be subscripted", target)
	default:
		return nil, txerr.Typef(txerr.NotSubscriptable, "%s is not subscriptable", target)
	}
}

func (ctx *TypeCtx) subscriptClass(c *Class, args []Expr) (Expr, error) {
	switch {
	case c.flags&flagParamDecl != 0:
		return ctx.subscriptParamDecl(c, args)
	case c == ctx.Typing.Tuple:
		return ctx.subscriptTuple(args)
	case c == ctx.Typing.Callable:
		return ctx.subscriptCallable(args)
	case len(c.params) == 0:
		return nil, txerr.Typef(txerr.NotSubscriptable, "%s is not a generic class", c)
	}
	if err := checkArity(c, len(args), len(c.params)); err != nil {
		return nil, err
	}
	checked, err := ctx.checkTypeArgs(args, "Parameters to generic types must be types.")
	if err != nil {
		return nil, err
	}
	return ctx.newAlias(c, checked), nil
}

// subscriptParamDecl builds Generic[...] or Protocol[...], which only accept distinct type variables
func (ctx *TypeCtx) subscriptParamDecl(c *Class, args []Expr) (Expr, error) {
	if len(args) == 0 {
		return nil, txerr.Typef(txerr.ArityMismatch, "Parameter list to %s[...] cannot be empty", c.name)
	}
	seen := set.New[*TypeVar](len(args))
	for _, arg := range args {
		tv, ok := arg.(*TypeVar)
		if !ok {
			return nil, txerr.Typef(txerr.InvalidTypeArgument, "Parameters to %s[...] must all be type variables, got %s", c.name, arg)
		}
		if !seen.Insert(tv) {
			return nil, txerr.Typef(txerr.DuplicateParameter, "Parameters to %s[...] must all be unique, %s repeats", c.name, tv)
		}
	}
	return ctx.newAlias(c, slices.Clone(args)), nil
}

// subscriptParameterised substitutes the free params of target with args, in order
func (ctx *TypeCtx) subscriptParameterised(target Expr, params []*TypeVar, args []Expr) (Expr, error) {
	if len(params) == 0 {
		return nil, txerr.Typef(txerr.TerminalAlias, "%s cannot be further subscripted, it has no free type variables", target)
	}
	if err := checkArity(target, len(args), len(params)); err != nil {
		return nil, err
	}
	checked, err := ctx.checkTypeArgs(args, "Parameters to generic types must be types.")
	if err != nil {
		return nil, err
	}
	subs := make(map[*TypeVar]Expr, len(params))
	for i, param := range params {
		subs[param] = checked[i]
	}
	return substContext{TypeCtx: ctx, substitutions: subs}.substitute(target)
}

func checkArity(target Expr, actual, expected int) error {
	if actual == expected {
		return nil
	}
	quantity := "many"
	if actual < expected {
		quantity = "few"
	}
	return txerr.Typef(txerr.ArityMismatch, "Too %s parameters for %s; actual %d, expected %d", quantity, target, actual, expected)
}

type substContext struct {
	*TypeCtx
	substitutions map[*TypeVar]Expr
}

// substitute replaces the type variables of e simultaneously, re-normalising
// the unions it rebuilds on the way
func (s substContext) substitute(e Expr) (Expr, error) {
	if tv, ok := e.(*TypeVar); ok {
		if sub, ok := s.substitutions[tv]; ok {
			return sub, nil
		}
		return tv, nil
	}
	return s.mapChildren(e, s.substitute)
}

// mapChildren rebuilds e with f applied to its direct sub-expressions.
// The results are validated the way Subscript validates arguments.
// Expressions without sub-expressions are returned as is
func (ctx *TypeCtx) mapChildren(e Expr, f func(Expr) (Expr, error)) (Expr, error) {
	mapAll := func(exprs []Expr, msg string) ([]Expr, error) {
		mapped, err := util.MapSlice(exprs, f)
		if err != nil {
			return nil, err
		}
		return ctx.checkTypeArgs(mapped, msg)
	}
	mapOne := func(e Expr, msg string) (Expr, error) {
		mapped, err := f(e)
		if err != nil {
			return nil, err
		}
		return ctx.checkTypeArg(mapped, msg)
	}

	switch e := e.(type) {
	case *UnionType:
		members, err := util.MapSlice(e.members, f)
		if err != nil {
			return nil, err
		}
		return ctx.Union(members...)
	case *GenericAlias:
		args, err := mapAll(e.args, "Parameters to generic types must be types.")
		if err != nil {
			return nil, err
		}
		return ctx.newAlias(e.origin, args), nil
	case *TupleType:
		elems, err := mapAll(e.elems, "Tuple[t0, t1, ...]: each t must be a type.")
		if err != nil {
			return nil, err
		}
		return newTuple(elems, e.variadic), nil
	case *CallableType:
		var params []Expr
		if !e.anyArity {
			var err error
			if params, err = mapAll(e.params, "Callable[[arg, ...], result]: each arg must be a type."); err != nil {
				return nil, err
			}
		}
		result, err := mapOne(e.result, "Callable[args, result]: result must be a type.")
		if err != nil {
			return nil, err
		}
		return newCallable(params, e.anyArity, result), nil
	case *ClassVarType:
		if e.wrapped == nil {
			return e, nil
		}
		wrapped, err := mapOne(e.wrapped, "ClassVar accepts only types.")
		if err != nil {
			return nil, err
		}
		return &ClassVarType{wrapped: wrapped}, nil
	default:
		return e, nil
	}
}
