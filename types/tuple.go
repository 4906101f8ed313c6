package types

import (
	"iter"
	"slices"

	"github.com/cottand/typex/txerr"
	"github.com/cottand/typex/util"
)

// TupleType is Tuple[X, Y], the empty Tuple[()] or the variadic Tuple[X, ...]
type TupleType struct {
	elems []Expr
	// variadic tuples have exactly one element type
	variadic bool
	hash     uint64
}

func newTuple(elems []Expr, variadic bool) *TupleType {
	seed := seedTuple
	if variadic {
		seed = seedVarTuple
	}
	return &TupleType{elems: elems, variadic: variadic, hash: hashSeq(seed, elems)}
}

func (t *TupleType) Elems() []Expr    { return slices.Clone(t.elems) }
func (t *TupleType) IsVariadic() bool { return t.variadic }
func (t *TupleType) Hash() uint64     { return t.hash }

func (t *TupleType) String() string {
	switch {
	case t.variadic:
		return "typing.Tuple[" + t.elems[0].String() + ", ...]"
	case len(t.elems) == 0:
		return "typing.Tuple[()]"
	default:
		return "typing.Tuple[" + util.JoinString(t.elems, ", ") + "]"
	}
}

func (t *TupleType) equals(other Expr) bool {
	o, ok := other.(*TupleType)
	return ok && o.variadic == t.variadic && sliceEqual(t.elems, o.elems)
}

func (t *TupleType) children() iter.Seq[Expr] { return slices.Values(t.elems) }

func (ctx *TypeCtx) subscriptTuple(args []Expr) (Expr, error) {
	if len(args) == 2 && Equal(args[1], Ellipsis) {
		elem, err := ctx.checkTypeArg(args[0], "Tuple[t, ...]: t must be a type.")
		if err != nil {
			return nil, err
		}
		return newTuple([]Expr{elem}, true), nil
	}
	elems, err := ctx.checkTypeArgs(args, "Tuple[t0, t1, ...]: each t must be a type.")
	if err != nil {
		return nil, err
	}
	return newTuple(elems, false), nil
}

// CallableType is Callable[[A, B], R], or Callable[..., R] when any arguments are accepted
type CallableType struct {
	params   []Expr
	anyArity bool
	result   Expr
	hash     uint64
}

func newCallable(params []Expr, anyArity bool, result Expr) *CallableType {
	var hash uint64
	if anyArity {
		hash = mix(mix(offsetBasis, seedAnyArityCallable), result.Hash())
	} else {
		hash = mix(hashSeq(seedCallable, params), result.Hash())
	}
	return &CallableType{params: params, anyArity: anyArity, result: result, hash: hash}
}

// Params are the argument types, ok is false for Callable[..., R]
func (c *CallableType) Params() (params []Expr, ok bool) {
	return slices.Clone(c.params), !c.anyArity
}
func (c *CallableType) Result() Expr { return c.result }
func (c *CallableType) Hash() uint64 { return c.hash }

func (c *CallableType) String() string {
	if c.anyArity {
		return "typing.Callable[..., " + c.result.String() + "]"
	}
	return "typing.Callable[[" + util.JoinString(c.params, ", ") + "], " + c.result.String() + "]"
}

func (c *CallableType) equals(other Expr) bool {
	o, ok := other.(*CallableType)
	return ok && o.anyArity == c.anyArity && sliceEqual(c.params, o.params) && Equal(c.result, o.result)
}

func (c *CallableType) children() iter.Seq[Expr] {
	return util.ConcatIter(slices.Values(c.params), util.SingleIter(c.result))
}

func (ctx *TypeCtx) subscriptCallable(args []Expr) (Expr, error) {
	if len(args) != 2 {
		return nil, txerr.Typef(txerr.ArityMismatch, "Callable must be used as Callable[[arg, ...], result], got %d arguments", len(args))
	}
	result, err := ctx.checkTypeArg(args[1], "Callable[args, result]: result must be a type.")
	if err != nil {
		return nil, err
	}
	switch params := args[0].(type) {
	case ellipsisType:
		return newCallable(nil, true, result), nil
	case *ArgList:
		checked, err := ctx.checkTypeArgs(params.Elems, "Callable[[arg, ...], result]: each arg must be a type.")
		if err != nil {
			return nil, err
		}
		return newCallable(checked, false, result), nil
	default:
		return nil, txerr.Typef(txerr.InvalidTypeArgument, "Callable[args, result]: args must be a list or ..., got %s", params)
	}
}
