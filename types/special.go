package types

import (
	"iter"
	"slices"

	"github.com/cottand/typex/txerr"
	"github.com/cottand/typex/util"
)

type anyType struct{}

// Any is compatible with every type. It is not a class: it cannot be subclassed,
// instantiated, subscripted, nor used with IsSubclass or IsInstance
var Any Expr = anyType{}

func (anyType) String() string           { return "typing.Any" }
func (anyType) Hash() uint64             { return mix(offsetBasis, seedAny) }
func (anyType) children() iter.Seq[Expr] { return emptySeqExpr }
func (anyType) equals(other Expr) bool {
	_, ok := other.(anyType)
	return ok
}

// SpecialForm is an unsubscripted operator of the algebra, Union or Optional
type SpecialForm struct {
	name string
}

var (
	// UnionForm subscripted with Subscript builds the same as TypeCtx.Union
	UnionForm = &SpecialForm{name: "Union"}
	// OptionalForm subscripted with X builds Union[X, NoneType]
	OptionalForm = &SpecialForm{name: "Optional"}
)

func (s *SpecialForm) String() string           { return "typing." + s.name }
func (s *SpecialForm) children() iter.Seq[Expr] { return emptySeqExpr }

func (s *SpecialForm) Hash() uint64 {
	return mix(mix(offsetBasis, seedSpecialForm), hashString(s.name))
}

func (s *SpecialForm) equals(other Expr) bool {
	o, ok := other.(*SpecialForm)
	return ok && o == s
}

// ClassVarType marks an attribute annotation as belonging to the class rather than
// to its instances. The bare ClassVar wraps nothing
type ClassVarType struct {
	wrapped Expr
}

// ClassVar is the bare, unsubscripted marker
var ClassVar = &ClassVarType{}

// Wrapped is the annotated type, ok is false for the bare marker
func (c *ClassVarType) Wrapped() (e Expr, ok bool) { return c.wrapped, c.wrapped != nil }

func (c *ClassVarType) String() string {
	if c.wrapped == nil {
		return "typing.ClassVar"
	}
	return "typing.ClassVar[" + c.wrapped.String() + "]"
}

func (c *ClassVarType) Hash() uint64 {
	hash := mix(offsetBasis, seedClassVar)
	if c.wrapped != nil {
		hash = mix(hash, c.wrapped.Hash())
	}
	return hash
}

func (c *ClassVarType) equals(other Expr) bool {
	o, ok := other.(*ClassVarType)
	return ok && Equal(c.wrapped, o.wrapped)
}

func (c *ClassVarType) children() iter.Seq[Expr] {
	if c.wrapped == nil {
		return emptySeqExpr
	}
	return util.SingleIter(c.wrapped)
}

func (ctx *TypeCtx) subscriptClassVar(c *ClassVarType, args []Expr) (Expr, error) {
	if c.wrapped != nil {
		return nil, txerr.Typef(txerr.TerminalAlias, "%s cannot be further subscripted", c)
	}
	if len(args) != 1 {
		return nil, txerr.Typef(txerr.ArityMismatch, "ClassVar accepts only a single type, got %d", len(args))
	}
	wrapped, err := ctx.checkTypeArg(args[0], "ClassVar accepts only types.")
	if err != nil {
		return nil, err
	}
	return &ClassVarType{wrapped: wrapped}, nil
}

// NewTypeToken is a distinct nominal name for an existing type.
// It is not a class: calling it returns its argument unchanged
type NewTypeToken struct {
	id    uint64
	name  string
	super Expr
}

// NewType declares a distinct name for supertype
func (ctx *TypeCtx) NewType(name string, supertype Expr) (*NewTypeToken, error) {
	checked, err := ctx.checkTypeArg(supertype, "NewType(name, tp): tp must be a type.")
	if err != nil {
		return nil, err
	}
	return &NewTypeToken{id: ctx.next(), name: name, super: checked}, nil
}

func (n *NewTypeToken) Name() string       { return n.name }
func (n *NewTypeToken) Supertype() Expr    { return n.super }
func (n *NewTypeToken) Call(value any) any { return value }

func (n *NewTypeToken) String() string           { return n.name }
func (n *NewTypeToken) Hash() uint64             { return mix(mix(offsetBasis, seedNewType), n.id) }
func (n *NewTypeToken) children() iter.Seq[Expr] { return emptySeqExpr }
func (n *NewTypeToken) equals(other Expr) bool {
	o, ok := other.(*NewTypeToken)
	return ok && o == n
}

type ellipsisType struct{}

// Ellipsis is the ... argument, only meaningful as Tuple[X, ...] or Callable[..., R]
var Ellipsis Expr = ellipsisType{}

func (ellipsisType) String() string           { return "..." }
func (ellipsisType) Hash() uint64             { return mix(offsetBasis, seedEllipsis) }
func (ellipsisType) children() iter.Seq[Expr] { return emptySeqExpr }
func (ellipsisType) equals(other Expr) bool {
	_, ok := other.(ellipsisType)
	return ok
}

// ArgList is the bracketed parameter list of Callable[[A, B], R]
type ArgList struct {
	Elems []Expr
}

func Args(elems ...Expr) *ArgList {
	return &ArgList{Elems: slices.Clone(elems)}
}

func (a *ArgList) String() string           { return "[" + util.JoinString(a.Elems, ", ") + "]" }
func (a *ArgList) Hash() uint64             { return hashSeq(seedArgList, a.Elems) }
func (a *ArgList) children() iter.Seq[Expr] { return slices.Values(a.Elems) }
func (a *ArgList) equals(other Expr) bool {
	o, ok := other.(*ArgList)
	return ok && sliceEqual(a.Elems, o.Elems)
}
