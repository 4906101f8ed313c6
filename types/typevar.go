package types

import (
	"iter"
	"slices"

	"github.com/cottand/typex/txerr"
	"github.com/pkg/errors"
)

type Variance uint8

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "covariant"
	case Contravariant:
		return "contravariant"
	default:
		return "invariant"
	}
}

// prefix is how a variable of this variance is rendered, like +T_co
func (v Variance) prefix() string {
	switch v {
	case Covariant:
		return "+"
	case Contravariant:
		return "-"
	default:
		return "~"
	}
}

// TypeVar is a named placeholder, optionally restricted to a list of
// constraints or to subtypes of a bound. Type variables compare by identity
type TypeVar struct {
	id          uint64
	name        string
	constraints []Expr
	bound       Expr
	variance    Variance
}

func (t *TypeVar) Name() string             { return t.name }
func (t *TypeVar) Constraints() []Expr      { return slices.Clone(t.constraints) }
func (t *TypeVar) Variance() Variance       { return t.variance }
func (t *TypeVar) Bound() (Expr, bool)      { return t.bound, t.bound != nil }
func (t *TypeVar) String() string           { return t.variance.prefix() + t.name }
func (t *TypeVar) Hash() uint64             { return mix(mix(offsetBasis, seedTypeVar), t.id) }
func (t *TypeVar) children() iter.Seq[Expr] { return emptySeqExpr }

func (t *TypeVar) equals(other Expr) bool {
	o, ok := other.(*TypeVar)
	return ok && o == t
}

type typeVarConfig struct {
	constraints   []Expr
	bound         Expr
	hasBound      bool
	covariant     bool
	contravariant bool
}

type TypeVarOption func(*typeVarConfig)

// WithConstraints restricts the variable to exactly one of constraints
func WithConstraints(constraints ...Expr) TypeVarOption {
	return func(c *typeVarConfig) {
		c.constraints = append(c.constraints, constraints...)
	}
}

// WithBound restricts the variable to subtypes of bound
func WithBound(bound Expr) TypeVarOption {
	return func(c *typeVarConfig) {
		c.bound, c.hasBound = bound, true
	}
}

func Covariantly() TypeVarOption {
	return func(c *typeVarConfig) { c.covariant = true }
}

func Contravariantly() TypeVarOption {
	return func(c *typeVarConfig) { c.contravariant = true }
}

// NewTypeVar declares a fresh type variable. Two calls with the same name
// still return distinct variables
func (ctx *TypeCtx) NewTypeVar(name string, opts ...TypeVarOption) (*TypeVar, error) {
	config := typeVarConfig{}
	for _, opt := range opts {
		opt(&config)
	}
	if config.covariant && config.contravariant {
		return nil, txerr.Configf(txerr.BothVariances, "Bivariant types are not supported.")
	}
	if len(config.constraints) == 1 {
		return nil, txerr.Configf(txerr.SingleConstraint, "A single constraint is not allowed")
	}
	if len(config.constraints) > 0 && config.hasBound {
		return nil, txerr.Configf(txerr.BoundWithConstraints, "Constraints cannot be combined with bound=...")
	}

	tv := &TypeVar{id: ctx.next(), name: name}
	switch {
	case config.covariant:
		tv.variance = Covariant
	case config.contravariant:
		tv.variance = Contravariant
	}
	for _, constraint := range config.constraints {
		checked, err := ctx.checkTypeArg(constraint, "TypeVar(name, constraint, ...): constraints must be types.")
		if err != nil {
			return nil, txerr.New(txerr.ConfigurationError{ErrCode: txerr.InvalidTypeArgument, Msg: err.Error()})
		}
		tv.constraints = append(tv.constraints, checked)
	}
	if config.hasBound {
		checked, err := ctx.checkTypeArg(config.bound, "Bound must be a type.")
		if err != nil {
			return nil, txerr.New(txerr.ConfigurationError{ErrCode: txerr.InvalidBound, Msg: err.Error()})
		}
		tv.bound = checked
	}
	ctx.logger.Debug("declared type variable", "var", tv, "variance", tv.variance)
	return tv, nil
}

// checkTypeArg validates that arg may appear as an argument of a type expression.
// nil stands for NoneType
func (ctx *TypeCtx) checkTypeArg(arg Expr, msg string) (Expr, error) {
	switch arg := arg.(type) {
	case nil:
		return ctx.Builtins.NoneType, nil
	case *Class:
		if arg.flags&flagParamDecl != 0 {
			return nil, txerr.Typef(txerr.InvalidTypeArgument, "Plain %s is not valid as type argument", arg)
		}
		return arg, nil
	case *SpecialForm:
		return nil, txerr.Typef(txerr.InvalidTypeArgument, "Plain %s is not valid as type argument", arg)
	case *ClassVarType:
		return nil, txerr.Typef(txerr.InvalidTypeArgument, "%s is not valid as type argument", arg)
	case ellipsisType, *ArgList:
		return nil, txerr.Typef(txerr.InvalidTypeArgument, "%s Got %s", msg, arg)
	default:
		return arg, nil
	}
}

func (ctx *TypeCtx) checkTypeArgs(args []Expr, msg string) ([]Expr, error) {
	checked := make([]Expr, len(args))
	for i, arg := range args {
		var err error
		if checked[i], err = ctx.checkTypeArg(arg, msg); err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
	}
	return checked, nil
}
