package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sub(t *testing.T, ctx *TypeCtx, target Expr, args ...Expr) Expr {
	t.Helper()
	res, err := ctx.Subscript(target, args...)
	require.NoError(t, err, "subscripting %s", target)
	return res
}

func union(t *testing.T, ctx *TypeCtx, operands ...Expr) Expr {
	t.Helper()
	res, err := ctx.Union(operands...)
	require.NoError(t, err)
	return res
}

func typeVar(t *testing.T, ctx *TypeCtx, name string, opts ...TypeVarOption) *TypeVar {
	t.Helper()
	tv, err := ctx.NewTypeVar(name, opts...)
	require.NoError(t, err)
	return tv
}

func declare(t *testing.T, ctx *TypeCtx, name string, bases ...Expr) *Class {
	t.Helper()
	return declareSpec(t, ctx, ClassSpec{Name: name, Bases: bases})
}

func declareSpec(t *testing.T, ctx *TypeCtx, spec ClassSpec) *Class {
	t.Helper()
	if spec.Module == "" {
		spec.Module = "test"
	}
	cls, err := ctx.DeclareClass(spec)
	require.NoError(t, err, "declaring %s", spec.Name)
	return cls
}

func isSubclass(t *testing.T, ctx *TypeCtx, left, right Expr) bool {
	t.Helper()
	res, err := ctx.IsSubclass(left, right)
	require.NoError(t, err, "issubclass(%s, %s)", left, right)
	return res
}

func isInstance(t *testing.T, ctx *TypeCtx, value any, target Expr) bool {
	t.Helper()
	res, err := ctx.IsInstance(value, target)
	require.NoError(t, err, "isinstance(%v, %s)", value, target)
	return res
}
