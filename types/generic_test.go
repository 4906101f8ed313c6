package types

import (
	"strings"
	"testing"

	"github.com/cottand/typex/txerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptParameters(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing
	T, S := typeVar(t, ctx, "T"), typeVar(t, ctx, "S")

	testCases := []struct {
		name     string
		expr     Expr
		expected []*TypeVar
	}{
		{"concrete", sub(t, ctx, typing.List, b.Int), nil},
		{"single", sub(t, ctx, typing.List, T), []*TypeVar{T}},
		{"first occurrence order", sub(t, ctx, typing.Dict, S, sub(t, ctx, typing.List, T)), []*TypeVar{S, T}},
		{"duplicates", sub(t, ctx, typing.Dict, T, T), []*TypeVar{T}},
		{"through unions", sub(t, ctx, typing.List, union(t, ctx, T, b.Int, S)), []*TypeVar{T, S}},
		{"through tuples", sub(t, ctx, typing.Tuple, S, T, S), []*TypeVar{S, T}},
		{"through callables", sub(t, ctx, typing.Callable, Args(T), S), []*TypeVar{T, S}},
		{"bare class", typing.List, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Parameters(tc.expr))
			assert.Equal(t, len(tc.expected) == 0, IsConcrete(tc.expr))
		})
	}
}

func TestSubscriptEquality(t *testing.T) {
	ctx := NewTypeCtx(WithoutAliasCache())
	b, typing := ctx.Builtins, ctx.Typing
	T := typeVar(t, ctx, "T")

	listInt1, listInt2 := sub(t, ctx, typing.List, b.Int), sub(t, ctx, typing.List, b.Int)
	assert.NotSame(t, listInt1, listInt2)
	assert.True(t, Equal(listInt1, listInt2))
	assert.Equal(t, listInt1.Hash(), listInt2.Hash())

	assert.False(t, Equal(listInt1, sub(t, ctx, typing.List, b.Str)))
	assert.False(t, Equal(listInt1, sub(t, ctx, typing.Set, b.Int)))
	assert.False(t, Equal(listInt1, typing.List))
	assert.False(t, Equal(sub(t, ctx, typing.List, T), sub(t, ctx, typing.List, typeVar(t, ctx, "T"))))

	assert.True(t, Equal(
		sub(t, ctx, typing.Dict, b.Str, union(t, ctx, b.Int, b.Float)),
		sub(t, ctx, typing.Dict, b.Str, union(t, ctx, b.Float, b.Int)),
	))
}

func TestSubscriptChained(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing
	T, S := typeVar(t, ctx, "T"), typeVar(t, ctx, "S")

	chained := sub(t, ctx, sub(t, ctx, sub(t, ctx, typing.List, S), T), b.Int)
	assert.True(t, Equal(chained, sub(t, ctx, typing.List, b.Int)))
	// flattened to the root origin
	assert.Equal(t, typing.List, chained.(*GenericAlias).Origin())

	mapping := sub(t, ctx, typing.Mapping, T, S)
	swapped := sub(t, ctx, mapping, S, T)
	assert.Equal(t, "typing.Mapping[~S, ~T]", swapped.String())

	nested := sub(t, ctx, typing.List, sub(t, ctx, typing.Tuple, T, T))
	assert.Equal(t, "typing.List[typing.Tuple[typing.List[int], typing.List[int]]]",
		sub(t, ctx, nested, sub(t, ctx, typing.List, b.Int)).String())

	partial := sub(t, ctx, typing.Dict, T, sub(t, ctx, typing.List, S))
	assert.Equal(t, "typing.Dict[str, typing.List[~S]]", sub(t, ctx, partial, b.Str, S).String())
	assert.Equal(t, "typing.Dict[str, typing.List[int]]", sub(t, ctx, partial, b.Str, b.Int).String())
}

func TestSubscriptTerminal(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing
	box := declare(t, ctx, "Box", sub(t, ctx, typing.Generic, typing.T))

	boxInt := sub(t, ctx, box, b.Int)
	assert.Empty(t, Parameters(boxInt))

	_, err := ctx.Subscript(boxInt, b.Str)
	assert.True(t, txerr.IsTypeError(err))
	_, err = ctx.Subscript(sub(t, ctx, typing.List, b.Int), b.Int)
	assert.True(t, txerr.IsTypeError(err))
}

func TestSubscriptErrors(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing
	T := typeVar(t, ctx, "T")
	newType, err := ctx.NewType("UserId", b.Int)
	require.NoError(t, err)
	ref, err := ctx.ForwardRef("int")
	require.NoError(t, err)

	testCases := []struct {
		name   string
		target Expr
		args   []Expr
	}{
		{"not generic", b.Int, []Expr{b.Int}},
		{"too many", typing.List, []Expr{b.Int, b.Str}},
		{"too few", typing.Dict, []Expr{b.Int}},
		{"any", Any, []Expr{b.Int}},
		{"type variable", T, []Expr{b.Int}},
		{"new type", newType, []Expr{b.Int}},
		{"forward ref", ref, []Expr{b.Int}},
		{"generic with classes", typing.Generic, []Expr{b.Int}},
		{"generic with duplicates", typing.Generic, []Expr{T, T}},
		{"protocol with duplicates", typing.Protocol, []Expr{T, T}},
		{"empty generic", typing.Generic, nil},
		{"class var argument", typing.List, []Expr{ClassVar}},
		{"plain generic argument", typing.List, []Expr{typing.Generic}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ctx.Subscript(tc.target, tc.args...)
			assert.Error(t, err)
			assert.True(t, txerr.IsTypeError(err), "expected a type error, got %v", err)
		})
	}
}

func TestSubscriptArityMessage(t *testing.T) {
	ctx := NewTypeCtx()
	_, err := ctx.Subscript(ctx.Typing.Dict, ctx.Builtins.Int)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Too few parameters for typing.Dict; actual 1, expected 2")
}

func TestSubscriptRendering(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing

	testCases := []struct {
		expr     Expr
		expected string
	}{
		{sub(t, ctx, typing.List, b.Int), "typing.List[int]"},
		{sub(t, ctx, typing.Dict, b.Str, sub(t, ctx, typing.List, typing.T)), "typing.Dict[str, typing.List[~T]]"},
		{sub(t, ctx, typing.Iterable, typing.T_co), "typing.Iterable[+T_co]"},
		{sub(t, ctx, typing.Generator, b.Int, typing.T_contra, b.Str), "typing.Generator[int, -T_contra, str]"},
		{sub(t, ctx, typing.List, Any), "typing.List[typing.Any]"},
		{sub(t, ctx, typing.Type, b.Int), "typing.Type[int]"},
		{sub(t, ctx, typing.Generic, typing.KT, typing.VT), "typing.Generic[~KT, ~VT]"},
	}
	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.expr.String())
		})
	}
}

func TestSubscriptUserGenerics(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing
	T, S := typeVar(t, ctx, "T"), typeVar(t, ctx, "S")

	c := declare(t, ctx, "C", sub(t, ctx, typing.Generic, T))
	x := sub(t, ctx, c, sub(t, ctx, typing.Tuple, S, T))
	y := sub(t, ctx, x, T, b.Int)
	z := sub(t, ctx, y, b.Str)

	assert.True(t, strings.HasSuffix(z.String(), ".C[typing.Tuple[str, int]]"), z.String())
	assert.Equal(t, []*TypeVar{S, T}, Parameters(x))
	assert.Equal(t, []*TypeVar{T}, Parameters(y))
	assert.True(t, IsConcrete(z))
}

func TestSubscriptAliasCache(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing

	before := ctx.aliases.len()
	listInt := sub(t, ctx, typing.List, b.Int)
	assert.Same(t, listInt, sub(t, ctx, typing.List, b.Int))
	assert.Same(t, listInt, sub(t, ctx, sub(t, ctx, typing.List, typing.T), b.Int))
	assert.Equal(t, before+2, ctx.aliases.len(), "List[int] and List[~T] are cached")

	uncached := NewTypeCtx(WithoutAliasCache())
	first := sub(t, uncached, uncached.Typing.List, uncached.Builtins.Int)
	second := sub(t, uncached, uncached.Typing.List, uncached.Builtins.Int)
	assert.NotSame(t, first, second)
	assert.True(t, Equal(first, second))
	assert.Equal(t, 0, uncached.aliases.len())
}
