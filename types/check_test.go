package types

import (
	"testing"

	"github.com/cottand/typex/txerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSubclassTargets(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing
	userId, err := ctx.NewType("UserId", b.Int)
	require.NoError(t, err)
	ref, err := ctx.ForwardRef("int")
	require.NoError(t, err)

	testCases := []struct {
		name   string
		target Expr
		code   txerr.ErrCode
	}{
		{"generic", typing.Generic, txerr.NotReifiable},
		{"protocol base", typing.Protocol, txerr.NotReifiable},
		{"parameterised", sub(t, ctx, typing.List, b.Int), txerr.NotReifiable},
		{"parameterised with variables", sub(t, ctx, typing.List, typing.T), txerr.NotReifiable},
		{"union", union(t, ctx, b.Int, b.Str), txerr.NotReifiable},
		{"bare union", UnionForm, txerr.NotReifiable},
		{"optional", OptionalForm, txerr.NotReifiable},
		{"any", Any, txerr.NotReifiable},
		{"type variable", typing.T, txerr.NotReifiable},
		{"tuple", sub(t, ctx, typing.Tuple, b.Int), txerr.NotReifiable},
		{"callable", sub(t, ctx, typing.Callable, Ellipsis, b.Int), txerr.NotReifiable},
		{"class var", ClassVar, txerr.NotReifiable},
		{"new type", userId, txerr.NotReifiable},
		{"forward ref", ref, txerr.NotReifiable},
		{"subscripted alias", sub(t, ctx, typing.Pattern, b.Str), txerr.NotReifiable},
		{"ellipsis", Ellipsis, txerr.NotAClass},
		{"none", nil, txerr.NotAClass},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ctx.IsSubclass(b.Int, tc.target)
			var typeErr txerr.TypeError
			require.ErrorAs(t, err, &typeErr)
			assert.Equal(t, tc.code, typeErr.Code(), err.Error())

			_, err = ctx.IsInstance(1, tc.target)
			assert.True(t, txerr.IsTypeError(err))
		})
	}
}

func TestIsSubclassLeft(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing

	// a generic alias is checked as its origin
	assert.True(t, isSubclass(t, ctx, sub(t, ctx, typing.List, b.Int), typing.List))
	assert.True(t, isSubclass(t, ctx, sub(t, ctx, typing.List, b.Int), b.List))
	assert.True(t, isSubclass(t, ctx, sub(t, ctx, typing.Dict, b.Str, b.Int), typing.Mapping))

	for _, left := range []Expr{union(t, ctx, b.Int, b.Str), Any, typing.T, nil} {
		_, err := ctx.IsSubclass(left, b.Object)
		var typeErr txerr.TypeError
		require.ErrorAs(t, err, &typeErr, "issubclass(%v, object)", left)
		assert.Equal(t, txerr.NotAClass, typeErr.Code())
	}
}

func TestIsSubclassNominal(t *testing.T) {
	ctx := NewTypeCtx()
	b := ctx.Builtins
	employee := declare(t, ctx, "Employee")
	manager := declare(t, ctx, "Manager", employee)

	assert.True(t, isSubclass(t, ctx, manager, employee))
	assert.False(t, isSubclass(t, ctx, employee, manager))
	assert.True(t, isSubclass(t, ctx, employee, employee))
	assert.True(t, isSubclass(t, ctx, manager, b.Object))
	assert.True(t, isSubclass(t, ctx, b.Bool, b.Int))
	assert.False(t, isSubclass(t, ctx, b.Int, b.Bool))
	assert.False(t, isSubclass(t, ctx, b.Int, b.Float))
	assert.True(t, isSubclass(t, ctx, b.DefaultDict, b.Dict))
}

func TestIsInstanceValues(t *testing.T) {
	ctx := NewTypeCtx()
	b := ctx.Builtins
	employee := declare(t, ctx, "Employee")

	testCases := []struct {
		name     string
		value    any
		target   Expr
		expected bool
	}{
		{"int", 42, b.Int, true},
		{"uint8", uint8(1), b.Int, true},
		{"bool is an int", true, b.Int, true},
		{"int is not a bool", 1, b.Bool, false},
		{"float", 1.5, b.Float, true},
		{"float is not an int", 1.5, b.Int, false},
		{"complex", complex(1, 2), b.Complex, true},
		{"string", "x", b.Str, true},
		{"bytes", []byte("x"), b.Bytes, true},
		{"bytes are not a list", []byte("x"), b.List, false},
		{"nil is None", nil, b.NoneType, true},
		{"nil is an object", nil, b.Object, true},
		{"class is a type", b.Int, b.Type, true},
		{"everything is an object", map[int]int{}, b.Object, true},
		{"instance", must(ctx.New(employee)), employee, true},
		{"instance of object", must(ctx.New(employee)), b.Object, true},
		{"int is not an employee", 1, employee, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isInstance(t, ctx, tc.value, tc.target))
		})
	}

	_, err := ctx.IsInstance(struct{}{}, b.Object)
	var typeErr txerr.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, txerr.UnsupportedValue, typeErr.Code())
}

func TestIsInstanceTypeAlias(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing

	pattern := must(ctx.New(b.RePattern))
	assert.True(t, isInstance(t, ctx, pattern, typing.Pattern))
	assert.False(t, isInstance(t, ctx, pattern, typing.Match))
	assert.False(t, isInstance(t, ctx, "abc", typing.Pattern))
	assert.True(t, isSubclass(t, ctx, b.ReMatch, typing.Match))
}
