package types

import (
	"testing"

	"github.com/cottand/typex/txerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeneric(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing
	box := declare(t, ctx, "Box", sub(t, ctx, typing.Generic, typing.T))
	boxInt := sub(t, ctx, box, b.Int)

	inst, err := ctx.New(boxInt)
	require.NoError(t, err)
	assert.Same(t, box, inst.Class())
	orig, ok := inst.OrigClass()
	require.True(t, ok)
	assert.True(t, Equal(boxInt, orig))
	assert.Equal(t, "<test.Box[int] instance>", inst.String())

	// runtime checks only see the erased class
	assert.True(t, isInstance(t, ctx, inst, box))
	assert.True(t, isInstance(t, ctx, inst, b.Object))
	_, err = ctx.IsInstance(inst, boxInt)
	assert.True(t, txerr.IsTypeError(err))

	plain, err := ctx.New(box)
	require.NoError(t, err)
	_, ok = plain.OrigClass()
	assert.False(t, ok)
	assert.Equal(t, "<test.Box instance>", plain.String())

	cls, err := ctx.ClassOf(plain)
	require.NoError(t, err)
	assert.Same(t, box, cls)
}

func TestNewMapping(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing

	mmb := declareSpec(t, ctx, ClassSpec{
		Name:    "MMB",
		Bases:   []Expr{sub(t, ctx, typing.MutableMapping, typing.KT, typing.VT)},
		Methods: []string{"__getitem__", "__setitem__", "__delitem__", "__iter__", "__len__"},
	})
	assert.Empty(t, mmb.AbstractMethods())
	assert.Equal(t, []*TypeVar{typing.KT, typing.VT}, mmb.Parameters())

	inst, err := ctx.New(sub(t, ctx, mmb, b.Str, b.Int))
	require.NoError(t, err)
	assert.True(t, isInstance(t, ctx, inst, typing.Mapping))
	assert.True(t, isInstance(t, ctx, inst, ctx.ABC.MutableMapping))
	assert.False(t, isInstance(t, ctx, inst, typing.Dict))

	_, err = ctx.New(mmb)
	assert.NoError(t, err)

	// dropping an abstract method makes it abstract again
	partial := declareSpec(t, ctx, ClassSpec{
		Name:    "Partial",
		Bases:   []Expr{sub(t, ctx, typing.MutableMapping, typing.KT, typing.VT)},
		Methods: []string{"__getitem__", "__iter__", "__len__"},
	})
	assert.Equal(t, []string{"__delitem__", "__setitem__"}, partial.AbstractMethods())
	_, err = ctx.New(sub(t, ctx, partial, b.Str, b.Int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't instantiate abstract class Partial with abstract methods __delitem__, __setitem__")
}

func TestNewErrors(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing

	testCases := []struct {
		name    string
		target  Expr
		message string
	}{
		{"list category", typing.List, "Type List cannot be instantiated; use list() instead"},
		{"parameterised list", sub(t, ctx, typing.List, b.Int), "Type List cannot be instantiated; use list() instead"},
		{"dict category", typing.Dict, "Type Dict cannot be instantiated; use dict() instead"},
		{"generic", typing.Generic, "Type Generic cannot be instantiated"},
		{"abstract host class", ctx.ABC.Sized, "Can't instantiate abstract class Sized with abstract methods __len__"},
		{"abstract category", typing.Iterable, "Can't instantiate abstract class Iterable with abstract methods __iter__"},
		{"union", union(t, ctx, b.Int, b.Str), "Cannot instantiate"},
		{"type variable", typing.T, "Cannot instantiate"},
		{"any", Any, "Cannot instantiate"},
		{"tuple", sub(t, ctx, typing.Tuple, b.Int), "Cannot instantiate"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ctx.New(tc.target)
			var typeErr txerr.TypeError
			require.ErrorAs(t, err, &typeErr)
			assert.Equal(t, txerr.NotInstantiable, typeErr.Code())
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestNewSubclassOfCategory(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing

	// only the category itself refuses instances
	myList := declare(t, ctx, "MyList", sub(t, ctx, typing.List, b.Int))
	inst, err := ctx.New(myList)
	require.NoError(t, err)
	assert.True(t, isInstance(t, ctx, inst, b.List))
	assert.True(t, isInstance(t, ctx, inst, typing.List))
	assert.True(t, isInstance(t, ctx, inst, typing.Sequence))
}

func TestClassOf(t *testing.T) {
	ctx := NewTypeCtx()
	b := ctx.Builtins

	testCases := []struct {
		name     string
		value    any
		expected *Class
	}{
		{"nil", nil, b.NoneType},
		{"bool", false, b.Bool},
		{"int64", int64(3), b.Int},
		{"float32", float32(3), b.Float},
		{"complex", complex64(1), b.Complex},
		{"string", "", b.Str},
		{"bytes", []byte{}, b.Bytes},
		{"slice", []string{}, b.List},
		{"array", [3]string{}, b.Tuple},
		{"map", map[string]string{}, b.Dict},
		{"func", func() {}, b.Function},
		{"class", b.Str, b.Type},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cls, err := ctx.ClassOf(tc.value)
			require.NoError(t, err)
			assert.Same(t, tc.expected, cls)
		})
	}

	_, err := ctx.ClassOf(make(chan int))
	assert.True(t, txerr.IsTypeError(err))
}
