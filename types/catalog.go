package types

import (
	"fmt"
)

// Builtins are the classes of the host runtime values
type Builtins struct {
	Object, Type, NoneType         *Class
	Int, Bool, Float, Complex      *Class
	Str, Bytes, ByteArray          *Class
	List, Tuple, Dict, DefaultDict *Class
	Set, FrozenSet                 *Class
	Function, Generator            *Class
	// RePattern and ReMatch are the classes of compiled regular expressions and their matches
	RePattern, ReMatch *Class
}

// HostABCs are the abstract base classes of the host runtime, which the typing
// categories stand for
type HostABCs struct {
	Hashable, Sized, Iterable, Iterator, Container, Callable *Class
	Set, MutableSet                                          *Class
	Mapping, MutableMapping                                  *Class
	Sequence, MutableSequence, ByteString                    *Class
	Generator                                                *Class
}

// Typing is the catalog of generic categories, protocols and the type variables they use
type Typing struct {
	Generic, Protocol *Class

	Hashable, Sized, Iterable, Iterator, Reversible, Container *Class
	AbstractSet, MutableSet                                    *Class
	Mapping, MutableMapping                                    *Class
	Sequence, MutableSequence, ByteString                      *Class
	List, Set, FrozenSet, Dict, DefaultDict                    *Class
	Generator, Type, Tuple, Callable                           *Class

	SupportsInt, SupportsFloat, SupportsComplex, SupportsAbs *Class

	Pattern, Match *TypeAlias

	T, KT, VT, T_co, V_co, VT_co, T_contra, CT_co, AnyStr *TypeVar
}

// must panics on errors of the static catalog, which are bugs
func must[T any](t T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("building type catalog: %v", err))
	}
	return t
}

// class declares a catalog class that has been checked to be consistent
func (ctx *TypeCtx) class(spec ClassSpec, opts declOptions) *Class {
	cls := must(ctx.declare(spec, opts))
	if spec.Module != "typing" {
		ctx.bind(cls.String(), cls)
	} else {
		ctx.bind(cls.name, cls)
	}
	return cls
}

func (ctx *TypeCtx) alias(target Expr, args ...Expr) Expr {
	return must(ctx.Subscript(target, args...))
}

var (
	sequenceMethods = []string{"__len__", "__iter__", "__contains__", "__getitem__", "__reversed__", "index", "count"}
	mutableMethods  = []string{"__setitem__", "__delitem__"}
	numberMethods   = []string{"__hash__", "__abs__", "__add__", "__sub__", "__mul__", "__eq__", "__lt__"}
)

func (ctx *TypeCtx) declareBuiltins() {
	b := &ctx.Builtins
	builtin := func(name string, bases []Expr, methods []string, disabled ...string) *Class {
		return ctx.class(ClassSpec{
			Name:            name,
			Module:          builtinsModule,
			Bases:           bases,
			Methods:         methods,
			DisabledMethods: disabled,
		}, declOptions{})
	}
	b.Object = builtin("object", nil, []string{"__hash__", "__eq__", "__repr__", "__init__", "__class__"})
	b.Type = builtin("type", []Expr{b.Object}, []string{"__call__", "__subclasscheck__", "__instancecheck__"})
	b.NoneType = builtin("NoneType", []Expr{b.Object}, []string{"__hash__", "__bool__"})
	ctx.bind("None", b.NoneType)

	b.Int = builtin("int", []Expr{b.Object}, append([]string{"__int__", "__float__", "__index__"}, numberMethods...))
	b.Bool = builtin("bool", []Expr{b.Int}, []string{"__bool__"})
	b.Float = builtin("float", []Expr{b.Object}, append([]string{"__int__", "__float__"}, numberMethods...))
	b.Complex = builtin("complex", []Expr{b.Object}, []string{"__hash__", "__abs__", "__add__", "__mul__", "__eq__"})

	b.Str = builtin("str", []Expr{b.Object}, append([]string{"__hash__", "__add__", "__mod__"}, sequenceMethods...))
	b.Bytes = builtin("bytes", []Expr{b.Object}, append([]string{"__hash__", "__add__"}, sequenceMethods...))
	b.ByteArray = builtin("bytearray", []Expr{b.Object},
		append([]string{"append", "insert", "__add__"}, append(sequenceMethods, mutableMethods...)...), "__hash__")

	b.List = builtin("list", []Expr{b.Object},
		append([]string{"append", "insert", "sort", "__add__"}, append(sequenceMethods, mutableMethods...)...), "__hash__")
	b.Tuple = builtin("tuple", []Expr{b.Object}, append([]string{"__hash__", "__add__"}, sequenceMethods...))
	b.Dict = builtin("dict", []Expr{b.Object},
		append([]string{"__len__", "__iter__", "__contains__", "__getitem__", "keys", "items", "values", "get"}, mutableMethods...),
		"__hash__")
	b.DefaultDict = ctx.class(ClassSpec{Name: "defaultdict", Module: "collections", Bases: []Expr{b.Dict}, Methods: []string{"__missing__"}}, declOptions{})
	b.Set = builtin("set", []Expr{b.Object}, []string{"__len__", "__iter__", "__contains__", "add", "discard", "__or__", "__and__"}, "__hash__")
	b.FrozenSet = builtin("frozenset", []Expr{b.Object}, []string{"__len__", "__iter__", "__contains__", "__hash__", "__or__", "__and__"})

	b.Function = builtin("function", []Expr{b.Object}, []string{"__call__"})
	b.Generator = builtin("generator", []Expr{b.Object}, []string{"__iter__", "__next__", "send", "throw", "close"})

	b.RePattern = ctx.class(ClassSpec{Name: "Pattern", Module: "re", Bases: []Expr{b.Object}, Methods: []string{"match", "search", "sub", "split"}}, declOptions{})
	b.ReMatch = ctx.class(ClassSpec{Name: "Match", Module: "re", Bases: []Expr{b.Object}, Methods: []string{"group", "groups", "start", "end", "span"}}, declOptions{})
}

const abcModule = "collections.abc"

func (ctx *TypeCtx) declareHostABCs() {
	a, b := &ctx.ABC, &ctx.Builtins
	abc := func(name string, bases []*Class, abstract []string, methods []string, hookMethods ...string) *Class {
		baseExprs := make([]Expr, len(bases))
		for i, base := range bases {
			baseExprs[i] = base
		}
		cls := ctx.class(ClassSpec{
			Name:            name,
			Module:          abcModule,
			Bases:           baseExprs,
			AbstractMethods: abstract,
			Methods:         methods,
		}, declOptions{flags: flagABC})
		if len(hookMethods) > 0 {
			cls.hook = methodsHook(cls, hookMethods...)
		}
		return cls
	}
	a.Hashable = abc("Hashable", nil, []string{"__hash__"}, nil, "__hash__")
	a.Sized = abc("Sized", nil, []string{"__len__"}, nil, "__len__")
	a.Iterable = abc("Iterable", nil, []string{"__iter__"}, nil, "__iter__")
	a.Iterator = abc("Iterator", []*Class{a.Iterable}, []string{"__next__"}, []string{"__iter__"}, "__iter__", "__next__")
	a.Container = abc("Container", nil, []string{"__contains__"}, nil, "__contains__")
	a.Callable = abc("Callable", nil, []string{"__call__"}, nil, "__call__")
	a.Generator = abc("Generator", []*Class{a.Iterator}, []string{"send", "throw"}, []string{"__next__", "close"},
		"__iter__", "__next__", "send", "throw", "close")

	collection := []*Class{a.Sized, a.Iterable, a.Container}
	a.Set = abc("Set", collection, nil, []string{"__le__", "__lt__", "__eq__", "__and__", "__or__", "isdisjoint"})
	a.MutableSet = abc("MutableSet", []*Class{a.Set}, []string{"add", "discard"}, []string{"remove", "pop", "clear"})
	a.Mapping = abc("Mapping", collection, []string{"__getitem__"}, []string{"__contains__", "keys", "items", "values", "get", "__eq__"})
	a.MutableMapping = abc("MutableMapping", []*Class{a.Mapping}, mutableMethods, []string{"pop", "popitem", "clear", "update", "setdefault"})
	a.Sequence = abc("Sequence", collection, []string{"__getitem__"}, []string{"__contains__", "__iter__", "__reversed__", "index", "count"})
	a.MutableSequence = abc("MutableSequence", []*Class{a.Sequence}, append([]string{"insert"}, mutableMethods...),
		[]string{"append", "reverse", "extend", "pop", "remove"})
	a.ByteString = abc("ByteString", []*Class{a.Sequence}, nil, nil)

	registrations := []struct {
		abc     *Class
		classes []*Class
	}{
		{a.MutableSequence, []*Class{b.List, b.ByteArray}},
		{a.Sequence, []*Class{b.Tuple, b.Str}},
		{a.ByteString, []*Class{b.Bytes, b.ByteArray}},
		{a.MutableMapping, []*Class{b.Dict}},
		{a.MutableSet, []*Class{b.Set}},
		{a.Set, []*Class{b.FrozenSet}},
		{a.Generator, []*Class{b.Generator}},
	}
	for _, reg := range registrations {
		for _, cls := range reg.classes {
			must(struct{}{}, ctx.Register(reg.abc, cls))
		}
	}
}

func (ctx *TypeCtx) declareTyping() {
	t, a, b := &ctx.Typing, &ctx.ABC, &ctx.Builtins

	tv := func(name string, opts ...TypeVarOption) *TypeVar {
		v := must(ctx.NewTypeVar(name, opts...))
		ctx.bind(name, v)
		return v
	}
	t.T = tv("T")
	t.KT = tv("KT")
	t.VT = tv("VT")
	t.T_co = tv("T_co", Covariantly())
	t.V_co = tv("V_co", Covariantly())
	t.VT_co = tv("VT_co", Covariantly())
	t.T_contra = tv("T_contra", Contravariantly())
	t.CT_co = tv("CT_co", Covariantly(), WithBound(b.Type))
	t.AnyStr = tv("AnyStr", WithConstraints(b.Bytes, b.Str))

	// category declares a typing class standing for extra
	category := func(name string, extra *Class, flags classFlags, bases ...Expr) *Class {
		cls := ctx.class(ClassSpec{Name: name, Module: "typing", Bases: bases}, declOptions{flags: flags, extra: extra})
		if extra != nil {
			cls.hook = ctx.extraHook(cls)
		}
		return cls
	}

	t.Generic = category("Generic", nil, flagABC|flagNoChecks|flagNoInstance|flagParamDecl)
	t.Protocol = category("Protocol", nil, flagABC|flagNoChecks|flagNoInstance|flagParamDecl)

	// these are not generic, so the host ABCs serve as they are
	t.Hashable = a.Hashable
	t.Sized = a.Sized
	ctx.bind("Hashable", a.Hashable)
	ctx.bind("Sized", a.Sized)

	t.Iterable = category("Iterable", a.Iterable, 0, ctx.alias(t.Generic, t.T_co))
	t.Iterator = category("Iterator", a.Iterator, 0, ctx.alias(t.Iterable, t.T_co))
	t.Container = category("Container", a.Container, 0, ctx.alias(t.Generic, t.T_co))
	t.Reversible = ctx.class(ClassSpec{
		Name:            "Reversible",
		Module:          "typing",
		Bases:           []Expr{ctx.alias(t.Protocol, t.T_co)},
		AbstractMethods: []string{"__reversed__"},
	}, declOptions{})

	t.AbstractSet = category("AbstractSet", a.Set, 0, t.Sized, ctx.alias(t.Iterable, t.T_co), ctx.alias(t.Container, t.T_co))
	t.MutableSet = category("MutableSet", a.MutableSet, 0, ctx.alias(t.AbstractSet, t.T))
	t.Mapping = category("Mapping", a.Mapping, 0,
		t.Sized, ctx.alias(t.Iterable, t.KT), ctx.alias(t.Container, t.KT), ctx.alias(t.Generic, t.KT, t.VT_co))
	t.MutableMapping = category("MutableMapping", a.MutableMapping, 0, ctx.alias(t.Mapping, t.KT, t.VT))
	t.Sequence = category("Sequence", a.Sequence, 0, t.Sized, ctx.alias(t.Iterable, t.T_co), ctx.alias(t.Container, t.T_co))
	t.MutableSequence = category("MutableSequence", a.MutableSequence, 0, ctx.alias(t.Sequence, t.T))
	t.ByteString = category("ByteString", a.ByteString, 0, ctx.alias(t.Sequence, b.Int))

	t.List = category("List", b.List, flagNoInstance, b.List, ctx.alias(t.MutableSequence, t.T))
	t.Set = category("Set", b.Set, flagNoInstance, b.Set, ctx.alias(t.MutableSet, t.T))
	t.FrozenSet = category("FrozenSet", b.FrozenSet, flagNoInstance, b.FrozenSet, ctx.alias(t.AbstractSet, t.T_co))
	t.Dict = category("Dict", b.Dict, flagNoInstance, b.Dict, ctx.alias(t.MutableMapping, t.KT, t.VT))
	t.DefaultDict = category("DefaultDict", b.DefaultDict, flagNoInstance, b.DefaultDict, ctx.alias(t.MutableMapping, t.KT, t.VT))
	t.Generator = category("Generator", b.Generator, flagNoInstance,
		ctx.alias(t.Iterator, t.T_co), ctx.alias(t.Generic, t.T_co, t.T_contra, t.V_co))
	t.Type = category("Type", b.Type, flagNoInstance, b.Type, ctx.alias(t.Generic, t.CT_co))
	t.Tuple = category("Tuple", b.Tuple, flagNoInstance, b.Tuple)
	t.Callable = category("Callable", a.Callable, flagNoInstance|flagFinal)

	protocol := func(name string, method string, params ...Expr) *Class {
		base := Expr(t.Protocol)
		if len(params) > 0 {
			base = ctx.alias(t.Protocol, params...)
		}
		return ctx.class(ClassSpec{
			Name:            name,
			Module:          "typing",
			Bases:           []Expr{base},
			AbstractMethods: []string{method},
		}, declOptions{})
	}
	t.SupportsInt = protocol("SupportsInt", "__int__")
	t.SupportsFloat = protocol("SupportsFloat", "__float__")
	t.SupportsComplex = protocol("SupportsComplex", "__complex__")
	t.SupportsAbs = protocol("SupportsAbs", "__abs__", t.T_co)

	t.Pattern = ctx.NewTypeAlias("Pattern", t.AnyStr, b.RePattern)
	t.Match = ctx.NewTypeAlias("Match", t.AnyStr, b.ReMatch)
	ctx.bind("Pattern", t.Pattern)
	ctx.bind("Match", t.Match)

	ctx.bind("Any", Any)
	ctx.bind("Union", UnionForm)
	ctx.bind("Optional", OptionalForm)
	ctx.bind("ClassVar", ClassVar)
	ctx.bind("Text", b.Str)
}
