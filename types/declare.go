package types

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/cottand/typex/txerr"
	"github.com/cottand/typex/util"
	"github.com/hashicorp/go-set/v3"
)

const builtinsModule = "builtins"

// ClassSpec describes a class to declare with TypeCtx.DeclareClass
type ClassSpec struct {
	Name   string
	Module string
	// Bases are classes or generic aliases. Generic[...] among them fixes the parameter order
	Bases []Expr
	// Methods are implemented by the class
	Methods []string
	// AbstractMethods must be implemented by a subclass before instances can be created
	AbstractMethods []string
	// DisabledMethods un-define an inherited method, like an unhashable class setting __hash__ to None
	DisabledMethods []string
	// Hook decides structural membership. It makes the class an ABC, and is inherited
	Hook SubclassHook
}

// declOptions are what the catalog can declare on top of a ClassSpec
type declOptions struct {
	flags classFlags
	extra *Class
}

// DeclareClass creates a class from spec.
//
// The class is generic over the free type variables of its parameterised bases, in order of
// first appearance, unless one base is Generic[...] (or Protocol[...]), whose variables then
// set the order and must include every other free variable
func (ctx *TypeCtx) DeclareClass(spec ClassSpec) (*Class, error) {
	return ctx.declare(spec, declOptions{})
}

func (ctx *TypeCtx) declare(spec ClassSpec, opts declOptions) (cls *Class, err error) {
	d := declarer{
		Logger:  ctx.logger.With("section", "types.declare"),
		TypeCtx: ctx,
		spec:    spec,
	}
	defer func() {
		if err == nil {
			d.Debug("declared class", "class", cls, "params", len(cls.params), "mro", util.JoinString(cls.mro, ", "))
		}
	}()

	if err := d.checkBases(); err != nil {
		return nil, err
	}
	params, err := d.params()
	if err != nil {
		return nil, err
	}
	bases, err := d.erasedBases(opts.extra)
	if err != nil {
		return nil, err
	}

	cls = &Class{
		id:     ctx.next(),
		name:   spec.Name,
		module: spec.Module,
		flags:  opts.flags,
		bases:  bases,
		params: params,
		attrs:  make(map[string]attrKind, len(spec.Methods)+len(spec.AbstractMethods)),
		extra:  opts.extra,
		hook:   spec.Hook,
	}
	for _, base := range bases {
		if base.IsABC() {
			cls.flags |= flagABC
		}
	}
	// categories answer through the hook of their extra
	if spec.Hook != nil || opts.extra != nil {
		cls.flags |= flagABC
	}
	for _, name := range spec.Methods {
		cls.attrs[name] = attrConcrete
	}
	for _, name := range spec.AbstractMethods {
		cls.attrs[name] = attrAbstract
	}
	for _, name := range spec.DisabledMethods {
		cls.attrs[name] = attrDisabled
	}
	if slices.ContainsFunc(spec.Bases, func(e Expr) bool { _, plain := e.(*Class); return !plain }) {
		cls.origBases = slices.Clone(spec.Bases)
	}
	if cls.mro, err = linearize(cls, bases); err != nil {
		return nil, err
	}
	cls.abstracts = computeAbstracts(cls.mro)
	if d.declaresProtocol() {
		cls.flags |= flagProtocol | flagABC
		if cls.hook == nil {
			cls.hook = protocolHook(cls, protocolAttrs(cls)...)
		}
	}

	for _, base := range bases {
		ctx.abcs.addSubclass(base, cls)
	}
	return cls, nil
}

type declarer struct {
	*slog.Logger
	*TypeCtx
	spec ClassSpec
}

// checkBases rejects whatever cannot be inherited from
func (d declarer) checkBases() error {
	for i, base := range d.spec.Bases {
		for _, other := range d.spec.Bases[:i] {
			if Equal(base, other) {
				return txerr.Typef(txerr.NotSubclassable, "duplicate base class %s", base)
			}
		}
		switch base := base.(type) {
		case *Class:
			if base.flags&flagFinal != 0 {
				return txerr.Typef(txerr.NotSubclassable, "Cannot subclass %s", base)
			}
			if base == d.Typing.Generic {
				return txerr.Typef(txerr.NotSubclassable, "Cannot inherit from plain Generic")
			}
		case *GenericAlias:
			if base.origin.flags&flagFinal != 0 {
				return txerr.Typef(txerr.NotSubclassable, "Cannot subclass %s", base)
			}
		case *TypeAlias:
			return txerr.Typef(txerr.NotSubclassable, "Cannot subclass type alias %s", base)
		case *TypeVar:
			return txerr.Typef(txerr.NotSubclassable, "Cannot subclass type variable %s", base)
		case *NewTypeToken:
			return txerr.Typef(txerr.NotSubclassable, "Cannot subclass NewType %s", base)
		case nil:
			return txerr.Typef(txerr.NotSubclassable, "Cannot subclass None")
		default:
			return txerr.Typef(txerr.NotSubclassable, "Cannot subclass %s", base)
		}
	}
	return nil
}

// declaresProtocol reports whether Protocol is a direct base, bare or parameterised
func (d declarer) declaresProtocol() bool {
	protocol := d.Typing.Protocol
	if protocol == nil {
		return false
	}
	return slices.ContainsFunc(d.spec.Bases, func(base Expr) bool {
		alias, ok := base.(*GenericAlias)
		return base == protocol || ok && alias.origin == protocol
	})
}

// protocolAttrs are the methods a structural match of cls needs: everything that cls and its
// protocol ancestors define
func protocolAttrs(cls *Class) []string {
	attrs := set.NewTreeSet[string](cmp.Compare[string])
	for _, c := range cls.mro {
		if c != cls && c.flags&flagProtocol == 0 {
			continue
		}
		for name, kind := range c.attrs {
			if kind != attrDisabled {
				attrs.Insert(name)
			}
		}
	}
	return attrs.Slice()
}

// params computes the type parameters of the class being declared
func (d declarer) params() ([]*TypeVar, error) {
	tvars := collectParams(d.spec.Bases...)
	var declared *GenericAlias
	for _, base := range d.spec.Bases {
		alias, ok := base.(*GenericAlias)
		if !ok || alias.origin.flags&flagParamDecl == 0 {
			continue
		}
		if declared != nil {
			return nil, txerr.Typef(txerr.DuplicateParameter, "Cannot inherit from Generic[...] multiple times.")
		}
		declared = alias
	}
	if declared == nil {
		return tvars, nil
	}
	gvars := set.From(declared.params)
	var unlisted []*TypeVar
	for _, tv := range tvars {
		if !gvars.Contains(tv) {
			unlisted = append(unlisted, tv)
		}
	}
	if len(unlisted) > 0 {
		return nil, txerr.Typef(txerr.UnlistedParameters, "Some type variables (%s) are not listed in %s",
			util.JoinString(unlisted, ", "), declared)
	}
	return slices.Clone(declared.params), nil
}

// erasedBases strips parameterisation from the bases. Generic is only kept when no other
// base is generic already, and an ABC extra goes first
func (d declarer) erasedBases(extra *Class) ([]*Class, error) {
	erased := make([]*Class, 0, len(d.spec.Bases)+1)
	for _, base := range d.spec.Bases {
		switch base := base.(type) {
		case *Class:
			erased = append(erased, base)
		case *GenericAlias:
			erased = append(erased, base.origin)
		}
	}
	otherGeneric := slices.ContainsFunc(erased, func(c *Class) bool {
		return c != d.Typing.Generic && c.isTypingGeneric(d.TypeCtx)
	})
	if otherGeneric {
		erased = slices.DeleteFunc(erased, func(c *Class) bool { return c == d.Typing.Generic })
	}
	if extra != nil && extra.IsABC() && !slices.Contains(erased, extra) {
		erased = append([]*Class{extra}, erased...)
	}
	for i, base := range erased {
		if slices.Contains(erased[:i], base) {
			return nil, txerr.Typef(txerr.NotSubclassable, "duplicate base class %s", base)
		}
	}
	if len(erased) == 0 && d.Builtins.Object != nil {
		erased = append(erased, d.Builtins.Object)
	}
	return erased, nil
}
