package types

import (
	"cmp"
	"iter"
	"slices"

	"github.com/cottand/typex/txerr"
	"github.com/cottand/typex/util"
	"github.com/hashicorp/go-set/v3"
)

type attrKind uint8

const (
	attrMissing attrKind = iota
	attrConcrete
	attrAbstract
	// attrDisabled is an attribute explicitly un-defined, like an unhashable class
	// setting __hash__ to None
	attrDisabled
)

type classFlags uint16

const (
	// flagABC classes answer membership through hooks, registrations and subclasses
	flagABC classFlags = 1 << iota
	// flagProtocol classes are structural and cannot be used with IsInstance
	flagProtocol
	// flagNoInstance forbids instantiating exactly this class, subclasses may be instantiated
	flagNoInstance
	// flagFinal classes cannot be subclassed
	flagFinal
	// flagNoChecks classes cannot be the right operand of IsSubclass or IsInstance
	flagNoChecks
	// flagParamDecl classes (Generic, Protocol) are subscripted with the parameter list of a declaration
	flagParamDecl
)

// Class is a nominal class of the simulated host object model.
// Classes are created by TypeCtx.DeclareClass and compare by identity
type Class struct {
	id     uint64
	name   string
	module string
	flags  classFlags

	// bases are the erased direct bases, in declaration order
	bases []*Class
	// mro is the C3 linearisation, starting with the class itself
	mro []*Class
	// origBases are the bases as declared, only kept when some base was a generic alias
	origBases []Expr
	params    []*TypeVar

	attrs     map[string]attrKind
	abstracts []string

	// extra is the runtime class a catalog category stands for, like list for List
	extra *Class
	hook  SubclassHook

	// fields are set on named tuples only
	fields []Field
}

func (c *Class) Name() string   { return c.name }
func (c *Class) Module() string { return c.module }

// Bases are the erased direct bases of c
func (c *Class) Bases() []*Class { return slices.Clone(c.bases) }

// MRO is the method resolution order of c, starting with c
func (c *Class) MRO() []*Class { return slices.Clone(c.mro) }

// Parameters are the type variables c is generic over, empty if c is not generic
func (c *Class) Parameters() []*TypeVar { return slices.Clone(c.params) }

// OrigBases are the bases of c exactly as declared, including parameterisation.
// ok is false when every declared base was a plain class
func (c *Class) OrigBases() (bases []Expr, ok bool) {
	if c.origBases == nil {
		return nil, false
	}
	return slices.Clone(c.origBases), true
}

// Extra is the runtime class that a catalog category like List stands for
func (c *Class) Extra() (*Class, bool) {
	return c.extra, c.extra != nil
}

func (c *Class) IsGeneric() bool { return len(c.params) > 0 }

// IsABC reports whether membership in c goes beyond plain inheritance
func (c *Class) IsABC() bool { return c.flags&flagABC != 0 }

// IsProtocol reports whether c is a structural protocol, like SupportsInt
func (c *Class) IsProtocol() bool { return c.flags&flagProtocol != 0 }

// AbstractMethods are the methods that are still abstract in c, sorted
func (c *Class) AbstractMethods() []string { return slices.Clone(c.abstracts) }

// HasAttr reports whether c or one of its ancestors defines name, concretely or abstractly
func (c *Class) HasAttr(name string) bool {
	kind := c.lookup(name)
	return kind == attrConcrete || kind == attrAbstract
}

// lookup finds the first definition of name along the MRO
func (c *Class) lookup(name string) attrKind {
	for _, cls := range c.mro {
		if kind, ok := cls.attrs[name]; ok {
			return kind
		}
	}
	return attrMissing
}

func (c *Class) hasAttrs(names ...string) bool {
	for _, name := range names {
		if !c.HasAttr(name) {
			return false
		}
	}
	return true
}

func (c *Class) inMRO(target *Class) bool {
	return slices.Contains(c.mro, target)
}

// findHook is the first subclass hook along the MRO of c
func (c *Class) findHook() SubclassHook {
	for _, cls := range c.mro {
		if cls.hook != nil {
			return cls.hook
		}
	}
	return nil
}

func (c *Class) String() string {
	if c.module == "" || c.module == builtinsModule {
		return c.name
	}
	return c.module + "." + c.name
}

func (c *Class) Hash() uint64 {
	return mix(mix(offsetBasis, seedClass), c.id)
}

func (c *Class) equals(other Expr) bool {
	o, ok := other.(*Class)
	return ok && o == c
}

// classes are leaves: a bare generic class carries no free parameters
func (c *Class) children() iter.Seq[Expr] { return emptySeqExpr }

// linearize computes the C3 method resolution order of a class with the given bases
func linearize(cls *Class, bases []*Class) ([]*Class, error) {
	seqs := make([][]*Class, 0, len(bases)+1)
	for _, base := range bases {
		seqs = append(seqs, slices.Clone(base.mro))
	}
	seqs = append(seqs, slices.Clone(bases))

	result := []*Class{cls}
	for {
		seqs = slices.DeleteFunc(seqs, func(seq []*Class) bool { return len(seq) == 0 })
		if len(seqs) == 0 {
			return result, nil
		}
		tails := set.New[*Class](len(seqs))
		for _, seq := range seqs {
			tails.InsertSlice(seq[1:])
		}
		var candidate *Class
		for _, seq := range seqs {
			if !tails.Contains(seq[0]) {
				candidate = seq[0]
				break
			}
		}
		if candidate == nil {
			return nil, txerr.Typef(txerr.InconsistentMRO,
				"Cannot create a consistent method resolution order (MRO) for bases %s", util.JoinString(bases, ", "))
		}
		result = append(result, candidate)
		for i, seq := range seqs {
			if seq[0] == candidate {
				seqs[i] = seq[1:]
			}
		}
	}
}

// computeAbstracts collects the names whose first definition along the MRO is abstract
func computeAbstracts(mro []*Class) []string {
	names := set.NewTreeSet[string](cmp.Compare[string])
	for _, cls := range mro {
		for name := range cls.attrs {
			names.Insert(name)
		}
	}
	var abstracts []string
	for name := range names.Items() {
		if mro[0].lookup(name) == attrAbstract {
			abstracts = append(abstracts, name)
		}
	}
	return abstracts
}
