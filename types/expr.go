// Package types implements an algebra of generic type expressions: classes, type variables,
// unions, tuples, callables, parameterised generic aliases and a handful of special forms.
//
// Type expressions are immutable values. They never describe how a value is represented, only
// what type it was declared with, so they can be compared, hashed, rendered and queried for
// structural subclass relationships.
//
// All mutable state (the alias cache, ABC registrations, the class catalog) lives in a TypeCtx.
// Independent contexts share nothing.
package types

import (
	"fmt"
	"hash/fnv"
	"iter"

	"github.com/hashicorp/go-set/v3"
)

// Expr is a type expression.
//
// Expressions are compared with Equal, never with ==, since two structurally equal expressions
// are not necessarily the same allocation.
type Expr interface {
	fmt.Stringer
	// Hash is consistent with Equal: equal expressions have equal hashes
	Hash() uint64
	// equals is the structural comparison, called by Equal once hashes match
	equals(other Expr) bool
	// children are the direct sub-expressions that may carry free type variables
	children() iter.Seq[Expr]
}

var (
	_ Expr = (*Class)(nil)
	_ Expr = (*TypeVar)(nil)
	_ Expr = anyType{}
	_ Expr = (*UnionType)(nil)
	_ Expr = (*TupleType)(nil)
	_ Expr = (*CallableType)(nil)
	_ Expr = (*GenericAlias)(nil)
	_ Expr = (*ClassVarType)(nil)
	_ Expr = (*ForwardRef)(nil)
	_ Expr = (*NewTypeToken)(nil)
	_ Expr = (*TypeAlias)(nil)
	_ Expr = (*SpecialForm)(nil)
	_ Expr = (*ArgList)(nil)
	_ Expr = ellipsisType{}
)

// Equal is structural equality between type expressions.
// Classes, type variables and NewType tokens compare by identity.
func Equal(this, other Expr) bool {
	if this == nil || other == nil {
		return this == nil && other == nil
	}
	return this.Hash() == other.Hash() && this.equals(other)
}

// Parameters returns the free type variables of e in first occurrence order
func Parameters(e Expr) []*TypeVar {
	return collectParams(e)
}

// IsConcrete reports whether e has no free type variables left
func IsConcrete(e Expr) bool {
	return len(collectParams(e)) == 0
}

// collectParams walks exprs and collects the type variables that appear in them,
// without duplicates and in order of first occurrence
func collectParams(exprs ...Expr) []*TypeVar {
	seen := set.New[*TypeVar](0)
	var params []*TypeVar
	var walk func(e Expr)
	walk = func(e Expr) {
		switch e := e.(type) {
		case nil:
			return
		case *TypeVar:
			if seen.Insert(e) {
				params = append(params, e)
			}
		case *GenericAlias:
			// already computed at construction
			for _, p := range e.params {
				if seen.Insert(p) {
					params = append(params, p)
				}
			}
		default:
			for child := range e.children() {
				walk(child)
			}
		}
	}
	for _, e := range exprs {
		walk(e)
	}
	return params
}

func sliceEqual(fst, snd []Expr) bool {
	if len(fst) != len(snd) {
		return false
	}
	for i := range fst {
		if !Equal(fst[i], snd[i]) {
			return false
		}
	}
	return true
}

// FNV-1a constants, used to mix hashes of composite expressions
const (
	offsetBasis uint64 = 14695981039346656037
	fnvPrime    uint64 = 1099511628211
)

// per-variant seeds so that, say, Tuple[int] and List[int] do not collide
const (
	seedClass uint64 = 1299709 + iota*104729
	seedTypeVar
	seedAny
	seedUnion
	seedTuple
	seedVarTuple
	seedCallable
	seedAnyArityCallable
	seedAlias
	seedClassVar
	seedForwardRef
	seedNewType
	seedTypeAlias
	seedSpecialForm
	seedArgList
	seedEllipsis
)

func mix(hash, value uint64) uint64 {
	return (hash ^ value) * fnvPrime
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func hashSeq(seed uint64, exprs []Expr) uint64 {
	hash := mix(offsetBasis, seed)
	for _, e := range exprs {
		hash = mix(hash, e.Hash())
	}
	return hash
}

var emptySeqExpr iter.Seq[Expr] = func(func(Expr) bool) {}
