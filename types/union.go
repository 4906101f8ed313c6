package types

import (
	"iter"
	"log/slog"
	"slices"
	"sort"

	"github.com/cottand/typex/txerr"
	"github.com/cottand/typex/util"
	"github.com/hashicorp/go-set/v3"
	xset "github.com/xtgo/set"
)

// UnionType is a normalised union of two or more members.
// Members keep the order in which they first appeared, but equality and hashing ignore it
type UnionType struct {
	members []Expr
	hash    uint64
	// keys are the distinct member hashes, sorted
	keys hashes
}

// Members returns the members of the union in first occurrence order
func (u *UnionType) Members() []Expr { return slices.Clone(u.members) }

func (u *UnionType) String() string {
	return "typing.Union[" + util.JoinString(u.members, ", ") + "]"
}

func (u *UnionType) Hash() uint64 { return u.hash }

func (u *UnionType) equals(other Expr) bool {
	o, ok := other.(*UnionType)
	if !ok || len(o.members) != len(u.members) {
		return false
	}
	// equal member sets have equal hash sets
	both := append(slices.Clone(u.keys), o.keys...)
	if !xset.IsEqual(both, len(u.keys)) {
		return false
	}
	for _, member := range u.members {
		if !slices.ContainsFunc(o.members, func(e Expr) bool { return Equal(e, member) }) {
			return false
		}
	}
	return true
}

func (u *UnionType) children() iter.Seq[Expr] { return slices.Values(u.members) }

type hashes []uint64

func (h hashes) Len() int           { return len(h) }
func (h hashes) Less(i, j int) bool { return h[i] < h[j] }
func (h hashes) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

// newUnion computes the hash of members, which does not depend on their order
func newUnion(members []Expr) *UnionType {
	sorted := make(hashes, len(members))
	for i, m := range members {
		sorted[i] = m.Hash()
	}
	sort.Sort(sorted)
	hash := mix(offsetBasis, seedUnion)
	for _, h := range sorted {
		hash = mix(hash, h)
	}
	keys := slices.Clone(sorted)
	return &UnionType{members: members, hash: hash, keys: keys[:xset.Uniq(keys)]}
}

// Union builds the normalised union of operands:
// nested unions are flattened, duplicates are removed keeping the first occurrence,
// and any class that is a strict subclass of another member class is dropped.
// A union of a single surviving member is that member.
//
// nil operands stand for NoneType. An empty operand list is a txerr.ConfigurationError
func (ctx *TypeCtx) Union(operands ...Expr) (res Expr, err error) {
	if len(operands) == 0 {
		return nil, txerr.Configf(txerr.EmptyUnion, "Cannot take a Union of no types.")
	}
	normaliser := unionNormaliser{
		Logger:  ctx.logger.With("section", "types.union"),
		TypeCtx: ctx,
	}
	defer func() {
		if err == nil {
			normaliser.Debug("normalised union", "operands", operands, "result", res)
		}
	}()

	flat, err := normaliser.flatten(operands)
	if err != nil {
		return nil, err
	}
	members := normaliser.eliminateSubclasses(normaliser.dedupe(flat))
	if len(members) == 1 {
		return members[0], nil
	}
	return newUnion(members), nil
}

// Optional is Union[e, NoneType]
func (ctx *TypeCtx) Optional(e Expr) (Expr, error) {
	checked, err := ctx.checkTypeArg(e, "Optional[t] requires a single type.")
	if err != nil {
		return nil, err
	}
	return ctx.Union(checked, ctx.Builtins.NoneType)
}

type unionNormaliser struct {
	*slog.Logger
	*TypeCtx
}

func (n unionNormaliser) flatten(operands []Expr) ([]Expr, error) {
	flat := make([]Expr, 0, len(operands))
	for _, operand := range operands {
		checked, err := n.checkTypeArg(operand, "Union[arg, ...]: each arg must be a type.")
		if err != nil {
			return nil, err
		}
		if union, ok := checked.(*UnionType); ok {
			flat = append(flat, union.members...)
			continue
		}
		flat = append(flat, checked)
	}
	return flat, nil
}

func (n unionNormaliser) dedupe(members []Expr) []Expr {
	seen := set.NewHashSet[Expr, uint64](len(members))
	deduped := make([]Expr, 0, len(members))
	for _, m := range members {
		// hashes are only a first filter, confirm with Equal
		if seen.Contains(m) && slices.ContainsFunc(deduped, func(e Expr) bool { return Equal(e, m) }) {
			continue
		}
		seen.Insert(m)
		deduped = append(deduped, m)
	}
	return deduped
}

// eliminateSubclasses drops every bare class that is a strict subclass of another bare class
// member. Classes that are subclasses of each other, like list and List, both stay.
// Parameterised aliases, type variables and Any are never absorbed nor absorb others
func (n unionNormaliser) eliminateSubclasses(members []Expr) []Expr {
	var classes []*Class
	for _, m := range members {
		if cls, ok := m.(*Class); ok {
			classes = append(classes, cls)
		}
	}
	absorbed := set.New[Expr](0)
	for _, cls := range classes {
		for _, other := range classes {
			if other == cls || !n.isSubclass(cls, other) || n.isSubclass(other, cls) {
				continue
			}
			n.Debug("dropping redundant union member", "member", cls, "absorbed by", other)
			absorbed.Insert(cls)
			break
		}
	}
	return slices.DeleteFunc(members, func(e Expr) bool { return absorbed.Contains(e) })
}
