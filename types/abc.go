package types

import (
	"slices"
	"sync"

	"github.com/benbjohnson/immutable"
	"github.com/cottand/typex/txerr"
	"github.com/hashicorp/go-set/v3"
)

// Verdict is the answer of a SubclassHook
type Verdict int8

const (
	// Undecided defers to the regular membership rules
	Undecided Verdict = iota
	Admit
	Reject
)

func (v Verdict) String() string {
	switch v {
	case Admit:
		return "admit"
	case Reject:
		return "reject"
	default:
		return "undecided"
	}
}

// SubclassHook decides structurally whether candidate is a subclass of target.
// Hooks are inherited, so target may be a subclass of the class that declared the hook
type SubclassHook func(target, candidate *Class) Verdict

// abcTables records what ABC membership needs beyond the MRO: explicit registrations
// and the direct subclasses of every class. Readers work on persistent snapshots
type abcTables struct {
	mu         sync.RWMutex
	registered *immutable.Map[uint64, *immutable.List[*Class]]
	subclasses *immutable.Map[uint64, *immutable.List[*Class]]
}

func newABCTables() *abcTables {
	return &abcTables{
		registered: immutable.NewMap[uint64, *immutable.List[*Class]](immutable.NewHasher(uint64(0))),
		subclasses: immutable.NewMap[uint64, *immutable.List[*Class]](immutable.NewHasher(uint64(0))),
	}
}

func appendTo(m *immutable.Map[uint64, *immutable.List[*Class]], key *Class, cls *Class) *immutable.Map[uint64, *immutable.List[*Class]] {
	list, ok := m.Get(key.id)
	if !ok {
		list = immutable.NewList[*Class]()
	}
	return m.Set(key.id, list.Append(cls))
}

func (t *abcTables) addSubclass(base, cls *Class) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subclasses = appendTo(t.subclasses, base, cls)
}

func (t *abcTables) addRegistration(abc, cls *Class) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.registered = appendTo(t.registered, abc, cls)
}

func listOf(m *immutable.Map[uint64, *immutable.List[*Class]], key *Class) []*Class {
	list, ok := m.Get(key.id)
	if !ok {
		return nil
	}
	classes := make([]*Class, 0, list.Len())
	itr := list.Iterator()
	for !itr.Done() {
		_, cls := itr.Next()
		classes = append(classes, cls)
	}
	return classes
}

func (t *abcTables) registrationsOf(abc *Class) []*Class {
	t.mu.RLock()
	registered := t.registered
	t.mu.RUnlock()
	return listOf(registered, abc)
}

func (t *abcTables) subclassesOf(base *Class) []*Class {
	t.mu.RLock()
	subclasses := t.subclasses
	t.mu.RUnlock()
	return listOf(subclasses, base)
}

// Register declares cls a virtual subclass of the ABC target, without cls inheriting from it
func (ctx *TypeCtx) Register(target Expr, cls *Class) error {
	abc, ok := target.(*Class)
	if !ok || !abc.IsABC() {
		return txerr.Typef(txerr.NotAClass, "Can only register classes on ABCs, got %s", target)
	}
	if ctx.isSubclass(cls, abc) {
		return nil
	}
	if ctx.isSubclass(abc, cls) {
		return txerr.Typef(txerr.InconsistentMRO, "Refusing to create an inheritance cycle: %s is already a subclass of %s", abc, cls)
	}
	ctx.abcs.addRegistration(abc, cls)
	ctx.logger.Debug("registered virtual subclass", "abc", abc, "class", cls)
	return nil
}

// isSubclass is the membership relation without usage checks
func (ctx *TypeCtx) isSubclass(cls, target *Class) bool {
	return subclassChecker{TypeCtx: ctx, inProgress: set.New[classPair](4)}.check(cls, target)
}

type classPair struct{ cls, target *Class }

type subclassChecker struct {
	*TypeCtx
	// inProgress guards against registrations that loop back on themselves
	inProgress *set.Set[classPair]
}

func (s subclassChecker) check(cls, target *Class) bool {
	if cls == target {
		return true
	}
	if !target.IsABC() {
		return cls.inMRO(target)
	}
	pair := classPair{cls, target}
	if !s.inProgress.Insert(pair) {
		return false
	}
	defer s.inProgress.Remove(pair)
	return s.checkABC(cls, target, false)
}

// checkABC runs the ABC membership algorithm: the subclass hook, then the MRO, then
// registrations, then the subclasses of target.
// skipGeneric leaves out generic subclasses, which is how a catalog category asks its
// extra without being asked back
func (s subclassChecker) checkABC(cls, target *Class, skipGeneric bool) bool {
	if hook := target.findHook(); hook != nil {
		switch hook(target, cls) {
		case Admit:
			return true
		case Reject:
			return false
		}
	}
	if cls.inMRO(target) {
		return true
	}
	for _, registered := range s.abcs.registrationsOf(target) {
		if s.check(cls, registered) {
			return true
		}
	}
	for _, sub := range s.abcs.subclassesOf(target) {
		if skipGeneric && sub.isTypingGeneric(s.TypeCtx) {
			continue
		}
		if s.check(cls, sub) {
			return true
		}
	}
	return false
}

// isTypingGeneric reports whether c derives from Generic or from a catalog category
func (c *Class) isTypingGeneric(ctx *TypeCtx) bool {
	return slices.ContainsFunc(c.mro, func(ancestor *Class) bool {
		return ancestor == ctx.Typing.Generic || ancestor.extra != nil
	})
}

// methodsHook admits candidates of owner that define every one of methods.
// It is undecided for subclasses of owner, which inherit it
func methodsHook(owner *Class, methods ...string) SubclassHook {
	return func(target, candidate *Class) Verdict {
		if target != owner {
			return Undecided
		}
		if candidate.hasAttrs(methods...) {
			return Admit
		}
		return Undecided
	}
}

// protocolHook is the structural check of a catalog protocol: all methods present admits,
// anything missing rejects
func protocolHook(owner *Class, methods ...string) SubclassHook {
	return func(target, candidate *Class) Verdict {
		if target != owner {
			return Undecided
		}
		if candidate.hasAttrs(methods...) {
			return Admit
		}
		return Reject
	}
}

// extraHook makes a catalog category answer like the runtime class it stands for
func (ctx *TypeCtx) extraHook(owner *Class) SubclassHook {
	return func(target, candidate *Class) Verdict {
		if target != owner {
			return Undecided
		}
		extra := target.extra
		if !extra.IsABC() {
			if ctx.isSubclass(candidate, extra) {
				return Admit
			}
			return Undecided
		}
		checker := subclassChecker{TypeCtx: ctx, inProgress: set.New[classPair](4)}
		if candidate == extra || checker.checkABC(candidate, extra, true) {
			return Admit
		}
		return Undecided
	}
}
