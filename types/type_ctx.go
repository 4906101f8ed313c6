package types

import (
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/cottand/typex/internal/log"
)

// Fresher hands out the identities of classes, type variables and NewType tokens.
// It is safe for concurrent use
type Fresher struct {
	freshCount atomic.Uint64
}

func NewFresher() *Fresher {
	return &Fresher{}
}

func (f *Fresher) next() uint64 {
	return f.freshCount.Add(1)
}

// TypeCtx owns the state of one universe of types: the builtin and typing catalogs,
// the ABC registrations and the generic alias cache.
//
// Every construction and query goes through a TypeCtx. It is safe for concurrent use
type TypeCtx struct {
	*Fresher
	logger  *slog.Logger
	aliases *aliasCache
	abcs    *abcTables
	// names are what forward references resolve against when the namespace has no binding
	names map[string]Expr

	Builtins Builtins
	ABC      HostABCs
	Typing   Typing
}

type Option func(*TypeCtx)

// WithLogger logs through l rather than through the package default
func WithLogger(l *slog.Logger) Option {
	return func(ctx *TypeCtx) {
		ctx.logger = newExprLogger(l.Handler()).With("section", "types")
	}
}

// WithoutAliasCache disables interning of generic aliases.
// Equality is unaffected, only identity of equal aliases is
func WithoutAliasCache() Option {
	return func(ctx *TypeCtx) {
		ctx.aliases.disabled = true
	}
}

// NewTypeCtx builds a context with the builtin classes, the host ABCs
// and the typing catalog already declared
func NewTypeCtx(opts ...Option) *TypeCtx {
	ctx := &TypeCtx{
		Fresher: NewFresher(),
		logger:  newExprLogger(log.DefaultLogger.Handler()).With("section", "types"),
		aliases: newAliasCache(),
		abcs:    newABCTables(),
		names:   make(map[string]Expr),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	ctx.declareBuiltins()
	ctx.declareHostABCs()
	ctx.declareTyping()
	ctx.logger.Debug("type context ready", "names", len(ctx.names))
	return ctx
}

// Lookup finds a catalog name, like int, List or typing.List.
// Host ABCs are found with a collections.abc. prefix
func (ctx *TypeCtx) Lookup(name string) (Expr, bool) {
	if e, ok := ctx.names[name]; ok {
		return e, true
	}
	if rest, ok := strings.CutPrefix(name, "typing."); ok {
		e, ok := ctx.names[rest]
		return e, ok
	}
	if rest, ok := strings.CutPrefix(name, "builtins."); ok {
		e, ok := ctx.names[rest]
		return e, ok
	}
	return nil, false
}

func (ctx *TypeCtx) bind(name string, e Expr) {
	ctx.names[name] = e
}
