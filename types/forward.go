package types

import (
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/cottand/typex/parser"
	"github.com/cottand/typex/txerr"
	"github.com/cottand/typex/util"
	"github.com/pkg/errors"
)

// ForwardRef is a type expression written as source text, to be resolved later
// against a Namespace. Two references are equal when their source is
type ForwardRef struct {
	src  string
	node parser.Node

	mu       sync.Mutex
	resolved Expr
}

// ForwardRef parses src eagerly, so malformed text fails here with a txerr.SyntaxError
func (ctx *TypeCtx) ForwardRef(src string) (*ForwardRef, error) {
	node, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return &ForwardRef{src: src, node: node}, nil
}

func (f *ForwardRef) Source() string { return f.src }

// Resolved returns the result of the last successful resolution
func (f *ForwardRef) Resolved() (Expr, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved, f.resolved != nil
}

func (f *ForwardRef) setResolved(e Expr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved = e
}

func (f *ForwardRef) String() string { return "ForwardRef(" + strconv.Quote(f.src) + ")" }
func (f *ForwardRef) Hash() uint64   { return mix(mix(offsetBasis, seedForwardRef), hashString(f.src)) }

func (f *ForwardRef) equals(other Expr) bool {
	o, ok := other.(*ForwardRef)
	return ok && o.src == f.src
}

// the free parameters of a forward reference are unknown until it is resolved
func (f *ForwardRef) children() iter.Seq[Expr] { return emptySeqExpr }

// Namespace binds names for forward references. A name bound to a *ForwardRef
// is resolved in turn
type Namespace map[string]Expr

// Resolve evaluates ref: names are looked up in ns first, then in the catalog
func (ctx *TypeCtx) Resolve(ref *ForwardRef, ns Namespace) (Expr, error) {
	r := &resolver{
		Logger:  ctx.logger.With("section", "types.resolve"),
		TypeCtx: ctx,
		ns:      ns,
	}
	return r.resolveRef(ref)
}

// EvalType resolves every forward reference nested in e, rebuilding e with the results
func (ctx *TypeCtx) EvalType(e Expr, ns Namespace) (Expr, error) {
	r := &resolver{
		Logger:  ctx.logger.With("section", "types.resolve"),
		TypeCtx: ctx,
		ns:      ns,
	}
	return r.evalExpr(e)
}

type resolver struct {
	*slog.Logger
	*TypeCtx
	ns Namespace
	// inProgress are the sources of the references being resolved, outermost first
	inProgress util.Stack[string]
}

func (r *resolver) resolveRef(ref *ForwardRef) (res Expr, err error) {
	if slices.Contains(r.inProgress.Items(), ref.src) {
		chain := append(slices.Clone(r.inProgress.Items()), ref.src)
		return nil, txerr.New(txerr.CycleError{Chain: chain})
	}
	r.inProgress.Push(ref.src)
	defer r.inProgress.Pop()

	res, err = r.evalNode(ref.node)
	if err != nil {
		var cycleErr txerr.CycleError
		if errors.As(err, &cycleErr) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "resolving forward reference %q", ref.src)
	}
	ref.setResolved(res)
	r.Debug("resolved forward reference", "ref", ref, "result", res)
	return res, nil
}

func (r *resolver) evalExpr(e Expr) (Expr, error) {
	if ref, ok := e.(*ForwardRef); ok {
		return r.resolveRef(ref)
	}
	return r.mapChildren(e, r.evalExpr)
}

func (r *resolver) lookup(name *parser.Name) (Expr, error) {
	key := name.String()
	if bound, ok := r.ns[key]; ok {
		return r.evalExpr(bound)
	}
	if e, ok := r.Lookup(key); ok {
		return e, nil
	}
	return nil, txerr.Typef(txerr.UndefinedName, "name %q is not defined", key)
}

func (r *resolver) evalNode(node parser.Node) (Expr, error) {
	switch node := node.(type) {
	case *parser.Name:
		return r.lookup(node)
	case *parser.Str:
		nested, err := r.ForwardRef(node.Value)
		if err != nil {
			return nil, err
		}
		return r.resolveRef(nested)
	case *parser.Ellipsis:
		return Ellipsis, nil
	case *parser.List:
		elems, err := util.MapSlice(node.Elems, r.evalNode)
		if err != nil {
			return nil, err
		}
		return Args(elems...), nil
	case *parser.Index:
		base, err := r.evalNode(node.Base)
		if err != nil {
			return nil, err
		}
		argNodes := node.Args
		// Tuple[()] has no arguments
		if tuple, ok := argNodes[0].(*parser.Tuple); ok && len(argNodes) == 1 && len(tuple.Elems) == 0 {
			argNodes = nil
		}
		args, err := util.MapSlice(argNodes, r.evalNode)
		if err != nil {
			return nil, err
		}
		return r.Subscript(base, args...)
	case *parser.Tuple:
		return nil, txerr.Typef(txerr.InvalidTypeArgument, "tuple %s is not a type expression", node)
	default:
		return nil, txerr.Typef(txerr.InvalidTypeArgument, "unexpected syntax %s", node)
	}
}
