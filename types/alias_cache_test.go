package types

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasCacheConcurrent(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing
	args := []Expr{b.Int, b.Str, b.Float, b.Bytes}

	const workers = 16
	results := make([][]Expr, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, arg := range args {
				res, err := ctx.Subscript(typing.List, arg)
				assert.NoError(t, err)
				results[w] = append(results[w], res)
			}
		}()
	}
	wg.Wait()

	for _, res := range results {
		require.Len(t, res, len(args))
		for i := range args {
			assert.Same(t, results[0][i], res[i])
		}
	}
}

func TestAliasCacheHashCollisions(t *testing.T) {
	ctx := NewTypeCtx()
	b, typing := ctx.Builtins, ctx.Typing

	// equal hashes but different aliases still intern apart
	cache := newAliasCache()
	first := &GenericAlias{origin: typing.List, args: []Expr{b.Int}, hash: 7}
	second := &GenericAlias{origin: typing.List, args: []Expr{b.Str}, hash: 7}
	assert.Same(t, first, cache.intern(first))
	assert.Same(t, second, cache.intern(second))
	assert.Same(t, first, cache.intern(&GenericAlias{origin: typing.List, args: []Expr{b.Int}, hash: 7}))
	assert.Equal(t, 2, cache.len())
}
