package types

import (
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
)

type aliasHasher struct{}

func (aliasHasher) Hash(key *GenericAlias) uint32 {
	return uint32(key.hash ^ key.hash>>32)
}

func (aliasHasher) Equal(a, b *GenericAlias) bool {
	return Equal(a, b)
}

// aliasCache interns generic aliases so that building the same alias twice
// returns the same allocation. Lookups do not block: they read a persistent map
// snapshot, and inserts publish a new snapshot
type aliasCache struct {
	disabled bool
	mu       sync.Mutex
	entries  atomic.Pointer[immutable.Map[*GenericAlias, *GenericAlias]]
}

func newAliasCache() *aliasCache {
	cache := &aliasCache{}
	cache.entries.Store(immutable.NewMap[*GenericAlias, *GenericAlias](aliasHasher{}))
	return cache
}

// intern returns the cached alias equal to alias, caching alias if there is none
func (c *aliasCache) intern(alias *GenericAlias) *GenericAlias {
	if c.disabled {
		return alias
	}
	if cached, ok := c.entries.Load().Get(alias); ok {
		return cached
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.entries.Load()
	// someone may have inserted it while we were waiting for the lock
	if cached, ok := entries.Get(alias); ok {
		return cached
	}
	c.entries.Store(entries.Set(alias, alias))
	return alias
}

func (c *aliasCache) len() int {
	return c.entries.Load().Len()
}
