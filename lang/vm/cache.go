package vm

import (
	"math/big"

	lru "github.com/hashicorp/golang-lru"
)

// CacheEntry is the (value, step-count) tuple spec.md §3 defines: the
// step-count lets a cache hit correctly advance the caller's cycle
// budget even though no instructions actually ran.
type CacheEntry struct {
	Value *big.Int
	Steps uint64
}

// cacheKey is the (program-id, input) pair. big.Int isn't comparable,
// so the input is keyed by its decimal text, per spec.md §9's note that
// "implementations must support hashing big integers".
type cacheKey struct {
	id    uint64
	input string
}

// Cache is the sized LRU of component I, keyed by (program-id, input).
// Grounded on the teacher's own hashicorp/golang-lru usage convention
// (consensus/pob/snapshot.go's `lru "github.com/hashicorp/golang-lru"`
// import alias), using the plain sized-LRU variant rather than ARC since
// spec.md only calls for LRU eviction.
type Cache struct {
	lru *lru.Cache
}

// NewCache returns a cache with the given entry capacity. A capacity of
// 0 uses spec.md §5's default of 3,000 entries.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = 3000
	}
	l, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

// Get looks up the cached (value, steps) for (id, input).
func (c *Cache) Get(id uint64, input *big.Int) (CacheEntry, bool) {
	v, ok := c.lru.Get(cacheKey{id: id, input: input.String()})
	if !ok {
		return CacheEntry{}, false
	}
	return v.(CacheEntry), true
}

// Put inserts (value, steps) for (id, input), evicting the least
// recently used entry if the cache is at capacity.
func (c *Cache) Put(id uint64, input, value *big.Int, steps uint64) {
	c.lru.Add(cacheKey{id: id, input: input.String()}, CacheEntry{
		Value: new(big.Int).Set(value),
		Steps: steps,
	})
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int { return c.lru.Len() }
