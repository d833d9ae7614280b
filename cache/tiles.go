package cache

import (
	"encoding/binary"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb/maptile"

	"github.com/gogpu/linemesh"
)

const (
	// ShardCount is the number of shards. It is a power of two so the
	// shard index is a mask of the hash.
	ShardCount = 16

	// DefaultCapacity is the per-shard capacity used when New is given
	// a non-positive one.
	DefaultCapacity = 32

	shardMask = ShardCount - 1
)

// Stats reports cache usage.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// TileHash hashes the tile coordinates with FNV-1a.
func TileHash(t maptile.Tile) uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:], t.X)
	binary.LittleEndian.PutUint32(buf[4:], t.Y)
	binary.LittleEndian.PutUint32(buf[8:], uint32(t.Z))
	h := fnv.New64a()
	_, _ = h.Write(buf[:]) // never fails
	return h.Sum64()
}

// BucketCache is a sharded LRU cache of buckets keyed by tile.
//
// Thread safety: BucketCache is safe for concurrent use. The buckets it
// returns are not; see linemesh.Bucket.
type BucketCache struct {
	shards   [ShardCount]*shard
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard struct {
	mu      sync.Mutex
	entries map[maptile.Tile]*entry
	lru     lruList[maptile.Tile]
}

type entry struct {
	bucket *linemesh.Bucket
	node   *lruNode[maptile.Tile]
}

// New creates a cache holding up to capacity buckets per shard.
// If capacity <= 0, DefaultCapacity is used.
func New(capacity int) *BucketCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &BucketCache{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &shard{entries: make(map[maptile.Tile]*entry)}
	}
	return c
}

func (c *BucketCache) shardFor(tile maptile.Tile) *shard {
	return c.shards[TileHash(tile)&shardMask]
}

// Get returns the bucket of tile and marks it as recently used.
func (c *BucketCache) Get(tile maptile.Tile) (*linemesh.Bucket, bool) {
	s := c.shardFor(tile)
	s.mu.Lock()
	e, ok := s.entries[tile]
	if ok {
		s.lru.MoveToFront(e.node)
	}
	s.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e.bucket, true
}

// Set stores the bucket of tile. A bucket previously stored for the same
// tile is destroyed, as are buckets evicted to make room.
func (c *BucketCache) Set(tile maptile.Tile, b *linemesh.Bucket) {
	if b == nil {
		return
	}
	s := c.shardFor(tile)
	s.mu.Lock()
	var dropped []*linemesh.Bucket
	if e, ok := s.entries[tile]; ok {
		if e.bucket != b {
			dropped = append(dropped, e.bucket)
		}
		e.bucket = b
		s.lru.MoveToFront(e.node)
	} else {
		dropped = c.insert(s, tile, b)
	}
	s.mu.Unlock()

	destroy(dropped)
}

// GetOrCreate returns the cached bucket of tile, or builds one with create
// and caches it. create runs under the shard lock, so concurrent callers
// for the same tile build it once. A nil bucket from create is returned
// but not cached.
func (c *BucketCache) GetOrCreate(tile maptile.Tile, create func() *linemesh.Bucket) *linemesh.Bucket {
	s := c.shardFor(tile)
	s.mu.Lock()
	if e, ok := s.entries[tile]; ok {
		s.lru.MoveToFront(e.node)
		s.mu.Unlock()
		c.hits.Add(1)
		return e.bucket
	}
	c.misses.Add(1)

	b := create()
	var dropped []*linemesh.Bucket
	if b != nil {
		dropped = c.insert(s, tile, b)
	}
	s.mu.Unlock()

	destroy(dropped)
	return b
}

// insert adds a new entry and returns the buckets evicted for it.
// The shard lock must be held.
func (c *BucketCache) insert(s *shard, tile maptile.Tile, b *linemesh.Bucket) []*linemesh.Bucket {
	var evicted []*linemesh.Bucket
	for s.lru.Len() >= c.capacity {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		evicted = append(evicted, s.entries[oldest].bucket)
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}
	s.entries[tile] = &entry{bucket: b, node: s.lru.PushFront(tile)}
	return evicted
}

// Delete removes and destroys the bucket of tile. It reports whether the
// tile was cached.
func (c *BucketCache) Delete(tile maptile.Tile) bool {
	s := c.shardFor(tile)
	s.mu.Lock()
	e, ok := s.entries[tile]
	if ok {
		s.lru.Remove(e.node)
		delete(s.entries, tile)
	}
	s.mu.Unlock()

	if ok {
		e.bucket.Destroy()
	}
	return ok
}

// Clear removes and destroys every bucket.
func (c *BucketCache) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		dropped := make([]*linemesh.Bucket, 0, len(s.entries))
		for _, e := range s.entries {
			dropped = append(dropped, e.bucket)
		}
		s.entries = make(map[maptile.Tile]*entry)
		s.lru.Clear()
		s.mu.Unlock()

		destroy(dropped)
	}
}

// Len returns the number of cached buckets.
func (c *BucketCache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Capacity returns the per-shard capacity.
func (c *BucketCache) Capacity() int {
	return c.capacity
}

// Stats returns the current counters.
func (c *BucketCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Len:       c.Len(),
		Capacity:  c.capacity * ShardCount,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   rate,
	}
}

// ResetStats zeroes the hit, miss and eviction counters.
func (c *BucketCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

func destroy(buckets []*linemesh.Bucket) {
	for _, b := range buckets {
		b.Destroy()
	}
}
