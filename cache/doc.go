// Package cache keeps tessellated buckets of recently used tiles.
//
// BucketCache is a sharded LRU keyed by tile. Each shard has its own lock
// and its own capacity, so tiles parsed by different workers rarely
// contend. A bucket that leaves the cache through eviction, Delete or
// Clear is destroyed, releasing its GPU buffers; callers must not keep
// using a bucket after removing it.
//
// Basic usage:
//
//	c := cache.New(64)
//	b := c.GetOrCreate(tile, func() *linemesh.Bucket {
//	    return buildBucket(tile)
//	})
package cache
