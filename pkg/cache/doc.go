// Package cache provides an optional Redis-backed cache for Canvas API
// GET responses.
//
// Canvas attaches ETags to list responses but no Expires header, so
// entries carry a fixed TTL and a cached ETag is replayed on the next
// request as If-None-Match. A 304 Not Modified answer serves the cached
// body without re-transferring the page.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient, 5*time.Minute)
//
//	entry, err := manager.Get(ctx, cache.KeyForURL(pageURL))
//	if err == cache.ErrMiss {
//		// fetch from the API
//	}
//
// The cache is a transfer optimization only: every sync run still
// revalidates cached pages, and a cold or absent cache changes nothing
// but latency. A nil *Manager disables caching.
package cache
