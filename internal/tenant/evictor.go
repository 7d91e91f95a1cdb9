// evictor.go houses the eviction loop for Cache.  Every EvictInterval it
// scans the map and removes:
//
//   - configs idle longer than IdleTTL
//   - least-recently-used configs when map size exceeds MaxEntries
//
// Each eviction event is logged and updates Prometheus counters.
package tenant

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

func (c *Cache) evictLoop() {
	defer close(c.done)
	t := time.NewTicker(c.opts.EvictInterval)
	defer t.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-t.C:
			c.evictOnce(time.Now().UnixNano())
		}
	}
}

// evictOnce runs one idle pass and one LRU pass against the clock now.
func (c *Cache) evictOnce(now int64) {
	var count int

	// ----------------------------------------------------------------
	// Idle eviction pass
	// ----------------------------------------------------------------
	c.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
		if idle > c.opts.IdleTTL {
			if c.drop(key.(string), "idle") {
				zap.S().Infow("config evicted", "domain", key, "idle", idle.Truncate(time.Second))
			}
			return true
		}
		count++
		return true
	})

	// ----------------------------------------------------------------
	// LRU eviction pass
	// ----------------------------------------------------------------
	if c.opts.MaxEntries == 0 || count <= c.opts.MaxEntries {
		return
	}
	type kv struct {
		key string
		at  int64
	}
	all := make([]kv, 0, count)
	c.m.Range(func(key, value any) bool {
		all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&value.(*entry).lastSeen)})
		return true
	})
	sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
	for i := 0; i < len(all)-c.opts.MaxEntries; i++ {
		if c.drop(all[i].key, "lru") {
			zap.S().Infow("config evicted (LRU pressure)", "domain", all[i].key)
		}
	}
}
