// internal/tenant/cache.go
//
// Domain config cache.
//
// Context
// -------
// Every page render needs the domain's parsed config.  Cache lazily reads
// `<dir>/<domain>.json`, stores the result in a sync.Map, and coalesces
// concurrent misses for the same domain through singleflight so a burst of
// traffic to a cold domain parses the file once.
//
// Entries leave the map three ways: the evictor drops idle entries and
// trims the least-recently-used ones beyond MaxEntries; the fsnotify
// watcher drops an entry whose file changed; and Invalidate drops one on
// request.
//
// In dev mode the map is bypassed entirely and every Get reads the file.
//
// Notes
// -----
//   - Returned configs are shared.  Callers must treat them as read-only.
//   - A load that overlaps a drop of the same key returns what it read but
//     does not cache it, so a watcher event is never undone by a slow read.
package tenant

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/tierzero/internal/metrics"
	"github.com/yanizio/tierzero/internal/site"
)

// Static defaults.  Override via config.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 500
	EvictInterval = 5 * time.Minute
)

// Options configures a Cache.
type Options struct {
	Dir            string
	DevMode        bool
	IdleTTL        time.Duration
	MaxEntries     int
	Watch          bool
	LocalhostAlias string
	EvictInterval  time.Duration
}

// Cache lazily loads domain configs and evicts them on idle TTL, LRU
// pressure, or file change.
type Cache struct {
	opts    Options
	sfg     singleflight.Group
	m       sync.Map // key → *entry
	gens    sync.Map // key → *atomic.Uint64, bumped by drop
	read    func(dir, key string) (*site.Config, error)
	watcher *fsnotify.Watcher

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New constructs a Cache, starts the background evictor, and, when
// opts.Watch is set, the file watcher.
func New(opts Options) (*Cache, error) {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = IdleTTL
	}
	if opts.MaxEntries < 0 {
		opts.MaxEntries = 0
	}
	if opts.EvictInterval <= 0 {
		opts.EvictInterval = EvictInterval
	}
	opts.LocalhostAlias = CleanDomain(opts.LocalhostAlias)

	c := &Cache{
		opts: opts,
		read: readConfig,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if opts.Watch && !opts.DevMode {
		if err := c.watch(); err != nil {
			return nil, err
		}
	}
	go c.evictLoop()

	zap.L().Info("config cache ready",
		zap.String("dir", opts.Dir),
		zap.Bool("dev_mode", opts.DevMode),
		zap.Bool("watch", c.watcher != nil),
		zap.Duration("idle_ttl", opts.IdleTTL),
		zap.Int("max_entries", opts.MaxEntries))
	return c, nil
}

// Get returns the config for domain, loading it on demand.  The domain is
// cleaned first, so "https://www.Example.com/x" finds example.com.json.
func (c *Cache) Get(domain string) (*site.Config, error) {
	key := CleanDomain(domain)

	if c.opts.DevMode {
		cfg, err := c.read(c.opts.Dir, key)
		return checkDisabled(cfg, err)
	}

	if v, ok := c.m.Load(key); ok {
		ent := v.(*entry)
		ent.touch()
		return checkDisabled(ent.cfg, nil)
	}

	v, err, _ := c.sfg.Do(key, func() (any, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.m.Load(key); ok {
			ent := v.(*entry)
			ent.touch()
			return ent.cfg, nil
		}
		v, _ := c.gens.LoadOrStore(key, new(atomic.Uint64))
		gen := v.(*atomic.Uint64)
		seen := gen.Load()

		cfg, err := c.read(c.opts.Dir, key)
		if err != nil {
			c.gens.CompareAndDelete(key, gen)
			return nil, err
		}
		if gen.Load() != seen {
			zap.L().Debug("config changed during load; not caching", zap.String("domain", key))
			return cfg, nil
		}
		ent := &entry{cfg: cfg, lastSeen: time.Now().UnixNano()}
		c.m.Store(key, ent)
		metrics.ActiveConfigs.Inc()
		return cfg, nil
	})
	if err != nil {
		return nil, err
	}
	return checkDisabled(v.(*site.Config), nil)
}

func checkDisabled(cfg *site.Config, err error) (*site.Config, error) {
	if err != nil {
		return nil, err
	}
	if cfg.Disabled {
		return nil, ErrDisabled
	}
	return cfg, nil
}

// Resolve maps a Host header to a domain key.  Local hosts map to the
// configured alias, or to "" when none is set.
func (c *Cache) Resolve(host string) string {
	key := HostKey(host)
	if IsLocal(key) {
		return c.opts.LocalhostAlias
	}
	return key
}

// Invalidate drops domain from the cache.  The next Get re-reads the file.
func (c *Cache) Invalidate(domain string) {
	if c.drop(CleanDomain(domain), "invalidate") {
		zap.L().Debug("config invalidated", zap.String("domain", domain))
	}
}

// Len reports the number of cached configs.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Close stops the evictor and watcher.  Safe to call more than once.
func (c *Cache) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)
		<-c.done
		if c.watcher != nil {
			err = c.watcher.Close()
		}
	})
	return err
}

// drop removes key and updates metrics.  It reports whether an entry
// existed.
func (c *Cache) drop(key, cause string) bool {
	if v, ok := c.gens.LoadAndDelete(key); ok {
		v.(*atomic.Uint64).Add(1)
	}
	if _, ok := c.m.LoadAndDelete(key); !ok {
		return false
	}
	metrics.ConfigEvictTotal.WithLabelValues(cause).Inc()
	metrics.ActiveConfigs.Dec()
	return true
}
