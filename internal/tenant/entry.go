// internal/tenant/entry.go
//
// Cache entry.
//
// Context
// -------
// The cache stores a pointer to the parsed config inside `entry`, along with
// a `lastSeen` UnixNano timestamp used by the evictor for idle and LRU
// eviction.  The config itself is never mutated after parse, so handing the
// same pointer to concurrent renders is safe.
package tenant

import (
	"sync/atomic"
	"time"

	"github.com/yanizio/tierzero/internal/site"
)

type entry struct {
	cfg      *site.Config
	lastSeen int64 // UnixNano
}

func (e *entry) touch() { atomic.StoreInt64(&e.lastSeen, time.Now().UnixNano()) }
