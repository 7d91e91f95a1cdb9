// components/debug/debug.go
//
// Debug component: echoes what the server knows about a request.
//
// GET /debug/request returns the domain key the Host middleware resolved,
// the request id, the parsed request info (IP, user agent, geo), and how
// many configs the cache holds.  It shares the admin credentials and is not
// mounted without them.
package debug

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yanizio/tierzero/internal/component"
	"github.com/yanizio/tierzero/internal/config"
	"github.com/yanizio/tierzero/internal/middleware"
	"github.com/yanizio/tierzero/internal/requestinfo"
)

type Component struct {
	sites component.Sites
	admin config.Admin
}

func (c *Component) Name() string { return "debug" }

func (c *Component) Init(d component.Deps) error {
	c.sites, c.admin = d.Sites, d.Admin
	return nil
}

func (c *Component) Routes(r chi.Router) {
	if c.admin.Username == "" || c.admin.Password == "" {
		return
	}
	r.With(chimw.BasicAuth("tierzero admin", map[string]string{c.admin.Username: c.admin.Password})).
		Get("/debug/request", c.handler)
}

func init() { component.Register(&Component{}) }

// counter is satisfied by the tenant cache.
type counter interface{ Len() int }

func (c *Component) handler(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"host":       r.Host,
		"domain":     middleware.DomainFrom(r.Context()),
		"request_id": chimw.GetReqID(r.Context()),
		"path":       r.URL.Path,
		"query":      r.URL.RawQuery,
		"info":       requestinfo.Of(r),
	}
	if n, ok := c.sites.(counter); ok {
		out["cached_configs"] = n.Len()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
