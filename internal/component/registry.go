// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web calls Mount once at
// start-up: every component receives the shared Deps through Init, then
// adds its routes to the root router.

package component

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/tierzero/internal/config"
	"github.com/yanizio/tierzero/internal/lead"
	"github.com/yanizio/tierzero/internal/site"
	"github.com/yanizio/tierzero/internal/tenant"
)

// Sites is the read side of the domain config cache.
type Sites interface {
	Get(domain string) (*site.Config, error)
	List() ([]tenant.Summary, error)
}

// Leads is the lead store as the HTTP layer sees it.
type Leads interface {
	Create(ctx context.Context, l *lead.Lead) (string, error)
	Get(ctx context.Context, id string) (*lead.Lead, error)
	List(ctx context.Context, f lead.Filter) ([]lead.Lead, error)
	UpdateStatus(ctx context.Context, id string, st lead.Status, notes, by string) error
	Interactions(ctx context.Context, leadID string) ([]lead.Interaction, error)
}

// Views executes named page templates for a domain.
type Views interface {
	Render(w io.Writer, domain, name string, data any) error
}

// Deps are the process-wide resources handed to every component.
type Deps struct {
	Sites     Sites
	Leads     Leads
	Views     Views
	Analytics config.Analytics
	Admin     config.Admin
}

// Component contract.
//
// Routes() adds BOTH page and API endpoints to the shared router, e.g:
//
//	r.Get("/", c.handleRoot)
//	r.Route("/api", func(api chi.Router) { ... })
type Component interface {
	Name() string
	Init(Deps) error
	Routes(r chi.Router)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount initialises every registered component with deps and adds its
// routes to r.
func Mount(r chi.Router, deps Deps) error {
	for _, c := range All() {
		if err := c.Init(deps); err != nil {
			return err
		}
		c.Routes(r)
	}
	return nil
}
