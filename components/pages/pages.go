// components/pages/pages.go
//
// Pages component: renders one domain's landing page.
//
// Context
// -------
// Two routes reach the same renderer.  `GET /` takes the domain key the
// Host middleware stored in the request context; `GET /{domain}` takes it
// from the path so a single deployment can preview any config.  A local
// host without an alias has no key, and `/` then shows the domain index,
// which is also served at `/sites`.
//
// Workflow
// --------
//  1. Sites.Get(domain) → *site.Config (404 page when absent or disabled).
//  2. compose.Assemble runs control resolution, box dispatch, and layout.
//  3. buildHead fills the <head> from SEO, the brand block, and analytics.
//  4. The layout template ("hero" or "landing") is executed into a buffer
//     so a template error becomes a clean 500.
package pages

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/component"
	"github.com/yanizio/tierzero/internal/compose"
	"github.com/yanizio/tierzero/internal/config"
	"github.com/yanizio/tierzero/internal/controls"
	"github.com/yanizio/tierzero/internal/form"
	"github.com/yanizio/tierzero/internal/head"
	"github.com/yanizio/tierzero/internal/logger"
	"github.com/yanizio/tierzero/internal/metrics"
	"github.com/yanizio/tierzero/internal/middleware"
	"github.com/yanizio/tierzero/internal/site"
	"github.com/yanizio/tierzero/internal/tenant"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves domain pages and the domain index.
type Component struct {
	sites     component.Sites
	views     component.Views
	analytics config.Analytics
}

// Page is the data every layout template receives.
type Page struct {
	Head       *head.Builder
	BrandStyle template.CSS
	Page       compose.Page
}

// Index is the data for the domain listing.
type Index struct {
	Head       *head.Builder
	BrandStyle template.CSS
	Sites      []tenant.Summary
}

// NotFound is the data for the 404 page.
type NotFound struct {
	Head       *head.Builder
	BrandStyle template.CSS
	Domain     string
}

/*────────────────── component.Component methods ───────────────────────────*/

func (c *Component) Name() string { return "pages" }

func (c *Component) Init(d component.Deps) error {
	c.sites, c.views, c.analytics = d.Sites, d.Views, d.Analytics
	return nil
}

func (c *Component) Routes(r chi.Router) {
	r.Get("/", c.handleRoot)
	r.Get("/sites", c.handleIndex)
	r.Get("/{domain}", c.handleDomain)
}

func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleRoot(w http.ResponseWriter, r *http.Request) {
	domain := middleware.DomainFrom(r.Context())
	if domain == "" {
		c.handleIndex(w, r)
		return
	}
	c.renderDomain(w, r, domain)
}

func (c *Component) handleDomain(w http.ResponseWriter, r *http.Request) {
	c.renderDomain(w, r, tenant.CleanDomain(chi.URLParam(r, "domain")))
}

func (c *Component) handleIndex(w http.ResponseWriter, r *http.Request) {
	list, err := c.sites.List()
	if err != nil {
		logger.FromContext(r.Context()).Error("list domain configs", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h := head.New()
	h.SetTitle("Tier-0 Portfolio")
	h.Meta(`<meta name="robots" content="noindex">`)
	c.write(w, r, http.StatusOK, "", "index", Index{Head: h, Sites: list})
}

// renderDomain is shared by / and /{domain}.
func (c *Component) renderDomain(w http.ResponseWriter, r *http.Request, domain string) {
	cfg, err := c.sites.Get(domain)
	switch {
	case errors.Is(err, tenant.ErrNotFound), errors.Is(err, tenant.ErrDisabled):
		c.notFound(w, r, domain)
		return
	case err != nil:
		logger.FromContext(r.Context()).Error("load domain config", zap.String("domain", domain), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := compose.Assemble(cfg, form.For(cfg))
	data := Page{
		Head:       buildHead(cfg, c.analytics),
		BrandStyle: page.BrandStyle,
		Page:       page,
	}
	if c.write(w, r, http.StatusOK, domain, page.Layout, data) {
		metrics.PageRenderTotal.WithLabelValues(page.Layout).Inc()
	}
}

func (c *Component) notFound(w http.ResponseWriter, r *http.Request, domain string) {
	h := head.New()
	h.SetTitle("Domain Not Found")
	h.SetDescription("The requested domain configuration was not found.")
	h.Meta(`<meta name="robots" content="noindex">`)
	c.write(w, r, http.StatusNotFound, "", "notfound", NotFound{Head: h, Domain: domain})
}

// write renders into a buffer first so a failed template never leaves a
// half-written page.  It reports whether the page was sent.
func (c *Component) write(w http.ResponseWriter, r *http.Request, status int, domain, name string, data any) bool {
	var buf bytes.Buffer
	if err := c.views.Render(&buf, domain, name, data); err != nil {
		logger.FromContext(r.Context()).Error("render page",
			zap.String("template", name), zap.String("domain", domain), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return true
}

/*──────────────────────────── <head> ───────────────────────────────────────*/

// buildHead fills title, description, and keywords from the SEO block,
// falling back to the domain block, then adds JSON-LD and, when analytics
// are enabled for the domain, the Umami loader.
func buildHead(cfg *site.Config, a config.Analytics) *head.Builder {
	h := head.New()

	title := firstNonEmpty(cfg.SEO.Title, cfg.Domain.Name)
	desc := firstNonEmpty(cfg.SEO.Description, cfg.Domain.Description)
	kw := cfg.SEO.Keywords
	if len(kw) == 0 {
		kw = cfg.Domain.Keywords
	}

	h.SetTitle(title)
	h.SetDescription(desc)
	h.SetKeywords(kw)
	h.Link(`<link rel="canonical" href="https://` + template.HTMLEscapeString(cfg.Domain.Name) + `/">`)
	h.WebsiteLD(cfg.Domain.Name, desc)

	if controls.AnalyticsEnabled(cfg) && a.UmamiURL != "" && a.WebsiteID != "" {
		h.Umami(a.UmamiURL, a.WebsiteID, cfg.Domain.Name)
	}
	return h
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
