package pages

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/tierzero/internal/component"
	"github.com/yanizio/tierzero/internal/config"
	"github.com/yanizio/tierzero/internal/middleware"
	"github.com/yanizio/tierzero/internal/site"
	"github.com/yanizio/tierzero/internal/tenant"
	"github.com/yanizio/tierzero/internal/view"
)

type fakeSites map[string]string

func (f fakeSites) Get(domain string) (*site.Config, error) {
	raw, ok := f[domain]
	if !ok {
		return nil, tenant.ErrNotFound
	}
	cfg, err := site.Parse([]byte(raw))
	if err != nil {
		return nil, tenant.ErrNotFound
	}
	if cfg.Disabled {
		return nil, tenant.ErrDisabled
	}
	return cfg, nil
}

func (f fakeSites) List() ([]tenant.Summary, error) {
	return []tenant.Summary{{Name: "brewhaus.com.au", Template: "hero", Theme: "terminal", ColorMode: "dark"}}, nil
}

type hostMap map[string]string

func (h hostMap) Resolve(host string) string { return h[host] }

const hero = `{
  "domain": {"name": "brewhaus.com.au", "status": "coming_soon", "forSale": true},
  "seo": {"title": "Brewhaus | Craft Beer Directory", "description": "Find craft beer.", "keywords": ["beer", "brewery"]},
  "template": {"type": "hero", "theme": "basic", "colorMode": "light"},
  "features": {"enableAnalytics": true},
  "contentBoxes": {
    "headline": {"type": "headline", "position": "hero-headline", "content": {"title": "Brewhaus Directory", "subtitle": "Coming soon"}}
  }
}`

const landing = `{
  "domain": {"name": "quiet.com"},
  "template": {"type": "landing"},
  "contentBoxes": {
    "main": {"type": "headline", "position": "main", "content": {"title": "Quiet"}}
  }
}`

func newRouter(t *testing.T, sites fakeSites, hosts hostMap) http.Handler {
	t.Helper()
	c := &Component{}
	require.NoError(t, c.Init(component.Deps{
		Sites:     sites,
		Views:     view.New("", true),
		Analytics: config.Analytics{UmamiURL: "https://analytics.domain8.com.au", WebsiteID: "tier-0-portfolio"},
	}))
	r := chi.NewRouter()
	r.Use(middleware.Host(hosts))
	c.Routes(r)
	return r
}

func get(h http.Handler, host, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = host
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDomainByPath(t *testing.T) {
	h := newRouter(t, fakeSites{"brewhaus.com.au": hero}, hostMap{})

	rec := get(h, "render.example", "/brewhaus.com.au")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<title>Brewhaus | Craft Beer Directory</title>")
	assert.Contains(t, body, `content="beer, brewery"`)
	assert.Contains(t, body, "Brewhaus Directory")
	assert.Contains(t, body, `data-website-id="tier-0-portfolio"`)
	assert.Contains(t, body, `id="domain-inquiry"`)
	assert.Contains(t, body, `id="form-domain-inquiry"`)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestDomainByHost(t *testing.T) {
	h := newRouter(t, fakeSites{"quiet.com": landing}, hostMap{"www.quiet.com": "quiet.com"})

	rec := get(h, "www.quiet.com", "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Quiet")
	assert.NotContains(t, body, "data-website-id")
	assert.NotContains(t, body, `id="domain-inquiry"`)
}

func TestMissingAndDisabledAre404(t *testing.T) {
	h := newRouter(t, fakeSites{"off.com": `{"domain":{"name":"off.com"},"disabled":true}`}, hostMap{})

	for _, path := range []string{"/missing.com", "/off.com"} {
		rec := get(h, "render.example", path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "<title>Domain Not Found</title>", path)
		assert.Contains(t, rec.Body.String(), "The requested domain configuration was not found.", path)
	}
}

func TestRootWithoutDomainShowsIndex(t *testing.T) {
	h := newRouter(t, fakeSites{}, hostMap{})

	for _, path := range []string{"/", "/sites"} {
		rec := get(h, "localhost:8080", path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		body := rec.Body.String()
		assert.Contains(t, body, "brewhaus.com.au", path)
		assert.Contains(t, body, "terminal", path)
		assert.True(t, strings.Contains(body, `href="/brewhaus.com.au"`), path)
	}
}

func TestBuildHeadFallsBackToDomainBlock(t *testing.T) {
	cfg, err := site.Parse([]byte(`{"domain":{"name":"a.com","description":"About A","keywords":["a","b"]},"controls":{"analytics":false},"features":{"enableAnalytics":true}}`))
	require.NoError(t, err)

	h := buildHead(cfg, config.Analytics{UmamiURL: "https://u.example", WebsiteID: "w"})
	assert.Equal(t, "<title>a.com</title>", string(h.Title()))
	assert.Contains(t, string(h.SEO()), `content="About A"`)
	assert.Contains(t, string(h.SEO()), `content="a, b"`)
	assert.Empty(t, string(h.Scripts()))
}
