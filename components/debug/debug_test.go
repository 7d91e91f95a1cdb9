package debug

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/tierzero/internal/component"
	"github.com/yanizio/tierzero/internal/config"
	"github.com/yanizio/tierzero/internal/middleware"
	"github.com/yanizio/tierzero/internal/site"
	"github.com/yanizio/tierzero/internal/tenant"
)

type sites struct{}

func (sites) Get(string) (*site.Config, error) { return nil, tenant.ErrNotFound }
func (sites) List() ([]tenant.Summary, error)  { return nil, nil }
func (sites) Len() int                         { return 3 }
func (sites) Resolve(host string) string       { return tenant.HostKey(host) }

func router(t *testing.T, admin config.Admin) http.Handler {
	t.Helper()
	c := &Component{}
	require.NoError(t, c.Init(component.Deps{Sites: sites{}, Admin: admin}))
	r := chi.NewRouter()
	r.Use(middleware.Host(sites{}))
	c.Routes(r)
	return r
}

func TestDebugRequest(t *testing.T) {
	h := router(t, config.Admin{Username: "admin", Password: "pw"})

	req := httptest.NewRequest(http.MethodGet, "/debug/request?x=1", nil)
	req.Host = "www.example.com"
	req.SetBasicAuth("admin", "pw")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "example.com", out["domain"])
	assert.Equal(t, "x=1", out["query"])
	assert.EqualValues(t, 3, out["cached_configs"])
	assert.Contains(t, out, "info")
}

func TestDebugRequiresAuth(t *testing.T) {
	h := router(t, config.Admin{Username: "admin", Password: "pw"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/request", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDebugUnmountedWithoutPassword(t *testing.T) {
	h := router(t, config.Admin{Username: "admin"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/request", nil)
	req.SetBasicAuth("admin", "")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
