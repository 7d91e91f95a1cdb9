package component

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	name   string
	inited bool
}

func (s *stub) Name() string      { return s.name }
func (s *stub) Init(_ Deps) error { s.inited = true; return nil }
func (s *stub) Routes(r chi.Router) {
	r.Get("/"+s.name, func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(s.name)) })
}

func TestMountInitsAndRoutesInNameOrder(t *testing.T) {
	b, a := &stub{name: "zz-b"}, &stub{name: "zz-a"}
	Register(b)
	Register(a)
	t.Cleanup(func() {
		mu.Lock()
		delete(registry, "zz-a")
		delete(registry, "zz-b")
		mu.Unlock()
	})

	names := []string{}
	for _, c := range All() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"zz-a", "zz-b"})

	r := chi.NewRouter()
	require.NoError(t, Mount(r, Deps{}))
	assert.True(t, a.inited)
	assert.True(t, b.inited)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/zz-a", nil))
	assert.Equal(t, "zz-a", rec.Body.String())
}
