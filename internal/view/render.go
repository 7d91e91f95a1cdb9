// internal/view/render.go
//
// Page-level view engine: embedded layouts, per-domain overrides, and an
// LRU of parsed template sets.
//
// Public helpers
// --------------
//   - Render         – execute a named page template into w.
//   - RenderToString – same, returned as template.HTML (forms, e-mail).
//   - Invalidate     – drop a domain's parsed set after its files change.
//
// Lookup precedence (later parse wins):
//  1. Embedded defaults under templates/.
//  2. <OverrideDir>/<domain>/templates/*.html, when that directory exists.
//
// Every set is parsed with theme.FuncMap so overrides can use the same
// helpers as the defaults.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/cache"
	"github.com/yanizio/tierzero/internal/theme"
)

//go:embed templates/*.html
var defaultFS embed.FS

// defaultKey caches the set used by domains without overrides.
const defaultKey = ""

// Engine renders page templates.  The zero value is not usable; call New.
type Engine struct {
	overrideDir string
	skipCache   bool
	sets        *cache.LRU[string, *template.Template]
}

// New returns an Engine.  overrideDir may be empty to disable per-domain
// overrides.  With skipCache every render re-parses, which dev mode wants.
func New(overrideDir string, skipCache bool) *Engine {
	return &Engine{
		overrideDir: overrideDir,
		skipCache:   skipCache,
		sets:        cache.New[string, *template.Template](256),
	}
}

// Render executes the template `name` for domain into w.
func (e *Engine) Render(w io.Writer, domain, name string, data any) error {
	t, err := e.load(domain)
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(w, name, data)
}

// RenderToString mirrors Render but returns the markup.
func (e *Engine) RenderToString(domain, name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := e.Render(&buf, domain, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Invalidate forgets the parsed set for domain.
func (e *Engine) Invalidate(domain string) { e.sets.Remove(e.key(domain)) }

//
// internal: load
//

func (e *Engine) overridePattern(domain string) string {
	if e.overrideDir == "" || domain == "" {
		return ""
	}
	dir := filepath.Join(e.overrideDir, domain, "templates")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return filepath.Join(dir, "*.html")
}

// key collapses every domain without overrides onto one cache slot.
func (e *Engine) key(domain string) string {
	if e.overridePattern(domain) == "" {
		return defaultKey
	}
	return domain
}

func (e *Engine) load(domain string) (*template.Template, error) {
	pattern := e.overridePattern(domain)
	key := defaultKey
	if pattern != "" {
		key = domain
	}

	if !e.skipCache {
		if t, ok := e.sets.Get(key); ok {
			return t, nil
		}
	}

	t, err := template.New("").Funcs(theme.FuncMap()).ParseFS(defaultFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if pattern != "" {
		if t, err = t.ParseGlob(pattern); err != nil {
			zap.S().Warnw("template override rejected", "domain", domain, "err", err)
			return nil, err
		}
	}

	if !e.skipCache {
		e.sets.Add(key, t)
	}
	return t, nil
}
