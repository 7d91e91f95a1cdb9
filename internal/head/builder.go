// internal/head/builder.go
//
// The Builder collects everything that belongs inside a page's <head>.  It
// is scoped to one render.  The page handler fills it from the domain's
// SEO block, the brand stylesheet, and the analytics gate; the layout
// templates then emit each slice in a fixed order.
//
// Features
// --------
//   - SetTitle, SetDescription, SetKeywords – single-value SEO fields.
//   - Meta, Link, Script                     – raw tags, deduplicated.
//   - Umami                                  – the analytics loader.
//   - WebsiteLD                              – schema.org WebSite JSON-LD.
//
// Notes
// -----
//   - Raw tags passed to Meta, Link, and Script must already be escaped.
//     The typed helpers escape their own input.
package head

import (
	"encoding/json"
	"html/template"
	"strings"
	"sync"
)

// Builder is used from one goroutine per request; the mutex only guards
// against templates that render partials concurrently.
type Builder struct {
	mu sync.Mutex

	title       string
	description string
	keywords    []string

	metas   []string
	links   []string
	scripts []string
	jsonLD  []string

	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

/*──────────────────────────── SEO fields ─────────────────────────────────*/

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

func (b *Builder) SetDescription(d string) {
	b.mu.Lock()
	b.description = d
	b.mu.Unlock()
}

// SetKeywords stores keywords; they are emitted joined with ", ".
func (b *Builder) SetKeywords(kw []string) {
	b.mu.Lock()
	b.keywords = append(b.keywords[:0], kw...)
	b.mu.Unlock()
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(b.title) + "</title>")
}

// SEO returns the description and keywords meta tags.
func (b *Builder) SEO() template.HTML {
	var sb strings.Builder
	if b.description != "" {
		sb.WriteString(`<meta name="description" content="` + template.HTMLEscapeString(b.description) + `">`)
	}
	if len(b.keywords) > 0 {
		sb.WriteString(`<meta name="keywords" content="` + template.HTMLEscapeString(strings.Join(b.keywords, ", ")) + `">`)
	}
	return template.HTML(sb.String())
}

/*──────────────────────── raw tags with dedup ────────────────────────────*/

func (b *Builder) Meta(tag string)   { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string)   { b.add("link:"+tag, &b.links, tag) }
func (b *Builder) Script(tag string) { b.add("script:"+tag, &b.scripts, tag) }

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// Umami adds the analytics loader.  baseURL is the Umami host without the
// trailing /script.js.  A second call with the same website id is ignored.
func (b *Builder) Umami(baseURL, websiteID, domain string) {
	src := strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/script.js"
	tag := `<script async defer src="` + template.HTMLEscapeString(src) +
		`" data-website-id="` + template.HTMLEscapeString(strings.TrimSpace(websiteID)) +
		`" data-domain="` + template.HTMLEscapeString(domain) + `"></script>`
	b.add("umami:"+websiteID, &b.scripts, tag)
}

// WebsiteLD adds a schema.org WebSite block for the domain.
func (b *Builder) WebsiteLD(name, description string) {
	js, err := json.Marshal(map[string]string{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        name,
		"url":         "https://" + name,
		"description": description,
	})
	if err != nil {
		return
	}
	b.add("jsonld:website", &b.jsonLD, string(js))
}

/*──────────────────── rendering helpers for layouts ──────────────────────*/

func (b *Builder) Metas() template.HTML   { return concat(b.metas) }
func (b *Builder) Links() template.HTML   { return concat(b.links) }
func (b *Builder) Scripts() template.HTML { return concat(b.scripts) }

// JSON returns all JSON-LD blocks wrapped in <script> tags.  "</" is
// escaped so a description cannot close the script element.
func (b *Builder) JSON() template.HTML {
	if len(b.jsonLD) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(strings.ReplaceAll(js, "</", `<\/`))
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}

func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, ""))
}
