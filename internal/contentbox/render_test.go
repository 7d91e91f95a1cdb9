package contentbox

import (
	"encoding/json"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/tierzero/internal/site"
)

type stubForms struct{ calls int }

func (f *stubForms) BusinessInquiry() template.HTML {
	f.calls++
	return `<form id="business-inquiry"></form>`
}

func box(t *testing.T, raw string) site.ContentBox {
	t.Helper()
	var b site.ContentBox
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	return b
}

func cfg(t *testing.T, raw string) *site.Config {
	t.Helper()
	c, err := site.Parse([]byte(raw))
	require.NoError(t, err)
	return c
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		assert.Equal(t, k, ParseKind(k.String()))
	}
	assert.Equal(t, Unknown, ParseKind("hero-slider"))
	assert.Equal(t, Unknown, ParseKind("Headline"))
}

func TestEmptyContentAlwaysPlaceholder(t *testing.T) {
	env := NewEnv(&site.Config{}, nil)
	for _, k := range Kinds() {
		for _, content := range []string{`{}`, `null`, `""`, `[]`} {
			b := box(t, `{"type":"`+k.String()+`","position":"main","enabled":true,"content":`+content+`}`)
			u := Render(b, env)
			assert.True(t, u.Placeholder, "%s with %s", k, content)
			assert.Contains(t, string(u.HTML), "cb-placeholder", "%s with %s", k, content)
		}
		u := Render(site.ContentBox{Type: k.String(), Position: "main"}, env)
		assert.True(t, u.Placeholder, "%s with absent content", k)
	}
}

func TestUnknownTypeShowsTypeAndPosition(t *testing.T) {
	u := Render(box(t, `{"type":"carousel","position":"sidebar-2","content":{"slides":[1]}}`), NewEnv(&site.Config{}, nil))
	assert.True(t, u.Placeholder)
	assert.Equal(t, Unknown, u.Kind)
	html := string(u.HTML)
	assert.Contains(t, html, ">carousel<")
	assert.Contains(t, html, ">sidebar-2<")
}

func TestPlaceholderVariants(t *testing.T) {
	env := NewEnv(&site.Config{}, nil)
	cases := []struct {
		typ, pos string
		items    int
		text     string
	}{
		{"features-grid", "feature-grid", 6, "6 Feature Boxes"},
		{"features-grid", "primary-content", 3, "3 Feature Boxes"},
		{"metrics", "sidebar-1", 4, "Metrics Widget"},
		{"ad-native", "ad-sidebar", 2, "Sidebar Ads"},
		{"ad-native", "ad-native-1", 3, "Native Ads"},
		{"ad-banner", "ad-top-banner", 0, "728x90"},
		{"ad-alert", "ad-alert", 0, "Alert/Promo Banner"},
		{"dynamic-feed", "dynamic-feed", 0, "Main Dynamic Content"},
		{"cta", "main", 0, "Call to Action"},
		{"headline", "main", 0, "Headline &amp; Subtitle"},
	}
	for _, tc := range cases {
		html := string(Render(site.ContentBox{Type: tc.typ, Position: tc.pos}, env).HTML)
		assert.Contains(t, html, tc.text, tc.typ+"@"+tc.pos)
		assert.Equal(t, tc.items, strings.Count(html, "cb-skeleton-item"), tc.typ+"@"+tc.pos)
	}
}

func TestHeadlineEscapesContent(t *testing.T) {
	u := Render(box(t, `{"type":"headline","position":"main","content":{"title":"Welcome to <Foo>","subtitle":"Soon"}}`), NewEnv(&site.Config{}, nil))
	require.False(t, u.Placeholder)
	assert.Equal(t, Headline, u.Kind)
	assert.Contains(t, string(u.HTML), "Welcome to &lt;Foo&gt;")
	assert.Contains(t, string(u.HTML), "Soon")
}

func TestTextUsesTerminalWindow(t *testing.T) {
	c := cfg(t, `{"domain":{"name":"x.com.au"},"template":{"type":"landing","theme":"terminal","colorMode":"dark"}}`)
	u := Render(box(t, `{"type":"text","position":"main","content":{"text":"booting"}}`), NewEnv(c, nil))
	assert.Contains(t, string(u.HTML), "output@system")
	assert.Contains(t, string(u.HTML), "booting")
}

func TestCTAFormSubstitution(t *testing.T) {
	b := box(t, `{"type":"cta","position":"main","content":{"text":"Own a Brewery?","buttonText":"Apply"}}`)

	enabled := cfg(t, `{"domain":{"name":"x.com.au"},"template":{"type":"landing"},"controls":{"forms":{"businessInquiry":true}}}`)
	forms := &stubForms{}
	html := string(Render(b, NewEnv(enabled, forms)).HTML)
	assert.Contains(t, html, `id="business-inquiry"`)
	assert.NotContains(t, html, "cb-cta-button")
	assert.Equal(t, 1, forms.calls)

	disabled := cfg(t, `{"domain":{"name":"x.com.au"},"template":{"type":"landing"}}`)
	html = string(Render(b, NewEnv(disabled, forms)).HTML)
	assert.Contains(t, html, "cb-cta-button")
	assert.Contains(t, html, "Apply")
	assert.Equal(t, 1, forms.calls)

	plain := box(t, `{"type":"cta","position":"main","content":{"text":"Join the list","buttonText":"Join"}}`)
	html = string(Render(plain, NewEnv(enabled, forms)).HTML)
	assert.Contains(t, html, "cb-cta-button")
}

func TestMetricsTrendIcons(t *testing.T) {
	b := box(t, `{"type":"metrics","position":"sidebar-1","content":{"metrics":[
		{"label":"Visitors","value":"1.2k","trend":"up"},
		{"label":"Bounce","value":42,"trend":"down"},
		{"label":"Uptime","value":"99%","trend":"stable"},
		"junk"
	]}}`)
	html := string(Render(b, NewEnv(&site.Config{}, nil)).HTML)
	assert.Equal(t, 3, strings.Count(html, "cb-metric "))
	assert.Contains(t, html, "↑")
	assert.Contains(t, html, "↓")
	assert.Contains(t, html, "→")
	assert.Contains(t, html, ">42<")
}

func TestAdRenderers(t *testing.T) {
	env := NewEnv(&site.Config{}, nil)
	banner := string(Render(box(t, `{"type":"ad-banner","position":"ad-top-banner","content":{"sponsor":"Acme","message":"Cheap hops","cta":"Shop","link":"https://acme.example"}}`), env).HTML)
	assert.Contains(t, banner, "Shop →")
	assert.Contains(t, banner, `href="https://acme.example"`)

	alert := string(Render(box(t, `{"type":"ad-alert","position":"ad-alert","content":{"type":"warning","message":"Sale"}}`), env).HTML)
	assert.Contains(t, alert, "⚡ SPECIAL OFFER")

	term := cfg(t, `{"domain":{"name":"x.com.au"},"template":{"type":"hero","theme":"terminal"}}`)
	alert = string(Render(box(t, `{"type":"ad-alert","position":"ad-alert","content":{"message":"Sale"}}`), NewEnv(term, nil)).HTML)
	assert.Contains(t, alert, "[!] // SPECIAL OFFER")

	native := string(Render(box(t, `{"type":"ad-native","position":"ad-native-1","content":{"type":"products"}}`), env).HTML)
	assert.Contains(t, native, "Sponsored Products")
	assert.Equal(t, 2, strings.Count(native, "cb-skeleton-item"))
}

func TestMapDefaults(t *testing.T) {
	v := mapView(box(t, `{"type":"map","position":"main","content":{"title":"Breweries"}}`).Content, NewEnv(&site.Config{}, nil).Style)
	assert.Equal(t, [2]float64{-37.8136, 144.9631}, v.Center)
	assert.Equal(t, 14, v.Zoom)
	assert.Equal(t, "400px", v.Height)
	assert.Len(t, v.Locations, 5)

	v = mapView(box(t, `{"type":"map","position":"main","content":{"center":[1,2],"zoom":9,"locations":[]}}`).Content, NewEnv(&site.Config{}, nil).Style)
	assert.Equal(t, [2]float64{1, 2}, v.Center)
	assert.Equal(t, 9, v.Zoom)
	assert.Empty(t, v.Locations)
}

func TestTerminalLogDefaultsAndLimit(t *testing.T) {
	var cmds []string
	for i := 0; i < 12; i++ {
		cmds = append(cmds, `{"command":"ls","output":["a","b"],"type":"success"}`)
	}
	b := box(t, `{"type":"terminal-log","position":"main","content":{"commands":[`+strings.Join(cmds, ",")+`]}}`)
	v := terminalLogView(b.Content, NewEnv(&site.Config{}, nil).Style)
	assert.Equal(t, "terminal@system", v.Title)
	assert.True(t, v.AutoPlay)
	assert.Equal(t, 5000, v.Interval)
	assert.Len(t, v.Commands, 10)

	html := string(Render(b, NewEnv(&site.Config{}, nil)).HTML)
	assert.Equal(t, 10, strings.Count(html, "cb-command"))
}

func TestRenderIsPure(t *testing.T) {
	env := NewEnv(&site.Config{}, nil)
	b := box(t, `{"type":"features-grid","position":"feature-grid","content":{"title":"Why","features":[{"title":"Fast","description":"Very"}]}}`)
	assert.Equal(t, Render(b, env), Render(b, env))
}

func TestTerminalLogHugeMaxCommands(t *testing.T) {
	b := box(t, `{"type":"terminal-log","position":"main","content":{"maxCommands":1e300,"playInterval":1e300,"commands":[{"command":"ls","output":["a"]}]}}`)
	v := terminalLogView(b.Content, NewEnv(&site.Config{}, nil).Style)
	assert.Equal(t, 10, v.MaxCommands)
	assert.Equal(t, 5000, v.Interval)
	assert.Len(t, v.Commands, 1)

	var u Unit
	require.NotPanics(t, func() { u = Render(b, NewEnv(&site.Config{}, nil)) })
	assert.Contains(t, string(u.HTML), "cb-command")

	b = box(t, `{"type":"terminal-log","position":"main","content":{"maxCommands":-3,"commands":[{"command":"ls"}]}}`)
	assert.Equal(t, 10, terminalLogView(b.Content, NewEnv(&site.Config{}, nil).Style).MaxCommands)
}

func TestMapZoomOutOfRangeKeepsDefault(t *testing.T) {
	for _, z := range []string{"1e300", "0", "-4", "99"} {
		v := mapView(box(t, `{"type":"map","position":"main","content":{"zoom":`+z+`}}`).Content, NewEnv(&site.Config{}, nil).Style)
		assert.Equal(t, 14, v.Zoom, z)
	}
}
