// internal/contentbox/render.go
//
// Dispatch from a visible box to its HTML unit.
//
// Workflow
// --------
//  1. Empty or absent content short-circuits to the placeholder for the
//     box's declared type, whatever its kind.
//  2. Otherwise the kind selects exactly one renderer.  Unknown kinds fall
//     to the placeholder, which shows type and position for diagnosis.
//  3. Renderers build a small view model from the content and execute one
//     embedded template.  A template failure is logged and replaced by an
//     HTML comment; it never reaches the caller.
//
// Notes
// -----
//   - No I/O.  The business-inquiry form is supplied by the caller through
//     Env.Forms.
package contentbox

import (
	"bytes"
	"embed"
	"html/template"

	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/controls"
	"github.com/yanizio/tierzero/internal/site"
	"github.com/yanizio/tierzero/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.New("contentbox").
	Funcs(theme.FuncMap()).
	Funcs(template.FuncMap{"outputClass": outputClass}).
	ParseFS(templateFS, "templates/*.html"))

// FormSource renders the universal forms a box may embed.
type FormSource interface {
	BusinessInquiry() template.HTML
}

// Env is everything a renderer may consult besides the box itself.
type Env struct {
	Config *site.Config
	Style  theme.Style
	Forms  FormSource // nil disables form substitution
}

// NewEnv builds an Env with the Style derived from cfg.
func NewEnv(cfg *site.Config, forms FormSource) Env {
	return Env{Config: cfg, Style: theme.For(cfg), Forms: forms}
}

// Unit is one rendered box.
type Unit struct {
	Kind        Kind
	Type        string
	Position    string
	Placeholder bool
	HTML        template.HTML
}

// Render produces the unit for box.
func Render(box site.ContentBox, env Env) Unit {
	u := Unit{Kind: ParseKind(box.Type), Type: box.Type, Position: box.Position}
	if box.Content.IsEmpty() {
		u.Placeholder = true
		u.HTML = placeholder(box.Type, box.Position, env.Style)
		return u
	}

	var (
		name string
		data any
	)
	switch u.Kind {
	case Headline:
		name, data = "headline", headlineView(box.Content, env.Style)
	case Text:
		name, data = "text", textView(box.Content, env.Style)
	case FeaturesGrid:
		name, data = "features-grid", featuresView(box.Content, env.Style)
	case Metrics:
		name, data = "metrics", metricsView(box.Content, env.Style)
	case CTA:
		name, data = "cta", ctaView(box, env)
	case Map:
		name, data = "map", mapView(box.Content, env.Style)
	case AdBanner:
		name, data = "ad-banner", adBannerView(box.Content, env.Style)
	case AdAlert:
		name, data = "ad-alert", adAlertView(box.Content, env.Style)
	case AdNative:
		name, data = "ad-native", adNativeView(box.Content, env.Style)
	case TerminalLog:
		name, data = "terminal-log", terminalLogView(box.Content, env.Style)
	case Unknown:
		u.Placeholder = true
		u.HTML = placeholder(box.Type, box.Position, env.Style)
		return u
	}
	u.HTML = execute(name, data)
	return u
}

// RenderAll renders every resolved slot.
func RenderAll(slots controls.Slots, env Env) map[string]Unit {
	out := make(map[string]Unit, slots.Len())
	for _, pos := range slots.Order {
		box, _ := slots.Get(pos)
		out[pos] = Render(box, env)
	}
	return out
}

func execute(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		zap.S().Errorw("content box render failed", "template", name, "err", err)
		return template.HTML("<!-- content box error -->")
	}
	return template.HTML(buf.String())
}
