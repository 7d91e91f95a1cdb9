// Package theme turns a config's template block into presentation data:
// the utility-class palette for the selected theme, the light/dark and
// terminal switches, and the brand CSS variables.
//
// Nothing here affects which boxes render.  Renderers receive a Style and
// pick classes from it; the page layout emits BrandVars into the <html>
// style attribute.
package theme

import "github.com/yanizio/tierzero/internal/site"

// Palette is the set of utility classes a theme contributes.
type Palette struct {
	Primary         string
	PrimaryText     string
	Secondary       string
	SecondaryBorder string
	Accent          string
	AccentText      string
	Header          string
	HeaderDark      string
	Card            string
	CardDark        string
}

const (
	header     = "bg-white border-b border-gray-200"
	headerDark = "bg-gray-900 border-b border-gray-800"
	card       = "bg-white border border-gray-200"
	cardDark   = "bg-gray-800 border border-gray-700"
)

var palettes = map[string]Palette{
	"basic": {
		Primary: "bg-blue-600 hover:bg-blue-700 text-white", PrimaryText: "text-blue-600 hover:text-blue-700",
		Secondary: "bg-gray-600 hover:bg-gray-700 text-white", SecondaryBorder: "border-gray-300",
		Accent: "bg-purple-600 hover:bg-purple-700 text-white", AccentText: "text-purple-600",
		Header: header, HeaderDark: headerDark, Card: card, CardDark: cardDark,
	},
	"comparison": {
		Primary: "bg-green-600 hover:bg-green-700 text-white", PrimaryText: "text-green-600 hover:text-green-700",
		Secondary: "bg-teal-600 hover:bg-teal-700 text-white", SecondaryBorder: "border-teal-300",
		Accent: "bg-orange-600 hover:bg-orange-700 text-white", AccentText: "text-orange-600",
		Header: header, HeaderDark: headerDark, Card: card, CardDark: cardDark,
	},
	"technology": {
		Primary: "bg-indigo-600 hover:bg-indigo-700 text-white", PrimaryText: "text-indigo-600 hover:text-indigo-700",
		Secondary: "bg-slate-600 hover:bg-slate-700 text-white", SecondaryBorder: "border-slate-300",
		Accent: "bg-cyan-600 hover:bg-cyan-700 text-white", AccentText: "text-cyan-600",
		Header: header, HeaderDark: headerDark, Card: card, CardDark: cardDark,
	},
	"finance": {
		Primary: "bg-emerald-600 hover:bg-emerald-700 text-white", PrimaryText: "text-emerald-600 hover:text-emerald-700",
		Secondary: "bg-slate-700 hover:bg-slate-800 text-white", SecondaryBorder: "border-slate-400",
		Accent: "bg-amber-600 hover:bg-amber-700 text-white", AccentText: "text-amber-600",
		Header: header, HeaderDark: headerDark, Card: card, CardDark: cardDark,
	},
	"creative": {
		Primary: "bg-pink-600 hover:bg-pink-700 text-white", PrimaryText: "text-pink-600 hover:text-pink-700",
		Secondary: "bg-purple-600 hover:bg-purple-700 text-white", SecondaryBorder: "border-purple-300",
		Accent: "bg-yellow-500 hover:bg-yellow-600 text-white", AccentText: "text-yellow-600",
		Header: header, HeaderDark: headerDark, Card: card, CardDark: cardDark,
	},
	"professional": {
		Primary: "bg-blue-700 hover:bg-blue-800 text-white", PrimaryText: "text-blue-700 hover:text-blue-800",
		Secondary: "bg-gray-700 hover:bg-gray-800 text-white", SecondaryBorder: "border-gray-400",
		Accent: "bg-red-700 hover:bg-red-800 text-white", AccentText: "text-red-700",
		Header: header, HeaderDark: headerDark, Card: card, CardDark: cardDark,
	},
	"ecommerce": {
		Primary: "bg-orange-600 hover:bg-orange-700 text-white", PrimaryText: "text-orange-600 hover:text-orange-700",
		Secondary: "bg-slate-600 hover:bg-slate-700 text-white", SecondaryBorder: "border-slate-300",
		Accent: "bg-green-600 hover:bg-green-700 text-white", AccentText: "text-green-600",
		Header: header, HeaderDark: headerDark, Card: card, CardDark: cardDark,
	},
	"terminal": {
		Primary: "bg-green-500 hover:bg-green-600 text-black font-mono", PrimaryText: "text-green-400 hover:text-green-300 font-mono",
		Secondary: "bg-gray-900 hover:bg-gray-800 text-green-400 font-mono", SecondaryBorder: "border-green-500",
		Accent: "bg-yellow-500 hover:bg-yellow-600 text-black font-mono", AccentText: "text-yellow-500 font-mono",
		Header: "bg-black border-b border-green-500", HeaderDark: "bg-black border-b border-green-500",
		Card:     "bg-black border border-green-500 shadow-green-500/20 shadow-lg",
		CardDark: "bg-black border border-green-500 shadow-green-500/20 shadow-lg",
	},
}

// brandPalette replaces colored classes with neutral ones when the config
// supplies brand colors; the colors themselves arrive as inline styles.
var brandPalette = Palette{
	Primary: "text-white rounded font-bold transition", PrimaryText: "hover:underline transition",
	Secondary: "text-white rounded transition", Accent: "text-white rounded transition",
	Header: "bg-white border-b", HeaderDark: "bg-gray-900 border-b", Card: card, CardDark: cardDark,
}

// Names lists every known theme.
func Names() []string {
	return []string{"basic", "comparison", "technology", "finance", "creative", "professional", "ecommerce", "terminal"}
}

// Known reports whether name is a theme with its own palette.
func Known(name string) bool {
	_, ok := palettes[name]
	return ok
}

// Style is the presentation context shared by every renderer for one page.
type Style struct {
	Dark     bool
	Terminal bool
	Palette  Palette
	Brand    *site.BrandColors
}

// For derives the Style for a config.  Unknown themes use "basic".
func For(cfg *site.Config) Style {
	s := Style{
		Dark:     cfg.IsDark(),
		Terminal: cfg.IsTerminal(),
		Brand:    cfg.Template.BrandColors,
	}
	switch p, ok := palettes[cfg.Template.Theme]; {
	case s.Brand != nil:
		s.Palette = brandPalette
	case ok:
		s.Palette = p
	default:
		s.Palette = palettes["basic"]
	}
	return s
}

// Pick returns dark when the page is dark, else light.
func (s Style) Pick(light, dark string) string {
	if s.Dark {
		return dark
	}
	return light
}

// Page is the class list for the outermost wrapper.  Terminal pages may be
// light or dark.
func (s Style) Page() string {
	if s.Terminal {
		return s.Pick("bg-white text-green-700 font-mono", "bg-black text-green-400 font-mono")
	}
	return s.Pick("bg-white text-gray-900", "bg-gray-900 text-white")
}

func (s Style) Heading() string { return s.Pick("text-gray-900", "text-white") }
func (s Style) Body() string    { return s.Pick("text-gray-600", "text-gray-400") }
func (s Style) Muted() string   { return s.Pick("text-gray-400", "text-gray-500") }
func (s Style) Border() string  { return s.Pick("border-gray-200", "border-gray-800") }
func (s Style) Card() string    { return s.Pick(s.Palette.Card, s.Palette.CardDark) }
func (s Style) Panel() string {
	return s.Pick("bg-gray-50 border border-gray-200", "bg-gray-800 border border-gray-700")
}
func (s Style) Skeleton() string { return s.Pick("bg-gray-200", "bg-gray-800") + " animate-pulse" }
func (s Style) Dashed() string   { return s.Pick("border-gray-300", "border-gray-700") }

// Header is the header bar class list.
func (s Style) Header() string {
	if s.Terminal {
		return "border-green-500 bg-black/90 backdrop-blur-sm"
	}
	return s.Border()
}
