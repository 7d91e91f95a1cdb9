// internal/site/model.go
//
// Typed model for one domain's JSON configuration.
//
// Context
// -------
// Every tenant is described by a single `configs/<domain>.json` file.  Two
// schema generations coexist in the estate: the legacy flat switches
// (`features`, `ads.enabled`, `domain.forSale`) and the newer nested
// `controls` block.  Any boolean that takes part in a fallback chain is
// therefore a *bool so "absent" stays distinguishable from "false".
//
// Notes
// -----
//   - Config is read-only once parsed.  Renderers receive a pointer but
//     must never write through it.
//   - ContentBoxes keeps JSON key order; see boxes.go.
package site

// Status is the lifecycle badge shown in the page header.
type Status string

const (
	StatusComingSoon  Status = "coming_soon"
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
)

// Template layout variants.
const (
	TemplateLanding = "landing"
	TemplateHero    = "hero"
)

// Color modes and the one theme that changes structure, not just color.
const (
	ColorLight    = "light"
	ColorDark     = "dark"
	ThemeTerminal = "terminal"
)

// Domain holds identity and sale state.
type Domain struct {
	Name        string   `json:"name" validate:"required"`
	Status      Status   `json:"status,omitempty"`
	ForSale     *bool    `json:"forSale,omitempty"`
	Category    string   `json:"category,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Description string   `json:"description,omitempty"`
	Logo        string   `json:"logo,omitempty"`
	LogoSize    string   `json:"logoSize,omitempty" validate:"omitempty,oneof=small medium large xl"`
}

// BrandColors is the optional hex triple inherited from the portfolio
// branding pack.
type BrandColors struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Accent    string `json:"accent,omitempty"`
}

// Template selects the layout and visual treatment.
type Template struct {
	Type        string       `json:"type" validate:"required,oneof=landing hero"`
	Theme       string       `json:"theme,omitempty"`
	ColorMode   string       `json:"colorMode,omitempty" validate:"omitempty,oneof=light dark"`
	BrandColors *BrandColors `json:"brandColors,omitempty"`
}

// FormControls toggles the universal lead forms.
type FormControls struct {
	EmailCapture    *bool `json:"emailCapture,omitempty"`
	BusinessInquiry *bool `json:"businessInquiry,omitempty"`
	DomainInquiry   *bool `json:"domainInquiry,omitempty"`
}

// AdControls is the nested replacement for Ads.Enabled plus per-slot
// switches keyed by canonical position name (topBanner, native1, …).
type AdControls struct {
	GlobalEnabled *bool           `json:"globalEnabled,omitempty"`
	Positions     map[string]bool `json:"positions,omitempty"`
}

// Controls is the newer schema.  Any field may be absent.
type Controls struct {
	Forms     *FormControls `json:"forms,omitempty"`
	Ads       *AdControls   `json:"ads,omitempty"`
	Analytics *bool         `json:"analytics,omitempty"`
}

// Features is the legacy flat schema.
type Features struct {
	ShowEmailCapture *bool `json:"showEmailCapture,omitempty"`
	EnableAnalytics  *bool `json:"enableAnalytics,omitempty"`
}

// Ads is the legacy ad switch and network identifier.
type Ads struct {
	Enabled *bool  `json:"enabled,omitempty"`
	Network string `json:"network,omitempty"`
}

// EmailCapture carries the copy for the capture form.
type EmailCapture struct {
	Headline       string `json:"headline,omitempty"`
	Description    string `json:"description,omitempty"`
	ButtonText     string `json:"buttonText,omitempty"`
	SuccessMessage string `json:"successMessage,omitempty"`
}

// SEO feeds the <head> metadata.
type SEO struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Config is the root entity for one tenant.
type Config struct {
	Domain       Domain       `json:"domain" validate:"required"`
	SEO          SEO          `json:"seo"`
	Template     Template     `json:"template"`
	Controls     *Controls    `json:"controls,omitempty"`
	Features     Features     `json:"features"`
	ContentBoxes Boxes        `json:"contentBoxes,omitempty"`
	Ads          Ads          `json:"ads"`
	EmailCapture EmailCapture `json:"emailCapture"`

	// Written by the portfolio sync task when a higher tier is live.
	Disabled       bool   `json:"disabled,omitempty"`
	DisabledReason string `json:"disabledReason,omitempty"`
}

// IsHero reports whether the multi-zone layout is selected.  Anything other
// than "hero" renders as landing.
func (c *Config) IsHero() bool { return c.Template.Type == TemplateHero }

func (c *Config) IsDark() bool     { return c.Template.ColorMode == ColorDark }
func (c *Config) IsTerminal() bool { return c.Template.Theme == ThemeTerminal }
