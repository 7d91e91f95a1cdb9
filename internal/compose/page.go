// internal/compose/page.go
//
// Template Compositor.
//
// Workflow
// --------
//  1. Pick the slot table from template.type (hero, else landing).
//  2. Walk the table; emit a Section for each slot that has a unit, and
//     for the email-capture marker when the capture gate is on.
//  3. Build the header, footer, and domain-inquiry modal from the config.
//
// The result is a plain value the view layer executes.  Compose is pure
// apart from reading the clock for the copyright year.
package compose

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yanizio/tierzero/internal/contentbox"
	"github.com/yanizio/tierzero/internal/controls"
	"github.com/yanizio/tierzero/internal/site"
	"github.com/yanizio/tierzero/internal/theme"
)

// now is swapped in tests.
var now = time.Now

// Universals are the page-wide components the layouts may place.
type Universals struct {
	EmailCapture  template.HTML
	DomainInquiry template.HTML
}

// Section is one populated slot.
type Section struct {
	Slot        string
	Region      string
	Kind        contentbox.Kind
	Placeholder bool
	BorderTop   bool
	HTML        template.HTML
}

// Header is the brand bar shown on every page.
type Header struct {
	Title      string
	Badge      string
	BadgeStyle template.CSS
	Logo       string
	LogoClass  string
	ForSale    bool
}

// Footer is either a footer box or the default copyright line.
type Footer struct {
	HTML     template.HTML
	Fallback string
}

// Page is the composed structure for one request.
type Page struct {
	Layout        string
	Config        *site.Config
	Style         theme.Style
	BrandStyle    template.CSS
	Header        Header
	Sections      []Section
	Footer        Footer
	DomainInquiry template.HTML // empty when the modal is gated off
}

// Compose places rendered units into the layout selected by cfg.
func Compose(cfg *site.Config, units map[string]contentbox.Unit, uni Universals) Page {
	layout := site.TemplateLanding
	if cfg.IsHero() {
		layout = site.TemplateHero
	}
	p := Page{
		Layout:     layout,
		Config:     cfg,
		Style:      theme.For(cfg),
		BrandStyle: theme.InlineStyle(theme.BrandVars(cfg)),
		Header:     header(cfg),
	}

	for _, d := range slotsFor(layout) {
		if d.Slot == EmailCaptureSlot {
			if controls.EmailCaptureEnabled(cfg) && uni.EmailCapture != "" {
				p.Sections = append(p.Sections, Section{Slot: d.Slot, Region: d.Region, HTML: uni.EmailCapture})
			}
			continue
		}
		u, ok := units[d.Slot]
		if !ok {
			continue
		}
		p.Sections = append(p.Sections, Section{
			Slot: d.Slot, Region: d.Region, Kind: u.Kind,
			Placeholder: u.Placeholder, HTML: u.HTML,
		})
	}
	if layout == site.TemplateHero {
		markBorders(p.Sections)
	}

	if u, ok := units[FooterSlot]; ok {
		p.Footer.HTML = u.HTML
	} else {
		p.Footer.Fallback = fmt.Sprintf("© %d %s", now().Year(), cfg.Domain.Name)
	}

	if controls.DomainInquiryEnabled(cfg) {
		p.DomainInquiry = uni.DomainInquiry
	}
	return p
}

// markBorders sets the separator rule for the lower hero sections.
// lower-content only draws a top border when the mid banner is absent.
func markBorders(sections []Section) {
	midBanner := false
	for _, s := range sections {
		if s.Slot == "ad-mid-banner" {
			midBanner = true
		}
	}
	for i := range sections {
		switch sections[i].Slot {
		case "feature-grid", "dynamic-feed", "ad-bottom-banner":
			sections[i].BorderTop = true
		case "lower-content":
			sections[i].BorderTop = !midBanner
		}
	}
}

func header(cfg *site.Config) Header {
	h := Header{
		Title:   strings.ToUpper(cfg.Domain.Name),
		Logo:    cfg.Domain.Logo,
		ForSale: controls.DomainInquiryEnabled(cfg),
	}
	if cfg.IsTerminal() {
		h.Title = "[" + h.Title + "]"
	}

	switch cfg.Domain.Status {
	case site.StatusComingSoon:
		h.Badge = "COMING SOON"
	default:
		h.Badge = strings.ToUpper(string(cfg.Domain.Status))
	}

	switch cfg.Domain.LogoSize {
	case "small":
		h.LogoClass = "h-8 w-auto"
	case "medium":
		h.LogoClass = "h-12 w-auto"
	case "xl":
		h.LogoClass = "h-20 w-auto"
	default:
		h.LogoClass = "h-16 w-auto"
	}

	if !cfg.IsTerminal() {
		color := "var(--brand-primary, #000)"
		if bc := cfg.Template.BrandColors; bc != nil && bc.Primary != "" {
			color = bc.Primary
		}
		h.BadgeStyle = theme.InlineStyle([]theme.Var{{Name: "border-color", Value: color}, {Name: "color", Value: color}})
	}
	return h
}

/*──────────────────────────── query helpers ──────────────────────────────*/

// Region returns the sections of one region in layout order.
func (p Page) Region(name string) []Section {
	var out []Section
	for _, s := range p.Sections {
		if s.Region == name {
			out = append(out, s)
		}
	}
	return out
}

// HasRegion reports whether any section landed in the region.
func (p Page) HasRegion(name string) bool { return len(p.Region(name)) > 0 }

// Section returns the section for a slot.
func (p Page) Section(slot string) (Section, bool) {
	for _, s := range p.Sections {
		if s.Slot == slot {
			return s, true
		}
	}
	return Section{}, false
}

// Has reports whether a slot is populated.
func (p Page) Has(slot string) bool {
	_, ok := p.Section(slot)
	return ok
}

// Slots lists populated slots top to bottom.
func (p Page) Slots() []string {
	out := make([]string, len(p.Sections))
	for i, s := range p.Sections {
		out[i] = s.Slot
	}
	return out
}
