// internal/theme/brand.go
//
// Brand CSS variables.
//
// Context
// -------
// Domains inherit a three-color palette from the portfolio branding pack.
// The page wrapper exposes it as custom properties so content boxes and
// forms can reference var(--brand-primary) without knowing the hex values.
// Terminal pages get an extra set with green/amber defaults.
package theme

import (
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/yanizio/tierzero/internal/site"
)

// Var is one CSS custom property.
type Var struct {
	Name  string
	Value string
}

// BrandVars returns the custom properties for a config in a stable order.
// Configs without brand colors get none.
func BrandVars(cfg *site.Config) []Var {
	bc := cfg.Template.BrandColors
	if bc == nil {
		return nil
	}
	accent := bc.Accent
	if accent == "" {
		accent = bc.Primary
	}

	vars := []Var{
		{"--brand-primary", bc.Primary},
		{"--brand-secondary", bc.Secondary},
		{"--brand-accent", accent},
		{"--brand-primary-hover", AdjustBrightness(bc.Primary, -20)},
		{"--brand-secondary-hover", AdjustBrightness(bc.Secondary, -20)},
		{"--brand-accent-hover", AdjustBrightness(accent, -20)},
	}
	if !cfg.IsTerminal() {
		return vars
	}

	primary := or(bc.Primary, "#00ff41")
	return append(vars,
		Var{"--terminal-base-bg", "#000000"},
		Var{"--terminal-background-20", "rgba(0, 255, 65, 0.05)"},
		Var{"--terminal-primary", primary},
		Var{"--terminal-accent", or(bc.Accent, "#ffd700")},
		Var{"--terminal-border", or(bc.Secondary, "#00ff41")},
		Var{"--terminal-muted", AdjustBrightness(primary, -30)},
		Var{"--terminal-error", "#ff0041"},
		Var{"--terminal-warning", "#ffd700"},
	)
}

// InlineStyle renders vars as a style attribute value.  Values are
// restricted to color-ish characters so a hostile config cannot break out
// of the declaration.
func InlineStyle(vars []Var) template.CSS {
	var sb strings.Builder
	for _, v := range vars {
		if !safeCSSValue(v.Value) {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s; ", v.Name, v.Value)
	}
	return template.CSS(strings.TrimSpace(sb.String()))
}

// AdjustBrightness shifts every channel of a #rrggbb color by pct percent
// of full scale.  Input that is not a six-digit hex color comes back as is.
func AdjustBrightness(hex string, pct float64) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return hex
	}
	rgb, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return hex
	}

	shift := 255 * pct / 100
	adjust := func(c uint64) int {
		v := math.Max(0, math.Min(255, float64(c)+shift))
		return int(math.Round(v))
	}
	r := adjust(rgb >> 16 & 0xff)
	g := adjust(rgb >> 8 & 0xff)
	b := adjust(rgb & 0xff)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func safeCSSValue(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case strings.ContainsRune("#(),. %-", r):
		default:
			return false
		}
	}
	return true
}
