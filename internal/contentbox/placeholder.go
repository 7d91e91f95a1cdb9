package contentbox

import (
	"html/template"
	"strings"

	"github.com/yanizio/tierzero/internal/theme"
)

// placeholderData drives the "placeholder" template.  Variant picks the
// skeleton; Count and Label only matter for some variants.
type placeholderData struct {
	S        theme.Style
	Variant  string
	Type     string
	Position string
	Count    int
	Label    string
}

// placeholder renders the loading skeleton for a box type.  Types without
// a dedicated skeleton get a dashed block naming type and position.
func placeholder(boxType, position string, s theme.Style) template.HTML {
	d := placeholderData{S: s, Variant: "generic", Type: boxType, Position: position}
	switch boxType {
	case "headline":
		d.Variant = "headline"
	case "features-grid":
		d.Variant, d.Count = "features", 3
		if position == "feature-grid" {
			d.Count = 6
		}
	case "metrics":
		d.Variant, d.Count = "metrics", 4
	case "cta":
		d.Variant = "cta"
	case "ad-banner":
		d.Variant = "ad-banner"
	case "dynamic-feed", "main-content":
		d.Variant = "dynamic"
	case "ad-native":
		d.Variant, d.Count, d.Label = "ad-native", 3, "Native Ads"
		if strings.Contains(position, "sidebar") {
			d.Count, d.Label = 2, "Sidebar Ads"
		}
	case "ad-alert":
		d.Variant = "ad-alert"
	}
	return execute("placeholder", d)
}
