// internal/compose/layout.go
//
// Slot tables for the two page layouts.
//
// Context
// -------
// Each layout is a fixed, ordered list of slots grouped into regions.  The
// page templates walk regions in order; a slot with no unit contributes
// nothing, not even its wrapper.  EmailCaptureSlot is not a content-box
// position: it marks where the universal capture form goes when enabled.
package compose

import "github.com/yanizio/tierzero/internal/site"

// EmailCaptureSlot marks the universal email-capture form in a slot table.
const EmailCaptureSlot = "email-capture"

// FooterSlot overrides the default copyright line in both layouts.
const FooterSlot = "footer"

// Regions, top to bottom.
const (
	RegionTop     = "top"
	RegionHero    = "hero"
	RegionMain    = "main"
	RegionSidebar = "sidebar"
	RegionLower   = "lower"
	RegionCenter  = "center"
)

type slotDef struct {
	Slot   string
	Region string
}

var heroSlots = []slotDef{
	{"ad-top-banner", RegionTop},
	{"ad-alert", RegionHero},
	{"hero-headline", RegionHero},
	{"main-content", RegionMain},
	{"primary-content", RegionMain},
	{"ad-native-1", RegionMain},
	{"secondary-content", RegionMain},
	{EmailCaptureSlot, RegionSidebar},
	{"sidebar-1", RegionSidebar},
	{"ad-sidebar", RegionSidebar},
	{"sidebar-2", RegionSidebar},
	{"feature-grid", RegionLower},
	{"ad-mid-banner", RegionLower},
	{"lower-content", RegionLower},
	{"dynamic-feed", RegionLower},
	{"ad-bottom-banner", RegionLower},
}

var landingSlots = []slotDef{
	{"ad-top-banner", RegionTop},
	{"main", RegionCenter},
	{EmailCaptureSlot, RegionCenter},
	{"additional", RegionCenter},
}

func slotsFor(layout string) []slotDef {
	if layout == site.TemplateHero {
		return heroSlots
	}
	return landingSlots
}

// Positions lists the content-box positions a layout places, footer
// included.
func Positions(layout string) []string {
	defs := slotsFor(layout)
	out := make([]string, 0, len(defs)+1)
	for _, d := range defs {
		if d.Slot != EmailCaptureSlot {
			out = append(out, d.Slot)
		}
	}
	return append(out, FooterSlot)
}

// KnownPosition reports whether layout places boxes at position.
func KnownPosition(layout, position string) bool {
	for _, p := range Positions(layout) {
		if p == position {
			return true
		}
	}
	return false
}
