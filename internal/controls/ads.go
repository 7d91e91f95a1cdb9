package controls

import (
	"strings"

	"github.com/yanizio/tierzero/internal/site"
)

// adPositions maps a normalised slot name to its key under
// controls.ads.positions.
var adPositions = map[string]string{
	"topbanner":    "topBanner",
	"alert":        "alert",
	"sidebar":      "sidebar",
	"midbanner":    "midBanner",
	"bottombanner": "bottomBanner",
	"native1":      "native1",
	"native2":      "native2",
}

// PositionKeys lists the canonical ad-position keys in display order.
var PositionKeys = []string{
	"topBanner", "alert", "sidebar", "midBanner", "bottomBanner", "native1", "native2",
}

// IsAd reports whether a box type is subject to the ad gate.
func IsAd(boxType string) bool { return strings.HasPrefix(boxType, "ad-") }

// AdPositionKey turns a slot such as "ad-top-banner" into "topBanner".  The
// second result is false for slots with no dedicated switch.
func AdPositionKey(position string) (string, bool) {
	norm := strings.ReplaceAll(strings.Replace(position, "ad-", "", 1), "-", "")
	key, ok := adPositions[norm]
	return key, ok
}

// AdsEnabled is the global ad switch: controls.ads.globalEnabled, else
// ads.enabled, else false.
func AdsEnabled(cfg *site.Config) bool {
	var nv *bool
	if a := adControls(cfg); a != nil {
		nv = a.GlobalEnabled
	}
	return ResolveFlag(nv, cfg.Ads.Enabled, false)
}

// adVisible applies the two-level gate.
func adVisible(cfg *site.Config, box site.ContentBox) bool {
	if !AdsEnabled(cfg) {
		return false
	}
	if key, ok := AdPositionKey(box.Position); ok {
		if a := adControls(cfg); a != nil {
			if on, set := a.Positions[key]; set {
				return on
			}
		}
	}
	return isEnabled(box)
}
