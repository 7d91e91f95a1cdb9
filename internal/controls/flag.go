// internal/controls/flag.go
//
// Precedence rule for tri-state switches.
//
// Context
// -------
// Configs in the estate come in two generations.  The nested `controls`
// block is authoritative when present; otherwise the flat legacy switch is
// used; otherwise a per-switch default applies.  Every caller that needs a
// switch goes through ResolveFlag so the order is defined once.
package controls

import "github.com/yanizio/tierzero/internal/site"

// ResolveFlag returns newValue if set, else legacyValue if set, else def.
func ResolveFlag(newValue, legacyValue *bool, def bool) bool {
	if newValue != nil {
		return *newValue
	}
	if legacyValue != nil {
		return *legacyValue
	}
	return def
}

// isEnabled mirrors `box.enabled !== false`.
func isEnabled(b site.ContentBox) bool { return b.Enabled == nil || *b.Enabled }

/*──────────────────────── nil-safe accessors ─────────────────────────────*/

func formControls(cfg *site.Config) *site.FormControls {
	if cfg.Controls == nil {
		return nil
	}
	return cfg.Controls.Forms
}

func adControls(cfg *site.Config) *site.AdControls {
	if cfg.Controls == nil {
		return nil
	}
	return cfg.Controls.Ads
}

/*──────────────────────────── page gates ─────────────────────────────────*/

// EmailCaptureEnabled: controls.forms.emailCapture, else
// features.showEmailCapture, else false.
func EmailCaptureEnabled(cfg *site.Config) bool {
	var nv *bool
	if f := formControls(cfg); f != nil {
		nv = f.EmailCapture
	}
	return ResolveFlag(nv, cfg.Features.ShowEmailCapture, false)
}

// DomainInquiryEnabled: controls.forms.domainInquiry, else domain.forSale.
func DomainInquiryEnabled(cfg *site.Config) bool {
	var nv *bool
	if f := formControls(cfg); f != nil {
		nv = f.DomainInquiry
	}
	return ResolveFlag(nv, cfg.Domain.ForSale, false)
}

// BusinessInquiryEnabled has no legacy counterpart and defaults to false.
func BusinessInquiryEnabled(cfg *site.Config) bool {
	var nv *bool
	if f := formControls(cfg); f != nil {
		nv = f.BusinessInquiry
	}
	return ResolveFlag(nv, nil, false)
}

// AnalyticsEnabled: controls.analytics, else features.enableAnalytics.
func AnalyticsEnabled(cfg *site.Config) bool {
	var nv *bool
	if cfg.Controls != nil {
		nv = cfg.Controls.Analytics
	}
	return ResolveFlag(nv, cfg.Features.EnableAnalytics, false)
}
