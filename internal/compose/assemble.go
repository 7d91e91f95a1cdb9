package compose

import (
	"html/template"

	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/contentbox"
	"github.com/yanizio/tierzero/internal/controls"
	"github.com/yanizio/tierzero/internal/site"
)

// Forms supplies every universal form a page can embed.
type Forms interface {
	contentbox.FormSource
	EmailCapture() template.HTML
	DomainInquiry() template.HTML
}

// Assemble runs resolve, dispatch, and compose in one pass.  forms may be
// nil, in which case no universal form is placed.
func Assemble(cfg *site.Config, forms Forms) Page {
	slots := controls.Resolve(cfg)

	var (
		src contentbox.FormSource
		uni Universals
	)
	if forms != nil {
		src = forms
		if controls.EmailCaptureEnabled(cfg) {
			uni.EmailCapture = forms.EmailCapture()
		}
		if controls.DomainInquiryEnabled(cfg) {
			uni.DomainInquiry = forms.DomainInquiry()
		}
	}

	layout := cfg.Template.Type
	for _, pos := range slots.Order {
		if !KnownPosition(layout, pos) {
			zap.S().Debugw("box position not in layout", "domain", cfg.Domain.Name, "layout", layout, "position", pos)
		}
	}

	units := contentbox.RenderAll(slots, contentbox.NewEnv(cfg, src))
	return Compose(cfg, units, uni)
}
