package form

import (
	"html/template"

	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/site"
	"github.com/yanizio/tierzero/internal/theme"
)

// Set renders the universal forms for one domain config.  It satisfies the
// compositor's form source.
type Set struct {
	cfg   *site.Config
	style theme.Style
}

// For returns the form set for cfg.
func For(cfg *site.Config) *Set {
	return &Set{cfg: cfg, style: theme.For(cfg)}
}

// EmailCapture uses the config's emailCapture copy over the YAML defaults.
func (s *Set) EmailCapture() template.HTML    { return s.Render(EmailCaptureID, nil, nil) }
func (s *Set) DomainInquiry() template.HTML   { return s.Render(DomainInquiryID, nil, nil) }
func (s *Set) BusinessInquiry() template.HTML { return s.Render(BusinessInquiryID, nil, nil) }

// Render draws form id for this domain, optionally re-filled with what the
// visitor typed and the errors from a failed submission.
func (s *Set) Render(id string, prefill map[string]string, errs []ErrorField) template.HTML {
	opts := Options{Prefill: prefill, Errors: errs}
	if id == EmailCaptureID {
		ec := s.cfg.EmailCapture
		opts.Title, opts.Description, opts.Button = ec.Headline, ec.Description, ec.ButtonText
	}
	return s.render(id, opts)
}

func (s *Set) render(id string, opts Options) template.HTML {
	opts.Domain = s.cfg.Domain.Name
	opts.Style = s.style
	out, err := Render(id, opts)
	if err != nil {
		zap.L().Error("form render failed", zap.String("form", id), zap.Error(err))
		return ""
	}
	return out
}

// SuccessMessage is the text shown after a stored submission.  The email
// capture form prefers the domain's own copy.
func SuccessMessage(fd *FormDef, cfg *site.Config) string {
	if fd.ID == EmailCaptureID && cfg != nil && cfg.EmailCapture.SuccessMessage != "" {
		return cfg.EmailCapture.SuccessMessage
	}
	if fd.Success != "" {
		return fd.Success
	}
	return "Thank you."
}
