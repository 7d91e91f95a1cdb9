package controls

import (
	"strings"

	"github.com/yanizio/tierzero/internal/site"
)

var businessKeywords = []string{
	"venue",
	"business",
	"brewery",
	"owner",
	"early access",
	"priority access",
}

// IsBusinessCTA classifies call-to-action copy as a business lead prompt.
// showForm short-circuits the keyword scan.
func IsBusinessCTA(text string, showForm bool) bool {
	if showForm {
		return true
	}
	text = strings.ToLower(text)
	for _, kw := range businessKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// IsBusinessBox runs IsBusinessCTA over a CTA box's button text, body text,
// and description.  Fields of the wrong shape read as empty.
func IsBusinessBox(box site.ContentBox) bool {
	c := box.Content
	text := strings.Join([]string{c.Str("buttonText"), c.Str("text"), c.Str("description")}, "\n")
	return IsBusinessCTA(text, c.Bool("showForm"))
}

func ctaVisible(cfg *site.Config, box site.ContentBox) bool {
	if IsBusinessBox(box) && !BusinessInquiryEnabled(cfg) {
		return false
	}
	return isEnabled(box)
}
