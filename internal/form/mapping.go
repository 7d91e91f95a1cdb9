package form

import (
	"encoding/json"

	"github.com/yanizio/tierzero/internal/lead"
)

// ToLead builds an unsaved lead from validated values.  Fields with a lead
// column go to that column; everything else lands in metadata under its
// field name, together with the form id.
func ToLead(fd *FormDef, clean map[string]string, domain string) *lead.Lead {
	l := &lead.Lead{Type: fd.LeadType, Domain: domain}
	meta := map[string]any{"form": fd.ID}

	for _, f := range fd.Fields {
		v, ok := clean[f.Name]
		if !ok {
			continue
		}
		switch f.Lead {
		case "email":
			l.Email = v
		case "first_name":
			l.FirstName = v
		case "last_name":
			l.LastName = v
		case "phone":
			l.Phone = v
		case "company":
			l.Company = v
		case "message":
			l.Message = v
		default:
			meta[f.Name] = v
		}
	}
	l.Metadata, _ = json.Marshal(meta)
	return l
}
