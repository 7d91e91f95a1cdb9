// internal/lead/model.go
//
// Lead records captured by the universal forms and the submissions API.
//
// Context
// -------
// Three kinds of lead reach the store: a consumer leaving an email, a buyer
// asking about a domain that is for sale, and a business (venue, brewery,
// bottle shop) asking for early access.  They share one table; the kind is
// the lead_type column.  Follow-ups are appended to lead_interactions so the
// admin view can show who touched a lead and when.
//
// Notes
// -----
//   - Optional text columns are stored as empty strings, never NULL, so the
//     struct can stay plain strings.
package lead

import (
	"errors"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Type is the lead_type column.
type Type string

const (
	TypeConsumer Type = "consumer"
	TypeDomain   Type = "domain"
	TypeBusiness Type = "business"
)

// Valid reports whether t is one of the three known kinds.
func (t Type) Valid() bool {
	switch t {
	case TypeConsumer, TypeDomain, TypeBusiness:
		return true
	}
	return false
}

// Status is the follow-up state an administrator moves a lead through.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusArchived  Status = "archived"
)

// Statuses lists every status in workflow order.
func Statuses() []Status {
	return []Status{StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusArchived}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, v := range Statuses() {
		if s == v {
			return true
		}
	}
	return false
}

var (
	// ErrNotFound is returned when no lead matches the id.
	ErrNotFound = errors.New("lead: not found")
	// ErrInvalid is returned when a lead fails field validation.
	ErrInvalid = errors.New("lead: invalid")
)

// Lead is one row of the leads table.
type Lead struct {
	ID          string         `db:"id" json:"id"`
	Type        Type           `db:"lead_type" json:"leadType" validate:"required,oneof=consumer domain business"`
	Domain      string         `db:"domain" json:"domain" validate:"required,max=255"`
	Email       string         `db:"email" json:"email" validate:"required,email,max=255"`
	FirstName   string         `db:"first_name" json:"firstName,omitempty" validate:"max=100"`
	LastName    string         `db:"last_name" json:"lastName,omitempty" validate:"max=100"`
	Phone       string         `db:"phone" json:"phone,omitempty" validate:"max=50"`
	Company     string         `db:"company" json:"company,omitempty" validate:"max=255"`
	Message     string         `db:"message" json:"message,omitempty"`
	Metadata    types.JSONText `db:"metadata" json:"metadata,omitempty"`
	IPAddress   string         `db:"ip_address" json:"ipAddress"`
	UserAgent   string         `db:"user_agent" json:"userAgent"`
	Referrer    string         `db:"referrer" json:"referrer"`
	UTMSource   string         `db:"utm_source" json:"utmSource,omitempty" validate:"max=100"`
	UTMMedium   string         `db:"utm_medium" json:"utmMedium,omitempty" validate:"max=100"`
	UTMCampaign string         `db:"utm_campaign" json:"utmCampaign,omitempty" validate:"max=100"`
	Status      Status         `db:"status" json:"status"`
	Notes       string         `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// Interaction is one follow-up note attached to a lead.
type Interaction struct {
	ID        string    `db:"id" json:"id"`
	LeadID    string    `db:"lead_id" json:"leadId"`
	Type      string    `db:"interaction_type" json:"interactionType"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Filter narrows List.  Zero fields are ignored; set fields are ANDed.
type Filter struct {
	Domain string
	Type   Type
	Status Status
	Limit  int
}

// DefaultLimit applies when Filter.Limit is zero or negative.
const DefaultLimit = 100
