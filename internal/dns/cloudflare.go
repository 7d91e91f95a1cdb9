// internal/dns/cloudflare.go
//
// Apex CNAME records pointing tier-0 domains at the hosting edge.
//
// Context
// -------
// Every portfolio domain is its own Cloudflare zone.  Serving it from the
// shared renderer needs one record per zone: CNAME `@` →
// cname.vercel-dns.com with the Cloudflare proxy off, so TLS terminates at
// the host.  Ensure is idempotent: a zone that already has a CNAME at the
// apex is reported and left alone.
//
// Plan() produces the same records without touching the API, for bulk
// import or review.
package dns

import (
	"context"
	"errors"
	"fmt"

	cf "github.com/cloudflare/cloudflare-go"
	"go.uber.org/zap"
)

// Target is the CNAME content every apex record points at.
const Target = "cname.vercel-dns.com"

// Record is the bulk-import shape of one planned record.
type Record struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Proxied bool   `json:"proxied"`
}

// Plan returns the record each domain needs.
func Plan(domains []string) []Record {
	out := make([]Record, 0, len(domains))
	for _, d := range domains {
		out = append(out, Record{Type: "CNAME", Name: d, Content: Target})
	}
	return out
}

// API is the subset of *cloudflare.API the client uses.
type API interface {
	ZoneIDByName(zoneName string) (string, error)
	ListDNSRecords(ctx context.Context, rc *cf.ResourceContainer, params cf.ListDNSRecordsParams) ([]cf.DNSRecord, *cf.ResultInfo, error)
	CreateDNSRecord(ctx context.Context, rc *cf.ResourceContainer, params cf.CreateDNSRecordParams) (cf.DNSRecord, error)
}

// Client creates apex records through the Cloudflare API.
type Client struct {
	api API
}

// New returns a Client authenticated with an API token.
func New(token string) (*Client, error) {
	if token == "" {
		return nil, errors.New("cloudflare: API token is empty")
	}
	api, err := cf.NewWithAPIToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudflare API client: %w", err)
	}
	return &Client{api: api}, nil
}

// NewWithAPI wraps an existing API implementation.
func NewWithAPI(api API) *Client { return &Client{api: api} }

// Outcome values for Result.
const (
	Created = "created"
	Exists  = "exists"
	Failed  = "error"
)

// Result is one domain's outcome.
type Result struct {
	Domain   string `json:"domain"`
	Outcome  string `json:"outcome"`
	RecordID string `json:"recordId,omitempty"`
	Err      string `json:"error,omitempty"`
}

// Ensure creates the apex CNAME for each domain.  Errors are per domain;
// the loop stops early only when ctx is cancelled.
func (c *Client) Ensure(ctx context.Context, domains []string) []Result {
	out := make([]Result, 0, len(domains))
	for _, d := range domains {
		if ctx.Err() != nil {
			break
		}
		res := c.ensureOne(ctx, d)
		if res.Outcome == Failed {
			zap.S().Warnw("cloudflare record failed", "domain", d, "err", res.Err)
		} else {
			zap.S().Infow("cloudflare record", "domain", d, "outcome", res.Outcome, "id", res.RecordID)
		}
		out = append(out, res)
	}
	return out
}

func (c *Client) ensureOne(ctx context.Context, domain string) Result {
	res := Result{Domain: domain, Outcome: Failed}

	zoneID, err := c.api.ZoneIDByName(domain)
	if err != nil {
		res.Err = fmt.Sprintf("zone lookup: %v", err)
		return res
	}
	zone := cf.ZoneIdentifier(zoneID)

	existing, _, err := c.api.ListDNSRecords(ctx, zone, cf.ListDNSRecordsParams{Type: "CNAME", Name: domain})
	if err != nil {
		res.Err = fmt.Sprintf("list records: %v", err)
		return res
	}
	if len(existing) > 0 {
		res.Outcome, res.RecordID = Exists, existing[0].ID
		return res
	}

	proxied := false
	rec, err := c.api.CreateDNSRecord(ctx, zone, cf.CreateDNSRecordParams{
		Type:    "CNAME",
		Name:    "@",
		Content: Target,
		TTL:     1, // automatic
		Proxied: &proxied,
	})
	if err != nil {
		res.Err = fmt.Sprintf("create record: %v", err)
		return res
	}
	res.Outcome, res.RecordID = Created, rec.ID
	return res
}
