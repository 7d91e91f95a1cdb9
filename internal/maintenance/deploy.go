// internal/maintenance/deploy.go
//
// Batch deployment of tier-0 configs from the portfolio CSV.
//
// Context
// -------
// The portfolio spreadsheet lists every owned domain with a one-line
// business idea and a model type.  Deploy turns each row into a starter
// config: template, theme, and ad network are guessed from the row, brand
// colours come from the portfolio workspace, and the copy is a placeholder
// the content pipeline fills in later (hence the aiPrompt hints).
//
// Rows are skipped when a config already exists or when the portfolio says
// a higher tier is live.  Existing configs are never overwritten.
package maintenance

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/portfolio"
	"github.com/yanizio/tierzero/internal/site"
	"github.com/yanizio/tierzero/internal/tenant"
)

// Record is one CSV row keyed by column header.
type Record map[string]string

func (r Record) Name() string     { return tenant.CleanDomain(r["Name"]) }
func (r Record) Idea() string     { return strings.TrimSpace(r["Business Idea"]) }
func (r Record) Model() string    { return strings.TrimSpace(r["Model Type"]) }
func (r Record) Revenue() float64 { return number(r["Totals Revenue"], "$") }
func (r Record) CTR() float64     { return number(r["Totals CTR"], "%") }

func number(s, unit string) float64 {
	s = strings.NewReplacer(unit, "", ",", "").Replace(strings.TrimSpace(s))
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// ReadCSV parses the portfolio list.  The first row is the header.  Rows
// may be short or long, and a malformed row is logged and dropped.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var out []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			zap.S().Warnw("csv row skipped", "line", pe.Line, "err", pe.Err)
			continue
		}
		if err != nil {
			return out, err
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		if rec.Name() != "" {
			out = append(out, rec)
		}
	}
}

/*──────────────────────────── heuristics ───────────────────────────────────*/

var heroModels = []string{"directory", "platform", "comparison", "community", "membership", "marketplace"}

// SelectTemplate picks hero for multi-section business models.
func SelectTemplate(r Record) string {
	if containsAny(strings.ToLower(r.Model()), heroModels...) {
		return site.TemplateHero
	}
	return site.TemplateLanding
}

// SelectTheme maps the business idea (and model type) to a theme.  The
// first matching rule wins.
func SelectTheme(r Record) string {
	idea := strings.ToLower(r.Idea())
	model := strings.ToLower(r.Model())
	switch {
	case containsAny(idea, "tech", "software", "app"):
		return "technology"
	case containsAny(idea, "insurance", "loan", "finance", "money", "investment"):
		return "finance"
	case strings.Contains(model, "e-commerce") || containsAny(idea, "shop", "store"):
		return "ecommerce"
	case containsAny(idea, "lawyer", "service", "consulting"):
		return "professional"
	case containsAny(idea, "art", "design", "creative"):
		return "creative"
	case strings.Contains(model, "comparison") || strings.Contains(idea, "compare"):
		return "comparison"
	}
	return "basic"
}

// SelectAdNetwork returns "adsense" for domains with a revenue or CTR
// history, else "".
func SelectAdNetwork(r Record) string {
	if r.Revenue() > 0 || r.CTR() > 5 {
		return "adsense"
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

/*──────────────────────────── generation ───────────────────────────────────*/

// GenerateConfig builds the starter config for one row.
func GenerateConfig(r Record, brand *site.BrandColors) (*Object, error) {
	name := r.Name()
	tplType := SelectTemplate(r)
	network := SelectAdNetwork(r)
	title := DisplayName(name)
	desc := first(r.Idea(), "Welcome to "+name)

	forSale := true
	tpl := site.Template{Type: tplType, Theme: SelectTheme(r), BrandColors: brand}
	enabled := network != ""

	doc := NewObject()
	steps := []struct {
		key string
		val any
	}{
		{"domain", site.Domain{Name: name, Status: site.StatusComingSoon, ForSale: &forSale, Description: desc}},
		{"seo", site.SEO{Title: title, Description: desc}},
		{"template", tpl},
		{"contentBoxes", starterBoxes(r, tplType, title)},
		{"ads", site.Ads{Enabled: &enabled, Network: network}},
	}
	for _, s := range steps {
		if err := doc.Set(s.key, s.val); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

type starterBox struct {
	Type     string         `json:"type"`
	Position string         `json:"position"`
	Content  map[string]any `json:"content"`
	AIPrompt string         `json:"aiPrompt,omitempty"`
}

func starterBoxes(r Record, tplType, title string) *Object {
	idea, model := r.Idea(), r.Model()
	boxes := NewObject()
	if tplType != site.TemplateHero {
		_ = boxes.Set("main", starterBox{
			Type: "headline", Position: "main",
			Content:  map[string]any{"title": title, "subtitle": first(idea, "Welcome to "+r.Name())},
			AIPrompt: "Generate engaging content for a " + model + " website about: " + idea,
		})
		return boxes
	}
	_ = boxes.Set("hero-headline", starterBox{
		Type: "headline", Position: "hero-headline",
		Content:  map[string]any{"title": "Discover " + title, "subtitle": idea},
		AIPrompt: "Generate a compelling headline for: " + idea,
	})
	_ = boxes.Set("main-content", starterBox{
		Type: "text", Position: "main-content",
		Content:  map[string]any{"text": first(idea, "Content for "+r.Name())},
		AIPrompt: "Generate engaging content for a " + model + " website about: " + idea,
	})
	_ = boxes.Set("feature-grid", starterBox{
		Type: "features-grid", Position: "feature-grid",
		Content:  map[string]any{},
		AIPrompt: "Generate three key features for: " + idea,
	})
	return boxes
}

/*──────────────────────────── deploy ───────────────────────────────────────*/

// Deploy outcome values.
const (
	Deployed = "deployed"
	Skipped  = "skipped"
	Failed   = "error"
)

// DeployResult is one row's outcome.
type DeployResult struct {
	Domain string  `json:"domain"`
	Status string  `json:"status"`
	Reason string  `json:"reason"`
	Config *Object `json:"config,omitempty"`
}

// DeployReport is written to deployment-report.json.
type DeployReport struct {
	Timestamp time.Time `json:"timestamp"`
	Summary   struct {
		Deployed int `json:"deployed"`
		Skipped  int `json:"skipped"`
		Errors   int `json:"errors"`
		Total    int `json:"total"`
	} `json:"summary"`
	Results []DeployResult `json:"results"`
}

// Deploy writes a starter config for every eligible record.
func (r Runner) Deploy(records []Record, src portfolio.Source) DeployReport {
	rep := DeployReport{Timestamp: time.Now().UTC()}
	if !r.DryRun {
		if err := os.MkdirAll(r.Dir, 0o755); err != nil {
			zap.S().Errorw("create configs dir", "dir", r.Dir, "err", err)
		}
	}
	for _, rec := range records {
		res := r.deployOne(rec, src)
		switch res.Status {
		case Deployed:
			rep.Summary.Deployed++
		case Skipped:
			rep.Summary.Skipped++
		default:
			rep.Summary.Errors++
		}
		zap.S().Infow("deploy", "domain", res.Domain, "status", res.Status, "reason", res.Reason)
		rep.Results = append(rep.Results, res)
	}
	rep.Summary.Total = len(records)
	return rep
}

func (r Runner) deployOne(rec Record, src portfolio.Source) DeployResult {
	name := rec.Name()
	res := DeployResult{Domain: name}
	if !strings.Contains(name, ".") || strings.Contains(name, "..") {
		res.Status, res.Reason = Failed, "invalid domain name"
		return res
	}

	st := src.Check(name)
	if st.HigherTierLive() {
		res.Status, res.Reason = Skipped, "Higher tier active ("+st.Phase+")"
		return res
	}
	if _, err := os.Stat(r.Path(name)); err == nil {
		res.Status, res.Reason = Skipped, "Config already exists"
		return res
	}

	doc, err := GenerateConfig(rec, st.Brand)
	if err != nil {
		res.Status, res.Reason = Failed, "Error: "+err.Error()
		return res
	}
	if !r.DryRun {
		if err := r.Save(name, doc); err != nil {
			res.Status, res.Reason = Failed, "Error: "+err.Error()
			return res
		}
	}
	res.Status, res.Reason, res.Config = Deployed, "Successfully deployed", doc
	return res
}

// WriteReport writes v as indented JSON.
func WriteReport(path string, v any) error {
	raw, err := encode(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	return WriteFileAtomic(path, buf.Bytes())
}
