// internal/maintenance/sync.go
//
// Keep tier-0 configs in step with the portfolio.
//
// Workflow
// --------
//   - Higher tier live: mark the config disabled with the phase as reason.
//     The renderer answers 404 for disabled configs.
//   - Otherwise: clear a previous disable and copy the portfolio's brand
//     colours into template.brandColors when they differ.
//
// Domains without a config are reported unchanged; sync never creates one.
package maintenance

import (
	"errors"
	"io/fs"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/portfolio"
)

// Sync actions.
const (
	ActionDisabled  = "disabled"
	ActionEnabled   = "enabled"
	ActionUpdated   = "updated"
	ActionUnchanged = "unchanged"
)

// SyncResult is one domain's outcome.
type SyncResult struct {
	Domain string `json:"domain"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// SyncReport is written to sync-report.json.
type SyncReport struct {
	Timestamp time.Time      `json:"timestamp"`
	Summary   map[string]int `json:"summary"`
	Results   []SyncResult   `json:"results"`
}

// SyncTargets merges extra (usually the CSV names) with the existing
// configs, de-duplicated and sorted.
func (r Runner) SyncTargets(extra []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(d string) {
		if d != "" && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	for _, d := range extra {
		add(d)
	}
	existing, err := Domains(r.Dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		zap.S().Warnw("list configs", "dir", r.Dir, "err", err)
	}
	for _, d := range existing {
		add(d)
	}
	sort.Strings(out)
	return out
}

// Sync reconciles every domain in domains with the portfolio.
func (r Runner) Sync(domains []string, src portfolio.Source) SyncReport {
	rep := SyncReport{
		Timestamp: time.Now().UTC(),
		Summary: map[string]int{
			ActionDisabled: 0, ActionEnabled: 0, ActionUpdated: 0, ActionUnchanged: 0,
		},
	}
	for _, d := range domains {
		res, err := r.syncOne(d, src)
		if err != nil {
			zap.S().Warnw("sync failed", "domain", d, "err", err)
			rep.Summary["errors"]++
			res = SyncResult{Domain: d, Action: "error", Reason: err.Error()}
		} else {
			rep.Summary[res.Action]++
		}
		zap.S().Infow("sync", "domain", d, "action", res.Action, "reason", res.Reason)
		rep.Results = append(rep.Results, res)
	}
	rep.Summary["total"] = len(domains)
	return rep
}

func (r Runner) syncOne(domain string, src portfolio.Source) (SyncResult, error) {
	res := SyncResult{Domain: domain, Action: ActionUnchanged}
	st := src.Check(domain)

	doc, err := r.Load(domain)
	if errors.Is(err, fs.ErrNotExist) {
		res.Reason = "No tier0 config exists"
		if st.HigherTierLive() {
			res.Reason = "No tier0 config to disable"
		}
		return res, nil
	}
	if err != nil {
		return res, err
	}

	if st.HigherTierLive() {
		reason := "Higher tier active: " + st.Phase
		if b := doc.Bool("disabled"); b != nil && *b && doc.String("disabledReason") == reason {
			res.Reason = "Already disabled"
			return res, nil
		}
		if err := doc.Set("disabled", true); err != nil {
			return res, err
		}
		if err := doc.Set("disabledReason", reason); err != nil {
			return res, err
		}
		res.Action, res.Reason = ActionDisabled, "Higher tier active ("+st.Phase+")"
		return res, r.save(domain, doc)
	}

	if doc.Has("disabled") {
		doc.Delete("disabled")
		doc.Delete("disabledReason")
		res.Action, res.Reason = ActionEnabled, "Re-enabled tier0"
	}

	if st.Brand != nil {
		tpl, _ := doc.Child("template")
		next, err := encode(st.Brand)
		if err != nil {
			return res, err
		}
		if !sameJSON(tpl.Raw("brandColors"), next) {
			tpl.SetRaw("brandColors", next)
			if err := doc.Set("template", tpl); err != nil {
				return res, err
			}
			if res.Action == ActionUnchanged {
				res.Action, res.Reason = ActionUpdated, "Updated brand colors"
			}
		}
	}

	if res.Action == ActionUnchanged {
		res.Reason = "Config up to date"
		return res, nil
	}
	return res, r.save(domain, doc)
}

func (r Runner) save(domain string, doc *Object) error {
	if r.DryRun {
		return nil
	}
	return r.Save(domain, doc)
}

// StatusReport combines the portfolio view with the local config state.
type StatusReport struct {
	Domain         string           `json:"domain"`
	Portfolio      portfolio.Report `json:"portfolio"`
	HasConfig      bool             `json:"hasConfig"`
	Disabled       bool             `json:"disabled"`
	DisabledReason string           `json:"disabledReason,omitempty"`
	Template       string           `json:"template,omitempty"`
	Theme          string           `json:"theme,omitempty"`
}

// Status reports on a single domain.
func (r Runner) Status(domain string, src portfolio.Source) (StatusReport, error) {
	rep := StatusReport{Domain: domain, Portfolio: src.Check(domain)}
	doc, err := r.Load(domain)
	if errors.Is(err, fs.ErrNotExist) {
		return rep, nil
	}
	if err != nil {
		return rep, err
	}
	rep.HasConfig = true
	if b := doc.Bool("disabled"); b != nil {
		rep.Disabled = *b
	}
	rep.DisabledReason = doc.String("disabledReason")
	tpl, _ := doc.Child("template")
	rep.Template, rep.Theme = tpl.String("type"), tpl.String("theme")
	return rep, nil
}
