// internal/portfolio/portfolio.go
//
// Read-only view of the portfolio workspace.
//
// Context
// -------
// Every domain in the portfolio has a directory under DOMAIN8_PATH.  Its
// status.json says how far the higher-tier build has progressed, and the
// branding pack may carry a colour palette.  Tier 0 steps aside once a
// higher tier is live, and inherits the palette while it is not.
//
// Layout
// ------
//
//	<root>/<domain>/status.json
//	<root>/<domain>/03-branding/brand-visual.json
//	<root>/<domain>/website/
//
// Unreadable or malformed files are logged and treated as absent.
package portfolio

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/site"
)

// EnvRoot names the environment variable holding the workspace root.
const EnvRoot = "DOMAIN8_PATH"

// Source reads one workspace.
type Source struct {
	Root string
}

// FromEnv returns a Source rooted at $DOMAIN8_PATH.
func FromEnv() Source { return Source{Root: os.Getenv(EnvRoot)} }

// Report is the portfolio's view of one domain.
type Report struct {
	Exists       bool              `json:"exists"`
	Phase        string            `json:"phase,omitempty"`
	Status       string            `json:"status,omitempty"`
	Tier0Enabled bool              `json:"tier0Enabled"`
	Brand        *site.BrandColors `json:"brandColors,omitempty"`
	HasWebsite   bool              `json:"hasWebsite"`
}

// HigherTierLive reports whether the domain has moved past tier 0.
func (r Report) HigherTierLive() bool { return r.Exists && !r.Tier0Enabled }

type statusFile struct {
	CurrentPhase string `json:"current_phase"`
	Status       string `json:"status"`
	Tier0        *struct {
		Enabled *bool `json:"enabled"`
	} `json:"tier0"`
}

type hexColor struct {
	Hex string `json:"hex"`
}

type brandFile struct {
	Palette struct {
		Primary   hexColor   `json:"primary"`
		Secondary hexColor   `json:"secondary"`
		Accent    []hexColor `json:"accent"`
	} `json:"color_palette"`
}

// Check builds the report for domain.  A domain with no directory (or a
// Source with no root) is not in the portfolio and keeps tier 0 enabled.
func (s Source) Check(domain string) Report {
	if s.Root == "" {
		return Report{Tier0Enabled: true}
	}
	dir := filepath.Join(s.Root, domain)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return Report{Tier0Enabled: true}
	}

	rep := Report{Exists: true, Phase: "unknown", Status: "unknown"}

	var st statusFile
	disabled := false
	if readJSON(filepath.Join(dir, "status.json"), &st) {
		if st.CurrentPhase != "" {
			rep.Phase = st.CurrentPhase
		}
		if st.Status != "" {
			rep.Status = st.Status
		}
		disabled = st.Tier0 != nil && st.Tier0.Enabled != nil && !*st.Tier0.Enabled
	}
	live := strings.Contains(st.CurrentPhase, "live") ||
		strings.Contains(st.CurrentPhase, "production") ||
		st.Status == "deployed"
	rep.Tier0Enabled = !live && !disabled

	var bf brandFile
	if readJSON(filepath.Join(dir, "03-branding", "brand-visual.json"), &bf) && bf.Palette.Primary.Hex != "" {
		rep.Brand = &site.BrandColors{
			Primary:   bf.Palette.Primary.Hex,
			Secondary: bf.Palette.Secondary.Hex,
		}
		if len(bf.Palette.Accent) > 0 {
			rep.Brand.Accent = bf.Palette.Accent[0].Hex
		}
	}

	if fi, err := os.Stat(filepath.Join(dir, "website")); err == nil && fi.IsDir() {
		rep.HasWebsite = true
	}
	return rep
}

// Domains lists the workspace's domain directories (names containing a
// dot), sorted.  A missing root yields nil.
func (s Source) Domains() ([]string, error) {
	if s.Root == "" {
		return nil, nil
	}
	ents, err := os.ReadDir(s.Root)
	if errors.Is(err, fs.ErrNotExist) {
		zap.S().Warnw("portfolio root not found", "path", s.Root)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		if e.IsDir() && strings.Contains(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func readJSON(path string, dst any) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			zap.S().Warnw("portfolio read failed", "path", path, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		zap.S().Warnw("portfolio file malformed", "path", path, "err", err)
		return false
	}
	return true
}
