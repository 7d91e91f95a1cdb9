// internal/maintenance/ops.go
//
// The config rewrites behind the configtool sub-commands.
//
// Every op is an Op: it receives the parsed document and reports whether it
// changed anything.  Keys an op does not touch keep their order and their
// exact encoding.
package maintenance

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/yanizio/tierzero/internal/controls"
	"github.com/yanizio/tierzero/internal/site"
)

// Domains with hand-built content that bulk rewrites leave alone.
var (
	ProtectedSale    = []string{"brewhaus.com.au", "seosem.com.au"}
	ProtectedContent = []string{"brewhaus.com.au", "seosem.com.au", "hero-demo.com.au", "landing-demo.com.au"}
)

// ValidThemes are the themes fix-templates accepts as-is.
var ValidThemes = []string{"basic", "professional", "terminal"}

// TopLevelOrder is the key order move-seo-to-top writes.
var TopLevelOrder = []string{
	"domain", "seo", "template", "controls", "features", "contentBoxes", "ads", "emailCapture",
}

/*──────────────────────────── migrate-controls ─────────────────────────────*/

// MigrateControls derives a controls block from the legacy switches and
// inserts it after template.  Configs that already have controls are
// skipped.
func MigrateControls(_ string, doc *Object) (bool, error) {
	if doc.Has("controls") {
		return false, errSkip
	}
	domain, _ := doc.Child("domain")
	features, _ := doc.Child("features")
	ads, _ := doc.Child("ads")
	boxes, _ := doc.Child("contentBoxes")

	positions := make(map[string]bool, len(controls.PositionKeys))
	for _, k := range controls.PositionKeys {
		positions[k] = true
	}
	for _, key := range boxes.Keys() {
		pos, ok := controls.AdPositionKey(key)
		if !ok {
			continue
		}
		box, _ := boxes.Child(key)
		if en := box.Bool("enabled"); en != nil && !*en {
			positions[pos] = false
		}
	}

	block := site.Controls{
		Forms: &site.FormControls{
			EmailCapture:    orDefault(features.Bool("showEmailCapture"), true),
			DomainInquiry:   orDefault(domain.Bool("forSale"), false),
			BusinessInquiry: orDefault(nil, false),
		},
		Ads: &site.AdControls{
			GlobalEnabled: orDefault(ads.Bool("enabled"), false),
			Positions:     positions,
		},
		Analytics: orDefault(features.Bool("enableAnalytics"), true),
	}
	return true, doc.InsertAfter("template", "controls", block)
}

func orDefault(b *bool, def bool) *bool {
	if b != nil {
		return b
	}
	return &def
}

/*──────────────────────────── domain sale ──────────────────────────────────*/

// EnableDomainSale marks the domain for sale and switches on the inquiry
// form when a controls.forms block exists.
func EnableDomainSale(_ string, doc *Object) (bool, error) {
	changed := false

	if domain, ok := doc.Child("domain"); ok {
		if b := domain.Bool("forSale"); b == nil || !*b {
			if err := domain.Set("forSale", true); err != nil {
				return false, err
			}
			if err := doc.Set("domain", domain); err != nil {
				return false, err
			}
			changed = true
		}
	}

	ctl, ok := doc.Child("controls")
	if !ok {
		return changed, nil
	}
	forms, ok := ctl.Child("forms")
	if !ok {
		return changed, nil
	}
	if b := forms.Bool("domainInquiry"); b != nil && *b {
		return changed, nil
	}
	if err := setPath(doc, true, "controls", "forms", "domainInquiry"); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveDomainInquiry deletes controls.forms.domainInquiry so domain.forSale
// is the only switch for the inquiry form.
func RemoveDomainInquiry(_ string, doc *Object) (bool, error) {
	ctl, _ := doc.Child("controls")
	forms, ok := ctl.Child("forms")
	if !ok || !forms.Has("domainInquiry") {
		return false, nil
	}
	forms.Delete("domainInquiry")
	if err := ctl.Set("forms", forms); err != nil {
		return false, err
	}
	return true, doc.Set("controls", ctl)
}

/*──────────────────────────── layout ───────────────────────────────────────*/

// MoveSEOToTop rewrites the top-level key order to TopLevelOrder followed
// by any other keys.
func MoveSEOToTop(_ string, doc *Object) (bool, error) {
	before := strings.Join(doc.Keys(), ",")
	doc.Reorder(TopLevelOrder)
	return strings.Join(doc.Keys(), ",") != before, nil
}

// FixTemplates forces the landing template, resets unknown themes to basic,
// and collapses hero boxes into a single landing headline.
func FixTemplates(domain string, doc *Object) (bool, error) {
	tpl, _ := doc.Child("template")
	fixed := false

	if tpl.String("type") != site.TemplateLanding {
		if err := tpl.Set("type", site.TemplateLanding); err != nil {
			return false, err
		}
		fixed = true
	}
	if th := tpl.String("theme"); th != "" && !contains(ValidThemes, th) {
		if err := tpl.Set("theme", "basic"); err != nil {
			return false, err
		}
		fixed = true
	}
	if !fixed {
		return false, nil
	}
	if err := doc.Set("template", tpl); err != nil {
		return false, err
	}

	boxes, ok := doc.Child("contentBoxes")
	if !ok || boxes.Has("main") {
		return true, nil
	}
	var headline struct {
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
	}
	for _, key := range []string{"main-headline", "hero-headline"} {
		box, _ := boxes.Child(key)
		if box.Get("content", &headline) {
			break
		}
	}
	name := DomainName(domain, doc)
	title := first(headline.Title, "Welcome to "+name)
	subtitle := first(headline.Subtitle, domainDescription(doc), "Coming soon")
	return true, doc.Set("contentBoxes", mainHeadline(title, subtitle))
}

// SimplifyLanding reduces a landing config's boxes to one main headline,
// keeping the existing title and subtitle when present.
func SimplifyLanding(domain string, doc *Object) (bool, error) {
	tpl, _ := doc.Child("template")
	if tpl.String("type") != site.TemplateLanding {
		return false, errSkip
	}

	var cur struct {
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
	}
	boxes, _ := doc.Child("contentBoxes")
	box, _ := boxes.Child("main")
	box.Get("content", &cur)

	title := first(cur.Title, "Welcome to "+DisplayName(DomainName(domain, doc)))
	subtitle := first(cur.Subtitle, domainDescription(doc), "Your premium Australian domain. Coming soon.")

	next, err := encode(mainHeadline(title, subtitle))
	if err != nil {
		return false, err
	}
	if sameJSON(doc.Raw("contentBoxes"), next) {
		return false, nil
	}
	doc.SetRaw("contentBoxes", next)
	return true, nil
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

type headlineBox struct {
	Type     string            `json:"type"`
	Position string            `json:"position"`
	Content  map[string]string `json:"content"`
}

func mainHeadline(title, subtitle string) map[string]headlineBox {
	return map[string]headlineBox{
		"main": {
			Type:     "headline",
			Position: "main",
			Content:  map[string]string{"title": title, "subtitle": subtitle},
		},
	}
}

// DomainName returns domain.name, a legacy string-valued domain, or the
// file's own name.
func DomainName(file string, doc *Object) string {
	if d, ok := doc.Child("domain"); ok {
		if n := d.String("name"); n != "" {
			return n
		}
	}
	if n := doc.String("domain"); n != "" {
		return n
	}
	return file
}

// DisplayName turns "best-coffee.com.au" into "Best Coffee".
func DisplayName(domain string) string {
	base := strings.Replace(domain, ".com.au", "", 1)
	base = strings.Replace(base, ".net.au", "", 1)
	words := strings.Split(base, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func domainDescription(doc *Object) string {
	d, _ := doc.Child("domain")
	return d.String("description")
}

// setPath stores v at the nested key path, creating objects on the way.
func setPath(doc *Object, v any, path ...string) error {
	if len(path) == 1 {
		return doc.Set(path[0], v)
	}
	child, _ := doc.Child(path[0])
	if err := setPath(child, v, path[1:]...); err != nil {
		return err
	}
	return doc.Set(path[0], child)
}

func sameJSON(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
