// internal/form/definition.go
//
// Forms subsystem: YAML definition loader.
//
// Context
//   Every universal form is declared in YAML.  A definition names the form,
//   carries its default copy (title, description, button, and success text),
//   lists its fields, and says which lead kind a submission becomes.  The
//   three built-in definitions are embedded from defs/ and registered at
//   init; RegisterDir lets an installation override or add forms without a
//   rebuild.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef / ActionDef.
//   •  Parse decodes one document and validates structural rules.
//   •  RegisterDir loads every “*.yaml” in a directory, replacing built-ins
//      that share an ID.
//   •  Get offers safe, read-only access to a parsed form by ID.
//
// Style
//   Full sentences, two spaces after periods, Oxford commas.  Helper
//   comments use short noun phrases.
//
//------------------------------------------------------------------------------

package form

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/tierzero/internal/lead"
)

// Built-in form IDs.
const (
	EmailCaptureID    = "email-capture"
	DomainInquiryID   = "domain-inquiry"
	BusinessInquiryID = "business-inquiry"
)

//go:embed defs/*.yaml
var builtin embed.FS

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
type FormDef struct {
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"` // “{domain}” is replaced at render time.
	Button      string      `yaml:"button"`
	Success     string      `yaml:"success"`
	LeadType    lead.Type   `yaml:"lead_type"`
	Fields      []FieldDef  `yaml:"fields"`
	Actions     []ActionDef `yaml:"actions"`
}

// FieldDef describes a single input control.  Validation metadata lives
// inline so the server enforces the same rules the browser hints at.
type FieldDef struct {
	Name        string   `yaml:"name"`        // Submission key.  Required.
	Label       string   `yaml:"label"`       // Human-readable label.  Required.
	Type        string   `yaml:"type"`        // text, email, tel, number, textarea, select.
	Placeholder string   `yaml:"placeholder"` // Optional placeholder text.
	Required    bool     `yaml:"required"`
	MinLength   int      `yaml:"minlength"` // 0 means unset.
	MaxLength   int      `yaml:"maxlength"` // 0 means unset.
	Pattern     string   `yaml:"pattern"`
	Options     []Option `yaml:"options"` // For select.
	ErrorMsg    string   `yaml:"error"`
	Lead        string   `yaml:"lead"` // Target lead column.  Empty means metadata.
}

// Option is one select choice.  YAML accepts either a bare scalar (value
// doubles as label) or a {value, label} mapping.
type Option struct {
	Value string
	Label string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *Option) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		o.Value, o.Label = n.Value, n.Value
		return nil
	}
	var raw struct {
		Value string `yaml:"value"`
		Label string `yaml:"label"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	o.Value, o.Label = raw.Value, raw.Label
	if o.Label == "" {
		o.Label = o.Value
	}
	return nil
}

// ActionDef configures an automated step executed after validation.
type ActionDef struct {
	Type   string         `yaml:"type"`    // store, log.
	Params map[string]any `yaml:",inline"` // Provider-specific fields inline.
}

// leadColumns are the lead fields a FieldDef may target.
var leadColumns = map[string]bool{
	"email":      true,
	"first_name": true,
	"last_name":  true,
	"phone":      true,
	"company":    true,
	"message":    true,
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*FormDef)
)

func init() {
	if err := registerFS(builtin, "defs"); err != nil {
		panic(fmt.Sprintf("form: built-in definitions: %v", err))
	}
}

// Get returns a parsed FormDef by ID.  The boolean is false when the ID is
// unknown.
func Get(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// IDs lists every registered form, sorted.
func IDs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// Parse decodes one YAML document, validates its structure, and returns a
// populated FormDef.  It NEVER mutates the registry.  name is used in error
// messages only.
func Parse(raw []byte, name string) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", name, err)
	}
	if err := validateFormDef(&fd, name); err != nil {
		return nil, err
	}
	return &fd, nil
}

// RegisterDir loads every “*.yaml” in dir.  A missing directory is not an
// error.  Definitions replace built-ins with the same ID.
func RegisterDir(dir string) error {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return registerFS(os.DirFS(filepath.Clean(dir)), ".")
}

func registerFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue // skip non-YAML
		}
		p := path.Join(dir, e.Name())
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		fd, err := Parse(raw, p)
		if err != nil {
			return err // fail fast so issues surface loudly.
		}
		register(fd)
	}
	return nil
}

// register inserts or overrides the form in the registry.  Caller must
// ensure the FormDef passed validation.
func register(fd *FormDef) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[fd.ID]; dup {
		zap.S().Infow("form definition overridden", "form", fd.ID)
	}
	registry[fd.ID] = fd
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// validateFormDef enforces structural rules that cannot be expressed via YAML
// tags alone.
func validateFormDef(fd *FormDef, name string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", name)
	}
	if !fd.LeadType.Valid() {
		return fmt.Errorf("form %s: lead_type %q is not consumer, domain, or business", name, fd.LeadType)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", name)
	}

	fieldNames := make(map[string]struct{})
	hasEmail := false
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, name); err != nil {
			return err
		}
		if _, dup := fieldNames[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", name, f.Name)
		}
		fieldNames[f.Name] = struct{}{}
		if f.Lead == "email" {
			hasEmail = true
		}
	}
	if !hasEmail {
		return fmt.Errorf("form %s: no field maps to the lead email", name)
	}
	if _, clash := fieldNames["domain"]; clash {
		return fmt.Errorf("form %s: field name 'domain' is reserved", name)
	}

	for _, ac := range fd.Actions {
		if ac.Type != "store" && ac.Type != "log" {
			zap.S().Warnw("unrecognized form action", "form", fd.ID, "action", ac.Type)
		}
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, name string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", name)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", name, f.Name)
	}
	switch f.Type {
	case "text", "email", "tel", "number", "textarea":
	case "select":
		if len(f.Options) == 0 {
			return fmt.Errorf("form %s: select '%s' has no options", name, f.Name)
		}
	case "":
		return fmt.Errorf("form %s: field '%s' missing 'type'", name, f.Name)
	default:
		return fmt.Errorf("form %s: field '%s' has unsupported type %q", name, f.Name, f.Type)
	}

	if f.Pattern != "" {
		if _, err := regexp.Compile(f.Pattern); err != nil {
			return fmt.Errorf("form %s: field '%s' invalid regex pattern: %v", name, f.Name, err)
		}
	}
	if f.MinLength < 0 || f.MaxLength < 0 {
		return fmt.Errorf("form %s: field '%s' minlength/maxlength cannot be negative", name, f.Name)
	}
	if f.MaxLength > 0 && f.MinLength > f.MaxLength {
		return fmt.Errorf("form %s: field '%s' minlength greater than maxlength", name, f.Name)
	}
	if f.Lead != "" && !leadColumns[f.Lead] {
		return fmt.Errorf("form %s: field '%s' maps to unknown lead column %q", name, f.Name, f.Lead)
	}
	return nil
}
