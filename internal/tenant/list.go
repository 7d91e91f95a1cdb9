package tenant

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Summary is one row of the domain index.
type Summary struct {
	Name      string `json:"name"`
	Template  string `json:"template,omitempty"`
	Theme     string `json:"theme,omitempty"`
	ColorMode string `json:"colorMode,omitempty"`
	Disabled  bool   `json:"disabled,omitempty"`
}

// List reads every *.json in the configs directory, sorted by name.  A file
// that does not parse is listed by name only.  List never touches the cache.
func (c *Cache) List() ([]Summary, error) {
	return ListDir(c.opts.Dir)
}

// Exists reports whether a config file is present for domain.
func (c *Cache) Exists(domain string) bool {
	key := CleanDomain(domain)
	if !validKey(key) {
		return false
	}
	_, err := os.Stat(filepath.Join(c.opts.Dir, key+".json"))
	return err == nil
}

// ListDir is List for an arbitrary directory.
func ListDir(dir string) ([]Summary, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]Summary, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		s := Summary{Name: strings.TrimSuffix(f.Name(), ".json")}

		var head struct {
			Template struct {
				Type      string `json:"type"`
				Theme     string `json:"theme"`
				ColorMode string `json:"colorMode"`
			} `json:"template"`
			Disabled bool `json:"disabled"`
		}
		if raw, err := os.ReadFile(filepath.Join(dir, f.Name())); err == nil && json.Unmarshal(raw, &head) == nil {
			s.Template = head.Template.Type
			s.Theme = head.Template.Theme
			s.ColorMode = head.Template.ColorMode
			s.Disabled = head.Disabled
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
