// internal/maintenance/run.go
//
// Apply one rewrite to every domain config in a directory.
//
// Workflow
// --------
//  1. List <dir>/*.json in name order.
//  2. Skip files whose domain is on the op's protected list.
//  3. Parse into an Object, run the op, and write back only when the op
//     reports a change (unless DryRun).
//
// A file that cannot be read or parsed is recorded in Result.Errors and the
// run continues.  Writes go through a temp file and rename so a crash never
// leaves half a config behind.
package maintenance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Op rewrites one config in place.  changed reports whether doc differs
// from what was read.
type Op func(domain string, doc *Object) (changed bool, err error)

// Runner holds the directory and write mode shared by every op.
type Runner struct {
	Dir    string
	DryRun bool
}

// FileError names a config that could not be processed.
type FileError struct {
	Domain string `json:"domain"`
	Err    string `json:"error"`
}

// Result counts what a run did.
type Result struct {
	Updated   []string    `json:"updated"`
	Skipped   []string    `json:"skipped"`
	Unchanged int         `json:"unchanged"`
	Errors    []FileError `json:"errors,omitempty"`
}

// Total is the number of files the run looked at.
func (r Result) Total() int {
	return len(r.Updated) + len(r.Skipped) + r.Unchanged + len(r.Errors)
}

// Domains lists the config names in dir without the .json suffix.
func Domains(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}

// Run applies op to every config, leaving the domains in skip untouched.
func (r Runner) Run(name string, op Op, skip ...string) (Result, error) {
	var res Result
	domains, err := Domains(r.Dir)
	if err != nil {
		return res, fmt.Errorf("%s: %w", name, err)
	}
	protected := make(map[string]bool, len(skip))
	for _, d := range skip {
		protected[d] = true
	}

	log := zap.S().With("op", name, "dry_run", r.DryRun)
	for _, d := range domains {
		if protected[d] {
			log.Debugw("protected domain skipped", "domain", d)
			res.Skipped = append(res.Skipped, d)
			continue
		}

		changed, err := r.apply(d, op)
		switch {
		case errors.Is(err, errSkip):
			res.Skipped = append(res.Skipped, d)
		case err != nil:
			log.Warnw("config not processed", "domain", d, "err", err)
			res.Errors = append(res.Errors, FileError{Domain: d, Err: err.Error()})
		case changed:
			res.Updated = append(res.Updated, d)
		default:
			res.Unchanged++
		}
	}
	log.Infow("maintenance run complete",
		"updated", len(res.Updated), "skipped", len(res.Skipped),
		"unchanged", res.Unchanged, "errors", len(res.Errors))
	return res, nil
}

// errSkip lets an op mark a file as out of scope rather than unchanged.
var errSkip = errors.New("skip")

func (r Runner) apply(domain string, op Op) (bool, error) {
	doc, err := r.Load(domain)
	if err != nil {
		return false, err
	}
	changed, err := op(domain, doc)
	if err != nil || !changed || r.DryRun {
		return changed, err
	}
	return true, r.Save(domain, doc)
}

// Path returns the config file for domain.
func (r Runner) Path(domain string) string {
	return filepath.Join(r.Dir, domain+".json")
}

// Load reads and parses one config.
func (r Runner) Load(domain string) (*Object, error) {
	raw, err := os.ReadFile(r.Path(domain))
	if err != nil {
		return nil, err
	}
	return ParseObject(raw)
}

// Save writes doc to the domain's config file.
func (r Runner) Save(domain string, doc *Object) error {
	out, err := doc.Pretty()
	if err != nil {
		return fmt.Errorf("encode %s: %w", domain, err)
	}
	return WriteFileAtomic(r.Path(domain), out)
}

// WriteFileAtomic writes data next to path and renames it into place.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tz-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
