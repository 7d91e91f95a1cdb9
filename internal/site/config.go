// internal/site/config.go
//
// Parsing and structural checks for domain configs.
//
// Parse is deliberately lenient: the renderer must keep serving configs
// written by older tooling.  Lint is the strict counterpart used by the
// maintenance CLI; it reports problems without refusing the file.
package site

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Parse decodes one config file.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse domain config: %w", err)
	}
	return &cfg, nil
}

// Lint returns one message per failed validation rule.  A nil slice means
// the config is clean.
func Lint(cfg *Config) []string {
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return out
}
