package tenant

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/metrics"
	"github.com/yanizio/tierzero/internal/site"
)

var (
	// ErrNotFound is returned when no usable config exists for a domain.
	ErrNotFound = errors.New("tenant: config not found")
	// ErrDisabled is returned for a config switched off by the portfolio
	// sync because a higher tier is live.
	ErrDisabled = errors.New("tenant: config disabled")
)

// readConfig loads <dir>/<key>.json.  A missing or unparsable file is
// ErrNotFound; the parse error is logged.
func readConfig(dir, key string) (*site.Config, error) {
	if !validKey(key) {
		return nil, ErrNotFound
	}
	path := filepath.Join(dir, key+".json")

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		metrics.ConfigLoadErrorsTotal.WithLabelValues("missing").Inc()
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.ConfigLoadErrorsTotal.WithLabelValues("io").Inc()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg, err := site.Parse(raw)
	if err != nil {
		zap.L().Error("domain config unreadable", zap.String("file", path), zap.Error(err))
		metrics.ConfigLoadErrorsTotal.WithLabelValues("parse").Inc()
		return nil, ErrNotFound
	}
	if cfg.Domain.Name == "" {
		cfg.Domain.Name = key
	}
	metrics.ConfigLoadTotal.Inc()
	return cfg, nil
}
