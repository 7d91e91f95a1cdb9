// internal/config/model.go
//
// Typed configuration model for the renderer.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                            – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `TIERZERO_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

//
// Sites section
//

// Sites locates the per-domain JSON configs and tunes the cache in front
// of them.
type Sites struct {
	ConfigsDir     string        `koanf:"configs_dir"     validate:"required"`
	DevMode        bool          `koanf:"dev_mode"`
	IdleTTL        time.Duration `koanf:"idle_ttl"        validate:"gte=0"`
	MaxEntries     int           `koanf:"max_entries"     validate:"gte=0"`
	Watch          bool          `koanf:"watch"`
	LocalhostAlias string        `koanf:"localhost_alias"`
}

//
// Database section
//

// Database selects the lead store.  The DSN is usually a `vault:` reference
// in production so credentials stay out of flat files and git history.
type Database struct {
	Driver  string `koanf:"driver"   validate:"required,oneof=mysql sqlite"`
	DSN     string `koanf:"dsn"      validate:"required"`
	MaxOpen int    `koanf:"max_open" validate:"gte=0"`
	MaxIdle int    `koanf:"max_idle" validate:"gte=0"`
}

//
// Analytics section
//

// Analytics points pages at the shared Umami instance.
type Analytics struct {
	UmamiURL  string `koanf:"umami_url"  validate:"omitempty,url"`
	WebsiteID string `koanf:"website_id"`
}

//
// Admin section
//

// Admin guards /admin with HTTP basic auth.  An empty password disables the
// admin routes entirely.
type Admin struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

//
// Forms section
//

// Forms configures the universal lead forms.
type Forms struct {
	CSRFKey string `koanf:"csrf_key" validate:"omitempty,csrfkey"`
	Dir     string `koanf:"dir"` // optional YAML overrides
}

// GeoIP points at an optional GeoLite2-City database.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

// Log tunes the zap logger.
type Log struct {
	Level      string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
	Compress   *bool  `koanf:"compress"` // nil means true
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // TIERZERO_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Sites     Sites     `koanf:"sites"`
	Database  Database  `koanf:"database"`
	Analytics Analytics `koanf:"analytics"`
	Admin     Admin     `koanf:"admin"`
	Forms     Forms     `koanf:"forms"`
	GeoIP     GeoIP     `koanf:"geoip"`
	Log       Log       `koanf:"log"`
	Paths     Paths     `koanf:"-"` // not loaded from config files
}

// Defaults applied when a key is absent or zero.
const (
	DefaultListenAddr      = ":8080"
	DefaultShutdownTimeout = 15 * time.Second
	DefaultIdleTTL         = 30 * time.Minute
	DefaultMaxEntries      = 500
	DefaultUmamiURL        = "https://analytics.domain8.com.au"
	DefaultWebsiteID       = "tier-0-portfolio"
)

// applyDefaults fills zero values.  Relative paths are anchored at root.
func (c *Config) applyDefaults() {
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = DefaultListenAddr
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Sites.ConfigsDir == "" {
		c.Sites.ConfigsDir = "configs"
	}
	if c.Sites.IdleTTL == 0 {
		c.Sites.IdleTTL = DefaultIdleTTL
	}
	if c.Sites.MaxEntries == 0 {
		c.Sites.MaxEntries = DefaultMaxEntries
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "data/leads.db"
	}
	if c.Analytics.UmamiURL == "" {
		c.Analytics.UmamiURL = DefaultUmamiURL
	}
	if c.Analytics.WebsiteID == "" {
		c.Analytics.WebsiteID = DefaultWebsiteID
	}
	if c.Admin.Username == "" {
		c.Admin.Username = "admin"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 50
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 7
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 14
	}
	if c.Log.Compress == nil {
		on := true
		c.Log.Compress = &on
	}
}
