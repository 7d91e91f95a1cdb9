// cmd/web/main.go
//
// Tier-0 renderer – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Connect to Vault when VAULT_ADDR is set, so `vault:` values in the
//     config resolve.
//
//  2. Load conf/global.yaml (+ conf/.env, + TIERZERO_* env overrides).
//
//  3. Start daily rotating logger (tees to console when running in a TTY).
//
//  4. Install the CSRF key, extra form definitions, and the GeoLite2 reader.
//
//  5. Open the lead database and apply the schema.
//
//  6. Build the domain-config cache and the view engine.
//
//  7. Assemble the chi router: request id → real IP → recoverer → host key
//     → access log → request info → security headers (→ ForceHTTPS), then
//     /metrics, /healthz, and every registered component.
//
//  8. Serve until SIGINT/SIGTERM, then drain and close.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/component"
	"github.com/yanizio/tierzero/internal/config"
	"github.com/yanizio/tierzero/internal/database"
	"github.com/yanizio/tierzero/internal/form"
	"github.com/yanizio/tierzero/internal/lead"
	"github.com/yanizio/tierzero/internal/logger"
	"github.com/yanizio/tierzero/internal/middleware"
	"github.com/yanizio/tierzero/internal/requestinfo"
	"github.com/yanizio/tierzero/internal/server"
	"github.com/yanizio/tierzero/internal/tenant"
	"github.com/yanizio/tierzero/internal/vault"
	"github.com/yanizio/tierzero/internal/view"

	_ "github.com/yanizio/tierzero/components/debug"
	_ "github.com/yanizio/tierzero/components/forms"
	_ "github.com/yanizio/tierzero/components/leads"
	_ "github.com/yanizio/tierzero/components/pages"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Vault (optional) and config ────────────────────────────────
	//
	var secrets config.SecretResolver
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx)
		if err != nil {
			log.Fatalf("vault: %v", err)
		}
		secrets = vc
	}

	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Logger ─────────────────────────────────────────────────────
	//
	sugar, err := logger.New(logger.Options{
		Root:       cfg.Paths.Root,
		Level:      cfg.Log.Level,
		Tee:        runningInTTY(),
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress != nil && *cfg.Log.Compress,
	})
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()
	sugar.Infow("tierzero starting", "root", cfg.Paths.Root, "configs", cfg.Sites.ConfigsDir)

	//
	// ── 3.  Forms and request enrichment ───────────────────────────────
	//
	if cfg.Forms.CSRFKey != "" && !form.SetSecret(cfg.Forms.CSRFKey) {
		sugar.Fatal("forms.csrf_key must be base64url and at least 32 bytes")
	}
	if cfg.Forms.Dir != "" {
		if err := form.RegisterDir(cfg.Forms.Dir); err != nil {
			sugar.Fatalw("load form definitions", "dir", cfg.Forms.Dir, "err", err)
		}
	}
	if err := requestinfo.InitGeo(cfg.GeoIP.DBPath); err != nil {
		sugar.Warnw("geoip disabled", "path", cfg.GeoIP.DBPath, "err", err)
	}
	defer requestinfo.CloseGeo()

	//
	// ── 4.  Lead database ──────────────────────────────────────────────
	//
	db, err := database.OpenWithOptions(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxOpen, cfg.Database.MaxIdle)
	if err != nil {
		sugar.Fatalw("open lead database", "driver", cfg.Database.Driver, "err", err)
	}
	defer db.Close()
	if err := lead.Migrate(ctx, db); err != nil {
		sugar.Fatalw("migrate lead schema", "err", err)
	}
	sugar.Infow("lead database online", "driver", cfg.Database.Driver)

	//
	// ── 5.  Config cache and views ─────────────────────────────────────
	//
	sites, err := tenant.New(tenant.Options{
		Dir:            cfg.Sites.ConfigsDir,
		DevMode:        cfg.Sites.DevMode,
		IdleTTL:        cfg.Sites.IdleTTL,
		MaxEntries:     cfg.Sites.MaxEntries,
		Watch:          cfg.Sites.Watch,
		LocalhostAlias: cfg.Sites.LocalhostAlias,
	})
	if err != nil {
		sugar.Fatalw("config cache", "err", err)
	}
	defer sites.Close()

	views := view.New(filepath.Join(cfg.Paths.Root, "overrides"), cfg.Sites.DevMode)

	//
	// ── 6.  Router ─────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Host(sites), middleware.RequestLog, requestinfo.Enrich)
	r.Use(middleware.Security(cfg.Analytics.UmamiURL))
	if cfg.HTTP.ForceHTTPS {
		r.Use(middleware.ForceHTTPS(sites))
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		pctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pctx); err != nil {
			logger.FromContext(r.Context()).Warn("healthz: database unreachable", zap.Error(err))
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	err = component.Mount(r, component.Deps{
		Sites:     sites,
		Leads:     lead.NewStore(db),
		Views:     views,
		Analytics: cfg.Analytics,
		Admin:     cfg.Admin,
	})
	if err != nil {
		sugar.Fatalw("mount components", "err", err)
	}

	//
	// ── 7.  Serve ──────────────────────────────────────────────────────
	//
	if err := server.Run(ctx, server.New(cfg.HTTP.ListenAddr, r), cfg.HTTP.ShutdownTimeout); err != nil {
		sugar.Errorw("http server", "err", err)
	}
	sugar.Info("tierzero stopped")
}
