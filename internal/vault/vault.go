// internal/vault/vault.go
//
// Secret references for configuration values.
//
// Context
// -------
// Any string in conf/global.yaml (or a TIERZERO_ override) may read
// `vault:<mount>/<path>#<key>`.  The config loader hands each one to
// Resolve, which reads the key from a KV-v2 secret.  In practice that is
// the database DSN, the admin password, and the CSRF key, so none of them
// sit in YAML or git history.
//
// Workflow
// --------
//  1. New(ctx) reads VAULT_ADDR and VAULT_TOKEN and starts the token
//     lifetime watcher, which runs until ctx is cancelled.
//  2. Resolve(ctx, ref) parses the reference, coalesces concurrent lookups
//     of the same secret, and caches the value for CacheTTL.
//
// Notes
// -----
//   - A value without the `vault:` prefix is returned unchanged.
package vault

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Prefix marks a config value as a Vault reference.
const Prefix = "vault:"

// CacheTTL bounds how long a resolved secret is reused.
const CacheTTL = 5 * time.Minute

// kvReader reads one KV-v2 secret.  The Vault SDK satisfies it through
// kvAPI; tests substitute a map.
type kvReader interface {
	read(ctx context.Context, mount, path string) (map[string]any, error)
}

type kvAPI struct{ c *vault.Client }

func (k kvAPI) read(ctx context.Context, mount, path string) (map[string]any, error) {
	sec, err := k.c.KVv2(mount).Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return sec.Data, nil
}

// Client resolves references.  It is safe for concurrent use.
type Client struct {
	kv  kvReader
	sfg singleflight.Group

	mu    sync.RWMutex
	cache map[string]cached
}

type cached struct {
	val string
	exp time.Time
}

// New connects using the standard Vault environment (VAULT_ADDR,
// VAULT_TOKEN, TLS settings) and keeps the token renewed until ctx ends.
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		api.SetToken(tok)
	}

	go watchToken(ctx, api)
	zap.S().Infow("vault client ready", "addr", cfg.Address)
	return newWithReader(kvAPI{api}), nil
}

func newWithReader(kv kvReader) *Client {
	return &Client{kv: kv, cache: make(map[string]cached)}
}

/*──────────────────────────── references ───────────────────────────────────*/

// IsRef reports whether s is a Vault reference.
func IsRef(s string) bool { return strings.HasPrefix(s, Prefix) }

// ParseRef splits "vault:<mount>/<path>#<key>" into path and key.
func ParseRef(ref string) (secretPath, key string, err error) {
	if !IsRef(ref) {
		return "", "", fmt.Errorf("not a vault reference: %q", ref)
	}
	body := strings.TrimPrefix(ref, Prefix)
	i := strings.LastIndexByte(body, '#')
	if i <= 0 || i == len(body)-1 || !strings.Contains(body[:i], "/") {
		return "", "", fmt.Errorf("vault reference %q: want vault:<mount>/<path>#<key>", ref)
	}
	return body[:i], body[i+1:], nil
}

// Resolve returns the secret a reference points at.  A value that is not a
// reference is returned unchanged.
func (c *Client) Resolve(ctx context.Context, val string) (string, error) {
	if !IsRef(val) {
		return val, nil
	}
	secretPath, key, err := ParseRef(val)
	if err != nil {
		return "", err
	}

	canonical := secretPath + "#" + key
	c.mu.RLock()
	cv, ok := c.cache[canonical]
	c.mu.RUnlock()
	if ok && time.Now().Before(cv.exp) {
		return cv.val, nil
	}

	v, err, _ := c.sfg.Do(canonical, func() (any, error) {
		mount, rel := splitMount(secretPath)
		data, err := c.kv.read(ctx, mount, rel)
		if err != nil {
			return "", fmt.Errorf("vault get %s: %w", secretPath, err)
		}
		s, ok := data[key].(string)
		if !ok {
			return "", fmt.Errorf("vault %s: key %q missing or not a string", secretPath, key)
		}
		c.mu.Lock()
		c.cache[canonical] = cached{val: s, exp: time.Now().Add(CacheTTL)}
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(p, "/")
	return mount, rel
}

/*──────────────────────────── token lifetime ───────────────────────────────*/

// watchToken renews the client token for as long as Vault allows, then
// probes again after a pause.  Non-renewable tokens are re-checked hourly.
func watchToken(ctx context.Context, api *vault.Client) {
	log := zap.S().With("component", "vault")
	for ctx.Err() == nil {
		sec, err := api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			log.Warnw("token renew failed", "err", err)
			pause(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			log.Infow("token is not renewable")
			pause(ctx, time.Hour)
			continue
		}

		w, err := api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{Secret: sec})
		if err != nil {
			log.Warnw("lifetime watcher init failed", "err", err)
			pause(ctx, 30*time.Second)
			continue
		}
		runWatcher(ctx, w, log)
		pause(ctx, 15*time.Second)
	}
}

func runWatcher(ctx context.Context, w *vault.LifetimeWatcher, log *zap.SugaredLogger) {
	go w.Start()
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				log.Warnw("token renewal stopped", "err", err)
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				log.Debugw("token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

func pause(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
