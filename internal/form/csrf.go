// internal/form/csrf.go
//
// Forms subsystem: stateless CSRF token utilities.
//
// Context
//   Every rendered form carries a hidden `csrf_token` input.  The server
//   verifies it on POST to ensure the request came from a form it rendered
//   for the same domain.  The token is *stateless*:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro+domain) )
//
//   •  nonce – 16 random bytes.  Prevents replay across visitors.
//   •  unixMicro – microseconds since Unix epoch, 8 bytes, big-endian.
//   •  HMAC – binds the token to the domain it was rendered for, so a token
//      lifted from one tenant's page is useless on another.
//
//   No server-side sessions are required, keeping the renderer cache-
//   friendly and multi-instance safe.
//
// Workflow
//   •  SetSecret(key)                → install the key from config at startup.
//   •  GenerateToken(domain)         → token string for the renderer.
//   •  VerifyToken(tok, domain)      → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	tokenBytes   = 16 + 8 + sha256.Size // nonce + ts + sig
	maxAge       = 2 * time.Hour        // token valid window
	secretEnvKey = "TIERZERO_CSRF_KEY"  // 32-byte base64url key suggested
)

var (
	secretMu  sync.RWMutex
	secretKey []byte
)

// SetSecret installs a base64url key of at least 32 bytes.  An empty or
// short key leaves the env/random fallback in place and returns false.
func SetSecret(encoded string) bool {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil || len(b) < 32 {
		return false
	}
	secretMu.Lock()
	secretKey = b
	secretMu.Unlock()
	return true
}

// GenerateToken creates a new CSRF token for domain.  Call once per render.
func GenerateToken(domain string) (string, error) {
	sec := fetchSecret()

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(time.Now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, sign(sec, nonce, ts, domain)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// VerifyToken returns true if tok passes HMAC and age checks for domain.
func VerifyToken(tok, domain string) bool {
	sec := fetchSecret()

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:16]
	tsBytes := raw[16:24]
	sig := raw[24:]

	// Timestamp window check.
	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	if time.Since(issued) > maxAge || time.Until(issued) > time.Minute {
		// Future timestamp (clock skew) or older than maxAge.
		return false
	}

	return hmac.Equal(sig, sign(sec, nonce, tsBytes, domain))
}

func sign(sec, nonce, ts []byte, domain string) []byte {
	mac := hmac.New(sha256.New, sec)
	mac.Write(nonce)
	mac.Write(ts)
	mac.Write([]byte(strings.ToLower(domain)))
	return mac.Sum(nil)
}

// fetchSecret returns the process-wide CSRF secret.  Without SetSecret it
// reads TIERZERO_CSRF_KEY, and failing that generates a random key so tokens
// stop validating after a restart.
func fetchSecret() []byte {
	secretMu.RLock()
	k := secretKey
	secretMu.RUnlock()
	if k != nil {
		return k
	}

	secretMu.Lock()
	defer secretMu.Unlock()
	if secretKey != nil {
		return secretKey
	}
	if env := os.Getenv(secretEnvKey); env != "" {
		if b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(env, "=")); err == nil && len(b) >= 32 {
			secretKey = b
			return secretKey
		}
	}
	secretKey = make([]byte, 32)
	_, _ = rand.Read(secretKey)
	zap.S().Warnw("CSRF key not configured, using ephemeral random key", "env", secretEnvKey)
	return secretKey
}
