// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects industry-standard headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years)
//   • Content-Security-Policy   –  self plus the Tailwind CDN and Umami host
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • Headers are set *before* next.ServeHTTP, and only when absent, so a
//   handler may still replace any of them.
// • Pages load Tailwind from its CDN and carry a small inline script for the
//   inquiry modal, hence 'unsafe-inline' for scripts and styles.

package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// TailwindCDN is the stylesheet host every layout loads.
const TailwindCDN = "https://cdn.tailwindcss.com"

// CSP builds the Content-Security-Policy for pages that may load the Umami
// script from analyticsURL.  An empty or unparsable URL adds no host.
func CSP(analyticsURL string) string {
	scripts := []string{"'self'", "'unsafe-inline'", TailwindCDN}
	connect := []string{"'self'"}
	if origin := originOf(analyticsURL); origin != "" {
		scripts = append(scripts, origin)
		connect = append(connect, origin)
	}
	return strings.Join([]string{
		"default-src 'self'",
		"script-src " + strings.Join(scripts, " "),
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: https:",
		"connect-src " + strings.Join(connect, " "),
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}, "; ")
}

func originOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Security sets security headers for every response.
func Security(analyticsURL string) func(http.Handler) http.Handler {
	headers := [][2]string{
		{"Strict-Transport-Security", "max-age=63072000; includeSubDomains"},
		{"Content-Security-Policy", CSP(analyticsURL)},
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Permissions-Policy", "geolocation=(), microphone=(), camera=()"},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range headers {
				if h.Get(kv[0]) == "" {
					h.Set(kv[0], kv[1])
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
