// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/yanizio/tierzero/internal/tenant"
)

// Known reports whether a domain has a config on disk.
type Known interface {
	Exists(domain string) bool
}

// ForceHTTPS wraps h.  If the request is plain HTTP, the host is not a
// development host, and known confirms the domain has a config, the wrapper
// issues a 308 Permanent Redirect to the HTTPS version of the same URL.
// Otherwise it calls the next handler unchanged.
func ForceHTTPS(known Known) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := tenant.HostKey(r.Host)

			// Already HTTPS or dev host → continue.
			if isHTTPS(r) || tenant.IsLocal(key) {
				h.ServeHTTP(w, r)
				return
			}

			if known.Exists(key) {
				target := "https://" + r.Host + r.URL.RequestURI()
				http.Redirect(w, r, target, http.StatusPermanentRedirect)
				return
			}

			// Unknown host → keep normal flow (likely 404 later).
			h.ServeHTTP(w, r)
		})
	}
}

// isHTTPS trusts X-Forwarded-Proto because the service runs behind a TLS
// terminating proxy.
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
