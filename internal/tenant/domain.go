// internal/tenant/domain.go
//
// Domain key normalisation.
//
// Context
// -------
// Every lookup key is the bare, lower-case domain that names a file in the
// configs directory.  Two entry points produce it:
//
//   - `CleanDomain` for user-supplied values (path segments, CLI
//     arguments) that may carry a scheme, a `www.` prefix, or a path.
//   - `HostKey` for the Host header, which may carry a port.
//
// Local development hosts (`localhost`, `127.0.0.1`) are never rewritten to
// a domain page; they resolve only through an explicit alias.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
// • No logging here; caller decides what to log.
package tenant

import (
	"net"
	"regexp"
	"strings"
)

var schemeWWW = regexp.MustCompile(`^(https?://)?(www\.)?`)

// CleanDomain strips a leading scheme and `www.`, drops anything from the
// first `/`, and lower-cases the result.
func CleanDomain(s string) string {
	s = schemeWWW.ReplaceAllString(strings.TrimSpace(strings.ToLower(s)), "")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}

// HostKey turns a Host header into a domain key: port and `www.` removed,
// lower-cased.
func HostKey(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimPrefix(host, "www.")
}

// IsLocal reports whether key is a development host.
func IsLocal(key string) bool {
	return key == "localhost" || key == "127.0.0.1" || key == "::1"
}

// validKey rejects anything that could escape the configs directory.
func validKey(key string) bool {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return false
	}
	return key[0] != '.'
}
