package middleware

import (
	"context"
	"net/http"
)

// Resolver maps a Host header to a domain key.  tenant.Cache satisfies it.
type Resolver interface {
	Resolve(host string) string
}

type domainKey struct{}

// Host stores the domain key for r.Host in the request context.  Local
// development hosts resolve through the configured alias, or to "" when
// none is set.
func Host(res Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := res.Resolve(r.Host)
			next.ServeHTTP(w, r.WithContext(WithDomain(r.Context(), key)))
		})
	}
}

// WithDomain returns ctx carrying domain.
func WithDomain(ctx context.Context, domain string) context.Context {
	return context.WithValue(ctx, domainKey{}, domain)
}

// DomainFrom returns the key stored by Host, or "".
func DomainFrom(ctx context.Context) string {
	s, _ := ctx.Value(domainKey{}).(string)
	return s
}
