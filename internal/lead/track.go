// internal/lead/track.go
//
// Request tracking fields shared by the form handler and the JSON API.
package lead

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/yanizio/tierzero/internal/requestinfo"
)

const unknownIP = "unknown"

// Track copies the client address, user agent, referrer, and UTM tags from
// r into l, and merges parsed UA and geo attributes into l.Metadata.  Keys
// already present in the metadata are kept.
func Track(r *http.Request, l *Lead) {
	l.IPAddress = forwardedFor(r)
	l.UserAgent = r.UserAgent()
	l.Referrer = r.Referer()

	// Form posts carry the campaign tags on the page that rendered them.
	q := r.URL.Query()
	if q.Get("utm_source") == "" && l.Referrer != "" {
		if ref, err := url.Parse(l.Referrer); err == nil {
			q = ref.Query()
		}
	}
	l.UTMSource = clip(q.Get("utm_source"), 100)
	l.UTMMedium = clip(q.Get("utm_medium"), 100)
	l.UTMCampaign = clip(q.Get("utm_campaign"), 100)

	meta := map[string]any{}
	if len(l.Metadata) > 0 {
		_ = json.Unmarshal(l.Metadata, &meta)
	}
	for k, v := range requestinfo.Of(r).Metadata() {
		if _, set := meta[k]; !set {
			meta[k] = v
		}
	}
	if raw, err := json.Marshal(meta); err == nil {
		l.Metadata = raw
	}
}

// forwardedFor prefers the proxy headers, then "unknown".  Only the
// left-most X-Forwarded-For entry is kept.
func forwardedFor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return clip(strings.TrimSpace(strings.Split(xff, ",")[0]), 64)
	}
	if xr := r.Header.Get("X-Real-Ip"); xr != "" {
		return clip(strings.TrimSpace(xr), 64)
	}
	return unknownIP
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
