//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, client IP, geolocation, and timestamp).
//  These structs are inert.  They contain no pointers to database
//  handles or large buffers, so they are safe to log or JSON-encode,
//  and the lead store copies a subset into each lead's metadata.
//
//  Dependencies
//  • github.com/avct/uasurfer          (UA parsing)
//  • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// UA holds the parsed user-agent properties.
type UA struct {
	Raw         string `json:"-"`
	Browser     string `json:"browser,omitempty"`   // "Chrome", "Firefox", "Safari", etc.
	Version     string `json:"version,omitempty"`   // "124.0.6367"
	OS          string `json:"os,omitempty"`        // "MacOSX", "Windows", "Android", "iOS", etc.
	OSVersion   string `json:"osVersion,omitempty"` // "14.5", "11", "10.0"
	Device      string `json:"device,omitempty"`    // "Desktop", "Phone", "Tablet", "TV", ...
	Platform    string `json:"platform,omitempty"`  // "Mac", "Windows", "Linux", "iPad", ...
	IsBot       bool   `json:"bot,omitempty"`
	PrimaryLang string `json:"lang,omitempty"` // First tag from Accept-Language ("en", "es", ...)
}

// Geo holds IP-based geolocation hints.  Fields are empty when no database
// is configured or the address has no match.
type Geo struct {
	CountryISO string `json:"country,omitempty"`
	City       string `json:"city,omitempty"`
}

// Info is stored in the request context by Enrich.
type Info struct {
	IP        net.IP    `json:"ip,omitempty"`
	UA        UA        `json:"ua"`
	Geo       Geo       `json:"geo"`
	Timestamp time.Time `json:"ts"`
}

// Metadata flattens the fields worth keeping alongside a lead.
func (i *Info) Metadata() map[string]any {
	m := map[string]any{
		"browser": i.UA.Browser,
		"os":      i.UA.OS,
		"device":  i.UA.Device,
	}
	if i.UA.IsBot {
		m["bot"] = true
	}
	if i.UA.PrimaryLang != "" {
		m["lang"] = i.UA.PrimaryLang
	}
	if i.Geo.CountryISO != "" {
		m["country"] = i.Geo.CountryISO
	}
	if i.Geo.City != "" {
		m["city"] = i.Geo.City
	}
	return m
}

//
//  -----------------------------
//  Package-level state
//  -----------------------------
//

// geoReader is a singleton MaxMind handle.  It is safe for concurrent
// reads, which is all we ever perform.
var (
	geoMu     sync.RWMutex
	geoReader *geoip2.Reader
)

// InitGeo opens a GeoLite2-City database.  An empty path disables geo
// lookups, which is the default.
func InitGeo(dbPath string) error {
	if dbPath == "" {
		return nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return fmt.Errorf("requestinfo: open GeoLite2 DB: %w", err)
	}
	geoMu.Lock()
	old := geoReader
	geoReader = r
	geoMu.Unlock()
	if old != nil {
		old.Close()
	}
	zap.S().Infow("geoip database loaded", "path", dbPath)
	return nil
}

// CloseGeo releases the MaxMind handle.
func CloseGeo() {
	geoMu.Lock()
	defer geoMu.Unlock()
	if geoReader != nil {
		geoReader.Close()
		geoReader = nil
	}
}

//
//  -----------------------------
//  Public helpers
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich, or nil.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

// WithInfo returns a child context carrying info.
func WithInfo(ctx context.Context, info *Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

// Parse builds Info for r without touching the context.
func Parse(r *http.Request) *Info {
	ip := ClientIP(r)
	return &Info{
		IP:        ip,
		UA:        parseUA(r.UserAgent(), r.Header.Get("Accept-Language")),
		Geo:       lookupGeo(ip),
		Timestamp: time.Now().UTC(),
	}
}

// Of returns the Info stored by Enrich, parsing r when the middleware has
// not run.
func Of(r *http.Request) *Info {
	if info := FromContext(r.Context()); info != nil {
		return info
	}
	return Parse(r)
}

// ClientIP extracts the left-most valid address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func ClientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(r.RemoteAddr)
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// parseUA converts a raw header into our UA struct using uasurfer.
func parseUA(uaHeader, acceptLang string) UA {
	if uaHeader == "" {
		return UA{PrimaryLang: primaryLang(acceptLang), Device: "Unknown"}
	}
	u := uasurfer.Parse(uaHeader)

	return UA{
		Raw:         uaHeader,
		Browser:     strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:     trimVersion(u.Browser.Version),
		OS:          strings.TrimPrefix(u.OS.Name.String(), "OS"),
		OSVersion:   trimVersion(u.OS.Version),
		Device:      deviceTypeToString(u.DeviceType),
		Platform:    strings.TrimPrefix(u.OS.Platform.String(), "Platform"),
		IsBot:       u.IsBot(),
		PrimaryLang: primaryLang(acceptLang),
	}
}

// trimVersion renders a version in dotted form while trimming trailing
// zeros: 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func trimVersion(v uasurfer.Version) string {
	switch {
	case v.Major == 0 && v.Minor == 0 && v.Patch == 0:
		return ""
	case v.Patch != 0:
		return strconv.Itoa(int(v.Major)) + "." + strconv.Itoa(int(v.Minor)) + "." + strconv.Itoa(int(v.Patch))
	case v.Minor != 0:
		return strconv.Itoa(int(v.Major)) + "." + strconv.Itoa(int(v.Minor))
	default:
		return strconv.Itoa(int(v.Major))
	}
}

// deviceTypeToString maps uasurfer.DeviceType to a user-friendly string.
func deviceTypeToString(dt uasurfer.DeviceType) string {
	switch dt {
	case uasurfer.DeviceComputer:
		return "Desktop"
	case uasurfer.DevicePhone:
		return "Phone"
	case uasurfer.DeviceTablet:
		return "Tablet"
	case uasurfer.DeviceConsole:
		return "Console"
	case uasurfer.DeviceWearable:
		return "Wearable"
	case uasurfer.DeviceTV:
		return "TV"
	default:
		return "Unknown"
	}
}

// primaryLang extracts the first language subtag before any ";q=" rule.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tag := strings.TrimSpace(strings.Split(al, ",")[0])
	if i := strings.Index(tag, ";"); i != -1 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

// lookupGeo returns best-effort Geo data using the global reader.
func lookupGeo(ip net.IP) Geo {
	geoMu.RLock()
	defer geoMu.RUnlock()
	if geoReader == nil || ip == nil {
		return Geo{}
	}
	rec, err := geoReader.City(ip)
	if err != nil {
		return Geo{}
	}
	return Geo{CountryISO: rec.Country.IsoCode, City: rec.City.Names["en"]}
}
