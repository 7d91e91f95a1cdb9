// internal/contentbox/kind.go
//
// The closed set of content-box kinds.
//
// Context
// -------
// Configs name box types as free strings.  ParseKind maps the known names
// onto Kind and everything else onto Unknown, so a typo degrades into the
// diagnostic placeholder instead of a silent blank.
package contentbox

// Kind enumerates the renderable box types.
type Kind int

const (
	Unknown Kind = iota
	Headline
	Text
	FeaturesGrid
	Metrics
	CTA
	Map
	AdBanner
	AdAlert
	AdNative
	TerminalLog
)

var kindNames = map[Kind]string{
	Headline:     "headline",
	Text:         "text",
	FeaturesGrid: "features-grid",
	Metrics:      "metrics",
	CTA:          "cta",
	Map:          "map",
	AdBanner:     "ad-banner",
	AdAlert:      "ad-alert",
	AdNative:     "ad-native",
	TerminalLog:  "terminal-log",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, n := range kindNames {
		m[n] = k
	}
	return m
}()

// ParseKind returns Unknown for any name outside the closed set.
func ParseKind(s string) Kind { return kindByName[s] }

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Kinds lists the known kinds in declaration order.
func Kinds() []Kind {
	return []Kind{Headline, Text, FeaturesGrid, Metrics, CTA, Map, AdBanner, AdAlert, AdNative, TerminalLog}
}
