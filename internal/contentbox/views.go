package contentbox

import (
	"encoding/json"
	"html/template"
	"strconv"

	"github.com/yanizio/tierzero/internal/controls"
	"github.com/yanizio/tierzero/internal/site"
	"github.com/yanizio/tierzero/internal/theme"
)

// str reads m[key] as display text.  Numbers are formatted; anything else
// is empty.
func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func strs(m map[string]any, key string) []string {
	arr, _ := m[key].([]any)
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

/*──────────────────────────── headline / text ─────────────────────────────*/

type headline struct {
	S        theme.Style
	Title    string
	Subtitle string
}

func headlineView(c site.Content, s theme.Style) headline {
	return headline{S: s, Title: c.Str("title"), Subtitle: c.Str("subtitle")}
}

type text struct {
	S    theme.Style
	Text string
}

// textView accepts both {"text": "..."} and a bare string payload.
func textView(c site.Content, s theme.Style) text {
	t := c.Str("text")
	if t == "" {
		t = c.Text()
	}
	return text{S: s, Text: t}
}

/*──────────────────────────── features / metrics ──────────────────────────*/

type feature struct{ Icon, Title, Description string }

type features struct {
	S        theme.Style
	Title    string
	Features []feature
}

func featuresView(c site.Content, s theme.Style) features {
	v := features{S: s, Title: c.Str("title")}
	for _, m := range c.Objects("features") {
		v.Features = append(v.Features, feature{str(m, "icon"), str(m, "title"), str(m, "description")})
	}
	return v
}

type metric struct{ Label, Value, Trend string }

type metrics struct {
	S       theme.Style
	Title   string
	Metrics []metric
}

func metricsView(c site.Content, s theme.Style) metrics {
	v := metrics{S: s, Title: c.Str("title")}
	for _, m := range c.Objects("metrics") {
		v.Metrics = append(v.Metrics, metric{str(m, "label"), str(m, "value"), str(m, "trend")})
	}
	return v
}

/*──────────────────────────────────── cta ─────────────────────────────────*/

type cta struct {
	S           theme.Style
	Text        string
	ButtonText  string
	Description string
	Form        template.HTML
}

// ctaView swaps the button for the business-inquiry form when the copy is
// classified as a business prompt and the form is switched on.
func ctaView(box site.ContentBox, env Env) cta {
	c := box.Content
	v := cta{S: env.Style, Text: c.Str("text"), ButtonText: c.Str("buttonText"), Description: c.Str("description")}
	if env.Forms != nil && env.Config != nil &&
		controls.IsBusinessBox(box) && controls.BusinessInquiryEnabled(env.Config) {
		v.Form = env.Forms.BusinessInquiry()
	}
	return v
}

/*──────────────────────────────────── map ─────────────────────────────────*/

type location struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Type        string  `json:"type,omitempty"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Address     string  `json:"address,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
}

// Melbourne CBD, with a handful of breweries, when the box gives nothing.
var (
	defaultCenter    = [2]float64{-37.8136, 144.9631}
	defaultLocations = []location{
		{"1", "Stomping Ground Brewing Co", -37.8023, 144.9737, "brewery", "Award-winning craft brewery with beer garden", "🍺", "100 Gipps St, Collingwood", 4.5},
		{"2", "Moon Dog World", -37.8262, 144.9023, "brewery", "Wild brewery with lagoon and tropical vibes", "🍺", "32 Chifley Dr, Preston", 4.6},
		{"3", "Mountain Goat Brewery", -37.8285, 144.9914, "brewery", "Iconic Melbourne brewery since 1997", "🍺", "80 North St, Richmond", 4.4},
		{"4", "Colonial Brewing Co", -37.8698, 144.9964, "brewery", "Waterfront brewery and kitchen", "🍺", "68-72 Bertie St, Port Melbourne", 4.3},
		{"5", "Two Birds Brewing", -37.7593, 145.0015, "brewery", "Female-owned craft brewery", "🍺", "136 Hall St, Spotswood", 4.5},
	}
)

type mapBox struct {
	S         theme.Style
	Title     string
	Subtitle  string
	Center    [2]float64
	Zoom      int
	Height    string
	Locations []location
	Payload   string
}

func mapView(c site.Content, s theme.Style) mapBox {
	v := mapBox{
		S: s, Title: c.Str("title"), Subtitle: c.Str("subtitle"),
		Center: defaultCenter, Zoom: 14, Height: "400px",
	}
	if arr, ok := c.Field("center").([]any); ok && len(arr) == 2 {
		lat, ok1 := arr[0].(float64)
		lng, ok2 := arr[1].(float64)
		if ok1 && ok2 {
			v.Center = [2]float64{lat, lng}
		}
	}
	if z, ok := intIn(c, "zoom", 1, 22); ok {
		v.Zoom = z
	}
	if h := c.Str("height"); h != "" {
		v.Height = h
	}

	if _, given := c.Field("locations").([]any); given {
		for _, m := range c.Objects("locations") {
			lat, _ := m["lat"].(float64)
			lng, _ := m["lng"].(float64)
			rating, _ := m["rating"].(float64)
			v.Locations = append(v.Locations, location{
				ID: str(m, "id"), Name: str(m, "name"), Lat: lat, Lng: lng,
				Type: str(m, "type"), Description: str(m, "description"),
				Icon: str(m, "icon"), Address: str(m, "address"), Rating: rating,
			})
		}
	} else {
		v.Locations = defaultLocations
	}

	payload, _ := json.Marshal(map[string]any{
		"center": v.Center, "zoom": v.Zoom, "locations": v.Locations,
	})
	v.Payload = string(payload)
	return v
}

/*──────────────────────────────────── ads ─────────────────────────────────*/

type adBanner struct {
	S                           theme.Style
	Sponsor, Message, CTA, Link string
}

func adBannerView(c site.Content, s theme.Style) adBanner {
	return adBanner{s, c.Str("sponsor"), c.Str("message"), c.Str("cta"), c.Str("link")}
}

type adAlert struct {
	S       theme.Style
	Type    string
	Message string
	CTA     string
	Icon    string
	Classes string
}

func adAlertView(c site.Content, s theme.Style) adAlert {
	v := adAlert{S: s, Type: c.Str("type"), Message: c.Str("message"), CTA: c.Str("cta")}
	switch v.Type {
	case "warning":
		v.Icon = "⚡"
	case "success":
		v.Icon = "✅"
	default:
		v.Icon = "ℹ️"
	}
	switch {
	case s.Terminal && s.Dark:
		v.Classes = "bg-green-900/20 border-green-500 text-green-400"
	case s.Terminal:
		v.Classes = "bg-green-50 border-green-600 text-green-700"
	case s.Dark && v.Type == "warning":
		v.Classes = "bg-yellow-900/20 border-yellow-800 text-yellow-400"
	case s.Dark && v.Type == "success":
		v.Classes = "bg-green-900/20 border-green-800 text-green-400"
	case s.Dark:
		v.Classes = "bg-blue-900/20 border-blue-800 text-blue-400"
	case v.Type == "warning":
		v.Classes = "bg-yellow-50 border-yellow-200 text-yellow-800"
	case v.Type == "success":
		v.Classes = "bg-green-50 border-green-200 text-green-800"
	default:
		v.Classes = "bg-blue-50 border-blue-200 text-blue-800"
	}
	return v
}

type nativeItem struct{ Title, Description, Image, Link, Price, Sponsor string }

type adNative struct {
	S     theme.Style
	Items []nativeItem
}

func adNativeView(c site.Content, s theme.Style) adNative {
	v := adNative{S: s}
	for _, m := range c.Objects("items") {
		v.Items = append(v.Items, nativeItem{
			str(m, "title"), str(m, "description"), str(m, "image"),
			str(m, "link"), str(m, "price"), str(m, "sponsor"),
		})
	}
	return v
}

/*─────────────────────────────── terminal log ─────────────────────────────*/

type command struct {
	Command string   `json:"command"`
	Output  []string `json:"output"`
	Type    string   `json:"type,omitempty"`
}

type terminalLog struct {
	S           theme.Style
	Title       string
	Commands    []command
	AutoPlay    bool
	Interval    int
	MaxCommands int
	Payload     string
}

// terminalLogView renders the first MaxCommands entries server-side.  The
// full list rides along in Payload for the autoplay script.
func terminalLogView(c site.Content, s theme.Style) terminalLog {
	v := terminalLog{S: s, Title: c.Str("title"), AutoPlay: true, Interval: 5000, MaxCommands: 10}
	if v.Title == "" {
		v.Title = "terminal@system"
	}
	if b, ok := c.Field("autoPlay").(bool); ok {
		v.AutoPlay = b
	}
	if n, ok := intIn(c, "playInterval", 100, 600000); ok {
		v.Interval = n
	}
	if n, ok := intIn(c, "maxCommands", 1, 1000); ok {
		v.MaxCommands = n
	}

	all := make([]command, 0, 8)
	for _, m := range c.Objects("commands") {
		all = append(all, command{Command: str(m, "command"), Output: strs(m, "output"), Type: str(m, "type")})
	}
	v.Commands = all
	if len(v.Commands) > v.MaxCommands {
		v.Commands = v.Commands[:v.MaxCommands]
	}
	payload, _ := json.Marshal(all)
	v.Payload = string(payload)
	return v
}

// outputClass colors a terminal output line by command type.
func outputClass(s theme.Style, typ string) string {
	switch typ {
	case "success", "audit":
		return s.Pick("text-green-700", "text-green-400")
	case "error":
		return s.Pick("text-red-700", "text-red-400")
	case "warning":
		return s.Pick("text-yellow-700", "text-yellow-400")
	}
	return s.Pick("text-gray-700", "text-gray-300")
}

// intIn reads a numeric field and reports it only when it lies in
// [lo, hi].  Out-of-range values keep the caller's default.
func intIn(c site.Content, key string, lo, hi int) (int, bool) {
	n, ok := c.Num(key)
	if !ok || n < float64(lo) || n > float64(hi) {
		return 0, false
	}
	return int(n), true
}
