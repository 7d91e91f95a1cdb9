//
//  internal/theme/helper.go
//
//  Template functions shared by content boxes and page layouts.  Kept
//  short so HTML authors do not have to reach through nested structs or
//  write loops by hand.
//

package theme

import (
	"html/template"
	"strings"
)

// FuncMap returns the function map every template set is parsed with.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"upper": strings.ToUpper,
		"seq":   seq,
		"dict":  dict,
		"trendIcon": func(trend string) string {
			switch trend {
			case "up":
				return "↑"
			case "down":
				return "↓"
			case "stable":
				return "→"
			}
			return ""
		},
		"trendClass": func(s Style, trend string) string {
			switch trend {
			case "up":
				return s.Pick("text-green-600", "text-green-400")
			case "down":
				return s.Pick("text-red-600", "text-red-400")
			case "stable":
				return s.Pick("text-yellow-600", "text-yellow-400")
			}
			return ""
		},
	}
}

// seq yields 0..n-1 for {{ range seq 3 }}.
func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
