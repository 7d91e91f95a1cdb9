package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"xff left-most", map[string]string{"X-Forwarded-For": "junk, 203.0.113.7, 10.0.0.1"}, "10.0.0.2:1", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-Ip": "198.51.100.4"}, "10.0.0.2:1", "198.51.100.4"},
		{"remote", nil, "192.0.2.9:5555", "192.0.2.9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, ClientIP(r).String())
		})
	}
}

func TestPrimaryLang(t *testing.T) {
	assert.Equal(t, "en-au", primaryLang("en-AU,en;q=0.9"))
	assert.Equal(t, "fr", primaryLang("fr;q=0.8"))
	assert.Equal(t, "", primaryLang(""))
}

func TestEnrichStoresInfo(t *testing.T) {
	var got *Info
	h := Enrich(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, got)
	assert.Equal(t, "Chrome", got.UA.Browser)
	assert.Equal(t, "Desktop", got.UA.Device)
	assert.False(t, got.UA.IsBot)
	assert.Equal(t, "Chrome", got.Metadata()["browser"])
}

func TestOfParsesWithoutMiddleware(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	info := Of(r)
	require.NotNil(t, info)
	assert.Equal(t, "Unknown", info.UA.Device)
	assert.Empty(t, info.Geo.CountryISO)
}
