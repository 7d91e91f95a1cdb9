package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/tierzero/internal/site"
)

func mustParse(t *testing.T, raw string) *site.Config {
	t.Helper()
	cfg, err := site.Parse([]byte(raw))
	require.NoError(t, err)
	return cfg
}

func ptr(b bool) *bool { return &b }

func TestResolveFlag(t *testing.T) {
	cases := []struct {
		name        string
		nv, legacy  *bool
		def, expect bool
	}{
		{"new wins over legacy", ptr(false), ptr(true), true, false},
		{"legacy when new absent", nil, ptr(true), false, true},
		{"default when both absent", nil, nil, true, true},
		{"explicit false new", ptr(false), nil, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, ResolveFlag(tc.nv, tc.legacy, tc.def))
		})
	}
}

func TestAdPositionKey(t *testing.T) {
	cases := map[string]string{
		"ad-top-banner":    "topBanner",
		"ad-alert":         "alert",
		"ad-sidebar":       "sidebar",
		"ad-mid-banner":    "midBanner",
		"ad-bottom-banner": "bottomBanner",
		"ad-native-1":      "native1",
		"ad-native-2":      "native2",
	}
	for pos, want := range cases {
		got, ok := AdPositionKey(pos)
		assert.True(t, ok, pos)
		assert.Equal(t, want, got, pos)
	}
	_, ok := AdPositionKey("ad-footer")
	assert.False(t, ok)
}

func TestGlobalAdsOffHidesEveryAd(t *testing.T) {
	cfg := mustParse(t, `{
		"domain": {"name": "x.com.au"},
		"template": {"type": "hero"},
		"ads": {"enabled": true},
		"controls": {"ads": {"globalEnabled": false, "positions": {"sidebar": true}}},
		"contentBoxes": {
			"a": {"type": "ad-sidebar", "position": "ad-sidebar", "enabled": true},
			"b": {"type": "ad-banner", "position": "ad-top-banner"},
			"c": {"type": "headline", "position": "hero-headline"}
		}
	}`)
	slots := Resolve(cfg)
	for _, pos := range slots.Order {
		b, _ := slots.Get(pos)
		assert.False(t, IsAd(b.Type), "ad leaked at %s", pos)
	}
	assert.True(t, slots.Has("hero-headline"))
}

func TestLegacyAdDecision(t *testing.T) {
	type combo struct{ adsEnabled, boxEnabled *bool }
	combos := []combo{
		{nil, nil}, {ptr(true), nil}, {ptr(true), ptr(false)},
		{ptr(false), ptr(true)}, {ptr(true), ptr(true)}, {nil, ptr(true)},
	}
	for _, c := range combos {
		cfg := &site.Config{
			Ads: site.Ads{Enabled: c.adsEnabled},
			ContentBoxes: site.Boxes{
				{Key: "ad", Type: "ad-banner", Position: "ad-mid-banner", Enabled: c.boxEnabled},
			},
		}
		legacy := c.adsEnabled != nil && *c.adsEnabled && (c.boxEnabled == nil || *c.boxEnabled)
		assert.Equal(t, legacy, Resolve(cfg).Has("ad-mid-banner"))
	}
}

func TestPositionSwitchOverridesBoxFlag(t *testing.T) {
	cfg := mustParse(t, `{
		"domain": {"name": "x.com.au"},
		"template": {"type": "hero"},
		"controls": {"ads": {"globalEnabled": true, "positions": {"topBanner": false, "native1": true}}},
		"contentBoxes": {
			"top":    {"type": "ad-banner", "position": "ad-top-banner"},
			"native": {"type": "ad-native", "position": "ad-native-1", "enabled": false},
			"other":  {"type": "ad-native", "position": "ad-sponsored", "enabled": false}
		}
	}`)
	slots := Resolve(cfg)
	assert.False(t, slots.Has("ad-top-banner"))
	assert.True(t, slots.Has("ad-native-1"))
	assert.False(t, slots.Has("ad-sponsored"))
}

func TestBusinessCTAHiddenWhenInquiryDisabled(t *testing.T) {
	for _, text := range []string{"Own a Venue?", "Grow your business", "Get early access"} {
		cfg := &site.Config{
			Controls: &site.Controls{Forms: &site.FormControls{BusinessInquiry: ptr(false)}},
			ContentBoxes: site.Boxes{{
				Key: "cta", Type: "cta", Position: "main",
				Content: site.NewContent(map[string]any{"text": text}),
			}},
		}
		assert.Zero(t, Resolve(cfg).Len(), text)
	}
}

func TestBusinessCTAVisibleWhenInquiryEnabled(t *testing.T) {
	cfg := &site.Config{
		Controls: &site.Controls{Forms: &site.FormControls{BusinessInquiry: ptr(true)}},
		ContentBoxes: site.Boxes{{
			Key: "cta", Type: "cta", Position: "main",
			Content: site.NewContent(map[string]any{"buttonText": "List your Brewery"}),
		}},
	}
	assert.True(t, Resolve(cfg).Has("main"))
}

func TestPlainCTAFollowsEnabled(t *testing.T) {
	cfg := &site.Config{ContentBoxes: site.Boxes{
		{Key: "a", Type: "cta", Position: "main", Content: site.NewContent(map[string]any{"text": "Join the newsletter"})},
		{Key: "b", Type: "cta", Position: "additional", Enabled: ptr(false)},
	}}
	slots := Resolve(cfg)
	assert.True(t, slots.Has("main"))
	assert.False(t, slots.Has("additional"))
}

func TestIsBusinessCTA(t *testing.T) {
	yes := []string{"VENUE owners", "Business listing", "brewery", "Are you the OWNER?", "Early Access", "priority access list"}
	no := []string{"", "Sign up", "Busy", "access early"}
	for _, s := range yes {
		assert.True(t, IsBusinessCTA(s, false), s)
	}
	for _, s := range no {
		assert.False(t, IsBusinessCTA(s, false), s)
	}
	assert.True(t, IsBusinessCTA("", true))
}

func TestMalformedCTAContentIsNoMatch(t *testing.T) {
	cfg := mustParse(t, `{
		"domain": {"name": "x.com.au"},
		"template": {"type": "landing"},
		"contentBoxes": {
			"a": {"type": "cta", "position": "main", "content": {"text": 7, "showForm": "true"}},
			"b": {"type": "cta", "position": "additional", "content": "business"}
		}
	}`)
	slots := Resolve(cfg)
	assert.True(t, slots.Has("main"))
	assert.True(t, slots.Has("additional"))
}

func TestDuplicatePositionLastWriteWins(t *testing.T) {
	cfg := mustParse(t, `{
		"domain": {"name": "x.com.au"},
		"template": {"type": "hero"},
		"contentBoxes": {
			"first":  {"type": "text", "position": "sidebar-1", "content": {"text": "one"}},
			"middle": {"type": "headline", "position": "hero-headline"},
			"second": {"type": "metrics", "position": "sidebar-1"}
		}
	}`)
	slots := Resolve(cfg)
	assert.Equal(t, []string{"sidebar-1", "hero-headline"}, slots.Order)
	b, ok := slots.Get("sidebar-1")
	require.True(t, ok)
	assert.Equal(t, "second", b.Key)
}

func TestHiddenDuplicateDoesNotOverwrite(t *testing.T) {
	cfg := &site.Config{ContentBoxes: site.Boxes{
		{Key: "a", Type: "text", Position: "main"},
		{Key: "b", Type: "text", Position: "main", Enabled: ptr(false)},
	}}
	b, ok := Resolve(cfg).Get("main")
	require.True(t, ok)
	assert.Equal(t, "a", b.Key)
}

func TestResolveIsIdempotent(t *testing.T) {
	cfg := mustParse(t, `{
		"domain": {"name": "x.com.au"},
		"template": {"type": "hero"},
		"ads": {"enabled": true},
		"contentBoxes": {
			"h": {"type": "headline", "position": "hero-headline", "content": {"title": "T"}},
			"s": {"type": "ad-sidebar", "position": "ad-sidebar"},
			"c": {"type": "cta", "position": "main-content", "content": {"text": "Sign up"}}
		}
	}`)
	assert.Equal(t, Resolve(cfg), Resolve(cfg))
}

func TestPageGates(t *testing.T) {
	legacy := mustParse(t, `{
		"domain": {"name": "x.com.au", "forSale": true},
		"features": {"showEmailCapture": true, "enableAnalytics": false}
	}`)
	assert.True(t, EmailCaptureEnabled(legacy))
	assert.True(t, DomainInquiryEnabled(legacy))
	assert.False(t, AnalyticsEnabled(legacy))
	assert.False(t, BusinessInquiryEnabled(legacy))

	nested := mustParse(t, `{
		"domain": {"name": "x.com.au", "forSale": true},
		"features": {"showEmailCapture": true, "enableAnalytics": false},
		"controls": {"forms": {"emailCapture": false, "domainInquiry": false, "businessInquiry": true}, "analytics": true}
	}`)
	assert.False(t, EmailCaptureEnabled(nested))
	assert.False(t, DomainInquiryEnabled(nested))
	assert.True(t, AnalyticsEnabled(nested))
	assert.True(t, BusinessInquiryEnabled(nested))
}
