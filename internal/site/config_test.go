package site

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "domain": {"name": "brewhaus.com.au", "status": "coming_soon", "forSale": true},
  "template": {"type": "hero", "theme": "terminal", "colorMode": "dark"},
  "contentBoxes": {
    "zeta":  {"type": "headline", "position": "hero-headline", "content": {"title": "Z"}},
    "alpha": {"type": "text", "position": "main-content", "content": {"text": "A"}},
    "bad":   "not a box",
    "mid":   {"type": "ad-banner", "position": "ad-top-banner", "enabled": false}
  }
}`

func TestParseKeepsBoxOrder(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	keys := make([]string, 0, len(cfg.ContentBoxes))
	for _, b := range cfg.ContentBoxes {
		keys = append(keys, b.Key)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)

	assert.True(t, cfg.IsHero())
	assert.True(t, cfg.IsDark())
	assert.True(t, cfg.IsTerminal())
	require.NotNil(t, cfg.Domain.ForSale)
	assert.True(t, *cfg.Domain.ForSale)

	mid := cfg.ContentBoxes[2]
	require.NotNil(t, mid.Enabled)
	assert.False(t, *mid.Enabled)
	assert.True(t, mid.Content.IsEmpty())
}

func TestParseRepeatedKeyReplacesInPlace(t *testing.T) {
	raw := `{"domain":{"name":"x.com"},"template":{"type":"landing"},"contentBoxes":{
		"a": {"type":"text","position":"main"},
		"b": {"type":"text","position":"additional"},
		"a": {"type":"headline","position":"main"}
	}}`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.Len(t, cfg.ContentBoxes, 2)
	assert.Equal(t, "a", cfg.ContentBoxes[0].Key)
	assert.Equal(t, "headline", cfg.ContentBoxes[0].Type)
	assert.Equal(t, "b", cfg.ContentBoxes[1].Key)
}

func TestBoxesRoundTripOrder(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	out, err := json.Marshal(cfg.ContentBoxes)
	require.NoError(t, err)

	var again Boxes
	require.NoError(t, json.Unmarshal(out, &again))
	require.Len(t, again, 3)
	assert.Equal(t, "zeta", again[0].Key)
	assert.Equal(t, "Z", again[0].Content.Str("title"))
}

func TestContentIsEmpty(t *testing.T) {
	cases := map[string]bool{
		`null`:            true,
		`{}`:              true,
		`[]`:              true,
		`""`:              true,
		`0`:               true,
		`true`:            true,
		`{"title":"Hi"}`:  false,
		`["x"]`:           false,
		`"Get Started"`:   false,
		`{"items":[]}`:    false,
		`  {"a": null}  `: false,
	}
	for raw, want := range cases {
		var c Content
		require.NoError(t, json.Unmarshal([]byte(raw), &c), raw)
		assert.Equal(t, want, c.IsEmpty(), raw)
	}

	var absent ContentBox
	require.NoError(t, json.Unmarshal([]byte(`{"type":"cta","position":"main"}`), &absent))
	assert.True(t, absent.Content.IsEmpty())
}

func TestContentAccessorsTolerateWrongShapes(t *testing.T) {
	c := NewContent(map[string]any{
		"title":    42,
		"showForm": "yes",
		"features": []any{map[string]any{"title": "ok"}, "junk"},
	})
	assert.Equal(t, "", c.Str("title"))
	assert.False(t, c.Bool("showForm"))
	assert.Len(t, c.Objects("features"), 1)
	assert.Empty(t, c.Strings("missing"))
}

func TestLint(t *testing.T) {
	cfg, err := Parse([]byte(`{"domain":{"logoSize":"huge"},"template":{"type":"grid"}}`))
	require.NoError(t, err)

	msgs := Lint(cfg)
	assert.Len(t, msgs, 3) // name, logoSize, template type

	ok, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Empty(t, Lint(ok))
}
