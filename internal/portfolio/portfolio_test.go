package portfolio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestCheckUnknownDomainKeepsTierZero(t *testing.T) {
	rep := Source{Root: t.TempDir()}.Check("nowhere.com")
	assert.False(t, rep.Exists)
	assert.True(t, rep.Tier0Enabled)
	assert.False(t, rep.HigherTierLive())

	rep = Source{}.Check("nowhere.com")
	assert.True(t, rep.Tier0Enabled)
}

func TestCheckPhases(t *testing.T) {
	cases := []struct {
		name   string
		status string
		want   bool
	}{
		{"live phase", `{"current_phase":"04-live","status":"active"}`, false},
		{"production phase", `{"current_phase":"production-ready","status":"active"}`, false},
		{"deployed status", `{"current_phase":"build","status":"deployed"}`, false},
		{"in progress", `{"current_phase":"02-research","status":"active"}`, true},
		{"explicitly disabled", `{"current_phase":"02-research","status":"active","tier0":{"enabled":false}}`, false},
		{"malformed", `{nope`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, "example.com", "status.json"), tc.status)
			rep := Source{Root: root}.Check("example.com")
			assert.True(t, rep.Exists)
			assert.Equal(t, tc.want, rep.Tier0Enabled)
		})
	}
}

func TestCheckUnknownDefaults(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "example.com", "website"), 0o755))

	rep := Source{Root: root}.Check("example.com")
	assert.Equal(t, "unknown", rep.Phase)
	assert.Equal(t, "unknown", rep.Status)
	assert.True(t, rep.HasWebsite)
	assert.Nil(t, rep.Brand)
}

func TestCheckBrand(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "example.com", "03-branding", "brand-visual.json"), `{
		"color_palette": {
			"primary": {"hex": "#112233"},
			"secondary": {"hex": "#445566"},
			"accent": [{"hex": "#778899"}, {"hex": "#000000"}]
		}
	}`)

	rep := Source{Root: root}.Check("example.com")
	require.NotNil(t, rep.Brand)
	assert.Equal(t, "#112233", rep.Brand.Primary)
	assert.Equal(t, "#445566", rep.Brand.Secondary)
	assert.Equal(t, "#778899", rep.Brand.Accent)
}

func TestDomains(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"b.com", "a.com.au", "templates"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	writeFile(t, filepath.Join(root, "c.com"), "not a dir")

	got, err := Source{Root: root}.Domains()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.com.au", "b.com"}, got)

	got, err = Source{Root: filepath.Join(root, "missing")}.Domains()
	require.NoError(t, err)
	assert.Nil(t, got)
}
