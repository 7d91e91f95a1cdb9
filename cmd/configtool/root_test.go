package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRewriteCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.com.json"),
		[]byte(`{"seo":{},"domain":{"name":"a.com"}}`), 0o644))

	out, err := run(t, "move-seo-to-top", "--configs", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "move-seo-to-top: 1 updated")

	raw, err := os.ReadFile(filepath.Join(dir, "a.com.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"domain\": {\n    \"name\": \"a.com\"\n  },\n  \"seo\": {}\n}\n", string(raw))
}

func TestRewriteCommandReportsBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.com.json"), []byte(`{`), 0o644))

	out, err := run(t, "migrate-controls", "--configs", dir)
	assert.Error(t, err)
	assert.Contains(t, out, "bad.com")
}

func TestLintCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.com.json"),
		[]byte(`{"domain":{"name":"ok.com"},"template":{"type":"landing"}}`), 0o644))
	out, err := run(t, "lint", "--configs", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 1")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.com.json"),
		[]byte(`{"domain":{"name":"bad.com"},"template":{"type":"carousel"}}`), 0o644))
	_, err = run(t, "lint", "--configs", dir)
	assert.Error(t, err)
}

func TestDNSDryRunWritesPlan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.com.json"), []byte(`{}`), 0o644))
	plan := filepath.Join(t.TempDir(), "records.json")

	out, err := run(t, "dns", "--dry-run", "--configs", dir, "--plan-file", plan)
	require.NoError(t, err)
	assert.Contains(t, out, "1 records")

	raw, err := os.ReadFile(plan)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"CNAME","name":"a.com","content":"cname.vercel-dns.com","proxied":false}]`, string(raw))
}

func TestStatusNeedsDomain(t *testing.T) {
	_, err := run(t, "status")
	assert.Error(t, err)
}

func TestBatchDeployNeedsCSV(t *testing.T) {
	t.Setenv("DOMAIN8_CSV", "")
	_, err := run(t, "batch-deploy", "--configs", t.TempDir())
	assert.Error(t, err)
}
