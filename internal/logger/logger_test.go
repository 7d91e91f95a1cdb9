package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

func TestNewWritesDailyFile(t *testing.T) {
	root := t.TempDir()
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	log, err := New(Options{Root: root, Level: "info", MaxSizeMB: 1})
	require.NoError(t, err)
	_ = log.Sync()

	_, err = os.Stat(filepath.Join(root, "logs", time.Now().Format("2006-01-02")+".log"))
	assert.NoError(t, err)
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, zap.L(), FromContext(context.Background()))

	l := zap.NewNop()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestNewConsoleFiltersByLevel(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	var buf bytes.Buffer
	log := NewConsole("warn", &buf)
	log.Info("quiet")
	zap.S().Warnw("loud", "domain", "x.com")
	_ = log.Sync()

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "x.com")
}
