// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// The renderer writes lifecycle and error events to one JSON log per day
// under `<root>/logs/YYYY-MM-DD.log`.  Lumberjack rotates a day's file
// when it grows past MaxSizeMB and prunes old files by count and age.
// When stdout is a terminal the same events are mirrored there with the
// console encoder.
//
// The configtool binary uses NewConsole instead: human-readable lines on
// stderr and no files.
//
// Usage
// -----
//
//	log, err := logger.New(logger.Options{Root: cfg.Paths.Root, Level: cfg.Log.Level})
//	if err != nil { … }
//	log.Infow("renderer online", "addr", addr)
//
// Notes
// -----
// • ISO-8601 timestamps, lowercase levels, short caller paths.
// • zap's own errors go to the same file via `ErrorOutput`.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.  Zero rotation values fall back to lumberjack's
// own defaults.
type Options struct {
	Root       string // log files go to Root/logs
	Level      string // debug, info, warn, or error; anything else means info
	Tee        bool   // mirror to stdout
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds the file logger described by o and installs it as the
// process-wide default via zap.ReplaceGlobals.
func New(o Options) (*zap.SugaredLogger, error) {
	dir := filepath.Join(o.Root, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(dir, time.Now().Format("2006-01-02")+".log"),
		MaxSize:    o.MaxSizeMB,
		MaxBackups: o.MaxBackups,
		MaxAge:     o.MaxAgeDays,
		Compress:   o.Compress,
	})

	lvl := ParseLevel(o.Level)
	enc := fileEncoding()
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), sink, lvl)
	if o.Tee {
		core = zapcore.NewTee(core, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), lvl))
	}

	z := zap.New(core, zap.AddCaller(), zap.ErrorOutput(sink))
	zap.ReplaceGlobals(z)

	s := z.Sugar()
	s.Infow("logger online", "dir", dir, "level", lvl.String(), "tee", o.Tee)
	return s, nil
}

func fileEncoding() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
}

// NewConsole returns a console-only logger writing to w.  It is also
// installed as the global logger.
func NewConsole(level string, w io.Writer) *zap.SugaredLogger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	z := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), ParseLevel(level)))
	zap.ReplaceGlobals(z)
	return z.Sugar()
}

// ParseLevel maps "debug", "warn", … to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil || s == "" {
		return zapcore.InfoLevel
	}
	return lvl
}
