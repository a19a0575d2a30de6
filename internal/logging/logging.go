package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	File  string
	Level string
}

// ParseLevel maps debug|info|warn|error to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a logger writing JSON lines to opts.File, plus a closer that
// syncs and closes the file. The TUI owns the terminal, so with no file the
// logger discards everything.
func New(opts Options) (logr.Logger, func() error, error) {
	noop := func() error { return nil }
	if strings.TrimSpace(opts.File) == "" {
		return logr.Discard(), noop, nil
	}
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), noop, err
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return logr.Discard(), noop, err
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return logr.Discard(), noop, fmt.Errorf("open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zap.NewAtomicLevelAt(level))
	zl := zap.New(core, zap.AddCaller())

	closer := func() error {
		return multierr.Combine(zl.Sync(), f.Close())
	}
	return zapr.NewLogger(zl), closer, nil
}
