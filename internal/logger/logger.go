// Package logger holds the process-wide structured logger built on zap.
package logger

import "go.uber.org/zap"

// Log is the global SugaredLogger. It defaults to a no-op logger so packages
// may log before Init runs (e.g. in tests).
var Log = zap.NewNop().Sugar()

// Init replaces the global logger with one configured at the given level.
func Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = zl.Sugar()
	return nil
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	_ = Log.Sync()
}
