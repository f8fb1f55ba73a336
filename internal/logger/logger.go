// Package logger holds the process-wide zap logger used by the CLI and the
// download workers. Library code in the root package never logs; callers
// decide what to surface.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.SugaredLogger

// Init builds the process logger. Verbose enables debug output and caller
// annotations. Safe to call once before any Logger() use; later calls
// replace the logger.
func Init(verbose bool) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg.DisableCaller = true
		cfg.DisableStacktrace = true
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	z, err := cfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(z)
	global = z.Sugar()
	return nil
}

// Logger returns the process logger. It must return a usable logger even if
// Init was never called, so early failures still have somewhere to go.
func Logger() *zap.SugaredLogger {
	if global == nil {
		return zap.NewNop().Sugar()
	}
	return global
}

// Sync flushes buffered log entries. Called on process exit.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
