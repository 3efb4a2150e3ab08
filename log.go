package ethabi

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger    atomic.Pointer[zap.Logger]
	nopLogger = zap.NewNop()
)

/*
Returns the package logger. Encoding and decoding are silent by default: the
logger is a no-op until replaced via "SetLogger". Only debug-level events are
emitted.
*/
func Logger() *zap.Logger {
	out := logger.Load()
	if out == nil {
		return nopLogger
	}
	return out
}

// Replaces the package logger. Passing nil restores the no-op default.
func SetLogger(val *zap.Logger) {
	logger.Store(val)
}
