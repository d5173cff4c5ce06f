// Package diag is the library's non-fatal diagnostic channel. Warnings such
// as unhandled field types or ignored handler options flow through here
// instead of interrupting the calling operation. The default logger is a nop
// so the library stays silent unless the host application opts in.
package diag

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger replaces the diagnostic logger. Passing nil restores the nop
// logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// Warn emits a non-fatal diagnostic.
func Warn(msg string, fields ...zap.Field) {
	logger.Load().Warn(msg, fields...)
}

// Debug emits a low-severity diagnostic.
func Debug(msg string, fields ...zap.Field) {
	logger.Load().Debug(msg, fields...)
}
