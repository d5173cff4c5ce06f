package declconf

import (
	"go.uber.org/zap"

	"github.com/declconf/declconf/internal/diag"
)

// SetLogger attaches a logger to the library's diagnostic channel.
// Non-fatal conditions (unsupported schema drafts, ignored handler options,
// non-member enum dumps) are reported there; the default is a nop logger,
// so the library stays silent unless a logger is provided. Passing nil
// restores the nop logger.
func SetLogger(l *zap.Logger) { diag.SetLogger(l) }
