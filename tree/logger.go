package tree

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	pkgLogger atomic.Pointer[zap.Logger]
	nopLogger = zap.NewNop()
)

// SetLogger installs the logger used for composition and call tracing.
// A nil logger disables logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		pkgLogger.Store(nil)
		return
	}

	pkgLogger.Store(l.Named("datatree"))
}

// logger may run from package-level initializers, before SetLogger.
func logger() *zap.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}

	return nopLogger
}
