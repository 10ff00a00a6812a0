package dynamic

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	loggerMu   sync.Mutex
)

// Logger returns the package logger.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return logger
}

// SetLogger installs l for rejected writes and failed passes. A nil l restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerOnce.Do(func() {})
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}
