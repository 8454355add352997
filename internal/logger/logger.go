package logger

import (
	"sync"

	"go.uber.org/zap"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
	level        zap.AtomicLevel
)

// Get returns a singleton logger configured with the provided level.
// The first call initializes the logger; subsequent calls ignore the level
// and return the already initialized instance.
func Get(levelStr string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(levelStr)
	})
	return globalLogger
}

// SetLevel changes the level of the singleton. The process logs at info until
// config is read, then applies log.level here.
func SetLevel(levelStr string) {
	Get(levelStr)
	level.SetLevel(toZapLevel(levelStr))
}
