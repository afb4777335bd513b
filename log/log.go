package log

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var (
	debug int32
	std   = logrus.New()
)

// Logger is a global interface for observable loggers.
type Logger = logrus.FieldLogger

// SetDebug enables debug level for the Default logger and for loggers
// created after the call.
func SetDebug(enabled bool) {
	var v int32
	level := logrus.InfoLevel
	if enabled {
		v = 1
		level = logrus.DebugLevel
	}
	atomic.StoreInt32(&debug, v)
	std.SetLevel(level)
}

// Default returns the logger shared by packages that weren't given one.
func Default() *logrus.Logger {
	return std
}

// GetLogger returns a new logger instance
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if atomic.LoadInt32(&debug) == 1 {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops every entry.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
