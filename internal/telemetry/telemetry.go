// Package telemetry is a thin wrapper around commonlog.Logger, the
// logging library main.go already configures for glsp's own internals
// (spec.md §5's "shared resources" clause names logging as one of the
// few process-wide facilities).
package telemetry

import "github.com/tliron/commonlog"

// Logger is the scoped logger every analysis/store/lsp component logs
// through, keeping call sites decoupled from commonlog's package-level
// Configure/GetLogger split.
type Logger struct {
	inner commonlog.Logger
}

// New wraps a commonlog logger scoped under name (e.g. "quartz.store").
func New(name string) *Logger {
	return &Logger{inner: commonlog.GetLogger(name)}
}

func (l *Logger) Debug(message string)    { l.inner.Debug(message) }
func (l *Logger) Info(message string)     { l.inner.Info(message) }
func (l *Logger) Warning(message string)  { l.inner.Warning(message) }
func (l *Logger) Error(message string)    { l.inner.Error(message) }
func (l *Logger) Critical(message string) { l.inner.Critical(message) }
