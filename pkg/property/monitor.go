package property

import (
	"log/slog"
	"sync/atomic"
)

// Monitor observes notification activity across all properties.
// pkg/instrument provides Prometheus and OpenTelemetry implementations.
type Monitor interface {
	// Notified is called once per notification round that reaches at least
	// one listener.
	Notified(kind Kind, listeners int)

	// ListenerFailed is called for every listener panic recovered during a
	// notification round.
	ListenerFailed(kind Kind, err error)
}

type noopMonitor struct{}

func (noopMonitor) Notified(Kind, int)         {}
func (noopMonitor) ListenerFailed(Kind, error) {}

type monitorHolder struct{ m Monitor }

var (
	currentMonitor atomic.Pointer[monitorHolder]
	currentLogger  atomic.Pointer[slog.Logger]
)

// SetMonitor installs m as the process-wide monitor. Passing nil restores
// the no-op monitor. Call it at startup, before properties are in use.
func SetMonitor(m Monitor) {
	if m == nil {
		currentMonitor.Store(nil)
		return
	}
	currentMonitor.Store(&monitorHolder{m: m})
}

func monitor() Monitor {
	if h := currentMonitor.Load(); h != nil {
		return h.m
	}
	return noopMonitor{}
}

// SetLogger replaces the logger used to report listener panics.
// Passing nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	currentLogger.Store(l)
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	if l := currentLogger.Load(); l != nil {
		return l
	}
	return slog.Default().With("component", "property")
}
