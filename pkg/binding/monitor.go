package binding

import (
	"log/slog"
	"sync/atomic"
)

// PropagationMonitor observes binding lifecycles and recomputes.
// pkg/instrument provides Prometheus and OpenTelemetry implementations.
type PropagationMonitor interface {
	// BindingCreated is called when To installs a binding.
	BindingCreated(id, name string)

	// BindingDisposed is called the first time a binding is disposed.
	BindingDisposed(id, name string)

	// StartPropagation is called before a recompute. The returned function
	// is called once the recompute and everything it triggered are done.
	StartPropagation(id, name string) func()

	// PropagationDropped is called when a recompute is skipped because the
	// binding reached its maximum propagation depth.
	PropagationDropped(id, name string, depth int)
}

type noopMonitor struct{}

func (noopMonitor) BindingCreated(string, string)          {}
func (noopMonitor) BindingDisposed(string, string)         {}
func (noopMonitor) StartPropagation(string, string) func() { return func() {} }
func (noopMonitor) PropagationDropped(string, string, int) {}

type monitorHolder struct{ m PropagationMonitor }

var currentMonitor atomic.Pointer[monitorHolder]

// SetPropagationMonitor installs m as the process-wide monitor. Passing nil
// restores the no-op monitor.
func SetPropagationMonitor(m PropagationMonitor) {
	if m == nil {
		currentMonitor.Store(nil)
		return
	}
	currentMonitor.Store(&monitorHolder{m: m})
}

func monitor() PropagationMonitor {
	if h := currentMonitor.Load(); h != nil {
		return h.m
	}
	return noopMonitor{}
}

// DefaultMaxPropagationDepth bounds how many nested recomputes of a single
// binding may be active at once.
const DefaultMaxPropagationDepth = 16

var maxDepth atomic.Int32

func init() {
	maxDepth.Store(DefaultMaxPropagationDepth)
}

// SetMaxPropagationDepth changes the default depth bound for bindings
// created afterwards. Values below 1 are treated as 1.
func SetMaxPropagationDepth(n int) {
	if n < 1 {
		n = 1
	}
	maxDepth.Store(int32(n))
}

// MaxPropagationDepth returns the default depth bound.
func MaxPropagationDepth() int {
	return int(maxDepth.Load())
}

func defaultLogger() *slog.Logger {
	return slog.Default().With("component", "binding")
}
