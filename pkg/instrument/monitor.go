package instrument

import (
	"github.com/vango-dev/props/pkg/binding"
	"github.com/vango-dev/props/pkg/property"
)

// Monitor observes both property notifications and binding propagation.
// Metrics and Tracer implement it.
type Monitor interface {
	property.Monitor
	binding.PropagationMonitor
}

var (
	_ Monitor = (*Metrics)(nil)
	_ Monitor = (*Tracer)(nil)
)

// Combine fans every callback out to monitors, in order. Nil monitors are
// skipped.
func Combine(monitors ...Monitor) Monitor {
	var ms multi
	for _, m := range monitors {
		if m != nil {
			ms = append(ms, m)
		}
	}
	return ms
}

type multi []Monitor

func (ms multi) Notified(kind property.Kind, listeners int) {
	for _, m := range ms {
		m.Notified(kind, listeners)
	}
}

func (ms multi) ListenerFailed(kind property.Kind, err error) {
	for _, m := range ms {
		m.ListenerFailed(kind, err)
	}
}

func (ms multi) BindingCreated(id, name string) {
	for _, m := range ms {
		m.BindingCreated(id, name)
	}
}

func (ms multi) BindingDisposed(id, name string) {
	for _, m := range ms {
		m.BindingDisposed(id, name)
	}
}

func (ms multi) StartPropagation(id, name string) func() {
	ends := make([]func(), len(ms))
	for i, m := range ms {
		ends[i] = m.StartPropagation(id, name)
	}
	return func() {
		for i := len(ends) - 1; i >= 0; i-- {
			ends[i]()
		}
	}
}

func (ms multi) PropagationDropped(id, name string, depth int) {
	for _, m := range ms {
		m.PropagationDropped(id, name, depth)
	}
}

// Install registers monitors with package property and package binding.
// Calling it with no monitors restores the no-op defaults.
func Install(monitors ...Monitor) {
	if len(monitors) == 0 {
		property.SetMonitor(nil)
		binding.SetPropagationMonitor(nil)
		return
	}
	m := Combine(monitors...)
	property.SetMonitor(m)
	binding.SetPropagationMonitor(m)
}
