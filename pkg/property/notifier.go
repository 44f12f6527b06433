package property

import (
	"log/slog"
	"runtime/debug"

	"golang.org/x/exp/slices"
)

// Notifier is the listener registry shared by every property kind. Property
// authors embed it in an unexported field and forward the Observable methods
// to it; the zero value is ready to use.
type Notifier[E Change] struct {
	listeners []ChangeListener[E]
	disposed  bool
}

// AddChangeListener appends l. It is a no-op once the notifier is disposed.
func (n *Notifier[E]) AddChangeListener(l ChangeListener[E]) {
	if l == nil || n.disposed {
		return
	}
	n.listeners = append(n.listeners, l)
}

// RemoveChangeListener removes every registration of l.
func (n *Notifier[E]) RemoveChangeListener(l ChangeListener[E]) {
	if l == nil || len(n.listeners) == 0 {
		return
	}
	kept := n.listeners[:0]
	for _, existing := range n.listeners {
		if !sameListener(existing, l) {
			kept = append(kept, existing)
		}
	}
	// Clear the tail so removed listeners can be collected.
	for i := len(kept); i < len(n.listeners); i++ {
		n.listeners[i] = nil
	}
	n.listeners = kept
}

// Listeners returns a copy of the registered listeners in notification order.
func (n *Notifier[E]) Listeners() []ChangeListener[E] {
	return slices.Clone(n.listeners)
}

// ListenerCount returns the number of registrations, duplicates included.
func (n *Notifier[E]) ListenerCount() int {
	return len(n.listeners)
}

// Dispose drops every listener and ignores later registrations.
func (n *Notifier[E]) Dispose() {
	n.disposed = true
	n.listeners = nil
}

// Disposed reports whether Dispose has been called.
func (n *Notifier[E]) Disposed() bool {
	return n.disposed
}

// Notify delivers event to a snapshot of the listeners, in registration
// order. Listeners added or removed during delivery only affect later
// rounds. Panics are recovered per listener; after the round a
// *ListenerFault is panicked if any listener failed.
func (n *Notifier[E]) Notify(event E) {
	if len(n.listeners) == 0 {
		return
	}
	snapshot := slices.Clone(n.listeners)
	mon := monitor()
	mon.Notified(event.Kind(), len(snapshot))

	var faults []error
	for i, l := range snapshot {
		if err := deliver(l, event, i, len(snapshot), mon); err != nil {
			faults = append(faults, err)
		}
	}

	if len(faults) > 0 {
		panic(&ListenerFault{Kind: event.Kind(), Source: event.Source(), Faults: faults})
	}
}

func deliver[E Change](l ChangeListener[E], event E, index, total int, mon Monitor) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err = listenerPanic(r, index, total)
		if _, nested := AsListenerFault(r); nested {
			// Already logged and reported where the inner listener failed.
			return
		}
		mon.ListenerFailed(event.Kind(), err)
		Logger().Error("listener panicked",
			slog.String("kind", event.Kind().String()),
			slog.Int("listener", index),
			slog.Any("error", err),
			slog.String("stack", string(debug.Stack())),
		)
	}()
	l.PropertyChanged(event)
	return nil
}

// sameListener compares two listeners, treating incomparable dynamic types
// as distinct instead of panicking.
func sameListener[E Change](a, b ChangeListener[E]) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
