package proptest

import (
	"testing"

	"golang.org/x/exp/slices"

	"github.com/vango-dev/props/internal/errors"
	"github.com/vango-dev/props/pkg/property"
)

// Recorder is a ChangeListener that keeps every event it receives.
type Recorder[E property.Change] struct {
	events []E
}

// NewRecorder creates an empty recorder.
func NewRecorder[E property.Change]() *Recorder[E] {
	return &Recorder[E]{}
}

// Record creates a recorder and registers it on o.
func Record[E property.Change](o property.Observable[E]) *Recorder[E] {
	r := NewRecorder[E]()
	o.AddChangeListener(r)
	return r
}

// PropertyChanged implements property.ChangeListener.
func (r *Recorder[E]) PropertyChanged(event E) {
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder[E]) Events() []E {
	return slices.Clone(r.events)
}

// Count returns the number of recorded events.
func (r *Recorder[E]) Count() int {
	return len(r.events)
}

// Last returns the most recent event. It panics if nothing was recorded.
func (r *Recorder[E]) Last() E {
	return r.events[len(r.events)-1]
}

// Reset forgets every recorded event.
func (r *Recorder[E]) Reset() {
	r.events = nil
}

// ReplayList applies events in order to a copy of initial.
func ReplayList[T any](initial []T, events []property.ListChange[T]) []T {
	items := slices.Clone(initial)
	for _, e := range events {
		items = e.Apply(items)
	}
	return items
}

// ReplaySet applies events in order to a copy of initial and returns the
// resulting membership.
func ReplaySet[T comparable](initial []T, events []property.SetChange[T]) map[T]bool {
	members := make(map[T]bool, len(initial))
	for _, item := range initial {
		members[item] = true
	}
	for _, e := range events {
		for _, item := range e.Removed() {
			delete(members, item)
		}
		for _, item := range e.Added() {
			members[item] = true
		}
	}
	return members
}

// ReplayMap applies events in order to a copy of initial.
func ReplayMap[K comparable, V any](initial map[K]V, events []property.MapChange[K, V]) map[K]V {
	out := make(map[K]V, len(initial))
	for k, v := range initial {
		out[k] = v
	}
	for _, e := range events {
		e.Apply(out)
	}
	return out
}

// ExpectPanic fails t unless fn panics, and returns the recovered value.
func ExpectPanic(t testing.TB, fn func()) (recovered any) {
	t.Helper()
	defer func() {
		t.Helper()
		recovered = recover()
		if recovered == nil {
			t.Errorf("expected panic, got none")
		}
	}()
	fn()
	return nil
}

// ExpectPanicCode fails t unless fn panics with a props error carrying code.
func ExpectPanicCode(t testing.TB, code string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Errorf("expected panic with code %s, got none", code)
			return
		}
		err, ok := r.(error)
		if !ok {
			t.Errorf("expected panic with code %s, got %v", code, r)
			return
		}
		if got := errors.CodeOf(err); got != code {
			t.Errorf("expected panic with code %s, got %q (%v)", code, got, err)
		}
	}()
	fn()
}

// ExpectListenerFault fails t unless fn panics with a *property.ListenerFault
// holding want faults, and returns it.
func ExpectListenerFault(t testing.TB, want int, fn func()) (fault *property.ListenerFault) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		lf, ok := property.AsListenerFault(r)
		if !ok {
			t.Errorf("expected *property.ListenerFault, got %v", r)
			return
		}
		if len(lf.Faults) != want {
			t.Errorf("expected %d faults, got %d", want, len(lf.Faults))
		}
		fault = lf
	}()
	fn()
	return nil
}
