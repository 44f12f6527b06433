package property_test

import (
	"testing"

	"github.com/vango-dev/props/pkg/property"
	"github.com/vango-dev/props/pkg/proptest"
)

type valueEvents = proptest.Recorder[property.ValueChange[string]]

func recordValue(p property.ReadableProperty[string]) *valueEvents {
	return proptest.Record[property.ValueChange[string]](p)
}

func TestPropertyBasic(t *testing.T) {
	p := property.NewProperty("a")
	rec := recordValue(p)

	if p.Value() != "a" {
		t.Errorf("expected initial value a, got %q", p.Value())
	}

	p.SetValue("b")
	if rec.Count() != 1 {
		t.Fatalf("expected 1 event, got %d", rec.Count())
	}
	e := rec.Last()
	if e.OldValue() != "a" || e.NewValue() != "b" {
		t.Errorf("expected a -> b, got %q -> %q", e.OldValue(), e.NewValue())
	}
	if e.Source() != p {
		t.Error("event source should be the property")
	}
	if e.Kind() != property.KindScalar {
		t.Errorf("expected scalar kind, got %s", e.Kind())
	}
}

func TestPropertySameValueDoesNotNotify(t *testing.T) {
	p := property.NewProperty("a")
	rec := recordValue(p)

	p.SetValue("a")
	if rec.Count() != 0 {
		t.Errorf("same value should not notify, got %d events", rec.Count())
	}
}

func TestPropertyCustomEquality(t *testing.T) {
	caseless := func(a, b string) bool { return len(a) == len(b) }
	p := property.NewProperty("abc", property.WithEquality(caseless))
	rec := recordValue(p)

	p.SetValue("xyz")
	if rec.Count() != 0 {
		t.Errorf("equal-by-length write should not notify, got %d", rec.Count())
	}
	if p.Value() != "xyz" {
		t.Errorf("value should still be stored, got %q", p.Value())
	}
}

func TestPropertyUpdate(t *testing.T) {
	p := property.NewProperty(2)
	p.Update(func(n int) int { return n * 21 })
	if p.Value() != 42 {
		t.Errorf("expected 42, got %d", p.Value())
	}
}

func TestListenersNotifiedInRegistrationOrder(t *testing.T) {
	p := property.NewProperty(0)
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		p.AddChangeListener(property.ListenerFunc(func(property.ValueChange[int]) {
			order = append(order, i)
		}))
	}

	p.SetValue(1)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("expected order [1 2 3], got %v", order)
	}
}

func TestDuplicateListenersAndRemoveAll(t *testing.T) {
	p := property.NewProperty(0)
	calls := 0
	l := property.ListenerFunc(func(property.ValueChange[int]) { calls++ })

	p.AddChangeListener(l)
	p.AddChangeListener(l)
	p.SetValue(1)
	if calls != 2 {
		t.Errorf("duplicate registration should be called twice, got %d", calls)
	}

	p.RemoveChangeListener(l)
	if p.ListenerCount() != 0 {
		t.Errorf("remove should drop every registration, %d left", p.ListenerCount())
	}
	p.SetValue(2)
	if calls != 2 {
		t.Errorf("removed listener should not be called, got %d", calls)
	}
}

func TestListenerAddedDuringNotificationSeesOnlyLaterEvents(t *testing.T) {
	p := property.NewProperty(0)
	late := proptest.NewRecorder[property.ValueChange[int]]()
	added := false
	p.AddChangeListener(property.ListenerFunc(func(property.ValueChange[int]) {
		if !added {
			added = true
			p.AddChangeListener(late)
		}
	}))

	p.SetValue(1)
	if late.Count() != 0 {
		t.Errorf("listener added mid-round should not get the current event, got %d", late.Count())
	}
	p.SetValue(2)
	if late.Count() != 1 {
		t.Errorf("listener should get later events, got %d", late.Count())
	}
}

func TestListenerRemovedDuringNotificationStillGetsCurrentEvent(t *testing.T) {
	p := property.NewProperty(0)
	victim := proptest.NewRecorder[property.ValueChange[int]]()
	p.AddChangeListener(property.ListenerFunc(func(property.ValueChange[int]) {
		p.RemoveChangeListener(victim)
	}))
	p.AddChangeListener(victim)

	p.SetValue(1)
	if victim.Count() != 1 {
		t.Errorf("removal mid-round should not affect the current snapshot, got %d", victim.Count())
	}
	p.SetValue(2)
	if victim.Count() != 1 {
		t.Errorf("removed listener should miss later events, got %d", victim.Count())
	}
}

func TestDispose(t *testing.T) {
	p := property.NewProperty(0)
	rec := proptest.Record[property.ValueChange[int]](p)

	p.Dispose()
	p.Dispose()

	if !p.Disposed() {
		t.Error("expected Disposed() to be true")
	}
	p.SetValue(5)
	if rec.Count() != 0 {
		t.Errorf("disposed property should not notify, got %d", rec.Count())
	}
	if p.Value() != 5 {
		t.Errorf("disposed property still stores writes, got %d", p.Value())
	}

	p.AddChangeListener(rec)
	if p.ListenerCount() != 0 {
		t.Errorf("disposed registry should stay empty, got %d", p.ListenerCount())
	}
}

func TestWithListeners(t *testing.T) {
	rec := proptest.NewRecorder[property.ValueChange[bool]]()
	p := property.NewProperty(false, property.WithListeners[bool](rec))
	p.SetValue(true)
	if rec.Count() != 1 {
		t.Errorf("expected 1 event, got %d", rec.Count())
	}
}

func TestNilPointerValues(t *testing.T) {
	s := "x"
	p := property.NewProperty[*string](nil)
	rec := proptest.Record[property.ValueChange[*string]](p)

	p.SetValue(nil)
	if rec.Count() != 0 {
		t.Errorf("nil -> nil should not notify, got %d", rec.Count())
	}
	p.SetValue(&s)
	if rec.Count() != 1 || rec.Last().OldValue() != nil {
		t.Errorf("nil -> &s should notify once with old nil")
	}
}

func TestReadOnly(t *testing.T) {
	p := property.NewProperty(1)
	ro := property.ReadOnly[int](p)
	rec := proptest.Record[property.ValueChange[int]](ro)

	if _, ok := ro.(property.WritableProperty[int]); ok {
		t.Error("read-only view must not expose SetValue")
	}
	p.SetValue(2)
	if ro.Value() != 2 || rec.Count() != 1 {
		t.Errorf("view should follow the property, value=%d events=%d", ro.Value(), rec.Count())
	}
	ro.RemoveChangeListener(rec)
	if p.ListenerCount() != 0 {
		t.Errorf("removing through the view should unregister, %d left", p.ListenerCount())
	}
}

func TestUpdateNilPanics(t *testing.T) {
	p := property.NewProperty(1)
	proptest.ExpectPanicCode(t, "P001", func() { p.Update(nil) })
}
