package property_test

import (
	stderrors "errors"
	"testing"

	"github.com/vango-dev/props/pkg/property"
	"github.com/vango-dev/props/pkg/proptest"
)

type countingMonitor struct {
	notified int
	failed   []error
}

func (m *countingMonitor) Notified(property.Kind, int) { m.notified++ }

func (m *countingMonitor) ListenerFailed(_ property.Kind, err error) {
	m.failed = append(m.failed, err)
}

func TestListenerPanicDoesNotAbortDelivery(t *testing.T) {
	mon := &countingMonitor{}
	property.SetMonitor(mon)
	defer property.SetMonitor(nil)

	p := property.NewProperty(0)
	boom := stderrors.New("boom")
	p.AddChangeListener(property.ListenerFunc(func(property.ValueChange[int]) { panic(boom) }))
	after := proptest.Record[property.ValueChange[int]](p)

	fault := proptest.ExpectListenerFault(t, 1, func() { p.SetValue(1) })

	if after.Count() != 1 {
		t.Errorf("listener after the failing one should still run, got %d", after.Count())
	}
	if p.Value() != 1 {
		t.Errorf("value should be stored before notification, got %d", p.Value())
	}
	if fault == nil {
		t.Fatal("expected a fault")
	}
	if !stderrors.Is(fault, boom) {
		t.Error("fault should wrap the original panic value")
	}
	if fault.Source != p || fault.Kind != property.KindScalar {
		t.Errorf("fault source/kind mismatch: %v %s", fault.Source, fault.Kind)
	}
	if mon.notified != 1 || len(mon.failed) != 1 {
		t.Errorf("monitor saw notified=%d failed=%d, want 1/1", mon.notified, len(mon.failed))
	}
}

func TestMultipleListenerPanicsCollected(t *testing.T) {
	p := property.NewProperty("")
	p.AddChangeListener(property.ListenerFunc(func(property.ValueChange[string]) { panic("one") }))
	p.AddChangeListener(property.ListenerFunc(func(property.ValueChange[string]) { panic("two") }))

	proptest.ExpectListenerFault(t, 2, func() { p.SetValue("x") })
}

func TestNestedFaultReportedOnce(t *testing.T) {
	mon := &countingMonitor{}
	property.SetMonitor(mon)
	defer property.SetMonitor(nil)

	inner := property.NewProperty(0)
	inner.AddChangeListener(property.ListenerFunc(func(property.ValueChange[int]) { panic("inner") }))

	outer := property.NewProperty(0)
	outer.AddChangeListener(property.ListenerFunc(func(c property.ValueChange[int]) {
		inner.SetValue(c.NewValue())
	}))

	proptest.ExpectListenerFault(t, 1, func() { outer.SetValue(1) })
	if len(mon.failed) != 1 {
		t.Errorf("nested fault should be reported once, got %d", len(mon.failed))
	}
}
