package property_test

import (
	"reflect"
	"testing"

	"github.com/vango-dev/props/pkg/property"
	"github.com/vango-dev/props/pkg/proptest"
)

type entry = property.Entry[string, int]

func TestMapPutAddedAndReplaced(t *testing.T) {
	m := property.NewMap[string, int]()
	rec := proptest.Record[property.MapChange[string, int]](m)

	if _, existed := m.Put("a", 1); existed {
		t.Error("first Put should report no previous value")
	}
	if old, existed := m.Put("a", 2); !existed || old != 1 {
		t.Errorf("second Put should return 1, got %d %v", old, existed)
	}

	events := rec.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type() != property.MapAdded || events[0].OldValues() != nil {
		t.Errorf("first event should be added without old values")
	}
	if events[1].Type() != property.MapReplaced ||
		events[1].OldValues()["a"] != 1 || events[1].NewValues()["a"] != 2 {
		t.Errorf("second event should replace 1 with 2")
	}
}

func TestMapPutAllSplitsEvents(t *testing.T) {
	m := property.NewMapOf(entry{"a", 1})
	rec := proptest.Record[property.MapChange[string, int]](m)

	m.PutAll(entry{"b", 2}, entry{"a", 10}, entry{"c", 3}, entry{"b", 20})

	events := rec.Events()
	if len(events) != 2 {
		t.Fatalf("expected added and replaced events, got %d", len(events))
	}
	if !reflect.DeepEqual(events[0].Keys(), []string{"b", "c"}) || events[0].NewValues()["b"] != 20 {
		t.Errorf("added event keys=%v values=%v", events[0].Keys(), events[0].NewValues())
	}
	if !reflect.DeepEqual(events[1].Keys(), []string{"a"}) || events[1].OldValues()["a"] != 1 {
		t.Errorf("replaced event keys=%v old=%v", events[1].Keys(), events[1].OldValues())
	}
	if !reflect.DeepEqual(m.Keys(), []string{"a", "b", "c"}) {
		t.Errorf("expected insertion order [a b c], got %v", m.Keys())
	}
}

func TestMapRemove(t *testing.T) {
	m := property.NewMapOf(entry{"a", 1}, entry{"b", 2}, entry{"c", 3})
	initial := map[string]int{"a": 1, "b": 2, "c": 3}
	rec := proptest.Record[property.MapChange[string, int]](m)

	if _, ok := m.Remove("zz"); ok {
		t.Error("removing an absent key should report false")
	}
	if v, ok := m.Remove("b"); !ok || v != 2 {
		t.Errorf("Remove(b) = %d, %v", v, ok)
	}
	if n := m.RemoveAll("a", "zz"); n != 1 {
		t.Errorf("RemoveAll removed %d, want 1", n)
	}
	m.Clear()

	if rec.Count() != 3 {
		t.Errorf("expected 3 removal events, got %d", rec.Count())
	}
	for _, e := range rec.Events() {
		if e.Type() != property.MapRemoved || e.NewValues() != nil {
			t.Errorf("expected removal event, got %s", e.Type())
		}
	}
	if got := proptest.ReplayMap(initial, rec.Events()); len(got) != 0 {
		t.Errorf("replay should be empty, got %v", got)
	}
}

func TestMapEntriesAndReadOnly(t *testing.T) {
	m := property.NewMapOf(entry{"x", 1}, entry{"y", 2})
	m.Put("x", 5)

	want := []entry{{"x", 5}, {"y", 2}}
	if !reflect.DeepEqual(m.Entries(), want) {
		t.Errorf("Entries = %v, want %v", m.Entries(), want)
	}
	if !reflect.DeepEqual(m.Values(), []int{5, 2}) {
		t.Errorf("Values = %v", m.Values())
	}

	ro := property.ReadOnlyMap[string, int](m)
	if v, ok := ro.Get("y"); !ok || v != 2 {
		t.Error("read-only map should mirror the map")
	}
}
