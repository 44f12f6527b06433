package property

import (
	"golang.org/x/exp/slices"

	"github.com/vango-dev/props/internal/errors"
	"github.com/vango-dev/props/pkg/transform"
)

// ReadableListProperty is a list property that can be read and observed.
type ReadableListProperty[T any] interface {
	Observable[ListChange[T]]

	// Len returns the number of items.
	Len() int

	// Get returns the item at index i.
	Get(i int) T

	// Items returns a copy of the items.
	Items() []T
}

// ListProperty is an observable ordered sequence.
//
// Every mutation emits the fewest contiguous ListChange events that take the
// previous content to the new one. Bulk removals of scattered items emit one
// event per contiguous run, in ascending order, each with a start index that
// is valid against the content left by the previous event.
type ListProperty[T any] struct {
	obs   Notifier[ListChange[T]]
	items []T

	// mods counts content changes.
	mods uint64
}

// NewList creates an empty list property.
func NewList[T any]() *ListProperty[T] {
	return &ListProperty[T]{}
}

// NewListOf creates a list property holding a copy of items.
func NewListOf[T any](items ...T) *ListProperty[T] {
	return &ListProperty[T]{items: slices.Clone(items)}
}

// Kind returns KindList.
func (l *ListProperty[T]) Kind() Kind { return KindList }

// Len returns the number of items.
func (l *ListProperty[T]) Len() int { return len(l.items) }

// Get returns the item at index i. It panics with P010 when i is out of range.
func (l *ListProperty[T]) Get(i int) T {
	l.checkIndex(i, len(l.items)-1)
	return l.items[i]
}

// Items returns a copy of the items.
func (l *ListProperty[T]) Items() []T {
	return slices.Clone(l.items)
}

// IndexOf returns the index of the first item equal to item, or -1.
func (l *ListProperty[T]) IndexOf(item T) int {
	return slices.IndexFunc(l.items, func(v T) bool { return transform.Equal(v, item) })
}

// Contains reports whether an item equal to item is present.
func (l *ListProperty[T]) Contains(item T) bool {
	return l.IndexOf(item) >= 0
}

// Add appends item.
func (l *ListProperty[T]) Add(item T) {
	l.Insert(len(l.items), item)
}

// AddAll appends items in order as a single insertion.
func (l *ListProperty[T]) AddAll(items ...T) {
	l.Insert(len(l.items), items...)
}

// Insert inserts items at index i, shifting later items right. It emits one
// event, or none when items is empty.
func (l *ListProperty[T]) Insert(i int, items ...T) {
	l.checkIndex(i, len(l.items))
	if len(items) == 0 {
		return
	}
	added := slices.Clone(items)
	l.items = slices.Insert(l.items, i, added...)
	l.mods++
	l.obs.Notify(NewListChange[T](l, i, nil, added))
}

// Set replaces the item at index i and returns the previous item.
// An event is emitted even when the new item equals the old one.
func (l *ListProperty[T]) Set(i int, item T) T {
	l.checkIndex(i, len(l.items)-1)
	old := l.items[i]
	l.items[i] = item
	l.mods++
	l.obs.Notify(NewListChange[T](l, i, []T{old}, []T{item}))
	return old
}

// SetAll replaces len(items) consecutive items starting at index i.
func (l *ListProperty[T]) SetAll(i int, items ...T) {
	l.checkIndex(i, len(l.items))
	if len(items) == 0 {
		return
	}
	l.checkIndex(i+len(items)-1, len(l.items)-1)
	old := slices.Clone(l.items[i : i+len(items)])
	replacing := slices.Clone(items)
	copy(l.items[i:], replacing)
	l.mods++
	l.obs.Notify(NewListChange[T](l, i, old, replacing))
}

// RemoveAt removes and returns the item at index i.
func (l *ListProperty[T]) RemoveAt(i int) T {
	l.checkIndex(i, len(l.items)-1)
	item := l.items[i]
	l.RemoveRange(i, i+1)
	return item
}

// RemoveRange removes the items in [from, to) as a single event.
func (l *ListProperty[T]) RemoveRange(from, to int) {
	if from > to {
		panic(errors.New("P011").WithDetailf("from %d, to %d", from, to))
	}
	l.checkIndex(from, len(l.items))
	l.checkIndex(to, len(l.items))
	if from == to {
		return
	}
	removed := slices.Clone(l.items[from:to])
	l.items = slices.Delete(l.items, from, to)
	l.mods++
	l.obs.Notify(NewListChange[T](l, from, removed, nil))
}

// Remove removes the first item equal to item and reports whether one was found.
func (l *ListProperty[T]) Remove(item T) bool {
	i := l.IndexOf(item)
	if i < 0 {
		return false
	}
	l.RemoveRange(i, i+1)
	return true
}

// RemoveAll removes every item equal to one of items and returns how many
// were removed.
func (l *ListProperty[T]) RemoveAll(items ...T) int {
	return l.RemoveIf(func(v T) bool { return containsEqual(items, v) })
}

// RetainAll removes every item not equal to one of items and returns how many
// were removed.
func (l *ListProperty[T]) RetainAll(items ...T) int {
	return l.RemoveIf(func(v T) bool { return !containsEqual(items, v) })
}

// RemoveIf removes every item matching pred, one event per contiguous run,
// and returns how many were removed. pred is called once per item unless a
// listener changes the list during the operation, in which case the rest of
// the list is rescanned so no stale index is used.
func (l *ListProperty[T]) RemoveIf(pred func(T) bool) int {
	if pred == nil {
		panic(errors.New("P001").WithDetail("RemoveIf predicate is nil"))
	}
	removed := 0
	for i := 0; i < len(l.items); {
		if !pred(l.items[i]) {
			i++
			continue
		}
		end := i + 1
		for end < len(l.items) && pred(l.items[end]) {
			end++
		}
		stopped := end < len(l.items)
		removed += end - i
		want := l.mods + 1
		l.RemoveRange(i, end)
		if stopped && l.mods == want {
			// items[i] is the one that ended the run.
			i++
		}
	}
	return removed
}

// ReplaceAll makes the list hold exactly items, emitting at most one
// replacement for the differing part of the common prefix and one insertion
// or removal for the tail.
func (l *ListProperty[T]) ReplaceAll(items []T) {
	target := slices.Clone(items)
	common := min(len(l.items), len(target))

	first, last := -1, -1
	for i := 0; i < common; i++ {
		if !transform.Equal(l.items[i], target[i]) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first >= 0 {
		l.SetAll(first, target[first:last+1]...)
	}

	switch {
	case len(target) > len(l.items):
		l.Insert(len(l.items), target[len(l.items):]...)
	case len(target) < len(l.items):
		l.RemoveRange(len(target), len(l.items))
	}
}

// Clear removes every item as a single event.
func (l *ListProperty[T]) Clear() {
	l.RemoveRange(0, len(l.items))
}

// AddChangeListener implements Observable.
func (l *ListProperty[T]) AddChangeListener(listener ChangeListener[ListChange[T]]) {
	l.obs.AddChangeListener(listener)
}

// RemoveChangeListener implements Observable.
func (l *ListProperty[T]) RemoveChangeListener(listener ChangeListener[ListChange[T]]) {
	l.obs.RemoveChangeListener(listener)
}

// ListenerCount returns the number of registered listeners.
func (l *ListProperty[T]) ListenerCount() int {
	return l.obs.ListenerCount()
}

// Dispose removes every listener. The items are kept.
func (l *ListProperty[T]) Dispose() {
	l.obs.Dispose()
}

// Disposed reports whether Dispose has been called.
func (l *ListProperty[T]) Disposed() bool {
	return l.obs.Disposed()
}

func (l *ListProperty[T]) checkIndex(i, limit int) {
	if i < 0 || i > limit {
		panic(errors.New("P010").WithDetailf("index %d, length %d", i, len(l.items)))
	}
}

func containsEqual[T any](items []T, v T) bool {
	for _, it := range items {
		if transform.Equal(it, v) {
			return true
		}
	}
	return false
}
