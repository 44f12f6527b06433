package property

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/vango-dev/props/internal/errors"
)

// Kind identifies the shape of a property's value and of its change events.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindList
	KindSet
	KindMap
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Change is implemented by every change event.
type Change interface {
	// Kind returns the kind of the property that emitted the event.
	Kind() Kind

	// Source returns the property that emitted the event.
	Source() any
}

// ValueChange describes the replacement of a scalar property's value.
type ValueChange[T any] struct {
	source   any
	oldValue T
	newValue T
}

// NewValueChange creates a scalar change event.
func NewValueChange[T any](source any, oldValue, newValue T) ValueChange[T] {
	return ValueChange[T]{source: source, oldValue: oldValue, newValue: newValue}
}

func (c ValueChange[T]) Kind() Kind  { return KindScalar }
func (c ValueChange[T]) Source() any { return c.source }

// OldValue returns the value before the change.
func (c ValueChange[T]) OldValue() T { return c.oldValue }

// NewValue returns the value after the change.
func (c ValueChange[T]) NewValue() T { return c.newValue }

// ListChangeType classifies a ListChange.
type ListChangeType uint8

const (
	ListAdded ListChangeType = iota + 1
	ListReplaced
	ListRemoved
)

func (t ListChangeType) String() string {
	switch t {
	case ListAdded:
		return "added"
	case ListReplaced:
		return "replaced"
	case ListRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ListChange describes one contiguous structural change of a list property.
//
// An insertion has no old values, a removal has no new values, and a
// replacement has both with equal lengths. The payload slices are private
// snapshots: accessors return copies.
type ListChange[T any] struct {
	source     any
	startIndex int
	oldValues  []T
	newValues  []T
}

// NewListChange creates a list change event starting at startIndex. A nil
// slice marks an absent payload; passing nil for both panics with P030.
func NewListChange[T any](source any, startIndex int, oldValues, newValues []T) ListChange[T] {
	if oldValues == nil && newValues == nil {
		panic(errors.New("P030"))
	}
	return ListChange[T]{
		source:     source,
		startIndex: startIndex,
		oldValues:  snapshot(oldValues),
		newValues:  snapshot(newValues),
	}
}

func (c ListChange[T]) Kind() Kind  { return KindList }
func (c ListChange[T]) Source() any { return c.source }

// StartIndex returns the index of the first affected item.
func (c ListChange[T]) StartIndex() int { return c.startIndex }

// HasOldValues reports whether the event carries previous items.
func (c ListChange[T]) HasOldValues() bool { return c.oldValues != nil }

// HasNewValues reports whether the event carries new items.
func (c ListChange[T]) HasNewValues() bool { return c.newValues != nil }

// OldValues returns a copy of the removed or replaced items, nil for an insertion.
func (c ListChange[T]) OldValues() []T { return slices.Clone(c.oldValues) }

// NewValues returns a copy of the inserted or replacing items, nil for a removal.
func (c ListChange[T]) NewValues() []T { return slices.Clone(c.newValues) }

// Type classifies the event.
func (c ListChange[T]) Type() ListChangeType {
	switch {
	case c.oldValues == nil:
		return ListAdded
	case c.newValues == nil:
		return ListRemoved
	default:
		return ListReplaced
	}
}

// Apply returns items with the change applied. items is not modified.
func (c ListChange[T]) Apply(items []T) []T {
	out := slices.Clone(items)
	switch c.Type() {
	case ListAdded:
		return slices.Insert(out, c.startIndex, c.newValues...)
	case ListRemoved:
		return slices.Delete(out, c.startIndex, c.startIndex+len(c.oldValues))
	default:
		copy(out[c.startIndex:], c.newValues)
		return out
	}
}

// SetChange describes a mutation of a set property by the items that joined
// and the items that left. Sets are unordered, so no positions are carried.
type SetChange[T comparable] struct {
	source  any
	added   []T
	removed []T
}

// NewSetChange creates a set change event. Nil payloads become empty.
func NewSetChange[T comparable](source any, added, removed []T) SetChange[T] {
	if len(added) == 0 && len(removed) == 0 {
		panic(errors.New("P030"))
	}
	return SetChange[T]{
		source:  source,
		added:   nonNil(snapshot(added)),
		removed: nonNil(snapshot(removed)),
	}
}

func (c SetChange[T]) Kind() Kind  { return KindSet }
func (c SetChange[T]) Source() any { return c.source }

// Added returns a copy of the items that joined the set, never nil.
func (c SetChange[T]) Added() []T { return nonNil(slices.Clone(c.added)) }

// Removed returns a copy of the items that left the set, never nil.
func (c SetChange[T]) Removed() []T { return nonNil(slices.Clone(c.removed)) }

// MapChangeType classifies a MapChange.
type MapChangeType uint8

const (
	MapAdded MapChangeType = iota + 1
	MapReplaced
	MapRemoved
)

func (t MapChangeType) String() string {
	switch t {
	case MapAdded:
		return "added"
	case MapReplaced:
		return "replaced"
	case MapRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// MapChange describes keys that were added, replaced or removed in a map
// property. Added keys only have new values, removed keys only have old
// values, replaced keys have both.
type MapChange[K comparable, V any] struct {
	source    any
	keys      []K
	oldValues map[K]V
	newValues map[K]V
}

// NewMapChange creates a map change event. A nil map marks an absent payload.
func NewMapChange[K comparable, V any](source any, keys []K, oldValues, newValues map[K]V) MapChange[K, V] {
	if oldValues == nil && newValues == nil {
		panic(errors.New("P030"))
	}
	return MapChange[K, V]{
		source:    source,
		keys:      slices.Clone(keys),
		oldValues: cloneMap(oldValues),
		newValues: cloneMap(newValues),
	}
}

func (c MapChange[K, V]) Kind() Kind  { return KindMap }
func (c MapChange[K, V]) Source() any { return c.source }

// Keys returns the affected keys in the order the mutation visited them.
func (c MapChange[K, V]) Keys() []K { return slices.Clone(c.keys) }

// OldValues returns a copy of the previous values, nil for added keys.
func (c MapChange[K, V]) OldValues() map[K]V { return cloneMap(c.oldValues) }

// NewValues returns a copy of the new values, nil for removed keys.
func (c MapChange[K, V]) NewValues() map[K]V { return cloneMap(c.newValues) }

// Type classifies the event.
func (c MapChange[K, V]) Type() MapChangeType {
	switch {
	case c.oldValues == nil:
		return MapAdded
	case c.newValues == nil:
		return MapRemoved
	default:
		return MapReplaced
	}
}

// Apply applies the change to m in place.
func (c MapChange[K, V]) Apply(m map[K]V) {
	for _, k := range c.keys {
		if c.newValues == nil {
			delete(m, k)
			continue
		}
		m[k] = c.newValues[k]
	}
}

// snapshot copies s and keeps nil as nil so absent payloads stay absent.
func snapshot[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
