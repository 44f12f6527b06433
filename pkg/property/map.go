package property

import (
	"golang.org/x/exp/slices"
)

// Entry is a key/value pair of a map property.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// ReadableMapProperty is a map property that can be read and observed.
type ReadableMapProperty[K comparable, V any] interface {
	Observable[MapChange[K, V]]

	// Len returns the number of entries.
	Len() int

	// Get returns the value for key and whether it is present.
	Get(key K) (V, bool)

	// Keys returns the keys in insertion order.
	Keys() []K
}

// MapProperty is an observable map that remembers key insertion order.
//
// Added, replaced and removed keys are reported in separate MapChange
// events. Replacing a value keeps the key's original position.
type MapProperty[K comparable, V any] struct {
	obs    Notifier[MapChange[K, V]]
	keys   []K
	values map[K]V
}

// NewMap creates an empty map property.
func NewMap[K comparable, V any]() *MapProperty[K, V] {
	return &MapProperty[K, V]{values: make(map[K]V)}
}

// NewMapOf creates a map property holding entries, in order.
func NewMapOf[K comparable, V any](entries ...Entry[K, V]) *MapProperty[K, V] {
	m := NewMap[K, V]()
	for _, e := range entries {
		m.store(e.Key, e.Value)
	}
	return m
}

// Kind returns KindMap.
func (m *MapProperty[K, V]) Kind() Kind { return KindMap }

// Len returns the number of entries.
func (m *MapProperty[K, V]) Len() int { return len(m.keys) }

// Get returns the value for key and whether it is present.
func (m *MapProperty[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// ContainsKey reports whether key is present.
func (m *MapProperty[K, V]) ContainsKey(key K) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (m *MapProperty[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

// Values returns the values in key insertion order.
func (m *MapProperty[K, V]) Values() []V {
	out := make([]V, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.values[k]
	}
	return out
}

// Entries returns the entries in key insertion order.
func (m *MapProperty[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], len(m.keys))
	for i, k := range m.keys {
		out[i] = Entry[K, V]{Key: k, Value: m.values[k]}
	}
	return out
}

// Put stores value under key and returns the previous value, if any.
func (m *MapProperty[K, V]) Put(key K, value V) (V, bool) {
	old, existed := m.values[key]
	m.store(key, value)
	if existed {
		m.obs.Notify(NewMapChange[K, V](m, []K{key}, map[K]V{key: old}, map[K]V{key: value}))
	} else {
		m.obs.Notify(NewMapChange[K, V](m, []K{key}, nil, map[K]V{key: value}))
	}
	return old, existed
}

// PutAll stores every entry. New keys are reported in one added event, then
// keys that already existed in one replaced event. When a key repeats in
// entries the last value wins.
func (m *MapProperty[K, V]) PutAll(entries ...Entry[K, V]) {
	var addedKeys, replacedKeys []K
	added := make(map[K]V)
	oldValues := make(map[K]V)
	replaced := make(map[K]V)

	for _, e := range entries {
		if _, ok := added[e.Key]; ok {
			added[e.Key] = e.Value
			continue
		}
		if _, ok := replaced[e.Key]; ok {
			replaced[e.Key] = e.Value
			continue
		}
		if old, ok := m.values[e.Key]; ok {
			replacedKeys = append(replacedKeys, e.Key)
			oldValues[e.Key] = old
			replaced[e.Key] = e.Value
		} else {
			addedKeys = append(addedKeys, e.Key)
			added[e.Key] = e.Value
		}
	}

	if len(addedKeys) > 0 {
		for _, k := range addedKeys {
			m.store(k, added[k])
		}
		m.obs.Notify(NewMapChange[K, V](m, addedKeys, nil, added))
	}
	if len(replacedKeys) > 0 {
		for _, k := range replacedKeys {
			m.store(k, replaced[k])
		}
		m.obs.Notify(NewMapChange[K, V](m, replacedKeys, oldValues, replaced))
	}
}

// Remove deletes key and returns its value, if it was present.
func (m *MapProperty[K, V]) Remove(key K) (V, bool) {
	old, ok := m.values[key]
	if !ok {
		return old, false
	}
	m.RemoveAll(key)
	return old, true
}

// RemoveAll deletes every present key as a single event and returns how many
// were removed.
func (m *MapProperty[K, V]) RemoveAll(keys ...K) int {
	var removedKeys []K
	removed := make(map[K]V)
	for _, k := range keys {
		v, ok := m.values[k]
		if !ok {
			continue
		}
		removedKeys = append(removedKeys, k)
		removed[k] = v
		m.unstore(k)
	}
	if len(removedKeys) > 0 {
		m.obs.Notify(NewMapChange[K, V](m, removedKeys, removed, nil))
	}
	return len(removedKeys)
}

// Clear removes every entry as a single event.
func (m *MapProperty[K, V]) Clear() {
	m.RemoveAll(slices.Clone(m.keys)...)
}

// AddChangeListener implements Observable.
func (m *MapProperty[K, V]) AddChangeListener(l ChangeListener[MapChange[K, V]]) {
	m.obs.AddChangeListener(l)
}

// RemoveChangeListener implements Observable.
func (m *MapProperty[K, V]) RemoveChangeListener(l ChangeListener[MapChange[K, V]]) {
	m.obs.RemoveChangeListener(l)
}

// ListenerCount returns the number of registered listeners.
func (m *MapProperty[K, V]) ListenerCount() int {
	return m.obs.ListenerCount()
}

// Dispose removes every listener. The entries are kept.
func (m *MapProperty[K, V]) Dispose() {
	m.obs.Dispose()
}

// Disposed reports whether Dispose has been called.
func (m *MapProperty[K, V]) Disposed() bool {
	return m.obs.Disposed()
}

func (m *MapProperty[K, V]) store(key K, value V) {
	if m.values == nil {
		m.values = make(map[K]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *MapProperty[K, V]) unstore(key K) {
	delete(m.values, key)
	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
}
