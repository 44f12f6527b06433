package property

import (
	"golang.org/x/exp/slices"
)

// ReadableSetProperty is a set property that can be read and observed.
type ReadableSetProperty[T comparable] interface {
	Observable[SetChange[T]]

	// Len returns the number of items.
	Len() int

	// Contains reports whether item is a member.
	Contains(item T) bool

	// Items returns a copy of the members in insertion order.
	Items() []T
}

// SetProperty is an observable set. Each mutating call emits at most one
// SetChange carrying the items that joined and the items that left; calls
// that change nothing emit nothing.
//
// Members are iterated in insertion order so that events and Items are
// deterministic.
type SetProperty[T comparable] struct {
	obs     Notifier[SetChange[T]]
	order   []T
	members map[T]struct{}
}

// NewSet creates an empty set property.
func NewSet[T comparable]() *SetProperty[T] {
	return &SetProperty[T]{members: make(map[T]struct{})}
}

// NewSetOf creates a set property holding items, duplicates dropped.
func NewSetOf[T comparable](items ...T) *SetProperty[T] {
	s := NewSet[T]()
	for _, item := range items {
		s.insert(item)
	}
	return s
}

// Kind returns KindSet.
func (s *SetProperty[T]) Kind() Kind { return KindSet }

// Len returns the number of members.
func (s *SetProperty[T]) Len() int { return len(s.order) }

// Contains reports whether item is a member.
func (s *SetProperty[T]) Contains(item T) bool {
	_, ok := s.members[item]
	return ok
}

// Items returns a copy of the members in insertion order.
func (s *SetProperty[T]) Items() []T {
	return slices.Clone(s.order)
}

// Add adds item and reports whether it was absent.
func (s *SetProperty[T]) Add(item T) bool {
	return s.AddAll(item) == 1
}

// AddAll adds every absent item and returns how many were added.
func (s *SetProperty[T]) AddAll(items ...T) int {
	var added []T
	for _, item := range items {
		if s.insert(item) {
			added = append(added, item)
		}
	}
	if len(added) > 0 {
		s.obs.Notify(NewSetChange[T](s, added, nil))
	}
	return len(added)
}

// Remove removes item and reports whether it was present.
func (s *SetProperty[T]) Remove(item T) bool {
	return s.RemoveAll(item) == 1
}

// RemoveAll removes every present item and returns how many were removed.
func (s *SetProperty[T]) RemoveAll(items ...T) int {
	var removed []T
	for _, item := range items {
		if s.delete(item) {
			removed = append(removed, item)
		}
	}
	if len(removed) > 0 {
		s.obs.Notify(NewSetChange[T](s, nil, removed))
	}
	return len(removed)
}

// RetainAll removes every member not in items and returns how many were removed.
func (s *SetProperty[T]) RetainAll(items ...T) int {
	keep := make(map[T]struct{}, len(items))
	for _, item := range items {
		keep[item] = struct{}{}
	}
	var drop []T
	for _, member := range s.order {
		if _, ok := keep[member]; !ok {
			drop = append(drop, member)
		}
	}
	return s.RemoveAll(drop...)
}

// ReplaceAll makes the set hold exactly items, as a single event.
func (s *SetProperty[T]) ReplaceAll(items ...T) {
	want := make(map[T]struct{}, len(items))
	for _, item := range items {
		want[item] = struct{}{}
	}
	var removed, added []T
	for _, member := range slices.Clone(s.order) {
		if _, ok := want[member]; !ok && s.delete(member) {
			removed = append(removed, member)
		}
	}
	for _, item := range items {
		if s.insert(item) {
			added = append(added, item)
		}
	}
	if len(added) > 0 || len(removed) > 0 {
		s.obs.Notify(NewSetChange[T](s, added, removed))
	}
}

// Clear removes every member as a single event.
func (s *SetProperty[T]) Clear() {
	s.RemoveAll(slices.Clone(s.order)...)
}

// AddChangeListener implements Observable.
func (s *SetProperty[T]) AddChangeListener(l ChangeListener[SetChange[T]]) {
	s.obs.AddChangeListener(l)
}

// RemoveChangeListener implements Observable.
func (s *SetProperty[T]) RemoveChangeListener(l ChangeListener[SetChange[T]]) {
	s.obs.RemoveChangeListener(l)
}

// ListenerCount returns the number of registered listeners.
func (s *SetProperty[T]) ListenerCount() int {
	return s.obs.ListenerCount()
}

// Dispose removes every listener. The members are kept.
func (s *SetProperty[T]) Dispose() {
	s.obs.Dispose()
}

// Disposed reports whether Dispose has been called.
func (s *SetProperty[T]) Disposed() bool {
	return s.obs.Disposed()
}

func (s *SetProperty[T]) insert(item T) bool {
	if s.members == nil {
		s.members = make(map[T]struct{})
	}
	if _, ok := s.members[item]; ok {
		return false
	}
	s.members[item] = struct{}{}
	s.order = append(s.order, item)
	return true
}

func (s *SetProperty[T]) delete(item T) bool {
	if _, ok := s.members[item]; !ok {
		return false
	}
	delete(s.members, item)
	if i := slices.Index(s.order, item); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return true
}
