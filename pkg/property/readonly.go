package property

// ReadOnly returns a view of p without its mutators. Listeners added to the
// view are registered on p, and events keep p as their source.
func ReadOnly[T any](p ReadableProperty[T]) ReadableProperty[T] {
	return readOnlyProperty[T]{p: p}
}

type readOnlyProperty[T any] struct {
	p ReadableProperty[T]
}

func (r readOnlyProperty[T]) Value() T { return r.p.Value() }

func (r readOnlyProperty[T]) AddChangeListener(l ChangeListener[ValueChange[T]]) {
	r.p.AddChangeListener(l)
}

func (r readOnlyProperty[T]) RemoveChangeListener(l ChangeListener[ValueChange[T]]) {
	r.p.RemoveChangeListener(l)
}

// ReadOnlyList returns a view of l without its mutators.
func ReadOnlyList[T any](l ReadableListProperty[T]) ReadableListProperty[T] {
	return readOnlyList[T]{l: l}
}

type readOnlyList[T any] struct {
	l ReadableListProperty[T]
}

func (r readOnlyList[T]) Len() int    { return r.l.Len() }
func (r readOnlyList[T]) Get(i int) T { return r.l.Get(i) }
func (r readOnlyList[T]) Items() []T  { return r.l.Items() }

func (r readOnlyList[T]) AddChangeListener(l ChangeListener[ListChange[T]]) {
	r.l.AddChangeListener(l)
}

func (r readOnlyList[T]) RemoveChangeListener(l ChangeListener[ListChange[T]]) {
	r.l.RemoveChangeListener(l)
}

// ReadOnlySet returns a view of s without its mutators.
func ReadOnlySet[T comparable](s ReadableSetProperty[T]) ReadableSetProperty[T] {
	return readOnlySet[T]{s: s}
}

type readOnlySet[T comparable] struct {
	s ReadableSetProperty[T]
}

func (r readOnlySet[T]) Len() int             { return r.s.Len() }
func (r readOnlySet[T]) Contains(item T) bool { return r.s.Contains(item) }
func (r readOnlySet[T]) Items() []T           { return r.s.Items() }

func (r readOnlySet[T]) AddChangeListener(l ChangeListener[SetChange[T]]) {
	r.s.AddChangeListener(l)
}

func (r readOnlySet[T]) RemoveChangeListener(l ChangeListener[SetChange[T]]) {
	r.s.RemoveChangeListener(l)
}

// ReadOnlyMap returns a view of m without its mutators.
func ReadOnlyMap[K comparable, V any](m ReadableMapProperty[K, V]) ReadableMapProperty[K, V] {
	return readOnlyMap[K, V]{m: m}
}

type readOnlyMap[K comparable, V any] struct {
	m ReadableMapProperty[K, V]
}

func (r readOnlyMap[K, V]) Len() int            { return r.m.Len() }
func (r readOnlyMap[K, V]) Get(key K) (V, bool) { return r.m.Get(key) }
func (r readOnlyMap[K, V]) Keys() []K           { return r.m.Keys() }

func (r readOnlyMap[K, V]) AddChangeListener(l ChangeListener[MapChange[K, V]]) {
	r.m.AddChangeListener(l)
}

func (r readOnlyMap[K, V]) RemoveChangeListener(l ChangeListener[MapChange[K, V]]) {
	r.m.RemoveChangeListener(l)
}
