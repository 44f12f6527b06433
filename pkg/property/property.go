package property

import (
	"github.com/vango-dev/props/internal/errors"
	"github.com/vango-dev/props/pkg/transform"
)

// ProgrammingError is the panic value raised for invalid arguments such as
// a nil function or an out-of-range index.
type ProgrammingError = errors.Error

// ReadableProperty is a scalar property that can be read and observed.
type ReadableProperty[T any] interface {
	Observable[ValueChange[T]]

	// Value returns the current value without side effects.
	Value() T
}

// WritableProperty is a scalar property that can be written.
type WritableProperty[T any] interface {
	// SetValue replaces the current value.
	SetValue(value T)
}

// Property is a readable and writable scalar property.
type Property[T any] interface {
	ReadableProperty[T]
	WritableProperty[T]
}

// SimpleProperty is the standard scalar property.
//
// SetValue notifies listeners only when the new value differs from the old
// one according to the property's equality function (transform.Equal by
// default).
type SimpleProperty[T any] struct {
	obs   Notifier[ValueChange[T]]
	value T
	equal func(a, b T) bool
}

// Option configures a SimpleProperty.
type Option[T any] func(*SimpleProperty[T])

// WithEquality sets the function deciding whether a write is a change.
func WithEquality[T any](fn func(a, b T) bool) Option[T] {
	if fn == nil {
		panic(errors.New("P001").WithDetail("equality function is nil"))
	}
	return func(p *SimpleProperty[T]) {
		p.equal = fn
	}
}

// WithListeners registers listeners at construction.
func WithListeners[T any](listeners ...ChangeListener[ValueChange[T]]) Option[T] {
	return func(p *SimpleProperty[T]) {
		for _, l := range listeners {
			p.obs.AddChangeListener(l)
		}
	}
}

// NewProperty creates a scalar property holding initial.
func NewProperty[T any](initial T, opts ...Option[T]) *SimpleProperty[T] {
	p := &SimpleProperty[T]{
		value: initial,
		equal: transform.Equal[T],
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Kind returns KindScalar.
func (p *SimpleProperty[T]) Kind() Kind { return KindScalar }

// Value returns the current value.
func (p *SimpleProperty[T]) Value() T {
	return p.value
}

// SetValue stores value and notifies listeners if it differs from the
// previous value.
func (p *SimpleProperty[T]) SetValue(value T) {
	old := p.value
	p.value = value
	if !p.equal(old, value) {
		p.obs.Notify(NewValueChange[T](p, old, value))
	}
}

// Update sets the value to fn applied to the current value.
func (p *SimpleProperty[T]) Update(fn func(T) T) {
	if fn == nil {
		panic(errors.New("P001").WithDetail("update function is nil"))
	}
	p.SetValue(fn(p.value))
}

// AddChangeListener implements Observable.
func (p *SimpleProperty[T]) AddChangeListener(l ChangeListener[ValueChange[T]]) {
	p.obs.AddChangeListener(l)
}

// RemoveChangeListener implements Observable.
func (p *SimpleProperty[T]) RemoveChangeListener(l ChangeListener[ValueChange[T]]) {
	p.obs.RemoveChangeListener(l)
}

// ListenerCount returns the number of registered listeners.
func (p *SimpleProperty[T]) ListenerCount() int {
	return p.obs.ListenerCount()
}

// Dispose removes every listener. The value is kept.
func (p *SimpleProperty[T]) Dispose() {
	p.obs.Dispose()
}

// Disposed reports whether Dispose has been called.
func (p *SimpleProperty[T]) Disposed() bool {
	return p.obs.Disposed()
}
