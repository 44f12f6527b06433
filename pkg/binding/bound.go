package binding

import (
	"github.com/vango-dev/props/pkg/property"
	"github.com/vango-dev/props/pkg/transform"
)

// BoundProperty is a read-only property whose value is maintained by a
// binding. It is returned by Stage.Bound and by the combinators.
//
// Listeners receive events whose source is the BoundProperty itself, and
// only for changes where the old and new values differ.
type BoundProperty[T any] struct {
	obs     property.Notifier[property.ValueChange[T]]
	result  *property.SimpleProperty[T]
	forward *property.FuncListener[property.ValueChange[T]]
	binding *Binding
}

var _ property.ReadableProperty[int] = (*BoundProperty[int])(nil)

func newBoundProperty[T any](result *property.SimpleProperty[T], b *Binding) *BoundProperty[T] {
	bp := &BoundProperty[T]{result: result, binding: b}
	bp.forward = property.ListenerFunc(func(e property.ValueChange[T]) {
		if transform.Equal(e.OldValue(), e.NewValue()) {
			return
		}
		bp.obs.Notify(property.NewValueChange(bp, e.OldValue(), e.NewValue()))
	})
	result.AddChangeListener(bp.forward)
	return bp
}

// Kind returns property.KindScalar.
func (p *BoundProperty[T]) Kind() property.Kind { return property.KindScalar }

// Value returns the current result, or the zero value once disposed.
func (p *BoundProperty[T]) Value() T {
	if p.binding.Disposed() {
		var zero T
		return zero
	}
	return p.result.Value()
}

// Binding returns the binding that maintains the value.
func (p *BoundProperty[T]) Binding() *Binding {
	return p.binding
}

// AddChangeListener implements property.Observable.
func (p *BoundProperty[T]) AddChangeListener(l property.ChangeListener[property.ValueChange[T]]) {
	p.obs.AddChangeListener(l)
}

// RemoveChangeListener implements property.Observable.
func (p *BoundProperty[T]) RemoveChangeListener(l property.ChangeListener[property.ValueChange[T]]) {
	p.obs.RemoveChangeListener(l)
}

// ListenerCount returns the number of registered listeners.
func (p *BoundProperty[T]) ListenerCount() int {
	return p.obs.ListenerCount()
}

// Dispose disposes the binding, which disposes the result property it owns,
// and drops every listener. Calling it again does nothing.
func (p *BoundProperty[T]) Dispose() {
	if p.binding.Disposed() && p.obs.Disposed() {
		return
	}
	p.result.RemoveChangeListener(p.forward)
	p.binding.Dispose()
	p.obs.Dispose()
}

// Disposed reports whether Dispose has been called.
func (p *BoundProperty[T]) Disposed() bool {
	return p.obs.Disposed()
}
