package property

// ChangeListener is notified of the change events of an observable property.
//
// Listeners are compared with == when they are removed, so implementations
// should be pointer types.
type ChangeListener[E Change] interface {
	PropertyChanged(event E)
}

// FuncListener adapts a function to the ChangeListener interface.
type FuncListener[E Change] struct {
	fn func(E)
}

// ListenerFunc wraps fn as a ChangeListener. Every call returns a distinct
// listener, so keep the result if the listener must be removed later.
func ListenerFunc[E Change](fn func(E)) *FuncListener[E] {
	return &FuncListener[E]{fn: fn}
}

// PropertyChanged calls the wrapped function.
func (l *FuncListener[E]) PropertyChanged(event E) {
	l.fn(event)
}

// Observable is anything listeners can subscribe to.
type Observable[E Change] interface {
	// AddChangeListener appends l to the listeners. Duplicates are allowed.
	AddChangeListener(l ChangeListener[E])

	// RemoveChangeListener removes every registration of l.
	RemoveChangeListener(l ChangeListener[E])
}

// Disposable is implemented by resources that hold listener registrations.
// Dispose must be idempotent and must never panic.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a function to Disposable.
type DisposableFunc func()

// Dispose implements Disposable.
func (f DisposableFunc) Dispose() {
	if f != nil {
		f()
	}
}
