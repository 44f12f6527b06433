// Package property provides observable properties: holders of a value or a
// collection that notify registered listeners whenever they change.
//
// # Kinds
//
// Every property has a Kind that fixes the shape of its change events:
//
//	scalar  SimpleProperty[T]    ValueChange[T]  {old value, new value}
//	list    ListProperty[T]      ListChange[T]   {start index, old items, new items}
//	set     SetProperty[T]       SetChange[T]    {added items, removed items}
//	map     MapProperty[K, V]    MapChange[K,V]  {keys, old values, new values}
//
// All kinds share Notifier, the listener registry. Notifier keeps listeners
// in registration order, allows duplicates, removes every occurrence on
// RemoveChangeListener and iterates a snapshot on each notification, so a
// listener that adds or removes listeners only affects later notifications.
//
// # Usage
//
//	name := property.NewProperty("")
//	name.AddChangeListener(property.ListenerFunc(func(c property.ValueChange[string]) {
//	    fmt.Println(c.OldValue(), "->", c.NewValue())
//	}))
//	name.SetValue("ada") // prints " -> ada"
//
// Listener identity is interface equality. Func adapters created with
// ListenerFunc are pointers, so keep the returned value to remove it later.
//
// # Disposal
//
// Dispose severs every listener reference and is idempotent. A disposed
// property still accepts writes and still reports its current value, but it
// never notifies again and silently ignores new listeners.
//
// # Listener panics
//
// A panic inside a listener is recovered, logged, and reported to the
// Monitor. The remaining listeners of the same notification still run.
// Once the round is complete a single *ListenerFault holding every recovered
// panic is re-panicked to the code that performed the mutation.
//
// # Thread Safety
//
// Properties are not safe for concurrent use. Notification runs
// synchronously on the goroutine performing the mutation, depth first
// through any cascading bindings. Callers sharing properties across
// goroutines must serialize access themselves.
package property
