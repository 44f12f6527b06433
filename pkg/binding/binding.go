package binding

import (
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/vango-dev/props/pkg/property"
)

// Ownership tells a Binding whether disposing it must dispose a resource.
type Ownership uint8

const (
	// Borrowed resources belong to the caller and are left alone.
	Borrowed Ownership = iota

	// Owned resources were created for the binding and die with it.
	Owned
)

func (o Ownership) String() string {
	if o == Owned {
		return "owned"
	}
	return "borrowed"
}

type resource struct {
	d         property.Disposable
	ownership Ownership
}

// Binding is the disposal handle of an installed pipeline.
//
// Binding is not safe for concurrent use; see package property.
type Binding struct {
	id        ulid.ULID
	name      string
	logger    *slog.Logger
	maxDepth  int
	recompute func()

	unsubscribe []func()
	resources   []resource

	depth    int
	disposed bool
}

func newBinding(name string, logger *slog.Logger, depth int) *Binding {
	if logger == nil {
		logger = defaultLogger()
	}
	if depth < 1 {
		depth = MaxPropagationDepth()
	}
	b := &Binding{
		id:       ulid.Make(),
		name:     name,
		maxDepth: depth,
	}
	b.logger = logger.With("binding", b.id.String())
	if name != "" {
		b.logger = b.logger.With("name", name)
	}
	return b
}

// ID returns the binding's unique identifier.
func (b *Binding) ID() string {
	return b.id.String()
}

// Name returns the name given with WithName, or "".
func (b *Binding) Name() string {
	return b.name
}

// Disposed reports whether Dispose has been called.
func (b *Binding) Disposed() bool {
	return b.disposed
}

// SourceCount returns the number of listener registrations the binding
// currently holds on its sources.
func (b *Binding) SourceCount() int {
	return len(b.unsubscribe)
}

// Own tags d as owned by this binding: it is disposed together with the
// binding. Owning a resource on an already disposed binding disposes it
// immediately.
func (b *Binding) Own(d property.Disposable) {
	b.track(d, Owned)
}

// Track records d as a borrowed resource. Borrowed resources are never
// disposed by the binding.
func (b *Binding) Track(d property.Disposable) {
	b.track(d, Borrowed)
}

func (b *Binding) track(d property.Disposable, ownership Ownership) {
	if d == nil {
		return
	}
	if b.disposed {
		if ownership == Owned {
			d.Dispose()
		}
		return
	}
	b.resources = append(b.resources, resource{d: d, ownership: ownership})
	b.logger.Debug("resource tracked", slog.String("ownership", ownership.String()))
}

// Owned returns the number of resources that will be disposed with the binding.
func (b *Binding) Owned() int {
	n := 0
	for _, r := range b.resources {
		if r.ownership == Owned {
			n++
		}
	}
	return n
}

// Dispose removes every listener the binding installed and disposes the
// resources it owns, most recent first. Calling it again does nothing.
func (b *Binding) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true

	for _, unsub := range b.unsubscribe {
		unsub()
	}
	b.unsubscribe = nil

	for i := len(b.resources) - 1; i >= 0; i-- {
		if r := b.resources[i]; r.ownership == Owned {
			r.d.Dispose()
		}
	}
	b.resources = nil
	b.recompute = nil

	monitor().BindingDisposed(b.ID(), b.name)
	b.logger.Debug("binding disposed")
}

// run recomputes the pipeline unless the binding is disposed or already
// recomputing maxDepth times on the current call stack.
func (b *Binding) run() {
	if b.disposed || b.recompute == nil {
		return
	}
	if b.depth >= b.maxDepth {
		monitor().PropagationDropped(b.ID(), b.name, b.depth)
		b.logger.Warn("propagation depth exceeded, recompute dropped",
			slog.Int("depth", b.depth),
		)
		return
	}

	b.depth++
	end := monitor().StartPropagation(b.ID(), b.name)
	defer func() {
		b.depth--
		end()
	}()
	b.recompute()
}
