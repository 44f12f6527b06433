package binding

import (
	"log/slog"

	"github.com/vango-dev/props/internal/errors"
	"github.com/vango-dev/props/pkg/property"
	"github.com/vango-dev/props/pkg/transform"
)

// Option configures a pipeline.
type Option func(*settings)

type settings struct {
	name     string
	logger   *slog.Logger
	maxDepth int
}

// WithName names the binding in logs, metrics and spans.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithLogger sets the logger used by the binding.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithMaxDepth overrides MaxPropagationDepth for one binding.
func WithMaxDepth(n int) Option {
	return func(s *settings) { s.maxDepth = n }
}

// subscription installs one listener on one source. The returned function
// removes it again.
type subscription func(onChange func()) (unsubscribe func())

func subscribe[E property.Change](o property.Observable[E]) subscription {
	return func(onChange func()) func() {
		l := property.ListenerFunc(func(E) { onChange() })
		o.AddChangeListener(l)
		return func() { o.RemoveChangeListener(l) }
	}
}

// Source is the first stage of a pipeline: an ordered list of scalar
// properties of the same type.
type Source[T any] struct {
	props    []property.ReadableProperty[T]
	settings settings
}

// From starts a pipeline. Sources may repeat; each occurrence gets its own
// listener. Nil sources panic with P002.
func From[T any](sources ...property.ReadableProperty[T]) *Source[T] {
	for i, p := range sources {
		if p == nil {
			panic(errors.New("P002").WithDetailf("source %d is nil", i))
		}
	}
	return &Source[T]{props: append([]property.ReadableProperty[T](nil), sources...)}
}

// With applies options to every stage derived from s.
func (s *Source[T]) With(opts ...Option) *Source[T] {
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

// Len returns the number of sources.
func (s *Source[T]) Len() int {
	return len(s.props)
}

func (s *Source[T]) subscriptions() []subscription {
	subs := make([]subscription, len(s.props))
	for i, p := range s.props {
		subs[i] = subscribe[property.ValueChange[T]](p)
	}
	return subs
}

// To binds a single source directly into targets.
func (s *Source[T]) To(targets ...property.WritableProperty[T]) *Binding {
	return Transform(s, transform.Identity[T]()).To(targets...)
}

// Stage is a pipeline whose result can be bound into targets.
type Stage[R any] struct {
	subs     []subscription
	compute  func() R
	settings settings
}

// Transform maps the single source of src through fn. It panics with P020
// if src does not hold exactly one source and with P001 if fn is nil.
func Transform[T, R any](src *Source[T], fn transform.Transformer[T, R]) *Stage[R] {
	if src == nil {
		panic(errors.New("P002").WithDetail("source stage is nil"))
	}
	if len(src.props) != 1 {
		panic(errors.New("P020").WithDetailf("transform needs exactly 1 source, got %d", len(src.props)))
	}
	if fn == nil {
		panic(errors.New("P001").WithDetail("transformer is nil"))
	}
	p := src.props[0]
	return &Stage[R]{
		subs:     src.subscriptions(),
		compute:  func() R { return fn(p.Value()) },
		settings: src.settings,
	}
}

// Aggregate folds the current values of all sources of src, in order,
// through agg. Any number of sources is allowed, including zero.
func Aggregate[T, R any](src *Source[T], agg transform.Aggregator[T, R]) *Stage[R] {
	if src == nil {
		panic(errors.New("P002").WithDetail("source stage is nil"))
	}
	if agg == nil {
		panic(errors.New("P001").WithDetail("aggregator is nil"))
	}
	props := src.props
	return &Stage[R]{
		subs: src.subscriptions(),
		compute: func() R {
			values := make([]T, len(props))
			for i, p := range props {
				values[i] = p.Value()
			}
			return agg(values)
		},
		settings: src.settings,
	}
}

// Observe starts a pipeline from any observable. read is called on every
// recompute to obtain the current value, e.g. a collection's Len method.
func Observe[E property.Change, R any](o property.Observable[E], read func() R) *Stage[R] {
	if o == nil {
		panic(errors.New("P002").WithDetail("observable is nil"))
	}
	if read == nil {
		panic(errors.New("P001").WithDetail("reader is nil"))
	}
	return &Stage[R]{
		subs:    []subscription{subscribe(o)},
		compute: read,
	}
}

// Then appends another transformer to stage.
func Then[R, S any](stage *Stage[R], fn transform.Transformer[R, S]) *Stage[S] {
	if stage == nil {
		panic(errors.New("P002").WithDetail("stage is nil"))
	}
	if fn == nil {
		panic(errors.New("P001").WithDetail("transformer is nil"))
	}
	prev := stage.compute
	return &Stage[S]{
		subs:     stage.subs,
		compute:  func() S { return fn(prev()) },
		settings: stage.settings,
	}
}

// With applies options to the binding created from s.
func (s *Stage[R]) With(opts ...Option) *Stage[R] {
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

// Value computes the stage result from the current source values without
// installing anything.
func (s *Stage[R]) Value() R {
	return s.compute()
}

// To installs one listener per source and pushes the current result into
// every target before returning. Nil targets panic with P002.
//
// If the first push panics, the binding is disposed before the panic is
// passed on, so no listener is left behind on the sources.
func (s *Stage[R]) To(targets ...property.WritableProperty[R]) *Binding {
	return s.install(targets)
}

// Bound binds the stage into a new property owned by the returned
// BoundProperty.
func (s *Stage[R]) Bound() *BoundProperty[R] {
	var zero R
	result := property.NewProperty(zero)
	b := s.install([]property.WritableProperty[R]{result}, result)
	return newBoundProperty[R](result, b)
}

func (s *Stage[R]) install(targets []property.WritableProperty[R], owned ...property.Disposable) *Binding {
	for i, t := range targets {
		if t == nil {
			panic(errors.New("P002").WithDetailf("target %d is nil", i))
		}
	}
	targets = append([]property.WritableProperty[R](nil), targets...)

	b := newBinding(s.settings.name, s.settings.logger, s.settings.maxDepth)
	compute := s.compute
	b.recompute = func() {
		push(compute(), targets)
	}
	for _, d := range owned {
		b.Own(d)
	}
	for _, sub := range s.subs {
		b.unsubscribe = append(b.unsubscribe, sub(b.run))
	}

	monitor().BindingCreated(b.ID(), b.name)
	b.logger.Debug("binding created",
		slog.Int("sources", len(s.subs)),
		slog.Int("targets", len(targets)),
	)

	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("initial push failed, binding disposed", slog.Any("panic", r))
			b.Dispose()
			panic(r)
		}
	}()
	b.run()
	return b
}

// push writes v into every target. Listener faults of one target do not
// stop the others from receiving v; they are panicked together once every
// target has been written.
func push[R any](v R, targets []property.WritableProperty[R]) {
	var faults []*property.ListenerFault
	for _, t := range targets {
		if f := setValue(t, v); f != nil {
			faults = append(faults, f)
		}
	}
	switch len(faults) {
	case 0:
	case 1:
		panic(faults[0])
	default:
		combined := &property.ListenerFault{Kind: faults[0].Kind, Source: faults[0].Source}
		for _, f := range faults {
			combined.Faults = append(combined.Faults, f.Faults...)
		}
		panic(combined)
	}
}

func setValue[R any](t property.WritableProperty[R], v R) (fault *property.ListenerFault) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		lf, ok := property.AsListenerFault(r)
		if !ok {
			panic(r)
		}
		fault = lf
	}()
	t.SetValue(v)
	return nil
}
