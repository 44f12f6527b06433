package scenario

import (
	"fmt"
	"log/slog"

	"golang.org/x/exp/slices"

	"github.com/vango-dev/props/internal/errors"
	"github.com/vango-dev/props/pkg/binding"
	"github.com/vango-dev/props/pkg/property"
	"github.com/vango-dev/props/pkg/transform"
)

// Event is one change notification observed during a run.
type Event struct {
	// Step is the 1-based step that caused the event; 0 means setup.
	Step     int    `json:"step"`
	Property string `json:"property"`
	Kind     string `json:"kind"`
	Change   string `json:"change"`
}

func (e Event) String() string {
	return fmt.Sprintf("[%d] %s (%s): %s", e.Step, e.Property, e.Kind, e.Change)
}

// Report summarizes a run.
type Report struct {
	Name         string  `json:"name"`
	Steps        int     `json:"steps"`
	Events       []Event `json:"events"`
	Expectations int     `json:"expectations"`
	Failures     []error `json:"-"`
}

// Passed reports whether every expectation held and every list replayed.
func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger. Bindings log through it as well.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithMaxDepth sets the propagation depth bound of every binding.
func WithMaxDepth(n int) Option {
	return func(r *Runner) { r.maxDepth = n }
}

// WithEventHook registers fn to receive every event as it is recorded.
func WithEventHook(fn func(Event)) Option {
	return func(r *Runner) { r.onEvent = fn }
}

// Runner executes scenarios. The state of the last run stays alive until
// the next Run or Close.
type Runner struct {
	logger   *slog.Logger
	maxDepth int
	onEvent  func(Event)

	types  map[string]string
	names  []string
	bools  map[string]property.ReadableProperty[bool]
	ints   map[string]property.ReadableProperty[int]
	strs   map[string]property.ReadableProperty[string]
	lists  map[string]*property.ListProperty[string]
	sets   map[string]*property.SetProperty[string]
	maps   map[string]*property.MapProperty[string, string]
	owned  map[string]property.Disposable
	replay map[string]*listReplay

	report *Report
	step   int
}

type listReplay struct {
	initial []string
	events  []property.ListChange[string]
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "scenario")
	}
	r.reset()
	return r
}

func (r *Runner) reset() {
	r.types = make(map[string]string)
	r.names = nil
	r.bools = make(map[string]property.ReadableProperty[bool])
	r.ints = make(map[string]property.ReadableProperty[int])
	r.strs = make(map[string]property.ReadableProperty[string])
	r.lists = make(map[string]*property.ListProperty[string])
	r.sets = make(map[string]*property.SetProperty[string])
	r.maps = make(map[string]*property.MapProperty[string, string])
	r.owned = make(map[string]property.Disposable)
	r.replay = make(map[string]*listReplay)
	r.step = 0
}

// Close disposes everything created by the last run.
func (r *Runner) Close() {
	for i := len(r.names) - 1; i >= 0; i-- {
		if d, ok := r.owned[r.names[i]]; ok {
			d.Dispose()
		}
	}
	r.reset()
}

// Run executes s. Setup and step errors abort the run and are returned
// together with the partial report. Failed expectations do not abort; they
// are collected in the report and summarized in an S005 error.
func (r *Runner) Run(s *Scenario) (*Report, error) {
	r.Close()
	r.report = &Report{Name: s.Name}

	for _, p := range s.Properties {
		if err := r.declare(p); err != nil {
			return r.report, err
		}
	}
	for _, b := range s.Bindings {
		if err := r.bind(b); err != nil {
			return r.report, err
		}
	}

	for i, step := range s.Steps {
		r.step = i + 1
		op, target := step.Op()
		r.logger.Debug("step", slog.Int("index", r.step), slog.String("op", op), slog.String("target", target))
		if err := r.apply(op, target, step); err != nil {
			e := errors.FromError(err, "S004")
			return r.report, e.WithDetailf("step %d (%s %s): %s", r.step, op, target, e.Detail)
		}
		r.report.Steps++
	}

	r.verifyReplay()

	if n := len(r.report.Failures); n > 0 {
		return r.report, errors.New("S005").WithDetailf("%d check(s) failed in %q", n, s.Name)
	}
	return r.report, nil
}

// State returns the current value of every property, keyed by name.
// Lists and sets are []string, maps are map[string]string.
func (r *Runner) State() map[string]any {
	state := make(map[string]any, len(r.names))
	for _, name := range r.names {
		if v, ok := r.value(name); ok {
			state[name] = v
		}
	}
	return state
}

func (r *Runner) register(name, typ string, d property.Disposable) {
	r.types[name] = typ
	r.names = append(r.names, name)
	r.owned[name] = d
}

func watch[E property.Change](r *Runner, name string, o property.Observable[E], describe func(E) string) {
	o.AddChangeListener(property.ListenerFunc(func(e E) {
		ev := Event{
			Step:     r.step,
			Property: name,
			Kind:     e.Kind().String(),
			Change:   describe(e),
		}
		r.report.Events = append(r.report.Events, ev)
		if r.onEvent != nil {
			r.onEvent(ev)
		}
	}))
}

func describeValue[T any](e property.ValueChange[T]) string {
	return fmt.Sprintf("%v -> %v", e.OldValue(), e.NewValue())
}

func describeList(e property.ListChange[string]) string {
	return fmt.Sprintf("%s at %d: %q -> %q", e.Type(), e.StartIndex(), e.OldValues(), e.NewValues())
}

func describeSet(e property.SetChange[string]) string {
	return fmt.Sprintf("added %q, removed %q", e.Added(), e.Removed())
}

func describeMap(e property.MapChange[string, string]) string {
	return fmt.Sprintf("%s %q", e.Type(), e.Keys())
}

func (r *Runner) declare(p PropertySpec) error {
	switch p.Type {
	case TypeBool:
		v, err := asBool(orZero(p.Value, false))
		if err != nil {
			return err.(*errors.Error).WithDetailf("property %q: expected a bool", p.Name)
		}
		prop := property.NewProperty(v)
		r.bools[p.Name] = prop
		r.register(p.Name, p.Type, prop)
		watch[property.ValueChange[bool]](r, p.Name, prop, describeValue[bool])
	case TypeInt:
		v, err := asInt(p.Value)
		if err != nil {
			return err.(*errors.Error).WithDetailf("property %q: expected an int", p.Name)
		}
		prop := property.NewProperty(v)
		r.ints[p.Name] = prop
		r.register(p.Name, p.Type, prop)
		watch[property.ValueChange[int]](r, p.Name, prop, describeValue[int])
	case TypeString:
		prop := property.NewProperty(asString(p.Value))
		r.strs[p.Name] = prop
		r.register(p.Name, p.Type, prop)
		watch[property.ValueChange[string]](r, p.Name, prop, describeValue[string])
	case TypeList:
		items, err := asStrings(p.Value)
		if err != nil {
			return err
		}
		prop := property.NewListOf(items...)
		r.lists[p.Name] = prop
		r.register(p.Name, p.Type, prop)
		rp := &listReplay{initial: slices.Clone(items)}
		prop.AddChangeListener(property.ListenerFunc(func(e property.ListChange[string]) {
			rp.events = append(rp.events, e)
		}))
		r.replay[p.Name] = rp
		watch[property.ListChange[string]](r, p.Name, prop, describeList)
	case TypeSet:
		items, err := asStrings(p.Value)
		if err != nil {
			return err
		}
		prop := property.NewSetOf(items...)
		r.sets[p.Name] = prop
		r.register(p.Name, p.Type, prop)
		watch[property.SetChange[string]](r, p.Name, prop, describeSet)
	case TypeMap:
		m, err := asStringMap(p.Value)
		if err != nil {
			return err
		}
		entries := make([]property.Entry[string, string], 0, len(m))
		for _, k := range sortedKeys(m) {
			entries = append(entries, property.Entry[string, string]{Key: k, Value: m[k]})
		}
		prop := property.NewMapOf(entries...)
		r.maps[p.Name] = prop
		r.register(p.Name, p.Type, prop)
		watch[property.MapChange[string, string]](r, p.Name, prop, describeMap)
	default:
		return errors.New("S004").WithDetailf("property %q has unknown type %q", p.Name, p.Type)
	}
	return nil
}

func orZero(v, zero any) any {
	if v == nil {
		return zero
	}
	return v
}

func (r *Runner) typeOf(name string) (string, error) {
	typ, ok := r.types[name]
	if !ok {
		return "", errors.New("S003").WithDetailf("%q is not declared", name)
	}
	return typ, nil
}

func (r *Runner) options(name string) []binding.Option {
	opts := []binding.Option{binding.WithName(name), binding.WithLogger(r.logger)}
	if r.maxDepth > 0 {
		opts = append(opts, binding.WithMaxDepth(r.maxDepth))
	}
	return opts
}

func single(b BindingSpec) (string, error) {
	if len(b.Sources) != 1 {
		return "", errors.New("S004").WithDetailf("binding %q (%s) needs exactly 1 source, got %d", b.Name, b.Op, len(b.Sources))
	}
	return b.Sources[0], nil
}

func (r *Runner) boolSources(b BindingSpec) ([]property.ReadableProperty[bool], error) {
	out := make([]property.ReadableProperty[bool], 0, len(b.Sources))
	for _, name := range b.Sources {
		if _, err := r.typeOf(name); err != nil {
			return nil, err
		}
		p, ok := r.bools[name]
		if !ok {
			return nil, errors.New("S004").WithDetailf("binding %q (%s) needs bool sources, %q is a %s", b.Name, b.Op, name, r.types[name])
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *Runner) addBool(name string, p *binding.BoundProperty[bool]) {
	r.bools[name] = p
	r.register(name, TypeBool, p)
	watch[property.ValueChange[bool]](r, name, p, describeValue[bool])
}

func (r *Runner) addInt(name string, p *binding.BoundProperty[int]) {
	r.ints[name] = p
	r.register(name, TypeInt, p)
	watch[property.ValueChange[int]](r, name, p, describeValue[int])
}

func (r *Runner) bind(b BindingSpec) error {
	opts := r.options(b.Name)

	switch b.Op {
	case OpAnd, OpOr:
		srcs, err := r.boolSources(b)
		if err != nil {
			return err
		}
		agg := transform.And
		if b.Op == OpOr {
			agg = transform.Or
		}
		r.addBool(b.Name, binding.Aggregate[bool, bool](binding.From(srcs...), agg).With(opts...).Bound())

	case OpNot, OpIsTrue, OpIsFalse:
		if _, err := single(b); err != nil {
			return err
		}
		srcs, err := r.boolSources(b)
		if err != nil {
			return err
		}
		fn := transform.Identity[bool]()
		if b.Op != OpIsTrue {
			fn = transform.Negate
		}
		r.addBool(b.Name, binding.Transform(binding.From(srcs...), fn).With(opts...).Bound())

	case OpIsEmpty, OpIsNotEmpty:
		name, err := single(b)
		if err != nil {
			return err
		}
		if _, err := r.typeOf(name); err != nil {
			return err
		}
		src, ok := r.strs[name]
		if !ok {
			return errors.New("S004").WithDetailf("binding %q (%s) needs a string source, %q is a %s", b.Name, b.Op, name, r.types[name])
		}
		fn := transform.IsEmptyString
		if b.Op == OpIsNotEmpty {
			fn = transform.IsNotEmptyString
		}
		r.addBool(b.Name, binding.Transform[string, bool](binding.From(src), fn).With(opts...).Bound())

	case OpIsEqualTo, OpIsNotEqualTo:
		name, err := single(b)
		if err != nil {
			return err
		}
		typ, err := r.typeOf(name)
		if err != nil {
			return err
		}
		negate := b.Op == OpIsNotEqualTo
		var stage *binding.Stage[bool]
		switch typ {
		case TypeBool:
			ref, err := asBool(b.Value)
			if err != nil {
				return err
			}
			stage = compareStage(r.bools[name], ref, negate)
		case TypeInt:
			ref, err := asInt(b.Value)
			if err != nil {
				return err
			}
			stage = compareStage(r.ints[name], ref, negate)
		case TypeString:
			stage = compareStage(r.strs[name], asString(b.Value), negate)
		default:
			return errors.New("S004").WithDetailf("binding %q (%s) needs a scalar source, %q is a %s", b.Name, b.Op, name, typ)
		}
		r.addBool(b.Name, stage.With(opts...).Bound())

	case OpSize:
		name, err := single(b)
		if err != nil {
			return err
		}
		typ, err := r.typeOf(name)
		if err != nil {
			return err
		}
		var stage *binding.Stage[int]
		switch typ {
		case TypeList:
			l := r.lists[name]
			stage = binding.Observe[property.ListChange[string]](l, l.Len)
		case TypeSet:
			s := r.sets[name]
			stage = binding.Observe[property.SetChange[string]](s, s.Len)
		case TypeMap:
			m := r.maps[name]
			stage = binding.Observe[property.MapChange[string, string]](m, m.Len)
		default:
			return errors.New("S004").WithDetailf("binding %q (size) needs a collection source, %q is a %s", b.Name, name, typ)
		}
		r.addInt(b.Name, stage.With(opts...).Bound())

	case OpSum:
		srcs := make([]property.ReadableProperty[int], 0, len(b.Sources))
		for _, name := range b.Sources {
			typ, err := r.typeOf(name)
			if err != nil {
				return err
			}
			p, ok := r.ints[name]
			if !ok {
				return errors.New("S004").WithDetailf("binding %q (sum) needs int sources, %q is a %s", b.Name, name, typ)
			}
			srcs = append(srcs, p)
		}
		r.addInt(b.Name, binding.Aggregate[int, int](binding.From(srcs...), transform.Sum[int]).With(opts...).Bound())

	default:
		return errors.New("S004").WithDetailf("binding %q has unknown op %q", b.Name, b.Op)
	}
	return nil
}

func compareStage[T any](src property.ReadableProperty[T], ref T, negate bool) *binding.Stage[bool] {
	fn := transform.EqualTo(ref)
	if negate {
		fn = transform.NotEqualTo(ref)
	}
	return binding.Transform(binding.From(src), fn)
}

// apply runs one step. Panics raised by the property layer, such as an
// index out of range, are returned as errors.
func (r *Runner) apply(op, target string, step Step) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if fault, ok := property.AsListenerFault(rec); ok {
			err = errors.New("L001").Wrap(fault)
			return
		}
		if e, ok := rec.(*errors.Error); ok {
			err = e
			return
		}
		panic(rec)
	}()

	if op == "expect" {
		r.expect(step.Expect)
		return nil
	}

	typ, err := r.typeOf(target)
	if err != nil {
		return err
	}
	unsupported := errors.New("S004").WithDetailf("%s is not supported on %s property %q", op, typ, target)

	switch op {
	case "set":
		return r.set(target, typ, step)

	case "add":
		items, err := asStrings(step.Values)
		if err != nil {
			return err
		}
		switch typ {
		case TypeList:
			r.lists[target].AddAll(items...)
		case TypeSet:
			r.sets[target].AddAll(items...)
		default:
			return unsupported
		}

	case "insert":
		if typ != TypeList {
			return unsupported
		}
		items, err := asStrings(step.Values)
		if err != nil {
			return err
		}
		r.lists[target].Insert(step.Index, items...)

	case "remove":
		items, err := asStrings(step.Values)
		if err != nil {
			return err
		}
		switch typ {
		case TypeList:
			r.lists[target].RemoveAll(items...)
		case TypeSet:
			r.sets[target].RemoveAll(items...)
		case TypeMap:
			r.maps[target].RemoveAll(items...)
		default:
			return unsupported
		}

	case "removeAt":
		if typ != TypeList {
			return unsupported
		}
		r.lists[target].RemoveAt(step.Index)

	case "put":
		if typ != TypeMap {
			return unsupported
		}
		m, err := asStringMap(step.Entries)
		if err != nil {
			return err
		}
		entries := make([]property.Entry[string, string], 0, len(m))
		for _, k := range sortedKeys(m) {
			entries = append(entries, property.Entry[string, string]{Key: k, Value: m[k]})
		}
		r.maps[target].PutAll(entries...)

	case "clear":
		switch typ {
		case TypeList:
			r.lists[target].Clear()
		case TypeSet:
			r.sets[target].Clear()
		case TypeMap:
			r.maps[target].Clear()
		default:
			return unsupported
		}

	case "dispose":
		r.owned[target].Dispose()

	default:
		return errors.New("S004").WithDetailf("unknown step %q", op)
	}
	return nil
}

func (r *Runner) set(target, typ string, step Step) error {
	derived := errors.New("S004").WithDetailf("%q is derived and cannot be set", target)

	switch typ {
	case TypeBool:
		p, ok := r.bools[target].(*property.SimpleProperty[bool])
		if !ok {
			return derived
		}
		v, err := asBool(step.Value)
		if err != nil {
			return err
		}
		p.SetValue(v)
	case TypeInt:
		p, ok := r.ints[target].(*property.SimpleProperty[int])
		if !ok {
			return derived
		}
		v, err := asInt(step.Value)
		if err != nil {
			return err
		}
		p.SetValue(v)
	case TypeString:
		p, ok := r.strs[target].(*property.SimpleProperty[string])
		if !ok {
			return derived
		}
		p.SetValue(asString(step.Value))
	case TypeList:
		items, err := asStrings(step.Values)
		if err != nil {
			return err
		}
		r.lists[target].ReplaceAll(items)
	case TypeSet:
		items, err := asStrings(step.Values)
		if err != nil {
			return err
		}
		r.sets[target].ReplaceAll(items...)
	default:
		return errors.New("S004").WithDetailf("set is not supported on %s property %q, use put", typ, target)
	}
	return nil
}

func (r *Runner) value(name string) (any, bool) {
	switch r.types[name] {
	case TypeBool:
		return r.bools[name].Value(), true
	case TypeInt:
		return r.ints[name].Value(), true
	case TypeString:
		return r.strs[name].Value(), true
	case TypeList:
		return r.lists[name].Items(), true
	case TypeSet:
		return r.sets[name].Items(), true
	case TypeMap:
		m := make(map[string]string)
		for _, e := range r.maps[name].Entries() {
			m[e.Key] = e.Value
		}
		return m, true
	}
	return nil, false
}

func (r *Runner) expect(want map[string]any) {
	for _, name := range sortedKeys(want) {
		r.report.Expectations++
		typ, err := r.typeOf(name)
		if err != nil {
			r.fail(err)
			continue
		}
		got, _ := r.value(name)
		ok, err := matches(typ, got, want[name])
		if err != nil {
			r.fail(err)
			continue
		}
		if !ok {
			r.fail(errors.New("S005").WithDetailf("step %d: %s = %v, expected %v", r.step, name, got, want[name]))
		}
	}
}

func (r *Runner) fail(err error) {
	r.logger.Warn("check failed", slog.Int("step", r.step), slog.String("error", err.Error()))
	r.report.Failures = append(r.report.Failures, err)
}

// verifyReplay replays the recorded events of every live list against its
// initial content.
func (r *Runner) verifyReplay() {
	for _, name := range r.names {
		rp, ok := r.replay[name]
		if !ok || r.lists[name].Disposed() {
			continue
		}
		got := slices.Clone(rp.initial)
		for _, e := range rp.events {
			got = e.Apply(got)
		}
		if want := r.lists[name].Items(); !slices.Equal(got, want) {
			r.fail(errors.New("S006").WithDetailf("%s: replay gives %q, list holds %q", name, got, want))
		}
	}
}
