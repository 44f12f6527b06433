// Package binding wires properties together.
//
// A pipeline starts with From, maps its sources through a transformer or
// an aggregator, and ends in one or more target properties:
//
//	sum := property.NewProperty(0)
//	summing := binding.Aggregate(binding.From[int](a, b, c), transform.Sum[int]).To(sum)
//	defer summing.Dispose()
//
// To installs exactly one listener per source and pushes the computed value
// into the targets right away, so targets are consistent as soon as the
// binding exists. On every later source change the whole pipeline runs
// again: every source is re-read and the result is recomputed from scratch.
//
// # Derived properties
//
// The combinators (Not, And, Or, IsEqualTo, IsEmpty, Map, ...) create their
// own result property and return it bundled with its binding as a
// BoundProperty. Disposing the BoundProperty tears down the whole chain,
// including the result property it created.
//
//	ok := binding.And(nameValid, ageValid)
//	defer ok.Dispose()
//
// # Ownership
//
// A Binding owns the listener registrations it installed and the resources
// tagged Owned (such as a combinator's result property). Dispose releases
// exactly those. Caller-supplied sources and targets are never disposed.
// Dispose is idempotent.
//
// # Re-entrancy
//
// A target's listeners may write back into a source of the same binding.
// Each Binding counts how deeply it is recomputing itself and drops a
// recompute, with a warning, once MaxPropagationDepth nested runs are
// already active. The default depth is 16.
package binding
