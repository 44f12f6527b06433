// Package transform provides the pure functions that binding pipelines apply
// between source and target properties.
//
// A Transformer maps one input value to one output value. An Aggregator
// folds the current values of any number of same-typed sources into one
// result. Both must be free of side effects: pipelines call them on every
// upstream change and re-read every source each time.
//
// The boolean aggregators keep their algebraic identities for empty input:
//
//	transform.And(nil) // true
//	transform.Or(nil)  // false
//
// Equal is the null-safe equality used across props: two nils are equal, a
// nil and a non-nil never are, everything else compares by value.
package transform
