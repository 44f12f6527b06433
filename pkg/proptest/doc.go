// Package proptest provides testing helpers for code built on props.
//
// # Recording events
//
//	names := property.NewListOf("a", "b")
//	rec := proptest.Record[property.ListChange[string]](names)
//	names.Insert(1, "x", "y", "z")
//	if rec.Count() != 1 { ... }
//
// # Replaying events
//
// ReplayList applies recorded list events to a starting slice. Replaying a
// property's complete event history from its initial content must give its
// current content:
//
//	got := proptest.ReplayList(initial, rec.Events())
//
// # Programming errors
//
// ExpectPanicCode runs a function and fails the test unless it panics with
// a props error carrying the given code.
package proptest
