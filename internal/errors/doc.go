// Package errors provides structured, actionable errors for props.
//
// Every error carries a stable code that maps to a registered template:
//   - a short message describing the failure
//   - a longer explanation
//   - a category used for grouping and metrics labels
//
// # Error Categories
//
//   - programming: invalid arguments detected at call time (nil transformer,
//     index out of range, transform over several sources)
//   - listener: a listener panicked while a change was being dispatched
//   - config: props.json could not be read, parsed or validated
//   - scenario: a scenario file is malformed or an expectation failed
//   - cli: command line misuse
//
// # Usage
//
//	panic(errors.New("P010").
//	    WithDetail(fmt.Sprintf("index %d, length %d", i, n)).
//	    WithSuggestion("Check Len() before indexing"))
//
// Programming errors are raised as panics at the offending call, the way
// the standard library panics on a nil map write. Everything else is
// returned.
package errors
