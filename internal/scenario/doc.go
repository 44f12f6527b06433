// Package scenario runs YAML descriptions of properties, bindings and
// mutations, and checks the resulting state.
//
// A scenario declares named properties, derives further properties from
// them through the combinators of package binding, then applies an
// ordered list of steps. Every change event is recorded in the report.
// List events are replayed against the list's initial content after the
// run to confirm that the recorded diffs reproduce the final list.
//
//	name: signup form
//	properties:
//	  - {name: user, type: string}
//	  - {name: tags, type: list, value: [a, b]}
//	bindings:
//	  - {name: hasUser, op: isNotEmpty, sources: [user]}
//	  - {name: tagCount, op: size, sources: [tags]}
//	steps:
//	  - set: user
//	    value: ada
//	  - add: tags
//	    values: [c]
//	  - expect:
//	      hasUser: true
//	      tagCount: 3
//
// Collection properties hold strings. Map properties map strings to strings.
package scenario
