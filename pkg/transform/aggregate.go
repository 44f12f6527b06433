package transform

import (
	"golang.org/x/exp/constraints"

	"github.com/vango-dev/props/internal/errors"
)

// Aggregator folds an ordered sequence of same-typed values into one result.
// The slice holds the current value of every source, in source order.
type Aggregator[I, O any] func([]I) O

// And is the logical AND over values. It is true for an empty sequence.
func And(values []bool) bool {
	for _, v := range values {
		if !v {
			return false
		}
	}
	return true
}

// Or is the logical OR over values. It is false for an empty sequence.
func Or(values []bool) bool {
	for _, v := range values {
		if v {
			return true
		}
	}
	return false
}

// Sum adds values. It is zero for an empty sequence.
func Sum[T constraints.Integer | constraints.Float](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}

// Min returns the smallest value. There is no identity for an empty sequence,
// so Min panics with P021 when values is empty.
func Min[T constraints.Ordered](values []T) T {
	if len(values) == 0 {
		panic(errors.New("P021").WithSuggestion("Guard the aggregate with at least one source"))
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value. It panics with P021 when values is empty.
func Max[T constraints.Ordered](values []T) T {
	if len(values) == 0 {
		panic(errors.New("P021").WithSuggestion("Guard the aggregate with at least one source"))
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Count returns an aggregator counting the values that satisfy pred.
func Count[T any](pred func(T) bool) Aggregator[T, int] {
	if pred == nil {
		panic(errors.New("P001").WithDetail("Count predicate is nil"))
	}
	return func(values []T) int {
		n := 0
		for _, v := range values {
			if pred(v) {
				n++
			}
		}
		return n
	}
}

// AllEqual reports whether every value equals the first one. It is true for
// sequences of zero or one value.
func AllEqual[T any](values []T) bool {
	for i := 1; i < len(values); i++ {
		if !Equal(values[0], values[i]) {
			return false
		}
	}
	return true
}
