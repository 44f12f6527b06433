package binding

import (
	"golang.org/x/exp/constraints"

	"github.com/vango-dev/props/internal/errors"
	"github.com/vango-dev/props/pkg/property"
	"github.com/vango-dev/props/pkg/transform"
)

// Bind keeps every target equal to src.
func Bind[T any](src property.ReadableProperty[T], targets ...property.WritableProperty[T]) *Binding {
	return From(src).To(targets...)
}

// Map derives a property by applying fn to p.
func Map[T, R any](p property.ReadableProperty[T], fn transform.Transformer[T, R]) *BoundProperty[R] {
	return Transform(From(p), fn).Bound()
}

// Not derives the negation of p.
func Not(p property.ReadableProperty[bool]) *BoundProperty[bool] {
	return Map[bool, bool](p, transform.Negate)
}

// And derives the conjunction of props. With no props it is true.
func And(props ...property.ReadableProperty[bool]) *BoundProperty[bool] {
	return Aggregate[bool, bool](From(props...), transform.And).Bound()
}

// Or derives the disjunction of props. With no props it is false.
func Or(props ...property.ReadableProperty[bool]) *BoundProperty[bool] {
	return Aggregate[bool, bool](From(props...), transform.Or).Bound()
}

// IsEqualTo derives whether p equals ref under transform.Equal.
func IsEqualTo[T any](p property.ReadableProperty[T], ref T) *BoundProperty[bool] {
	return Map(p, transform.EqualTo(ref))
}

// IsNotEqualTo derives whether p differs from ref under transform.Equal.
func IsNotEqualTo[T any](p property.ReadableProperty[T], ref T) *BoundProperty[bool] {
	return Map(p, transform.NotEqualTo(ref))
}

// IsEmpty derives whether p holds the empty string.
func IsEmpty(p property.ReadableProperty[string]) *BoundProperty[bool] {
	return Map[string, bool](p, transform.IsEmptyString)
}

// IsNotEmpty derives whether p holds a non-empty string.
func IsNotEmpty(p property.ReadableProperty[string]) *BoundProperty[bool] {
	return Map[string, bool](p, transform.IsNotEmptyString)
}

// IsTrue derives whether p is true.
func IsTrue(p property.ReadableProperty[bool]) *BoundProperty[bool] {
	return IsEqualTo(p, true)
}

// IsNotTrue derives whether p is not true.
func IsNotTrue(p property.ReadableProperty[bool]) *BoundProperty[bool] {
	return IsNotEqualTo(p, true)
}

// IsFalse derives whether p is false.
func IsFalse(p property.ReadableProperty[bool]) *BoundProperty[bool] {
	return IsEqualTo(p, false)
}

// IsNotFalse derives whether p is not false.
func IsNotFalse(p property.ReadableProperty[bool]) *BoundProperty[bool] {
	return IsNotEqualTo(p, false)
}

// Sum derives the sum of props.
func Sum[T constraints.Integer | constraints.Float](props ...property.ReadableProperty[T]) *BoundProperty[T] {
	return Aggregate[T, T](From(props...), transform.Sum[T]).Bound()
}

// ListSize derives the length of l.
func ListSize[T any](l property.ReadableListProperty[T]) *BoundProperty[int] {
	if l == nil {
		panic(errors.New("P002").WithDetail("list property is nil"))
	}
	return Observe(l, l.Len).Bound()
}

// SetSize derives the size of s.
func SetSize[T comparable](s property.ReadableSetProperty[T]) *BoundProperty[int] {
	if s == nil {
		panic(errors.New("P002").WithDetail("set property is nil"))
	}
	return Observe(s, s.Len).Bound()
}

// MapSize derives the number of entries in m.
func MapSize[K comparable, V any](m property.ReadableMapProperty[K, V]) *BoundProperty[int] {
	if m == nil {
		panic(errors.New("P002").WithDetail("map property is nil"))
	}
	return Observe(m, m.Len).Bound()
}
