package transform

import "strings"

// Transformer maps one input value to an output value.
type Transformer[I, O any] func(I) O

// Identity returns its input unchanged.
func Identity[T any]() Transformer[T, T] {
	return func(v T) T { return v }
}

// Constant ignores its input and always returns value.
func Constant[I, O any](value O) Transformer[I, O] {
	return func(I) O { return value }
}

// Chain composes first and second: the result of first is fed to second.
func Chain[A, B, C any](first Transformer[A, B], second Transformer[B, C]) Transformer[A, C] {
	return func(v A) C { return second(first(v)) }
}

// Negate is the logical NOT.
func Negate(v bool) bool {
	return !v
}

// EqualTo returns a transformer reporting whether its input equals ref.
func EqualTo[T any](ref T) Transformer[T, bool] {
	return func(v T) bool { return Equal(v, ref) }
}

// NotEqualTo returns a transformer reporting whether its input differs from ref.
func NotEqualTo[T any](ref T) Transformer[T, bool] {
	return func(v T) bool { return !Equal(v, ref) }
}

// IsEmptyString reports whether s has no characters.
func IsEmptyString(s string) bool {
	return s == ""
}

// IsNotEmptyString reports whether s has at least one character.
func IsNotEmptyString(s string) bool {
	return s != ""
}

// IsEmptyStringPtr treats nil as empty.
func IsEmptyStringPtr(s *string) bool {
	return s == nil || *s == ""
}

// IsNotEmptyStringPtr treats nil as empty.
func IsNotEmptyStringPtr(s *string) bool {
	return s != nil && *s != ""
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
