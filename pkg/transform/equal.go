package transform

import "reflect"

// Equal is null-safe equality over arbitrary values.
//
// Two nil values are equal and a nil never equals a non-nil. A typed nil
// (nil pointer, map, slice, chan, func or interface held in an interface)
// counts as nil. Otherwise comparable values use ==, and everything else
// falls back to reflect.DeepEqual.
func Equal[T any](a, b T) bool {
	av, bv := any(a), any(b)
	aNil, bNil := isNil(av), isNil(bv)
	if aNil || bNil {
		return aNil == bNil
	}

	switch x := av.(type) {
	case bool:
		y, ok := bv.(bool)
		return ok && x == y
	case string:
		y, ok := bv.(string)
		return ok && x == y
	case int:
		y, ok := bv.(int)
		return ok && x == y
	}

	ta, tb := reflect.TypeOf(av), reflect.TypeOf(bv)
	if ta != tb {
		return false
	}
	if ta.Comparable() && ta.Kind() != reflect.Interface {
		return safeCompare(av, bv)
	}
	return reflect.DeepEqual(av, bv)
}

// safeCompare compares two values of the same comparable dynamic type. A
// struct or array holding an interface field with an incomparable dynamic
// value still panics on ==, in which case DeepEqual decides.
func safeCompare(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
