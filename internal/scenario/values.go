package scenario

import (
	"fmt"
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/vango-dev/props/internal/errors"
)

func asBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, errors.New("S004").WithDetailf("expected a bool, got %v (%T)", v, v)
	}
	return b, nil
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		if n <= math.MaxInt {
			return int(n), nil
		}
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	case nil:
		return 0, nil
	}
	return 0, errors.New("S004").WithDetailf("expected an int, got %v (%T)", v, v)
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func asStrings(v any) ([]string, error) {
	switch items := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return slices.Clone(items), nil
	case []any:
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = asString(item)
		}
		return out, nil
	}
	return nil, errors.New("S004").WithDetailf("expected a sequence, got %v (%T)", v, v)
}

func asStringMap(v any) (map[string]string, error) {
	switch m := v.(type) {
	case nil:
		return map[string]string{}, nil
	case map[string]string:
		return maps.Clone(m), nil
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			out[k] = asString(val)
		}
		return out, nil
	}
	return nil, errors.New("S004").WithDetailf("expected a mapping, got %v (%T)", v, v)
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// matches compares a current value of the given property type with a value
// decoded from YAML.
func matches(typ string, actual, expected any) (bool, error) {
	switch typ {
	case TypeBool:
		want, err := asBool(expected)
		return err == nil && actual == want, err
	case TypeInt:
		want, err := asInt(expected)
		return err == nil && actual == want, err
	case TypeString:
		return actual == asString(expected), nil
	case TypeList, TypeSet:
		want, err := asStrings(expected)
		if err != nil {
			return false, err
		}
		got, _ := actual.([]string)
		if typ == TypeSet {
			got = slices.Clone(got)
			slices.Sort(got)
			slices.Sort(want)
		}
		return slices.Equal(got, want), nil
	case TypeMap:
		want, err := asStringMap(expected)
		if err != nil {
			return false, err
		}
		got, _ := actual.(map[string]string)
		return maps.Equal(got, want), nil
	}
	return false, errors.New("S004").WithDetailf("unknown type %q", typ)
}
