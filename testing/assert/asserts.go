package assert

import (
	"reflect"
	"testing"
)

// Equal compares the expected and actual values and logs an error if they are not equal
func Equal(t *testing.T, expected, actual any) {
	//if expected is nil and actual is not nil
	if expected == nil && actual != nil {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	} else if expected != nil && actual == nil {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)

	} else if expected == nil && actual == nil {
		//if both are nil, then they are equal
		return
		//if types of expected and actual are different

	} else if !reflect.DeepEqual(expected, actual) {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	}

}

// NotEqual compares the expected and actual values and logs an error if they are equal
func NotEqual(t *testing.T, expected, actual any) {
	//if expected is nil and actual is not nil
	if expected == nil && actual != nil {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	} else if expected != nil && actual == nil {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)

	} else if expected == nil && actual == nil {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	} else if reflect.DeepEqual(expected, actual) {
		t.Errorf("Expected: %v, Actual: %v", expected, actual)
	}
}

// True logs an error if the condition is false
func True(t *testing.T, condition bool) {
	if !condition {
		t.Errorf("Expected: true, Actual: false")
	}
}

// False logs an error if the condition is true
func False(t *testing.T, condition bool) {
	if condition {
		t.Errorf("Expected: false, Actual: true")
	}
}

// Nil logs an error if the value is not nil
func Nil(t *testing.T, value any) {
	if !isNil(value) {
		t.Errorf("Expected: nil, Actual: %v", value)
	}
}

// NotNil logs an error if the value is nil
func NotNil(t *testing.T, value any) {
	if isNil(value) {
		t.Errorf("Expected: not nil, Actual: nil")
	}
}

// isNil reports whether value is nil, including a nil pointer, slice, map,
// channel or func held in the interface
func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Error logs an error if the error is nil
func Error(t *testing.T, err error) {
	if err == nil {
		t.Errorf("Expected: error, Actual: nil")
	}
}

// NoError logs an error if the error is not nil
func NoError(t *testing.T, err error) {
	if err != nil {
		t.Errorf("Expected: no error, Actual: %v", err)
	}
}

// MapContains logs an error if the map does not contain the key-value pair
func MapContains(t *testing.T, m map[string]any, key string, value any) {
	if v, ok := m[key]; !ok || v != value {
		t.Errorf("Expected: %v to be in %v", value, m)
	}
}

// MapMissing logs an error if the map contains the key-value pair
func MapMissing(t *testing.T, m map[string]any, key string, value any) {
	if v, ok := m[key]; ok && v == value {
		t.Errorf("Expected: %v not to be in %v", value, m)
	}
}

// HasKey logs an error if the key is not a member of the map
func HasKey(t *testing.T, m map[string]any, key string) {
	if _, ok := m[key]; !ok {
		t.Errorf("Expected: %v to be a key in %v", key, m)
	}
}

// HasValue logs an error if the value is not a member of the map
func HasValue(t *testing.T, m map[string]any, value any) {
	for _, v := range m {
		if v == value {
			return
		}
	}
	t.Errorf("Expected: %v to be a value in %v", value, m)
}

// ListHas logs an error if the list does not contain the value
func ListHas(t *testing.T, value any, list ...any) {
	for _, v := range list {
		if reflect.DeepEqual(v, value) {
			return
		}
	}
	t.Errorf("Expected: %v to be in %v", value, list)
}

// ListMissing logs an error if the list contains the value
func ListMissing(t *testing.T, value any, list ...any) {
	for _, v := range list {
		if reflect.DeepEqual(v, value) {
			t.Errorf("Expected: %v not to be in %v", value, list)
		}
	}
}

// ElementsMatch logs an error if list and elements do not hold the same
// elements with the same multiplicity, in any order
func ElementsMatch[T any](t *testing.T, list []T, elements ...T) {
	used := make([]bool, len(elements))
	matched := 0
	for _, v := range list {
		for i, e := range elements {
			if !used[i] && reflect.DeepEqual(v, e) {
				used[i], matched = true, matched+1
				break
			}
		}
	}
	if matched != len(list) || matched != len(elements) {
		t.Errorf("Expected: %v to match %v in any order", list, elements)
	}
}
