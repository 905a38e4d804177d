package filtering

import (
	"reflect"
)

// convertToConcreteType casts a []any parameter to its most concrete slice
// type for better Spanner compatibility.
//
// If all elements share a concrete type, a typed slice is returned:
//
//	[]any{"Alice", "Bob"} -> []string{"Alice", "Bob"}
//	[]any{int64(1), int64(2)} -> []int64{1, 2}
//
// If elements have mixed types, the original slice is returned unchanged.
func convertToConcreteType(values []any) any {
	if len(values) == 0 {
		return values
	}

	// Determine the common concrete element type
	var commonType reflect.Type
	for _, value := range values {
		if value == nil {
			continue
		}

		valueType := reflect.TypeOf(value)
		if commonType == nil {
			commonType = valueType
		} else if commonType != valueType {
			// Types don't match, return as-is
			return values
		}
	}

	if commonType == nil {
		return values
	}

	// Create new typed slice
	typed := reflect.MakeSlice(reflect.SliceOf(commonType), 0, len(values))
	for _, value := range values {
		if value == nil {
			typed = reflect.Append(typed, reflect.Zero(commonType))
		} else {
			typed = reflect.Append(typed, reflect.ValueOf(value))
		}
	}

	return typed.Interface()
}
