package rmareflect

import (
	"reflect"
)

// Safe returns candidate if it is a valid, non-nil instance and def otherwise.
// Types that cannot be nil, such as ints and structs, always yield candidate.
//
// Typed nils are the main use case:
//
//	var hf http.HandlerFunc // uninitialized
//	Safe[http.Handler](hf, http.DefaultServeMux) // returns http.DefaultServeMux
func Safe[T any](candidate, def T) (result T) {
	result = def
	defer func() {
		// IsNil panics for kinds that cannot be nil
		if r := recover(); r != nil {
			result = candidate
		}
	}()

	if cv := reflect.ValueOf(candidate); cv.IsValid() && !cv.IsNil() {
		result = candidate
	}

	return
}
