package protomap

import "reflect"

func debugTrace(format string, args ...interface{}) {
	// The Go compiler will strip all invocations of debugTrace when the function body is empty.
	// (un)comment the next line to toggle debug trace logging:
	//fmt.Printf("TRACE "+format+"\n", args...)
}

// isNil reports whether v is nil, i.e. a nil pointer, map, slice, func, chan or interface
func isNil[V any](v V) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true // nil interface
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan,
		reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// valuesEqual compares values deeply, since V need not be comparable
func valuesEqual[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}
