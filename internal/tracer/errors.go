package tracer

import (
	"reflect"
)

// TypeName returns the bare type name of an error, dereferencing pointers:
// *app.ValueError reports "ValueError", errors.New reports "errorString".
func TypeName(err error) string {
	if err == nil {
		return ""
	}

	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
