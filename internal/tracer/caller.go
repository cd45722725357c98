package tracer

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/GriffinCanCode/pipetrace/internal/event"
)

// Here returns the call site of the function that calls Here.
func Here() event.Caller {
	return callerAt(1)
}

// callerAt returns the frame skip levels above the function calling callerAt.
func callerAt(skip int) event.Caller {
	var pcs [1]uintptr
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return event.UnknownCaller
	}

	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	if frame.File == "" {
		return event.UnknownCaller
	}

	fn := event.Unknown
	if frame.Function != "" {
		fn = ShortName(frame.Function)
	}
	return event.Caller{Function: fn, File: frame.File, Line: frame.Line}
}

// Named returns the short name of a function value, or "unknown".
func Named(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return event.Unknown
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return event.Unknown
	}
	return ShortName(f.Name())
}

// ShortName drops the import path and package from a runtime function name:
//
//	github.com/acme/app/worker.(*Pool).Run -> (*Pool).Run
//	main.processData                       -> processData
//	main.main.func1                        -> main.func1
func ShortName(full string) string {
	name := full
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 && i < len(name)-1 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if name == "" {
		return event.Unknown
	}
	return name
}

func nameOf(name string, fn any) string {
	if name != "" {
		return name
	}
	return Named(fn)
}
