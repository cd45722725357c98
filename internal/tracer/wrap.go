package tracer

// The wrappers below hold a target function and return a function with the
// same signature that traces every invocation. An empty name is derived
// from the target. The call site recorded is whoever calls the returned
// function.

// Func0 wraps a function returning a result and an error
func Func0[R any](t *Tracer, name string, fn func() (R, error)) func() (R, error) {
	name = nameOf(name, fn)
	return func() (R, error) {
		caller := callerAt(1)
		var result R
		err := t.Call(name, caller, func() error {
			var err error
			result, err = fn()
			return err
		})
		return result, err
	}
}

// Func1 wraps a one-argument function returning a result and an error
func Func1[A, R any](t *Tracer, name string, fn func(A) (R, error)) func(A) (R, error) {
	name = nameOf(name, fn)
	return func(a A) (R, error) {
		caller := callerAt(1)
		var result R
		err := t.Call(name, caller, func() error {
			var err error
			result, err = fn(a)
			return err
		})
		return result, err
	}
}

// Func2 wraps a two-argument function returning a result and an error
func Func2[A, B, R any](t *Tracer, name string, fn func(A, B) (R, error)) func(A, B) (R, error) {
	name = nameOf(name, fn)
	return func(a A, b B) (R, error) {
		caller := callerAt(1)
		var result R
		err := t.Call(name, caller, func() error {
			var err error
			result, err = fn(a, b)
			return err
		})
		return result, err
	}
}

// Func3 wraps a three-argument function returning a result and an error
func Func3[A, B, C, R any](t *Tracer, name string, fn func(A, B, C) (R, error)) func(A, B, C) (R, error) {
	name = nameOf(name, fn)
	return func(a A, b B, c C) (R, error) {
		caller := callerAt(1)
		var result R
		err := t.Call(name, caller, func() error {
			var err error
			result, err = fn(a, b, c)
			return err
		})
		return result, err
	}
}

// Proc0 wraps a function returning only an error
func Proc0(t *Tracer, name string, fn func() error) func() error {
	name = nameOf(name, fn)
	return func() error {
		return t.Call(name, callerAt(1), fn)
	}
}

// Proc1 wraps a one-argument function returning only an error
func Proc1[A any](t *Tracer, name string, fn func(A) error) func(A) error {
	name = nameOf(name, fn)
	return func(a A) error {
		return t.Call(name, callerAt(1), func() error {
			return fn(a)
		})
	}
}
