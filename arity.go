package extract

import "reflect"

// Typed adapters, one per arity and result shape. Each destructures the
// extracted tuple and forwards the values positionally, so parameter types
// are checked at compile time. Use Reflect for arities above four.
//
//	FnN   func(T1, ..., Tn)
//	ProcN func(T1, ..., Tn) error
//	FuncN func(T1, ..., Tn) (R, error)

// Fn0 adapts a 0-parameter function with no result.
func Fn0(fn func()) Handler {
	return newBinding(fn, false, func(_ tuple) (any, error) {
		fn()
		return nil, nil
	})
}

// Proc0 adapts a 0-parameter function that may fail.
func Proc0(fn func() error) Handler {
	return newBinding(fn, false, func(_ tuple) (any, error) {
		return nil, fn()
	})
}

// Func0 adapts a 0-parameter function returning a result.
func Func0[R any](fn func() (R, error)) Handler {
	return newBinding(fn, true, func(_ tuple) (any, error) {
		return fn()
	})
}

// Fn1 adapts a 1-parameter function with no result.
func Fn1[T1 any](fn func(T1)) Handler {
	return newBinding(fn, false, func(t tuple) (any, error) {
		fn(arg[T1](t, 0))
		return nil, nil
	}, reflect.TypeFor[T1]())
}

// Proc1 adapts a 1-parameter function that may fail.
func Proc1[T1 any](fn func(T1) error) Handler {
	return newBinding(fn, false, func(t tuple) (any, error) {
		return nil, fn(arg[T1](t, 0))
	}, reflect.TypeFor[T1]())
}

// Func1 adapts a 1-parameter function returning a result.
func Func1[T1, R any](fn func(T1) (R, error)) Handler {
	return newBinding(fn, true, func(t tuple) (any, error) {
		return fn(arg[T1](t, 0))
	}, reflect.TypeFor[T1]())
}

// Fn2 adapts a 2-parameter function with no result.
func Fn2[T1, T2 any](fn func(T1, T2)) Handler {
	return newBinding(fn, false, func(t tuple) (any, error) {
		fn(arg[T1](t, 0), arg[T2](t, 1))
		return nil, nil
	}, reflect.TypeFor[T1](), reflect.TypeFor[T2]())
}

// Proc2 adapts a 2-parameter function that may fail.
func Proc2[T1, T2 any](fn func(T1, T2) error) Handler {
	return newBinding(fn, false, func(t tuple) (any, error) {
		return nil, fn(arg[T1](t, 0), arg[T2](t, 1))
	}, reflect.TypeFor[T1](), reflect.TypeFor[T2]())
}

// Func2 adapts a 2-parameter function returning a result.
func Func2[T1, T2, R any](fn func(T1, T2) (R, error)) Handler {
	return newBinding(fn, true, func(t tuple) (any, error) {
		return fn(arg[T1](t, 0), arg[T2](t, 1))
	}, reflect.TypeFor[T1](), reflect.TypeFor[T2]())
}

// Fn3 adapts a 3-parameter function with no result.
func Fn3[T1, T2, T3 any](fn func(T1, T2, T3)) Handler {
	return newBinding(fn, false, func(t tuple) (any, error) {
		fn(arg[T1](t, 0), arg[T2](t, 1), arg[T3](t, 2))
		return nil, nil
	}, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
}

// Proc3 adapts a 3-parameter function that may fail.
func Proc3[T1, T2, T3 any](fn func(T1, T2, T3) error) Handler {
	return newBinding(fn, false, func(t tuple) (any, error) {
		return nil, fn(arg[T1](t, 0), arg[T2](t, 1), arg[T3](t, 2))
	}, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
}

// Func3 adapts a 3-parameter function returning a result.
func Func3[T1, T2, T3, R any](fn func(T1, T2, T3) (R, error)) Handler {
	return newBinding(fn, true, func(t tuple) (any, error) {
		return fn(arg[T1](t, 0), arg[T2](t, 1), arg[T3](t, 2))
	}, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
}

// Fn4 adapts a 4-parameter function with no result.
func Fn4[T1, T2, T3, T4 any](fn func(T1, T2, T3, T4)) Handler {
	return newBinding(fn, false, func(t tuple) (any, error) {
		fn(arg[T1](t, 0), arg[T2](t, 1), arg[T3](t, 2), arg[T4](t, 3))
		return nil, nil
	}, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4]())
}

// Proc4 adapts a 4-parameter function that may fail.
func Proc4[T1, T2, T3, T4 any](fn func(T1, T2, T3, T4) error) Handler {
	return newBinding(fn, false, func(t tuple) (any, error) {
		return nil, fn(arg[T1](t, 0), arg[T2](t, 1), arg[T3](t, 2), arg[T4](t, 3))
	}, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4]())
}

// Func4 adapts a 4-parameter function returning a result.
func Func4[T1, T2, T3, T4, R any](fn func(T1, T2, T3, T4) (R, error)) Handler {
	return newBinding(fn, true, func(t tuple) (any, error) {
		return fn(arg[T1](t, 0), arg[T2](t, 1), arg[T3](t, 2), arg[T4](t, 3))
	}, reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3](), reflect.TypeFor[T4]())
}
