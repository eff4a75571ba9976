package extract

import (
	"fmt"
	"reflect"
	"runtime"
)

// Handler is a callable bound to its parameter types but not yet resolved
// against a Registry. Build one with the FnN, ProcN and FuncN adapters or
// with Reflect; App.Handle resolves it when it is registered.
type Handler interface {
	bind(reg *Registry) (*service, error)
}

// binding is the common Handler produced by every adapter.
type binding struct {
	name    string
	params  []reflect.Type
	call    func(tuple) (any, error)
	returns bool
	invalid error
}

func (b *binding) bind(reg *Registry) (*service, error) {
	if b.invalid != nil {
		return nil, b.invalid
	}
	slots, err := resolve(reg, b.params)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", b.name, err)
	}
	return &service{
		name:    b.name,
		extract: compose(slots),
		invoke:  b.call,
		returns: b.returns,
	}, nil
}

func newBinding(fn any, returns bool, call func(tuple) (any, error), params ...reflect.Type) Handler {
	b := &binding{name: funcName(fn), params: params, call: call, returns: returns}
	if v := reflect.ValueOf(fn); v.Kind() != reflect.Func || v.IsNil() {
		b.invalid = fmt.Errorf("%w: nil function", ErrInvalidHandler)
	}
	return b
}

// Named overrides the unit name used in hooks, logs and metrics. The
// default is the handler's runtime function name.
func Named(name string, h Handler) Handler {
	return named{name: name, h: h}
}

type named struct {
	name string
	h    Handler
}

func (n named) bind(reg *Registry) (*service, error) {
	s, err := n.h.bind(reg)
	if err != nil {
		return nil, err
	}
	s.name = n.name
	return s, nil
}

// When guards h with a Discriminator evaluated against the JSON view of the
// payload. A request that is not JSON, or does not match, skips the unit
// with ErrNoMatch before any parameter is extracted.
//
//	app.Handle(extract.When(
//	    extract.FieldEquals("type", "user/created"),
//	    extract.Proc1(onUserCreated),
//	))
func When(d Discriminator, h Handler) Handler {
	return guarded{d: d, h: h}
}

type guarded struct {
	d Discriminator
	h Handler
}

func (g guarded) bind(reg *Registry) (*service, error) {
	s, err := g.h.bind(reg)
	if err != nil {
		return nil, err
	}
	s.guards = append(s.guards, g.d)
	return s, nil
}

var errorType = reflect.TypeFor[error]()

// Reflect adapts any function to a Handler by inspecting its signature at
// registration. Parameters may be of any extractable type and any number.
// Accepted result shapes:
//
//	func(...)
//	func(...) error
//	func(...) R
//	func(...) (R, error)
//
// Variadic functions are rejected with ErrInvalidHandler.
func Reflect(fn any) Handler {
	return reflected{fn: fn}
}

type reflected struct {
	fn any
}

func (r reflected) bind(reg *Registry) (*service, error) {
	b, err := reflectBinding(r.fn)
	if err != nil {
		return nil, err
	}
	return b.bind(reg)
}

func reflectBinding(fn any) (*binding, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%w: %T is not a function", ErrInvalidHandler, fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic %v", ErrInvalidHandler, t)
	}

	unpack, returns, err := resultShape(t)
	if err != nil {
		return nil, err
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}

	return &binding{
		name:    funcName(fn),
		params:  params,
		returns: returns,
		call: func(args tuple) (any, error) {
			in := make([]reflect.Value, len(args))
			for i, a := range args {
				if a == nil {
					in[i] = reflect.Zero(params[i])
				} else {
					in[i] = reflect.ValueOf(a)
				}
			}
			return unpack(v.Call(in))
		},
	}, nil
}

func resultShape(t reflect.Type) (func([]reflect.Value) (any, error), bool, error) {
	switch {
	case t.NumOut() == 0:
		return func([]reflect.Value) (any, error) { return nil, nil }, false, nil
	case t.NumOut() == 1 && t.Out(0) == errorType:
		return func(out []reflect.Value) (any, error) {
			err, _ := out[0].Interface().(error)
			return nil, err
		}, false, nil
	case t.NumOut() == 1:
		return func(out []reflect.Value) (any, error) {
			return out[0].Interface(), nil
		}, true, nil
	case t.NumOut() == 2 && t.Out(1) == errorType:
		return func(out []reflect.Value) (any, error) {
			err, _ := out[1].Interface().(error)
			return out[0].Interface(), err
		}, true, nil
	default:
		return nil, false, fmt.Errorf("%w: unsupported results in %v", ErrInvalidHandler, t)
	}
}

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fmt.Sprintf("%T", fn)
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return v.Type().String()
}
