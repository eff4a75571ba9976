package extract

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// erased is an extractor with its result type hidden so extractors for
// different types can live in one map.
type erased func(ctx context.Context, req *Request) (any, error)

var extractableType = reflect.TypeFor[Extractable]()

// Registry maps parameter types to the extractors that produce them.
//
// Every registry starts with the built-in extractors: None, string, []byte,
// the sized integer, float and bool types, context.Context, *Request,
// Fields and View. Registering an extractor for one of those types
// replaces the built-in.
type Registry struct {
	mu       sync.RWMutex
	bindings map[reflect.Type]erased
}

// NewRegistry returns a registry holding the built-in extractors.
func NewRegistry() *Registry {
	r := &Registry{bindings: make(map[reflect.Type]erased)}
	registerBuiltins(r)
	return r
}

// RegisterExtractor binds fn as the extractor for T.
//
// This is a package-level function (not a method) because methods cannot
// have type parameters independent of the receiver.
//
//	extract.RegisterExtractor(reg, func(ctx context.Context, req *extract.Request) (time.Duration, error) {
//	    return time.ParseDuration(req.Payload)
//	})
func RegisterExtractor[T any](r *Registry, fn ExtractFunc[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[reflect.TypeFor[T]()] = func(ctx context.Context, req *Request) (any, error) {
		return fn(ctx, req)
	}
}

// Has reports whether a parameter of type t can be extracted.
func (r *Registry) Has(t reflect.Type) bool {
	_, err := r.lookup(t)
	return err == nil
}

// lookup resolves t to an extractor: explicit binding first, then
// Extractable on *t (or on t itself when t is a pointer).
func (r *Registry) lookup(t reflect.Type) (erased, error) {
	r.mu.RLock()
	fn, ok := r.bindings[t]
	r.mu.RUnlock()
	if ok {
		return fn, nil
	}

	if t.Kind() == reflect.Pointer && t.Implements(extractableType) {
		elem := t.Elem()
		return func(ctx context.Context, req *Request) (any, error) {
			p := reflect.New(elem)
			if err := p.Interface().(Extractable).FromRequest(ctx, req); err != nil {
				return nil, err
			}
			return p.Interface(), nil
		}, nil
	}

	if reflect.PointerTo(t).Implements(extractableType) {
		return func(ctx context.Context, req *Request) (any, error) {
			p := reflect.New(t)
			if err := p.Interface().(Extractable).FromRequest(ctx, req); err != nil {
				return nil, err
			}
			return p.Elem().Interface(), nil
		}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrNoExtractor, t)
}
