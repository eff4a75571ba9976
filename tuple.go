package extract

import (
	"context"
	"reflect"
)

// tuple holds a handler's extracted arguments in positional order. It only
// lives between extraction and invocation.
type tuple []any

// slot is one resolved parameter position.
type slot struct {
	typ     reflect.Type
	extract erased
}

// resolve looks up an extractor for every parameter type, in order.
func resolve(reg *Registry, params []reflect.Type) ([]slot, error) {
	slots := make([]slot, len(params))
	for i, t := range params {
		fn, err := reg.lookup(t)
		if err != nil {
			return nil, err
		}
		slots[i] = slot{typ: t, extract: fn}
	}
	return slots, nil
}

// compose lifts per-position extractors to a tuple extractor. Positions run
// against the same request in order and the first failure stops the rest.
func compose(slots []slot) func(ctx context.Context, req *Request) (tuple, error) {
	return func(ctx context.Context, req *Request) (tuple, error) {
		if len(slots) == 0 {
			return nil, nil
		}
		out := make(tuple, len(slots))
		for i, s := range slots {
			v, err := s.extract(ctx, req)
			if err != nil {
				return nil, &ExtractError{Position: i, Type: s.typ, Err: err}
			}
			out[i] = v
		}
		return out, nil
	}
}

// arg returns position i as T. A nil interface value yields the zero T.
func arg[T any](t tuple, i int) T {
	v, _ := t[i].(T)
	return v
}
