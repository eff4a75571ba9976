package extract

import (
	"context"
	"maps"
	"reflect"
	"strconv"
)

// ExtractFunc converts a request into a value of type T. It must be a pure
// function of its inputs: the same request always yields the same outcome.
type ExtractFunc[T any] func(ctx context.Context, req *Request) (T, error)

// Extractable is implemented by types that know how to build themselves
// from a request. A parameter of type T is extracted through Extractable
// when *T implements it and no explicit extractor is registered for T.
//
//	type UserID string
//
//	func (u *UserID) FromRequest(ctx context.Context, req *extract.Request) error {
//	    id, ok := req.Field("user_id")
//	    if !ok {
//	        return errors.New("missing user_id")
//	    }
//	    *u = UserID(id)
//	    return nil
//	}
type Extractable interface {
	FromRequest(ctx context.Context, req *Request) error
}

// None is the unit type. Extracting it always succeeds and produces nothing.
type None struct{}

func registerBuiltins(r *Registry) {
	RegisterExtractor(r, func(context.Context, *Request) (None, error) {
		return None{}, nil
	})
	RegisterExtractor(r, func(_ context.Context, req *Request) (string, error) {
		return req.Payload, nil
	})
	RegisterExtractor(r, func(_ context.Context, req *Request) ([]byte, error) {
		return []byte(req.Payload), nil
	})

	RegisterExtractor(r, parseInt[int](strconv.IntSize))
	RegisterExtractor(r, parseInt[int8](8))
	RegisterExtractor(r, parseInt[int16](16))
	RegisterExtractor(r, parseInt[int32](32))
	RegisterExtractor(r, parseInt[int64](64))
	RegisterExtractor(r, parseUint[uint](strconv.IntSize))
	RegisterExtractor(r, parseUint[uint8](8))
	RegisterExtractor(r, parseUint[uint16](16))
	RegisterExtractor(r, parseUint[uint32](32))
	RegisterExtractor(r, parseUint[uint64](64))
	RegisterExtractor(r, parseFloat[float32](32))
	RegisterExtractor(r, parseFloat[float64](64))

	RegisterExtractor(r, func(_ context.Context, req *Request) (bool, error) {
		b, err := strconv.ParseBool(req.Payload)
		if err != nil {
			return false, &ParseError{Type: "bool", Input: req.Payload, Err: err}
		}
		return b, nil
	})

	RegisterExtractor(r, func(ctx context.Context, _ *Request) (context.Context, error) {
		return ctx, nil
	})
	RegisterExtractor(r, func(_ context.Context, req *Request) (*Request, error) {
		return req, nil
	})
	RegisterExtractor(r, func(_ context.Context, req *Request) (Fields, error) {
		return maps.Clone(req.Fields), nil
	})
	RegisterExtractor(r, func(_ context.Context, req *Request) (View, error) {
		return req.View()
	})
}

func parseInt[T ~int | ~int8 | ~int16 | ~int32 | ~int64](bits int) ExtractFunc[T] {
	return func(_ context.Context, req *Request) (T, error) {
		n, err := strconv.ParseInt(req.Payload, 10, bits)
		if err != nil {
			return 0, &ParseError{Type: typeName[T](), Input: req.Payload, Err: err}
		}
		return T(n), nil
	}
}

func parseUint[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](bits int) ExtractFunc[T] {
	return func(_ context.Context, req *Request) (T, error) {
		n, err := strconv.ParseUint(req.Payload, 10, bits)
		if err != nil {
			return 0, &ParseError{Type: typeName[T](), Input: req.Payload, Err: err}
		}
		return T(n), nil
	}
}

func parseFloat[T ~float32 | ~float64](bits int) ExtractFunc[T] {
	return func(_ context.Context, req *Request) (T, error) {
		n, err := strconv.ParseFloat(req.Payload, bits)
		if err != nil {
			return 0, &ParseError{Type: typeName[T](), Input: req.Payload, Err: err}
		}
		return T(n), nil
	}
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
