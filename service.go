package extract

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// Outcome describes one unit's attempt during a dispatch pass.
type Outcome struct {
	// Unit is the unit name.
	Unit string

	// Result is the handler's return value for result-bearing handlers.
	Result any

	// Err is the skip reason when Skipped is set, otherwise the handler's
	// error (a *PanicError if it panicked).
	Err error

	// Skipped reports that a guard or an extractor rejected the request, or
	// panicked, and the handler was not invoked.
	Skipped bool

	// Duration is the handler's running time. Zero when Skipped.
	Duration time.Duration
}

// service binds one handler to the extraction of its parameters. It is
// immutable once built.
type service struct {
	name    string
	guards  []Discriminator
	extract func(ctx context.Context, req *Request) (tuple, error)
	invoke  func(tuple) (any, error)
	returns bool
}

// handle extracts and invokes on the calling goroutine. before runs once
// extraction succeeded, just ahead of the handler.
func (s *service) handle(ctx context.Context, req *Request, before func(ctx context.Context, unit string)) Outcome {
	args, err := s.prepare(ctx, req)
	if err != nil {
		return Outcome{Unit: s.name, Err: err, Skipped: true}
	}
	before(ctx, s.name)
	return s.run(args)
}

// start is the asynchronous form of handle. Extraction happens before it
// returns; a unit that fails extraction gets an already resolved future so
// callers can treat every unit the same way.
func (s *service) start(ctx context.Context, req *Request, before func(ctx context.Context, unit string)) *future {
	args, err := s.prepare(ctx, req)
	if err != nil {
		return resolved(Outcome{Unit: s.name, Err: err, Skipped: true})
	}
	before(ctx, s.name)
	f := newFuture()
	go func() {
		f.resolve(s.run(args))
	}()
	return f
}

// prepare runs the guards and extractors. A panic in either is recovered as
// a *PanicError and the unit is skipped.
func (s *service) prepare(ctx context.Context, req *Request) (args tuple, err error) {
	defer func() {
		if r := recover(); r != nil {
			args = nil
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	if len(s.guards) > 0 {
		view, err := req.View()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoMatch, err)
		}
		for _, d := range s.guards {
			if !d.Match(view) {
				return nil, ErrNoMatch
			}
		}
	}
	return s.extract(ctx, req)
}

func (s *service) run(args tuple) (out Outcome) {
	out.Unit = s.name
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out.Result = nil
			out.Err = &PanicError{Value: r, Stack: debug.Stack()}
		}
		out.Duration = time.Since(start)
	}()

	res, err := s.invoke(args)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = res
	return out
}
