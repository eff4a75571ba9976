package extract

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// App is an ordered set of service units, each a handler bound to the
// extraction of its parameters. A dispatch pass offers one request to every
// unit in registration order.
//
// Usage:
//  1. Create an app with New
//  2. Register handlers with Handle or Register
//  3. Dispatch requests with Dispatch or DispatchAsync
//
// App is safe for concurrent dispatch after registration. Do not register
// handlers after the first dispatch. Units cannot be removed.
type App struct {
	registry *Registry
	services []*service
	hooks    hooks
	log      *zap.Logger
}

// New creates an App with the given options. Without WithRegistry the app
// gets its own registry holding the built-in extractors.
//
// Example:
//
//	app := extract.New(
//	    extract.WithLogger(logger),
//	    extract.WithOnFailure(func(ctx context.Context, unit string, err error, d time.Duration) {
//	        metrics.Incr("extract.failure", "unit:"+unit)
//	    }),
//	)
func New(opts ...Option) *App {
	a := &App{
		registry: NewRegistry(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register appends a unit for h. h is either a Handler built by one of the
// adapters or a plain function, which is adapted with Reflect.
//
// Registration fails with ErrNoExtractor when a parameter type cannot be
// extracted and with ErrInvalidHandler when h is not a usable function.
func (a *App) Register(h any) error {
	handler, ok := h.(Handler)
	if !ok {
		handler = Reflect(h)
	}
	s, err := handler.bind(a.registry)
	if err != nil {
		return err
	}
	a.services = append(a.services, s)
	return nil
}

// Handle is the chainable form of Register. It panics if registration
// fails, which for a fixed set of handlers is a programming error.
//
// Example:
//
//	app := extract.New().
//	    Handle(none).
//	    Handle(extract.Fn1(one)).
//	    Handle(two)
func (a *App) Handle(h any) *App {
	if err := a.Register(h); err != nil {
		panic(fmt.Errorf("extract: register handler: %w", err))
	}
	return a
}

// Len returns the number of registered units.
func (a *App) Len() int {
	return len(a.services)
}

// Units returns the unit names in registration order.
func (a *App) Units() []string {
	names := make([]string, len(a.services))
	for i, s := range a.services {
		names[i] = s.name
	}
	return names
}

// Dispatch offers req to every unit in registration order. Each unit runs
// to completion before the next starts.
//
// Units are isolated: a unit whose extraction fails is skipped, and a
// handler error or panic is absorbed at the unit. Neither stops the pass
// and neither is returned; observe them through hooks or the logger.
func (a *App) Dispatch(ctx context.Context, req *Request) {
	ctx, req = normalize(ctx, req)
	for _, s := range a.services {
		a.report(ctx, s, s.handle(ctx, req, a.callOnDispatch))
	}
}

// DispatchAsync is the asynchronous form of Dispatch. Each handler runs on
// its own goroutine and the pass waits for it before starting the next
// unit, so ordering is the same as Dispatch and units never overlap.
//
// If ctx is done the pass stops waiting and returns ctx.Err(). A handler
// already running is left to finish on its own; later units are not
// started. Handlers that declare a context.Context parameter receive ctx
// and can stop early. Unit failures are never returned.
func (a *App) DispatchAsync(ctx context.Context, req *Request) error {
	ctx, req = normalize(ctx, req)
	for _, s := range a.services {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := s.start(ctx, req, a.callOnDispatch)
		out, ok := f.result()
		if !ok {
			var err error
			if out, err = f.wait(ctx); err != nil {
				a.log.Debug("dispatch abandoned", zap.String("unit", s.name), zap.Error(err))
				return err
			}
		}
		a.report(ctx, s, out)
	}
	return nil
}

// report routes an outcome to the logger and hooks.
func (a *App) report(ctx context.Context, s *service, out Outcome) {
	switch {
	case out.Skipped:
		var perr *PanicError
		if errors.As(out.Err, &perr) {
			a.log.Error("extraction panicked",
				zap.String("unit", out.Unit),
				zap.Any("panic", perr.Value),
				zap.ByteString("stack", perr.Stack),
			)
		} else {
			a.log.Debug("unit skipped", zap.String("unit", out.Unit), zap.Error(out.Err))
		}
		a.callOnSkip(ctx, out.Unit, out.Err)

	case out.Err != nil:
		var perr *PanicError
		if errors.As(out.Err, &perr) {
			a.log.Error("unit panicked",
				zap.String("unit", out.Unit),
				zap.Any("panic", perr.Value),
				zap.ByteString("stack", perr.Stack),
			)
		} else {
			a.log.Warn("unit failed",
				zap.String("unit", out.Unit),
				zap.Error(out.Err),
				zap.Duration("duration", out.Duration),
			)
		}
		a.callOnFailure(ctx, out.Unit, out.Err, out.Duration)

	default:
		a.callOnSuccess(ctx, out.Unit, out.Duration)
		if s.returns {
			a.callOnResult(ctx, out.Unit, out.Result)
		}
	}
}

func normalize(ctx context.Context, req *Request) (context.Context, *Request) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		req = &Request{}
	}
	return ctx, req
}
