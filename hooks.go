package extract

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OnDispatchFunc is called after a unit's parameters were extracted, just
// before its handler runs.
type OnDispatchFunc func(ctx context.Context, unit string)

// OnSkipFunc is called when a unit's guard or extraction rejected the
// request. err is an *ExtractError, wraps ErrNoMatch, or is a *PanicError
// when a guard or extractor panicked.
type OnSkipFunc func(ctx context.Context, unit string, err error)

// OnSuccessFunc is called after a handler returned without error.
type OnSuccessFunc func(ctx context.Context, unit string, duration time.Duration)

// OnFailureFunc is called after a handler returned an error or panicked.
type OnFailureFunc func(ctx context.Context, unit string, err error, duration time.Duration)

// OnResultFunc receives the value returned by a result-bearing handler
// (FuncN, or a reflected function with a non-error result). It runs after
// the OnSuccess hooks.
type OnResultFunc func(ctx context.Context, unit string, result any)

// hooks holds all configured hook functions.
type hooks struct {
	onDispatch []OnDispatchFunc
	onSkip     []OnSkipFunc
	onSuccess  []OnSuccessFunc
	onFailure  []OnFailureFunc
	onResult   []OnResultFunc
}

// Option configures an App.
type Option func(*App)

// WithRegistry sets the registry used to resolve handler parameters.
// Handlers already registered keep the extractors they were bound with.
func WithRegistry(r *Registry) Option {
	return func(a *App) {
		if r != nil {
			a.registry = r
		}
	}
}

// WithLogger sets the logger for unit skips, failures and panics. Skips log
// at debug, failures at warn and panics at error. The default discards
// everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithOnDispatch adds a hook called just before a handler executes.
// Multiple hooks are called in order.
func WithOnDispatch(fn OnDispatchFunc) Option {
	return func(a *App) {
		a.hooks.onDispatch = append(a.hooks.onDispatch, fn)
	}
}

// WithOnSkip adds a hook called when a unit is skipped.
//
// Example:
//
//	extract.WithOnSkip(func(ctx context.Context, unit string, err error) {
//	    var xerr *extract.ExtractError
//	    if errors.As(err, &xerr) {
//	        log.Printf("%s: param %d rejected: %v", unit, xerr.Position, xerr.Err)
//	    }
//	})
func WithOnSkip(fn OnSkipFunc) Option {
	return func(a *App) {
		a.hooks.onSkip = append(a.hooks.onSkip, fn)
	}
}

// WithOnSuccess adds a hook called after a handler succeeds.
// Multiple hooks are called in order.
func WithOnSuccess(fn OnSuccessFunc) Option {
	return func(a *App) {
		a.hooks.onSuccess = append(a.hooks.onSuccess, fn)
	}
}

// WithOnFailure adds a hook called after a handler fails.
// Multiple hooks are called in order.
func WithOnFailure(fn OnFailureFunc) Option {
	return func(a *App) {
		a.hooks.onFailure = append(a.hooks.onFailure, fn)
	}
}

// WithOnResult adds a hook receiving the results of result-bearing handlers.
// Dispatch itself never returns handler results; collect them here.
//
// Example:
//
//	results := make(chan any, 16)
//	app := extract.New(extract.WithOnResult(func(ctx context.Context, unit string, r any) {
//	    results <- r
//	}))
func WithOnResult(fn OnResultFunc) Option {
	return func(a *App) {
		a.hooks.onResult = append(a.hooks.onResult, fn)
	}
}

func (a *App) callOnDispatch(ctx context.Context, unit string) {
	for _, fn := range a.hooks.onDispatch {
		fn(ctx, unit)
	}
}

func (a *App) callOnSkip(ctx context.Context, unit string, err error) {
	for _, fn := range a.hooks.onSkip {
		fn(ctx, unit, err)
	}
}

func (a *App) callOnSuccess(ctx context.Context, unit string, d time.Duration) {
	for _, fn := range a.hooks.onSuccess {
		fn(ctx, unit, d)
	}
}

func (a *App) callOnFailure(ctx context.Context, unit string, err error, d time.Duration) {
	for _, fn := range a.hooks.onFailure {
		fn(ctx, unit, err, d)
	}
}

func (a *App) callOnResult(ctx context.Context, unit string, result any) {
	for _, fn := range a.hooks.onResult {
		fn(ctx, unit, result)
	}
}
