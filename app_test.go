package extract

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects handler calls in the order they happen.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func noop() {}

// explosive panics while extracting itself.
type explosive struct{}

func (*explosive) FromRequest(context.Context, *Request) error {
	panic("extract boom")
}

// threeUnitApp registers none(), one(s string) and two(n1 uint32, n2 uint64).
func threeUnitApp(rec *recorder, opts ...Option) *App {
	return New(opts...).
		Handle(Named("none", Fn0(func() { rec.add("none") }))).
		Handle(Named("one", Fn1(func(s string) { rec.add("one:%s", s) }))).
		Handle(Named("two", Fn2(func(n1 uint32, n2 uint64) { rec.add("two:%d,%d", n1, n2) })))
}

func TestApp_Dispatch(t *testing.T) {
	t.Run("numeric payload reaches every unit", func(t *testing.T) {
		rec := &recorder{}
		app := threeUnitApp(rec)

		app.Dispatch(context.Background(), NewRequest("1234"))

		assert.Equal(t, []string{"none", "one:1234", "two:1234,1234"}, rec.list())
	})

	t.Run("non-numeric payload skips the numeric unit", func(t *testing.T) {
		rec := &recorder{}
		var skipped []error
		app := threeUnitApp(rec, WithOnSkip(func(ctx context.Context, unit string, err error) {
			rec.add("skip:%s", unit)
			skipped = append(skipped, err)
		}))

		app.Dispatch(context.Background(), NewRequest("333a3"))

		assert.Equal(t, []string{"none", "one:333a3", "skip:two"}, rec.list())
		require.Len(t, skipped, 1)

		var xerr *ExtractError
		require.ErrorAs(t, skipped[0], &xerr)
		assert.Equal(t, 0, xerr.Position)

		var perr *ParseError
		require.ErrorAs(t, skipped[0], &perr)
		assert.Equal(t, "uint32", perr.Type)
		assert.ErrorIs(t, skipped[0], strconv.ErrSyntax)
	})

	t.Run("mixed string and numeric parameters", func(t *testing.T) {
		var gotS string
		var gotN uint64
		app := New().Handle(func(s string, n uint64) {
			gotS, gotN = s, n
		})

		app.Dispatch(context.Background(), NewRequest("42"))

		assert.Equal(t, "42", gotS)
		assert.Equal(t, uint64(42), gotN)
	})

	t.Run("reflected handlers behave like typed ones", func(t *testing.T) {
		rec := &recorder{}
		app := New().
			Handle(func() { rec.add("none") }).
			Handle(func(s string) { rec.add("one:%s", s) }).
			Handle(func(n1 uint32, n2 uint64) { rec.add("two:%d,%d", n1, n2) })

		app.Dispatch(context.Background(), NewRequest("1234"))
		app.Dispatch(context.Background(), NewRequest("333a3"))

		assert.Equal(t, []string{
			"none", "one:1234", "two:1234,1234",
			"none", "one:333a3",
		}, rec.list())
	})

	t.Run("preserves registration order on every pass", func(t *testing.T) {
		rec := &recorder{}
		app := New()
		for i := range 10 {
			app.Handle(Fn0(func() { rec.add("%d", i) }))
		}

		want := []string{}
		for range 3 {
			for i := range 10 {
				want = append(want, strconv.Itoa(i))
			}
			app.Dispatch(context.Background(), NewRequest(""))
		}

		assert.Equal(t, want, rec.list())
	})

	t.Run("failing unit does not affect its neighbours", func(t *testing.T) {
		rec := &recorder{}
		app := New().
			Handle(Fn1(func(s string) { rec.add("before:%s", s) })).
			Handle(Fn1(func(n int) { rec.add("int:%d", n) })).
			Handle(Fn1(func(s string) { rec.add("after:%s", s) }))

		app.Dispatch(context.Background(), NewRequest("x"))

		assert.Equal(t, []string{"before:x", "after:x"}, rec.list())
	})

	t.Run("zero-arity handler always runs", func(t *testing.T) {
		var calls int
		app := New().Handle(Fn0(func() { calls++ }))

		app.Dispatch(context.Background(), NewRequest("anything"))
		app.Dispatch(context.Background(), nil)
		app.Dispatch(nil, NewRequest(""))

		assert.Equal(t, 3, calls)
	})

	t.Run("handler error is absorbed", func(t *testing.T) {
		wantErr := errors.New("boom")
		var failed error
		rec := &recorder{}

		app := New(WithOnFailure(func(ctx context.Context, unit string, err error, d time.Duration) {
			failed = err
		})).
			Handle(Proc0(func() error { return wantErr })).
			Handle(Fn0(func() { rec.add("next") }))

		app.Dispatch(context.Background(), NewRequest(""))

		assert.ErrorIs(t, failed, wantErr)
		assert.Equal(t, []string{"next"}, rec.list())
	})

	t.Run("handler panic is recovered", func(t *testing.T) {
		var failed error
		rec := &recorder{}

		app := New(WithOnFailure(func(ctx context.Context, unit string, err error, d time.Duration) {
			failed = err
		})).
			Handle(Fn1(func(s string) { panic("bad " + s) })).
			Handle(Fn0(func() { rec.add("next") }))

		app.Dispatch(context.Background(), NewRequest("input"))

		require.ErrorIs(t, failed, ErrPanic)
		var perr *PanicError
		require.ErrorAs(t, failed, &perr)
		assert.Equal(t, "bad input", perr.Value)
		assert.NotEmpty(t, perr.Stack)
		assert.Equal(t, []string{"next"}, rec.list())
	})

	t.Run("extractor panic skips only its unit", func(t *testing.T) {
		var skipped error
		rec := &recorder{}

		app := New(WithOnSkip(func(ctx context.Context, unit string, err error) {
			skipped = err
		})).
			Handle(Fn1(func(explosive) { rec.add("explosive") })).
			Handle(Fn0(func() { rec.add("next") }))

		require.NotPanics(t, func() {
			app.Dispatch(context.Background(), NewRequest("input"))
		})

		require.ErrorIs(t, skipped, ErrPanic)
		var perr *PanicError
		require.ErrorAs(t, skipped, &perr)
		assert.Equal(t, "extract boom", perr.Value)
		assert.NotEmpty(t, perr.Stack)
		assert.Equal(t, []string{"next"}, rec.list())
	})

	t.Run("guard panic skips only its unit", func(t *testing.T) {
		var skipped error
		rec := &recorder{}
		boom := MatchFunc(func(View) bool { panic("guard boom") })

		app := New(WithOnSkip(func(ctx context.Context, unit string, err error) {
			skipped = err
		})).
			Handle(When(boom, Fn0(func() { rec.add("guarded") }))).
			Handle(Fn0(func() { rec.add("next") }))

		app.Dispatch(context.Background(), NewRequest(`{"kind":"order"}`))

		require.ErrorIs(t, skipped, ErrPanic)
		assert.Equal(t, []string{"next"}, rec.list())
	})

	t.Run("context parameter receives the dispatch context", func(t *testing.T) {
		type key struct{}
		var got any
		app := New().Handle(Fn1(func(ctx context.Context) { got = ctx.Value(key{}) }))

		ctx := context.WithValue(context.Background(), key{}, "v")
		app.Dispatch(ctx, NewRequest(""))

		assert.Equal(t, "v", got)
	})

	t.Run("request parameters see fields", func(t *testing.T) {
		var got string
		app := New().Handle(func(req *Request, f Fields) {
			v, _ := req.Field("id")
			got = v + "/" + f["id"]
		})

		app.Dispatch(context.Background(), NewRequest("").WithField("id", "7"))

		assert.Equal(t, "7/7", got)
	})
}

func TestApp_Register(t *testing.T) {
	t.Run("unknown parameter type fails", func(t *testing.T) {
		type unknown struct{ X int }
		app := New()

		err := app.Register(func(u unknown) {})

		require.ErrorIs(t, err, ErrNoExtractor)
		assert.Contains(t, err.Error(), "unknown")
		assert.Equal(t, 0, app.Len())
	})

	t.Run("typed adapter with unknown type fails", func(t *testing.T) {
		type unknown struct{ X int }

		err := New().Register(Fn2(func(s string, u unknown) {}))

		assert.ErrorIs(t, err, ErrNoExtractor)
	})

	t.Run("invalid handlers fail", func(t *testing.T) {
		tests := map[string]any{
			"nil":              nil,
			"not a function":   42,
			"variadic":         func(s ...string) {},
			"two non-errors":   func() (int, int) { return 0, 0 },
			"three results":    func() (int, int, error) { return 0, 0, nil },
			"nil typed func":   Fn1[string](nil),
			"nil reflect func": (func(string))(nil),
		}

		for name, h := range tests {
			t.Run(name, func(t *testing.T) {
				err := New().Register(h)
				assert.ErrorIs(t, err, ErrInvalidHandler)
			})
		}
	})

	t.Run("Handle panics on registration error", func(t *testing.T) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			assert.ErrorIs(t, err, ErrNoExtractor)
		}()

		New().Handle(func(ch chan int) {})
		t.Fatal("Handle did not panic")
	})

	t.Run("units are named after their functions", func(t *testing.T) {
		app := New().
			Handle(noop).
			Handle(Named("custom", Fn0(noop)))

		units := app.Units()
		require.Len(t, units, 2)
		assert.True(t, strings.HasSuffix(units[0], ".noop"), units[0])
		assert.Equal(t, "custom", units[1])
		assert.Equal(t, 2, app.Len())
	})

	t.Run("custom registry is used for lookup", func(t *testing.T) {
		reg := NewRegistry()
		RegisterExtractor(reg, func(ctx context.Context, req *Request) (time.Duration, error) {
			return time.ParseDuration(req.Payload)
		})

		var got time.Duration
		app := New(WithRegistry(reg)).Handle(func(d time.Duration) { got = d })
		app.Dispatch(context.Background(), NewRequest("1m30s"))

		assert.Equal(t, 90*time.Second, got)
		assert.ErrorIs(t, New().Register(func(d time.Duration) {}), ErrNoExtractor)
	})
}

func TestApp_Results(t *testing.T) {
	t.Run("result-bearing handlers report results", func(t *testing.T) {
		var results []any
		app := New(WithOnResult(func(ctx context.Context, unit string, r any) {
			results = append(results, r)
		})).
			Handle(Func1(func(n int) (int, error) { return n * 2, nil })).
			Handle(func(s string) string { return strings.ToUpper(s) }).
			Handle(func(n int) (string, error) { return "", errors.New("no") }).
			Handle(Proc1(func(n int) error { return nil }))

		app.Dispatch(context.Background(), NewRequest("21"))

		assert.Equal(t, []any{42, "21"}, results)
	})

	t.Run("skipped units report no result", func(t *testing.T) {
		var results []any
		app := New(WithOnResult(func(ctx context.Context, unit string, r any) {
			results = append(results, r)
		})).Handle(Func1(func(n int) (int, error) { return n, nil }))

		app.Dispatch(context.Background(), NewRequest("x"))

		assert.Empty(t, results)
	})
}

func TestApp_DispatchAsync(t *testing.T) {
	t.Run("matches synchronous ordering", func(t *testing.T) {
		rec := &recorder{}
		app := threeUnitApp(rec)

		require.NoError(t, app.DispatchAsync(context.Background(), NewRequest("1234")))
		require.NoError(t, app.DispatchAsync(context.Background(), NewRequest("333a3")))

		assert.Equal(t, []string{
			"none", "one:1234", "two:1234,1234",
			"none", "one:333a3",
		}, rec.list())
	})

	t.Run("waits for each unit before starting the next", func(t *testing.T) {
		rec := &recorder{}
		app := New().
			Handle(Fn0(func() {
				time.Sleep(20 * time.Millisecond)
				rec.add("slow")
			})).
			Handle(Fn0(func() { rec.add("fast") }))

		require.NoError(t, app.DispatchAsync(context.Background(), NewRequest("")))

		assert.Equal(t, []string{"slow", "fast"}, rec.list())
	})

	t.Run("runs handlers off the calling goroutine", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		rec := &recorder{}

		app := New().
			Handle(Fn0(func() {
				close(started)
				<-release
				rec.add("blocked")
			})).
			Handle(Fn0(func() { rec.add("second") }))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- app.DispatchAsync(ctx, NewRequest("")) }()

		<-started
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("DispatchAsync did not return after cancel")
		}

		close(release)
		assert.Eventually(t, func() bool {
			return slices.Equal(rec.list(), []string{"blocked"})
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("cancelled context starts nothing", func(t *testing.T) {
		var calls int
		app := New().Handle(Fn0(func() { calls++ }))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, app.DispatchAsync(ctx, NewRequest("")), context.Canceled)
		assert.Equal(t, 0, calls)
	})

	t.Run("panics and errors are absorbed", func(t *testing.T) {
		var failures int
		rec := &recorder{}
		app := New(WithOnFailure(func(ctx context.Context, unit string, err error, d time.Duration) {
			failures++
		})).
			Handle(Fn0(func() { panic("boom") })).
			Handle(Proc0(func() error { return errors.New("no") })).
			Handle(Fn0(func() { rec.add("last") }))

		require.NoError(t, app.DispatchAsync(context.Background(), NewRequest("")))

		assert.Equal(t, 2, failures)
		assert.Equal(t, []string{"last"}, rec.list())
	})

	t.Run("extractor panic skips only its unit", func(t *testing.T) {
		var skipped error
		rec := &recorder{}
		app := New(WithOnSkip(func(ctx context.Context, unit string, err error) {
			skipped = err
		})).
			Handle(Fn1(func(explosive) { rec.add("explosive") })).
			Handle(Fn0(func() { rec.add("next") }))

		require.NoError(t, app.DispatchAsync(context.Background(), NewRequest("input")))

		assert.ErrorIs(t, skipped, ErrPanic)
		assert.Equal(t, []string{"next"}, rec.list())
	})
}
