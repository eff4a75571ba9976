// Package extract registers handlers of arbitrary typed signatures against a
// single dispatcher and invokes each one with arguments extracted from a
// shared request.
//
// A handler declares what it needs as ordinary parameters. At registration
// the App looks up an extractor for every parameter type; at dispatch it
// runs those extractors against the request and calls the handler with the
// results, in declaration order.
//
// # Quick Start
//
//	func none()                { fmt.Println("none") }
//	func one(s string)         { fmt.Println("one:", s) }
//	func two(a uint32, b uint64) { fmt.Println("two:", a, b) }
//
//	app := extract.New().
//	    Handle(none).
//	    Handle(one).
//	    Handle(two)
//
//	app.Dispatch(ctx, extract.NewRequest("1234"))
//	// none
//	// one: 1234
//	// two: 1234 1234
//
// # Design Philosophy
//
// The package separates concerns into three layers:
//
//   - Extractors: convert a request into one typed value, fallibly
//   - Units: a handler bound to the extractors for its parameter list
//   - App: the ordered list of units, driving a dispatch pass
//
// Every unit sees every request. There is no routing table: a unit that
// cannot extract its parameters from a request is simply skipped.
//
// # Extractors
//
// An extractor is an ExtractFunc[T] registered in a Registry, keyed by T:
//
//	reg := extract.NewRegistry()
//	extract.RegisterExtractor(reg, func(ctx context.Context, req *extract.Request) (time.Duration, error) {
//	    return time.ParseDuration(req.Payload)
//	})
//	app := extract.New(extract.WithRegistry(reg))
//
// Types can also extract themselves by implementing Extractable on their
// pointer. JSON[T] is one such type: it decodes the payload into T.
//
// Built-in extractors cover None (always succeeds, produces nothing), string
// and []byte (copy the payload), the sized integer and float types and bool
// (parse the payload), context.Context, *Request, Fields and View.
//
// # Parameter Tuples
//
// A handler with several parameters runs their extractors against the same
// request, in order. The first failure stops extraction: later positions
// are not evaluated and the unit is skipped with an *ExtractError naming
// the failed position.
//
// # Adapters
//
// Handlers reach the App through adapters. The typed adapters are checked
// at compile time and cover arities zero to four:
//
//	extract.Fn2(func(a uint32, b uint64) { ... })            // no result
//	extract.Proc1(func(s string) error { ... })              // may fail
//	extract.Func1(func(n int) (int, error) { ... })          // returns a result
//
// Reflect adapts any function by inspecting its signature at registration
// and supports any arity. App.Handle and App.Register apply Reflect to plain
// functions automatically.
//
// Registration fails with ErrNoExtractor if a parameter type has no
// extractor, so a misdeclared handler is caught before the first dispatch.
//
// # Synchronous and Asynchronous Dispatch
//
// Dispatch runs units one at a time on the calling goroutine. DispatchAsync
// runs each handler on its own goroutine but waits for it before starting
// the next, so both preserve registration order and neither runs units
// concurrently. DispatchAsync stops waiting when its context is done.
//
// # Failure Isolation
//
// Failures stay inside the unit. Skips, handler errors and recovered panics
// never stop the pass and are never returned from Dispatch. Observe them
// with hooks or a logger:
//
//	app := extract.New(
//	    extract.WithLogger(logger),
//	    extract.WithOnSkip(func(ctx context.Context, unit string, err error) {
//	        metrics.Incr("extract.skip", "unit:"+unit)
//	    }),
//	    extract.WithOnResult(func(ctx context.Context, unit string, result any) {
//	        results <- result
//	    }),
//	)
//
// # Guards
//
// When restricts a unit to JSON payloads matching a Discriminator:
//
//	app.Handle(extract.When(
//	    extract.And(extract.HasFields("id"), extract.FieldEquals("kind", "order")),
//	    extract.Proc1(onOrder),
//	))
//
// # Thread Safety
//
// App is safe for concurrent dispatch after registration is complete. Do
// not call Handle or Register after the first dispatch.
package extract
