// Package loopexec bridges asynchronous code with a single-threaded GUI
// event loop.
//
// GUI toolkits generally demand that every widget is touched from the one
// thread that runs the main loop, while the interesting work (computations,
// I/O) wants to happen somewhere else. This package provides the two small
// primitives needed to cross that boundary safely:
//
//   - a [Promise], a single-assignment result cell that can be resolved or
//     rejected from any goroutine, and
//   - an [Executor], which runs spawned futures strictly on the goroutine
//     that owns the host event loop, driving them forward one poll at a time
//     as the loop processes its queue.
//
// The package deliberately does not implement an event loop of its own.
// The host loop is an external collaborator, reduced to a single primitive:
// a function that schedules a callback to run once, soon, on the loop's own
// goroutine (an idle-callback or next-tick registration in most toolkits).
//
// # Bridging Callbacks Into Futures
//
// GUI code frequently needs to turn a callback-style event into an awaitable
// value. A [Promise] does exactly that. Create one, hand out copies freely
// (all copies settle the same cell), and resolve it from whichever callback
// or goroutine learns the outcome first:
//
//	done := loopexec.NewPromise[struct{}]()
//	window.ConnectDelete(func() {
//		done.Resolve(struct{}{})
//	})
//
// Whoever awaits the promise observes the first settlement, forever.
//
// # Running Futures On The Loop
//
// An [Executor] is created on the loop goroutine and never leaves it.
// Spawned futures are polled only from within the host loop's callbacks, so
// GUI state mutations performed by different futures are serialized without
// further locking. Background goroutines re-enter GUI code by settling a
// promise; the wake this triggers is marshaled back onto the loop rather
// than run in place:
//
//	exec := loopexec.New(loop.Schedule)
//
//	result := loopexec.Go(func() (uint64, error) {
//		return fib(n), nil // off the loop goroutine
//	})
//
//	exec.Spawn(result.Await(func(v uint64, err error) {
//		label.SetText(fmt.Sprint(v)) // back on the loop goroutine
//	}))
//
// # Thread Confinement
//
// Go has no way to mark a value as unsendable across goroutines, so the
// confinement of an [Executor] is enforced with a runtime owning-goroutine
// check on every operation. The only calls in this package that are safe
// from arbitrary goroutines are [Promise.Resolve], [Promise.Reject] and
// [Waker.Wake]; everything on [Executor] panics when invoked off the loop
// goroutine.
//
// # Failure Isolation
//
// A future that panics while being polled does not take the executor or the
// host loop down with it. The panic is recovered, reported through the
// optional logger (see [WithLogger]), and the task is dropped, analogous to
// an unhandled asynchronous failure.
package loopexec
