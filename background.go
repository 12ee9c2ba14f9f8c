package loopexec

import (
	"fmt"
	"runtime/debug"
)

// Go runs f in a new goroutine and returns a [Promise] for its outcome.
//
// It is the bridge for long-running work that must stay off the loop
// goroutine: spawn the work with Go, then [Promise.Await] the result on an
// [Executor] to continue on the loop with the outcome in hand. Callers that
// need bounded concurrency should submit to a pool of their own and settle
// a [NewPromise] themselves; Go deliberately stays a one-goroutine-per-call
// primitive.
//
// If f panics, the promise is rejected with a [PanicError] carrying the
// panic value and stack trace.
func Go[T any](f func() (T, error)) Promise[T] {
	p := NewPromise[T]()
	go func() {
		defer func() {
			if v := recover(); v != nil {
				p.Reject(&PanicError{Value: v, Stack: debug.Stack()})
			}
		}()
		v, err := f()
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(v)
	}()
	return p
}

// A PanicError rejects a [Go] promise whose function panicked.
type PanicError struct {
	Value any    // the value passed to panic
	Stack []byte // stack trace of the panicking goroutine
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("loopexec: background goroutine panicked: %v", e.Value)
}

// Unwrap returns the panic value if it is an error, enabling [errors.Is]
// and [errors.As] matching through it. Otherwise it returns nil.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
