package loopexec

import "slices"

// A Future is an asynchronous computation, advanced incrementally by
// polling.
//
// Poll does a bounded amount of work and reports whether the computation has
// completed. A computation that has not completed must arrange, before
// returning, for w to be woken when it can make progress again, typically by
// passing w along to whatever it awaits (a [Promise], an inner Future).
//
// Poll must tolerate spurious calls: being polled again while still unable
// to make progress, or after having reported completion, must be harmless.
type Future interface {
	Poll(w Waker) (done bool)
}

// A FutureFunc is a func that implements the [Future] interface.
type FutureFunc func(w Waker) bool

// Poll implements the [Future] interface.
func (f FutureFunc) Poll(w Waker) bool { return f(w) }

// Do returns a [Future] that calls f once, and then completes.
func Do(f func()) FutureFunc {
	return FutureFunc(func(Waker) bool {
		f()
		return true
	})
}

// Then returns a [Future] that completes f, and then next.
//
// To chain more than two futures, use [Block].
func (f FutureFunc) Then(next Future) FutureFunc {
	return Block(f, next)
}

// Block returns a [Future] that runs each of the given futures in sequence.
// When one future completes, Block moves on to the next.
func Block(s ...Future) FutureFunc {
	s = slices.Clone(s)
	return FutureFunc(func(w Waker) bool {
		for len(s) != 0 {
			if !s[0].Poll(w) {
				return false
			}
			s[0] = nil
			s = s[1:]
		}
		return true
	})
}

// Join returns a [Future] that completes once all of the given futures have
// completed. The futures make progress within the same task; they are not
// polled concurrently.
//
// When passed no arguments, Join returns a [Future] that completes
// immediately.
func Join(s ...Future) FutureFunc {
	s = slices.Clone(s)
	return FutureFunc(func(w Waker) bool {
		done := true
		for i, f := range s {
			if f == nil {
				continue
			}
			if !f.Poll(w) {
				done = false
				continue
			}
			s[i] = nil
		}
		return done
	})
}
