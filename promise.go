package loopexec

import "sync"

// A Promise is a single-assignment result cell, for integrating
// callback-style code with [Future]-based code.
//
// A Promise starts out pending and settles exactly once, to either a value
// (via [Promise.Resolve]) or an error (via [Promise.Reject]). Whichever call
// comes first wins; later calls are no-ops. Settling is safe from any
// goroutine, which is what lets results computed on background goroutines
// re-enter code running on a GUI event loop.
//
// A Promise is a small value. Copying it yields another handle to the same
// underlying cell; copies may be handed to signal handlers, goroutines and
// futures freely. The zero Promise is not usable; call [NewPromise].
type Promise[T any] struct {
	s *promiseState[T]
}

type promiseState[T any] struct {
	mu     sync.Mutex
	done   bool
	value  T
	err    error
	wakers []Waker
}

// NewPromise creates a new pending promise.
func NewPromise[T any]() Promise[T] {
	return Promise[T]{s: new(promiseState[T])}
}

// Resolve settles p with v, if p is still pending, and wakes any task that
// polled p before it settled. Otherwise Resolve does nothing.
//
// Resolve is safe for concurrent use. Wakes are delivered on the calling
// goroutine, but a [Waker] only ever reschedules its task; it never runs it.
func (p Promise[T]) Resolve(v T) {
	s := p.s
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.value = v
	p.settle(s)
}

// Reject settles p with err, if p is still pending, and wakes any task that
// polled p before it settled. Otherwise Reject does nothing.
//
// Reject is safe for concurrent use.
func (p Promise[T]) Reject(err error) {
	s := p.s
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.err = err
	p.settle(s)
}

// settle wakes the registered wakers. Called with s.mu held; the wakers are
// taken out first and invoked after unlocking, in case one of them
// re-enters p.
func (p Promise[T]) settle(s *promiseState[T]) {
	wakers := s.wakers
	s.wakers = nil
	s.mu.Unlock()

	for _, w := range wakers {
		w.Wake()
	}
}

// Poll reports the outcome of p.
//
// While p is pending, Poll registers w to be woken when p settles, and
// reports ready false. Once p has settled, Poll returns the stored value or
// error, with ready true, forever.
//
// Without proper synchronization, one should only call this method from
// the goroutine that polls the enclosing task.
func (p Promise[T]) Poll(w Waker) (v T, err error, ready bool) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		s.wakers = append(s.wakers, w)
		return v, nil, false
	}
	return s.value, s.err, true
}

// Settled reports whether p has been resolved or rejected.
// It does not register a waker.
func (p Promise[T]) Settled() bool {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Await returns a [Future] that completes when p settles, calling f with
// the outcome. f runs on the goroutine that polls the future; for a future
// spawned on an [Executor], that is the loop goroutine.
//
// A nil f discards the outcome. f is called at most once, even if the
// returned future is spuriously polled again afterwards.
func (p Promise[T]) Await(f func(v T, err error)) FutureFunc {
	done := false
	return FutureFunc(func(w Waker) bool {
		if done {
			return true
		}
		v, err, ready := p.Poll(w)
		if !ready {
			return false
		}
		done = true
		if f != nil {
			f(v, err)
		}
		return true
	})
}
