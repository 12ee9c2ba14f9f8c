package loopexec

import (
	"runtime/debug"
	"sync"

	"github.com/joeycumines/logiface"
)

// An Executor is a [Future] spawner, pinned to the goroutine that runs a
// host event loop.
//
// An Executor does not run a loop of its own. It is created with a schedule
// function, the one integration point it needs from the host: schedule must
// arrange for the given callback to be invoked once, soon, on the loop
// goroutine (glib's idle_add, a next-tick registration, or similar), and
// must itself be safe to call from any goroutine. Within such a callback
// the Executor drains its ready queue, polling each ready task exactly once.
//
// Tasks that report completion are dropped. Tasks that do not are left
// suspended until their [Waker] fires; the wake re-enqueues the task and
// arranges another callback if none is pending, so a task that wakes itself
// immediately is polled again in a later callback, never recursively within
// the same one. Each drain polls only the tasks that were ready when the
// callback began (optionally fewer, see [WithDrainLimit]), so a busy
// executor cannot starve the host loop's other work.
//
// Tasks are drained in the order they became ready. No ordering is promised
// across independently woken tasks; what is guaranteed is that no two tasks
// are ever polled concurrently.
//
// An Executor must only be used on the goroutine that created it. Share it
// within that goroutine by copying the pointer; never hand it to another
// goroutine. Every method checks this and panics on violation. The two ways
// other goroutines feed work back into an Executor are settling a [Promise]
// and calling [Waker.Wake], both of which only reschedule.
type Executor struct {
	mu        sync.Mutex
	tasks     map[uint64]*task
	ready     queue[uint64]
	nextID    uint64
	scheduled bool
	closed    bool

	// Set once by New.
	schedule   func(func())
	owner      uint64
	drainLimit int
	logger     *logiface.Logger[logiface.Event]
}

type task struct {
	fut    Future
	queued bool
}

// A Waker resumes one spawned task. Futures receive a Waker when polled and
// pass it along to whatever they await; whoever holds it calls Wake when
// the awaited condition may be satisfied.
//
// A Waker is safe for use by any goroutine. The zero Waker is valid and
// wakes nothing.
type Waker struct {
	e  *Executor
	id uint64
}

// Wake reschedules the task that w belongs to for another poll on the loop
// goroutine. It never runs the task in place, which is what keeps
// background-triggered wakes from touching loop-owned state off-thread.
//
// Waking an already rescheduled task, or one that has since completed, is
// a no-op.
func (w Waker) Wake() {
	e := w.e
	if e == nil {
		return
	}

	e.mu.Lock()
	t, ok := e.tasks[w.id]
	if !ok || t.queued {
		e.mu.Unlock()
		if !ok {
			e.logger.Debug().Uint64("task", w.id).Log("wake for unknown task ignored")
		}
		return
	}
	t.queued = true
	e.ready.Push(w.id)
	sched := !e.scheduled
	e.scheduled = true
	e.mu.Unlock()

	if sched {
		e.schedule(e.drain)
	}
}

// New creates an [Executor] bound to the calling goroutine, which must be
// the goroutine that runs the host event loop.
//
// schedule is the host-loop integration point; see [Executor]. New panics
// if schedule is nil.
func New(schedule func(callback func()), opts ...Option) *Executor {
	if schedule == nil {
		panic("loopexec: New called with nil schedule function")
	}
	cfg := resolveOptions(opts)
	return &Executor{
		tasks:      make(map[uint64]*task),
		schedule:   schedule,
		owner:      goid(),
		drainLimit: cfg.drainLimit,
		logger:     cfg.logger,
	}
}

// Spawn enqueues f to be run on the loop goroutine. It returns immediately;
// f is first polled from within a later host-loop callback, never
// synchronously.
//
// Spawn is fire-and-forget: there is no handle to the spawned task, and no
// error to surface. Spawning on a closed Executor quietly drops f.
//
// Spawn must be called on the loop goroutine; it panics otherwise. Spawn
// panics if f is nil.
func (e *Executor) Spawn(f Future) {
	e.mustBeOnLoop("Spawn")
	if f == nil {
		panic("loopexec: Spawn called with nil Future")
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		e.logger.Debug().Log("spawn on closed executor ignored")
		return
	}
	id := e.nextID
	e.nextID++
	e.tasks[id] = &task{fut: f, queued: true}
	e.ready.Push(id)
	sched := !e.scheduled
	e.scheduled = true
	e.mu.Unlock()

	if sched {
		e.schedule(e.drain)
	}
}

// Close tears the Executor down. The ready queue is cleared and all pending
// tasks are dropped without being polled again. Later spawns, wakes and
// already-scheduled callbacks become no-ops. Close is idempotent.
//
// Close must be called on the loop goroutine; it panics otherwise.
func (e *Executor) Close() {
	e.mustBeOnLoop("Close")

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	dropped := len(e.tasks)
	clear(e.tasks)
	e.ready.Clear()
	e.mu.Unlock()

	if dropped != 0 {
		e.logger.Debug().Int("tasks", dropped).Log("executor closed with pending tasks")
	}
}

// drain is the callback handed to the host loop. It polls each task that
// was ready on entry once, in ready order. Tasks woken while draining,
// including self-waking ones, are left for the next callback.
func (e *Executor) drain() {
	if goid() != e.owner {
		panic("loopexec: schedule ran the drain callback off the loop goroutine")
	}

	e.mu.Lock()
	e.scheduled = false
	n := e.ready.Len()
	if e.drainLimit > 0 && n > e.drainLimit {
		n = e.drainLimit
	}
	for ; n > 0 && !e.ready.Empty() && !e.closed; n-- {
		id := e.ready.Pop()
		t := e.tasks[id]
		if t == nil {
			// The task was woken while completing; the wake enqueued
			// this id a second time before the task left the map.
			continue
		}
		t.queued = false
		e.mu.Unlock()
		done := e.poll(id, t.fut)
		e.mu.Lock()
		if done && !e.closed {
			delete(e.tasks, id)
		}
	}
	sched := !e.ready.Empty() && !e.scheduled && !e.closed
	if sched {
		e.scheduled = true
	}
	e.mu.Unlock()

	if sched {
		e.schedule(e.drain)
	}
}

// poll runs one poll of one task, isolating panics: a panicking future is
// reported and dropped, and neither the executor nor the host loop unwinds.
func (e *Executor) poll(id uint64, f Future) (done bool) {
	defer func() {
		if v := recover(); v != nil {
			done = true
			e.logger.Err().
				Uint64("task", id).
				Any("value", v).
				Str("stack", string(debug.Stack())).
				Log("spawned future panicked; task dropped")
		}
	}()
	return f.Poll(Waker{e: e, id: id})
}

func (e *Executor) mustBeOnLoop(op string) {
	if goid() != e.owner {
		panic("loopexec: Executor." + op + " called off the loop goroutine")
	}
}
