package loopexec_test

import (
	"bytes"
	"runtime"
	"strconv"
	"testing"
	"time"
)

// testLoop is a stand-in for a GUI main loop: a dedicated goroutine serving
// a queue of callbacks. Schedule satisfies the Executor's host-loop
// contract (run once, soon, on the loop goroutine; callable from anywhere).
type testLoop struct {
	ch   chan func()
	done chan struct{}
}

func newTestLoop() *testLoop {
	return &testLoop{
		ch:   make(chan func(), 128),
		done: make(chan struct{}),
	}
}

func (l *testLoop) Schedule(f func()) {
	select {
	case l.ch <- f:
	case <-l.done:
	}
}

// Run serves callbacks on the calling goroutine until Stop.
func (l *testLoop) Run() {
	for {
		select {
		case f := <-l.ch:
			f()
		case <-l.done:
			return
		}
	}
}

func (l *testLoop) Stop() {
	close(l.done)
}

// do runs f on the loop goroutine and waits for it to return.
// Must not be called from the loop goroutine.
func (l *testLoop) do(t *testing.T, f func()) {
	t.Helper()
	done := make(chan struct{})
	l.Schedule(func() {
		defer close(done)
		f()
	})
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the test loop")
	}
}

// startTestLoop starts a loop goroutine and stops it when the test ends.
func startTestLoop(t *testing.T) *testLoop {
	t.Helper()
	l := newTestLoop()
	go l.Run()
	t.Cleanup(l.Stop)
	return l
}

// testGoID mirrors the package's owning-goroutine check, for asserting
// which goroutine a callback ran on.
func testGoID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		panic(err)
	}
	return id
}
