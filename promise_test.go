package loopexec_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/b97tsk/loopexec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromiseResolve(t *testing.T) {
	p := loopexec.NewPromise[int]()

	require.False(t, p.Settled())

	p.Resolve(42)

	require.True(t, p.Settled())

	for n := 0; n < 3; n++ {
		v, err, ready := p.Poll(loopexec.Waker{})
		require.True(t, ready)
		require.NoError(t, err)
		require.Equal(t, 42, v)
	}
}

func TestPromiseReject(t *testing.T) {
	boom := errors.New("boom")

	p := loopexec.NewPromise[int]()
	p.Reject(boom)

	v, err, ready := p.Poll(loopexec.Waker{})
	require.True(t, ready)
	require.ErrorIs(t, err, boom)
	require.Zero(t, v)
}

func TestPromiseFirstSettlementWins(t *testing.T) {
	p := loopexec.NewPromise[string]()
	p.Resolve("first")
	p.Resolve("second")
	p.Reject(errors.New("too late"))

	v, err, ready := p.Poll(loopexec.Waker{})
	require.True(t, ready)
	require.NoError(t, err)
	require.Equal(t, "first", v)
}

func TestPromiseCopiesShareCell(t *testing.T) {
	p := loopexec.NewPromise[int]()
	q := p // another handle to the same cell

	q.Resolve(7)

	v, _, ready := p.Poll(loopexec.Waker{})
	require.True(t, ready)
	require.Equal(t, 7, v)
}

func TestPromiseConcurrentSettle(t *testing.T) {
	p := loopexec.NewPromise[int]()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				p.Resolve(i)
			} else {
				p.Reject(errors.New("loser"))
			}
		}()
	}
	wg.Wait()

	v1, err1, ready := p.Poll(loopexec.Waker{})
	require.True(t, ready)
	v2, err2, ready := p.Poll(loopexec.Waker{})
	require.True(t, ready)

	assert.Equal(t, v1, v2)
	assert.Equal(t, err1, err2)
}

func TestPromiseWakesPoller(t *testing.T) {
	loop := startTestLoop(t)

	var exec *loopexec.Executor
	loop.do(t, func() { exec = loopexec.New(loop.Schedule) })

	p := loopexec.NewPromise[int]()
	got := make(chan int, 1)

	loop.do(t, func() {
		exec.Spawn(p.Await(func(v int, err error) {
			require.NoError(t, err)
			got <- v
		}))
	})

	go p.Resolve(23)

	// The resolved value must arrive without the consumer busy-waiting:
	// the wake alone has to drive the task to completion.
	select {
	case v := <-got:
		require.Equal(t, 23, v)
	case <-time.After(5 * time.Second):
		t.Fatal("promise settlement never woke the awaiting task")
	}
}

func TestGo(t *testing.T) {
	p := loopexec.Go(func() (int, error) {
		return 1 + 1, nil
	})

	deadline := time.Now().Add(5 * time.Second)
	for !p.Settled() {
		if time.Now().After(deadline) {
			t.Fatal("background goroutine never settled the promise")
		}
		time.Sleep(time.Millisecond)
	}

	v, err, ready := p.Poll(loopexec.Waker{})
	require.True(t, ready)
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestGoPanic(t *testing.T) {
	boom := errors.New("boom")

	p := loopexec.Go(func() (int, error) {
		panic(boom)
	})

	got := make(chan error, 1)

	loop := startTestLoop(t)
	loop.do(t, func() {
		exec := loopexec.New(loop.Schedule)
		exec.Spawn(p.Await(func(_ int, err error) {
			got <- err
		}))
	})

	select {
	case err := <-got:
		var pe *loopexec.PanicError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, boom, pe.Value)
		require.NotEmpty(t, pe.Stack)
		require.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("rejection never arrived")
	}
}
