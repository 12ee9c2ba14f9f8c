package loopexec

import (
	"bytes"
	"runtime"
	"strconv"
)

// goid returns the id of the calling goroutine.
//
// The runtime does not hand out goroutine ids, on purpose. This package
// still needs one: Go cannot express "this value must not be sent to
// another goroutine" in its type system, so the confinement of an
// [Executor] to its loop goroutine is checked at run time instead.
// The id is read from the header line of a stack trace, which reads
// "goroutine 123 [running]:".
func goid() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		panic("loopexec: cannot parse goroutine id: " + err.Error())
	}
	return id
}
