package loopexec

// A queue is a FIFO queue backed by a single slice with a moving front
// index. Popped slots are zeroed so that popped elements do not linger for
// the garbage collector, and the slice is compacted once the dead prefix
// outgrows the live part.
type queue[E any] struct {
	s    []E
	next int // index of the front element
}

func (q *queue[E]) Empty() bool {
	return q.next == len(q.s)
}

func (q *queue[E]) Len() int {
	return len(q.s) - q.next
}

func (q *queue[E]) Push(v E) {
	if q.next > 32 && q.next > len(q.s)-q.next {
		n := copy(q.s, q.s[q.next:])
		clear(q.s[n:])
		q.s = q.s[:n]
		q.next = 0
	}
	q.s = append(q.s, v)
}

func (q *queue[E]) Pop() (v E) {
	q.s[q.next], v = v, q.s[q.next]
	q.next++
	if q.next == len(q.s) {
		q.s = q.s[:0]
		q.next = 0
	}
	return v
}

func (q *queue[E]) Clear() {
	clear(q.s)
	q.s = q.s[:0]
	q.next = 0
}
