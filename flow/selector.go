package flow

import (
	"container/heap"
	"fmt"
)

// Selector is the active-node set owned by an Engine. It holds regular nodes
// with positive excess; the engine never inserts a node that is already present.
//
// Push receives the node's height at insertion time. A node's height cannot
// change while it waits in the set (only the node being discharged is
// relabeled), so that key stays current until Pop.
type Selector interface {
	Push(v, height int)
	Pop() (v int, ok bool)
	Len() int
}

// NewSelector returns an empty Selector implementing p.
func NewSelector(p Policy) (Selector, error) {
	switch p {
	case FIFO:
		return &fifoQueue{}, nil
	case HighestLabel:
		return &labelHeap{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown selection policy %v", ErrInvalidInput, p)
	}
}

// fifoQueue is a ring buffer. It only grows when full, so its size tracks
// the peak number of queued nodes (at most n), not the number of pushes.
type fifoQueue struct {
	buf  []int
	head int
	size int
}

func (q *fifoQueue) Push(v, _ int) {
	if q.size == len(q.buf) {
		grown := make([]int, max(4, 2*len(q.buf)))
		n := copy(grown, q.buf[q.head:])
		copy(grown[n:], q.buf[:q.head])
		q.buf, q.head = grown, 0
	}
	q.buf[(q.head+q.size)%len(q.buf)] = v
	q.size++
}

func (q *fifoQueue) Pop() (int, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--

	return v, true
}

func (q *fifoQueue) Len() int { return q.size }

type labeled struct {
	node, height int
}

// labelHeap orders nodes on descending height, then ascending index.
type labelHeap struct {
	h labelSlice
}

func (lh *labelHeap) Push(v, height int) { heap.Push(&lh.h, labeled{node: v, height: height}) }

func (lh *labelHeap) Pop() (int, bool) {
	if len(lh.h) == 0 {
		return 0, false
	}

	return heap.Pop(&lh.h).(labeled).node, true
}

func (lh *labelHeap) Len() int { return len(lh.h) }

type labelSlice []labeled

func (s labelSlice) Len() int { return len(s) }
func (s labelSlice) Less(i, j int) bool {
	if s[i].height != s[j].height {
		return s[i].height > s[j].height
	}
	return s[i].node < s[j].node
}
func (s labelSlice) Swap(i, j int)       { s[i], s[j] = s[j], s[i] }
func (s *labelSlice) Push(x interface{}) { *s = append(*s, x.(labeled)) }
func (s *labelSlice) Pop() interface{} {
	old, l := *s, len(*s)
	x := old[l-1]
	*s = old[:l-1]
	return x
}
