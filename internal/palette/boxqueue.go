package palette

import "github.com/emirpasic/gods/trees/binaryheap"

// boxQueue pops the box with the largest population first. Ties go to the
// box with the wider channel range, then to the box created earlier.
type boxQueue struct {
	heap *binaryheap.Heap
}

func newBoxQueue() *boxQueue {
	return &boxQueue{heap: binaryheap.NewWith(compareBoxPriority)}
}

func compareBoxPriority(a, b interface{}) int {
	left := a.(*colorBox)
	right := b.(*colorBox)

	switch {
	case left.population != right.population:
		if left.population > right.population {
			return -1
		}
		return 1
	case left.widestRange() != right.widestRange():
		if left.widestRange() > right.widestRange() {
			return -1
		}
		return 1
	case left.seq < right.seq:
		return -1
	case left.seq > right.seq:
		return 1
	default:
		return 0
	}
}

func (q *boxQueue) push(box *colorBox) {
	q.heap.Push(box)
}

func (q *boxQueue) pop() (*colorBox, bool) {
	value, ok := q.heap.Pop()
	if !ok {
		return nil, false
	}
	return value.(*colorBox), true
}

func (q *boxQueue) len() int {
	return q.heap.Size()
}

func (q *boxQueue) drain() []*colorBox {
	boxes := make([]*colorBox, 0, q.len())
	for {
		box, ok := q.pop()
		if !ok {
			return boxes
		}
		boxes = append(boxes, box)
	}
}
