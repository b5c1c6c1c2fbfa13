package gpio

import (
	"log/slog"
	"sync"
)

// DefaultQueueSize bounds the number of presses held between loop iterations.
const DefaultQueueSize = 32

// EdgeQueue is a fixed-capacity FIFO of button presses. Producers are
// event handler goroutines; the control loop drains it once per iteration.
// When full, the oldest press is dropped.
type EdgeQueue struct {
	mu       sync.Mutex
	buf      []Button
	capacity int
	head     int // next write position
	count    int
	overflow bool // true if any press was dropped since last drain
}

// NewEdgeQueue creates a queue holding at most capacity presses.
func NewEdgeQueue(capacity int) *EdgeQueue {
	if capacity <= 0 {
		capacity = DefaultQueueSize
	}
	return &EdgeQueue{
		buf:      make([]Button, capacity),
		capacity: capacity,
	}
}

// Push appends a press.
func (q *EdgeQueue) Push(b Button) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == q.capacity {
		if !q.overflow {
			slog.Warn("button queue full, dropping oldest press", "capacity", q.capacity)
			q.overflow = true
		}
		// Overwrite oldest: head is already pointing at it
		q.buf[q.head] = b
		q.head = (q.head + 1) % q.capacity
		return
	}
	q.buf[q.head] = b
	q.head = (q.head + 1) % q.capacity
	q.count++
}

// Drain removes and returns all queued presses, oldest first.
// Returns nil when empty.
func (q *EdgeQueue) Drain() []Button {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return nil
	}

	result := make([]Button, q.count)
	// Oldest item is at (head - count) mod capacity
	start := (q.head - q.count + q.capacity) % q.capacity
	for i := 0; i < q.count; i++ {
		result[i] = q.buf[(start+i)%q.capacity]
	}

	q.count = 0
	q.head = 0
	q.overflow = false
	return result
}

// Len returns the number of queued presses.
func (q *EdgeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}
