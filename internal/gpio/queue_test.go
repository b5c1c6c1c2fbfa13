package gpio

import (
	"sync"
	"testing"
)

func TestEdgeQueueEmptyDrain(t *testing.T) {
	q := NewEdgeQueue(10)
	if got := q.Drain(); got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}
}

func TestEdgeQueuePushAndDrain(t *testing.T) {
	q := NewEdgeQueue(10)
	q.Push(ButtonUp)
	q.Push(ButtonUp)
	q.Push(ButtonDown)

	got := q.Drain()
	want := []Button{ButtonUp, ButtonUp, ButtonDown}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	// Second drain should be empty
	if got2 := q.Drain(); got2 != nil {
		t.Errorf("expected nil from second drain, got %d items", len(got2))
	}
}

func TestEdgeQueueOverflowDropsOldest(t *testing.T) {
	q := NewEdgeQueue(3)

	// DOWN, DOWN, then three UPs: the two DOWNs are dropped
	q.Push(ButtonDown)
	q.Push(ButtonDown)
	q.Push(ButtonUp)
	q.Push(ButtonUp)
	q.Push(ButtonUp)

	got := q.Drain()
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	for i, b := range got {
		if b != ButtonUp {
			t.Errorf("item %d: expected UP, got %s", i, b)
		}
	}
}

func TestEdgeQueueOverflowKeepsOrder(t *testing.T) {
	q := NewEdgeQueue(3)
	seq := []Button{ButtonUp, ButtonDown, ButtonUp, ButtonDown, ButtonDown}
	for _, b := range seq {
		q.Push(b)
	}

	got := q.Drain()
	want := seq[2:]
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestEdgeQueueLen(t *testing.T) {
	q := NewEdgeQueue(10)
	if q.Len() != 0 {
		t.Errorf("expected len 0, got %d", q.Len())
	}

	q.Push(ButtonUp)
	q.Push(ButtonDown)
	if q.Len() != 2 {
		t.Errorf("expected len 2, got %d", q.Len())
	}

	q.Drain()
	if q.Len() != 0 {
		t.Errorf("expected len 0 after drain, got %d", q.Len())
	}
}

func TestEdgeQueueDefaultCapacity(t *testing.T) {
	q := NewEdgeQueue(0)
	for i := 0; i < DefaultQueueSize+5; i++ {
		q.Push(ButtonUp)
	}
	if q.Len() != DefaultQueueSize {
		t.Errorf("expected len %d, got %d", DefaultQueueSize, q.Len())
	}
}

func TestEdgeQueueConcurrentProducers(t *testing.T) {
	q := NewEdgeQueue(1000)
	var wg sync.WaitGroup

	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Push(ButtonUp)
			}
		}()
	}

	total := 0
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for {
		total += len(q.Drain())
		select {
		case <-done:
			total += len(q.Drain())
			if total != 400 {
				t.Errorf("expected 400 presses, got %d", total)
			}
			return
		default:
		}
	}
}

func TestButtonDelta(t *testing.T) {
	if ButtonUp.Delta() != 1 {
		t.Errorf("UP delta: got %d, want 1", ButtonUp.Delta())
	}
	if ButtonDown.Delta() != -1 {
		t.Errorf("DOWN delta: got %d, want -1", ButtonDown.Delta())
	}
	if Button(0).Delta() != 0 {
		t.Errorf("unknown delta: got %d, want 0", Button(0).Delta())
	}
}
