package engine

import (
	"fmt"
	"sync"
	"testing"

	"pgregory.net/rapid"
)

func TestQueueFIFOSingleProducer(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 200).Draw(rt, "n")

		q := NewQueue()
		for i := 0; i < n; i++ {
			q.Push(DraftEvent{Text: fmt.Sprintf("d%d", i)})
		}

		got := q.Drain(0)
		if len(got) != n {
			rt.Fatalf("drained %d events, want %d", len(got), n)
		}
		for i, ev := range got {
			d, ok := ev.(DraftEvent)
			if !ok {
				rt.Fatalf("event %d: got %T, want DraftEvent", i, ev)
			}
			if want := fmt.Sprintf("d%d", i); d.Text != want {
				rt.Fatalf("event %d: got %q, want %q", i, d.Text, want)
			}
		}
		if q.Len() != 0 {
			rt.Fatalf("queue not empty after drain: %d left", q.Len())
		}
	})
}

func TestQueueDrainCap(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 200).Draw(rt, "n")
		max := rapid.IntRange(1, 100).Draw(rt, "max")

		q := NewQueue()
		for i := 0; i < n; i++ {
			q.Push(DraftEvent{Text: fmt.Sprintf("d%d", i)})
		}

		var got []Event
		for q.Len() > 0 {
			batch := q.Drain(max)
			if len(batch) > max {
				rt.Fatalf("batch of %d exceeds cap %d", len(batch), max)
			}
			got = append(got, batch...)
		}

		if len(got) != n {
			rt.Fatalf("drained %d events across batches, want %d", len(got), n)
		}
		for i, ev := range got {
			if want := fmt.Sprintf("d%d", i); ev.(DraftEvent).Text != want {
				rt.Fatalf("event %d: got %q, want %q", i, ev.(DraftEvent).Text, want)
			}
		}
	})
}

// Multiple producers push concurrently; per-producer order must survive
// in the drained stream even when batches interleave.
func TestQueuePerProducerOrderUnderConcurrency(t *testing.T) {
	const producers = 8
	const perProducer = 100

	q := NewQueue()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(DraftEvent{Text: fmt.Sprintf("%d:%d", p, i)})
			}
		}(p)
	}
	wg.Wait()

	got := q.Drain(0)
	if len(got) != producers*perProducer {
		t.Fatalf("drained %d events, want %d", len(got), producers*perProducer)
	}

	next := make([]int, producers)
	for _, ev := range got {
		var p, i int
		if _, err := fmt.Sscanf(ev.(DraftEvent).Text, "%d:%d", &p, &i); err != nil {
			t.Fatalf("bad event payload %q: %v", ev.(DraftEvent).Text, err)
		}
		if i != next[p] {
			t.Fatalf("producer %d: got seq %d, want %d", p, i, next[p])
		}
		next[p]++
	}
}

func TestQueueDrainEmpty(t *testing.T) {
	q := NewQueue()
	if got := q.Drain(50); len(got) != 0 {
		t.Fatalf("drain of empty queue returned %d events", len(got))
	}
}
