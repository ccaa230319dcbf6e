package ring

import "testing"

func TestPublishConsumeOrder(t *testing.T) {
	q := New[int](8)

	for i := 0; i < 5; i++ {
		*q.NextWrite() = i
		q.AdvanceWrite()
	}
	if got := q.Size(); got != 5 {
		t.Fatalf("expected size 5, got %d", got)
	}

	for i := 0; i < 5; i++ {
		slot := q.NextRead()
		if slot == nil {
			t.Fatalf("expected element %d, got empty queue", i)
		}
		if *slot != i {
			t.Fatalf("expected %d, got %d", i, *slot)
		}
		q.AdvanceRead()
	}
	if q.NextRead() != nil {
		t.Fatal("expected empty queue after draining")
	}
}

func TestAdvanceReadOnEmptyPanics(t *testing.T) {
	q := New[int](4)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic advancing read on empty queue")
		}
	}()
	q.AdvanceRead()
}

func TestWrapsAroundCapacity(t *testing.T) {
	q := New[int](4)
	for round := 0; round < 3; round++ {
		for i := 0; i < 4; i++ {
			*q.NextWrite() = round*4 + i
			q.AdvanceWrite()
		}
		for i := 0; i < 4; i++ {
			want := round*4 + i
			got := *q.NextRead()
			if got != want {
				t.Fatalf("round %d: expected %d, got %d", round, want, got)
			}
			q.AdvanceRead()
		}
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	const n = 100000
	q := New[int](1024)
	done := make(chan struct{})

	go func() {
		for i := 0; i < n; i++ {
			// NextWrite does not check for a full queue; wait for room.
			for q.Size() == q.Cap() {
			}
			*q.NextWrite() = i
			q.AdvanceWrite()
		}
		close(done)
	}()

	for i := 0; i < n; i++ {
		var slot *int
		for {
			slot = q.NextRead()
			if slot != nil {
				break
			}
		}
		if *slot != i {
			t.Fatalf("expected %d, got %d", i, *slot)
		}
		q.AdvanceRead()
	}
	<-done
}
