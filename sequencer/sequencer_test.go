package sequencer

import (
	"testing"

	"github.com/lyrastone-labs/matchcore/domain"
	"github.com/lyrastone-labs/matchcore/ring"
)

func TestSequenceAndPublishOrdersByRxTime(t *testing.T) {
	inbound := ring.New[domain.MEClientRequest](8)
	s := New(8, inbound, nil)

	s.Add(300, domain.MEClientRequest{OrderId: 3})
	s.Add(100, domain.MEClientRequest{OrderId: 1})
	s.Add(200, domain.MEClientRequest{OrderId: 2})

	s.SequenceAndPublish()

	var got []domain.OrderId
	for {
		slot := inbound.NextRead()
		if slot == nil {
			break
		}
		got = append(got, slot.OrderId)
		inbound.AdvanceRead()
	}
	want := []domain.OrderId{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSequenceAndPublishClearsBuffer(t *testing.T) {
	inbound := ring.New[domain.MEClientRequest](8)
	s := New(8, inbound, nil)

	s.Add(1, domain.MEClientRequest{OrderId: 1})
	s.SequenceAndPublish()
	if s.Pending() != 0 {
		t.Fatalf("expected buffer cleared, got %d pending", s.Pending())
	}
}

func TestSameTimestampKeepsArrivalOrder(t *testing.T) {
	inbound := ring.New[domain.MEClientRequest](8)
	s := New(8, inbound, nil)

	s.Add(100, domain.MEClientRequest{OrderId: 1})
	s.Add(100, domain.MEClientRequest{OrderId: 2})
	s.Add(100, domain.MEClientRequest{OrderId: 3})
	s.SequenceAndPublish()

	want := []domain.OrderId{1, 2, 3}
	for _, w := range want {
		slot := inbound.NextRead()
		if slot == nil || slot.OrderId != w {
			t.Fatalf("expected order_id %d next, got %+v", w, slot)
		}
		inbound.AdvanceRead()
	}
}

func TestAddBeyondCapacityPanics(t *testing.T) {
	inbound := ring.New[domain.MEClientRequest](4)
	s := New(2, inbound, nil)
	s.Add(1, domain.MEClientRequest{})
	s.Add(2, domain.MEClientRequest{})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on third Add beyond capacity 2")
		}
	}()
	s.Add(3, domain.MEClientRequest{})
}
