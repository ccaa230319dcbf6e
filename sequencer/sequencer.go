// Package sequencer implements the FIFO sequencer: it buffers the client
// requests a gateway read cycle collected, each tagged with the kernel
// receive timestamp its socket read returned, and publishes them to the
// matcher in receive-time order.
package sequencer

import (
	"sort"

	"github.com/lyrastone-labs/matchcore/domain"
	"github.com/lyrastone-labs/matchcore/logger"
	"github.com/lyrastone-labs/matchcore/ring"
)

// PendingRequest pairs a decoded request with the kernel receive
// timestamp (nanoseconds since epoch) its socket read returned.
type PendingRequest struct {
	RxTime  int64
	Request domain.MEClientRequest
}

// Sequencer accumulates PendingRequests across one read cycle — possibly
// spanning several client sockets — and publishes them to the matcher's
// inbound queue in a single stable-sorted batch, oldest receive time
// first. It is not safe for concurrent use; one gateway read cycle
// drives it from one goroutine.
type Sequencer struct {
	pending  []PendingRequest
	capacity int
	inbound  *ring.Queue[domain.MEClientRequest]
	log      *logger.Logger
}

// New constructs a Sequencer that publishes onto inbound, buffering up to
// capacity pending requests between calls to SequenceAndPublish.
func New(capacity int, inbound *ring.Queue[domain.MEClientRequest], log *logger.Logger) *Sequencer {
	return &Sequencer{
		pending:  make([]PendingRequest, 0, capacity),
		capacity: capacity,
		inbound:  inbound,
		log:      log,
	}
}

// Add buffers req with its receive timestamp. Exceeding the configured
// capacity before the next SequenceAndPublish is fatal: it means a read
// cycle produced more requests than the deployment was sized for.
func (s *Sequencer) Add(rxTime int64, req domain.MEClientRequest) {
	if len(s.pending) >= s.capacity {
		logger.Fatal(s.log, "sequencer: pending buffer exhausted at capacity %\n", s.capacity)
	}
	s.pending = append(s.pending, PendingRequest{RxTime: rxTime, Request: req})
}

// Pending returns the number of requests buffered since the last
// SequenceAndPublish.
func (s *Sequencer) Pending() int { return len(s.pending) }

// SequenceAndPublish stable-sorts the buffered requests by receive
// timestamp, pushes each in that order onto the matcher's inbound queue,
// and clears the buffer. Requests that arrived with the same timestamp
// keep the relative order Add saw them in (stable sort), which is also
// socket read order within one cycle.
func (s *Sequencer) SequenceAndPublish() {
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].RxTime < s.pending[j].RxTime
	})
	for _, p := range s.pending {
		*s.inbound.NextWrite() = p.Request
		s.inbound.AdvanceWrite()
	}
	if s.log != nil && len(s.pending) > 0 {
		s.log.Log("sequencer: published % requests\n", len(s.pending))
	}
	s.pending = s.pending[:0]
}
