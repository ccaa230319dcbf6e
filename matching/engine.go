// Package matching implements the matcher: the single-goroutine
// dispatcher that owns every instrument's order book and turns inbound
// client requests into client responses and market updates.
package matching

import (
	"github.com/emirpasic/gods/v2/sets/hashset"

	"github.com/lyrastone-labs/matchcore/domain"
	"github.com/lyrastone-labs/matchcore/logger"
	"github.com/lyrastone-labs/matchcore/orderbook"
	"github.com/lyrastone-labs/matchcore/ring"
)

const (
	defaultInboundCapacity  = 1 << 16
	defaultResponseCapacity = 1 << 16
	defaultUpdateCapacity   = 1 << 16
)

// EngineConfig sizes the matcher's tables and queues.
type EngineConfig struct {
	MaxTickers       int
	InboundCapacity  int
	ResponseCapacity int
	UpdateCapacity   int
	BookConfig       orderbook.Config
}

// DefaultEngineConfig returns sensible defaults for a single test process.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxTickers:       orderbook.DefaultMaxTickers,
		InboundCapacity:  defaultInboundCapacity,
		ResponseCapacity: defaultResponseCapacity,
		UpdateCapacity:   defaultUpdateCapacity,
		BookConfig:       orderbook.DefaultConfig(),
	}
}

// Engine is the matcher: it owns one Book per registered ticker and
// drains a single inbound queue of requests on one dedicated goroutine,
// fanning responses and updates out to two more queues. Exactly one
// goroutine ever touches a Book's methods, satisfying each Book's
// single-writer requirement.
type Engine struct {
	cfg EngineConfig
	log *logger.Logger

	books       []*orderbook.Book
	liveTickers *hashset.Set[domain.TickerId]

	inbound   *ring.Queue[domain.MEClientRequest]
	responses *ring.Queue[domain.MEClientResponse]
	updates   *ring.Queue[domain.MEMarketUpdate]

	worker *worker
}

// NewEngine constructs a matcher with no tickers registered yet. Call
// RegisterTicker for each instrument before Start.
func NewEngine(cfg EngineConfig, log *logger.Logger) *Engine {
	return &Engine{
		cfg:         cfg,
		log:         log,
		books:       make([]*orderbook.Book, cfg.MaxTickers),
		liveTickers: hashset.New[domain.TickerId](),
		inbound:     ring.New[domain.MEClientRequest](cfg.InboundCapacity),
		responses:   ring.New[domain.MEClientResponse](cfg.ResponseCapacity),
		updates:     ring.New[domain.MEMarketUpdate](cfg.UpdateCapacity),
	}
}

// RegisterTicker creates a book for tickerId. It must be called before
// Start and must not be called twice for the same ticker.
func (e *Engine) RegisterTicker(tickerId domain.TickerId) {
	if int(tickerId) >= len(e.books) {
		logger.Fatal(e.log, "matching: ticker % exceeds configured MaxTickers %\n", tickerId, len(e.books))
	}
	if e.books[tickerId] != nil {
		logger.Fatal(e.log, "matching: ticker % registered twice\n", tickerId)
	}
	e.books[tickerId] = orderbook.NewBook(tickerId, e.cfg.BookConfig, e.log,
		func(r domain.MEClientResponse) { e.publishResponse(r) },
		func(u domain.MEMarketUpdate) { e.publishUpdate(u) },
	)
	e.liveTickers.Add(tickerId)
}

// LiveTickers returns the set of currently registered ticker ids.
func (e *Engine) LiveTickers() []domain.TickerId { return e.liveTickers.Values() }

// Inbound returns the queue a sequencer writes sequenced requests onto.
// The engine's dispatch goroutine is its sole consumer.
func (e *Engine) Inbound() *ring.Queue[domain.MEClientRequest] { return e.inbound }

// Responses returns the queue of private client responses. The gateway's
// outbound relay is its sole consumer.
func (e *Engine) Responses() *ring.Queue[domain.MEClientResponse] { return e.responses }

// Updates returns the queue of public market updates. A market data
// publisher is its sole consumer.
func (e *Engine) Updates() *ring.Queue[domain.MEMarketUpdate] { return e.updates }

func (e *Engine) publishResponse(r domain.MEClientResponse) {
	*e.responses.NextWrite() = r
	e.responses.AdvanceWrite()
}

func (e *Engine) publishUpdate(u domain.MEMarketUpdate) {
	*e.updates.NextWrite() = u
	e.updates.AdvanceWrite()
}

// Start launches the dispatch goroutine. Calling Start twice is a
// programmer error.
func (e *Engine) Start() {
	if e.worker != nil {
		logger.Fatal(e.log, "matching: engine already started\n")
	}
	e.worker = startWorker("matcher", e.log, e.dispatchLoop)
}

// Stop signals the dispatch goroutine to exit after its current request
// and waits for it to do so.
func (e *Engine) Stop() {
	if e.worker == nil {
		return
	}
	e.worker.Stop()
	e.worker = nil
}

func (e *Engine) dispatchLoop(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		req := e.inbound.NextRead()
		if req == nil {
			continue
		}
		e.dispatch(*req)
		e.inbound.AdvanceRead()
	}
}

func (e *Engine) dispatch(req domain.MEClientRequest) {
	if int(req.TickerId) >= len(e.books) || e.books[req.TickerId] == nil {
		logger.Fatal(e.log, "matching: request for unknown ticker %\n", req.TickerId)
	}
	book := e.books[req.TickerId]
	switch req.Type {
	case domain.ClientRequestNew:
		book.Add(req.ClientId, req.OrderId, req.TickerId, req.Side, req.Price, req.Qty)
	case domain.ClientRequestCancel:
		book.Cancel(req.ClientId, req.OrderId, req.TickerId)
	default:
		logger.Fatal(e.log, "matching: request with invalid type %\n", int(req.Type))
	}
}
