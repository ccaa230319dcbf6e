package matching

import (
	"testing"
	"time"

	"github.com/lyrastone-labs/matchcore/domain"
)

func testEngineConfig() EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.MaxTickers = 4
	cfg.InboundCapacity = 16
	cfg.ResponseCapacity = 16
	cfg.UpdateCapacity = 16
	cfg.BookConfig.MaxNumClients = 8
	cfg.BookConfig.MaxOrderIds = 1024
	cfg.BookConfig.MaxPriceLevels = 32
	cfg.BookConfig.OrderPoolCapacity = 64
	cfg.BookConfig.PriceLevelPoolCapacity = 32
	return cfg
}

func submit(e *Engine, req domain.MEClientRequest) {
	*e.Inbound().NextWrite() = req
	e.Inbound().AdvanceWrite()
}

func awaitResponse(t *testing.T, e *Engine) domain.MEClientResponse {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if slot := e.Responses().NextRead(); slot != nil {
			r := *slot
			e.Responses().AdvanceRead()
			return r
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for a response")
		default:
		}
	}
}

func TestEngineRegisterAndDispatchNewOrder(t *testing.T) {
	e := NewEngine(testEngineConfig(), nil)
	e.RegisterTicker(1)
	e.Start()
	defer e.Stop()

	submit(e, domain.MEClientRequest{
		Type: domain.ClientRequestNew, ClientId: 1, TickerId: 1,
		OrderId: 100, Side: domain.SideBuy, Price: 50, Qty: 10,
	})

	resp := awaitResponse(t, e)
	if resp.Type != domain.ClientResponseAccepted {
		t.Fatalf("expected ACCEPTED, got %+v", resp)
	}
}

func TestEngineDispatchCancel(t *testing.T) {
	e := NewEngine(testEngineConfig(), nil)
	e.RegisterTicker(1)
	e.Start()
	defer e.Stop()

	submit(e, domain.MEClientRequest{
		Type: domain.ClientRequestNew, ClientId: 1, TickerId: 1,
		OrderId: 100, Side: domain.SideBuy, Price: 50, Qty: 10,
	})
	awaitResponse(t, e) // ACCEPTED

	submit(e, domain.MEClientRequest{
		Type: domain.ClientRequestCancel, ClientId: 1, TickerId: 1, OrderId: 100,
	})
	resp := awaitResponse(t, e)
	if resp.Type != domain.ClientResponseCanceled {
		t.Fatalf("expected CANCELED, got %+v", resp)
	}
}

func TestEngineUnknownTickerFatal(t *testing.T) {
	e := NewEngine(testEngineConfig(), nil)
	e.RegisterTicker(1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic dispatching to an unregistered ticker")
		}
	}()
	e.dispatch(domain.MEClientRequest{
		Type: domain.ClientRequestNew, ClientId: 1, TickerId: 2,
		OrderId: 1, Side: domain.SideBuy, Price: 1, Qty: 1,
	})
}

func TestEngineLiveTickersReflectsRegistrations(t *testing.T) {
	e := NewEngine(testEngineConfig(), nil)
	e.RegisterTicker(1)
	e.RegisterTicker(2)

	tickers := e.LiveTickers()
	if len(tickers) != 2 {
		t.Fatalf("expected 2 live tickers, got %v", tickers)
	}
}

func TestEngineRegisterTickerTwicePanics(t *testing.T) {
	e := NewEngine(testEngineConfig(), nil)
	e.RegisterTicker(1)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic re-registering the same ticker")
		}
	}()
	e.RegisterTicker(1)
}
