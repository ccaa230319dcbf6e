// Package orderbook implements the per-instrument, price-time-priority
// limit order book. One Book serves exactly one ticker and is touched by
// exactly one goroutine, the matcher that owns it.
package orderbook

import (
	"github.com/lyrastone-labs/matchcore/domain"
	"github.com/lyrastone-labs/matchcore/logger"
	"github.com/lyrastone-labs/matchcore/pool"
)

// ClientResponseSink receives every private client response a book
// produces. MarketUpdateSink receives every public market update. The
// matching engine wires these to its outbound SPSC queues; a book never
// touches a queue directly.
type ClientResponseSink func(domain.MEClientResponse)
type MarketUpdateSink func(domain.MEMarketUpdate)

// Book is one instrument's limit order book.
type Book struct {
	tickerId domain.TickerId
	cfg      Config
	log      *logger.Logger

	bidsByPrice *PriceLevel // head = highest price
	asksByPrice *PriceLevel // head = lowest price

	priceTable []*PriceLevel // price mod cfg.MaxPriceLevels -> level

	cidOidToOrder [][]*Order // [client_id][client_order_id] -> order

	nextMarketOrderId domain.OrderId

	orderPool *pool.Pool[Order]
	levelPool *pool.Pool[PriceLevel]

	onResponse ClientResponseSink
	onUpdate   MarketUpdateSink
}

// NewBook constructs an empty book for tickerId. onResponse/onUpdate must
// be non-nil; log may be nil to disable tracing.
func NewBook(tickerId domain.TickerId, cfg Config, log *logger.Logger, onResponse ClientResponseSink, onUpdate MarketUpdateSink) *Book {
	if onResponse == nil || onUpdate == nil {
		panic("orderbook: onResponse and onUpdate sinks are required")
	}
	cidTable := make([][]*Order, cfg.MaxNumClients)
	for i := range cidTable {
		cidTable[i] = make([]*Order, cfg.MaxOrderIds)
	}
	return &Book{
		tickerId:          tickerId,
		cfg:               cfg,
		log:               log,
		priceTable:        make([]*PriceLevel, cfg.MaxPriceLevels),
		cidOidToOrder:     cidTable,
		nextMarketOrderId: 1,
		orderPool:         pool.New[Order](cfg.OrderPoolCapacity),
		levelPool:         pool.New[PriceLevel](cfg.PriceLevelPoolCapacity),
		onResponse:        onResponse,
		onUpdate:          onUpdate,
	}
}

func (b *Book) logf(format string, args ...any) {
	if b.log != nil {
		b.log.Log(format, args...)
	}
}

func (b *Book) priceIndex(price domain.Price) int {
	n := int64(b.cfg.MaxPriceLevels)
	idx := price % n
	if idx < 0 {
		idx += n
	}
	return int(idx)
}

// Add processes a new limit order: it validates, assigns a market order
// id, emits ACCEPTED, aggresses against the opposite side, and — if
// quantity remains — rests the residual at price-time priority.
func (b *Book) Add(clientId domain.ClientId, clientOrderId domain.OrderId, tickerId domain.TickerId, side domain.Side, price domain.Price, qty domain.Qty) {
	if tickerId != b.tickerId {
		logger.Fatal(b.log, "orderbook: Add for ticker % routed to book for ticker %\n", tickerId, b.tickerId)
	}
	if !side.Valid() {
		logger.Fatal(b.log, "orderbook: Add with invalid side %\n", int8(side))
	}
	if qty == 0 || qty == domain.QtyInvalid {
		logger.Fatal(b.log, "orderbook: Add with invalid qty %\n", qty)
	}
	if price == domain.PriceInvalid {
		logger.Fatal(b.log, "orderbook: Add with sentinel price\n")
	}
	if int(clientId) >= b.cfg.MaxNumClients {
		logger.Fatal(b.log, "orderbook: Add with out-of-range client_id %\n", clientId)
	}
	if int(clientOrderId) >= b.cfg.MaxOrderIds {
		logger.Fatal(b.log, "orderbook: Add with out-of-range client_order_id %\n", clientOrderId)
	}

	marketOrderId := b.nextMarketOrderId
	b.nextMarketOrderId++

	b.logf("Add client:% coid:% ticker:% side:% price:% qty:% -> market_order_id:%\n",
		clientId, clientOrderId, tickerId, side.String(), price, qty, marketOrderId)

	b.onResponse(domain.MEClientResponse{
		Type:          domain.ClientResponseAccepted,
		ClientId:      clientId,
		TickerId:      tickerId,
		ClientOrderId: clientOrderId,
		MarketOrderId: marketOrderId,
		Side:          side,
		Price:         price,
		ExecQty:       0,
		LeavesQty:     qty,
	})

	leavesQty := b.checkForMatch(clientId, clientOrderId, marketOrderId, tickerId, side, price, qty)
	if leavesQty == 0 {
		return
	}

	priority := b.nextPriority(side, price)
	level := b.getOrCreateLevel(side, price)
	o := b.orderPool.Allocate(Order{
		TickerId:      tickerId,
		ClientId:      clientId,
		ClientOrderId: clientOrderId,
		MarketOrderId: marketOrderId,
		Side:          side,
		Price:         price,
		Qty:           leavesQty,
		Priority:      priority,
	})
	o.level = level
	pushBack(&level.FirstOrder, o)
	b.cidOidToOrder[clientId][clientOrderId] = o

	b.onUpdate(domain.MEMarketUpdate{
		Type:     domain.MarketUpdateAdd,
		OrderId:  marketOrderId,
		TickerId: tickerId,
		Side:     side,
		Price:    price,
		Qty:      leavesQty,
		Priority: priority,
	})
}

// Cancel removes a resting order identified by the (client_id, order_id)
// pair. Unknown/foreign orders are a soft reject: a CANCEL_REJECTED
// response, no market update, no panic.
func (b *Book) Cancel(clientId domain.ClientId, orderId domain.OrderId, tickerId domain.TickerId) {
	o := b.lookupOrder(clientId, orderId)
	if o == nil {
		b.logf("Cancel rejected, unknown order client:% order:%\n", clientId, orderId)
		b.onResponse(domain.MEClientResponse{
			Type:          domain.ClientResponseCancelRejected,
			ClientId:      clientId,
			TickerId:      tickerId,
			ClientOrderId: orderId,
			MarketOrderId: domain.OrderIdInvalid,
			Side:          domain.SideInvalid,
			Price:         domain.PriceInvalid,
			ExecQty:       domain.QtyInvalid,
			LeavesQty:     domain.QtyInvalid,
		})
		return
	}

	b.logf("Cancel client:% order:% market_order_id:%\n", clientId, orderId, o.MarketOrderId)

	b.onResponse(domain.MEClientResponse{
		Type:          domain.ClientResponseCanceled,
		ClientId:      clientId,
		TickerId:      tickerId,
		ClientOrderId: orderId,
		MarketOrderId: o.MarketOrderId,
		Side:          o.Side,
		Price:         o.Price,
		ExecQty:       0,
		LeavesQty:     o.Qty,
	})
	b.onUpdate(domain.MEMarketUpdate{
		Type:     domain.MarketUpdateCancel,
		OrderId:  o.MarketOrderId,
		TickerId: tickerId,
		Side:     o.Side,
		Price:    o.Price,
		Qty:      o.Qty,
		Priority: o.Priority,
	})
	b.removeOrder(o)
}

func (b *Book) lookupOrder(clientId domain.ClientId, orderId domain.OrderId) *Order {
	if int(clientId) >= b.cfg.MaxNumClients || int(orderId) >= b.cfg.MaxOrderIds {
		return nil
	}
	return b.cidOidToOrder[clientId][orderId]
}

// nextPriority returns the priority a new order at (side, price) would
// receive: 1 if no level exists yet, else the current tail's priority+1.
// Must not dereference a level or head that doesn't exist yet.
func (b *Book) nextPriority(side domain.Side, price domain.Price) domain.Priority {
	idx := b.priceIndex(price)
	level := b.priceTable[idx]
	if level == nil || level.Side != side || level.Price != price || level.FirstOrder == nil {
		return 1
	}
	tail := level.FirstOrder.Prev
	return tail.Priority + 1
}

func (b *Book) getOrCreateLevel(side domain.Side, price domain.Price) *PriceLevel {
	idx := b.priceIndex(price)
	if level := b.priceTable[idx]; level != nil && level.Side == side && level.Price == price {
		return level
	}
	level := b.levelPool.Allocate(PriceLevel{Side: side, Price: price})
	b.priceTable[idx] = level
	if side == domain.SideBuy {
		insertLevel(&b.bidsByPrice, level)
	} else {
		insertLevel(&b.asksByPrice, level)
	}
	return level
}

func (b *Book) destroyLevel(level *PriceLevel) {
	idx := b.priceIndex(level.Price)
	b.priceTable[idx] = nil
	if level.Side == domain.SideBuy {
		removeLevel(&b.bidsByPrice, level)
	} else {
		removeLevel(&b.asksByPrice, level)
	}
	b.levelPool.Deallocate(level)
}

// removeOrder unlinks o from its level and pool, destroying the level too
// if o was its last order, and clears the (client_id, client_order_id)
// lookup entry. Used by both Cancel and a fully-filled resting order.
func (b *Book) removeOrder(o *Order) {
	level := o.level
	emptied := unlink(&level.FirstOrder, o)
	b.cidOidToOrder[o.ClientId][o.ClientOrderId] = nil
	o.level = nil
	b.orderPool.Deallocate(o)
	if emptied {
		b.destroyLevel(level)
	}
}

// checkForMatch aggresses the incoming (side, price, qty) against the
// opposite side of the book at price-time priority, emitting FILLED
// responses, TRADE updates, and CANCEL/MODIFY updates for resting orders
// as they are consumed. It returns the incoming order's residual
// quantity.
func (b *Book) checkForMatch(clientId domain.ClientId, clientOrderId, aggressorMarketOrderId domain.OrderId, tickerId domain.TickerId, side domain.Side, price domain.Price, qty domain.Qty) domain.Qty {
	leaves := qty
	var oppositeHead **PriceLevel
	if side == domain.SideBuy {
		oppositeHead = &b.asksByPrice
	} else {
		oppositeHead = &b.bidsByPrice
	}

	for leaves > 0 {
		level := *oppositeHead
		if level == nil {
			break
		}
		if side == domain.SideBuy {
			if price < level.Price {
				break
			}
		} else {
			if price > level.Price {
				break
			}
		}

		for leaves > 0 && level.FirstOrder != nil {
			resting := level.FirstOrder
			fillQty := leaves
			if resting.Qty < fillQty {
				fillQty = resting.Qty
			}
			leaves -= fillQty
			resting.Qty -= fillQty

			b.onResponse(domain.MEClientResponse{
				Type:          domain.ClientResponseFilled,
				ClientId:      clientId,
				TickerId:      tickerId,
				ClientOrderId: clientOrderId,
				MarketOrderId: aggressorMarketOrderId,
				Side:          side,
				Price:         level.Price,
				ExecQty:       fillQty,
				LeavesQty:     leaves,
			})
			b.onResponse(domain.MEClientResponse{
				Type:          domain.ClientResponseFilled,
				ClientId:      resting.ClientId,
				TickerId:      tickerId,
				ClientOrderId: resting.ClientOrderId,
				MarketOrderId: resting.MarketOrderId,
				Side:          resting.Side,
				Price:         level.Price,
				ExecQty:       fillQty,
				LeavesQty:     resting.Qty,
			})
			b.onUpdate(domain.MEMarketUpdate{
				Type:     domain.MarketUpdateTrade,
				OrderId:  domain.OrderIdInvalid,
				TickerId: tickerId,
				Side:     side,
				Price:    level.Price,
				Qty:      fillQty,
				Priority: domain.PriorityInvalid,
			})

			if resting.Qty == 0 {
				b.onUpdate(domain.MEMarketUpdate{
					Type:     domain.MarketUpdateCancel,
					OrderId:  resting.MarketOrderId,
					TickerId: tickerId,
					Side:     resting.Side,
					Price:    resting.Price,
					Qty:      0,
					Priority: resting.Priority,
				})
				b.removeOrder(resting)
				// level's storage may have returned to the pool; stop
				// consuming it and let the outer loop re-read the head.
				break
			}

			b.onUpdate(domain.MEMarketUpdate{
				Type:     domain.MarketUpdateModify,
				OrderId:  resting.MarketOrderId,
				TickerId: tickerId,
				Side:     resting.Side,
				Price:    resting.Price,
				Qty:      resting.Qty,
				Priority: resting.Priority,
			})
		}
	}
	return leaves
}

// BestBid returns the highest resting bid price and true, or (0, false)
// if there are no resting bids.
func (b *Book) BestBid() (domain.Price, bool) {
	if b.bidsByPrice == nil {
		return 0, false
	}
	return b.bidsByPrice.Price, true
}

// BestAsk returns the lowest resting ask price and true, or (0, false)
// if there are no resting asks.
func (b *Book) BestAsk() (domain.Price, bool) {
	if b.asksByPrice == nil {
		return 0, false
	}
	return b.asksByPrice.Price, true
}

// TickerId returns the instrument this book serves.
func (b *Book) TickerId() domain.TickerId { return b.tickerId }
