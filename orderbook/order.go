package orderbook

import "github.com/lyrastone-labs/matchcore/domain"

// Order is one resting order: an intrusive member of the circular doubly
// linked FIFO of all resting orders at one price level. Head of that ring
// is the oldest order; head.Prev is the newest.
type Order struct {
	TickerId      domain.TickerId
	ClientId      domain.ClientId
	ClientOrderId domain.OrderId
	MarketOrderId domain.OrderId
	Side          domain.Side
	Price         domain.Price
	Qty           domain.Qty
	Priority      domain.Priority

	Prev *Order
	Next *Order

	// level is the price level this order rests at; nil once removed.
	level *PriceLevel
}

// String renders the order for tracing, substituting market order ids for
// the prev/next pointers (sentinel if absent).
func (o *Order) String() string {
	prevId, nextId := domain.OrderIdInvalid, domain.OrderIdInvalid
	if o.Prev != nil {
		prevId = o.Prev.MarketOrderId
	}
	if o.Next != nil {
		nextId = o.Next.MarketOrderId
	}
	return "MEOrder [ticker: " + domain.TickerIdString(o.TickerId) +
		" client_order_id: " + domain.OrderIdString(o.ClientOrderId) +
		" market_order_id: " + domain.OrderIdString(o.MarketOrderId) +
		" side: " + o.Side.String() +
		" price: " + domain.PriceString(o.Price) +
		" qty: " + domain.QtyString(o.Qty) +
		" priority: " + domain.PriorityString(o.Priority) +
		" prev: " + domain.OrderIdString(prevId) +
		" next: " + domain.OrderIdString(nextId) + "]"
}

// pushBack links o onto the tail of the circular FIFO rooted at *head (o
// becomes the newest order, i.e. (*head).Prev). If the level is currently
// empty, o becomes a singleton ring and *head is set to it.
func pushBack(head **Order, o *Order) {
	h := *head
	if h == nil {
		o.Prev = o
		o.Next = o
		*head = o
		return
	}
	tail := h.Prev
	o.Next = h
	o.Prev = tail
	tail.Next = o
	h.Prev = o
}

// unlink removes o from the circular FIFO rooted at *head. Returns true
// if the ring is now empty (the level has no more orders).
func unlink(head **Order, o *Order) bool {
	if o.Next == o {
		*head = nil
		o.Prev, o.Next = nil, nil
		return true
	}
	o.Prev.Next = o.Next
	o.Next.Prev = o.Prev
	if *head == o {
		*head = o.Next
	}
	o.Prev, o.Next = nil, nil
	return false
}
