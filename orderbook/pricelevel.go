package orderbook

import "github.com/lyrastone-labs/matchcore/domain"

// PriceLevel is the set of resting orders at one price on one side: an
// intrusive member of the circular doubly linked list of price levels for
// that side, ordered by aggressiveness (BUY: head = highest price; SELL:
// head = lowest price).
type PriceLevel struct {
	Side       domain.Side
	Price      domain.Price
	FirstOrder *Order

	PrevEntry *PriceLevel
	NextEntry *PriceLevel
}

// String renders the price level for tracing.
func (l *PriceLevel) String() string {
	first := "null"
	if l.FirstOrder != nil {
		first = l.FirstOrder.String()
	}
	prevPrice, nextPrice := domain.PriceInvalid, domain.PriceInvalid
	if l.PrevEntry != nil {
		prevPrice = l.PrevEntry.Price
	}
	if l.NextEntry != nil {
		nextPrice = l.NextEntry.Price
	}
	return "MEOrdersAtPrice [side: " + l.Side.String() +
		" price: " + domain.PriceString(l.Price) +
		" first_order: " + first +
		" prev: " + domain.PriceString(prevPrice) +
		" next: " + domain.PriceString(nextPrice) + "]"
}

// better reports whether price a is strictly more aggressive than price b
// on the given side: higher for BUY, lower for SELL.
func better(side domain.Side, a, b domain.Price) bool {
	if side == domain.SideBuy {
		return a > b
	}
	return a < b
}

// insertLevel splices newLevel into the circular, aggressiveness-sorted
// list rooted at *head, updating *head if newLevel becomes the new best.
// It walks in the sorted direction from the current head until the
// insertion point is found, stopping on the second visit to head (a full
// lap, meaning newLevel belongs just before head).
func insertLevel(head **PriceLevel, newLevel *PriceLevel) {
	h := *head
	if h == nil {
		newLevel.PrevEntry = newLevel
		newLevel.NextEntry = newLevel
		*head = newLevel
		return
	}
	if better(newLevel.Side, newLevel.Price, h.Price) {
		tail := h.PrevEntry
		newLevel.NextEntry = h
		newLevel.PrevEntry = tail
		tail.NextEntry = newLevel
		h.PrevEntry = newLevel
		*head = newLevel
		return
	}
	cur := h
	for cur.NextEntry != h && !better(newLevel.Side, newLevel.Price, cur.NextEntry.Price) {
		cur = cur.NextEntry
	}
	next := cur.NextEntry
	newLevel.NextEntry = next
	newLevel.PrevEntry = cur
	cur.NextEntry = newLevel
	next.PrevEntry = newLevel
}

// removeLevel unlinks level from the circular list rooted at *head,
// advancing *head to level's successor if level was the head, or nulling
// it out if level was the side's only level.
func removeLevel(head **PriceLevel, level *PriceLevel) {
	if level.NextEntry == level {
		*head = nil
		level.PrevEntry, level.NextEntry = nil, nil
		return
	}
	level.PrevEntry.NextEntry = level.NextEntry
	level.NextEntry.PrevEntry = level.PrevEntry
	if *head == level {
		*head = level.NextEntry
	}
	level.PrevEntry, level.NextEntry = nil, nil
}
