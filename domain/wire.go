package domain

// ClientRequestType is the inbound request discriminator (wire-stable).
type ClientRequestType uint8

const (
	ClientRequestInvalid ClientRequestType = 0
	ClientRequestNew     ClientRequestType = 1
	ClientRequestCancel  ClientRequestType = 2
)

func (t ClientRequestType) String() string {
	switch t {
	case ClientRequestNew:
		return "NEW"
	case ClientRequestCancel:
		return "CANCEL"
	case ClientRequestInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// ClientResponseType is the private-response discriminator (wire-stable).
type ClientResponseType uint8

const (
	ClientResponseInvalid        ClientResponseType = 0
	ClientResponseAccepted       ClientResponseType = 1
	ClientResponseCanceled       ClientResponseType = 2
	ClientResponseFilled         ClientResponseType = 3
	ClientResponseCancelRejected ClientResponseType = 4
)

func (t ClientResponseType) String() string {
	switch t {
	case ClientResponseAccepted:
		return "ACCEPTED"
	case ClientResponseCanceled:
		return "CANCELED"
	case ClientResponseFilled:
		return "FILLED"
	case ClientResponseCancelRejected:
		return "CANCEL_REJECTED"
	case ClientResponseInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// MarketUpdateType is the public market-update discriminator (wire-stable):
// the eight values a publisher actually needs to describe book state and
// its transitions.
type MarketUpdateType uint8

const (
	MarketUpdateInvalid        MarketUpdateType = 0
	MarketUpdateClear          MarketUpdateType = 1
	MarketUpdateAdd            MarketUpdateType = 2
	MarketUpdateModify         MarketUpdateType = 3
	MarketUpdateCancel         MarketUpdateType = 4
	MarketUpdateTrade          MarketUpdateType = 5
	MarketUpdateSnapshotStart  MarketUpdateType = 6
	MarketUpdateSnapshotEnd    MarketUpdateType = 7
)

func (t MarketUpdateType) String() string {
	switch t {
	case MarketUpdateClear:
		return "CLEAR"
	case MarketUpdateAdd:
		return "ADD"
	case MarketUpdateModify:
		return "MODIFY"
	case MarketUpdateCancel:
		return "CANCEL"
	case MarketUpdateTrade:
		return "TRADE"
	case MarketUpdateSnapshotStart:
		return "SNAPSHOT_START"
	case MarketUpdateSnapshotEnd:
		return "SNAPSHOT_END"
	case MarketUpdateInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// MEClientRequest is a decoded inbound request: a new order or a cancel.
type MEClientRequest struct {
	Type          ClientRequestType
	ClientId      ClientId
	TickerId      TickerId
	OrderId       OrderId
	Side          Side
	Price         Price
	Qty           Qty
}

func (r MEClientRequest) String() string {
	return "MEClientRequest [type: " + r.Type.String() +
		" client: " + ClientIdString(r.ClientId) +
		" ticker: " + TickerIdString(r.TickerId) +
		" oid: " + OrderIdString(r.OrderId) +
		" side: " + r.Side.String() +
		" qty: " + QtyString(r.Qty) +
		" price: " + PriceString(r.Price) + "]"
}

// MEClientResponse is a private response routed back to the originating
// client: ACCEPTED, CANCELED, FILLED or CANCEL_REJECTED.
type MEClientResponse struct {
	Type           ClientResponseType
	ClientId       ClientId
	TickerId       TickerId
	ClientOrderId  OrderId
	MarketOrderId  OrderId
	Side           Side
	Price          Price
	ExecQty        Qty
	LeavesQty      Qty
}

func (r MEClientResponse) String() string {
	return "MEClientResponse [type: " + r.Type.String() +
		" client: " + ClientIdString(r.ClientId) +
		" ticker: " + TickerIdString(r.TickerId) +
		" coid: " + OrderIdString(r.ClientOrderId) +
		" moid: " + OrderIdString(r.MarketOrderId) +
		" side: " + r.Side.String() +
		" exec_qty: " + QtyString(r.ExecQty) +
		" leaves_qty: " + QtyString(r.LeavesQty) +
		" price: " + PriceString(r.Price) + "]"
}

// MEMarketUpdate is a public book-mutation record: ADD/MODIFY/CANCEL/TRADE
// (plus the CLEAR/SNAPSHOT_* bracket types a publisher may synthesize).
type MEMarketUpdate struct {
	Type     MarketUpdateType
	OrderId  OrderId
	TickerId TickerId
	Side     Side
	Price    Price
	Qty      Qty
	Priority Priority
}

func (u MEMarketUpdate) String() string {
	return "MEMarketUpdate [type: " + u.Type.String() +
		" ticker: " + TickerIdString(u.TickerId) +
		" market_order_id: " + OrderIdString(u.OrderId) +
		" side: " + u.Side.String() +
		" qty: " + QtyString(u.Qty) +
		" price: " + PriceString(u.Price) +
		" priority: " + PriorityString(u.Priority) + "]"
}

// OMClientRequest is the framed inbound wire record: a per-client sequence
// number followed by the request it protects against loss/reorder.
type OMClientRequest struct {
	SeqNum  uint64
	Request MEClientRequest
}

// OMClientResponse is the framed outbound wire record.
type OMClientResponse struct {
	SeqNum   uint64
	Response MEClientResponse
}

// MDPMarketUpdate is the framed public market-data wire record.
type MDPMarketUpdate struct {
	SeqNum uint64
	Update MEMarketUpdate
}
