package domain

import "encoding/binary"

// Wire sizes, in bytes, of each packed record: one contiguous record per
// request/response/update, no padding between fields.
const (
	meClientRequestSize  = 1 + 8 + 8 + 8 + 1 + 8 + 4         // 38
	meClientResponseSize = 1 + 8 + 8 + 8 + 8 + 1 + 8 + 4 + 4 // 50
	meMarketUpdateSize   = 1 + 8 + 8 + 1 + 8 + 4 + 8         // 38

	// OMClientRequestSize is the framed inbound record size: seq_num plus
	// the client request it protects.
	OMClientRequestSize = 8 + meClientRequestSize
	// OMClientResponseSize is the framed outbound record size.
	OMClientResponseSize = 8 + meClientResponseSize
	// MDPMarketUpdateSize is the framed market-data record size.
	MDPMarketUpdateSize = 8 + meMarketUpdateSize
)

// byteOrder is little-endian, matching the x86 hosts this wire format
// targets.
var byteOrder = binary.LittleEndian

func putRequest(buf []byte, r MEClientRequest) {
	buf[0] = byte(r.Type)
	byteOrder.PutUint64(buf[1:], r.ClientId)
	byteOrder.PutUint64(buf[9:], r.TickerId)
	byteOrder.PutUint64(buf[17:], r.OrderId)
	buf[25] = byte(r.Side)
	byteOrder.PutUint64(buf[26:], uint64(r.Price))
	byteOrder.PutUint32(buf[34:], r.Qty)
}

func getRequest(buf []byte) MEClientRequest {
	return MEClientRequest{
		Type:     ClientRequestType(buf[0]),
		ClientId: byteOrder.Uint64(buf[1:]),
		TickerId: byteOrder.Uint64(buf[9:]),
		OrderId:  byteOrder.Uint64(buf[17:]),
		Side:     Side(int8(buf[25])),
		Price:    int64(byteOrder.Uint64(buf[26:])),
		Qty:      byteOrder.Uint32(buf[34:]),
	}
}

// PutOMClientRequest encodes r into buf, which must be at least
// OMClientRequestSize bytes.
func PutOMClientRequest(buf []byte, r OMClientRequest) {
	byteOrder.PutUint64(buf, r.SeqNum)
	putRequest(buf[8:], r.Request)
}

// GetOMClientRequest decodes an OMClientRequest from the front of buf.
func GetOMClientRequest(buf []byte) OMClientRequest {
	return OMClientRequest{
		SeqNum:  byteOrder.Uint64(buf),
		Request: getRequest(buf[8:]),
	}
}

func putResponse(buf []byte, r MEClientResponse) {
	buf[0] = byte(r.Type)
	byteOrder.PutUint64(buf[1:], r.ClientId)
	byteOrder.PutUint64(buf[9:], r.TickerId)
	byteOrder.PutUint64(buf[17:], r.ClientOrderId)
	byteOrder.PutUint64(buf[25:], r.MarketOrderId)
	buf[33] = byte(r.Side)
	byteOrder.PutUint64(buf[34:], uint64(r.Price))
	byteOrder.PutUint32(buf[42:], r.ExecQty)
	byteOrder.PutUint32(buf[46:], r.LeavesQty)
}

func getResponse(buf []byte) MEClientResponse {
	return MEClientResponse{
		Type:          ClientResponseType(buf[0]),
		ClientId:      byteOrder.Uint64(buf[1:]),
		TickerId:      byteOrder.Uint64(buf[9:]),
		ClientOrderId: byteOrder.Uint64(buf[17:]),
		MarketOrderId: byteOrder.Uint64(buf[25:]),
		Side:          Side(int8(buf[33])),
		Price:         int64(byteOrder.Uint64(buf[34:])),
		ExecQty:       byteOrder.Uint32(buf[42:]),
		LeavesQty:     byteOrder.Uint32(buf[46:]),
	}
}

// PutOMClientResponse encodes r into buf, which must be at least
// OMClientResponseSize bytes.
func PutOMClientResponse(buf []byte, r OMClientResponse) {
	byteOrder.PutUint64(buf, r.SeqNum)
	putResponse(buf[8:], r.Response)
}

// GetOMClientResponse decodes an OMClientResponse from the front of buf.
func GetOMClientResponse(buf []byte) OMClientResponse {
	return OMClientResponse{
		SeqNum:   byteOrder.Uint64(buf),
		Response: getResponse(buf[8:]),
	}
}

func putUpdate(buf []byte, u MEMarketUpdate) {
	buf[0] = byte(u.Type)
	byteOrder.PutUint64(buf[1:], u.OrderId)
	byteOrder.PutUint64(buf[9:], u.TickerId)
	buf[17] = byte(u.Side)
	byteOrder.PutUint64(buf[18:], uint64(u.Price))
	byteOrder.PutUint32(buf[26:], u.Qty)
	byteOrder.PutUint64(buf[30:], u.Priority)
}

func getUpdate(buf []byte) MEMarketUpdate {
	return MEMarketUpdate{
		Type:     MarketUpdateType(buf[0]),
		OrderId:  byteOrder.Uint64(buf[1:]),
		TickerId: byteOrder.Uint64(buf[9:]),
		Side:     Side(int8(buf[17])),
		Price:    int64(byteOrder.Uint64(buf[18:])),
		Qty:      byteOrder.Uint32(buf[26:]),
		Priority: byteOrder.Uint64(buf[30:]),
	}
}

// PutMDPMarketUpdate encodes u into buf, which must be at least
// MDPMarketUpdateSize bytes.
func PutMDPMarketUpdate(buf []byte, u MDPMarketUpdate) {
	byteOrder.PutUint64(buf, u.SeqNum)
	putUpdate(buf[8:], u.Update)
}

// GetMDPMarketUpdate decodes an MDPMarketUpdate from the front of buf.
func GetMDPMarketUpdate(buf []byte) MDPMarketUpdate {
	return MDPMarketUpdate{
		SeqNum: byteOrder.Uint64(buf),
		Update: getUpdate(buf[8:]),
	}
}
