package gateway

import (
	"github.com/lyrastone-labs/matchcore/domain"
	"github.com/lyrastone-labs/matchcore/logger"
)

// Listener receives decoded requests as a gateway's read cycle produces
// them. OnRecv fires once per accepted request; OnRecvBatchEnd fires once
// a socket's available bytes have all been decoded into complete frames
// and at least one of them reached OnRecv, the natural point for a sequencer to stable-sort and publish whatever
// it accumulated this cycle. A sequencer is the production Listener;
// tests can substitute a recording one.
type Listener interface {
	OnRecv(clientId domain.ClientId, req domain.MEClientRequest)
	OnRecvBatchEnd()
}

// clientState is the per-client bookkeeping a gateway must keep: the
// inbound sequence number expected next, and the outbound sequence
// number to stamp on the next response sent to that client.
type clientState struct {
	expectedInboundSeq uint64
	nextOutboundSeq    uint64
}

// Gateway decodes frames arriving on any number of sockets, binds each
// client id to the socket its first frame arrived on, enforces per-client
// inbound sequencing, and hands decoded requests to a Listener. It also
// re-frames outbound responses with a per-client outbound sequence
// number. One Gateway instance serves every socket in a deployment; it is
// not safe for concurrent use from more than one goroutine.
type Gateway struct {
	registry *Registry
	decoders map[string]*Decoder
	clients  map[domain.ClientId]*clientState
	listener Listener
	log      *logger.Logger
}

// NewGateway constructs a Gateway that reports decoded requests to
// listener.
func NewGateway(listener Listener, log *logger.Logger) *Gateway {
	return &Gateway{
		registry: NewRegistry(log),
		decoders: make(map[string]*Decoder),
		clients:  make(map[domain.ClientId]*clientState),
		listener: listener,
		log:      log,
	}
}

func (g *Gateway) decoderFor(socketId string) *Decoder {
	d, ok := g.decoders[socketId]
	if !ok {
		d = NewDecoder()
		g.decoders[socketId] = d
	}
	return d
}

func (g *Gateway) clientStateFor(clientId domain.ClientId) *clientState {
	cs, ok := g.clients[clientId]
	if !ok {
		cs = &clientState{expectedInboundSeq: 1, nextOutboundSeq: 1}
		g.clients[clientId] = cs
	}
	return cs
}

// OnSocketData feeds newly-read bytes from socketId through that socket's
// decoder, dispatching every complete frame it yields to the listener and
// firing OnRecvBatchEnd once if at least one frame was dispatched (frames
// dropped for a foreign socket or a sequence gap do not count). Chunking
// is irrelevant: call this with however many bytes a single read returned.
func (g *Gateway) OnSocketData(socketId string, data []byte) {
	dec := g.decoderFor(socketId)
	dec.Feed(data)

	dispatched := false
	for {
		frame, ok := dec.Next()
		if !ok {
			break
		}
		if g.handleFrame(socketId, frame) {
			dispatched = true
		}
	}
	if dispatched {
		g.listener.OnRecvBatchEnd()
	}
}

// handleFrame reports whether frame was dispatched to the listener.
func (g *Gateway) handleFrame(socketId string, frame domain.OMClientRequest) bool {
	clientId := frame.Request.ClientId
	if _, accept := g.registry.Bind(clientId, socketId); !accept {
		return false
	}
	cs := g.clientStateFor(clientId)
	if frame.SeqNum != cs.expectedInboundSeq {
		if g.log != nil {
			g.log.Log("gateway: client % sent seq % expected %, dropping\n",
				clientId, frame.SeqNum, cs.expectedInboundSeq)
		}
		return false
	}
	cs.expectedInboundSeq++
	g.listener.OnRecv(clientId, frame.Request)
	return true
}

// FrameResponse stamps r with the next outbound sequence number for its
// client and advances that counter.
func (g *Gateway) FrameResponse(r domain.MEClientResponse) domain.OMClientResponse {
	cs := g.clientStateFor(r.ClientId)
	seq := cs.nextOutboundSeq
	cs.nextOutboundSeq++
	return domain.OMClientResponse{SeqNum: seq, Response: r}
}

// Registry exposes the client/socket binding table, e.g. for operational
// enumeration or tests.
func (g *Gateway) Registry() *Registry { return g.registry }
