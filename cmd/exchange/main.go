// Command exchange runs the matching engine core behind a minimal TCP
// gateway: one goroutine accepts connections, one per-connection
// goroutine decodes inbound frames, the matcher's dispatch goroutine
// owns every book, and two relay goroutines frame and write back
// responses and market updates.
package main

import (
	"flag"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/lyrastone-labs/matchcore/domain"
	"github.com/lyrastone-labs/matchcore/gateway"
	"github.com/lyrastone-labs/matchcore/logger"
	"github.com/lyrastone-labs/matchcore/matching"
	"github.com/lyrastone-labs/matchcore/sequencer"
)

func main() {
	iface := flag.String("iface", "0.0.0.0", "bind interface")
	port := flag.Int("port", 9090, "TCP port to listen on")
	logPath := flag.String("log", "exchange.log", "log file path")
	tickers := flag.String("tickers", "1", "comma-separated list of ticker ids to register at startup")
	flag.Parse()

	log := logger.New(*logPath)
	defer log.Close()

	srv := newServer(log)
	for _, id := range parseTickerIds(log, *tickers) {
		srv.engine.RegisterTicker(id)
	}
	srv.engine.Start()
	defer srv.engine.Stop()

	go srv.relayResponses()
	go srv.relayUpdates()

	addr := net.JoinHostPort(*iface, strconv.Itoa(*port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal(log, "exchange: could not listen on %\n", addr)
	}
	log.Log("exchange: listening on %\n", addr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		ln.Close()
	}()

	srv.acceptLoop(ln)
}

func parseTickerIds(log *logger.Logger, csv string) []domain.TickerId {
	var ids []domain.TickerId
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			logger.Fatal(log, "exchange: invalid ticker id %\n", part)
		}
		ids = append(ids, domain.TickerId(n))
	}
	return ids
}

// server wires a Gateway and an Engine to real TCP connections: it tracks
// which net.Conn backs each socket id the gateway's client registry
// knows about, so outbound responses can be written to the right wire.
type server struct {
	log    *logger.Logger
	engine *matching.Engine
	seq    *sequencer.Sequencer
	gw     *gateway.Gateway

	mu    sync.Mutex
	conns map[string]net.Conn
}

func newServer(log *logger.Logger) *server {
	engine := matching.NewEngine(matching.DefaultEngineConfig(), log)
	seq := sequencer.New(1<<16, engine.Inbound(), log)
	s := &server{
		log:    log,
		engine: engine,
		seq:    seq,
		conns:  make(map[string]net.Conn),
	}
	s.gw = gateway.NewGateway(sequencerListener{seq: seq}, log)
	return s
}

// sequencerListener adapts a Sequencer to gateway.Listener: every decoded
// request is buffered with its arrival timestamp, and a read cycle's end
// triggers a single stable-sorted publish to the matcher.
type sequencerListener struct {
	seq *sequencer.Sequencer
}

func (l sequencerListener) OnRecv(clientId domain.ClientId, req domain.MEClientRequest) {
	l.seq.Add(time.Now().UnixNano(), req)
}

func (l sequencerListener) OnRecvBatchEnd() {
	l.seq.SequenceAndPublish()
}

func (s *server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns[conn.RemoteAddr().String()] = conn
		s.mu.Unlock()
		go s.readLoop(conn)
	}
}

func (s *server) readLoop(conn net.Conn) {
	socketId := conn.RemoteAddr().String()
	defer func() {
		s.mu.Lock()
		delete(s.conns, socketId)
		s.mu.Unlock()
		conn.Close()
	}()

	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			s.gw.OnSocketData(socketId, buf[:n])
		}
		if err != nil {
			return
		}
	}
}

func (s *server) relayResponses() {
	for {
		slot := s.engine.Responses().NextRead()
		if slot == nil {
			continue
		}
		resp := *slot
		s.engine.Responses().AdvanceRead()
		s.writeResponse(resp)
	}
}

func (s *server) writeResponse(r domain.MEClientResponse) {
	socketId, ok := s.gw.Registry().SocketFor(r.ClientId)
	if !ok {
		return
	}
	s.mu.Lock()
	conn := s.conns[socketId]
	s.mu.Unlock()
	if conn == nil {
		return
	}
	framed := s.gw.FrameResponse(r)
	buf := make([]byte, domain.OMClientResponseSize)
	domain.PutOMClientResponse(buf, framed)
	conn.Write(buf)
}

func (s *server) relayUpdates() {
	for {
		slot := s.engine.Updates().NextRead()
		if slot == nil {
			continue
		}
		u := *slot
		s.engine.Updates().AdvanceRead()
		s.log.Log("market_update %\n", u)
	}
}
