package transport

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aircanary.dev/internal/pipeline"
	"aircanary.dev/internal/protocol"
)

const wsWriteTimeout = 10 * time.Second

// WSServer serves the NDJSON stream over WebSocket at /ws and exposes
// Prometheus metrics at /metrics. Each text message from a client is
// treated as one command line.
type WSServer struct {
	addr    string
	pipe    *pipeline.Pipeline
	log     *slog.Logger
	clients *clientSet

	srv      *http.Server
	ln       net.Listener
	upgrader websocket.Upgrader
	cancel   context.CancelFunc
}

func NewWSServer(addr string, pipe *pipeline.Pipeline, log *slog.Logger, reg *prometheus.Registry) *WSServer {
	s := &WSServer{
		addr:    addr,
		pipe:    pipe,
		log:     log,
		clients: newClientSet(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The stream carries no credentials and the listener is
			// expected to be bound to a trusted interface.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Addr returns the bound listen address, valid after Start.
func (s *WSServer) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Deliver implements pipeline.Sink.
func (s *WSServer) Deliver(line []byte) { s.clients.broadcast(line) }

// ClientCount implements pipeline.Sink.
func (s *WSServer) ClientCount() int { return s.clients.count() }

func (s *WSServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		<-ctx.Done()
		s.srv.Close()
	}()
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("websocket server failed", "err", err)
		}
	}()

	s.log.Info("websocket transport listening", "addr", ln.Addr().String())
	return nil
}

func (s *WSServer) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *WSServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "err", err)
		return
	}
	remote := conn.RemoteAddr().String()
	s.log.Info("websocket client connected", "remote", remote)

	c := s.clients.add()
	defer func() {
		s.clients.remove(c)
		conn.Close()
		s.log.Info("websocket client disconnected", "remote", remote)
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		s.readLoop(ctx, conn)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, line); err != nil {
				return
			}
		}
	}
}

// readLoop treats each inbound text message as stream bytes and runs them
// through a framer, so a message holds one command line with or without
// its trailing newline.
func (s *WSServer) readLoop(ctx context.Context, conn *websocket.Conn) {
	framer := protocol.NewFramer()

	var discards uint64
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		for _, line := range framer.Push(data) {
			if err := s.pipe.HandleCommandLine(ctx, line); err != nil {
				return
			}
		}
		for ; discards < framer.Discards(); discards++ {
			s.pipe.CountFramerDiscard()
		}
	}
}
