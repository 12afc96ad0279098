package transport

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"aircanary.dev/internal/pipeline"
	"aircanary.dev/internal/protocol"
)

// TCPServer serves the NDJSON stream over plain TCP. Each connection gets
// the full message feed and may send commands, one JSON object per line.
type TCPServer struct {
	addr    string
	pipe    *pipeline.Pipeline
	log     *slog.Logger
	clients *clientSet

	ln     net.Listener
	cancel context.CancelFunc
}

func NewTCPServer(addr string, pipe *pipeline.Pipeline, log *slog.Logger) *TCPServer {
	return &TCPServer{
		addr:    addr,
		pipe:    pipe,
		log:     log,
		clients: newClientSet(),
	}
}

// Addr returns the bound listen address, valid after Start.
func (s *TCPServer) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Deliver implements pipeline.Sink.
func (s *TCPServer) Deliver(line []byte) { s.clients.broadcast(line) }

// ClientCount implements pipeline.Sink.
func (s *TCPServer) ClientCount() int { return s.clients.count() }

func (s *TCPServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	go s.acceptLoop(ctx)

	s.log.Info("tcp transport listening", "addr", ln.Addr().String())
	return nil
}

func (s *TCPServer) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *TCPServer) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				s.log.Error("tcp accept failed", "err", err)
			}
			return
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *TCPServer) handleConn(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr().String()
	s.log.Info("tcp client connected", "remote", remote)

	c := s.clients.add()
	defer func() {
		s.clients.remove(c)
		conn.Close()
		s.log.Info("tcp client disconnected", "remote", remote)
	}()

	ctx, cancel := context.WithCancel(ctx)
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
			if _, err := conn.Write(line); err != nil {
				return
			}
		}
	}
}

// readLoop feeds inbound bytes through a framer and hands complete lines
// to the command path. Returns when the connection breaks.
func (s *TCPServer) readLoop(ctx context.Context, conn net.Conn) {
	framer := protocol.NewFramer()
	buf := make([]byte, 1024)

	var discards uint64
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			for _, line := range framer.Push(buf[:n]) {
				if err := s.pipe.HandleCommandLine(ctx, line); err != nil {
					return
				}
			}
			for ; discards < framer.Discards(); discards++ {
				s.pipe.CountFramerDiscard()
			}
		}
		if err != nil {
			return
		}
	}
}
