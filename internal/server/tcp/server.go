// Package tcp is the connection acceptor: it listens for clients and serves
// each connection on its own goroutine with its own session.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophmail/internal/logging"
	"github.com/dmitrijs2005/gophmail/internal/protocol"
	"github.com/dmitrijs2005/gophmail/internal/server/metrics"
	"github.com/dmitrijs2005/gophmail/internal/server/session"
	"github.com/google/uuid"
)

// Dispatcher answers one request for the session owning it.
type Dispatcher interface {
	Dispatch(ctx context.Context, sess *session.Session, req *protocol.Request) *protocol.Response
}

type Server struct {
	address         string
	maxRequestBytes int
	dispatcher      Dispatcher
	metrics         *metrics.Metrics
	logger          logging.Logger

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

func NewServer(address string, maxRequestBytes int, d Dispatcher, m *metrics.Metrics, l logging.Logger) *Server {
	return &Server{
		address:         address,
		maxRequestBytes: maxRequestBytes,
		dispatcher:      d,
		metrics:         m,
		logger:          l.With("module", "tcp_server"),
		conns:           make(map[net.Conn]struct{}),
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.address, err)
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is cancelled, then closes lis,
// interrupts reads on every open connection and returns nil. A request
// already being dispatched is answered before its connection closes; use
// Wait to block until that has happened.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping TCP server...")
		case <-stop:
		}
		lis.Close()
	}()

	s.logger.Info(ctx, "Starting TCP server", "address", lis.Addr().String())

	connCtx := context.WithoutCancel(ctx)

	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.interruptReads()
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logger.Warn(ctx, "Accept failed", "error", err.Error())
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handle(connCtx, conn)
		}()
	}
}

// Wait blocks until every connection handler has returned or ctx is done,
// in which case it returns ctx.Err().
func (s *Server) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// interruptReads makes every pending and future read on open connections
// fail, so idle handlers return while busy ones finish their response.
func (s *Server) interruptReads() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for conn := range s.conns {
		_ = conn.SetReadDeadline(now)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	logger := s.logger.With("conn_id", uuid.NewString(), "remote", conn.RemoteAddr().String())
	sess := &session.Session{}

	s.metrics.ConnectionOpened()
	logger.Info(ctx, "Connection accepted")

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Connection handler panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
		sess.Close()
		conn.Close()
		s.metrics.ConnectionClosed()
		logger.Info(ctx, "Connection closed")
	}()

	dec := protocol.NewDecoder(conn, s.maxRequestBytes)
	enc := protocol.NewEncoder(conn)

	for {
		var req protocol.Request
		if err := dec.Decode(&req); err != nil {
			s.readFailed(ctx, logger, enc, err)
			return
		}

		resp := s.dispatcher.Dispatch(ctx, sess, &req)

		if err := enc.Encode(resp); err != nil {
			logger.Warn(ctx, "Write failed", "error", err.Error())
			return
		}
	}
}

// readFailed reports a bad frame to the peer when possible. The connection
// is closed by the caller in every case.
func (s *Server) readFailed(ctx context.Context, logger logging.Logger, enc *protocol.Encoder, err error) {
	switch {
	case errors.Is(err, io.EOF):
		logger.Debug(ctx, "Peer disconnected")
	case errors.Is(err, os.ErrDeadlineExceeded):
		logger.Debug(ctx, "Read interrupted by shutdown")
	case errors.Is(err, protocol.ErrFrameTooLarge), errors.Is(err, protocol.ErrMalformed):
		logger.Warn(ctx, "Bad request frame", "error", err.Error())
		_ = enc.Encode(protocol.Failure(err.Error()))
	default:
		logger.Warn(ctx, "Read failed", "error", err.Error())
	}
}
