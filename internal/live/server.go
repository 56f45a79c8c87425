package live

import (
	"bufio"
	"errors"
	"net"
	"sync"

	"go.uber.org/zap"
)

// Server accepts raw TCP subscribers. Clients get a welcome line and
// then a stream of newline-delimited JSON events; anything they send is
// discarded.
type Server struct {
	Addr string
	Hub  *Hub
	Log  *zap.Logger

	mu sync.Mutex
	ln net.Listener
}

func NewServer(addr string, hub *Hub, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{Addr: addr, Hub: hub, Log: log}
}

func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.Log.Info("live tcp server listening", zap.String("addr", s.Addr))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}

		s.Hub.Add(conn)
		s.Hub.Welcome(conn)
		s.Log.Debug("live client connected", zap.String("remote", conn.RemoteAddr().String()))

		go func(c net.Conn) {
			defer func() {
				s.Hub.Remove(c)
				s.Log.Debug("live client disconnected", zap.String("remote", c.RemoteAddr().String()))
			}()

			sc := bufio.NewScanner(c)
			for sc.Scan() {
				// subscribers only listen
			}
		}(conn)
	}
}

// Close stops accepting new clients. Existing connections are evicted
// lazily on their next failed write.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
