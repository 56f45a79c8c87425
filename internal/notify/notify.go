package notify

import (
	"encoding/json"
	"errors"
	"net"
	"sync"

	"go.uber.org/zap"
)

const (
	RegisterMessageType   = "register"
	NewContentMessageType = "new_content"
)

// RegisterMessage is what a client sends to start receiving pushes.
type RegisterMessage struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// NewContentMessage announces freshly cataloged titles, typically after
// a bulk import.
type NewContentMessage struct {
	Type   string   `json:"type"`
	Titles []string `json:"titles"`
}

type Client struct {
	UserID string
	Addr   *net.UDPAddr
}

// Registry tracks registered UDP clients by user id. Re-registering
// replaces the previous address.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

func (r *Registry) Register(userID string, addr *net.UDPAddr) {
	if userID == "" || addr == nil {
		return
	}
	r.mu.Lock()
	r.clients[userID] = Client{UserID: userID, Addr: addr}
	r.mu.Unlock()
}

func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	delete(r.clients, userID)
	r.mu.Unlock()
}

func (r *Registry) Snapshot() []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}
	return clients
}

// Server listens for UDP registrations and pushes content announcements
// back out. Delivery is best effort; a client that fails twice is
// dropped from the registry.
type Server struct {
	addr     string
	registry *Registry
	log      *zap.Logger

	mu   sync.Mutex
	conn *net.UDPConn
}

func NewServer(addr string, registry *Registry, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{addr: addr, registry: registry, log: log}
}

func (s *Server) Run() error {
	udpAddr, err := net.ResolveUDPAddr("udp", s.addr)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	defer conn.Close()

	s.log.Info("udp notify server listening", zap.String("addr", s.addr))

	buffer := make([]byte, 2048)
	for {
		n, addr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		msg, err := parseRegisterMessage(buffer[:n])
		if err != nil {
			s.log.Debug("invalid udp message", zap.String("remote", addr.String()), zap.Error(err))
			continue
		}
		if msg.Type != RegisterMessageType {
			continue
		}
		s.registry.Register(msg.UserID, addr)
		s.log.Debug("udp client registered", zap.String("user_id", msg.UserID), zap.String("remote", addr.String()))
	}
}

// Close stops the listener; Run returns nil afterwards.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// NewContent pushes the given titles to every registered client. It
// satisfies the importer's notifier hook.
func (s *Server) NewContent(titles []string) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		s.log.Warn("udp notify server not running")
		return
	}

	payload, err := json.Marshal(NewContentMessage{
		Type:   NewContentMessageType,
		Titles: titles,
	})
	if err != nil {
		return
	}

	for _, client := range s.registry.Snapshot() {
		s.sendWithRetry(conn, client, payload)
	}
}

func (s *Server) sendWithRetry(conn *net.UDPConn, client Client, payload []byte) {
	if err := sendOnce(conn, client, payload); err == nil {
		return
	}
	if err := sendOnce(conn, client, payload); err != nil {
		s.log.Debug("dropping unreachable udp client",
			zap.String("user_id", client.UserID), zap.Error(err))
		s.registry.Remove(client.UserID)
	}
}

func sendOnce(conn *net.UDPConn, client Client, payload []byte) error {
	if client.Addr == nil {
		return errors.New("missing client address")
	}
	_, err := conn.WriteToUDP(payload, client.Addr)
	return err
}

func parseRegisterMessage(data []byte) (RegisterMessage, error) {
	var msg RegisterMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, err
	}
	if msg.UserID == "" || msg.Type == "" {
		return msg, errors.New("missing required fields")
	}
	return msg, nil
}
