package server

import (
	"sync"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/types"
)

// clientRegistry 在线连接，按玩家 ID 索引
type clientRegistry struct {
	mu sync.RWMutex
	m  map[string]*Client
}

func newClientRegistry() *clientRegistry {
	return &clientRegistry{m: make(map[string]*Client)}
}

func (r *clientRegistry) put(id string, c *Client) {
	r.mu.Lock()
	r.m[id] = c
	r.mu.Unlock()
}

func (r *clientRegistry) get(id string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.m[id]
	return c, ok
}

func (r *clientRegistry) delete(id string) {
	r.mu.Lock()
	delete(r.m, id)
	r.mu.Unlock()
}

// deleteIf 只有 c 仍是该 ID 的当前连接时才删除
func (r *clientRegistry) deleteIf(c *Client) bool {
	id := c.GetID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m[id] != c {
		return false
	}
	delete(r.m, id)
	return true
}

func (r *clientRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// snapshot 拷贝一份，发送时不持锁
func (r *clientRegistry) snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Client, 0, len(r.m))
	for _, c := range r.m {
		out = append(out, c)
	}
	return out
}

// --- types.ServerInterface ---

func (s *Server) GetOnlineCount() int { return s.clients.len() }

func (s *Server) GetClientByID(id string) types.ClientInterface {
	if c, ok := s.clients.get(id); ok {
		return c
	}
	return nil
}

// RegisterClient 重连时用旧 ID 重新登记
func (s *Server) RegisterClient(id string, client types.ClientInterface) {
	if c, ok := client.(*Client); ok {
		s.clients.put(id, c)
	}
}

func (s *Server) UnregisterClient(id string) { s.clients.delete(id) }

// Broadcast 发给所有在线连接
func (s *Server) Broadcast(msg *protocol.Message) {
	for _, c := range s.clients.snapshot() {
		c.SendMessage(msg)
	}
}

// BroadcastToLobby 只发给不在房间里的玩家
func (s *Server) BroadcastToLobby(msg *protocol.Message) {
	for _, c := range s.clients.snapshot() {
		if c.GetRoom() == "" {
			c.SendMessage(msg)
		}
	}
}
