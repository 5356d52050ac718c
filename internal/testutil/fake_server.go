//go:build !production

package testutil

import (
	"sync"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/types"
)

// FakeServer 内存版 types.ServerInterface，客户端注册表是真实的
type FakeServer struct {
	mu          sync.Mutex
	clients     map[string]types.ClientInterface
	broadcasts  []*protocol.Message
	maintenance bool
}

func NewFakeServer() *FakeServer {
	return &FakeServer{clients: make(map[string]types.ClientInterface)}
}

// SetMaintenance 切换维护模式
func (s *FakeServer) SetMaintenance(on bool) {
	s.mu.Lock()
	s.maintenance = on
	s.mu.Unlock()
}

func (s *FakeServer) IsMaintenanceMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maintenance
}

// GetOnlineCount 已注册的客户端数
func (s *FakeServer) GetOnlineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *FakeServer) BroadcastToLobby(msg *protocol.Message) {
	s.mu.Lock()
	s.broadcasts = append(s.broadcasts, msg)
	s.mu.Unlock()
}

// Broadcasts 收到的大厅广播
func (s *FakeServer) Broadcasts() []*protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*protocol.Message(nil), s.broadcasts...)
}

func (s *FakeServer) GetClientByID(id string) types.ClientInterface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients[id]
}

func (s *FakeServer) RegisterClient(id string, client types.ClientInterface) {
	s.mu.Lock()
	s.clients[id] = client
	s.mu.Unlock()
}

func (s *FakeServer) UnregisterClient(id string) {
	s.mu.Lock()
	delete(s.clients, id)
	s.mu.Unlock()
}
