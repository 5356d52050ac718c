//go:build !production

package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/hearts/internal/server/storage"
)

// MockLeaderboard 排行榜 mock
type MockLeaderboard struct {
	mock.Mock
}

func (m *MockLeaderboard) RecordGameResult(ctx context.Context, res storage.GameResult) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockLeaderboard) GetPlayerStats(ctx context.Context, playerID string) (*storage.PlayerStats, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PlayerStats), args.Error(1)
}

func (m *MockLeaderboard) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	args := m.Called(ctx, playerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaderboard) GetLeaderboard(ctx context.Context, leaderboardType string, offset, limit int) ([]*storage.LeaderboardEntry, error) {
	args := m.Called(ctx, leaderboardType, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.LeaderboardEntry), args.Error(1)
}

// MemoryGameStore 内存中的对局快照存储
type MemoryGameStore struct {
	mu     sync.Mutex
	states map[string]any
	saves  int
}

// NewMemoryGameStore 创建内存快照存储
func NewMemoryGameStore() *MemoryGameStore {
	return &MemoryGameStore{states: make(map[string]any)}
}

func (s *MemoryGameStore) SaveGameState(_ context.Context, roomCode string, state any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[roomCode] = state
	s.saves++
	return nil
}

func (s *MemoryGameStore) DeleteGameState(_ context.Context, roomCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, roomCode)
	return nil
}

// Get 返回房间当前快照
func (s *MemoryGameStore) Get(roomCode string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.states[roomCode]
	return v, ok
}

// Saves 返回写入次数
func (s *MemoryGameStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
