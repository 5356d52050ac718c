package session

import (
	"context"
	"time"

	"github.com/palemoky/hearts/internal/server/storage"
)

// Config 对局会话配置
type Config struct {
	TurnTimeout    time.Duration // 出牌超时
	PassTimeout    time.Duration // 传牌超时
	OfflineTimeout time.Duration // 当前玩家离线时的等待时间
	MaxScore       int
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		TurnTimeout:    30 * time.Second,
		PassTimeout:    45 * time.Second,
		OfflineTimeout: 15 * time.Second,
		MaxScore:       100,
	}
}

// GameStateStore 对局快照缓存（game:<room>）
type GameStateStore interface {
	SaveGameState(ctx context.Context, roomCode string, state any) error
	DeleteGameState(ctx context.Context, roomCode string) error
}

// ResultRecorder 记录终局名次
type ResultRecorder interface {
	RecordGameResult(ctx context.Context, res storage.GameResult) error
}

// SessionStore 玩家会话持久化（session:<id>）
type SessionStore interface {
	SaveSession(ctx context.Context, data *storage.PlayerSessionData) error
	LoadSession(ctx context.Context, playerID string) (*storage.PlayerSessionData, error)
	DeleteSession(ctx context.Context, playerID string) error
}

// Deps 对局会话依赖，均可为空
type Deps struct {
	Store       GameStateStore
	Leaderboard ResultRecorder
	OnFinish    func(roomCode string) // 对局结束或中止后调用，在独立协程中执行
}

const storeTimeout = 2 * time.Second
