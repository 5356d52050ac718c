package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/hearts/internal/server/storage"
)

func newTestManager(t *testing.T, store SessionStore) *SessionManager {
	t.Helper()
	sm := NewSessionManager(store)
	t.Cleanup(sm.Close)
	return sm
}

func newRedisSessionStore(t *testing.T) (*storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return storage.NewRedisStore(client), mr
}

func TestSessionManager_CreateAndLookup(t *testing.T) {
	t.Parallel()

	sm := newTestManager(t, nil)
	s := sm.CreateSession("p1", "东")

	_, err := uuid.Parse(s.ReconnectToken)
	require.NoError(t, err)
	assert.True(t, s.IsOnline)
	assert.Same(t, s, sm.GetSession("p1"))
	assert.Same(t, s, sm.GetSessionByToken(s.ReconnectToken))
	assert.Nil(t, sm.GetSessionByToken("nope"))

	// 重新创建会话会作废旧 token
	s2 := sm.CreateSession("p1", "东")
	assert.NotEqual(t, s.ReconnectToken, s2.ReconnectToken)
	assert.Nil(t, sm.GetSessionByToken(s.ReconnectToken))
}

func TestSessionManager_OnlineOffline(t *testing.T) {
	t.Parallel()

	sm := newTestManager(t, nil)
	sm.CreateSession("p1", "东")

	sm.SetOffline("p1")
	assert.False(t, sm.IsOnline("p1"))
	assert.False(t, sm.GetSession("p1").DisconnectedAt.IsZero())

	sm.SetOnline("p1")
	assert.True(t, sm.IsOnline("p1"))
	assert.True(t, sm.GetSession("p1").DisconnectedAt.IsZero())

	sm.SetRoom("p1", "123456")
	assert.Equal(t, "123456", sm.GetSession("p1").Room())

	// 不存在的玩家
	sm.SetOffline("ghost")
	assert.False(t, sm.IsOnline("ghost"))
}

func TestSessionManager_CanReconnect(t *testing.T) {
	t.Parallel()

	now := time.Now()
	sm := newTestManager(t, nil)
	sm.now = func() time.Time { return now }
	s := sm.CreateSession("p1", "东")

	tests := []struct {
		name     string
		token    string
		playerID string
		elapsed  time.Duration
		want     bool
	}{
		{"在线", s.ReconnectToken, "p1", 0, true},
		{"错误 token", "bad", "p1", 0, false},
		{"token 与玩家不匹配", s.ReconnectToken, "p2", 0, false},
		{"时限内", s.ReconnectToken, "p1", reconnectTimeout - time.Second, true},
		{"超过时限", s.ReconnectToken, "p1", reconnectTimeout + time.Second, false},
	}

	sm.SetOffline("p1")
	for _, tt := range tests {
		sm.now = func() time.Time { return now.Add(tt.elapsed) }
		assert.Equal(t, tt.want, sm.CanReconnect(tt.token, tt.playerID), tt.name)
	}
}

func TestSessionManager_Cleanup(t *testing.T) {
	t.Parallel()

	now := time.Now()
	sm := newTestManager(t, nil)
	sm.now = func() time.Time { return now }

	off := sm.CreateSession("off", "离线")
	sm.CreateSession("on", "在线")
	sm.SetOffline("off")

	sm.now = func() time.Time { return now.Add(sessionExpireTime + time.Minute) }
	sm.cleanup()

	assert.Nil(t, sm.GetSession("off"))
	assert.Nil(t, sm.GetSessionByToken(off.ReconnectToken))
	assert.NotNil(t, sm.GetSession("on"))
}

func TestSessionManager_RedisMirror(t *testing.T) {
	t.Parallel()

	store, mr := newRedisSessionStore(t)
	sm := newTestManager(t, store)

	s := sm.CreateSession("p1", "东")
	sm.SetRoom("p1", "654321")
	sm.SetOffline("p1")

	assert.Equal(t, s.ReconnectToken, mr.HGet("session:p1", "token"))
	assert.Equal(t, "654321", mr.HGet("session:p1", "room_code"))
	assert.Equal(t, "0", mr.HGet("session:p1", "is_online"))

	// 新的管理器（模拟重启）从 Redis 恢复会话
	restarted := newTestManager(t, store)
	assert.True(t, restarted.CanReconnect(s.ReconnectToken, "p1"))
	restored := restarted.GetSession("p1")
	require.NotNil(t, restored)
	assert.Equal(t, "654321", restored.Room())
	assert.False(t, restarted.CanReconnect("bad", "p2"))

	sm.DeleteSession("p1")
	data, err := store.LoadSession(context.Background(), "p1")
	require.NoError(t, err)
	assert.Nil(t, data)
}
