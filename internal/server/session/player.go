package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/hearts/internal/server/storage"
)

const (
	reconnectTimeout  = 2 * time.Minute  // 掉线后仍可凭令牌重连的时长
	sessionExpireTime = 10 * time.Minute // 离线会话的保留时长
)

// PlayerSession 一个玩家的身份与重连令牌
type PlayerSession struct {
	PlayerID       string
	PlayerName     string
	ReconnectToken string
	RoomCode       string

	DisconnectedAt time.Time
	IsOnline       bool

	mu sync.RWMutex
}

func sessionFromData(d *storage.PlayerSessionData, now time.Time) *PlayerSession {
	s := &PlayerSession{
		PlayerID:       d.PlayerID,
		PlayerName:     d.PlayerName,
		ReconnectToken: d.ReconnectToken,
		RoomCode:       d.RoomCode,
		DisconnectedAt: now,
	}
	if d.DisconnectedAt > 0 {
		s.DisconnectedAt = time.Unix(d.DisconnectedAt, 0)
	}
	return s
}

func (s *PlayerSession) data() *storage.PlayerSessionData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := &storage.PlayerSessionData{
		PlayerID:       s.PlayerID,
		PlayerName:     s.PlayerName,
		ReconnectToken: s.ReconnectToken,
		RoomCode:       s.RoomCode,
		IsOnline:       s.IsOnline,
	}
	if !s.DisconnectedAt.IsZero() {
		d.DisconnectedAt = s.DisconnectedAt.Unix()
	}
	return d
}

// offlineLonger 离线超过 d，调用方持有 s.mu
func (s *PlayerSession) offlineLonger(now time.Time, d time.Duration) bool {
	return !s.IsOnline && now.Sub(s.DisconnectedAt) > d
}

// Room 会话记录的房间号
func (s *PlayerSession) Room() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RoomCode
}

// SessionManager 按玩家 ID 与令牌索引会话，可选镜像到存储
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*PlayerSession // playerID →
	tokens   map[string]string         // token → playerID

	store    SessionStore
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionManager store 为空时只在内存中
func NewSessionManager(store SessionStore) *SessionManager {
	sm := &SessionManager{
		sessions: make(map[string]*PlayerSession),
		tokens:   make(map[string]string),
		store:    store,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go sm.cleanupLoop()
	return sm
}

func (sm *SessionManager) Close() {
	sm.stopOnce.Do(func() { close(sm.stop) })
}

// withStore 带超时访问存储，失败只记日志
func (sm *SessionManager) withStore(what, playerID string, fn func(ctx context.Context) error) {
	if sm.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Printf("⚠️ %s会话 %s 失败: %v", what, playerID, err)
	}
}

func (sm *SessionManager) persist(s *PlayerSession) {
	d := s.data()
	sm.withStore("保存", d.PlayerID, func(ctx context.Context) error {
		return sm.store.SaveSession(ctx, d)
	})
}

// index 登记会话，调用方持有 sm.mu
func (sm *SessionManager) index(s *PlayerSession) {
	if old, ok := sm.sessions[s.PlayerID]; ok {
		delete(sm.tokens, old.ReconnectToken)
	}
	sm.sessions[s.PlayerID] = s
	sm.tokens[s.ReconnectToken] = s.PlayerID
}

// CreateSession 新建会话并发放令牌，同一玩家的旧令牌作废
func (sm *SessionManager) CreateSession(playerID, playerName string) *PlayerSession {
	s := &PlayerSession{
		PlayerID:       playerID,
		PlayerName:     playerName,
		ReconnectToken: uuid.NewString(),
		IsOnline:       true,
	}
	sm.mu.Lock()
	sm.index(s)
	sm.mu.Unlock()

	sm.persist(s)
	return s
}

func (sm *SessionManager) GetSession(playerID string) *PlayerSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[playerID]
}

// GetSessionByToken 按重连令牌查找
func (sm *SessionManager) GetSessionByToken(token string) *PlayerSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if id, ok := sm.tokens[token]; ok {
		return sm.sessions[id]
	}
	return nil
}

func (sm *SessionManager) update(playerID string, fn func(*PlayerSession)) {
	s := sm.GetSession(playerID)
	if s == nil {
		return
	}
	s.mu.Lock()
	fn(s)
	s.mu.Unlock()
	sm.persist(s)
}

func (sm *SessionManager) SetOffline(playerID string) {
	now := sm.now()
	sm.update(playerID, func(s *PlayerSession) {
		s.IsOnline, s.DisconnectedAt = false, now
	})
}

func (sm *SessionManager) SetOnline(playerID string) {
	sm.update(playerID, func(s *PlayerSession) {
		s.IsOnline, s.DisconnectedAt = true, time.Time{}
	})
}

func (sm *SessionManager) SetRoom(playerID, roomCode string) {
	sm.update(playerID, func(s *PlayerSession) { s.RoomCode = roomCode })
}

// DeleteSession 删除会话，令牌随之失效
func (sm *SessionManager) DeleteSession(playerID string) {
	sm.mu.Lock()
	s, ok := sm.sessions[playerID]
	if ok {
		delete(sm.tokens, s.ReconnectToken)
		delete(sm.sessions, playerID)
	}
	sm.mu.Unlock()

	if ok {
		sm.withStore("删除", playerID, func(ctx context.Context) error {
			return sm.store.DeleteSession(ctx, playerID)
		})
	}
}

// CanReconnect 令牌匹配且未超过重连时限。
// 内存里没有时（服务重启后）从存储恢复
func (sm *SessionManager) CanReconnect(token, playerID string) bool {
	s := sm.GetSession(playerID)
	if s == nil {
		s = sm.restore(playerID)
	}
	if s == nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ReconnectToken == token && !s.offlineLonger(sm.now(), reconnectTimeout)
}

func (sm *SessionManager) restore(playerID string) *PlayerSession {
	var data *storage.PlayerSessionData
	sm.withStore("加载", playerID, func(ctx context.Context) (err error) {
		data, err = sm.store.LoadSession(ctx, playerID)
		return err
	})
	if data == nil {
		return nil
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if existing, ok := sm.sessions[playerID]; ok {
		return existing
	}
	s := sessionFromData(data, sm.now())
	sm.index(s)
	return s
}

func (sm *SessionManager) IsOnline(playerID string) bool {
	s := sm.GetSession(playerID)
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.IsOnline
}

func (sm *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sm.cleanup()
		case <-sm.stop:
			return
		}
	}
}

// cleanup 丢弃离线过久的会话
func (sm *SessionManager) cleanup() {
	now := sm.now()

	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, s := range sm.sessions {
		s.mu.RLock()
		stale := s.offlineLonger(now, sessionExpireTime)
		s.mu.RUnlock()
		if stale {
			delete(sm.tokens, s.ReconnectToken)
			delete(sm.sessions, id)
		}
	}
}
