package match

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/palemoky/hearts/internal/game/room"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/types"
)

const storeTimeout = 2 * time.Second

// QueueStore 匹配队列的 Redis 镜像（match:queue）
type QueueStore interface {
	AddToMatchQueue(ctx context.Context, playerID string) error
	RemoveFromMatchQueue(ctx context.Context, playerID string) error
	PopFromMatchQueue(ctx context.Context, count int) ([]string, error)
}

// MatcherDeps 匹配器依赖
type MatcherDeps struct {
	RoomManager *room.RoomManager
	Store       QueueStore // 可为空
}

// Matcher 快速匹配，凑满四人自动开桌
type Matcher struct {
	deps  MatcherDeps
	queue []types.ClientInterface
	mu    sync.Mutex
}

// NewMatcher 创建匹配器
func NewMatcher(deps MatcherDeps) *Matcher {
	return &Matcher{
		deps:  deps,
		queue: make([]types.ClientInterface, 0),
	}
}

// AddToQueue 加入匹配队列
func (m *Matcher) AddToQueue(client types.ClientInterface) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 检查是否已在队列中
	for _, c := range m.queue {
		if c.GetID() == client.GetID() {
			return
		}
	}

	m.queue = append(m.queue, client)
	m.mirror(func(ctx context.Context, s QueueStore) error {
		return s.AddToMatchQueue(ctx, client.GetID())
	})
	log.Printf("🔍 玩家 %s 加入匹配队列，当前队列长度: %d", client.GetName(), len(m.queue))

	// 检查是否可以匹配
	m.tryMatch()
}

// RemoveFromQueue 从匹配队列移除
func (m *Matcher) RemoveFromQueue(client types.ClientInterface) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.queue {
		if c.GetID() == client.GetID() {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			m.mirror(func(ctx context.Context, s QueueStore) error {
				return s.RemoveFromMatchQueue(ctx, client.GetID())
			})
			log.Printf("🔍 玩家 %s 离开匹配队列", client.GetName())
			return
		}
	}
}

// GetQueueLength 获取队列长度
func (m *Matcher) GetQueueLength() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// tryMatch 尝试匹配，调用方持有 m.mu
func (m *Matcher) tryMatch() {
	if len(m.queue) < room.MaxPlayers {
		return
	}

	// 取出前 4 个玩家
	players := make([]types.ClientInterface, room.MaxPlayers)
	copy(players, m.queue)
	m.queue = m.queue[room.MaxPlayers:]
	m.mirror(func(ctx context.Context, s QueueStore) error {
		_, err := s.PopFromMatchQueue(ctx, room.MaxPlayers)
		return err
	})

	go m.createMatchRoom(players)
}

// createMatchRoom 创建匹配房间并自动准备
func (m *Matcher) createMatchRoom(players []types.ClientInterface) {
	rm := m.deps.RoomManager

	r, err := rm.CreateRoom(players[0])
	if err != nil {
		log.Printf("⚠️ 匹配创建房间失败: %v", err)
		m.requeue(players[1:])
		return
	}

	seated := []types.ClientInterface{players[0]}
	for _, client := range players[1:] {
		if _, err := rm.JoinRoom(client, r.Code); err != nil {
			log.Printf("⚠️ 匹配加入房间失败: %v", err)
			continue
		}
		seated = append(seated, client)
	}

	// 有人已不在匹配状态（例如已进入其他房间），解散并让其余人继续排队
	if len(seated) < room.MaxPlayers {
		for _, client := range seated {
			rm.LeaveRoom(client)
		}
		m.requeue(seated)
		return
	}

	log.Printf("🎮 匹配成功！房间 %s，玩家: %s, %s, %s, %s",
		r.Code, players[0].GetName(), players[1].GetName(), players[2].GetName(), players[3].GetName())

	infos := r.GetAllPlayersInfo()
	found := codec.MustNewMessage(protocol.MsgMatchFound, protocol.MatchFoundPayload{
		RoomCode: r.Code,
		Players:  infos,
	})
	for _, client := range players {
		client.SendMessage(found)
		client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
			RoomCode: r.Code,
			Player:   r.GetPlayerInfo(client.GetID()),
			Players:  infos,
		}))
	}

	// 自动准备所有玩家，最后一人准备后开局
	for _, client := range players {
		if err := rm.SetPlayerReady(client, true); err != nil {
			log.Printf("⚠️ 匹配自动准备失败: %v", err)
			return
		}
	}
}

func (m *Matcher) requeue(players []types.ClientInterface) {
	for _, client := range players {
		if client.GetRoom() == "" {
			m.AddToQueue(client)
		}
	}
}

// mirror 同步写入 Redis 镜像，失败只记录日志
func (m *Matcher) mirror(op func(ctx context.Context, s QueueStore) error) {
	if m.deps.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := op(ctx, m.deps.Store); err != nil {
		log.Printf("⚠️ 同步匹配队列失败: %v", err)
	}
}
