package room

import (
	"fmt"
	"log"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/types"
)

// offlineNoticeTimeout 等待中的房间里掉线提示附带的秒数
const offlineNoticeTimeout = 20

// NotifyPlayerOffline 标记掉线。牌局中的掉线提示由对局会话负责，
// 这里只在等待阶段广播。返回玩家是否在牌局中
func (rm *RoomManager) NotifyPlayerOffline(client types.ClientInterface) bool {
	code := client.GetRoom()
	if code == "" {
		return false
	}
	r, hooks := rm.lookup(code)
	if r == nil {
		return false
	}

	r.mu.Lock()
	p, ok := r.Players[client.GetID()]
	if !ok {
		r.mu.Unlock()
		return false
	}
	p.Online = false
	playing := r.State == RoomStatePlaying

	anyoneLeft := false
	for _, other := range r.Players {
		anyoneLeft = anyoneLeft || other.Online
	}
	if !anyoneLeft {
		r.State = RoomStateEnded
		r.mu.Unlock()

		log.Printf("🧹 房间 %s 所有玩家已断开连接，清理房间", code)
		if playing && hooks.OnTeardown != nil {
			hooks.OnTeardown(code)
		}
		rm.deleteRoom(code)
		return false
	}

	if !playing {
		r.BroadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
			PlayerID:   client.GetID(),
			PlayerName: client.GetName(),
			Timeout:    offlineNoticeTimeout,
		}))
	}
	r.mu.Unlock()

	log.Printf("📴 玩家 %s 在房间 %s 中掉线", client.GetName(), code)
	return playing
}

// ReconnectPlayer 把新连接接回原座位，玩家不在任何房间时返回 nil
func (rm *RoomManager) ReconnectPlayer(c types.ClientInterface) *Room {
	r := rm.GetRoomByPlayerID(c.GetID())
	if r == nil {
		return nil
	}

	r.mu.Lock()
	p, ok := r.Players[c.GetID()]
	if !ok {
		r.mu.Unlock()
		return nil
	}
	p.Client, p.Online = c, true
	c.SetRoom(r.Code)
	if r.State != RoomStatePlaying {
		r.BroadcastExcept(c.GetID(), codec.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
			PlayerID:   c.GetID(),
			PlayerName: c.GetName(),
		}))
	}
	r.mu.Unlock()

	log.Printf("📶 玩家 %s 重连到房间 %s", c.GetName(), r.Code)
	return r
}

func (rm *RoomManager) deleteRoom(code string) {
	rm.mu.Lock()
	delete(rm.rooms, code)
	rm.mu.Unlock()
	rm.remove(code)
}

// generateRoomCode 六位数字房间号，调用方持有 rm.mu
func (rm *RoomManager) generateRoomCode() string {
	for {
		code := fmt.Sprintf("%0*d", roomCodeLength, rand.IntN(roomCodeSpace))
		if _, taken := rm.rooms[code]; !taken {
			return code
		}
	}
}

func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rm.cleanup()
		case <-rm.stop:
			return
		}
	}
}

// cleanup 关闭等待超过 roomTimeout 还没开局的房间
func (rm *RoomManager) cleanup() {
	now := rm.now()
	closed := codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "房间超时已关闭")

	rm.mu.Lock()
	defer rm.mu.Unlock()

	var expired []string
	for code, r := range rm.rooms {
		r.mu.Lock()
		if r.State == RoomStateWaiting && now.Sub(r.CreatedAt) > rm.roomTimeout {
			r.Broadcast(closed)
			for _, p := range r.Players {
				p.Client.SetRoom("")
			}
			r.State = RoomStateEnded
			expired = append(expired, code)
		}
		r.mu.Unlock()
	}

	slices.Sort(expired)
	for _, code := range expired {
		delete(rm.rooms, code)
		rm.remove(code)
		log.Printf("🏠 房间 %s 超时已清理", code)
	}
}
