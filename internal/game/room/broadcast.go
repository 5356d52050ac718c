package room

import (
	"slices"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/types"
)

// 以下方法要求调用方持有 r.mu

// Broadcast 广播消息给房间内所有在线玩家
func (r *Room) Broadcast(msg *protocol.Message) {
	r.BroadcastExcept("", msg)
}

// BroadcastExcept 广播消息给除指定玩家外的所有在线玩家
func (r *Room) BroadcastExcept(excludeID string, msg *protocol.Message) {
	for id, player := range r.Players {
		if id != excludeID && player.Online && player.Client != nil {
			player.Client.SendMessage(msg)
		}
	}
}

// checkAllReady 检查是否四人都已准备
func (r *Room) checkAllReady() bool {
	if len(r.Players) < MaxPlayers {
		return false
	}
	for _, player := range r.Players {
		if !player.Ready {
			return false
		}
	}
	return true
}

// freeSeat 最小的空座位，满员返回 -1
func (r *Room) freeSeat() int {
	var taken [MaxPlayers]bool
	for _, p := range r.Players {
		taken[p.Seat] = true
	}
	for seat, t := range taken {
		if !t {
			return seat
		}
	}
	return -1
}

// seated 按座位排序的玩家
func (r *Room) seated() []*RoomPlayer {
	players := make([]*RoomPlayer, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p)
	}
	slices.SortFunc(players, func(a, b *RoomPlayer) int { return a.Seat - b.Seat })
	return players
}

func (r *Room) playerInfo(p *RoomPlayer) protocol.PlayerInfo {
	return protocol.PlayerInfo{
		ID:     p.Client.GetID(),
		Name:   p.Client.GetName(),
		Seat:   p.Seat,
		Ready:  p.Ready,
		Online: p.Online,
	}
}

// --- 加锁的只读方法 ---

// GetPlayerInfo 获取玩家信息
func (r *Room) GetPlayerInfo(playerID string) protocol.PlayerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.Players[playerID]; ok {
		return r.playerInfo(p)
	}
	return protocol.PlayerInfo{}
}

// GetAllPlayersInfo 按座位顺序获取所有玩家信息
func (r *Room) GetAllPlayersInfo() []protocol.PlayerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.allPlayersInfo()
}

func (r *Room) allPlayersInfo() []protocol.PlayerInfo {
	seated := r.seated()
	infos := make([]protocol.PlayerInfo, len(seated))
	for i, p := range seated {
		infos[i] = r.playerInfo(p)
	}
	return infos
}

// Clients 按座位顺序返回客户端
func (r *Room) Clients() []types.ClientInterface {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients()
}

func (r *Room) clients() []types.ClientInterface {
	seated := r.seated()
	clients := make([]types.ClientInterface, len(seated))
	for i, p := range seated {
		clients[i] = p.Client
	}
	return clients
}

// PlayerCount 入座人数
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Players)
}

// GetState 房间状态
func (r *Room) GetState() RoomState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.State
}

// HasPlayer 玩家是否在房间中
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.Players[playerID]
	return ok
}

// SetAllPlayersReady 设置所有玩家准备状态
func (r *Room) SetAllPlayersReady() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, player := range r.Players {
		player.Ready = true
	}
}
