package room

import (
	"cmp"
	"log"
	"slices"

	"github.com/palemoky/hearts/internal/apperrors"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/types"
)

// lookup 取房间与当前钩子，房间不存在返回 nil
func (rm *RoomManager) lookup(code string) (*Room, Hooks) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code], rm.hooks
}

// eachRoom 在房间读锁下遍历，fn 返回 false 停止
func (rm *RoomManager) eachRoom(fn func(r *Room) bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	for _, r := range rm.rooms {
		r.mu.RLock()
		more := fn(r)
		r.mu.RUnlock()
		if !more {
			return
		}
	}
}

// resetReadyLocked 回到等待状态并清空准备，调用方持有 r.mu
func (r *Room) resetReadyLocked() {
	r.State = RoomStateWaiting
	for _, p := range r.Players {
		p.Ready = false
	}
}

// CreateRoom 开一个新房间，创建者坐 0 号位
func (rm *RoomManager) CreateRoom(client types.ClientInterface) (*Room, error) {
	if client.GetRoom() != "" {
		return nil, apperrors.ErrAlreadyInRoom
	}

	rm.mu.Lock()
	code := rm.generateRoomCode()
	r := &Room{
		Code:      code,
		State:     RoomStateWaiting,
		Players:   map[string]*RoomPlayer{client.GetID(): {Client: client, Seat: 0, Online: true}},
		CreatedAt: rm.now(),
	}
	rm.rooms[code] = r
	rm.mu.Unlock()

	client.SetRoom(code)
	r.mu.RLock()
	rm.save(r)
	r.mu.RUnlock()

	log.Printf("🏠 房间 %s 已创建，玩家 %s", code, client.GetName())
	return r, nil
}

// JoinRoom 坐进编号最小的空位
func (rm *RoomManager) JoinRoom(client types.ClientInterface, code string) (*Room, error) {
	if client.GetRoom() != "" {
		return nil, apperrors.ErrAlreadyInRoom
	}
	r, _ := rm.lookup(code)
	if r == nil {
		return nil, apperrors.ErrRoomNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.State != RoomStateWaiting:
		return nil, apperrors.ErrGameStarted
	case r.freeSeat() < 0:
		return nil, apperrors.ErrRoomFull
	}

	p := &RoomPlayer{Client: client, Seat: r.freeSeat(), Online: true}
	r.Players[client.GetID()] = p
	client.SetRoom(code)
	log.Printf("👤 玩家 %s 加入房间 %s (座位 %d)", client.GetName(), code, p.Seat)

	r.BroadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerJoined,
		protocol.PlayerJoinedPayload{Player: r.playerInfo(p)}))
	rm.save(r)
	return r, nil
}

// LeaveRoom 离开房间。牌局中离开会终止这桌的牌局，最后一人离开则解散
func (rm *RoomManager) LeaveRoom(client types.ClientInterface) {
	code := client.GetRoom()
	if code == "" {
		return
	}
	client.SetRoom("")

	r, hooks := rm.lookup(code)
	if r == nil {
		return
	}

	r.mu.Lock()
	p, ok := r.Players[client.GetID()]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.Players, client.GetID())
	r.BroadcastExcept(client.GetID(), codec.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
	}))

	aborted := r.State == RoomStatePlaying
	if aborted {
		r.resetReadyLocked()
	}
	disband := len(r.Players) == 0
	if disband {
		r.State = RoomStateEnded
	} else {
		rm.save(r)
	}
	r.mu.Unlock()

	log.Printf("👋 玩家 %s 离开房间 %s (座位 %d)", client.GetName(), code, p.Seat)

	if aborted && hooks.OnTeardown != nil {
		hooks.OnTeardown(code)
	}
	if disband {
		rm.deleteRoom(code)
		log.Printf("🏠 房间 %s 已解散", code)
	}
}

// SetPlayerReady 准备或取消准备。四人都准备后触发 OnStart
func (rm *RoomManager) SetPlayerReady(client types.ClientInterface, ready bool) error {
	code := client.GetRoom()
	if code == "" {
		return apperrors.ErrNotInRoom
	}
	r, hooks := rm.lookup(code)
	if r == nil {
		return apperrors.ErrRoomNotFound
	}

	r.mu.Lock()
	p, ok := r.Players[client.GetID()]
	switch {
	case !ok:
		r.mu.Unlock()
		return apperrors.ErrNotInRoom
	case r.State != RoomStateWaiting:
		r.mu.Unlock()
		return apperrors.ErrGameStarted
	}

	p.Ready = ready
	r.Broadcast(codec.MustNewMessage(protocol.MsgPlayerReady, protocol.PlayerReadyPayload{
		PlayerID: client.GetID(),
		Ready:    ready,
	}))

	var table []types.ClientInterface
	if r.checkAllReady() {
		r.State = RoomStatePlaying
		table = r.clients()
		log.Printf("🎮 房间 %s 四人已准备，开始游戏", code)
	}
	rm.save(r)
	r.mu.Unlock()

	if table != nil && hooks.OnStart != nil {
		hooks.OnStart(r, table)
	}
	return nil
}

// FinishGame 牌局结束，房间回到等待状态，可以再开一局
func (rm *RoomManager) FinishGame(code string) {
	r, _ := rm.lookup(code)
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.State == RoomStatePlaying {
		r.resetReadyLocked()
		rm.save(r)
	}
}

func (rm *RoomManager) GetRoom(code string) *Room {
	r, _ := rm.lookup(code)
	return r
}

// GetRoomList 等待中且未满的房间，按房间号排序
func (rm *RoomManager) GetRoomList() []protocol.RoomListItem {
	list := []protocol.RoomListItem{}
	rm.eachRoom(func(r *Room) bool {
		if r.State == RoomStateWaiting && len(r.Players) < MaxPlayers {
			list = append(list, protocol.RoomListItem{
				RoomCode:    r.Code,
				PlayerCount: len(r.Players),
				MaxPlayers:  MaxPlayers,
			})
		}
		return true
	})
	slices.SortFunc(list, func(a, b protocol.RoomListItem) int { return cmp.Compare(a.RoomCode, b.RoomCode) })
	return list
}

// GetRoomByPlayerID 玩家所在的房间
func (rm *RoomManager) GetRoomByPlayerID(playerID string) *Room {
	var found *Room
	rm.eachRoom(func(r *Room) bool {
		if _, ok := r.Players[playerID]; ok {
			found = r
		}
		return found == nil
	})
	return found
}

// GetActiveGamesCount 正在打牌的桌数
func (rm *RoomManager) GetActiveGamesCount() int {
	n := 0
	rm.eachRoom(func(r *Room) bool {
		if r.State == RoomStatePlaying {
			n++
		}
		return true
	})
	return n
}

func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}
