//go:build !production

package room

import (
	"time"

	"github.com/palemoky/hearts/internal/types"
)

// NewMockRoom 创建测试用的 Room，clients 依次入座
func NewMockRoom(code string, clients ...types.ClientInterface) *Room {
	room := &Room{
		Code:      code,
		State:     RoomStateWaiting,
		Players:   make(map[string]*RoomPlayer),
		CreatedAt: time.Now(),
	}
	for i, c := range clients {
		room.Players[c.GetID()] = &RoomPlayer{Client: c, Seat: i, Online: true}
		c.SetRoom(code)
	}
	return room
}

// AddRoomForTest 添加房间用于测试
func (rm *RoomManager) AddRoomForTest(room *Room) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.rooms[room.Code] = room
}
