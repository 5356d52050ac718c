package room

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/hearts/internal/server/storage"
)

const storeTimeout = 2 * time.Second

// ToRoomData 将 Room 转换为可序列化的 RoomData
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.toRoomData()
}

func (r *Room) toRoomData() *storage.RoomData {
	seated := r.seated()
	data := &storage.RoomData{
		Code:        r.Code,
		State:       r.State.String(),
		Players:     make([]storage.PlayerData, 0, len(seated)),
		PlayerOrder: make([]string, 0, len(seated)),
		CreatedAt:   r.CreatedAt.Unix(),
	}
	for _, p := range seated {
		data.Players = append(data.Players, storage.PlayerData{
			ID:    p.Client.GetID(),
			Name:  p.Client.GetName(),
			Seat:  p.Seat,
			Ready: p.Ready,
		})
		data.PlayerOrder = append(data.PlayerOrder, p.Client.GetID())
	}
	return data
}

// save 异步写入 Redis，调用方持有 r.mu
func (rm *RoomManager) save(r *Room) {
	if rm.store == nil {
		return
	}
	data := r.toRoomData()
	rm.enqueue(func(ctx context.Context) {
		if err := rm.store.SaveRoom(ctx, data.Code, data); err != nil {
			log.Printf("⚠️ 保存房间 %s 失败: %v", data.Code, err)
		}
	})
}

func (rm *RoomManager) remove(code string) {
	if rm.store == nil {
		return
	}
	rm.enqueue(func(ctx context.Context) {
		if err := rm.store.DeleteRoom(ctx, code); err != nil {
			log.Printf("⚠️ 删除房间 %s 失败: %v", code, err)
		}
	})
}

func (rm *RoomManager) enqueue(write func(ctx context.Context)) {
	select {
	case rm.writes <- write:
	case <-rm.stop:
	}
}

// writeLoop 按顺序执行 Redis 写入，保证同一房间的保存与删除不乱序
func (rm *RoomManager) writeLoop() {
	for {
		select {
		case write := <-rm.writes:
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			write(ctx)
			cancel()
		case <-rm.stop:
			return
		}
	}
}
