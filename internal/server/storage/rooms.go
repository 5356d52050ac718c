package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// RoomData 房间在 Redis 中的形态
type RoomData struct {
	Code        string       `json:"code"`
	State       string       `json:"state"`
	Players     []PlayerData `json:"players"`
	PlayerOrder []string     `json:"player_order"` // 按座位
	CreatedAt   int64        `json:"created_at"`
}

// PlayerData 房间里的一个座位
type PlayerData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Seat  int    `json:"seat"`
	Ready bool   `json:"ready"`
}

// SaveRoom data 为空时什么都不做
func (rs *RedisStore) SaveRoom(ctx context.Context, roomCode string, data *RoomData) error {
	if data == nil {
		return nil
	}
	return rs.setJSON(ctx, roomKeyPrefix+roomCode, data, roomExpiration)
}

// LoadRoom 房间不存在时返回 nil
func (rs *RedisStore) LoadRoom(ctx context.Context, code string) (*RoomData, error) {
	raw, err := rs.getRaw(ctx, roomKeyPrefix+code)
	if raw == nil || err != nil {
		return nil, err
	}
	var data RoomData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析房间 %s 失败: %w", code, err)
	}
	return &data, nil
}

func (rs *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	return rs.client.Del(ctx, roomKeyPrefix+code).Err()
}

func (rs *RedisStore) GetAllRoomCodes(ctx context.Context) ([]string, error) {
	return rs.scanSuffixes(ctx, roomKeyPrefix)
}

// SaveGameState 覆盖写入对局快照
func (rs *RedisStore) SaveGameState(ctx context.Context, roomCode string, state any) error {
	return rs.setJSON(ctx, gameKeyPrefix+roomCode, state, gameExpiration)
}

// LoadGameState 快照原始 JSON，没有时返回 nil
func (rs *RedisStore) LoadGameState(ctx context.Context, roomCode string) (json.RawMessage, error) {
	return rs.getRaw(ctx, gameKeyPrefix+roomCode)
}

func (rs *RedisStore) DeleteGameState(ctx context.Context, roomCode string) error {
	return rs.client.Del(ctx, gameKeyPrefix+roomCode).Err()
}

// ListGameStates 有快照的房间号，启动时用来清理残留
func (rs *RedisStore) ListGameStates(ctx context.Context) ([]string, error) {
	return rs.scanSuffixes(ctx, gameKeyPrefix)
}
