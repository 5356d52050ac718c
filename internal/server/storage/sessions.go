package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// PlayerSessionData 会话在 Redis hash 中的字段
type PlayerSessionData struct {
	PlayerID       string `redis:"player_id"`
	PlayerName     string `redis:"player_name"`
	ReconnectToken string `redis:"token"`
	RoomCode       string `redis:"room_code"`
	IsOnline       bool   `redis:"is_online"`
	DisconnectedAt int64  `redis:"disconnected_at"` // Unix 秒，0 表示在线
}

func (rs *RedisStore) SaveSession(ctx context.Context, s *PlayerSessionData) error {
	return rs.client.HSet(ctx, sessionKeyPrefix+s.PlayerID, s).Err()
}

// LoadSession 会话不存在时返回 nil
func (rs *RedisStore) LoadSession(ctx context.Context, playerID string) (*PlayerSessionData, error) {
	res := rs.client.HGetAll(ctx, sessionKeyPrefix+playerID)
	fields, err := res.Result()
	if err != nil || len(fields) == 0 {
		return nil, err
	}
	var s PlayerSessionData
	if err := res.Scan(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (rs *RedisStore) DeleteSession(ctx context.Context, playerID string) error {
	return rs.client.Del(ctx, sessionKeyPrefix+playerID).Err()
}

// --- 匹配队列，先进先出 ---

func (rs *RedisStore) AddToMatchQueue(ctx context.Context, playerID string) error {
	return rs.client.RPush(ctx, matchQueueKey, playerID).Err()
}

func (rs *RedisStore) RemoveFromMatchQueue(ctx context.Context, playerID string) error {
	return rs.client.LRem(ctx, matchQueueKey, 0, playerID).Err()
}

func (rs *RedisStore) GetMatchQueueLength(ctx context.Context) (int64, error) {
	return rs.client.LLen(ctx, matchQueueKey).Result()
}

// PopFromMatchQueue 弹出至多 count 个玩家，队列空时返回空切片
func (rs *RedisStore) PopFromMatchQueue(ctx context.Context, count int) ([]string, error) {
	ids, err := rs.client.LPopCount(ctx, matchQueueKey, count).Result()
	if errors.Is(err, redis.Nil) {
		return []string{}, nil
	}
	return ids, err
}
