// Package storage Redis 上的房间、对局快照、会话、匹配队列与排行榜
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// key 布局
const (
	roomKeyPrefix    = "room:"    // room:<code> JSON
	gameKeyPrefix    = "game:"    // game:<code> 对局快照 JSON
	sessionKeyPrefix = "session:" // session:<playerID> hash
	matchQueueKey    = "match:queue"

	roomExpiration = 2 * time.Hour
	gameExpiration = 2 * time.Hour
)

// RedisStore 服务端的全部持久化都经过它
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping 检查连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

func (rs *RedisStore) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", key, err)
	}
	return rs.client.Set(ctx, key, raw, ttl).Err()
}

// getRaw key 不存在时返回 nil, nil
func (rs *RedisStore) getRaw(ctx context.Context, key string) ([]byte, error) {
	raw, err := rs.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return raw, err
}

// scanSuffixes 列出某前缀下所有 key 去掉前缀后的部分
func (rs *RedisStore) scanSuffixes(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	iter := rs.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, strings.TrimPrefix(iter.Val(), prefix))
	}
	return out, iter.Err()
}
