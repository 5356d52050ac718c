package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	playerStatsKey = "player:stats:"
	totalBoardKey  = "leaderboard:rating"
	defaultTopN    = 10
)

// board 一张按积分排序的 zset
type board struct {
	key func(now time.Time) string
	ttl time.Duration // 0 表示永久
}

var boards = map[string]board{
	"total": {key: func(time.Time) string { return totalBoardKey }},
	"daily": {
		key: func(now time.Time) string { return "leaderboard:daily:" + now.Format(time.DateOnly) },
		ttl: 48 * time.Hour,
	},
	"weekly": {
		key: func(now time.Time) string {
			y, w := now.ISOWeek()
			return fmt.Sprintf("leaderboard:weekly:%d-W%02d", y, w)
		},
		ttl: 8 * 24 * time.Hour,
	},
}

// LeaderboardEntry 排行榜的一行
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Rating     int     `json:"rating"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

// LeaderboardManager 战绩与总榜、日榜、周榜
type LeaderboardManager struct {
	redis *redis.Client
	now   func() time.Time
}

func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client, now: time.Now}
}

func decodeStats(raw string) (*PlayerStats, error) {
	var s PlayerStats
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("解析战绩失败: %w", err)
	}
	return &s, nil
}

// GetPlayerStats 没有战绩时返回 nil
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	raw, err := lm.redis.Get(ctx, playerStatsKey+playerID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeStats(raw)
}

// RecordGameResult 更新战绩并写入三张榜，同一事务提交
func (lm *LeaderboardManager) RecordGameResult(ctx context.Context, res GameResult) error {
	now := lm.now()
	stats, err := lm.GetPlayerStats(ctx, res.PlayerID)
	if err != nil {
		return err
	}
	if stats == nil {
		stats = &PlayerStats{PlayerID: res.PlayerID, CreatedAt: now.Unix()}
	}
	if err := stats.apply(res, now.Unix()); err != nil {
		return err
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	member := redis.Z{Score: float64(stats.Rating), Member: stats.PlayerID}

	_, err = lm.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, playerStatsKey+stats.PlayerID, raw, 0)
		for _, b := range boards {
			key := b.key(now)
			pipe.ZAdd(ctx, key, member)
			if b.ttl > 0 {
				pipe.Expire(ctx, key, b.ttl)
			}
		}
		return nil
	})
	return err
}

// GetLeaderboard 按积分从高到低分页，类型为 total/daily/weekly，未知类型按 total
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, leaderboardType string, offset, limit int) ([]*LeaderboardEntry, error) {
	b, ok := boards[leaderboardType]
	if !ok {
		b = boards["total"]
	}
	if limit <= 0 {
		limit = defaultTopN
	}
	offset = max(0, offset)

	ranked, err := lm.redis.ZRevRangeWithScores(ctx, b.key(lm.now()), int64(offset), int64(offset+limit-1)).Result()
	if err != nil || len(ranked) == 0 {
		return []*LeaderboardEntry{}, err
	}

	keys := make([]string, len(ranked))
	for i, z := range ranked {
		keys[i] = playerStatsKey + fmt.Sprint(z.Member)
	}
	raws, err := lm.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(ranked))
	for i, z := range ranked {
		raw, ok := raws[i].(string)
		if !ok {
			continue
		}
		s, err := decodeStats(raw)
		if err != nil {
			continue
		}
		entries = append(entries, &LeaderboardEntry{
			Rank:       offset + i + 1,
			PlayerID:   s.PlayerID,
			PlayerName: s.PlayerName,
			Rating:     int(z.Score),
			Wins:       s.Wins,
			WinRate:    s.WinRate(),
		})
	}
	return entries, nil
}

// GetPlayerRank 总榜名次，从 1 开始，未上榜返回 -1
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	rank, err := lm.redis.ZRevRank(ctx, totalBoardKey, playerID).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return -1, nil
	case err != nil:
		return -1, err
	}
	return rank + 1, nil
}
