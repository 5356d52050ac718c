package handler

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/server/storage"
	"github.com/palemoky/hearts/internal/types"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
	defaultLeaderboardType  = "total"
	queryTimeout            = 3 * time.Second
)

// query 带超时查排行榜服务，服务缺失或出错时回 Unknown
func (h *Handler) query(client types.ClientInterface, what string, fn func(ctx context.Context, lb Leaderboard) error) {
	if h.leaderboard == nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "排行榜服务不可用"))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := fn(ctx, h.leaderboard); err != nil {
		log.Printf("⚠️ 查询%s失败 (%s): %v", what, client.GetID(), err)
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "获取"+what+"失败"))
	}
}

func statsPayload(s *storage.PlayerStats, rank int64) protocol.StatsResultPayload {
	return protocol.StatsResultPayload{
		PlayerID:      s.PlayerID,
		PlayerName:    s.PlayerName,
		TotalGames:    s.TotalGames,
		Wins:          s.Wins,
		Placements:    s.Placements,
		WinRate:       s.WinRate(),
		MoonShots:     s.MoonShots,
		PointsTaken:   s.PointsTaken,
		AvgScore:      s.AvgScore(),
		Rating:        s.Rating,
		Rank:          int(rank),
		CurrentStreak: s.CurrentStreak,
		MaxWinStreak:  s.MaxWinStreak,
	}
}

// handleGetStats 没打过牌的玩家回一份只有名字的空战绩
func (h *Handler) handleGetStats(client types.ClientInterface) {
	h.query(client, "战绩", func(ctx context.Context, lb Leaderboard) error {
		stats, err := lb.GetPlayerStats(ctx, client.GetID())
		if err != nil {
			return err
		}
		out := protocol.StatsResultPayload{PlayerID: client.GetID(), PlayerName: client.GetName()}
		if stats != nil {
			rank, _ := lb.GetPlayerRank(ctx, client.GetID()) // 未上榜为 0
			out = statsPayload(stats, rank)
		}
		client.SendMessage(codec.MustNewMessage(protocol.MsgStatsResult, out))
		return nil
	})
}

// normalizeLeaderboardQuery 空请求为总榜前十，limit 越界收回默认
func normalizeLeaderboardQuery(req *protocol.GetLeaderboardPayload) protocol.GetLeaderboardPayload {
	q := protocol.GetLeaderboardPayload{Type: defaultLeaderboardType, Limit: defaultLeaderboardLimit}
	if req == nil {
		return q
	}
	if req.Type != "" {
		q.Type = req.Type
	}
	if req.Limit > 0 && req.Limit <= maxLeaderboardLimit {
		q.Limit = req.Limit
	}
	q.Offset = max(req.Offset, 0)
	return q
}

func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	req, _ := codec.ParsePayload[protocol.GetLeaderboardPayload](msg) // 解析失败按空请求处理
	q := normalizeLeaderboardQuery(req)

	h.query(client, "排行榜", func(ctx context.Context, lb Leaderboard) error {
		entries, err := lb.GetLeaderboard(ctx, q.Type, q.Offset, q.Limit)
		if err != nil {
			return err
		}
		rows := make([]protocol.LeaderboardEntry, len(entries))
		for i, e := range entries {
			rows[i] = protocol.LeaderboardEntry{
				Rank:       e.Rank,
				PlayerID:   e.PlayerID,
				PlayerName: e.PlayerName,
				Rating:     e.Rating,
				Wins:       e.Wins,
				WinRate:    e.WinRate,
			}
		}
		client.SendMessage(codec.MustNewMessage(protocol.MsgLeaderboardResult,
			protocol.LeaderboardResultPayload{Type: q.Type, Entries: rows}))
		return nil
	})
}

func (h *Handler) handleGetRoomList(client types.ClientInterface) {
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomListResult,
		protocol.RoomListResultPayload{Rooms: h.roomManager.GetRoomList()}))
}

func (h *Handler) handleGetOnlineCount(client types.ClientInterface) {
	client.SendMessage(codec.MustNewMessage(protocol.MsgOnlineCount,
		protocol.OnlineCountPayload{Count: h.server.GetOnlineCount()}))
}

func (h *Handler) handleGetMaintenanceStatus(client types.ClientInterface) {
	client.SendMessage(codec.MustNewMessage(protocol.MsgMaintenancePull,
		protocol.MaintenanceStatusPayload{Maintenance: h.server.IsMaintenanceMode()}))
}
