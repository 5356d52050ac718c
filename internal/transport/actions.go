package transport

import (
	"time"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
)

// --- 便捷方法 ---

func (c *Client) sendType(t protocol.MessageType, payload any) error {
	return c.SendMessage(codec.MustNewMessage(t, payload))
}

// CreateRoom 创建房间
func (c *Client) CreateRoom() error { return c.sendType(protocol.MsgCreateRoom, nil) }

// JoinRoom 加入房间
func (c *Client) JoinRoom(roomCode string) error {
	return c.sendType(protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: roomCode})
}

// LeaveRoom 离开房间
func (c *Client) LeaveRoom() error { return c.sendType(protocol.MsgLeaveRoom, nil) }

// QuickMatch 快速匹配
func (c *Client) QuickMatch() error { return c.sendType(protocol.MsgQuickMatch, nil) }

// CancelMatch 取消匹配
func (c *Client) CancelMatch() error { return c.sendType(protocol.MsgCancelMatch, nil) }

// Ready 准备
func (c *Client) Ready() error { return c.sendType(protocol.MsgReady, nil) }

// CancelReady 取消准备
func (c *Client) CancelReady() error { return c.sendType(protocol.MsgCancelReady, nil) }

// SelectPass 选择要传出的 3 张牌
func (c *Client) SelectPass(cards []protocol.CardInfo) error {
	return c.sendType(protocol.MsgSelectPass, protocol.SelectPassPayload{Cards: cards})
}

// PlayCard 出一张牌
func (c *Client) PlayCard(card protocol.CardInfo) error {
	return c.sendType(protocol.MsgPlayCard, protocol.PlayCardPayload{Card: card})
}

// GetGameState 拉取当前对局视角
func (c *Client) GetGameState() error { return c.sendType(protocol.MsgGetGameState, nil) }

// GetStats 获取个人统计
func (c *Client) GetStats() error { return c.sendType(protocol.MsgGetStats, nil) }

// GetLeaderboard 获取排行榜
func (c *Client) GetLeaderboard(leaderboardType string, offset, limit int) error {
	return c.sendType(protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{
		Type:   leaderboardType,
		Offset: offset,
		Limit:  limit,
	})
}

// GetRoomList 获取房间列表
func (c *Client) GetRoomList() error { return c.sendType(protocol.MsgGetRoomList, nil) }

// GetOnlineCount 获取在线人数
func (c *Client) GetOnlineCount() error { return c.sendType(protocol.MsgGetOnlineCount, nil) }

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.sendType(protocol.MsgPing, protocol.PingPayload{Timestamp: time.Now().UnixMilli()})
}
