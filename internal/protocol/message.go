// Package protocol 客户端与服务端之间的消息定义
package protocol

import "encoding/json"

// MessageType 消息类型，线上为字符串
type MessageType string

// Message 一条消息。Payload 按 Type 解码为对应的 *Payload 结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// 连接与心跳
const (
	MsgConnected     MessageType = "connected"      // ← 分配身份与重连令牌
	MsgReconnect     MessageType = "reconnect"      // → 携带令牌重连
	MsgReconnected   MessageType = "reconnected"    // ← 恢复身份与牌局
	MsgPing          MessageType = "ping"           // →
	MsgPong          MessageType = "pong"           // ←
	MsgPlayerOffline MessageType = "player_offline" // ← 同桌玩家掉线
	MsgPlayerOnline  MessageType = "player_online"  // ← 同桌玩家回来
)

// 大厅与房间
const (
	MsgCreateRoom   MessageType = "create_room"
	MsgRoomCreated  MessageType = "room_created"
	MsgJoinRoom     MessageType = "join_room"
	MsgRoomJoined   MessageType = "room_joined"
	MsgLeaveRoom    MessageType = "leave_room"
	MsgPlayerJoined MessageType = "player_joined"
	MsgPlayerLeft   MessageType = "player_left"
	MsgReady        MessageType = "ready"
	MsgCancelReady  MessageType = "cancel_ready"
	MsgPlayerReady  MessageType = "player_ready" // ← 准备状态变化，含取消

	MsgQuickMatch  MessageType = "quick_match"
	MsgCancelMatch MessageType = "cancel_match"
	MsgMatchFound  MessageType = "match_found" // ← 凑满四人
)

// 牌局
const (
	MsgGameStart     MessageType = "game_start"
	MsgSelectPass    MessageType = "select_pass" // → 传出的三张
	MsgPlayCard      MessageType = "play_card"
	MsgGetGameState  MessageType = "get_game_state"
	MsgGameState     MessageType = "game_state"     // ← 每个座位只看到自己的手牌
	MsgTrickComplete MessageType = "trick_complete" // ← 一墩结束
	MsgHandScored    MessageType = "hand_scored"    // ← 一手结束，含全收
	MsgGameOver      MessageType = "game_over"
)

// 查询，请求与结果成对
const (
	MsgGetStats             MessageType = "get_stats"
	MsgStatsResult          MessageType = "stats_result"
	MsgGetLeaderboard       MessageType = "get_leaderboard"
	MsgLeaderboardResult    MessageType = "leaderboard_result"
	MsgGetRoomList          MessageType = "get_room_list"
	MsgRoomListResult       MessageType = "room_list_result"
	MsgGetOnlineCount       MessageType = "get_online_count"
	MsgOnlineCount          MessageType = "online_count"
	MsgGetMaintenanceStatus MessageType = "get_maintenance_status"
	MsgMaintenancePull      MessageType = "maintenance_pull"
)

// 服务端主动推送
const (
	MsgMaintenancePush MessageType = "maintenance_push"
	MsgError           MessageType = "error"
)
