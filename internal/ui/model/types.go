// Package model 保存终端客户端的界面状态，供 handler、input、view 三个包读写
package model

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/timer"

	gameClient "github.com/palemoky/hearts/internal/client"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/sound"
	"github.com/palemoky/hearts/internal/transport"
)

// GamePhase 界面所处的页面
type GamePhase int

const (
	PhaseConnecting  GamePhase = iota // 连接服务器
	PhaseLobby                        // 大厅菜单
	PhaseRoomList                     // 房间列表
	PhaseMatching                     // 快速匹配中
	PhaseWaiting                      // 房间内等待准备
	PhasePassing                      // 传牌
	PhasePlaying                      // 出牌
	PhaseGameOver                     // 终局
	PhaseLeaderboard                  // 排行榜
	PhaseStats                        // 我的战绩
	PhaseRules                        // 规则说明
)

// InGame 传牌或出牌中
func (p GamePhase) InGame() bool {
	return p == PhasePassing || p == PhasePlaying
}

// NotificationType 系统通知的种类，数值越小越优先显示
type NotificationType int

const (
	NotifyError            NotificationType = iota // 错误，临时
	NotifyRateLimit                                // 操作太频繁，临时
	NotifyReconnecting                             // 正在重连
	NotifyReconnectSuccess                         // 重连成功，临时
	NotifyMaintenance                              // 停机维护
	NotifyOnlineCount                              // 在线人数

	notifyKinds
)

// SystemNotification 顶部的一条系统通知
type SystemNotification struct {
	Message   string
	Type      NotificationType
	Temporary bool // 几秒后自动清除
}

// tea 消息
type (
	// ServerMessage 服务器推送的一条消息
	ServerMessage struct{ Msg *protocol.Message }

	// ConnectedMsg 首次连上服务器
	ConnectedMsg struct{}

	// ConnectionErrorMsg 连接失败或连接已关闭
	ConnectionErrorMsg struct{ Err error }

	// ReconnectingMsg 第 Attempt 次重连
	ReconnectingMsg struct{ Attempt, MaxTries int }

	// ReconnectSuccessMsg 重连成功
	ReconnectSuccessMsg struct{}

	ClearReconnectMsg          struct{}
	ClearInputErrorMsg         struct{}
	ClearSystemNotificationMsg struct{}

	// inboxMsg 来自 inbox 的消息，处理后需要继续监听
	inboxMsg struct{ msg any }

	matchingTickMsg struct{}
)

// Session 当前玩家与连接
type Session interface {
	PlayerID() string
	PlayerName() string
	SetPlayerInfo(id, name string)
	Client() *transport.Client
}

// Notifier 系统通知
type Notifier interface {
	SetNotification(notifyType NotificationType, message string, temporary bool)
	ClearNotification(notifyType NotificationType)
	GetCurrentNotification() *SystemNotification
}

// Model handler、input、view 看到的界面状态
type Model interface {
	Session
	Notifier

	Phase() GamePhase
	SetPhase(GamePhase)
	EnterLobby()

	Input() *textinput.Model
	Timer() *timer.Model
	SetTimer(timer.Model)
	Width() int
	Height() int

	Lobby() LobbyAccessor
	Game() GameAccessor

	IsMaintenanceMode() bool
	SetMaintenanceMode(bool)
	MatchingStartTime() time.Time
	SetMatchingStartTime(time.Time)

	PlaySound(event sound.Event)
}

// LobbyAccessor 大厅数据
type LobbyAccessor interface {
	OnlineCount() int
	SetOnlineCount(int)

	// 菜单与房间列表的选中项
	SelectedIndex() int
	SetSelectedIndex(int)
	AvailableRooms() []protocol.RoomListItem
	SetAvailableRooms([]protocol.RoomListItem)
	SelectedRoomIdx() int
	SetSelectedRoomIdx(int)
	HandleUpKey(phase GamePhase)
	HandleDownKey(phase GamePhase)

	Leaderboard() []protocol.LeaderboardEntry
	SetLeaderboard([]protocol.LeaderboardEntry)
	MyStats() *protocol.StatsResultPayload
	SetMyStats(*protocol.StatsResultPayload)
}

// GameAccessor 房间与对局数据
type GameAccessor interface {
	State() *gameClient.GameState

	RoomPlayers() []protocol.PlayerInfo
	SetRoomPlayers([]protocol.PlayerInfo)

	// 手牌光标
	Cursor() int
	SetCursor(int)
	MoveCursor(delta int)

	// 倒计时起点与时长，用于重绘剩余时间
	TimerDuration() time.Duration
	SetTimerDuration(time.Duration)
	TimerStartTime() time.Time
	SetTimerStartTime(time.Time)

	LastHandScore() *protocol.HandScoredPayload
	SetLastHandScore(*protocol.HandScoredPayload)

	CardCounterEnabled() bool
	SetCardCounterEnabled(bool)
	ShowingHelp() bool
	SetShowingHelp(bool)

	Reset()
}
