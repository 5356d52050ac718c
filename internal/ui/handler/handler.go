// Package handler processes server messages.
package handler

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/ui/model"
)

// messageHandler 消息处理函数类型
type messageHandler func(m model.Model, msg *protocol.Message) tea.Cmd

// messageHandlers 消息处理器映射表
var messageHandlers = map[protocol.MessageType]messageHandler{
	// Connection
	protocol.MsgConnected:   handleMsgConnected,
	protocol.MsgReconnected: handleMsgReconnected,
	protocol.MsgError:       handleMsgError,
	protocol.MsgOnlineCount: handleMsgOnlineCount,

	// Room
	protocol.MsgRoomCreated:    handleMsgRoomCreated,
	protocol.MsgRoomJoined:     handleMsgRoomJoined,
	protocol.MsgMatchFound:     handleMsgMatchFound,
	protocol.MsgPlayerJoined:   handleMsgPlayerJoined,
	protocol.MsgPlayerLeft:     handleMsgPlayerLeft,
	protocol.MsgPlayerReady:    handleMsgPlayerReady,
	protocol.MsgPlayerOffline:  handleMsgPlayerOffline,
	protocol.MsgPlayerOnline:   handleMsgPlayerOnline,
	protocol.MsgRoomListResult: handleMsgRoomListResult,

	// Game
	protocol.MsgGameStart:     handleMsgGameStart,
	protocol.MsgGameState:     handleMsgGameState,
	protocol.MsgTrickComplete: handleMsgTrickComplete,
	protocol.MsgHandScored:    handleMsgHandScored,
	protocol.MsgGameOver:      handleMsgGameOver,

	// Stats
	protocol.MsgStatsResult:       handleMsgStatsResult,
	protocol.MsgLeaderboardResult: handleMsgLeaderboardResult,

	// Maintenance
	protocol.MsgMaintenancePush: handleMsgMaintenance,
	protocol.MsgMaintenancePull: handleMsgMaintenance,
}

// HandleServerMessage dispatches server messages to appropriate handlers.
func HandleServerMessage(m model.Model, msg *protocol.Message) tea.Cmd {
	if handler, ok := messageHandlers[msg.Type]; ok {
		return handler(m, msg)
	}
	return nil
}
