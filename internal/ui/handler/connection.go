package handler

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/sound"
	"github.com/palemoky/hearts/internal/ui/model"
)

// notifyDuration 临时通知展示时长
const notifyDuration = 3 * time.Second

func clearNotificationLater() tea.Cmd {
	return tea.Tick(notifyDuration, func(time.Time) tea.Msg {
		return model.ClearSystemNotificationMsg{}
	})
}

func handleMsgConnected(m model.Model, msg *protocol.Message) tea.Cmd {
	// 重连时新连接会先拿到一个临时身份，忽略
	if m.PlayerID() != "" && m.Client() != nil && m.Client().IsReconnecting() {
		return nil
	}
	payload, err := codec.ParsePayload[protocol.ConnectedPayload](msg)
	if err != nil {
		return nil
	}

	m.SetPlayerInfo(payload.PlayerID, payload.PlayerName)
	if c := m.Client(); c != nil {
		_ = c.GetOnlineCount()
		_ = c.SendMessage(codec.MustNewMessage(protocol.MsgGetMaintenanceStatus, nil))
	}

	m.Input().Placeholder = model.LobbyPlaceholder
	m.Input().Focus()
	m.PlaySound(sound.EventLogin)
	return nil
}

func handleMsgReconnected(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.ReconnectedPayload](msg)
	if err != nil {
		return nil
	}

	m.SetPlayerInfo(payload.PlayerID, payload.PlayerName)
	state := m.Game().State()

	switch {
	case payload.GameState != nil:
		state.RoomCode = payload.RoomCode
		return applyGameState(m, payload.GameState)
	case payload.RoomCode != "":
		state.RoomCode = payload.RoomCode
		m.SetPhase(model.PhaseWaiting)
		m.Input().Placeholder = model.GamePlaceholder(m)
	default:
		m.EnterLobby()
	}
	return nil
}

func handleMsgError(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.ErrorPayload](msg)
	if err != nil {
		return nil
	}

	switch payload.Code {
	case protocol.ErrCodeServerMaintenance:
		m.SetMaintenanceMode(true)
		m.SetNotification(model.NotifyMaintenance, "⚠️ 服务器维护中，暂停接受新连接", false)
	case protocol.ErrCodeRateLimit:
		m.SetNotification(model.NotifyRateLimit, fmt.Sprintf("⚠️ %s", payload.Message), true)
		return clearNotificationLater()
	}

	// 匹配失败时退回大厅
	if m.Phase() == model.PhaseMatching {
		m.EnterLobby()
	}

	if m.Phase().InGame() {
		m.Input().Placeholder = payload.Message
		return tea.Tick(notifyDuration, func(time.Time) tea.Msg {
			return model.ClearInputErrorMsg{}
		})
	}

	m.SetNotification(model.NotifyError, fmt.Sprintf("⚠️ %s", payload.Message), true)
	return clearNotificationLater()
}

func handleMsgOnlineCount(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.OnlineCountPayload](msg)
	if err != nil {
		return nil
	}
	m.Lobby().SetOnlineCount(payload.Count)
	m.SetNotification(model.NotifyOnlineCount, fmt.Sprintf("🌐 在线玩家: %d 人", payload.Count), false)
	return nil
}

func handleMsgMaintenance(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.MaintenancePayload](msg)
	if err != nil {
		return nil
	}
	m.SetMaintenanceMode(payload.Maintenance)
	if payload.Maintenance {
		m.SetNotification(model.NotifyMaintenance, "⚠️ 服务器维护中，暂停接受新连接", false)
	} else {
		m.ClearNotification(model.NotifyMaintenance)
	}
	return nil
}
