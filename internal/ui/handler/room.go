package handler

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/sound"
	"github.com/palemoky/hearts/internal/ui/model"
)

// enterRoom 进入等待房间
func enterRoom(m model.Model, roomCode string, players []protocol.PlayerInfo) {
	m.Game().Reset()
	m.Game().State().RoomCode = roomCode
	m.Game().SetRoomPlayers(players)
	m.SetPhase(model.PhaseWaiting)
	m.Input().Reset()
	m.Input().Placeholder = model.GamePlaceholder(m)
	m.Input().Focus()
}

func handleMsgRoomCreated(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.RoomCreatedPayload](msg)
	if err != nil {
		return nil
	}
	enterRoom(m, payload.RoomCode, []protocol.PlayerInfo{payload.Player})
	return nil
}

func handleMsgRoomJoined(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.RoomJoinedPayload](msg)
	if err != nil {
		return nil
	}
	enterRoom(m, payload.RoomCode, payload.Players)
	m.PlaySound(sound.EventJoin)
	return nil
}

func handleMsgMatchFound(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.MatchFoundPayload](msg)
	if err != nil {
		return nil
	}
	enterRoom(m, payload.RoomCode, payload.Players)
	m.PlaySound(sound.EventJoin)
	return nil
}

func handleMsgPlayerJoined(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.PlayerJoinedPayload](msg)
	if err != nil {
		return nil
	}
	players := m.Game().RoomPlayers()
	if slices.ContainsFunc(players, func(p protocol.PlayerInfo) bool { return p.ID == payload.Player.ID }) {
		return nil
	}
	m.Game().SetRoomPlayers(append(players, payload.Player))
	return nil
}

func handleMsgPlayerLeft(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.PlayerLeftPayload](msg)
	if err != nil {
		return nil
	}
	players := slices.DeleteFunc(slices.Clone(m.Game().RoomPlayers()), func(p protocol.PlayerInfo) bool {
		return p.ID == payload.PlayerID
	})
	m.Game().SetRoomPlayers(players)
	return nil
}

func handleMsgPlayerReady(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.PlayerReadyPayload](msg)
	if err != nil {
		return nil
	}
	players := m.Game().RoomPlayers()
	for i := range players {
		if players[i].ID == payload.PlayerID {
			players[i].Ready = payload.Ready
		}
	}
	if payload.PlayerID == m.PlayerID() && m.Phase() == model.PhaseWaiting {
		if payload.Ready {
			m.Input().Placeholder = "已准备，等待其他玩家... (U 取消)"
		} else {
			m.Input().Placeholder = model.GamePlaceholder(m)
		}
	}
	return nil
}

func handleMsgRoomListResult(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.RoomListResultPayload](msg)
	if err != nil {
		return nil
	}
	m.Lobby().SetAvailableRooms(payload.Rooms)
	return nil
}

func handleMsgPlayerOffline(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.PlayerOfflinePayload](msg)
	if err != nil {
		return nil
	}
	setOnline(m, payload.PlayerID, false)
	return nil
}

func handleMsgPlayerOnline(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.PlayerOnlinePayload](msg)
	if err != nil {
		return nil
	}
	setOnline(m, payload.PlayerID, true)
	return nil
}

// setOnline 同时更新房间列表与对局中的在线状态
func setOnline(m model.Model, playerID string, online bool) {
	players := m.Game().RoomPlayers()
	for i := range players {
		if players[i].ID == playerID {
			players[i].Online = online
		}
	}
	state := m.Game().State()
	for i := range state.Players {
		if state.Players[i].ID == playerID {
			state.Players[i].Online = online
		}
	}
}
