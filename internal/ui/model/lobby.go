package model

import (
	"github.com/palemoky/hearts/internal/protocol"
)

// lobbyMenuSize 大厅菜单项数量
const lobbyMenuSize = 6

// LobbyModel handles the lobby interface.
type LobbyModel struct {
	width  int
	height int

	// Navigation
	selectedIndex int

	// Data
	onlineCount     int
	availableRooms  []protocol.RoomListItem
	selectedRoomIdx int
	leaderboard     []protocol.LeaderboardEntry
	myStats         *protocol.StatsResultPayload
}

// NewLobbyModel creates a new LobbyModel.
func NewLobbyModel() *LobbyModel {
	return &LobbyModel{}
}

// --- LobbyAccessor implementation ---

func (m *LobbyModel) OnlineCount() int                        { return m.onlineCount }
func (m *LobbyModel) SetOnlineCount(count int)                { m.onlineCount = count }
func (m *LobbyModel) AvailableRooms() []protocol.RoomListItem { return m.availableRooms }
func (m *LobbyModel) SetAvailableRooms(rooms []protocol.RoomListItem) {
	m.availableRooms = rooms
	m.selectedRoomIdx = 0
}
func (m *LobbyModel) SelectedRoomIdx() int                               { return m.selectedRoomIdx }
func (m *LobbyModel) SetSelectedRoomIdx(idx int)                         { m.selectedRoomIdx = idx }
func (m *LobbyModel) Leaderboard() []protocol.LeaderboardEntry           { return m.leaderboard }
func (m *LobbyModel) SetLeaderboard(entries []protocol.LeaderboardEntry) { m.leaderboard = entries }
func (m *LobbyModel) MyStats() *protocol.StatsResultPayload              { return m.myStats }
func (m *LobbyModel) SetMyStats(stats *protocol.StatsResultPayload)      { m.myStats = stats }
func (m *LobbyModel) SelectedIndex() int                                 { return m.selectedIndex }
func (m *LobbyModel) SetSelectedIndex(idx int)                           { m.selectedIndex = idx }

func (m *LobbyModel) HandleUpKey(phase GamePhase) {
	switch {
	case phase == PhaseRoomList && len(m.availableRooms) > 0:
		m.selectedRoomIdx = wrap(m.selectedRoomIdx-1, len(m.availableRooms))
	case phase == PhaseLobby:
		m.selectedIndex = wrap(m.selectedIndex-1, lobbyMenuSize)
	}
}

func (m *LobbyModel) HandleDownKey(phase GamePhase) {
	switch {
	case phase == PhaseRoomList && len(m.availableRooms) > 0:
		m.selectedRoomIdx = wrap(m.selectedRoomIdx+1, len(m.availableRooms))
	case phase == PhaseLobby:
		m.selectedIndex = wrap(m.selectedIndex+1, lobbyMenuSize)
	}
}

func (m *LobbyModel) Width() int  { return m.width }
func (m *LobbyModel) Height() int { return m.height }
func (m *LobbyModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// wrap 把 i 折回 [0, n)
func wrap(i, n int) int {
	return ((i % n) + n) % n
}
