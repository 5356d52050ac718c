package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/protocol/convert"
	"github.com/palemoky/hearts/internal/ui/model"
)

func newModel() *model.OnlineModel {
	return model.NewOnlineModel(nil, nil)
}

func send(m model.Model, t protocol.MessageType, payload any) {
	HandleServerMessage(m, codec.MustNewMessage(t, payload))
}

func cards(t *testing.T, s string) []protocol.CardInfo {
	t.Helper()
	cs, err := card.ParseList(s)
	require.NoError(t, err)
	return convert.CardsToInfos(cs)
}

func TestHandleConnected(t *testing.T) {
	t.Parallel()

	m := newModel()
	send(m, protocol.MsgConnected, protocol.ConnectedPayload{PlayerID: "p1", PlayerName: "红心猎手"})

	assert.Equal(t, "p1", m.PlayerID())
	assert.Equal(t, "红心猎手", m.PlayerName())
	assert.Equal(t, model.LobbyPlaceholder, m.Input().Placeholder)
}

func TestHandleUnknownMessage(t *testing.T) {
	t.Parallel()

	m := newModel()
	assert.Nil(t, HandleServerMessage(m, codec.MustNewMessage(protocol.MessageType("nope"), nil)))
}

func TestRoomFlow(t *testing.T) {
	t.Parallel()

	m := newModel()
	m.SetPlayerInfo("p1", "a")

	send(m, protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: "123456",
		Player:   protocol.PlayerInfo{ID: "p1", Name: "a", Online: true},
	})
	assert.Equal(t, model.PhaseWaiting, m.Phase())
	assert.Equal(t, "123456", m.Game().State().RoomCode)

	send(m, protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{Player: protocol.PlayerInfo{ID: "p2", Name: "b", Seat: 1}})
	send(m, protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{Player: protocol.PlayerInfo{ID: "p2", Name: "b", Seat: 1}})
	assert.Len(t, m.Game().RoomPlayers(), 2, "重复加入只记一次")

	send(m, protocol.MsgPlayerReady, protocol.PlayerReadyPayload{PlayerID: "p1", Ready: true})
	assert.True(t, m.Game().RoomPlayers()[0].Ready)
	assert.Contains(t, m.Input().Placeholder, "已准备")

	send(m, protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{PlayerID: "p2"})
	assert.False(t, m.Game().RoomPlayers()[1].Online)
	send(m, protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{PlayerID: "p2"})
	assert.True(t, m.Game().RoomPlayers()[1].Online)

	send(m, protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{PlayerID: "p2"})
	assert.Len(t, m.Game().RoomPlayers(), 1)
}

func TestGameStateDrivesPhase(t *testing.T) {
	t.Parallel()

	m := newModel()
	m.SetPlayerInfo("p0", "a")

	send(m, protocol.MsgGameState, protocol.GameStateDTO{
		Phase:      "PASSING",
		HandNumber: 1,
		MySeat:     0,
		Timeout:    30,
		Hand:       cards(t, "2C 5H QS"),
	})
	assert.Equal(t, model.PhasePassing, m.Phase())
	assert.Len(t, m.Game().State().Hand, 3)
	assert.False(t, m.Game().TimerStartTime().IsZero())

	send(m, protocol.MsgGameState, protocol.GameStateDTO{
		Phase:         "PLAYING",
		HandNumber:    1,
		MySeat:        0,
		CurrentSeat:   0,
		Hand:          cards(t, "2C 5H QS"),
		PlayableCards: cards(t, "2C"),
	})
	assert.Equal(t, model.PhasePlaying, m.Phase())
	assert.True(t, m.Game().State().CanPlay(card.TwoOfClubs))
	assert.True(t, m.Game().TimerStartTime().IsZero(), "没有超时信息时不显示倒计时")
}

func TestTrickAndHandScored(t *testing.T) {
	t.Parallel()

	m := newModel()
	send(m, protocol.MsgTrickComplete, protocol.TrickCompletePayload{
		Cards:      cards(t, "2S QS 3S 4S"),
		WinnerName: "b",
		Points:     13,
	})
	assert.Equal(t, 13, m.Game().State().CardCounter.PointsLeft())
	assert.Equal(t, "b", m.Game().State().LastTrickWinner)

	send(m, protocol.MsgHandScored, protocol.HandScoredPayload{HandNumber: 1, MoonShooterID: "p2"})
	require.NotNil(t, m.Game().LastHandScore())
	assert.Equal(t, "p2", m.Game().LastHandScore().MoonShooterID)
}

func TestGameOver(t *testing.T) {
	t.Parallel()

	m := newModel()
	m.SetPlayerInfo("p0", "a")
	m.SetPhase(model.PhasePlaying)

	send(m, protocol.MsgGameOver, protocol.GameOverPayload{
		WinnerID:  "p0",
		Standings: []protocol.Standing{{Rank: 1, PlayerID: "p0"}, {Rank: 2, PlayerID: "p1"}},
	})

	assert.Equal(t, model.PhaseGameOver, m.Phase())
	assert.Len(t, m.Game().State().Standings, 2)
	assert.Equal(t, "按回车返回大厅", m.Input().Placeholder)
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	t.Run("in game goes to placeholder", func(t *testing.T) {
		t.Parallel()
		m := newModel()
		m.SetPhase(model.PhasePlaying)
		cmd := HandleServerMessage(m, codec.NewErrorMessage(protocol.ErrCodeInvalidCard))
		assert.NotNil(t, cmd)
		assert.Equal(t, protocol.ErrorMessages[protocol.ErrCodeInvalidCard], m.Input().Placeholder)
		assert.Nil(t, m.GetCurrentNotification())
	})

	t.Run("matching falls back to lobby", func(t *testing.T) {
		t.Parallel()
		m := newModel()
		m.SetPhase(model.PhaseMatching)
		HandleServerMessage(m, codec.NewErrorMessage(protocol.ErrCodeUnknown))
		assert.Equal(t, model.PhaseLobby, m.Phase())
		require.NotNil(t, m.GetCurrentNotification())
		assert.Equal(t, model.NotifyError, m.GetCurrentNotification().Type)
	})

	t.Run("maintenance", func(t *testing.T) {
		t.Parallel()
		m := newModel()
		m.SetPhase(model.PhaseLobby)
		HandleServerMessage(m, codec.NewErrorMessage(protocol.ErrCodeServerMaintenance))
		assert.True(t, m.IsMaintenanceMode())
	})
}

func TestMaintenancePush(t *testing.T) {
	t.Parallel()

	m := newModel()
	send(m, protocol.MsgMaintenancePush, protocol.MaintenancePayload{Maintenance: true})
	assert.True(t, m.IsMaintenanceMode())
	require.NotNil(t, m.GetCurrentNotification())
	assert.Equal(t, model.NotifyMaintenance, m.GetCurrentNotification().Type)

	send(m, protocol.MsgMaintenancePull, protocol.MaintenanceStatusPayload{Maintenance: false})
	assert.False(t, m.IsMaintenanceMode())
	assert.Nil(t, m.GetCurrentNotification())
}

func TestReconnectedIntoGame(t *testing.T) {
	t.Parallel()

	m := newModel()
	send(m, protocol.MsgReconnected, protocol.ReconnectedPayload{
		PlayerID:   "p0",
		PlayerName: "a",
		RoomCode:   "654321",
		GameState: &protocol.GameStateDTO{
			Phase:      "PLAYING",
			HandNumber: 2,
			Hand:       cards(t, "AH KH"),
		},
	})

	assert.Equal(t, "p0", m.PlayerID())
	assert.Equal(t, model.PhasePlaying, m.Phase())
	assert.Equal(t, "654321", m.Game().State().RoomCode)
}

func TestStatsAndLeaderboard(t *testing.T) {
	t.Parallel()

	m := newModel()
	send(m, protocol.MsgStatsResult, protocol.StatsResultPayload{PlayerID: "p0", TotalGames: 3})
	require.NotNil(t, m.Lobby().MyStats())
	assert.Equal(t, 3, m.Lobby().MyStats().TotalGames)

	send(m, protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{
		Entries: []protocol.LeaderboardEntry{{Rank: 1, PlayerName: "x"}},
	})
	assert.Len(t, m.Lobby().Leaderboard(), 1)

	send(m, protocol.MsgOnlineCount, protocol.OnlineCountPayload{Count: 8})
	assert.Equal(t, 8, m.Lobby().OnlineCount())
}
