package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/hearts/internal/game"
	"github.com/palemoky/hearts/internal/game/room"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/protocol/convert"
	"github.com/palemoky/hearts/internal/server/session"
	"github.com/palemoky/hearts/internal/server/storage"
	"github.com/palemoky/hearts/internal/testutil"
)

type testEnv struct {
	h      *Handler
	server *testutil.FakeServer
	rooms  *room.RoomManager
	store  *testutil.MemoryGameStore
}

func newTestEnv(t *testing.T, lb Leaderboard) *testEnv {
	t.Helper()

	server := testutil.NewFakeServer()

	rm := room.NewRoomManager(nil, time.Minute)
	t.Cleanup(rm.Close)
	sm := session.NewSessionManager(nil)
	t.Cleanup(sm.Close)
	store := testutil.NewMemoryGameStore()

	h := NewHandler(HandlerDeps{
		Server:         server,
		RoomManager:    rm,
		SessionManager: sm,
		Leaderboard:    lb,
		GameStore:      store,
		GameConfig:     session.DefaultConfig(),
		GameOptions:    []game.Option{game.WithSeed(7)},
	})
	t.Cleanup(h.StopAll)

	return &testEnv{h: h, server: server, rooms: rm, store: store}
}

func (e *testEnv) send(c *testutil.SimpleClient, t protocol.MessageType, payload any) {
	e.h.Handle(c, codec.MustNewMessage(t, payload))
}

func lastErrorCode(t *testing.T, c *testutil.SimpleClient) int {
	t.Helper()
	p := testutil.LastPayload[protocol.ErrorPayload](c, protocol.MsgError)
	require.NotNil(t, p, "expected an error message")
	return p.Code
}

// startTable 四人建房、入座、准备，返回房间号
func (e *testEnv) startTable(t *testing.T) (string, []*testutil.SimpleClient) {
	t.Helper()

	clients := []*testutil.SimpleClient{
		testutil.NewSimpleClient("p0", "东"),
		testutil.NewSimpleClient("p1", "南"),
		testutil.NewSimpleClient("p2", "西"),
		testutil.NewSimpleClient("p3", "北"),
	}
	for _, c := range clients {
		e.h.HandleConnect(c)
	}

	e.send(clients[0], protocol.MsgCreateRoom, nil)
	created := testutil.LastPayload[protocol.RoomCreatedPayload](clients[0], protocol.MsgRoomCreated)
	require.NotNil(t, created)

	for _, c := range clients[1:] {
		e.send(c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: created.RoomCode})
		joined := testutil.LastPayload[protocol.RoomJoinedPayload](c, protocol.MsgRoomJoined)
		require.NotNil(t, joined)
	}
	for _, c := range clients {
		e.send(c, protocol.MsgReady, nil)
	}
	require.NotNil(t, e.h.GetGameSession(created.RoomCode))
	return created.RoomCode, clients
}

func stateOf(t *testing.T, c *testutil.SimpleClient) *protocol.GameStateDTO {
	t.Helper()
	s := testutil.LastPayload[protocol.GameStateDTO](c, protocol.MsgGameState)
	require.NotNil(t, s)
	return s
}

func TestHandler_UnknownMessage(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, nil)
	c := testutil.NewSimpleClient("p1", "Player1")

	e.send(c, protocol.MessageType("bogus"), nil)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, lastErrorCode(t, c))
}

func TestHandler_Ping(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, nil)
	c := testutil.NewSimpleClient("p1", "Player1")

	e.send(c, protocol.MsgPing, protocol.PingPayload{Timestamp: 123})
	pong := testutil.LastPayload[protocol.PongPayload](c, protocol.MsgPong)
	require.NotNil(t, pong)
	assert.Equal(t, int64(123), pong.ClientTimestamp)
	assert.NotZero(t, pong.ServerTimestamp)
}

func TestHandler_MaintenanceBlocksRooms(t *testing.T) {
	t.Parallel()

	server := testutil.NewFakeServer()
	server.SetMaintenance(true)
	rm := room.NewRoomManager(nil, time.Minute)
	t.Cleanup(rm.Close)
	sm := session.NewSessionManager(nil)
	t.Cleanup(sm.Close)
	h := NewHandler(HandlerDeps{Server: server, RoomManager: rm, SessionManager: sm})
	c := testutil.NewSimpleClient("p1", "Player1")

	for _, msgType := range []protocol.MessageType{protocol.MsgCreateRoom, protocol.MsgJoinRoom, protocol.MsgQuickMatch} {
		c.Reset()
		h.Handle(c, codec.MustNewMessage(msgType, protocol.JoinRoomPayload{RoomCode: "123456"}))
		assert.Equal(t, protocol.ErrCodeServerMaintenance, lastErrorCode(t, c), msgType)
	}

	c.Reset()
	h.Handle(c, codec.MustNewMessage(protocol.MsgGetMaintenanceStatus, nil))
	status := testutil.LastPayload[protocol.MaintenanceStatusPayload](c, protocol.MsgMaintenancePull)
	require.NotNil(t, status)
	assert.True(t, status.Maintenance)
}

func TestHandler_RoomErrors(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, nil)
	c := testutil.NewSimpleClient("p1", "Player1")

	e.send(c, protocol.MsgJoinRoom, protocol.JoinRoomPayload{RoomCode: "999999"})
	assert.Equal(t, protocol.ErrCodeRoomNotFound, lastErrorCode(t, c))

	c.Reset()
	e.send(c, protocol.MsgReady, nil)
	assert.Equal(t, protocol.ErrCodeNotInRoom, lastErrorCode(t, c))

	c.Reset()
	e.send(c, protocol.MsgPlayCard, protocol.PlayCardPayload{Card: protocol.CardInfo{Suit: "CLUBS", Rank: "2"}})
	assert.Equal(t, protocol.ErrCodeNotInRoom, lastErrorCode(t, c))

	// 在房间里但还没开局
	c.Reset()
	e.send(c, protocol.MsgCreateRoom, nil)
	e.send(c, protocol.MsgGetGameState, nil)
	assert.Equal(t, protocol.ErrCodeGameNotStart, lastErrorCode(t, c))
}

func TestHandler_RoomList(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, nil)
	host := testutil.NewSimpleClient("p1", "Player1")
	e.send(host, protocol.MsgCreateRoom, nil)

	viewer := testutil.NewSimpleClient("p2", "Player2")
	e.send(viewer, protocol.MsgGetRoomList, nil)
	list := testutil.LastPayload[protocol.RoomListResultPayload](viewer, protocol.MsgRoomListResult)
	require.NotNil(t, list)
	require.Len(t, list.Rooms, 1)
	assert.Equal(t, 1, list.Rooms[0].PlayerCount)
	assert.Equal(t, 4, list.Rooms[0].MaxPlayers)
}

func TestHandler_FullTableStartsGame(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, nil)
	code, clients := e.startTable(t)

	for seat, c := range clients {
		start := testutil.LastPayload[protocol.GameStartPayload](c, protocol.MsgGameStart)
		require.NotNil(t, start)
		assert.Len(t, start.Players, 4)

		s := stateOf(t, c)
		assert.Equal(t, seat, s.MySeat)
		assert.Equal(t, "PASSING", s.Phase)
		assert.Len(t, s.Hand, 13)
	}
	_, saved := e.store.Get(code)
	assert.True(t, saved)

	// 传牌：非法牌面被拒绝
	e.send(clients[0], protocol.MsgSelectPass, protocol.SelectPassPayload{
		Cards: []protocol.CardInfo{{Suit: "STARS", Rank: "2"}},
	})
	assert.Equal(t, protocol.ErrCodeInvalidCard, lastErrorCode(t, clients[0]))

	for _, c := range clients {
		hand := stateOf(t, c).Hand
		e.send(c, protocol.MsgSelectPass, protocol.SelectPassPayload{Cards: hand[:3]})
	}
	for _, c := range clients {
		assert.Equal(t, "PLAYING", stateOf(t, c).Phase)
	}

	// 不是自己的回合不能出牌
	current := stateOf(t, clients[0]).CurrentSeat
	other := clients[(current+1)%4]
	hand := stateOf(t, other).Hand
	other.Reset()
	e.send(other, protocol.MsgPlayCard, protocol.PlayCardPayload{Card: hand[0]})
	assert.Equal(t, protocol.ErrCodeNotYourTurn, lastErrorCode(t, other))

	// 持有 2♣ 的玩家首出
	leader := clients[current]
	e.send(leader, protocol.MsgPlayCard, protocol.PlayCardPayload{Card: protocol.CardInfo{Suit: "CLUBS", Rank: "2"}})
	after := stateOf(t, leader)
	require.Len(t, after.CurrentTrick, 1)
	assert.Equal(t, (current+1)%4, after.CurrentSeat)

	leader.Reset()
	e.send(leader, protocol.MsgGetGameState, nil)
	assert.Equal(t, 12, len(stateOf(t, leader).Hand))
}

func TestHandler_LeaveDuringGameAbortsIt(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, nil)
	code, clients := e.startTable(t)

	e.send(clients[1], protocol.MsgLeaveRoom, nil)

	over := testutil.LastPayload[protocol.GameOverPayload](clients[0], protocol.MsgGameOver)
	require.NotNil(t, over)
	assert.True(t, over.Aborted)
	assert.Nil(t, e.h.GetGameSession(code))
	assert.Zero(t, e.h.ActiveSessions())

	r := e.rooms.GetRoom(code)
	require.NotNil(t, r)
	assert.Equal(t, room.RoomStateWaiting, r.GetState())
	assert.Equal(t, 3, r.PlayerCount())
	_, saved := e.store.Get(code)
	assert.False(t, saved)
}

func TestHandler_DisconnectAndReconnect(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, nil)
	code, clients := e.startTable(t)

	connected := testutil.LastPayload[protocol.ConnectedPayload](clients[0], protocol.MsgConnected)
	require.NotNil(t, connected)
	require.NotEmpty(t, connected.ReconnectToken)

	e.h.HandleDisconnect(clients[0])
	offline := testutil.LastPayload[protocol.PlayerOfflinePayload](clients[1], protocol.MsgPlayerOffline)
	require.NotNil(t, offline)
	assert.Equal(t, "p0", offline.PlayerID)

	// 错误的令牌
	stranger := testutil.NewSimpleClient("tmp-1", "tmp")
	e.send(stranger, protocol.MsgReconnect, protocol.ReconnectPayload{Token: "nope", PlayerID: "p0"})
	assert.Equal(t, protocol.ErrCodeUnknown, lastErrorCode(t, stranger))

	// 旧连接还挂在注册表上，重连时应被关掉
	e.server.RegisterClient("p0", clients[0])
	nc := testutil.NewSimpleClient("tmp-2", "tmp")
	e.server.RegisterClient("tmp-2", nc)

	e.send(nc, protocol.MsgReconnect, protocol.ReconnectPayload{Token: connected.ReconnectToken, PlayerID: "p0"})

	reply := testutil.LastPayload[protocol.ReconnectedPayload](nc, protocol.MsgReconnected)
	require.NotNil(t, reply)
	assert.Equal(t, "p0", reply.PlayerID)
	assert.Equal(t, "东", reply.PlayerName)
	assert.Equal(t, code, reply.RoomCode)
	require.NotNil(t, reply.GameState)
	assert.Equal(t, 0, reply.GameState.MySeat)
	assert.Len(t, reply.GameState.Hand, 13)

	assert.Equal(t, "p0", nc.GetID())
	assert.Equal(t, code, nc.GetRoom())
	online := testutil.LastPayload[protocol.PlayerOnlinePayload](clients[2], protocol.MsgPlayerOnline)
	require.NotNil(t, online)
	assert.Equal(t, "p0", online.PlayerID)

	// 注册表改用玩家 ID
	assert.Same(t, nc, e.server.GetClientByID("p0"))
	assert.Nil(t, e.server.GetClientByID("tmp-2"))
	assert.True(t, clients[0].IsClosed())
}

func TestHandler_StatsWithoutLeaderboard(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, nil)
	c := testutil.NewSimpleClient("p1", "Player1")

	e.send(c, protocol.MsgGetStats, nil)
	assert.Equal(t, protocol.ErrCodeUnknown, lastErrorCode(t, c))

	c.Reset()
	e.send(c, protocol.MsgGetLeaderboard, nil)
	assert.Equal(t, protocol.ErrCodeUnknown, lastErrorCode(t, c))
}

func TestHandler_OnlineCount(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, nil)
	c := testutil.NewSimpleClient("p1", "Player1")
	for _, id := range []string{"p1", "p2", "p3"} {
		e.server.RegisterClient(id, testutil.NewSimpleClient(id, id))
	}

	e.send(c, protocol.MsgGetOnlineCount, nil)
	count := testutil.LastPayload[protocol.OnlineCountPayload](c, protocol.MsgOnlineCount)
	require.NotNil(t, count)
	assert.Equal(t, 3, count.Count)
}

func TestHandler_PlayableCardsArePlayable(t *testing.T) {
	t.Parallel()

	e := newTestEnv(t, nil)
	_, clients := e.startTable(t)
	for _, c := range clients {
		hand := stateOf(t, c).Hand
		e.send(c, protocol.MsgSelectPass, protocol.SelectPassPayload{Cards: hand[:3]})
	}

	// 按服务器给出的可出牌打完第一墩
	for range 4 {
		seat := stateOf(t, clients[0]).CurrentSeat
		c := clients[seat]
		s := stateOf(t, c)
		require.NotEmpty(t, s.PlayableCards)
		cards, err := convert.InfosToCards(s.PlayableCards)
		require.NoError(t, err)
		e.send(c, protocol.MsgPlayCard, protocol.PlayCardPayload{Card: convert.CardToInfo(cards[0])})
	}
	trick := testutil.LastPayload[protocol.TrickCompletePayload](clients[0], protocol.MsgTrickComplete)
	require.NotNil(t, trick)
	assert.Len(t, trick.Cards, 4)
}

func TestHandler_StatsAndLeaderboard(t *testing.T) {
	t.Parallel()

	lb := &testutil.MockLeaderboard{}
	lb.On("GetPlayerStats", mock.Anything, "p1").Return(&storage.PlayerStats{
		PlayerID:    "p1",
		PlayerName:  "Player1",
		TotalGames:  4,
		Wins:        1,
		Placements:  [4]int{1, 1, 1, 1},
		TotalScore:  240,
		PointsTaken: 180,
		MoonShots:   1,
		Rating:      1020,
	}, nil)
	lb.On("GetPlayerRank", mock.Anything, "p1").Return(int64(3), nil)
	lb.On("GetPlayerStats", mock.Anything, "p2").Return(nil, nil)
	lb.On("GetLeaderboard", mock.Anything, "total", 0, 10).Return([]*storage.LeaderboardEntry{
		{Rank: 1, PlayerID: "p9", PlayerName: "Top", Rating: 1200, Wins: 9, WinRate: 90},
	}, nil)
	lb.On("GetLeaderboard", mock.Anything, "weekly", 5, 10).Return([]*storage.LeaderboardEntry{}, nil)

	e := newTestEnv(t, lb)

	c := testutil.NewSimpleClient("p1", "Player1")
	e.send(c, protocol.MsgGetStats, nil)
	stats := testutil.LastPayload[protocol.StatsResultPayload](c, protocol.MsgStatsResult)
	require.NotNil(t, stats)
	assert.Equal(t, 4, stats.TotalGames)
	assert.Equal(t, [4]int{1, 1, 1, 1}, stats.Placements)
	assert.InDelta(t, 25.0, stats.WinRate, 0.001)
	assert.InDelta(t, 60.0, stats.AvgScore, 0.001)
	assert.Equal(t, 1020, stats.Rating)
	assert.Equal(t, 3, stats.Rank)

	fresh := testutil.NewSimpleClient("p2", "Player2")
	e.send(fresh, protocol.MsgGetStats, nil)
	empty := testutil.LastPayload[protocol.StatsResultPayload](fresh, protocol.MsgStatsResult)
	require.NotNil(t, empty)
	assert.Equal(t, "Player2", empty.PlayerName)
	assert.Zero(t, empty.TotalGames)

	// 空请求默认总榜前 10
	e.send(c, protocol.MsgGetLeaderboard, nil)
	board := testutil.LastPayload[protocol.LeaderboardResultPayload](c, protocol.MsgLeaderboardResult)
	require.NotNil(t, board)
	assert.Equal(t, "total", board.Type)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 1200, board.Entries[0].Rating)

	// 超出上限的 limit 被收回默认值
	e.send(c, protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{Type: "weekly", Offset: 5, Limit: 500})
	board = testutil.LastPayload[protocol.LeaderboardResultPayload](c, protocol.MsgLeaderboardResult)
	require.NotNil(t, board)
	assert.Equal(t, "weekly", board.Type)
	assert.Empty(t, board.Entries)

	lb.AssertExpectations(t)
}

func TestNormalizeLeaderboardQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   *protocol.GetLeaderboardPayload
		want protocol.GetLeaderboardPayload
	}{
		{"空请求", nil, protocol.GetLeaderboardPayload{Type: "total", Limit: 10}},
		{"保留合法值", &protocol.GetLeaderboardPayload{Type: "daily", Offset: 20, Limit: 50}, protocol.GetLeaderboardPayload{Type: "daily", Offset: 20, Limit: 50}},
		{"limit 越界", &protocol.GetLeaderboardPayload{Type: "weekly", Limit: 51}, protocol.GetLeaderboardPayload{Type: "weekly", Limit: 10}},
		{"负数归零", &protocol.GetLeaderboardPayload{Offset: -3, Limit: -1}, protocol.GetLeaderboardPayload{Type: "total", Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalizeLeaderboardQuery(tt.in))
		})
	}
}
