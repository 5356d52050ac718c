package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/hearts/internal/apperrors"
	"github.com/palemoky/hearts/internal/game"
	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/convert"
	"github.com/palemoky/hearts/internal/testutil"
	"github.com/palemoky/hearts/internal/types"
)

const testRoom = "123456"

func newTestSession(t *testing.T, cfg Config, deps Deps) (*GameSession, []*testutil.SimpleClient) {
	t.Helper()
	clients := []*testutil.SimpleClient{
		testutil.NewSimpleClient("p0", "东"),
		testutil.NewSimpleClient("p1", "南"),
		testutil.NewSimpleClient("p2", "西"),
		testutil.NewSimpleClient("p3", "北"),
	}
	ifaces := make([]types.ClientInterface, len(clients))
	for i, c := range clients {
		ifaces[i] = c
	}
	gs, err := NewGameSession(testRoom, ifaces, cfg, deps, game.WithSeed(42))
	require.NoError(t, err)
	t.Cleanup(gs.Stop)
	return gs, clients
}

func handOf(t *testing.T, gs *GameSession, playerID string) []card.Card {
	t.Helper()
	dto, err := gs.StateFor(playerID)
	require.NoError(t, err)
	cards, err := convert.InfosToCards(dto.Hand)
	require.NoError(t, err)
	return cards
}

func passAll(t *testing.T, gs *GameSession, clients []*testutil.SimpleClient) {
	t.Helper()
	for _, c := range clients {
		hand := handOf(t, gs, c.ID)
		require.NoError(t, gs.HandleSelectPass(c.ID, hand[:3]))
	}
}

func TestNewGameSession_PlayerCount(t *testing.T) {
	t.Parallel()

	_, err := NewGameSession(testRoom, []types.ClientInterface{testutil.NewSimpleClient("a", "a")}, DefaultConfig(), Deps{})
	assert.Error(t, err)
}

func TestGameSession_StartSendsPrivateState(t *testing.T) {
	t.Parallel()

	gs, clients := newTestSession(t, DefaultConfig(), Deps{})
	require.NoError(t, gs.Start())

	hands := map[string]bool{}
	for seat, c := range clients {
		start := testutil.LastPayload[protocol.GameStartPayload](c, protocol.MsgGameStart)
		require.NotNil(t, start)
		assert.Len(t, start.Players, 4)
		assert.Equal(t, 100, start.MaxScore)

		state := testutil.LastPayload[protocol.GameStateDTO](c, protocol.MsgGameState)
		require.NotNil(t, state)
		assert.Equal(t, seat, state.MySeat)
		assert.Equal(t, "PASSING", state.Phase)
		assert.Equal(t, "LEFT", state.PassingDirection)
		assert.Len(t, state.Hand, 13)
		assert.Positive(t, state.Timeout)
		for _, p := range state.Players {
			assert.Equal(t, 13, p.CardCount)
			assert.True(t, p.Online)
		}
		hands[card.ToString(mustCards(t, state.Hand))] = true
	}
	// 每人只收到自己的手牌
	assert.Len(t, hands, 4)
}

func mustCards(t *testing.T, infos []protocol.CardInfo) []card.Card {
	t.Helper()
	cards, err := convert.InfosToCards(infos)
	require.NoError(t, err)
	return cards
}

func TestGameSession_RejectsInvalidCalls(t *testing.T) {
	t.Parallel()

	gs, clients := newTestSession(t, DefaultConfig(), Deps{})
	require.NoError(t, gs.Start())
	for _, c := range clients {
		c.Reset()
	}

	hand := handOf(t, gs, "p0")

	err := gs.HandlePlayCard("stranger", hand[0])
	assert.ErrorIs(t, err, apperrors.ErrNotInRoom)

	err = gs.HandlePlayCard("p0", hand[0])
	assert.ErrorIs(t, err, apperrors.ErrWrongPhase)

	err = gs.HandleSelectPass("p0", hand[:2])
	assert.ErrorIs(t, err, apperrors.ErrInvalidPass)

	_, err = gs.StateFor("stranger")
	assert.ErrorIs(t, err, apperrors.ErrNotInRoom)

	// 被拒绝的操作不会广播
	for _, c := range clients {
		assert.Empty(t, c.Messages())
	}

	require.NoError(t, gs.HandleSelectPass("p0", hand[:3]))
	assert.ErrorIs(t, gs.HandleSelectPass("p0", hand[3:6]), apperrors.ErrAlreadyPassed)
}

func TestGameSession_PassThenPlay(t *testing.T) {
	t.Parallel()

	store := testutil.NewMemoryGameStore()
	gs, clients := newTestSession(t, DefaultConfig(), Deps{Store: store})
	require.NoError(t, gs.Start())

	passAll(t, gs, clients)

	snap, err := gs.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, game.PhasePlaying, snap.Phase)

	cached, ok := store.Get(testRoom)
	require.True(t, ok)
	assert.IsType(t, &game.Snapshot{}, cached)

	leader := snap.CurrentPlayer
	leaderID := clients[leader].ID
	state := testutil.LastPayload[protocol.GameStateDTO](clients[leader], protocol.MsgGameState)
	require.NotNil(t, state)
	assert.Equal(t, leaderID, state.CurrentTurn)
	require.Len(t, state.PlayableCards, 1)
	assert.Equal(t, "CLUBS", state.PlayableCards[0].Suit)
	assert.Equal(t, "2", state.PlayableCards[0].Rank)
	assert.Len(t, state.ReceivedCards, 3)

	// 不是自己的回合
	other := clients[(leader+1)%4]
	assert.ErrorIs(t, gs.HandlePlayCard(other.ID, handOf(t, gs, other.ID)[0]), apperrors.ErrNotYourTurn)

	require.NoError(t, gs.HandlePlayCard(leaderID, card.TwoOfClubs))
	next := testutil.LastPayload[protocol.GameStateDTO](other, protocol.MsgGameState)
	require.NotNil(t, next)
	assert.Equal(t, other.ID, next.CurrentTurn)
	assert.Len(t, next.CurrentTrick, 1)
	assert.NotEmpty(t, next.PlayableCards)
}

func TestGameSession_TimeoutsFinishGame(t *testing.T) {
	t.Parallel()

	store := testutil.NewMemoryGameStore()
	lb := &testutil.MockLeaderboard{}
	lb.On("RecordGameResult", mock.Anything, mock.Anything).Return(nil)
	finished := make(chan string, 1)

	cfg := Config{
		TurnTimeout:    time.Millisecond,
		PassTimeout:    time.Millisecond,
		OfflineTimeout: time.Millisecond,
		MaxScore:       1,
	}
	gs, clients := newTestSession(t, cfg, Deps{
		Store:       store,
		Leaderboard: lb,
		OnFinish:    func(code string) { finished <- code },
	})
	require.NoError(t, gs.Start())

	select {
	case code := <-finished:
		assert.Equal(t, testRoom, code)
	case <-time.After(5 * time.Second):
		t.Fatal("对局没有在超时自动出牌下结束")
	}
	<-gs.Done()
	assert.True(t, gs.IsFinished())

	for _, c := range clients {
		assert.Len(t, c.MessagesOf(protocol.MsgTrickComplete), 13)
		assert.Len(t, c.MessagesOf(protocol.MsgHandScored), 1)
		over := testutil.LastPayload[protocol.GameOverPayload](c, protocol.MsgGameOver)
		require.NotNil(t, over)
		assert.False(t, over.Aborted)
		require.Len(t, over.Standings, 4)
		assert.Equal(t, over.WinnerID, over.Standings[0].PlayerID)
		for i := 1; i < 4; i++ {
			assert.LessOrEqual(t, over.Standings[i-1].Score, over.Standings[i].Score)
		}
	}

	lb.AssertNumberOfCalls(t, "RecordGameResult", 4)
	_, ok := store.Get(testRoom)
	assert.False(t, ok, "终局后删除快照")

	// 结束后的操作
	assert.ErrorIs(t, gs.HandlePlayCard("p0", card.TwoOfClubs), apperrors.ErrGameFinished)
}

func TestGameSession_OfflineAndReconnect(t *testing.T) {
	t.Parallel()

	gs, clients := newTestSession(t, DefaultConfig(), Deps{})
	require.NoError(t, gs.Start())

	require.NoError(t, gs.PlayerOffline("p1"))
	off := testutil.LastPayload[protocol.PlayerOfflinePayload](clients[0], protocol.MsgPlayerOffline)
	require.NotNil(t, off)
	assert.Equal(t, "p1", off.PlayerID)
	assert.Empty(t, clients[1].MessagesOf(protocol.MsgPlayerOffline))

	// 离线期间不再给该玩家发消息
	clients[1].Reset()
	require.NoError(t, gs.HandleSelectPass("p0", handOf(t, gs, "p0")[:3]))
	assert.Empty(t, clients[1].Messages())
	state := testutil.LastPayload[protocol.GameStateDTO](clients[0], protocol.MsgGameState)
	require.NotNil(t, state)
	assert.False(t, state.Players[1].Online)
	assert.True(t, state.Players[0].HasPassed)

	fresh := testutil.NewSimpleClient("p1", "南")
	require.NoError(t, gs.PlayerOnline("p1", fresh))
	replay := testutil.LastPayload[protocol.GameStateDTO](fresh, protocol.MsgGameState)
	require.NotNil(t, replay)
	assert.Equal(t, 1, replay.MySeat)
	assert.Len(t, replay.Hand, 13)
	assert.NotNil(t, testutil.LastPayload[protocol.PlayerOnlinePayload](clients[2], protocol.MsgPlayerOnline))

	assert.ErrorIs(t, gs.PlayerOffline("stranger"), apperrors.ErrNotInRoom)
}

func TestGameSession_StopDeletesSnapshot(t *testing.T) {
	t.Parallel()

	store := testutil.NewMemoryGameStore()
	gs, clients := newTestSession(t, DefaultConfig(), Deps{Store: store})
	require.NoError(t, gs.Start())
	_, ok := store.Get(testRoom)
	require.True(t, ok)

	gs.Stop()
	gs.Stop()
	_, ok = store.Get(testRoom)
	assert.False(t, ok)
	over := testutil.LastPayload[protocol.GameOverPayload](clients[0], protocol.MsgGameOver)
	require.NotNil(t, over)
	assert.True(t, over.Aborted)
	assert.True(t, gs.IsFinished())
	_, err := gs.StateFor("p0")
	assert.ErrorIs(t, err, apperrors.ErrGameFinished)
}

func TestHighestCards(t *testing.T) {
	t.Parallel()

	hand, err := card.ParseList("2C AH KS 10D AS 3H")
	require.NoError(t, err)

	got := highestCards(hand, 3)
	assert.Equal(t, "A♥ A♠ K♠", card.ToString(got))
	assert.Len(t, highestCards(hand[:2], 3), 2)
}
