package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/hearts/internal/apperrors"
	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/game/rule"
)

var (
	testIDs   = []string{"p1", "p2", "p3", "p4"}
	testNames = []string{"东", "南", "西", "北"}
)

func newTestGame(t *testing.T, seed uint64, opts ...Option) *Game {
	t.Helper()
	g, err := New(testIDs, testNames, append([]Option{WithSeed(seed)}, opts...)...)
	require.NoError(t, err)
	return g
}

func passAll(t *testing.T, g *Game) {
	t.Helper()
	for seat := range rule.NumSeats {
		if !g.HasSelectedPassingCards(seat) {
			require.NoError(t, g.SelectCardsForPassing(seat, g.Hand(seat)[:3]))
		}
	}
}

// step 推进一步：传牌阶段让所有人传出最前面的 3 张，出牌阶段打出第一张合法的牌
func step(t *testing.T, g *Game) *PlayResult {
	t.Helper()
	switch g.Phase() {
	case PhasePassing:
		passAll(t, g)
		return nil
	case PhasePlaying:
		seat := g.CurrentPlayer()
		moves := g.ValidMoves(seat)
		require.NotEmpty(t, moves)
		res, err := g.PlayCard(seat, moves[0])
		require.NoError(t, err)
		return res
	default:
		t.Fatalf("unexpected phase %s", g.Phase())
		return nil
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(testIDs[:3], testNames[:3])
	assert.ErrorIs(t, err, rule.ErrInvalidPlayerCount)

	_, err = New([]string{"x", "x", "y", "z"}, testNames)
	assert.ErrorIs(t, err, rule.ErrInvalidPlayerID)

	g := newTestGame(t, 1)
	assert.Equal(t, PhasePassing, g.Phase())
	assert.Equal(t, 0, g.HandNumber())
	assert.Equal(t, rule.PassLeft, g.PassingDirection())
	assert.Equal(t, -1, g.CurrentPlayer())
	assert.Equal(t, DefaultMaxScore, g.MaxScore())
	assert.Empty(t, g.PlayersReadyToPass())
	for seat := range rule.NumSeats {
		assert.Len(t, g.Hand(seat), rule.HandSize)
		assert.Empty(t, g.ValidMoves(seat))
	}
	_, ok := g.Winner()
	assert.False(t, ok)
}

func TestPassingPhase(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 2)
	var passed [rule.NumSeats][]card.Card
	for seat := range rule.NumSeats {
		passed[seat] = g.Hand(seat)[:3]
	}

	_, err := g.PlayCard(0, g.Hand(0)[0])
	assert.ErrorIs(t, err, apperrors.ErrWrongPhase)

	require.NoError(t, g.SelectCardsForPassing(0, passed[0]))
	assert.True(t, g.HasSelectedPassingCards(0))
	assert.Equal(t, []int{0}, g.PlayersReadyToPass())
	assert.ErrorIs(t, g.SelectCardsForPassing(0, g.Hand(0)[3:6]), apperrors.ErrAlreadyPassed)
	assert.ErrorIs(t, g.SelectCardsForPassing(1, g.Hand(1)[:2]), apperrors.ErrInvalidPass)
	assert.Equal(t, PhasePassing, g.Phase())

	cs := g.ClientState(0)
	assert.Equal(t, passed[0], cs.SelectedPass)
	assert.True(t, cs.Players[0].HasPassed)
	assert.False(t, cs.Players[1].HasPassed)

	for seat := 1; seat < rule.NumSeats; seat++ {
		require.NoError(t, g.SelectCardsForPassing(seat, passed[seat]))
	}

	assert.Equal(t, PhasePlaying, g.Phase())
	starter := g.CurrentPlayer()
	assert.True(t, card.Contains(g.Hand(starter), card.TwoOfClubs))
	assert.Equal(t, []card.Card{card.TwoOfClubs}, g.ValidMoves(starter))

	for seat := range rule.NumSeats {
		hand := g.Hand(seat)
		assert.Len(t, hand, rule.HandSize)
		for _, c := range passed[seat] {
			assert.True(t, card.Contains(g.Hand((seat+1)%4), c))
		}
		assert.ElementsMatch(t, passed[(seat+3)%4], g.ClientState(seat).ReceivedCards)
	}
	assert.ErrorIs(t, g.SelectCardsForPassing(0, g.Hand(0)[:3]), apperrors.ErrWrongPhase)
}

func TestPlayTurnOrder(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 3)
	passAll(t, g)

	starter := g.CurrentPlayer()
	other := (starter + 1) % 4
	_, err := g.PlayCard(other, g.Hand(other)[0])
	assert.ErrorIs(t, err, apperrors.ErrNotYourTurn)

	for _, c := range g.Hand(starter) {
		if c != card.TwoOfClubs {
			_, err = g.PlayCard(starter, c)
			assert.Error(t, err)
			break
		}
	}

	res, err := g.PlayCard(starter, card.TwoOfClubs)
	require.NoError(t, err)
	assert.Nil(t, res.Trick)
	assert.Equal(t, other, g.CurrentPlayer())
	tricks, inTrick := g.TrickProgress()
	assert.Equal(t, 0, tricks)
	assert.Equal(t, 1, inTrick)

	for range 3 {
		res = step(t, g)
	}
	require.NotNil(t, res.Trick)
	assert.Equal(t, starter, res.Trick.Leader)
	assert.Len(t, res.Trick.Cards, 4)
	assert.Equal(t, res.Trick.Winner, g.CurrentPlayer())
	assert.Equal(t, 1, g.ClientState(0).TricksPlayed)
	tricks, inTrick = g.TrickProgress()
	assert.Equal(t, 1, tricks)
	assert.Equal(t, 0, inTrick)
	assert.False(t, g.ClientState(0).IsFirstTrick)
}

func TestPhaseText(t *testing.T) {
	t.Parallel()

	for _, p := range []Phase{PhaseWaitingForPlayers, PhasePassing, PhasePlaying, PhaseFinished} {
		b, err := p.MarshalText()
		require.NoError(t, err)
		var got Phase
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, p, got)
	}

	got := PhasePlaying
	assert.Error(t, got.UnmarshalText([]byte("LOBBY")))
	assert.Equal(t, PhasePlaying, got)
}

func TestFullGame(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 42)
	hands := 0
	for steps := 0; g.Phase() != PhaseFinished; steps++ {
		require.Less(t, steps, 10000)
		res := step(t, g)
		if res == nil || res.Hand == nil {
			continue
		}
		hands++

		total := 0
		for _, p := range res.Hand.Points {
			total += p
		}
		taken := 0
		for _, p := range res.Hand.Taken {
			taken += p
		}
		assert.Equal(t, card.TotalPoints, taken)
		if res.Hand.MoonShooter >= 0 {
			assert.Equal(t, 3*card.TotalPoints, total)
		} else {
			assert.Equal(t, card.TotalPoints, total)
		}

		if res.GameOver {
			break
		}
		if g.HandNumber()%4 == 3 {
			assert.Equal(t, PhasePlaying, g.Phase(), "hold hand skips passing")
			assert.Nil(t, g.ClientState(0).SelectedPass)
		} else {
			assert.Equal(t, PhasePassing, g.Phase())
		}
		for seat := range rule.NumSeats {
			assert.Len(t, g.Hand(seat), rule.HandSize)
		}
	}

	assert.Equal(t, PhaseFinished, g.Phase())
	assert.Equal(t, hands, len(g.Snapshot().History))

	scores := g.Scores()
	maxSeen := 0
	for _, s := range scores {
		maxSeen = max(maxSeen, s)
	}
	assert.GreaterOrEqual(t, maxSeen, DefaultMaxScore)

	winner, ok := g.Winner()
	require.True(t, ok)
	best := g.Standings()[0]
	assert.Equal(t, testIDs[best], winner)
	for _, s := range scores {
		assert.LessOrEqual(t, scores[best], s)
	}

	_, err := g.PlayCard(0, card.TwoOfClubs)
	assert.ErrorIs(t, err, apperrors.ErrGameFinished)
	assert.ErrorIs(t, g.SelectCardsForPassing(0, nil), apperrors.ErrGameFinished)
	assert.Equal(t, winner, g.ClientState(0).Winner)
	assert.Equal(t, -1, g.CurrentPlayer())
}

func TestDeterministicReplay(t *testing.T) {
	t.Parallel()

	a := newTestGame(t, 7)
	b := newTestGame(t, 7)
	for range 60 {
		step(t, a)
		step(t, b)
	}
	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestWithMaxScore(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 5, WithMaxScore(1))
	for g.Phase() != PhaseFinished {
		step(t, g)
	}
	assert.Zero(t, g.HandNumber(), "first scored hand reaches one point")
}

func TestClientStateHidesOtherHands(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 8)
	passAll(t, g)
	starter := g.CurrentPlayer()

	for seat := range rule.NumSeats {
		cs := g.ClientState(seat)
		assert.Equal(t, seat, cs.MySeat)
		assert.Equal(t, g.Hand(seat), cs.MyHand)
		assert.Equal(t, testIDs[starter], cs.CurrentPlayerTurn)
		for _, p := range cs.Players {
			assert.Equal(t, rule.HandSize, p.CardCount)
		}
		if seat == starter {
			assert.Equal(t, []card.Card{card.TwoOfClubs}, cs.PlayableCards)
		} else {
			assert.Empty(t, cs.PlayableCards)
		}
	}

	outsider := g.ClientState(-1)
	assert.Empty(t, outsider.MyHand)
	assert.Empty(t, outsider.PlayableCards)
	assert.Equal(t, PhasePlaying, outsider.Phase)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	t.Parallel()

	g := newTestGame(t, 9)
	snap := g.Snapshot()
	require.NotNil(t, snap.Passing)
	snap.State.Players[0].Hand[0] = card.QueenOfSpades
	snap.State.Scores["p1"] = 99

	again := g.Snapshot()
	assert.Equal(t, g.Hand(0)[0], again.State.Players[0].Hand[0])
	assert.Zero(t, again.State.Scores["p1"])
	assert.Equal(t, PhasePassing, again.Phase)
}

func TestPhaseString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "WAITING_FOR_PLAYERS", PhaseWaitingForPlayers.String())
	assert.Equal(t, "FINISHED", PhaseFinished.String())

	var p Phase
	require.NoError(t, p.UnmarshalText([]byte("SCORING")))
	assert.Equal(t, PhaseScoring, p)
}
