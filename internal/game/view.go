package game

import (
	"slices"

	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/game/rule"
)

// Snapshot 完整比赛状态的深拷贝，仅供服务端内部使用（缓存、调试）
type Snapshot struct {
	State         *rule.MatchState   `json:"state"`
	Passing       *rule.PassingState `json:"passing,omitempty"`
	Phase         Phase              `json:"phase"`
	CurrentPlayer int                `json:"currentPlayer"`
	MaxScore      int                `json:"maxScore"`
	History       []rule.HandResult  `json:"history"`
}

// Snapshot 返回完整状态
func (g *Game) Snapshot() *Snapshot {
	snap := &Snapshot{
		State:         g.state.Clone(),
		Phase:         g.phase,
		CurrentPlayer: g.current,
		MaxScore:      g.maxScore,
		History:       slices.Clone(g.history),
	}
	if g.passing != nil {
		snap.Passing = g.passing.Clone()
	}
	return snap
}

// PlayerView 对所有人公开的玩家信息
type PlayerView struct {
	ID         string
	Name       string
	Seat       int
	Score      int // 累计分
	HandPoints int // 本手已吃进的分
	CardCount  int
	HasPassed  bool
}

// ClientGameState 某个座位能看到的比赛状态，只包含该座位自己的手牌
type ClientGameState struct {
	Players           []PlayerView
	CurrentTrick      []card.Card
	TrickLeader       int
	HeartsBroken      bool
	HandNumber        int
	IsFirstTrick      bool
	TricksPlayed      int
	Phase             Phase
	CurrentSeat       int
	CurrentPlayerTurn string
	PassingDirection  rule.PassingDirection
	MaxScore          int

	LastTrick       []card.Card
	LastTrickLeader int
	LastTrickWinner int
	LastHand        *rule.HandResult
	Winner          string

	MySeat        int
	MyHand        []card.Card
	PlayableCards []card.Card
	SelectedPass  []card.Card
	ReceivedCards []card.Card
}

// ClientState 返回 seat 的视角；seat 越界时不含任何手牌
func (g *Game) ClientState(seat int) *ClientGameState {
	s := g.state
	cs := &ClientGameState{
		Players:          make([]PlayerView, rule.NumSeats),
		CurrentTrick:     slices.Clone(s.CurrentTrick),
		TrickLeader:      s.TrickLeader,
		HeartsBroken:     s.HeartsBroken,
		HandNumber:       s.HandNumber,
		IsFirstTrick:     s.IsFirstTrick,
		TricksPlayed:     s.TricksPlayed,
		Phase:            g.phase,
		CurrentSeat:      g.current,
		PassingDirection: g.PassingDirection(),
		MaxScore:         g.maxScore,
		LastTrick:        slices.Clone(s.LastTrick),
		LastTrickLeader:  s.LastTrickLeader,
		LastTrickWinner:  s.LastTrickWinner,
		MySeat:           -1,
		MyHand:           []card.Card{},
		PlayableCards:    []card.Card{},
	}
	for i, p := range s.Players {
		cs.Players[i] = PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			Seat:       i,
			Score:      s.TotalScore(i),
			HandPoints: p.Score,
			CardCount:  len(p.Hand),
			HasPassed:  g.HasSelectedPassingCards(i),
		}
	}
	if g.current >= 0 {
		cs.CurrentPlayerTurn = s.Players[g.current].ID
	}
	if last, ok := g.LastHand(); ok {
		cs.LastHand = &last
	}
	if id, ok := g.Winner(); ok {
		cs.Winner = id
	}

	if seat < 0 || seat >= rule.NumSeats {
		return cs
	}
	cs.MySeat = seat
	cs.MyHand = g.Hand(seat)
	cs.PlayableCards = g.ValidMoves(seat)
	if g.passing != nil {
		cs.SelectedPass = slices.Clone(g.passing.SelectedCards[seat])
	}
	cs.ReceivedCards = slices.Clone(g.received[seat])
	return cs
}
