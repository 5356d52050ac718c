package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/palemoky/hearts/internal/apperrors"
	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/game/rule"
)

// DefaultMaxScore 任一玩家累计分达到该值时比赛结束
const DefaultMaxScore = 100

// Game 一场红心大战比赛。
//
// Game 不加锁，同一时刻只能有一个调用方（见 session.GameSession）。
type Game struct {
	state    *rule.MatchState
	passing  *rule.PassingState
	phase    Phase
	current  int // 当前出牌座位，非出牌阶段为 -1
	maxScore int
	rng      *rand.Rand

	received [rule.NumSeats][]card.Card // 本手传牌后收到的牌
	history  []rule.HandResult
}

// Option 比赛选项
type Option func(*Game)

// WithMaxScore 设置结束分数
func WithMaxScore(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.maxScore = n
		}
	}
}

// WithRand 注入随机源，便于复现牌局
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

// WithSeed 使用固定种子
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// New 用 4 名玩家创建比赛并发第一手牌（第 0 手，向左传）
func New(ids, names []string, opts ...Option) (*Game, error) {
	state, err := rule.InitializeMatch(ids, names)
	if err != nil {
		return nil, err
	}
	g := &Game{
		state:    state,
		phase:    PhaseInitializing,
		current:  -1,
		maxScore: DefaultMaxScore,
	}
	for _, opt := range opts {
		opt(g)
	}

	rule.DealNewHand(g.state, g.rng)
	g.enterHand()
	return g, nil
}

// enterHand 新一手发牌后进入传牌或直接出牌
func (g *Game) enterHand() {
	g.received = [rule.NumSeats][]card.Card{}
	dir := rule.PassingDirectionFor(g.state.HandNumber)
	if dir == rule.PassHold {
		g.passing = nil
		g.startPlaying()
		return
	}
	g.passing = rule.NewPassingState(dir)
	g.phase = PhasePassing
	g.current = -1
}

func (g *Game) startPlaying() {
	seat, err := rule.FindStartingPlayer(g.state)
	if err != nil {
		panic(fmt.Sprintf("hearts: 第 %d 手: %v", g.state.HandNumber, err))
	}
	g.state.TrickLeader = seat
	g.current = seat
	g.phase = PhasePlaying
}

func (g *Game) checkPhase(want Phase) error {
	if g.phase == PhaseFinished {
		return apperrors.ErrGameFinished
	}
	if g.phase != want {
		return apperrors.ErrWrongPhase
	}
	return nil
}

// SelectCardsForPassing 座位选择要传出的 3 张牌。四人都选好后立即交换并开始出牌
func (g *Game) SelectCardsForPassing(seat int, cards []card.Card) error {
	if err := g.checkPhase(PhasePassing); err != nil {
		return err
	}
	if err := rule.SelectCardsForPassing(g.state, g.passing, seat, cards); err != nil {
		return err
	}
	if !g.passing.IsComplete {
		return nil
	}

	if err := rule.ExecutePassingPhase(g.state, g.passing); err != nil {
		panic(fmt.Sprintf("hearts: 第 %d 手传牌: %v", g.state.HandNumber, err))
	}
	for seat := range g.received {
		src := g.passing.Direction.Source(seat)
		g.received[seat] = card.SortHand(g.passing.SelectedCards[src])
	}
	g.passing = nil
	g.startPlaying()
	return nil
}

// TrickResult 一墩的结算
type TrickResult struct {
	Cards  []card.Card
	Leader int
	Winner int
	Points int
}

// PlayResult 一次出牌引起的变化
type PlayResult struct {
	Trick    *TrickResult     // 本次出牌完成了一墩
	Hand     *rule.HandResult // 本次出牌完成了一手
	GameOver bool
}

// PlayCard 当前座位出一张牌
func (g *Game) PlayCard(seat int, c card.Card) (*PlayResult, error) {
	if err := g.checkPhase(PhasePlaying); err != nil {
		return nil, err
	}
	if seat != g.current {
		return nil, apperrors.ErrNotYourTurn
	}
	if err := rule.PlayCard(g.state, seat, c); err != nil {
		return nil, err
	}

	res := &PlayResult{}
	if len(g.state.CurrentTrick) < rule.NumSeats {
		g.current = (g.current + 1) % rule.NumSeats
		return res, nil
	}

	leader := g.state.TrickLeader
	cards := g.state.CurrentTrick
	winner, points := rule.FinishTrick(g.state)
	res.Trick = &TrickResult{Cards: cards, Leader: leader, Winner: winner, Points: points}

	if !rule.IsHandComplete(g.state) {
		g.current = winner
		return res, nil
	}

	g.phase = PhaseScoring
	g.current = -1
	hand := rule.ScoreHand(g.state)
	g.history = append(g.history, hand)
	res.Hand = &hand

	if rule.IsGameOver(g.state, g.maxScore) {
		g.phase = PhaseFinished
		res.GameOver = true
		return res, nil
	}
	rule.StartNewHand(g.state, g.rng)
	g.enterHand()
	return res, nil
}

// ValidMoves 座位当前可出的牌，不是其出牌回合时为空
func (g *Game) ValidMoves(seat int) []card.Card {
	if g.phase != PhasePlaying || seat != g.current {
		return []card.Card{}
	}
	return rule.ValidMoves(g.state, seat)
}

// Phase 当前阶段
func (g *Game) Phase() Phase { return g.phase }

// CurrentPlayer 当前出牌座位，非出牌阶段为 -1
func (g *Game) CurrentPlayer() int { return g.current }

// HandNumber 当前手数（从 0 开始）
func (g *Game) HandNumber() int { return g.state.HandNumber }

// TrickProgress 本手已完成的墩数与当前墩已出的牌数
func (g *Game) TrickProgress() (tricks, inTrick int) {
	return g.state.TricksPlayed, len(g.state.CurrentTrick)
}

// MaxScore 结束分数
func (g *Game) MaxScore() int { return g.maxScore }

// PlayerIDs 按座位顺序返回玩家 ID
func (g *Game) PlayerIDs() []string {
	ids := make([]string, rule.NumSeats)
	for i, p := range g.state.Players {
		ids[i] = p.ID
	}
	return ids
}

// SeatOf 根据玩家 ID 查找座位，找不到返回 -1
func (g *Game) SeatOf(id string) int { return g.state.SeatOf(id) }

// Hand 座位当前手牌的副本
func (g *Game) Hand(seat int) []card.Card {
	if seat < 0 || seat >= rule.NumSeats {
		return nil
	}
	return append([]card.Card(nil), g.state.Players[seat].Hand...)
}

// Scores 按座位顺序返回累计分
func (g *Game) Scores() [rule.NumSeats]int {
	var out [rule.NumSeats]int
	for i := range out {
		out[i] = g.state.TotalScore(i)
	}
	return out
}

// Standings 按名次排序的座位
func (g *Game) Standings() [rule.NumSeats]int { return rule.Standings(g.state) }

// Winner 比赛结束后返回获胜玩家 ID
func (g *Game) Winner() (string, bool) {
	if g.phase != PhaseFinished {
		return "", false
	}
	_, id := rule.GetWinner(g.state)
	return id, true
}

// PassingDirection 本手的传牌方向
func (g *Game) PassingDirection() rule.PassingDirection {
	return rule.PassingDirectionFor(g.state.HandNumber)
}

// HasSelectedPassingCards 座位是否已选好要传的牌
func (g *Game) HasSelectedPassingCards(seat int) bool {
	if g.phase != PhasePassing || g.passing == nil || seat < 0 || seat >= rule.NumSeats {
		return false
	}
	return g.passing.HasSelected(seat)
}

// PlayersReadyToPass 已选好牌的座位
func (g *Game) PlayersReadyToPass() []int {
	if g.phase != PhasePassing || g.passing == nil {
		return []int{}
	}
	return g.passing.ReadySeats()
}

// LastHand 最近一手的计分结果
func (g *Game) LastHand() (rule.HandResult, bool) {
	if len(g.history) == 0 {
		return rule.HandResult{}, false
	}
	return g.history[len(g.history)-1], true
}
