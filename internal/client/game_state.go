package client

import (
	"github.com/palemoky/hearts/internal/game"
	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/game/rule"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/convert"
)

// GameState 客户端对局状态，由服务器推送的 game_state 驱动
type GameState struct {
	RoomCode string
	Phase    game.Phase
	MySeat   int
	MaxScore int

	HandNumber       int
	PassingDirection string
	Players          []protocol.GamePlayerInfo
	CurrentSeat      int
	Timeout          int
	HeartsBroken     bool

	Hand     []card.Card
	Playable map[card.Card]bool
	Trick    []card.Card

	TrickLeader int

	// 传牌
	Selected  map[card.Card]bool
	HasPassed bool
	Received  []card.Card

	// 最近结束的一墩
	LastTrick       []card.Card
	LastTrickWinner string

	// 终局
	Standings []protocol.Standing
	Aborted   bool

	CardCounter *CardCounter
}

// NewGameState creates a new game state
func NewGameState() *GameState {
	return &GameState{
		Playable:    make(map[card.Card]bool),
		Selected:    make(map[card.Card]bool),
		CardCounter: NewCardCounter(),
	}
}

// Apply 用服务器视角刷新本地状态
func (gs *GameState) Apply(dto *protocol.GameStateDTO) {
	newHand := dto.HandNumber != gs.HandNumber
	if newHand {
		gs.CardCounter.Reset()
		clear(gs.Selected)
		gs.LastTrick = nil
		gs.LastTrickWinner = ""
	}

	_ = gs.Phase.UnmarshalText([]byte(dto.Phase))
	gs.MySeat = dto.MySeat
	gs.MaxScore = dto.MaxScore
	gs.HandNumber = dto.HandNumber
	gs.PassingDirection = dto.PassingDirection
	gs.Players = dto.Players
	gs.CurrentSeat = dto.CurrentSeat
	gs.Timeout = dto.Timeout
	gs.HeartsBroken = dto.HeartsBroken
	gs.Hand = card.SortHand(mustCards(dto.Hand))
	gs.Trick = mustCards(dto.CurrentTrick)
	gs.TrickLeader = dto.TrickLeader
	gs.Received = mustCards(dto.ReceivedCards)
	gs.Standings = nil
	gs.Aborted = false

	clear(gs.Playable)
	for _, c := range mustCards(dto.PlayableCards) {
		gs.Playable[c] = true
	}

	gs.HasPassed = len(dto.SelectedPass) > 0
	if gs.HasPassed {
		clear(gs.Selected)
		for _, c := range mustCards(dto.SelectedPass) {
			gs.Selected[c] = true
		}
	}
	if len(dto.LastTrick) > 0 {
		gs.LastTrick = mustCards(dto.LastTrick)
	}
}

// RecordTrick 记下一墩结束
func (gs *GameState) RecordTrick(p *protocol.TrickCompletePayload) {
	cards := mustCards(p.Cards)
	gs.CardCounter.Record(cards)
	gs.LastTrick = cards
	gs.LastTrickWinner = p.WinnerName
}

// Finish 记下终局结果
func (gs *GameState) Finish(p *protocol.GameOverPayload) {
	gs.Phase = game.PhaseFinished
	gs.Standings = p.Standings
	gs.Aborted = p.Aborted
}

// IsMyTurn 是否轮到自己出牌
func (gs *GameState) IsMyTurn() bool {
	return gs.Phase == game.PhasePlaying && gs.CurrentSeat == gs.MySeat
}

// CanPlay 这张牌现在能否打出
func (gs *GameState) CanPlay(c card.Card) bool {
	return gs.IsMyTurn() && gs.Playable[c]
}

// ToggleSelect 传牌阶段选中/取消第 idx 张手牌，最多选 3 张
func (gs *GameState) ToggleSelect(idx int) bool {
	if gs.Phase != game.PhasePassing || gs.HasPassed || idx < 0 || idx >= len(gs.Hand) {
		return false
	}
	c := gs.Hand[idx]
	if gs.Selected[c] {
		delete(gs.Selected, c)
		return true
	}
	if len(gs.Selected) >= rule.PassCount {
		return false
	}
	gs.Selected[c] = true
	return true
}

// SelectedCards 按手牌顺序返回选中的牌
func (gs *GameState) SelectedCards() []card.Card {
	var out []card.Card
	for _, c := range gs.Hand {
		if gs.Selected[c] {
			out = append(out, c)
		}
	}
	return out
}

// ReadyToPass 是否已选满要传的张数
func (gs *GameState) ReadyToPass() bool {
	return !gs.HasPassed && len(gs.Selected) == rule.PassCount
}

// TrickSeat 当前一墩第 i 张牌的出牌座位
func (gs *GameState) TrickSeat(i int) int {
	return (gs.TrickLeader + i) % rule.NumSeats
}

// PlayerAt 座位上的玩家
func (gs *GameState) PlayerAt(seat int) *protocol.GamePlayerInfo {
	for i := range gs.Players {
		if gs.Players[i].Seat == seat {
			return &gs.Players[i]
		}
	}
	return nil
}

// Reset clears all game state
func (gs *GameState) Reset() {
	*gs = *NewGameState()
}

// mustCards 服务器下发的牌总是合法的，无法解析的直接丢弃
func mustCards(infos []protocol.CardInfo) []card.Card {
	cards := make([]card.Card, 0, len(infos))
	for _, info := range infos {
		if c, err := convert.InfoToCard(info); err == nil {
			cards = append(cards, c)
		}
	}
	return cards
}
