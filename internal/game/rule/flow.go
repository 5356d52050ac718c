package rule

import (
	"math/rand/v2"

	"github.com/palemoky/hearts/internal/apperrors"
	"github.com/palemoky/hearts/internal/game/card"
)

// InitializeMatch 创建一场新比赛，尚未发牌
func InitializeMatch(ids, names []string) (*MatchState, error) {
	if len(ids) != NumSeats || len(names) != NumSeats {
		return nil, ErrInvalidPlayerCount
	}
	seen := make(map[string]bool, NumSeats)
	state := &MatchState{
		Scores:          make(map[string]int, NumSeats),
		IsFirstTrick:    true,
		LastTrickWinner: -1,
	}
	for i, id := range ids {
		if id == "" || seen[id] {
			return nil, ErrInvalidPlayerID
		}
		seen[id] = true
		state.Players[i] = Player{ID: id, Name: names[i], Hand: []card.Card{}}
		state.Scores[id] = 0
	}
	return state, nil
}

// DealNewHand 洗牌发牌并重置本手字段，累计分与手数保持不变
func DealNewHand(state *MatchState, rng *rand.Rand) *MatchState {
	hands := card.Deal(card.Shuffle(card.NewDeck(), rng))
	for i := range state.Players {
		state.Players[i].Hand = card.SortHand(hands[i])
		state.Players[i].Score = 0
	}
	state.CurrentTrick = nil
	state.TrickLeader = 0
	state.HeartsBroken = false
	state.IsFirstTrick = true
	state.TricksPlayed = 0
	state.LastTrick = nil
	state.LastTrickLeader = 0
	state.LastTrickWinner = -1
	return state
}

// StartNewHand 手数加一后重新发牌
func StartNewHand(state *MatchState, rng *rand.Rand) *MatchState {
	state.HandNumber++
	return DealNewHand(state, rng)
}

// FindStartingPlayer 返回持有梅花 2 的座位
func FindStartingPlayer(state *MatchState) (int, error) {
	for i, p := range state.Players {
		if card.Contains(p.Hand, card.TwoOfClubs) {
			return i, nil
		}
	}
	return -1, ErrNoTwoOfClubs
}

// PlayCard 座位出一张牌，不检查出牌顺序（见 CanPlayCard）
func PlayCard(state *MatchState, seat int, c card.Card) error {
	if seat < 0 || seat >= NumSeats {
		return apperrors.ErrNotInRoom
	}
	if len(state.CurrentTrick) >= NumSeats {
		return apperrors.ErrWrongPhase
	}
	hand := state.Players[seat].Hand
	if !card.Contains(hand, c) {
		return apperrors.ErrCardNotInHand
	}
	if !card.IsValidPlay(c, hand, state.CurrentTrick, state.HeartsBroken, state.IsFirstTrick) {
		return apperrors.ErrInvalidCard
	}

	state.Players[seat].Hand = card.RemoveCards(hand, []card.Card{c})
	state.CurrentTrick = append(state.CurrentTrick, c)
	if c.Suit == card.Hearts {
		state.HeartsBroken = true
	}
	return nil
}

// DetermineTrickWinner 首花色中最大的牌赢得该墩
func DetermineTrickWinner(trick []card.Card, trickLeader int) (winner, points int) {
	if len(trick) == 0 {
		return trickLeader, 0
	}
	lead := trick[0].Suit
	best := 0
	for i, c := range trick[1:] {
		if c.Suit == lead && c.Value() > trick[best].Value() {
			best = i + 1
		}
	}
	return (trickLeader + best) % NumSeats, card.TrickPoints(trick)
}

// FinishTrick 结算当前墩，赢家下一墩先出
func FinishTrick(state *MatchState) (winner, points int) {
	winner, points = DetermineTrickWinner(state.CurrentTrick, state.TrickLeader)
	state.Players[winner].Score += points

	state.LastTrick = state.CurrentTrick
	state.LastTrickLeader = state.TrickLeader
	state.LastTrickWinner = winner

	state.TrickLeader = winner
	state.CurrentTrick = nil
	state.TricksPlayed++
	state.IsFirstTrick = false
	return winner, points
}

// IsHandComplete 13 墩打完
func IsHandComplete(state *MatchState) bool {
	return state.TricksPlayed == HandSize
}

// HandResult 一手牌的计分结果
type HandResult struct {
	HandNumber  int           `json:"handNumber"`
	Taken       [NumSeats]int `json:"taken"`       // 实际吃进的分
	Points      [NumSeats]int `json:"points"`      // 计入累计分的分数
	MoonShooter int           `json:"moonShooter"` // 全收者座位，没有为 -1
}

// ScoreHand 把本手分数计入累计分。一人吃进全部 26 分时，其记 0 分，其余三人各记 26 分
func ScoreHand(state *MatchState) HandResult {
	res := HandResult{HandNumber: state.HandNumber, MoonShooter: -1}
	for i, p := range state.Players {
		res.Taken[i] = p.Score
		res.Points[i] = p.Score
		if p.Score == card.TotalPoints {
			res.MoonShooter = i
		}
	}
	if res.MoonShooter >= 0 {
		for i := range res.Points {
			if i == res.MoonShooter {
				res.Points[i] = 0
			} else {
				res.Points[i] = card.TotalPoints
			}
		}
	}
	for i, p := range state.Players {
		state.Scores[p.ID] += res.Points[i]
	}
	return res
}

// IsGameOver 任一累计分达到上限即结束
func IsGameOver(state *MatchState, maxScore int) bool {
	for _, p := range state.Players {
		if state.Scores[p.ID] >= maxScore {
			return true
		}
	}
	return false
}

// GetWinner 累计分最低者获胜，同分按座位顺序取靠前者
func GetWinner(state *MatchState) (seat int, id string) {
	seat = 0
	for i := 1; i < NumSeats; i++ {
		if state.TotalScore(i) < state.TotalScore(seat) {
			seat = i
		}
	}
	return seat, state.Players[seat].ID
}

// Standings 按名次排序的座位（分低在前，同分按座位顺序）
func Standings(state *MatchState) [NumSeats]int {
	var order [NumSeats]int
	for i := range order {
		order[i] = i
	}
	for i := 1; i < NumSeats; i++ {
		for j := i; j > 0 && state.TotalScore(order[j]) < state.TotalScore(order[j-1]); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}

// CanPlayCard 检查出牌顺序、是否持有以及出牌规则
func CanPlayCard(state *MatchState, seat int, c card.Card) bool {
	if seat < 0 || seat >= NumSeats || len(state.CurrentTrick) >= NumSeats {
		return false
	}
	if seat != state.CurrentSeat() {
		return false
	}
	hand := state.Players[seat].Hand
	return card.Contains(hand, c) &&
		card.IsValidPlay(c, hand, state.CurrentTrick, state.HeartsBroken, state.IsFirstTrick)
}

// ValidMoves 座位当前可出的牌，不是其回合时为空
func ValidMoves(state *MatchState, seat int) []card.Card {
	moves := []card.Card{}
	if seat < 0 || seat >= NumSeats || seat != state.CurrentSeat() {
		return moves
	}
	for _, c := range state.Players[seat].Hand {
		if CanPlayCard(state, seat, c) {
			moves = append(moves, c)
		}
	}
	return moves
}
