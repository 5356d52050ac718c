package rule

import (
	"github.com/palemoky/hearts/internal/apperrors"
	"github.com/palemoky/hearts/internal/game/card"
)

// PassCount 每人传出的牌数
const PassCount = 3

// PassingDirection 传牌方向
type PassingDirection int

const (
	PassLeft PassingDirection = iota
	PassRight
	PassAcross
	PassHold
)

var directionNames = map[PassingDirection]string{
	PassLeft:   "LEFT",
	PassRight:  "RIGHT",
	PassAcross: "ACROSS",
	PassHold:   "HOLD",
}

func (d PassingDirection) String() string {
	return directionNames[d]
}

func (d PassingDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Offset 接收方相对来源方的座位偏移
func (d PassingDirection) Offset() int {
	switch d {
	case PassLeft:
		return 1
	case PassRight:
		return 3
	case PassAcross:
		return 2
	default:
		return 0
	}
}

// Target 返回 seat 传出的牌最终到达的座位
func (d PassingDirection) Target(seat int) int {
	return (seat + d.Offset()) % NumSeats
}

// Source 返回 seat 收到的牌来自哪个座位
func (d PassingDirection) Source(seat int) int {
	return (seat - d.Offset() + NumSeats) % NumSeats
}

// PassingDirectionFor 按手数轮换：左、右、对家、不传
func PassingDirectionFor(handNumber int) PassingDirection {
	return PassingDirection(handNumber % 4)
}

// PassingState 一手牌的传牌进度，按座位下标记录所选的牌
type PassingState struct {
	SelectedCards [NumSeats][]card.Card `json:"selectedCards"`
	Direction     PassingDirection      `json:"direction"`
	IsComplete    bool                  `json:"isComplete"`
}

// NewPassingState 为新一手创建传牌状态
func NewPassingState(dir PassingDirection) *PassingState {
	return &PassingState{Direction: dir}
}

// HasSelected 座位是否已选好牌
func (p *PassingState) HasSelected(seat int) bool {
	return len(p.SelectedCards[seat]) == PassCount
}

// ReadySeats 已选好牌的座位
func (p *PassingState) ReadySeats() []int {
	seats := make([]int, 0, NumSeats)
	for i := range p.SelectedCards {
		if p.HasSelected(i) {
			seats = append(seats, i)
		}
	}
	return seats
}

// Clone 深拷贝
func (p *PassingState) Clone() *PassingState {
	c := *p
	for i, sel := range p.SelectedCards {
		if sel != nil {
			c.SelectedCards[i] = append([]card.Card(nil), sel...)
		}
	}
	return &c
}

// SelectCardsForPassing 记录座位要传出的 3 张牌，此时不改动手牌
func SelectCardsForPassing(state *MatchState, ps *PassingState, seat int, cards []card.Card) error {
	if ps == nil || ps.Direction == PassHold {
		return apperrors.ErrWrongPhase
	}
	if seat < 0 || seat >= NumSeats {
		return apperrors.ErrNotInRoom
	}
	if ps.HasSelected(seat) {
		return apperrors.ErrAlreadyPassed
	}
	if len(cards) != PassCount || card.HasDuplicates(cards) {
		return apperrors.ErrInvalidPass
	}
	hand := state.Players[seat].Hand
	for _, c := range cards {
		if !card.Contains(hand, c) {
			return apperrors.ErrCardNotInHand
		}
	}

	ps.SelectedCards[seat] = append([]card.Card(nil), cards...)
	ps.IsComplete = len(ps.ReadySeats()) == NumSeats
	return nil
}

// ExecutePassingPhase 按方向交换所选的牌并重新整理手牌。
// 不传牌的一手直接返回；所有新手牌先算好再一起写回。
func ExecutePassingPhase(state *MatchState, ps *PassingState) error {
	if ps == nil || ps.Direction == PassHold {
		return nil
	}
	if !ps.IsComplete {
		return apperrors.ErrWrongPhase
	}

	var hands [NumSeats][]card.Card
	for dest := range state.Players {
		src := ps.Direction.Source(dest)
		hand := card.RemoveCards(state.Players[dest].Hand, ps.SelectedCards[dest])
		hand = append(hand, ps.SelectedCards[src]...)
		if len(hand) != HandSize {
			return ErrHandSizeMismatch
		}
		hands[dest] = card.SortHand(hand)
	}
	for i := range state.Players {
		state.Players[i].Hand = hands[i]
	}
	return nil
}
