package client

import "github.com/palemoky/hearts/internal/game/card"

// CardCounter 记牌器：记录本手已经打出的牌
type CardCounter struct {
	played map[card.Card]bool
}

// NewCardCounter creates and initializes a new card counter
func NewCardCounter() *CardCounter {
	return &CardCounter{played: make(map[card.Card]bool)}
}

// Reset 新一手开始时清空
func (cc *CardCounter) Reset() {
	clear(cc.played)
}

// Record 记录一墩打出的牌
func (cc *CardCounter) Record(cards []card.Card) {
	for _, c := range cards {
		cc.played[c] = true
	}
}

// Played 这张牌是否已经打出
func (cc *CardCounter) Played(c card.Card) bool {
	return cc.played[c]
}

// Outstanding 某花色还没打出、也不在 hand 里的牌（从大到小）
func (cc *CardCounter) Outstanding(s card.Suit, hand []card.Card) []card.Rank {
	var ranks []card.Rank
	for r := card.RankA; r >= card.Rank2; r-- {
		c := card.Card{Suit: s, Rank: r}
		if !cc.played[c] && !card.Contains(hand, c) {
			ranks = append(ranks, r)
		}
	}
	return ranks
}

// PointsLeft 还没打出的分数（红心每张 1 分，黑桃 Q 13 分）
func (cc *CardCounter) PointsLeft() int {
	left := card.TotalPoints
	for c := range cc.played {
		if card.IsPointCard(c) {
			left -= card.TrickPoints([]card.Card{c})
		}
	}
	return left
}
