package card

// IsPointCard 红心与黑桃 Q 为分牌
func IsPointCard(c Card) bool {
	return c.Suit == Hearts || c == QueenOfSpades
}

// TrickPoints 计算一墩的分数：每张红心 1 分，黑桃 Q 13 分
func TrickPoints(trick []Card) int {
	points := 0
	for _, c := range trick {
		switch {
		case c.Suit == Hearts:
			points++
		case c == QueenOfSpades:
			points += 13
		}
	}
	return points
}

// TotalPoints 一手牌中分数总和
const TotalPoints = 26

// IsValidPlay 判断在当前墩中打出 c 是否合法。
//
// 首墩首出必须是梅花 2；首墩跟牌不能出红心或黑桃 Q。
// 红心未破时不能首出红心，除非手里只剩红心。
// 跟牌时有首花色必须跟。
func IsValidPlay(c Card, hand, trick []Card, heartsBroken, isFirstTrick bool) bool {
	if isFirstTrick {
		if len(trick) == 0 {
			return c == TwoOfClubs
		}
		if IsPointCard(c) {
			return false
		}
	}

	if len(trick) == 0 {
		if c.Suit == Hearts && !heartsBroken {
			return OnlySuit(hand, Hearts)
		}
		return true
	}

	lead := trick[0].Suit
	if c.Suit != lead && HasSuit(hand, lead) {
		return false
	}
	return true
}
