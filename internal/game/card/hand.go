package card

import (
	"fmt"
	"strings"
	"unicode"
)

// Contains 判断手牌中是否有这张牌
func Contains(hand []Card, c Card) bool {
	for _, h := range hand {
		if h == c {
			return true
		}
	}
	return false
}

// HasSuit 判断手牌中是否有该花色
func HasSuit(hand []Card, s Suit) bool {
	for _, c := range hand {
		if c.Suit == s {
			return true
		}
	}
	return false
}

// OnlySuit 判断手牌是否全部为该花色（空手牌返回 false）
func OnlySuit(hand []Card, s Suit) bool {
	if len(hand) == 0 {
		return false
	}
	for _, c := range hand {
		if c.Suit != s {
			return false
		}
	}
	return true
}

// RemoveCards 从手牌中移除指定的牌，返回新切片
func RemoveCards(hand []Card, toRemove []Card) []Card {
	remove := make(map[Card]bool, len(toRemove))
	for _, c := range toRemove {
		remove[c] = true
	}
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if remove[c] {
			delete(remove, c)
			continue
		}
		out = append(out, c)
	}
	return out
}

// HasDuplicates 判断一组牌中是否有重复
func HasDuplicates(cards []Card) bool {
	seen := make(map[Card]struct{}, len(cards))
	for _, c := range cards {
		if _, ok := seen[c]; ok {
			return true
		}
		seen[c] = struct{}{}
	}
	return false
}

var suitLetters = map[rune]Suit{
	'H': Hearts,
	'D': Diamonds,
	'C': Clubs,
	'S': Spades,
	'♥': Hearts,
	'♦': Diamonds,
	'♣': Clubs,
	'♠': Spades,
}

// Parse 解析终端输入的单张牌，格式为点数加花色，如 "QS"、"10H"、"TD"、"2♣"
func Parse(s string) (Card, error) {
	runes := []rune(strings.ToUpper(strings.TrimSpace(s)))
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("无法识别的牌: %q", s)
	}
	suit, ok := suitLetters[runes[len(runes)-1]]
	if !ok {
		return Card{}, fmt.Errorf("无法识别的花色: %q", s)
	}
	symbol := string(runes[:len(runes)-1])
	if symbol == "T" {
		symbol = "10"
	}
	rank, err := ParseRank(symbol)
	if err != nil {
		return Card{}, err
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseList 解析以空格或逗号分隔的多张牌
func ParseList(input string) ([]Card, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// ToString 以空格连接显示一组牌
func ToString(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
