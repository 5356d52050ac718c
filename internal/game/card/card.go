package card

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
)

// Suit 定义花色
type Suit int

// Rank 定义点数，数值即牌面大小（2..14）
type Rank int

// CardColor 定义牌的颜色
type CardColor int

const (
	Black CardColor = iota
	Red
)

// 花色顺序同时也是整理手牌的顺序
const (
	Hearts   Suit = iota // 红心
	Diamonds             // 方块
	Clubs                // 梅花
	Spades               // 黑桃
)

// Suits 按固定顺序列出全部花色
var Suits = [4]Suit{Hearts, Diamonds, Clubs, Spades}

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
	Spades:   "♠",
}

// suitNames 协议中使用的花色名
var suitNames = map[Suit]string{
	Hearts:   "HEARTS",
	Diamonds: "DIAMONDS",
	Clubs:    "CLUBS",
	Spades:   "SPADES",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return ""
}

// Name 返回协议花色名，如 "HEARTS"
func (s Suit) Name() string {
	return suitNames[s]
}

// Valid 判断是否为合法花色
func (s Suit) Valid() bool {
	_, ok := suitNames[s]
	return ok
}

// ParseSuit 解析协议花色名
func ParseSuit(name string) (Suit, error) {
	for s, n := range suitNames {
		if n == name {
			return s, nil
		}
	}
	return -1, fmt.Errorf("无法识别的花色: %q", name)
}

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("无效花色: %d", int(s))
	}
	return []byte(s.Name()), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	v, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

const (
	Rank2 Rank = iota + 2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ // Jack
	RankQ // Queen
	RankK // King
	RankA // Ace
)

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	Rank2:  "2",
	Rank3:  "3",
	Rank4:  "4",
	Rank5:  "5",
	Rank6:  "6",
	Rank7:  "7",
	Rank8:  "8",
	Rank9:  "9",
	Rank10: "10",
	RankJ:  "J",
	RankQ:  "Q",
	RankK:  "K",
	RankA:  "A",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// Valid 判断是否为合法点数
func (r Rank) Valid() bool {
	return r >= Rank2 && r <= RankA
}

// ParseRank 解析点数符号，如 "10"、"Q"
func ParseRank(s string) (Rank, error) {
	for r, n := range rankNames {
		if n == s {
			return r, nil
		}
	}
	return -1, fmt.Errorf("无法识别的点数: %q", s)
}

func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("无效点数: %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rank) UnmarshalText(b []byte) error {
	v, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Card 定义一张牌，两张牌相同当且仅当花色与点数都相同
type Card struct {
	Suit Suit
	Rank Rank
}

// Value 返回比较大小用的数值（2..14）
func (c Card) Value() int {
	return int(c.Rank)
}

// Color 返回牌的颜色
func (c Card) Color() CardColor {
	if c.Suit == Hearts || c.Suit == Diamonds {
		return Red
	}
	return Black
}

// Valid 判断是否为一张合法的牌
func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank.Valid()
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// TwoOfClubs 梅花 2，持有者首墩首出
var TwoOfClubs = Card{Suit: Clubs, Rank: Rank2}

// QueenOfSpades 黑桃 Q，13 分
var QueenOfSpades = Card{Suit: Spades, Rank: RankQ}

type cardJSON struct {
	Suit  Suit `json:"suit"`
	Rank  Rank `json:"rank"`
	Value int  `json:"value"`
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Suit: c.Suit, Rank: c.Rank, Value: c.Value()})
}

// UnmarshalJSON 只信任花色与点数，value 由点数重新计算
func (c *Card) UnmarshalJSON(b []byte) error {
	var v cardJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if !(Card{Suit: v.Suit, Rank: v.Rank}).Valid() {
		return fmt.Errorf("无效的牌: %s", b)
	}
	*c = Card{Suit: v.Suit, Rank: v.Rank}
	return nil
}

// Deck 定义一副牌
type Deck []Card

// NewDeck 按花色、点数顺序生成 52 张牌
func NewDeck() Deck {
	deck := make(Deck, 0, 52)
	for _, s := range Suits {
		for r := Rank2; r <= RankA; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle 返回洗好的新牌组（Fisher-Yates），不修改原牌组。
// rng 为 nil 时使用全局随机源。
func Shuffle(deck Deck, rng *rand.Rand) Deck {
	out := slices.Clone(deck)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng == nil {
		rand.Shuffle(len(out), swap)
	} else {
		rng.Shuffle(len(out), swap)
	}
	return out
}

// Deal 轮流发牌，第 i 张牌发给 i%4 号座位
func Deal(deck Deck) [4][]Card {
	var hands [4][]Card
	for i := range hands {
		hands[i] = make([]Card, 0, len(deck)/4+1)
	}
	for i, c := range deck {
		hands[i%4] = append(hands[i%4], c)
	}
	return hands
}

// Compare 按花色顺序再按点数比较，用于整理手牌
func Compare(a, b Card) int {
	if a.Suit != b.Suit {
		return int(a.Suit) - int(b.Suit)
	}
	return a.Value() - b.Value()
}

// SortHand 返回整理后的手牌副本
func SortHand(hand []Card) []Card {
	out := slices.Clone(hand)
	slices.SortFunc(out, Compare)
	return out
}
