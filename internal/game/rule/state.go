package rule

import (
	"errors"
	"slices"

	"github.com/palemoky/hearts/internal/game/card"
)

// NumSeats 每局固定 4 个座位
const NumSeats = 4

// HandSize 每人每手 13 张
const HandSize = 13

// 配置与不变量错误。配置错误是调用方的 bug，不变量错误说明引擎内部出错
var (
	ErrInvalidPlayerCount = errors.New("hearts: 需要恰好 4 名玩家")
	ErrInvalidPlayerID    = errors.New("hearts: 玩家 ID 不能为空且不能重复")
	ErrNoTwoOfClubs       = errors.New("hearts: 没有玩家持有梅花 2")
	ErrHandSizeMismatch   = errors.New("hearts: 传牌后手牌不是 13 张")
)

// Player 座位上的玩家
type Player struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Hand  []card.Card `json:"hand"`
	Score int         `json:"score"` // 本手已吃进的分数
}

// MatchState 一场比赛的完整状态，在整场比赛中原地修改
type MatchState struct {
	Players      [NumSeats]Player `json:"players"`
	CurrentTrick []card.Card      `json:"currentTrick"`
	TrickLeader  int              `json:"trickLeader"`
	HeartsBroken bool             `json:"heartsBroken"`
	Scores       map[string]int   `json:"scores"` // 玩家 ID -> 累计分
	HandNumber   int              `json:"handNumber"`
	IsFirstTrick bool             `json:"isFirstTrick"`
	TricksPlayed int              `json:"tricksPlayed"`

	// 上一墩，仅用于展示；-1 表示本手尚无完成的墩
	LastTrick       []card.Card `json:"lastTrick,omitempty"`
	LastTrickLeader int         `json:"lastTrickLeader"`
	LastTrickWinner int         `json:"lastTrickWinner"`
}

// Clone 深拷贝
func (s *MatchState) Clone() *MatchState {
	c := *s
	for i := range c.Players {
		c.Players[i].Hand = slices.Clone(s.Players[i].Hand)
	}
	c.CurrentTrick = slices.Clone(s.CurrentTrick)
	c.LastTrick = slices.Clone(s.LastTrick)
	c.Scores = make(map[string]int, len(s.Scores))
	for k, v := range s.Scores {
		c.Scores[k] = v
	}
	return &c
}

// TotalScore 返回座位的累计分
func (s *MatchState) TotalScore(seat int) int {
	return s.Scores[s.Players[seat].ID]
}

// SeatOf 根据玩家 ID 查找座位，找不到返回 -1
func (s *MatchState) SeatOf(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// CurrentSeat 当前应出牌的座位
func (s *MatchState) CurrentSeat() int {
	return (s.TrickLeader + len(s.CurrentTrick)) % NumSeats
}
