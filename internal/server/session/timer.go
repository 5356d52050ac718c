package session

import (
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/palemoky/hearts/internal/game"
	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/game/rule"
)

// --- 超时控制 ---

// armTimer 进入新的等待点时重置计时器；同一等待点（如传牌阶段陆续有人选好）不重置
func (gs *GameSession) armTimer() {
	var (
		key     string
		timeout time.Duration
		waiting = -1
	)
	switch gs.game.Phase() {
	case game.PhasePassing:
		key = fmt.Sprintf("pass:%d", gs.game.HandNumber())
		timeout = gs.cfg.PassTimeout
	case game.PhasePlaying:
		waiting = gs.game.CurrentPlayer()
		tricks, inTrick := gs.game.TrickProgress()
		key = fmt.Sprintf("play:%d:%d:%d", gs.game.HandNumber(), tricks, inTrick)
		timeout = gs.cfg.TurnTimeout
	default:
		gs.stopTimer()
		return
	}
	if key == gs.timerKey && gs.timer != nil {
		return
	}
	gs.timerKey = key

	if waiting >= 0 && !gs.players[waiting].online {
		timeout = min(timeout, gs.cfg.OfflineTimeout)
	}
	gs.startTimer(timeout)
}

func (gs *GameSession) startTimer(d time.Duration) {
	gs.stopTimer()
	if d <= 0 {
		return
	}
	gs.timerGen++
	gen := gs.timerGen
	gs.deadline = time.Now().Add(d)
	gs.timer = time.AfterFunc(d, func() {
		gs.post(func() {
			// 计时器已被重置
			if gen != gs.timerGen {
				return
			}
			gs.handleTimeout()
		})
	})
}

// shortenTimer 剩余时间超过 d 时改为 d
func (gs *GameSession) shortenTimer(d time.Duration) {
	if gs.timer == nil || d <= 0 || time.Until(gs.deadline) <= d {
		return
	}
	key := gs.timerKey
	gs.startTimer(d)
	gs.timerKey = key
}

func (gs *GameSession) stopTimer() {
	if gs.timer != nil {
		gs.timer.Stop()
		gs.timer = nil
	}
	gs.timerGen++
	gs.deadline = time.Time{}
}

func (gs *GameSession) handleTimeout() {
	gs.timer = nil
	gs.timerKey = ""

	switch gs.game.Phase() {
	case game.PhasePassing:
		gs.autoPass()
		if gs.ended {
			return
		}
		gs.afterChange(nil)
	case game.PhasePlaying:
		seat := gs.game.CurrentPlayer()
		moves := gs.game.ValidMoves(seat)
		if len(moves) == 0 {
			// 首墩只剩分牌且无法跟牌时无合法出牌
			gs.abort(fmt.Sprintf("座位 %d 无合法出牌", seat))
			return
		}
		log.Printf("⏰ 房间 %s 玩家 %s 超时，自动出牌 %s", gs.roomCode, gs.players[seat].Name, moves[0])
		res, err := gs.game.PlayCard(seat, moves[0])
		if err != nil {
			gs.abort(err.Error())
			return
		}
		gs.afterChange(res)
	}
}

// autoPass 为未选牌的玩家传出最大的 3 张牌
func (gs *GameSession) autoPass() {
	for seat, p := range gs.players {
		if gs.game.Phase() != game.PhasePassing {
			return
		}
		if gs.game.HasSelectedPassingCards(seat) {
			continue
		}
		cards := highestCards(gs.game.Hand(seat), rule.PassCount)
		log.Printf("⏰ 房间 %s 玩家 %s 传牌超时，自动传出 %s", gs.roomCode, p.Name, card.ToString(cards))
		if err := gs.game.SelectCardsForPassing(seat, cards); err != nil {
			gs.abort(err.Error())
			return
		}
	}
}

// highestCards 按点数从大到小取 n 张，同点数按花色顺序
func highestCards(hand []card.Card, n int) []card.Card {
	sorted := slices.Clone(hand)
	slices.SortStableFunc(sorted, func(a, b card.Card) int {
		if a.Value() != b.Value() {
			return b.Value() - a.Value()
		}
		return int(a.Suit) - int(b.Suit)
	})
	return sorted[:min(n, len(sorted))]
}
