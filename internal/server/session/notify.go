package session

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/hearts/internal/game"
	"github.com/palemoky/hearts/internal/game/rule"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/protocol/convert"
	"github.com/palemoky/hearts/internal/server/storage"
)

// --- 消息下发 ---

func (gs *GameSession) sendTo(seat int, msgType protocol.MessageType, payload any) {
	p := gs.players[seat]
	if !p.online || p.client == nil {
		return
	}
	p.client.SendMessage(codec.MustNewMessage(msgType, payload))
}

func (gs *GameSession) broadcast(msgType protocol.MessageType, payload any) {
	gs.broadcastExcept(-1, msgType, payload)
}

func (gs *GameSession) broadcastExcept(except int, msgType protocol.MessageType, payload any) {
	msg := codec.MustNewMessage(msgType, payload)
	for _, p := range gs.players {
		if p.Seat == except || !p.online || p.client == nil {
			continue
		}
		p.client.SendMessage(msg)
	}
}

// broadcastStates 每个座位单独下发自己的视角，手牌不会发给其他人
func (gs *GameSession) broadcastStates() {
	for seat := range gs.players {
		gs.sendTo(seat, protocol.MsgGameState, gs.stateDTO(seat))
	}
}

func (gs *GameSession) stateDTO(seat int) *protocol.GameStateDTO {
	dto := convert.GameStateToDTO(gs.game.ClientState(seat))
	for i := range dto.Players {
		dto.Players[i].Online = gs.players[dto.Players[i].Seat].online
	}
	if !gs.deadline.IsZero() {
		if left := time.Until(gs.deadline); left > 0 {
			dto.Timeout = int(left.Round(time.Second).Seconds())
		}
	}
	return dto
}

func (gs *GameSession) publicPlayers() []protocol.GamePlayerInfo {
	cs := gs.game.ClientState(-1)
	dto := convert.GameStateToDTO(cs)
	return dto.Players
}

func (gs *GameSession) notifyTrick(t *game.TrickResult) {
	winner := gs.players[t.Winner]
	gs.broadcast(protocol.MsgTrickComplete, protocol.TrickCompletePayload{
		Cards:      convert.CardsToInfos(t.Cards),
		LeaderSeat: t.Leader,
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		WinnerSeat: winner.Seat,
		Points:     t.Points,
	})
}

func (gs *GameSession) notifyHand(res rule.HandResult) {
	payload := convert.HandResultToPayload(res, gs.publicPlayers())
	gs.broadcast(protocol.MsgHandScored, payload)
	if res.MoonShooter >= 0 {
		log.Printf("🌙 房间 %s 玩家 %s 全收！", gs.roomCode, gs.players[res.MoonShooter].Name)
	}
	log.Printf("📊 房间 %s 第 %d 手结算: %v", gs.roomCode, res.HandNumber+1, res.Points)
}

// --- 存储 ---

func (gs *GameSession) saveSnapshot() {
	if gs.deps.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := gs.deps.Store.SaveGameState(ctx, gs.roomCode, gs.game.Snapshot()); err != nil {
		log.Printf("⚠️ 房间 %s 写入对局快照失败: %v", gs.roomCode, err)
	}
}

func (gs *GameSession) deleteSnapshot() {
	if gs.deps.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := gs.deps.Store.DeleteGameState(ctx, gs.roomCode); err != nil {
		log.Printf("⚠️ 房间 %s 删除对局快照失败: %v", gs.roomCode, err)
	}
}

type gameResult struct {
	player      *seatPlayer
	placement   int
	finalScore  int
	pointsTaken int
	moonShots   int
}

func (gs *GameSession) recordResults(results []gameResult) {
	if gs.deps.Leaderboard == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	for _, r := range results {
		err := gs.deps.Leaderboard.RecordGameResult(ctx, storage.GameResult{
			PlayerID:    r.player.ID,
			PlayerName:  r.player.Name,
			Placement:   r.placement,
			FinalScore:  r.finalScore,
			PointsTaken: r.pointsTaken,
			MoonShots:   r.moonShots,
		})
		if err != nil {
			log.Printf("⚠️ 记录玩家 %s 战绩失败: %v", r.player.Name, err)
		}
	}
}
