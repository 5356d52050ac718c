package convert

import (
	"github.com/palemoky/hearts/internal/game"
	"github.com/palemoky/hearts/internal/game/rule"
	"github.com/palemoky/hearts/internal/protocol"
)

// GameStateToDTO 将引擎的座位视角转换为协议 DTO
func GameStateToDTO(cs *game.ClientGameState) *protocol.GameStateDTO {
	dto := &protocol.GameStateDTO{
		Phase:            cs.Phase.String(),
		HandNumber:       cs.HandNumber,
		PassingDirection: cs.PassingDirection.String(),
		MaxScore:         cs.MaxScore,
		Players:          make([]protocol.GamePlayerInfo, len(cs.Players)),
		CurrentTrick:     CardsToInfos(cs.CurrentTrick),
		TrickLeader:      cs.TrickLeader,
		HeartsBroken:     cs.HeartsBroken,
		IsFirstTrick:     cs.IsFirstTrick,
		TricksPlayed:     cs.TricksPlayed,
		CurrentTurn:      cs.CurrentPlayerTurn,
		CurrentSeat:      cs.CurrentSeat,
		LastTrickWinner:  cs.LastTrickWinner,
		WinnerID:         cs.Winner,
		MySeat:           cs.MySeat,
		Hand:             CardsToInfos(cs.MyHand),
		PlayableCards:    CardsToInfos(cs.PlayableCards),
	}
	for i, p := range cs.Players {
		dto.Players[i] = protocol.GamePlayerInfo{
			ID:         p.ID,
			Name:       p.Name,
			Seat:       p.Seat,
			Score:      p.Score,
			HandPoints: p.HandPoints,
			CardCount:  p.CardCount,
			HasPassed:  p.HasPassed,
			Online:     true,
		}
	}
	if len(cs.LastTrick) > 0 {
		dto.LastTrick = CardsToInfos(cs.LastTrick)
	}
	if len(cs.SelectedPass) > 0 {
		dto.SelectedPass = CardsToInfos(cs.SelectedPass)
	}
	if len(cs.ReceivedCards) > 0 {
		dto.ReceivedCards = CardsToInfos(cs.ReceivedCards)
	}
	return dto
}

// HandResultToPayload 将单手计分结果转换为通知
func HandResultToPayload(res rule.HandResult, players []protocol.GamePlayerInfo) protocol.HandScoredPayload {
	payload := protocol.HandScoredPayload{
		HandNumber: res.HandNumber,
		Scores:     make([]protocol.HandScore, len(players)),
	}
	for i, p := range players {
		payload.Scores[i] = protocol.HandScore{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Seat:       p.Seat,
			Taken:      res.Taken[p.Seat],
			Points:     res.Points[p.Seat],
			Total:      p.Score,
		}
		if res.MoonShooter == p.Seat {
			payload.MoonShooterID = p.ID
		}
	}
	return payload
}
