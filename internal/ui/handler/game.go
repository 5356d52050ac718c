package handler

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/hearts/internal/game"
	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/protocol/convert"
	"github.com/palemoky/hearts/internal/sound"
	"github.com/palemoky/hearts/internal/ui/model"
)

func handleMsgGameStart(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.GameStartPayload](msg)
	if err != nil {
		return nil
	}
	m.Game().SetRoomPlayers(payload.Players)
	m.Game().State().MaxScore = payload.MaxScore
	m.Game().SetLastHandScore(nil)
	return nil
}

func handleMsgGameState(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.GameStateDTO](msg)
	if err != nil {
		return nil
	}
	return applyGameState(m, payload)
}

// applyGameState 用服务器视角刷新界面，并重置倒计时
func applyGameState(m model.Model, dto *protocol.GameStateDTO) tea.Cmd {
	state := m.Game().State()
	prevHand := state.HandNumber
	wasMyTurn := state.IsMyTurn()
	wasBroken := state.HeartsBroken

	state.Apply(dto)

	switch state.Phase {
	case game.PhasePassing:
		m.SetPhase(model.PhasePassing)
	case game.PhasePlaying, game.PhaseScoring:
		m.SetPhase(model.PhasePlaying)
	}

	switch {
	case dto.HandNumber != prevHand:
		m.Game().SetCursor(0)
		m.PlaySound(sound.EventDeal)
	case state.HeartsBroken && !wasBroken:
		m.PlaySound(sound.EventHeartsBroken)
	}
	if state.IsMyTurn() && !wasMyTurn {
		m.PlaySound(sound.EventTurn)
	}

	m.Input().Placeholder = model.GamePlaceholder(m)
	m.Input().Focus()
	return restartTimer(m, dto.Timeout)
}

func restartTimer(m model.Model, seconds int) tea.Cmd {
	if seconds <= 0 {
		m.Game().SetTimerStartTime(time.Time{})
		return nil
	}
	d := time.Duration(seconds) * time.Second
	m.Game().SetTimerDuration(d)
	m.Game().SetTimerStartTime(time.Now())
	t := timer.NewWithInterval(d, time.Second)
	m.SetTimer(t)
	return t.Start()
}

func handleMsgTrickComplete(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.TrickCompletePayload](msg)
	if err != nil {
		return nil
	}
	m.Game().State().RecordTrick(payload)

	cards, _ := convert.InfosToCards(payload.Cards)
	if slices.Contains(cards, card.QueenOfSpades) {
		m.PlaySound(sound.EventQueen)
	} else {
		m.PlaySound(sound.EventTrick)
	}
	return nil
}

func handleMsgHandScored(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.HandScoredPayload](msg)
	if err != nil {
		return nil
	}
	m.Game().SetLastHandScore(payload)
	if payload.MoonShooterID != "" {
		m.PlaySound(sound.EventMoon)
	}
	return nil
}

func handleMsgGameOver(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.GameOverPayload](msg)
	if err != nil {
		return nil
	}
	m.Game().State().Finish(payload)
	m.Game().SetTimerStartTime(time.Time{})
	m.SetPhase(model.PhaseGameOver)
	m.Input().Reset()
	m.Input().Placeholder = model.GamePlaceholder(m)

	if !payload.Aborted && payload.WinnerID == m.PlayerID() {
		m.PlaySound(sound.EventWin)
	} else {
		m.PlaySound(sound.EventLose)
	}
	return nil
}
