package handler

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/ui/model"
)

func handleMsgStatsResult(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.StatsResultPayload](msg)
	if err != nil {
		return nil
	}
	m.Lobby().SetMyStats(payload)
	return nil
}

func handleMsgLeaderboardResult(m model.Model, msg *protocol.Message) tea.Cmd {
	payload, err := codec.ParsePayload[protocol.LeaderboardResultPayload](msg)
	if err != nil {
		return nil
	}
	m.Lobby().SetLeaderboard(payload.Entries)
	return nil
}
