package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	gameClient "github.com/palemoky/hearts/internal/client"
	"github.com/palemoky/hearts/internal/game"
	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/game/rule"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/ui/common"
	"github.com/palemoky/hearts/internal/ui/model"
)

// 传牌方向的中文名
var passNames = map[string]string{
	"LEFT":   "向左传",
	"RIGHT":  "向右传",
	"ACROSS": "传对家",
	"HOLD":   "本手不传",
}

// WaitingView renders the waiting room view.
func WaitingView(m model.Model) string {
	width := m.Width()
	var sb strings.Builder

	title := common.TitleStyle(fmt.Sprintf("🏠 房间: %s", m.Game().State().RoomCode))
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, title))
	sb.WriteString("\n\n")

	players := m.Game().RoomPlayers()
	var list strings.Builder
	list.WriteString("玩家列表:\n")
	for _, p := range players {
		ready := "❌"
		if p.Ready {
			ready = "✅"
		}
		me := ""
		if p.ID == m.PlayerID() {
			me = " (你)"
		}
		offline := ""
		if !p.Online {
			offline = " [离线]"
		}
		fmt.Fprintf(&list, "  %s %s%s%s\n", ready, p.Name, me, offline)
	}
	fmt.Fprintf(&list, "\n等待玩家: %d/%d", len(players), rule.NumSeats)

	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.BoxStyle.Render(list.String())))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderNotification(m.GetCurrentNotification())))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, m.Input().View()))

	return sb.String()
}

// GameView renders the table for passing and playing phases.
func GameView(m model.Model) string {
	width, height := m.Width(), m.Height()
	g := m.Game()
	state := g.State()

	if g.ShowingHelp() {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, RenderGameRules())
	}

	var sb strings.Builder

	top := []string{renderScoreboard(state)}
	if g.CardCounterEnabled() {
		top = append(top, renderCardCounter(state))
	}
	if score := g.LastHandScore(); score != nil && m.Phase() == model.PhasePassing {
		top = append(top, renderHandScore(score))
	}
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinHorizontal(lipgloss.Top, top...)))
	sb.WriteString("\n")

	middle := renderTrick(state)
	if m.Phase() == model.PhasePassing {
		middle = renderPassing(state)
	}
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, middle))
	sb.WriteString("\n")

	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderPlayerHand(m)))
	sb.WriteString("\n")
	sb.WriteString(renderPrompt(m))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, sb.String())
}

// GameOverView renders the final standings.
func GameOverView(m model.Model) string {
	state := m.Game().State()
	var sb strings.Builder

	if state.Aborted {
		sb.WriteString("⚠️ 对局已终止\n\n")
	} else {
		sb.WriteString("🎮 游戏结束!\n\n")
	}

	for _, s := range state.Standings {
		medal := "  "
		if s.Rank == 1 {
			medal = "🏆"
		}
		me := ""
		if s.PlayerID == m.PlayerID() {
			me = " (你)"
		}
		fmt.Fprintf(&sb, "%s 第%d名  %s %4d 分%s\n", medal, s.Rank, common.PadName(s.PlayerName, 12), s.Score, me)
	}

	sb.WriteString("\n按回车或 ESC 返回大厅")

	return lipgloss.Place(m.Width(), m.Height(), lipgloss.Center, lipgloss.Center,
		common.BoxStyle.Padding(1, 3).Render(sb.String()))
}

// --- Helper rendering functions ---

// renderScoreboard 按座位列出累计分、本手吃分和剩余张数
func renderScoreboard(state *gameClient.GameState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "第 %d 手  上限 %d 分", state.HandNumber, state.MaxScore)
	if state.HeartsBroken {
		sb.WriteString("  " + common.RedStyle.Render(common.HeartIcon+" 已破"))
	}
	sb.WriteString("\n")

	for _, p := range state.Players {
		name := common.TruncateName(p.Name, 10)
		if p.Seat == state.MySeat {
			name += "(你)"
		}
		line := fmt.Sprintf("%-14s %4d  +%-2d  🃏%2d", name, p.Score, p.HandPoints, p.CardCount)
		if !p.Online {
			line += " 离线"
		}
		if state.Phase == game.PhasePlaying && p.Seat == state.CurrentSeat {
			line = common.TurnStyle.Render("▶ " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}
	return common.BoxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

// renderCardCounter 每个花色还没出现的牌
func renderCardCounter(state *gameClient.GameState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "记牌器  剩余分: %d\n", state.CardCounter.PointsLeft())
	for _, s := range card.Suits {
		ranks := state.CardCounter.Outstanding(s, state.Hand)
		names := make([]string, len(ranks))
		for i, r := range ranks {
			names[i] = r.String()
		}
		fmt.Fprintf(&sb, "%s %s\n", s.String(), strings.Join(names, " "))
	}
	return common.BoxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

// renderHandScore 上一手的计分
func renderHandScore(p *protocol.HandScoredPayload) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "第 %d 手计分\n", p.HandNumber)
	for _, s := range p.Scores {
		fmt.Fprintf(&sb, "%s +%-2d = %d\n", common.PadName(s.PlayerName, 10), s.Points, s.Total)
	}
	if p.MoonShooterID != "" {
		for _, s := range p.Scores {
			if s.PlayerID == p.MoonShooterID {
				fmt.Fprintf(&sb, "%s %s 全收!\n", common.MoonIcon, s.PlayerName)
			}
		}
	}
	return common.BoxStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

// renderTrick 当前一墩，没有牌时展示上一墩
func renderTrick(state *gameClient.GameState) string {
	var lines []string
	switch {
	case len(state.Trick) > 0:
		lines = append(lines, "本墩")
		for i, c := range state.Trick {
			lines = append(lines, fmt.Sprintf("%s: %s", seatName(state, state.TrickSeat(i)), common.RenderCard(c)))
		}
	case len(state.LastTrick) > 0:
		lines = append(lines,
			fmt.Sprintf("上一墩由 %s 吃下", state.LastTrickWinner),
			common.RenderCards(state.LastTrick))
	default:
		lines = append(lines, "(等待出牌...)")
	}
	return common.BoxStyle.Width(36).Render(strings.Join(lines, "\n"))
}

// renderPassing 传牌阶段的提示
func renderPassing(state *gameClient.GameState) string {
	var sb strings.Builder
	sb.WriteString(passNames[state.PassingDirection])
	sb.WriteString("\n")
	if state.HasPassed {
		sb.WriteString("已传出: " + common.RenderCards(state.SelectedCards()))
	} else {
		fmt.Fprintf(&sb, "已选 %d/%d 张", len(state.Selected), rule.PassCount)
	}
	if len(state.Received) > 0 {
		sb.WriteString("\n收到: " + common.RenderCards(state.Received))
	}
	return common.BoxStyle.Width(36).Render(sb.String())
}

func renderPlayerHand(m model.Model) string {
	state := m.Game().State()
	if len(state.Hand) == 0 {
		return common.BoxStyle.Render("(无手牌)")
	}

	mark := func(c card.Card) common.CardMark {
		switch {
		case state.Selected[c]:
			return common.MarkSelected
		case m.Phase() == model.PhasePlaying && state.IsMyTurn() && !state.Playable[c]:
			return common.MarkDimmed
		}
		return common.MarkNone
	}

	title := fmt.Sprintf("我的手牌 (%d张)", len(state.Hand))
	content := lipgloss.JoinVertical(lipgloss.Center, title, common.RenderHand(state.Hand, m.Game().Cursor(), mark))
	return common.BoxStyle.Render(content)
}

func renderPrompt(m model.Model) string {
	var sb strings.Builder
	state := m.Game().State()

	timerView := renderTimer(m.Game().TimerDuration(), m.Game().TimerStartTime())
	switch {
	case m.Phase() == model.PhasePassing && !state.HasPassed:
		fmt.Fprintf(&sb, "⏳ %s | 请选择 3 张牌传出\n", timerView)
	case state.IsMyTurn():
		fmt.Fprintf(&sb, "⏳ %s | 轮到你出牌!\n", timerView)
	}

	sb.WriteString(m.Input().View())
	sb.WriteString("\n")
	sb.WriteString(renderNotification(m.GetCurrentNotification()))
	sb.WriteString("\n")
	sb.WriteString(common.HintStyle.Render("C 键记牌器, H 键帮助"))

	centered := lipgloss.NewStyle().
		Width(m.Width()).
		AlignHorizontal(lipgloss.Center).
		Render(sb.String())
	return common.PromptStyle.Render(centered)
}

func renderTimer(duration time.Duration, startTime time.Time) string {
	if startTime.IsZero() {
		return "--:--"
	}
	remaining := max(duration-time.Since(startTime), 0)
	secs := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func seatName(state *gameClient.GameState, seat int) string {
	if seat == state.MySeat {
		return "你"
	}
	if p := state.PlayerAt(seat); p != nil {
		return common.TruncateName(p.Name, 10)
	}
	return fmt.Sprintf("座位%d", seat+1)
}
