// Package view provides UI rendering functions.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/hearts/internal/ui/common"
	"github.com/palemoky/hearts/internal/ui/model"
)

// CreateViewRenderer creates a view renderer function that can be injected into OnlineModel.
func CreateViewRenderer() func(model.Model, model.GamePhase) string {
	return func(m model.Model, phase model.GamePhase) string {
		switch phase {
		case model.PhaseLobby:
			return LobbyView(m)
		case model.PhaseRoomList:
			return RoomListView(m)
		case model.PhaseWaiting:
			return WaitingView(m)
		case model.PhasePassing, model.PhasePlaying:
			return GameView(m)
		case model.PhaseGameOver:
			return GameOverView(m)
		case model.PhaseLeaderboard:
			return LeaderboardView(m)
		case model.PhaseStats:
			return StatsView(m)
		case model.PhaseRules:
			return RulesView(m.Width(), m.Height())
		default:
			return "Unknown phase"
		}
	}
}

// RenderGameRules renders the game rules.
func RenderGameRules() string {
	var sb strings.Builder

	sb.WriteString("【游戏目标】\n")
	sb.WriteString("四人各自为战，尽量少吃分。有人累计达到上限时游戏结束，分数最低者获胜\n\n")

	sb.WriteString("【计分】\n")
	sb.WriteString("• 每张红心 1 分\n")
	sb.WriteString("• 黑桃 Q 13 分\n")
	sb.WriteString("• 全收：一手吃进全部 26 分，其他三人各加 26 分\n\n")

	sb.WriteString("【传牌】\n")
	sb.WriteString("每手开始各选 3 张传出，方向按 左 → 右 → 对家 → 不传 循环\n\n")

	sb.WriteString("【出牌规则】\n")
	sb.WriteString("1. 持梅花 2 者首墩首出，且必须出梅花 2\n")
	sb.WriteString("2. 有首出花色必须跟，没有才能垫其他牌\n")
	sb.WriteString("3. 首墩不能垫分（除非手里只有分牌）\n")
	sb.WriteString("4. 红心未破时不能首出红心（除非只剩红心）\n")
	sb.WriteString("5. 首出花色中最大的牌吃下这一墩，并首出下一墩\n\n")

	sb.WriteString("【快捷键】\n")
	sb.WriteString("• ←→：移动光标\n")
	sb.WriteString("• 空格：传牌时选择/取消\n")
	sb.WriteString("• 回车：传牌或出光标所在的牌\n")
	sb.WriteString("• C：切换记牌器（游戏中）\n")
	sb.WriteString("• H：显示/隐藏帮助（游戏中）\n")
	sb.WriteString("• ESC：返回上一级或退出\n")

	return common.BoxStyle.Render(sb.String())
}

// RulesView renders the full rules view.
func RulesView(width, height int) string {
	var sb strings.Builder

	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, common.TitleStyle("📖 游戏规则")))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, RenderGameRules()))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "按 ESC 返回大厅"))

	return sb.String()
}

// renderNotification 按类型着色的系统通知
func renderNotification(n *model.SystemNotification) string {
	if n == nil {
		return ""
	}
	var style lipgloss.Style
	switch n.Type {
	case model.NotifyError, model.NotifyRateLimit, model.NotifyMaintenance:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	case model.NotifyReconnecting:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	case model.NotifyReconnectSuccess:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	case model.NotifyOnlineCount:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	}
	return style.Render(n.Message)
}
