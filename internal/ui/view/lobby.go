package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/ui/common"
	"github.com/palemoky/hearts/internal/ui/model"
)

var menuItems = [...]string{
	"快速匹配",
	"创建房间",
	"加入房间",
	"排行榜",
	"我的战绩",
	"游戏规则",
}

const backHint = "按 ESC 返回大厅"

// page 标题、正文、底部提示各占一块，水平居中
func page(m model.Model, title string, blocks ...string) string {
	rows := make([]string, 0, len(blocks)+1)
	rows = append(rows, common.TitleStyle(title))
	for _, b := range blocks {
		if b != "" {
			rows = append(rows, b)
		}
	}
	return lipgloss.PlaceHorizontal(m.Width(), lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, intersperse(rows, "")...))
}

func intersperse(rows []string, sep string) []string {
	out := make([]string, 0, 2*len(rows))
	for i, r := range rows {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, r)
	}
	return out
}

func pointer(selected bool) string {
	if selected {
		return "▶ "
	}
	return "  "
}

func LobbyView(m model.Model) string {
	var greeting string
	if m.PlayerName() != "" {
		greeting = fmt.Sprintf("欢迎, %s!\n%s", m.PlayerName(), renderNotification(m.GetCurrentNotification()))
	}

	var menu strings.Builder
	menu.WriteString("请选择:\n\n")
	for i, item := range menuItems {
		fmt.Fprintf(&menu, "%s%d. %s\n", pointer(i == m.Lobby().SelectedIndex()), i+1, item)
	}
	box := common.BoxStyle.Padding(0, 2).Render(strings.TrimRight(menu.String(), "\n"))

	body := page(m, common.HeartIcon+" 红心大战 "+common.HeartIcon, greeting, box, m.Input().View())
	return lipgloss.Place(m.Width(), m.Height(), lipgloss.Center, lipgloss.Center, body)
}

// RoomListView 可加入的房间
func RoomListView(m model.Model) string {
	lobby := m.Lobby()
	rooms := lobby.AvailableRooms()
	if len(rooms) == 0 {
		return page(m, "📋 可加入的房间", "暂无可加入的房间", backHint, m.Input().View())
	}

	var list strings.Builder
	for i, r := range rooms {
		fmt.Fprintf(&list, "%s房间 %s  (%d/%d)\n", pointer(i == lobby.SelectedRoomIdx()), r.RoomCode, r.PlayerCount, r.MaxPlayers)
	}
	list.WriteString("\n↑↓ 选择  回车加入  ESC 返回")

	return page(m, "📋 可加入的房间", common.BoxStyle.Render(list.String()), m.Input().View())
}

func LeaderboardView(m model.Model) string {
	body := "正在加载排行榜..."
	if entries := m.Lobby().Leaderboard(); len(entries) > 0 {
		body = renderLeaderboardTable(entries)
	}
	return page(m, "🏆 排行榜", body, backHint)
}

// renderLeaderboardTable 积分榜前十
func renderLeaderboardTable(entries []protocol.LeaderboardEntry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		Headers("排名", "玩家", "积分", "胜场", "胜率").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, e := range entries {
		t.Row(
			strconv.Itoa(e.Rank)+".",
			common.TruncateName(e.PlayerName, 10),
			strconv.Itoa(e.Rating),
			strconv.Itoa(e.Wins),
			fmt.Sprintf("%.1f%%", e.WinRate),
		)
	}
	return "🏆 排行榜 TOP 10\n" + t.Render()
}

func StatsView(m model.Model) string {
	body := "暂无战绩数据"
	if s := m.Lobby().MyStats(); s != nil && s.TotalGames > 0 {
		body = renderStatsTable(s)
	}
	return page(m, "📊 我的战绩", body, backHint)
}

func streakLine(s *protocol.StatsResultPayload) string {
	var parts []string
	switch {
	case s.CurrentStreak > 0:
		parts = append(parts, fmt.Sprintf("🔥 %d 连胜!", s.CurrentStreak))
	case s.CurrentStreak < 0:
		parts = append(parts, fmt.Sprintf("💔 %d 连败", -s.CurrentStreak))
	}
	if s.MaxWinStreak > 0 {
		parts = append(parts, fmt.Sprintf("最高连胜: %d", s.MaxWinStreak))
	}
	return strings.Join(parts, "  ")
}

func renderStatsTable(s *protocol.StatsResultPayload) string {
	rank := "未上榜"
	if s.Rank > 0 {
		rank = "#" + strconv.Itoa(s.Rank)
	}
	rule := strings.Repeat("─", 40)

	lines := []string{
		"📊 我的战绩",
		rule,
		fmt.Sprintf("排名: %s  |  积分: %d", rank, s.Rating),
		rule,
		fmt.Sprintf("总场次: %d  胜: %d  胜率: %.1f%%", s.TotalGames, s.Wins, s.WinRate),
		fmt.Sprintf("名次: 🥇%d 🥈%d 🥉%d 4️⃣%d", s.Placements[0], s.Placements[1], s.Placements[2], s.Placements[3]),
		fmt.Sprintf("平均终局分: %.1f  吃分: %d  全收: %d %s", s.AvgScore, s.PointsTaken, s.MoonShots, common.MoonIcon),
	}
	if streak := streakLine(s); streak != "" {
		lines = append(lines, streak)
	}
	return common.BoxStyle.Render(strings.Join(lines, "\n"))
}
