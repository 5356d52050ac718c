// Package input 键盘输入：对局快捷键、返回键和回车提交
package input

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/protocol/convert"
	"github.com/palemoky/hearts/internal/ui/model"
)

const (
	leaderboardLimit = 10
	hintDuration     = 3 * time.Second
)

func after(msg tea.Msg) tea.Cmd {
	return tea.Tick(hintDuration, func(time.Time) tea.Msg { return msg })
}

// notify 顶部红字提示，几秒后自动消失
func notify(m model.Model, text string) tea.Cmd {
	m.SetNotification(model.NotifyError, text, true)
	return after(model.ClearSystemNotificationMsg{})
}

// inputError 借输入框占位符显示一条短提示
func inputError(m model.Model, text string) tea.Cmd {
	m.Input().Placeholder = text
	return after(model.ClearInputErrorMsg{})
}

// HandleKeyPress 返回按键是否已被消费。未消费的交给输入框
func HandleKeyPress(m model.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.Phase().InGame() {
		if handled := handleGameKey(m, msg); handled {
			return true, nil
		}
	}

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return true, back(m)
	case tea.KeyUp:
		m.Lobby().HandleUpKey(m.Phase())
	case tea.KeyDown:
		m.Lobby().HandleDownKey(m.Phase())
	case tea.KeyEnter:
		return true, submit(m)
	}
	return false, nil
}

// 输入框为空时单字母作快捷键
var gameToggles = map[string]func(model.GameAccessor){
	"c": func(g model.GameAccessor) { g.SetCardCounterEnabled(!g.CardCounterEnabled()) },
	"h": func(g model.GameAccessor) { g.SetShowingHelp(true) },
}

// handleGameKey 光标、选牌、记牌器与帮助。帮助打开时吞掉所有按键
func handleGameKey(m model.Model, msg tea.KeyMsg) bool {
	g := m.Game()
	letter := strings.ToLower(msg.String())

	if g.ShowingHelp() {
		if msg.Type == tea.KeyEsc || letter == "h" {
			g.SetShowingHelp(false)
		}
		return true
	}

	switch msg.Type {
	case tea.KeyLeft, tea.KeyRight:
		step := 1
		if msg.Type == tea.KeyLeft {
			step = -1
		}
		g.MoveCursor(step)
		return true
	case tea.KeySpace:
		if m.Phase() == model.PhasePassing {
			g.State().ToggleSelect(g.Cursor())
			m.Input().Placeholder = model.GamePlaceholder(m)
		}
		return true
	case tea.KeyRunes:
		if toggle, ok := gameToggles[letter]; ok && m.Input().Value() == "" {
			toggle(g)
			return true
		}
	}
	return false
}

// back ESC：子页面回大厅，对局中拒绝，大厅里退出程序
func back(m model.Model) tea.Cmd {
	switch m.Phase() {
	case model.PhasePassing, model.PhasePlaying:
		return notify(m, "⚠️ 游戏进行中，无法退出！")
	case model.PhaseMatching:
		_ = m.Client().CancelMatch()
	case model.PhaseWaiting:
		_ = m.Client().LeaveRoom()
	case model.PhaseRoomList, model.PhaseLeaderboard, model.PhaseStats, model.PhaseRules, model.PhaseGameOver:
	default:
		if c := m.Client(); c != nil {
			c.Close()
		}
		return tea.Quit
	}
	m.EnterLobby()
	return nil
}

var enterByPhase = map[model.GamePhase]func(model.Model, string) tea.Cmd{
	model.PhaseLobby:    lobbyEnter,
	model.PhaseRoomList: roomListEnter,
	model.PhaseWaiting:  waitingEnter,
	model.PhasePassing:  func(m model.Model, _ string) tea.Cmd { return passEnter(m) },
	model.PhasePlaying:  playEnter,
	model.PhaseGameOver: func(m model.Model, _ string) tea.Cmd {
		m.EnterLobby()
		_ = m.Client().GetOnlineCount()
		return nil
	},
}

// submit 取走输入框内容，按阶段处理
func submit(m model.Model) tea.Cmd {
	text := strings.TrimSpace(m.Input().Value())
	m.Input().Reset()
	if fn, ok := enterByPhase[m.Phase()]; ok {
		return fn(m, text)
	}
	return nil
}

// lobbyItem 大厅菜单项。online 为真的需要能进房间
type lobbyItem struct {
	online bool
	run    func(model.Model)
}

// lobbyMenu 顺序与大厅界面上的编号一致
var lobbyMenu = []lobbyItem{
	{true, func(m model.Model) {
		m.SetPhase(model.PhaseMatching)
		m.SetMatchingStartTime(time.Now())
		_ = m.Client().QuickMatch()
	}},
	{true, func(m model.Model) { _ = m.Client().CreateRoom() }},
	{true, func(m model.Model) {
		m.SetPhase(model.PhaseRoomList)
		_ = m.Client().GetRoomList()
		m.Input().Placeholder = "输入房间号或按 ESC 返回"
	}},
	{false, func(m model.Model) {
		m.SetPhase(model.PhaseLeaderboard)
		_ = m.Client().GetLeaderboard("total", 0, leaderboardLimit)
	}},
	{false, func(m model.Model) {
		m.SetPhase(model.PhaseStats)
		_ = m.Client().GetStats()
	}},
	{false, func(m model.Model) { m.SetPhase(model.PhaseRules) }},
}

// lobbyEnter 空输入取光标所在项，菜单编号之外的输入当作房间号
func lobbyEnter(m model.Model, text string) tea.Cmd {
	if text == "" {
		text = strconv.Itoa(m.Lobby().SelectedIndex() + 1)
	}
	item := lobbyItem{true, func(m model.Model) { _ = m.Client().JoinRoom(text) }}
	if n, err := strconv.Atoi(text); err == nil && strconv.Itoa(n) == text && n >= 1 && n <= len(lobbyMenu) {
		item = lobbyMenu[n-1]
	}

	if item.online {
		if cmd := checkCanJoin(m); cmd != nil {
			return cmd
		}
	}
	item.run(m)
	return nil
}

// checkCanJoin 维护中或连接不可用时拒绝进房
func checkCanJoin(m model.Model) tea.Cmd {
	c := m.Client()
	switch {
	case m.IsMaintenanceMode():
		return notify(m, "⚠️ 服务器维护中，暂停接受新连接")
	case c == nil || c.IsReconnecting():
		return notify(m, "⚠️ 正在重连中，请稍后再试")
	case !c.IsConnected():
		return notify(m, "⚠️ 未连接到服务器")
	}
	return nil
}

func roomListEnter(m model.Model, text string) tea.Cmd {
	if cmd := checkCanJoin(m); cmd != nil {
		return cmd
	}
	code := text
	if code == "" {
		rooms := m.Lobby().AvailableRooms()
		idx := m.Lobby().SelectedRoomIdx()
		if idx >= len(rooms) {
			return nil
		}
		code = rooms[idx].RoomCode
	}
	_ = m.Client().JoinRoom(code)
	return nil
}

func waitingEnter(m model.Model, text string) tea.Cmd {
	switch strings.ToLower(text) {
	case "r", "ready":
		_ = m.Client().Ready()
	case "u", "unready":
		_ = m.Client().CancelReady()
	}
	return nil
}

func passEnter(m model.Model) tea.Cmd {
	st := m.Game().State()
	switch {
	case st.HasPassed:
		return nil
	case !st.ReadyToPass():
		return inputError(m, fmt.Sprintf("请选择 3 张牌 (已选 %d 张)", len(st.Selected)))
	}
	_ = m.Client().SelectPass(convert.CardsToInfos(st.SelectedCards()))
	return nil
}

// playEnter 输入框为空时出光标所在的牌，否则解析牌面
func playEnter(m model.Model, text string) tea.Cmd {
	st := m.Game().State()
	if !st.IsMyTurn() {
		return inputError(m, "还没轮到你")
	}

	var c card.Card
	switch {
	case text != "":
		parsed, err := card.Parse(text)
		if err != nil {
			return inputError(m, err.Error())
		}
		c = parsed
	case len(st.Hand) == 0:
		return nil
	default:
		c = st.Hand[m.Game().Cursor()]
	}

	switch {
	case !card.Contains(st.Hand, c):
		return inputError(m, fmt.Sprintf("你没有 %s", c))
	case !st.CanPlay(c):
		return inputError(m, fmt.Sprintf("%s 现在不能出", c))
	}
	_ = m.Client().PlayCard(convert.CardToInfo(c))
	return nil
}
