package model

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/sound"
	"github.com/palemoky/hearts/internal/transport"
	"github.com/palemoky/hearts/internal/ui/common"
)

// LobbyPlaceholder 大厅输入框提示
const LobbyPlaceholder = "↑↓ 选择 | 回车确认 | 或输入房间号"

const (
	inboxSize         = 64
	notificationDelay = 3 * time.Second
)

// OnlineModel 联机模式的 bubbletea 模型
type OnlineModel struct {
	client *transport.Client
	sounds *sound.SoundManager

	// 服务器消息和重连事件都经 inbox 进入 Update
	inbox   chan any
	pumping bool

	phase        GamePhase
	error        string
	playerID     string
	playerName   string
	reconnecting bool
	maintenance  bool
	matchingFrom time.Time
	notices      [notifyKinds]*SystemNotification

	lobby *LobbyModel
	game  *GameModel

	input  *textinput.Model
	timer  timer.Model
	width  int
	height int

	// 由 ui 包注入，避免 model 依赖 view/input/handler
	render    func(Model, GamePhase) string
	onKey     func(Model, tea.KeyMsg) (bool, tea.Cmd)
	onMessage func(Model, *protocol.Message) tea.Cmd
}

// NewOnlineModel 创建模型，c 与 sm 都可以为空（测试）
func NewOnlineModel(c *transport.Client, sm *sound.SoundManager) *OnlineModel {
	ti := textinput.New()
	ti.Placeholder = LobbyPlaceholder
	ti.CharLimit = 20
	ti.Width = 36
	ti.Focus()

	m := &OnlineModel{
		client: c,
		sounds: sm,
		inbox:  make(chan any, inboxSize),
		phase:  PhaseConnecting,
		lobby:  NewLobbyModel(),
		game:   NewGameModel(),
		input:  &ti,
	}
	if c != nil {
		c.OnReconnecting = func(attempt, maxTries int) {
			m.deliver(ReconnectingMsg{Attempt: attempt, MaxTries: maxTries})
		}
		c.OnReconnect = func() { m.deliver(ReconnectSuccessMsg{}) }
	}
	return m
}

// deliver 非阻塞投递，inbox 满时丢弃状态提示类事件
func (m *OnlineModel) deliver(msg any) {
	select {
	case m.inbox <- msg:
	default:
	}
}

// pump 把服务器消息搬进 inbox，直到连接被关闭
func (m *OnlineModel) pump() {
	for {
		msg, err := m.client.Receive()
		if err != nil {
			m.inbox <- ConnectionErrorMsg{Err: err}
			return
		}
		m.inbox <- ServerMessage{Msg: msg}
	}
}

func (m *OnlineModel) waitInbox() tea.Cmd {
	return func() tea.Msg {
		return inboxMsg{msg: <-m.inbox}
	}
}

func (m *OnlineModel) connect() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

func (m *OnlineModel) Init() tea.Cmd {
	if m.sounds != nil {
		go func() { _ = m.sounds.Init() }()
	}
	return tea.Batch(m.connect(), m.waitInbox(), textinput.Blink)
}

// --- Session / Notifier ---

func (m *OnlineModel) PlayerID() string          { return m.playerID }
func (m *OnlineModel) PlayerName() string        { return m.playerName }
func (m *OnlineModel) Client() *transport.Client { return m.client }

func (m *OnlineModel) SetPlayerInfo(id, name string) {
	m.playerID, m.playerName = id, name
}

func (m *OnlineModel) SetNotification(kind NotificationType, message string, temporary bool) {
	if kind < 0 || kind >= notifyKinds {
		return
	}
	m.notices[kind] = &SystemNotification{Message: message, Type: kind, Temporary: temporary}
}

func (m *OnlineModel) ClearNotification(kind NotificationType) {
	if kind >= 0 && kind < notifyKinds {
		m.notices[kind] = nil
	}
}

// GetCurrentNotification 返回优先级最高的通知
func (m *OnlineModel) GetCurrentNotification() *SystemNotification {
	for _, n := range m.notices {
		if n != nil {
			return n
		}
	}
	return nil
}

// --- Model ---

func (m *OnlineModel) Phase() GamePhase          { return m.phase }
func (m *OnlineModel) SetPhase(p GamePhase)      { m.phase = p }
func (m *OnlineModel) Input() *textinput.Model   { return m.input }
func (m *OnlineModel) Timer() *timer.Model       { return &m.timer }
func (m *OnlineModel) SetTimer(t timer.Model)    { m.timer = t }
func (m *OnlineModel) Width() int                { return m.width }
func (m *OnlineModel) Height() int               { return m.height }
func (m *OnlineModel) Lobby() LobbyAccessor      { return m.lobby }
func (m *OnlineModel) Game() GameAccessor        { return m.game }
func (m *OnlineModel) IsMaintenanceMode() bool   { return m.maintenance }
func (m *OnlineModel) SetMaintenanceMode(v bool) { m.maintenance = v }

func (m *OnlineModel) MatchingStartTime() time.Time     { return m.matchingFrom }
func (m *OnlineModel) SetMatchingStartTime(t time.Time) { m.matchingFrom = t }

// EnterLobby 回到大厅并清空对局
func (m *OnlineModel) EnterLobby() {
	m.phase = PhaseLobby
	m.error = ""
	m.game.Reset()
	m.input.Reset()
	m.input.Placeholder = LobbyPlaceholder
	m.input.Focus()
}

func (m *OnlineModel) PlaySound(event sound.Event) {
	if m.sounds != nil {
		m.sounds.Play(event)
	}
}

// Error 连接错误
func (m *OnlineModel) Error() string { return m.error }

// IsReconnecting 是否正在重连
func (m *OnlineModel) IsReconnecting() bool { return m.reconnecting }

// --- 注入 ---

// SetViewRenderer 设置各页面的渲染函数
func (m *OnlineModel) SetViewRenderer(fn func(Model, GamePhase) string) { m.render = fn }

// SetKeyHandler 设置按键处理，返回 true 时按键不再交给输入框
func (m *OnlineModel) SetKeyHandler(fn func(Model, tea.KeyMsg) (bool, tea.Cmd)) { m.onKey = fn }

// SetServerMessageHandler 设置服务器消息处理
func (m *OnlineModel) SetServerMessageHandler(fn func(Model, *protocol.Message) tea.Cmd) {
	m.onMessage = fn
}

// --- Update ---

func (m *OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if in, ok := msg.(inboxMsg); ok {
		_, cmd := m.Update(in.msg)
		return m, tea.Batch(cmd, m.waitInbox())
	}

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.lobby.SetSize(msg.Width, msg.Height)
		m.game.SetSize(msg.Width, msg.Height)

	case ConnectedMsg:
		m.EnterLobby()
		m.client.StartHeartbeat()
		if !m.pumping {
			m.pumping = true
			go m.pump()
		}

	case ConnectionErrorMsg:
		m.error = fmt.Sprintf("无法连接到服务器: %v\n\n按 ESC 退出", msg.Err)
		m.phase = PhaseConnecting

	case ReconnectingMsg, ReconnectSuccessMsg, ClearReconnectMsg:
		cmds = append(cmds, m.updateReconnect(msg))

	case ClearSystemNotificationMsg:
		m.ClearNotification(NotifyError)
		m.ClearNotification(NotifyRateLimit)

	case ClearInputErrorMsg:
		m.input.Placeholder = GamePlaceholder(m)

	case ServerMessage:
		if m.onMessage != nil {
			cmds = append(cmds, m.onMessage(m, msg.Msg))
		}

	case matchingTickMsg:
		if m.phase == PhaseMatching {
			cmds = append(cmds, matchingTick())
		}

	case tea.KeyMsg:
		if m.onKey != nil {
			handled, cmd := m.onKey(m, msg)
			cmds = append(cmds, cmd)
			if handled {
				return m, m.afterUpdate(cmds)
			}
		}
	}

	var cmd tea.Cmd
	m.timer, cmd = m.timer.Update(msg)
	cmds = append(cmds, cmd)

	in, cmd := m.input.Update(msg)
	*m.input = in
	cmds = append(cmds, cmd)

	return m, m.afterUpdate(cmds)
}

// afterUpdate 进入匹配页时启动每秒刷新
func (m *OnlineModel) afterUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.phase == PhaseMatching && !m.matchingFrom.IsZero() && time.Since(m.matchingFrom) < time.Second {
		cmds = append(cmds, matchingTick())
	}
	return tea.Batch(cmds...)
}

func matchingTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return matchingTickMsg{} })
}

func (m *OnlineModel) updateReconnect(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ReconnectingMsg:
		m.reconnecting = true
		m.SetNotification(NotifyReconnecting, fmt.Sprintf("🔄 正在重连 (%d/%d)...", msg.Attempt, msg.MaxTries), false)

	case ReconnectSuccessMsg:
		m.reconnecting = false
		for _, kind := range []NotificationType{NotifyReconnecting, NotifyError, NotifyRateLimit} {
			m.ClearNotification(kind)
		}
		m.SetNotification(NotifyReconnectSuccess, "✅ 重连成功！", true)
		return tea.Tick(notificationDelay, func(time.Time) tea.Msg { return ClearReconnectMsg{} })

	case ClearReconnectMsg:
		m.ClearNotification(NotifyReconnectSuccess)
		if m.phase == PhaseLobby && m.client != nil {
			_ = m.client.GetOnlineCount()
		}
	}
	return nil
}

// GamePlaceholder 对局中输入框的默认提示
func GamePlaceholder(m Model) string {
	state := m.Game().State()
	switch m.Phase() {
	case PhaseWaiting:
		return "输入 R 准备 / U 取消准备"
	case PhasePassing:
		if state.HasPassed {
			return "已传牌，等待其他玩家..."
		}
		return fmt.Sprintf("←→ 移动 | 空格选牌 (%d/3) | 回车传出", len(state.Selected))
	case PhasePlaying:
		if state.IsMyTurn() {
			return "←→ 选牌回车出牌，或输入牌面 (如 QS)"
		}
		if p := state.PlayerAt(state.CurrentSeat); p != nil {
			return fmt.Sprintf("等待 %s 出牌...", p.Name)
		}
	case PhaseGameOver:
		return "按回车返回大厅"
	}
	return m.Input().Placeholder
}

// --- View ---

func (m *OnlineModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch {
	case m.phase == PhaseConnecting:
		text := "正在连接服务器..."
		if m.error != "" {
			text = common.ErrorStyle.Render(m.error)
		}
		content = m.center(text)
	case m.phase == PhaseMatching:
		waited := time.Since(m.matchingFrom).Round(time.Second)
		content = m.center(fmt.Sprintf("🔍 正在匹配玩家...\n\n已等待: %d 秒\n\n按 ESC 取消", int(waited.Seconds())))
	case m.render != nil:
		content = m.render(m, m.phase)
	default:
		content = "View renderer not initialized"
	}
	return common.DocStyle.Render(content)
}

func (m *OnlineModel) center(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}
