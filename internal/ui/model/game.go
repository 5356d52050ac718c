package model

import (
	"time"

	gameClient "github.com/palemoky/hearts/internal/client"
	"github.com/palemoky/hearts/internal/protocol"
)

// GameModel handles game-specific UI state.
type GameModel struct {
	// Game state (business logic)
	state *gameClient.GameState

	roomPlayers []protocol.PlayerInfo
	cursor      int

	// UI helper state
	timerDuration  time.Duration
	timerStartTime time.Time
	lastHandScore  *protocol.HandScoredPayload

	// Features
	cardCounterEnabled bool
	showingHelp        bool

	width  int
	height int
}

// NewGameModel creates a new GameModel.
func NewGameModel() *GameModel {
	return &GameModel{state: gameClient.NewGameState()}
}

// --- GameAccessor implementation ---

func (m *GameModel) State() *gameClient.GameState { return m.state }

func (m *GameModel) RoomPlayers() []protocol.PlayerInfo        { return m.roomPlayers }
func (m *GameModel) SetRoomPlayers(ps []protocol.PlayerInfo)   { m.roomPlayers = ps }
func (m *GameModel) TimerDuration() time.Duration              { return m.timerDuration }
func (m *GameModel) SetTimerDuration(d time.Duration)          { m.timerDuration = d }
func (m *GameModel) TimerStartTime() time.Time                 { return m.timerStartTime }
func (m *GameModel) SetTimerStartTime(t time.Time)             { m.timerStartTime = t }
func (m *GameModel) LastHandScore() *protocol.HandScoredPayload { return m.lastHandScore }
func (m *GameModel) SetLastHandScore(p *protocol.HandScoredPayload) {
	m.lastHandScore = p
}

func (m *GameModel) CardCounterEnabled() bool           { return m.cardCounterEnabled }
func (m *GameModel) SetCardCounterEnabled(enabled bool) { m.cardCounterEnabled = enabled }
func (m *GameModel) ShowingHelp() bool                  { return m.showingHelp }
func (m *GameModel) SetShowingHelp(showing bool)        { m.showingHelp = showing }

// Cursor 当前光标位置，手牌变少后自动收回到末尾
func (m *GameModel) Cursor() int {
	n := len(m.state.Hand)
	if n == 0 {
		return 0
	}
	return min(m.cursor, n-1)
}

func (m *GameModel) SetCursor(i int) { m.cursor = max(i, 0) }

// MoveCursor 左右移动光标，到头后绕回
func (m *GameModel) MoveCursor(delta int) {
	n := len(m.state.Hand)
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = wrap(m.Cursor()+delta, n)
}

// Reset 离开对局时清空
func (m *GameModel) Reset() {
	m.state.Reset()
	m.roomPlayers = nil
	m.cursor = 0
	m.lastHandScore = nil
	m.showingHelp = false
	m.timerStartTime = time.Time{}
}

func (m *GameModel) Width() int  { return m.width }
func (m *GameModel) Height() int { return m.height }
func (m *GameModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
