package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/convert"
	"github.com/palemoky/hearts/internal/transport"
	"github.com/palemoky/hearts/internal/ui/model"
)

// newModel 未连接的客户端，发送会直接返回 ErrClosed
func newModel(t *testing.T) *model.OnlineModel {
	t.Helper()
	return model.NewOnlineModel(transport.NewClient("ws://127.0.0.1:1/ws"), nil)
}

func deal(t *testing.T, m model.Model, phase string, hand string, playable string, mySeat, current int) {
	t.Helper()
	cs, err := card.ParseList(hand)
	require.NoError(t, err)
	dto := &protocol.GameStateDTO{
		Phase:       phase,
		HandNumber:  1,
		MySeat:      mySeat,
		CurrentSeat: current,
		Hand:        convert.CardsToInfos(cs),
	}
	if playable != "" {
		ps, err := card.ParseList(playable)
		require.NoError(t, err)
		dto.PlayableCards = convert.CardsToInfos(ps)
	}
	m.Game().State().Apply(dto)
	switch phase {
	case "PASSING":
		m.SetPhase(model.PhasePassing)
	case "PLAYING":
		m.SetPhase(model.PhasePlaying)
	}
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestPassingSelection(t *testing.T) {
	t.Parallel()

	m := newModel(t)
	deal(t, m, "PASSING", "2C 3C 4C 5C", "", 0, 0)

	handled, _ := HandleKeyPress(m, key(tea.KeySpace))
	assert.True(t, handled)
	HandleKeyPress(m, key(tea.KeyRight))
	HandleKeyPress(m, key(tea.KeySpace))
	assert.Len(t, m.Game().State().Selected, 2)
	assert.Contains(t, m.Input().Placeholder, "2/3")

	handled, cmd := HandleKeyPress(m, key(tea.KeyEnter))
	assert.True(t, handled)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.Input().Placeholder, "请选择 3 张牌")

	HandleKeyPress(m, key(tea.KeyRight))
	HandleKeyPress(m, key(tea.KeySpace))
	assert.True(t, m.Game().State().ReadyToPass())
	_, cmd = HandleKeyPress(m, key(tea.KeyEnter))
	assert.Nil(t, cmd)
}

func TestCursorWraps(t *testing.T) {
	t.Parallel()

	m := newModel(t)
	deal(t, m, "PLAYING", "2C 3C 4C", "", 0, 1)

	HandleKeyPress(m, key(tea.KeyLeft))
	assert.Equal(t, 2, m.Game().Cursor())
	HandleKeyPress(m, key(tea.KeyRight))
	assert.Equal(t, 0, m.Game().Cursor())
}

func TestGameToggles(t *testing.T) {
	t.Parallel()

	m := newModel(t)
	deal(t, m, "PLAYING", "2C", "", 0, 1)

	HandleKeyPress(m, runes("c"))
	assert.True(t, m.Game().CardCounterEnabled())

	HandleKeyPress(m, runes("h"))
	assert.True(t, m.Game().ShowingHelp())

	handled, _ := HandleKeyPress(m, key(tea.KeyEnter))
	assert.True(t, handled, "帮助打开时吞掉其他按键")
	assert.True(t, m.Game().ShowingHelp())

	HandleKeyPress(m, key(tea.KeyEsc))
	assert.False(t, m.Game().ShowingHelp())

	m.Input().SetValue("Q")
	handled, _ = HandleKeyPress(m, runes("c"))
	assert.False(t, handled, "输入框有内容时作为文字")
}

func TestPlayingEnter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current int
		input   string
		want    string
	}{
		{"not my turn", 1, "", "还没轮到你"},
		{"not in hand", 0, "AH", "你没有"},
		{"not playable", 0, "QS", "现在不能出"},
		{"bad input", 0, "ZZ", "无法识别"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newModel(t)
			deal(t, m, "PLAYING", "2C QS", "2C", 0, tt.current)
			m.Input().SetValue(tt.input)

			_, cmd := HandleKeyPress(m, key(tea.KeyEnter))
			assert.NotNil(t, cmd)
			assert.Contains(t, m.Input().Placeholder, tt.want)
		})
	}

	t.Run("cursor card playable", func(t *testing.T) {
		t.Parallel()
		m := newModel(t)
		deal(t, m, "PLAYING", "2C QS", "2C", 0, 0)
		_, cmd := HandleKeyPress(m, key(tea.KeyEnter))
		assert.Nil(t, cmd)
	})
}

func TestEscKey(t *testing.T) {
	t.Parallel()

	t.Run("in game refuses", func(t *testing.T) {
		t.Parallel()
		m := newModel(t)
		deal(t, m, "PLAYING", "2C", "", 0, 1)
		handled, cmd := HandleKeyPress(m, key(tea.KeyEsc))
		assert.True(t, handled)
		assert.NotNil(t, cmd)
		assert.Equal(t, model.PhasePlaying, m.Phase())
		require.NotNil(t, m.GetCurrentNotification())
	})

	t.Run("sub views return to lobby", func(t *testing.T) {
		t.Parallel()
		for _, phase := range []model.GamePhase{model.PhaseRules, model.PhaseStats, model.PhaseWaiting, model.PhaseMatching} {
			m := newModel(t)
			m.SetPhase(phase)
			HandleKeyPress(m, key(tea.KeyEsc))
			assert.Equal(t, model.PhaseLobby, m.Phase())
		}
	})

	t.Run("lobby quits", func(t *testing.T) {
		t.Parallel()
		m := newModel(t)
		m.SetPhase(model.PhaseLobby)
		_, cmd := HandleKeyPress(m, key(tea.KeyEsc))
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	})
}

func TestLobbyEnter(t *testing.T) {
	t.Parallel()

	m := newModel(t)
	m.SetPhase(model.PhaseLobby)

	m.Input().SetValue("6")
	HandleKeyPress(m, key(tea.KeyEnter))
	assert.Equal(t, model.PhaseRules, m.Phase())

	m.EnterLobby()
	HandleKeyPress(m, key(tea.KeyEnter))
	assert.Equal(t, model.PhaseLobby, m.Phase(), "未连接时不进入匹配")
	require.NotNil(t, m.GetCurrentNotification())
	assert.Contains(t, m.GetCurrentNotification().Message, "未连接")

	m.SetMaintenanceMode(true)
	m.Input().SetValue("123456")
	HandleKeyPress(m, key(tea.KeyEnter))
	assert.Contains(t, m.GetCurrentNotification().Message, "维护")
}

func TestGameOverEnterReturnsToLobby(t *testing.T) {
	t.Parallel()

	m := newModel(t)
	m.SetPhase(model.PhaseGameOver)
	HandleKeyPress(m, key(tea.KeyEnter))
	assert.Equal(t, model.PhaseLobby, m.Phase())
}

func TestLobbyEnter_RoomCodeNotMenuIndex(t *testing.T) {
	t.Parallel()

	m := newModel(t)
	m.SetPhase(model.PhaseLobby)
	m.Input().SetValue("000004")
	HandleKeyPress(m, key(tea.KeyEnter))

	assert.Equal(t, model.PhaseLobby, m.Phase(), "六位房间号不当作菜单第 4 项")
	require.NotNil(t, m.GetCurrentNotification())
	assert.Contains(t, m.GetCurrentNotification().Message, "未连接")
}
