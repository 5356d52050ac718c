package common

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"

	"github.com/palemoky/hearts/internal/game/card"
)

func TestTruncateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"未超宽", "Alice", 10, "Alice"},
		{"恰好等宽", "HelloWorld", 10, "HelloWorld"},
		{"英文截断", "VeryLongPlayerName", 10, "VeryLongP…"},
		{"中文按两列计", "可爱的龙猫", 6, "可爱…"},
		{"中英混排等宽", "Hello世界", 9, "Hello世界"},
		{"中英混排截断", "Hello世界", 8, "Hello世…"},
		{"空名", "", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TruncateName(tt.input, tt.width)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, runewidth.StringWidth(got), tt.width)
		})
	}
}

func TestPadName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Bob", "龙猫", "一个很长很长的名字"} {
		assert.Equal(t, 8, runewidth.StringWidth(PadName(name, 8)), name)
	}
}

func TestRenderCards(t *testing.T) {
	t.Parallel()

	out := RenderCards([]card.Card{card.QueenOfSpades, card.TwoOfClubs})
	assert.Contains(t, out, "Q♠")
	assert.Contains(t, out, "2♣")
}

func TestRenderHand_Cursor(t *testing.T) {
	t.Parallel()

	hand := []card.Card{card.TwoOfClubs, card.QueenOfSpades}
	out := RenderHand(hand, 1, func(c card.Card) CardMark {
		if c == card.QueenOfSpades {
			return MarkSelected
		}
		return MarkDimmed
	})

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[2], "▲")
	assert.Contains(t, out, "Q")
	assert.Contains(t, out, "♣")
}
