package common

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/hearts/internal/game/card"
)

// CardMark 手牌中单张牌的展示标记
type CardMark int

const (
	MarkNone     CardMark = iota
	MarkDimmed            // 当前不能出
	MarkSelected          // 传牌已选中
)

// CardStyle 按花色颜色返回样式
func CardStyle(c card.Card) lipgloss.Style {
	if c.Color() == card.Red {
		return RedStyle
	}
	return BlackStyle
}

// RenderCard 单张牌，如 "Q♠"
func RenderCard(c card.Card) string {
	return CardStyle(c).Render(c.String())
}

// RenderCards 一排牌，以空格分隔
func RenderCards(cards []card.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = RenderCard(c)
	}
	return strings.Join(parts, " ")
}

// RenderHand 两行手牌（点数一行、花色一行），cursor 所在的牌下方有指示
func RenderHand(hand []card.Card, cursor int, mark func(card.Card) CardMark) string {
	var rankRow, suitRow, cursorRow strings.Builder
	for i, c := range hand {
		style := CardStyle(c)
		if mark != nil {
			switch mark(c) {
			case MarkDimmed:
				style = GrayStyle
			case MarkSelected:
				style = SelectedStyle
			}
		}
		style = style.Align(lipgloss.Center).Margin(0, 1)
		rankRow.WriteString(style.Render(fmt.Sprintf("%-2s", c.Rank.String())))
		suitRow.WriteString(style.Render(fmt.Sprintf("%-2s", c.Suit.String())))

		pointer := "    "
		if i == cursor {
			pointer = " ▲  "
		}
		cursorRow.WriteString(pointer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rankRow.String(), suitRow.String(), cursorRow.String())
}
