// Package common provides shared styles and utilities for the UI.
package common

import (
	"github.com/charmbracelet/lipgloss"
)

// Icon constants
const (
	HeartIcon  = "♥"
	QueenIcon  = "👸"
	MoonIcon   = "🌙"
	DealerIcon = "🃏"
)

// Lipgloss Styles
var (
	DocStyle      = lipgloss.NewStyle().Margin(1, 2)
	RedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	BlackStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	GrayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	SelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5F87D7")).Bold(true)
	TitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	BoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	PromptStyle   = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	HintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	TurnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
)
