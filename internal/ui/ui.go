// Package ui wires the bubbletea client together.
package ui

import (
	"github.com/palemoky/hearts/internal/sound"
	"github.com/palemoky/hearts/internal/transport"
	"github.com/palemoky/hearts/internal/ui/handler"
	"github.com/palemoky/hearts/internal/ui/input"
	"github.com/palemoky/hearts/internal/ui/model"
	"github.com/palemoky/hearts/internal/ui/view"
)

// NewOnlineModel creates a new OnlineModel for online game mode.
func NewOnlineModel(serverURL string) *model.OnlineModel {
	m := model.NewOnlineModel(transport.NewClient(serverURL), sound.NewSoundManager())
	m.SetViewRenderer(view.CreateViewRenderer())
	m.SetKeyHandler(input.HandleKeyPress)
	m.SetServerMessageHandler(handler.HandleServerMessage)
	return m
}
