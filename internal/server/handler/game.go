package handler

import (
	"log"

	"github.com/palemoky/hearts/internal/apperrors"
	"github.com/palemoky/hearts/internal/game/room"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/protocol/convert"
	"github.com/palemoky/hearts/internal/server/session"
	"github.com/palemoky/hearts/internal/types"
)

// startGame 四人准备后创建对局会话
func (h *Handler) startGame(r *room.Room, clients []types.ClientInterface) {
	var gs *session.GameSession
	deps := session.Deps{
		Store: h.gameStore,
		OnFinish: func(code string) {
			h.gameFinished(code, gs)
		},
	}
	if h.leaderboard != nil {
		deps.Leaderboard = h.leaderboard
	}

	gs, err := session.NewGameSession(r.Code, clients, h.gameConfig, deps, h.gameOptions...)
	if err != nil {
		log.Printf("❌ 房间 %s 创建对局失败: %v", r.Code, err)
		h.roomManager.FinishGame(r.Code)
		return
	}
	h.SetGameSession(r.Code, gs)

	if err := gs.Start(); err != nil {
		log.Printf("❌ 房间 %s 开局失败: %v", r.Code, err)
	}
}

// gameFinished 对局结束或中止，房间回到等待状态
func (h *Handler) gameFinished(code string, gs *session.GameSession) {
	h.gamesMu.Lock()
	current := h.games[code] == gs
	if current {
		delete(h.games, code)
	}
	h.gamesMu.Unlock()

	if current {
		h.roomManager.FinishGame(code)
	}
}

// teardownGame 有人在对局中离开，终止对局
func (h *Handler) teardownGame(code string) {
	h.gamesMu.Lock()
	gs := h.games[code]
	delete(h.games, code)
	h.gamesMu.Unlock()

	if gs != nil {
		gs.Stop()
	}
}

// gameFor 获取玩家所在房间的对局
func (h *Handler) gameFor(client types.ClientInterface) (*session.GameSession, error) {
	code := client.GetRoom()
	if code == "" {
		return nil, apperrors.ErrNotInRoom
	}
	gs := h.GetGameSession(code)
	if gs == nil {
		return nil, apperrors.ErrGameNotStart
	}
	return gs, nil
}

// handleSelectPass 处理传牌
func (h *Handler) handleSelectPass(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.SelectPassPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	cards, err := convert.InfosToCards(payload.Cards)
	if err != nil {
		sendError(client, apperrors.ErrInvalidCard)
		return
	}

	gs, err := h.gameFor(client)
	if err != nil {
		sendError(client, err)
		return
	}
	if err := gs.HandleSelectPass(client.GetID(), cards); err != nil {
		sendError(client, err)
	}
}

// handlePlayCard 处理出牌
func (h *Handler) handlePlayCard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PlayCardPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	c, err := convert.InfoToCard(payload.Card)
	if err != nil {
		sendError(client, apperrors.ErrInvalidCard)
		return
	}

	gs, err := h.gameFor(client)
	if err != nil {
		sendError(client, err)
		return
	}
	if err := gs.HandlePlayCard(client.GetID(), c); err != nil {
		sendError(client, err)
	}
}

// handleGetGameState 补发当前对局状态
func (h *Handler) handleGetGameState(client types.ClientInterface) {
	gs, err := h.gameFor(client)
	if err != nil {
		sendError(client, err)
		return
	}
	state, err := gs.StateFor(client.GetID())
	if err != nil {
		sendError(client, err)
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgGameState, state))
}
