package handler

import (
	"context"
	"log"
	"sync"

	"github.com/palemoky/hearts/internal/apperrors"
	"github.com/palemoky/hearts/internal/game"
	"github.com/palemoky/hearts/internal/game/match"
	"github.com/palemoky/hearts/internal/game/room"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/server/session"
	"github.com/palemoky/hearts/internal/server/storage"
	"github.com/palemoky/hearts/internal/types"
)

// Leaderboard 排行榜服务
type Leaderboard interface {
	session.ResultRecorder
	GetPlayerStats(ctx context.Context, playerID string) (*storage.PlayerStats, error)
	GetPlayerRank(ctx context.Context, playerID string) (int64, error)
	GetLeaderboard(ctx context.Context, leaderboardType string, offset, limit int) ([]*storage.LeaderboardEntry, error)
}

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server         types.ServerInterface
	RoomManager    *room.RoomManager
	Matcher        *match.Matcher
	Leaderboard    Leaderboard            // 可为空
	SessionManager *session.SessionManager
	GameStore      session.GameStateStore // 可为空
	GameConfig     session.Config
	GameOptions    []game.Option
}

// Handler 消息处理器
type Handler struct {
	server         types.ServerInterface
	roomManager    *room.RoomManager
	matcher        *match.Matcher
	leaderboard    Leaderboard
	sessionManager *session.SessionManager
	gameStore      session.GameStateStore
	gameConfig     session.Config
	gameOptions    []game.Option
	handlers       map[protocol.MessageType]handlerFunc
	games          map[string]*session.GameSession
	gamesMu        sync.RWMutex
}

type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器，并接管房间的开局/终止回调
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:         deps.Server,
		roomManager:    deps.RoomManager,
		matcher:        deps.Matcher,
		leaderboard:    deps.Leaderboard,
		sessionManager: deps.SessionManager,
		gameStore:      deps.GameStore,
		gameConfig:     deps.GameConfig,
		gameOptions:    deps.GameOptions,
		games:          make(map[string]*session.GameSession),
	}
	h.handlers = h.routes()
	if h.roomManager != nil {
		h.roomManager.SetHooks(room.Hooks{
			OnStart:    h.startGame,
			OnTeardown: h.teardownGame,
		})
	}
	return h
}

func (h *Handler) GetGameSession(roomCode string) *session.GameSession {
	h.gamesMu.RLock()
	defer h.gamesMu.RUnlock()
	return h.games[roomCode]
}

// SetGameSession gs 为 nil 表示移除
func (h *Handler) SetGameSession(roomCode string, gs *session.GameSession) {
	h.gamesMu.Lock()
	defer h.gamesMu.Unlock()
	if gs == nil {
		delete(h.games, roomCode)
		return
	}
	h.games[roomCode] = gs
}

// ActiveSessions 进行中的对局数
func (h *Handler) ActiveSessions() int {
	h.gamesMu.RLock()
	defer h.gamesMu.RUnlock()
	return len(h.games)
}

// StopAll 停掉全部对局，关服时用
func (h *Handler) StopAll() {
	h.gamesMu.Lock()
	games := h.games
	h.games = make(map[string]*session.GameSession)
	h.gamesMu.Unlock()

	for _, gs := range games {
		gs.Stop()
	}
}

// bare 不需要消息体的处理器
func bare(fn func(types.ClientInterface)) handlerFunc {
	return func(c types.ClientInterface, _ *protocol.Message) { fn(c) }
}

// open 维护期间拒绝，用于会开新桌的请求
func (h *Handler) open(fn handlerFunc) handlerFunc {
	return func(c types.ClientInterface, msg *protocol.Message) {
		if h.server.IsMaintenanceMode() {
			sendError(c, apperrors.ErrMaintenance)
			return
		}
		fn(c, msg)
	}
}

func (h *Handler) routes() map[protocol.MessageType]handlerFunc {
	return map[protocol.MessageType]handlerFunc{
		protocol.MsgPing:      h.handlePing,
		protocol.MsgReconnect: h.handleReconnect,

		protocol.MsgCreateRoom:  h.open(bare(h.handleCreateRoom)),
		protocol.MsgJoinRoom:    h.open(h.handleJoinRoom),
		protocol.MsgQuickMatch:  h.open(bare(h.handleQuickMatch)),
		protocol.MsgLeaveRoom:   bare(h.handleLeaveRoom),
		protocol.MsgCancelMatch: bare(h.handleCancelMatch),
		protocol.MsgReady:       bare(func(c types.ClientInterface) { h.handleReady(c, true) }),
		protocol.MsgCancelReady: bare(func(c types.ClientInterface) { h.handleReady(c, false) }),

		protocol.MsgSelectPass:   h.handleSelectPass,
		protocol.MsgPlayCard:     h.handlePlayCard,
		protocol.MsgGetGameState: bare(h.handleGetGameState),

		protocol.MsgGetStats:             bare(h.handleGetStats),
		protocol.MsgGetLeaderboard:       h.handleGetLeaderboard,
		protocol.MsgGetRoomList:          bare(h.handleGetRoomList),
		protocol.MsgGetOnlineCount:       bare(h.handleGetOnlineCount),
		protocol.MsgGetMaintenanceStatus: bare(h.handleGetMaintenanceStatus),
	}
}

// Handle 按消息类型分发，未知类型回 InvalidMsg
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	fn, ok := h.handlers[msg.Type]
	if !ok {
		log.Printf("⚠️ 未知消息类型 %q，来自 %s (%s)", msg.Type, client.GetName(), client.GetID())
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	fn(client, msg)
}

func sendError(client types.ClientInterface, err error) {
	client.SendMessage(codec.NewErrorMessageFromErr(err))
}
