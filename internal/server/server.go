// Package server 红心大战的 WebSocket 服务端：连接准入、读写协程、广播与停机
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/hearts/internal/config"
	"github.com/palemoky/hearts/internal/game"
	"github.com/palemoky/hearts/internal/game/match"
	"github.com/palemoky/hearts/internal/game/room"
	"github.com/palemoky/hearts/internal/server/handler"
	"github.com/palemoky/hearts/internal/server/session"
	"github.com/palemoky/hearts/internal/server/storage"
)

const (
	redisPingTimeout = 5 * time.Second
	wsBufferSize     = 1024
)

type Server struct {
	config *config.Config
	redis  *redis.Client

	redisStore     *storage.RedisStore
	leaderboard    *storage.LeaderboardManager
	roomManager    *room.RoomManager
	matcher        *match.Matcher
	sessionManager *session.SessionManager
	handler        *handler.Handler
	clients        *clientRegistry

	upgrader   websocket.Upgrader
	mux        *http.ServeMux
	httpServer *http.Server
	stop       chan struct{}
	stopOnce   sync.Once

	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter
	ipFilter       *IPFilter

	maxConnections int
	semaphore      chan struct{} // 每条连接占一格
	maintenance    atomic.Bool
}

// NewServer 先确认 Redis 可用再装配
func NewServer(cfg *config.Config, opts ...game.Option) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("连接 redis %s: %w", cfg.Redis.Addr, err)
	}
	return newServer(cfg, rdb, opts...), nil
}

func newServer(cfg *config.Config, rdb *redis.Client, opts ...game.Option) *Server {
	sec := cfg.Security
	s := &Server{
		config:      cfg,
		redis:       rdb,
		redisStore:  storage.NewRedisStore(rdb),
		leaderboard: storage.NewLeaderboardManager(rdb),
		clients:     newClientRegistry(),
		stop:        make(chan struct{}),

		rateLimiter:    NewRateLimiter(sec.RateLimit.MaxPerSecond, sec.RateLimit.MaxPerMinute, sec.RateLimit.BanDurationTime()),
		originChecker:  NewOriginChecker(sec.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(sec.MessageLimit.MaxPerSecond),
		ipFilter:       NewIPFilter(),

		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}
	// Origin 在升级前已经由 originChecker 查过
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  wsBufferSize,
		WriteBufferSize: wsBufferSize,
		CheckOrigin:     func(*http.Request) bool { return true },
	}

	s.wireGame(opts)
	s.mux = s.routes()

	log.Printf("🔒 建连 %d/s · 消息 %d/s · 最多 %d 连接",
		sec.RateLimit.MaxPerSecond, sec.MessageLimit.MaxPerSecond, cfg.Server.MaxConnections)
	log.Printf("🃏 %d 分结束 · 出牌 %ds · 传牌 %ds",
		cfg.Game.MaxScore, cfg.Game.TurnTimeout, cfg.Game.PassTimeout)
	return s
}

// wireGame 会话、房间、匹配与消息处理器
func (s *Server) wireGame(opts []game.Option) {
	g := s.config.Game
	s.sessionManager = session.NewSessionManager(s.redisStore)
	s.roomManager = room.NewRoomManager(s.redisStore, g.RoomTimeoutDuration())
	s.matcher = match.NewMatcher(match.MatcherDeps{RoomManager: s.roomManager, Store: s.redisStore})
	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:         s,
		RoomManager:    s.roomManager,
		Matcher:        s.matcher,
		Leaderboard:    s.leaderboard,
		SessionManager: s.sessionManager,
		GameStore:      s.redisStore,
		GameConfig: session.Config{
			TurnTimeout:    g.TurnTimeoutDuration(),
			PassTimeout:    g.PassTimeoutDuration(),
			OfflineTimeout: g.OfflineTimeoutDuration(),
			MaxScore:       g.MaxScore,
		},
		GameOptions: opts,
	})
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	if s.config.Server.Debug {
		mux.HandleFunc("GET /debug/rooms/{code}/state", s.handleDebugGameState)
		log.Println("🐞 调试接口已开启: /debug/rooms/{code}/state")
	}
	return mux
}

// Handler 全部 HTTP 路由，测试里挂到 httptest 上
func (s *Server) Handler() http.Handler { return s.mux }

// Start 阻塞直到 Shutdown
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go s.monitorStats()

	log.Printf("🚀 监听 ws://%s/ws (%d 核)", addr, runtime.NumCPU())
	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
