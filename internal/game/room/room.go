package room

import (
	"context"
	"sync"
	"time"

	"github.com/palemoky/hearts/internal/game/rule"
	"github.com/palemoky/hearts/internal/server/storage"
	"github.com/palemoky/hearts/internal/types"
)

const (
	MaxPlayers     = rule.NumSeats // 每桌人数
	roomCodeLength = 6
	roomCodeSpace  = 1_000_000 // 10^roomCodeLength
)

// RoomPlayer 房间中的玩家
type RoomPlayer struct {
	Client types.ClientInterface
	Seat   int  // 座位号 0-3
	Ready  bool // 是否准备
	Online bool
}

// Room 游戏房间
type Room struct {
	Code      string                 // 房间号
	State     RoomState              // 房间状态
	Players   map[string]*RoomPlayer // 玩家列表
	CreatedAt time.Time              // 创建时间

	mu sync.RWMutex
}

// Store 房间持久化
type Store interface {
	SaveRoom(ctx context.Context, roomCode string, data *storage.RoomData) error
	DeleteRoom(ctx context.Context, code string) error
}

// Hooks 房间生命周期回调
type Hooks struct {
	// OnStart 四人全部准备后调用，clients 按座位排序
	OnStart func(room *Room, clients []types.ClientInterface)
	// OnTeardown 进行中的对局因有人离开或房间解散而终止
	OnTeardown func(roomCode string)
}

// RoomManager 房间管理器
type RoomManager struct {
	store       Store // 可为空
	roomTimeout time.Duration
	rooms       map[string]*Room
	hooks       Hooks
	now         func() time.Time
	writes      chan func(ctx context.Context)
	stop        chan struct{}
	stopOnce    sync.Once
	mu          sync.RWMutex
}

// NewRoomManager 创建房间管理器
func NewRoomManager(store Store, roomTimeout time.Duration) *RoomManager {
	rm := &RoomManager{
		store:       store,
		roomTimeout: roomTimeout,
		rooms:       make(map[string]*Room),
		now:         time.Now,
		writes:      make(chan func(ctx context.Context), 256),
		stop:        make(chan struct{}),
	}

	// 启动房间清理协程
	go rm.cleanupLoop()
	go rm.writeLoop()

	return rm
}

// SetHooks 设置生命周期回调，需在接受连接前调用
func (rm *RoomManager) SetHooks(h Hooks) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.hooks = h
}

// Close 停止清理协程
func (rm *RoomManager) Close() {
	rm.stopOnce.Do(func() { close(rm.stop) })
}
