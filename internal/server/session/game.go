package session

import (
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/palemoky/hearts/internal/apperrors"
	"github.com/palemoky/hearts/internal/game"
	"github.com/palemoky/hearts/internal/game/card"
	"github.com/palemoky/hearts/internal/game/rule"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/types"
)

// seatPlayer 入座玩家
type seatPlayer struct {
	ID     string
	Name   string
	Seat   int
	client types.ClientInterface
	online bool
}

// GameSession 一个房间的对局会话。
//
// 会话独占 game.Game：所有读写都在 run 协程中执行，
// 其他协程（连接、计时器）通过 do 提交并等待结果。
type GameSession struct {
	roomCode string
	cfg      Config
	deps     Deps

	actions  chan func()
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// 以下字段只在 run 协程中访问
	game     *game.Game
	players  [rule.NumSeats]*seatPlayer
	timer    *time.Timer
	timerGen uint64
	timerKey string
	deadline time.Time
	ended    bool
}

// NewGameSession 用 4 名入座玩家（按座位顺序）创建对局会话
func NewGameSession(roomCode string, clients []types.ClientInterface, cfg Config, deps Deps, opts ...game.Option) (*GameSession, error) {
	if len(clients) != rule.NumSeats {
		return nil, fmt.Errorf("房间 %s: 需要 %d 名玩家，实际 %d", roomCode, rule.NumSeats, len(clients))
	}

	ids := make([]string, len(clients))
	names := make([]string, len(clients))
	for i, c := range clients {
		ids[i] = c.GetID()
		names[i] = c.GetName()
	}
	if cfg.MaxScore > 0 {
		opts = append([]game.Option{game.WithMaxScore(cfg.MaxScore)}, opts...)
	}
	g, err := game.New(ids, names, opts...)
	if err != nil {
		return nil, err
	}

	gs := &GameSession{
		roomCode: roomCode,
		cfg:      cfg,
		deps:     deps,
		actions:  make(chan func()),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		game:     g,
	}
	for i, c := range clients {
		gs.players[i] = &seatPlayer{ID: ids[i], Name: names[i], Seat: i, client: c, online: true}
	}

	go gs.run()
	return gs, nil
}

// RoomCode 房间号
func (gs *GameSession) RoomCode() string { return gs.roomCode }

// Done 会话结束（终局、中止或 Stop）后关闭
func (gs *GameSession) Done() <-chan struct{} { return gs.done }

// IsFinished 会话是否已结束
func (gs *GameSession) IsFinished() bool {
	select {
	case <-gs.done:
		return true
	default:
		return false
	}
}

// Stop 停止会话并删除快照，可重复调用
func (gs *GameSession) Stop() {
	gs.stopOnce.Do(func() { close(gs.quit) })
	<-gs.done
}

func (gs *GameSession) run() {
	defer close(gs.done)
	defer gs.stopTimer()

	for {
		select {
		case fn := <-gs.actions:
			gs.exec(fn)
			if gs.ended {
				return
			}
		case <-gs.quit:
			gs.abort("对局已停止")
			return
		}
	}
}

// exec 执行一个操作，引擎 panic 时中止本局而不影响其他房间
func (gs *GameSession) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("💥 房间 %s 对局 panic: %v\n%s", gs.roomCode, r, debug.Stack())
			gs.abort(fmt.Sprint(r))
		}
	}()
	fn()
}

// do 在会话协程中执行 fn 并等待结果
func (gs *GameSession) do(fn func() error) error {
	reply := make(chan error, 1)
	select {
	case gs.actions <- func() { reply <- fn() }:
	case <-gs.done:
		return apperrors.ErrGameFinished
	}

	select {
	case err := <-reply:
		return err
	case <-gs.done:
		// 终局操作先写入 reply 再关闭 done
		select {
		case err := <-reply:
			return err
		default:
			return apperrors.ErrGameFinished
		}
	}
}

// post 异步提交操作（计时器回调使用）
func (gs *GameSession) post(fn func()) {
	select {
	case gs.actions <- fn:
	case <-gs.done:
	}
}

func (gs *GameSession) seatOf(playerID string) (int, error) {
	for _, p := range gs.players {
		if p.ID == playerID {
			return p.Seat, nil
		}
	}
	return -1, apperrors.ErrNotInRoom
}

// Start 通知开局并下发各自的初始状态
func (gs *GameSession) Start() error {
	return gs.do(func() error {
		players := make([]protocol.PlayerInfo, len(gs.players))
		for i, p := range gs.players {
			players[i] = protocol.PlayerInfo{ID: p.ID, Name: p.Name, Seat: p.Seat, Ready: true, Online: p.online}
		}
		gs.broadcast(protocol.MsgGameStart, protocol.GameStartPayload{
			Players:  players,
			MaxScore: gs.game.MaxScore(),
		})
		log.Printf("🃏 房间 %s 开局，传牌方向 %s", gs.roomCode, gs.game.PassingDirection())
		gs.afterChange(nil)
		return nil
	})
}

// HandleSelectPass 玩家选择要传出的 3 张牌
func (gs *GameSession) HandleSelectPass(playerID string, cards []card.Card) error {
	return gs.do(func() error {
		seat, err := gs.seatOf(playerID)
		if err != nil {
			return err
		}
		if err := gs.game.SelectCardsForPassing(seat, cards); err != nil {
			return err
		}
		log.Printf("🔄 房间 %s 玩家 %s 已选好传牌", gs.roomCode, gs.players[seat].Name)
		gs.afterChange(nil)
		return nil
	})
}

// HandlePlayCard 玩家出牌
func (gs *GameSession) HandlePlayCard(playerID string, c card.Card) error {
	return gs.do(func() error {
		seat, err := gs.seatOf(playerID)
		if err != nil {
			return err
		}
		res, err := gs.game.PlayCard(seat, c)
		if err != nil {
			return err
		}
		gs.afterChange(res)
		return nil
	})
}

// StateFor 返回玩家视角的对局状态
func (gs *GameSession) StateFor(playerID string) (*protocol.GameStateDTO, error) {
	var dto *protocol.GameStateDTO
	err := gs.do(func() error {
		seat, err := gs.seatOf(playerID)
		if err != nil {
			return err
		}
		dto = gs.stateDTO(seat)
		return nil
	})
	return dto, err
}

// Snapshot 返回完整对局快照（调试用）
func (gs *GameSession) Snapshot() (*game.Snapshot, error) {
	var snap *game.Snapshot
	err := gs.do(func() error {
		snap = gs.game.Snapshot()
		return nil
	})
	return snap, err
}

// PlayerOffline 玩家断线。轮到该玩家时缩短等待时间
func (gs *GameSession) PlayerOffline(playerID string) error {
	return gs.do(func() error {
		seat, err := gs.seatOf(playerID)
		if err != nil {
			return err
		}
		p := gs.players[seat]
		p.online = false
		gs.broadcastExcept(seat, protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Timeout:    int(gs.cfg.OfflineTimeout.Seconds()),
		})
		if gs.isWaitingOn(seat) {
			gs.shortenTimer(gs.cfg.OfflineTimeout)
		}
		log.Printf("📴 房间 %s 玩家 %s 离线", gs.roomCode, p.Name)
		return nil
	})
}

// PlayerOnline 玩家重连，绑定新连接并补发当前状态
func (gs *GameSession) PlayerOnline(playerID string, client types.ClientInterface) error {
	return gs.do(func() error {
		seat, err := gs.seatOf(playerID)
		if err != nil {
			return err
		}
		p := gs.players[seat]
		p.client = client
		p.online = true
		gs.broadcastExcept(seat, protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
			PlayerID:   p.ID,
			PlayerName: p.Name,
		})
		gs.sendTo(seat, protocol.MsgGameState, gs.stateDTO(seat))
		log.Printf("📶 房间 %s 玩家 %s 重新上线", gs.roomCode, p.Name)
		return nil
	})
}

// afterChange 一次状态变化后的通知、计时与缓存
func (gs *GameSession) afterChange(res *game.PlayResult) {
	if res != nil && res.Trick != nil {
		gs.notifyTrick(res.Trick)
	}
	if res != nil && res.Hand != nil {
		gs.notifyHand(*res.Hand)
	}

	if gs.game.Phase() == game.PhaseFinished {
		gs.stopTimer()
		gs.broadcastStates()
		gs.finish()
		return
	}

	gs.armTimer()
	gs.broadcastStates()
	gs.saveSnapshot()
}

// isWaitingOn 当前是否在等待 seat 操作
func (gs *GameSession) isWaitingOn(seat int) bool {
	switch gs.game.Phase() {
	case game.PhasePassing:
		return !gs.game.HasSelectedPassingCards(seat)
	case game.PhasePlaying:
		return gs.game.CurrentPlayer() == seat
	}
	return false
}

// finish 终局：广播名次、记录排行榜、清理快照
func (gs *GameSession) finish() {
	gs.ended = true
	snap := gs.game.Snapshot()
	scores := gs.game.Scores()
	standings := gs.game.Standings()

	var taken, moons [rule.NumSeats]int
	for _, h := range snap.History {
		for seat := range taken {
			taken[seat] += h.Taken[seat]
		}
		if h.MoonShooter >= 0 {
			moons[h.MoonShooter]++
		}
	}

	payload := protocol.GameOverPayload{Standings: make([]protocol.Standing, 0, len(standings))}
	results := make([]gameResult, 0, len(standings))
	for place, seat := range standings {
		p := gs.players[seat]
		payload.Standings = append(payload.Standings, protocol.Standing{
			Rank:       place + 1,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Seat:       seat,
			Score:      scores[seat],
		})
		results = append(results, gameResult{
			player:      p,
			placement:   place + 1,
			finalScore:  scores[seat],
			pointsTaken: taken[seat],
			moonShots:   moons[seat],
		})
	}
	winner := gs.players[standings[0]]
	payload.WinnerID = winner.ID
	payload.WinnerName = winner.Name
	gs.broadcast(protocol.MsgGameOver, payload)
	log.Printf("🏆 房间 %s 对局结束，%s 以 %d 分获胜", gs.roomCode, winner.Name, scores[winner.Seat])

	gs.recordResults(results)
	gs.deleteSnapshot()
	gs.notifyFinish()
}

// abort 中止对局
func (gs *GameSession) abort(reason string) {
	if gs.ended {
		return
	}
	gs.ended = true
	gs.stopTimer()
	log.Printf("❌ 房间 %s 对局中止: %s", gs.roomCode, reason)

	scores := gs.game.Scores()
	payload := protocol.GameOverPayload{Aborted: true}
	for _, p := range gs.players {
		payload.Standings = append(payload.Standings, protocol.Standing{
			Rank:       p.Seat + 1,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Seat:       p.Seat,
			Score:      scores[p.Seat],
		})
	}
	gs.broadcast(protocol.MsgGameOver, payload)
	gs.deleteSnapshot()
	gs.notifyFinish()
}

func (gs *GameSession) notifyFinish() {
	if gs.deps.OnFinish != nil {
		go gs.deps.OnFinish(gs.roomCode)
	}
}
