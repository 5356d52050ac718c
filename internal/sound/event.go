package sound

// Event 音效事件，对应音效目录下的同名文件
type Event string

const (
	EventLogin        Event = "login"         // 连上服务器
	EventJoin         Event = "join"          // 进入房间
	EventDeal         Event = "deal"          // 发牌
	EventPass         Event = "pass"          // 传牌完成
	EventTurn         Event = "turn"          // 轮到自己
	EventPlay         Event = "play"          // 有人出牌
	EventTrick        Event = "trick"         // 一墩结束
	EventQueen        Event = "queen"         // 黑桃 Q 被吃
	EventHeartsBroken Event = "hearts_broken" // 红心破
	EventMoon         Event = "moon"          // 全收
	EventWin          Event = "win"
	EventLose         Event = "lose"
)

var knownEvents = map[Event]bool{
	EventLogin: true, EventJoin: true, EventDeal: true, EventPass: true,
	EventTurn: true, EventPlay: true, EventTrick: true, EventQueen: true,
	EventHeartsBroken: true, EventMoon: true, EventWin: true, EventLose: true,
}

// Known 是否为已知事件
func (e Event) Known() bool {
	return knownEvents[e]
}
