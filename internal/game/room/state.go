package room

// RoomState 房间状态
type RoomState int

const (
	RoomStateWaiting RoomState = iota // 等待玩家入座/准备
	RoomStatePlaying                  // 对局进行中
	RoomStateEnded                    // 已解散，等待清理
)

func (s RoomState) String() string {
	switch s {
	case RoomStateWaiting:
		return "waiting"
	case RoomStatePlaying:
		return "playing"
	case RoomStateEnded:
		return "ended"
	}
	return "unknown"
}
