package protocol

// 错误码
const (
	ErrCodeUnknown           = 1000
	ErrCodeInvalidMsg        = 1001
	ErrCodeRateLimit         = 1002 // 速率限制
	ErrCodeRoomNotFound      = 2001
	ErrCodeRoomFull          = 2002
	ErrCodeNotInRoom         = 2003
	ErrCodeGameStarted       = 2004 // 游戏已开始
	ErrCodeAlreadyInRoom     = 2005
	ErrCodeGameNotStart      = 3001
	ErrCodeNotYourTurn       = 3002
	ErrCodeInvalidCard       = 3003 // 违反出牌规则
	ErrCodeCardNotInHand     = 3004
	ErrCodeWrongPhase        = 3005
	ErrCodeInvalidPass       = 3006
	ErrCodeAlreadyPassed     = 3007
	ErrCodeGameFinished      = 3008
	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "未知错误",
	ErrCodeInvalidMsg:        "无效的消息格式",
	ErrCodeRateLimit:         "请求过于频繁",
	ErrCodeRoomNotFound:      "房间不存在",
	ErrCodeRoomFull:          "房间已满",
	ErrCodeNotInRoom:         "您不在房间中",
	ErrCodeGameStarted:       "游戏已开始",
	ErrCodeAlreadyInRoom:     "您已在房间中",
	ErrCodeGameNotStart:      "游戏尚未开始",
	ErrCodeNotYourTurn:       "还没轮到您",
	ErrCodeInvalidCard:       "这张牌现在不能出",
	ErrCodeCardNotInHand:     "您没有这张牌",
	ErrCodeWrongPhase:        "当前阶段不允许该操作",
	ErrCodeInvalidPass:       "请选择手中的 3 张不同的牌",
	ErrCodeAlreadyPassed:     "您已选好要传的牌",
	ErrCodeGameFinished:      "游戏已结束",
	ErrCodeServerMaintenance: "服务器维护中",
}
