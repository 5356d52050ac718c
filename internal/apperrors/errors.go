package apperrors

import (
	"errors"

	"github.com/palemoky/hearts/internal/protocol"
)

// GameError 游戏错误（引擎、房间和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func newError(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrRoomNotFound  = newError(protocol.ErrCodeRoomNotFound)
	ErrRoomFull      = newError(protocol.ErrCodeRoomFull)
	ErrNotInRoom     = newError(protocol.ErrCodeNotInRoom)
	ErrGameStarted   = newError(protocol.ErrCodeGameStarted)
	ErrAlreadyInRoom = newError(protocol.ErrCodeAlreadyInRoom)
	ErrGameNotStart  = newError(protocol.ErrCodeGameNotStart)
	ErrNotYourTurn   = newError(protocol.ErrCodeNotYourTurn)
	ErrInvalidCard   = newError(protocol.ErrCodeInvalidCard)
	ErrCardNotInHand = newError(protocol.ErrCodeCardNotInHand)
	ErrWrongPhase    = newError(protocol.ErrCodeWrongPhase)
	ErrInvalidPass   = newError(protocol.ErrCodeInvalidPass)
	ErrAlreadyPassed = newError(protocol.ErrCodeAlreadyPassed)
	ErrGameFinished  = newError(protocol.ErrCodeGameFinished)
	ErrMaintenance   = newError(protocol.ErrCodeServerMaintenance)
)

// Code 返回错误对应的协议错误码，非 GameError 返回未知错误
func Code(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return protocol.ErrCodeUnknown
}
