package handler

import (
	"github.com/palemoky/hearts/internal/game/room"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/types"
)

// seated 进房成功后同步会话里的房间号
func (h *Handler) seated(client types.ClientInterface, r *room.Room, err error) bool {
	if err != nil {
		sendError(client, err)
		return false
	}
	h.sessionManager.SetRoom(client.GetID(), r.Code)
	return true
}

// handleCreateRoom 已在别的房间时先离开
func (h *Handler) handleCreateRoom(client types.ClientInterface) {
	h.handleLeaveRoom(client)

	r, err := h.roomManager.CreateRoom(client)
	if !h.seated(client, r, err) {
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: r.Code,
		Player:   r.GetPlayerInfo(client.GetID()),
	}))
}

func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	req, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if client.GetRoom() != req.RoomCode {
		h.handleLeaveRoom(client)
	}

	r, err := h.roomManager.JoinRoom(client, req.RoomCode)
	if !h.seated(client, r, err) {
		return
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode: r.Code,
		Player:   r.GetPlayerInfo(client.GetID()),
		Players:  r.GetAllPlayersInfo(),
	}))
}

func (h *Handler) handleLeaveRoom(client types.ClientInterface) {
	if client.GetRoom() == "" {
		return
	}
	h.roomManager.LeaveRoom(client)
	h.sessionManager.SetRoom(client.GetID(), "")
}

// handleQuickMatch 入队，凑满四人由匹配器开房
func (h *Handler) handleQuickMatch(client types.ClientInterface) {
	if h.matcher == nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "匹配服务不可用"))
		return
	}
	h.handleLeaveRoom(client)
	h.matcher.AddToQueue(client)
}

func (h *Handler) handleCancelMatch(client types.ClientInterface) {
	if h.matcher != nil {
		h.matcher.RemoveFromQueue(client)
	}
}

func (h *Handler) handleReady(client types.ClientInterface, ready bool) {
	if err := h.roomManager.SetPlayerReady(client, ready); err != nil {
		sendError(client, err)
	}
}
