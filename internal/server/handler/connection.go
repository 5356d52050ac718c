package handler

import (
	"log"
	"time"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
	"github.com/palemoky/hearts/internal/types"
)

// HandleConnect 新连接建立后创建会话并下发重连令牌
func (h *Handler) HandleConnect(client types.ClientInterface) {
	sess := h.sessionManager.CreateSession(client.GetID(), client.GetName())

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:       client.GetID(),
		PlayerName:     client.GetName(),
		ReconnectToken: sess.ReconnectToken,
	}))
}

// HandleDisconnect 连接断开：标记离线、移出匹配队列、通知房间和对局
func (h *Handler) HandleDisconnect(client types.ClientInterface) {
	roomCode := client.GetRoom()
	h.sessionManager.SetRoom(client.GetID(), roomCode)
	h.sessionManager.SetOffline(client.GetID())

	if h.matcher != nil {
		h.matcher.RemoveFromQueue(client)
	}
	if roomCode == "" {
		return
	}

	if !h.roomManager.NotifyPlayerOffline(client) {
		return
	}
	if gs := h.GetGameSession(roomCode); gs != nil {
		if err := gs.PlayerOffline(client.GetID()); err != nil {
			log.Printf("⚠️  玩家 %s 离线通知失败: %v", client.GetName(), err)
		}
	}
}

// handlePing 处理心跳消息
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	// 立即回复 pong
	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleReconnect 处理断线重连
func (h *Handler) handleReconnect(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 验证重连令牌
	if !h.sessionManager.CanReconnect(payload.Token, payload.PlayerID) {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "重连令牌无效或已过期"))
		return
	}

	sess := h.sessionManager.GetSession(payload.PlayerID)
	if sess == nil {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "会话不存在"))
		return
	}

	rebinder, ok := client.(types.IdentityRebinder)
	if !ok {
		client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeUnknown, "连接不支持重连"))
		return
	}

	// 旧连接可能还没被服务器发现断开，先关掉
	if old := h.server.GetClientByID(sess.PlayerID); old != nil && old != client {
		old.Close()
	}

	// 从临时 ID 注销，用旧 ID 注册
	h.server.UnregisterClient(client.GetID())
	h.sessionManager.DeleteSession(client.GetID())
	rebinder.SetIdentity(sess.PlayerID, sess.PlayerName)
	h.server.RegisterClient(sess.PlayerID, client)
	h.sessionManager.SetOnline(sess.PlayerID)

	reply := protocol.ReconnectedPayload{
		PlayerID:   sess.PlayerID,
		PlayerName: sess.PlayerName,
	}

	// 恢复房间和对局
	if r := h.roomManager.ReconnectPlayer(client); r != nil {
		reply.RoomCode = r.Code
		h.sessionManager.SetRoom(sess.PlayerID, r.Code)

		if gs := h.GetGameSession(r.Code); gs != nil {
			if err := gs.PlayerOnline(sess.PlayerID, client); err != nil {
				log.Printf("⚠️  玩家 %s 回到对局失败: %v", sess.PlayerName, err)
			} else if state, err := gs.StateFor(sess.PlayerID); err == nil {
				reply.GameState = state
			}
		}
	} else {
		h.sessionManager.SetRoom(sess.PlayerID, "")
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgReconnected, reply))

	log.Printf("🔄 玩家 %s (%s) 重连成功", sess.PlayerName, sess.PlayerID)
}
