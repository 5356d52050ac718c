// Package types 放置 server、room、session 之间共用的接口，避免循环引用
package types

import (
	"github.com/palemoky/hearts/internal/protocol"
)

// MessageSender 可以接收服务器消息的一端
type MessageSender interface {
	SendMessage(msg *protocol.Message)
}

// ClientInterface 一个已连接的玩家
type ClientInterface interface {
	MessageSender

	GetID() string
	GetName() string

	// 所在房间号，不在房间时为空
	GetRoom() string
	SetRoom(code string)

	Close()
}

// IdentityRebinder 断线重连时，新连接换回旧玩家身份
type IdentityRebinder interface {
	SetIdentity(id, name string)
}

// ServerInterface handler 需要的服务器能力
type ServerInterface interface {
	IsMaintenanceMode() bool
	GetOnlineCount() int
	BroadcastToLobby(msg *protocol.Message)

	GetClientByID(id string) ClientInterface
	RegisterClient(id string, client ClientInterface)
	UnregisterClient(id string)
}
