package transport

import (
	"log"
	"time"

	"github.com/palemoky/hearts/internal/logger"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
)

// Reconnect 手动发送重连请求
func (c *Client) Reconnect() error {
	me := c.whoami()
	if me.token == "" || me.playerID == "" {
		return ErrNoToken
	}
	return c.SendMessage(codec.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    me.token,
		PlayerID: me.playerID,
	}))
}

// StartHeartbeat 启动心跳检测
func (c *Client) StartHeartbeat() {
	go func() {
		ticker := time.NewTicker(heartbeatInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if c.IsConnected() {
					_ = c.Ping()
				}
			case <-c.quit:
				return
			}
		}
	}()
}

// tryReconnect 指数退避重连，最多 maxReconnectAttempts 次
func (c *Client) tryReconnect() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			log.Printf("[PANIC] tryReconnect panic recovered: %v", r)
			c.reconnecting.Store(false)
		}
	}()

	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}
	// 清掉上一次残留的确认
	select {
	case <-c.reconnected:
	default:
	}

	backoff := reconnectInterval
	for attempt := 1; attempt <= maxReconnectAttempts; attempt++ {
		if c.OnReconnecting != nil {
			c.OnReconnecting(attempt, maxReconnectAttempts)
		}

		select {
		case <-time.After(backoff):
		case <-c.quit:
			c.reconnecting.Store(false)
			return
		}
		backoff = min(backoff*2, maxReconnectBackoff)

		conn, err := dial(c.ServerURL)
		if err != nil {
			logger.LogError("重连失败 (%d/%d): %v", attempt, maxReconnectAttempts, err)
			continue
		}
		c.attach(conn)

		if err := c.Reconnect(); err != nil {
			c.detach(c.current())
			continue
		}

		select {
		case <-c.reconnected:
			logger.LogInfo("重连成功 (%d/%d)", attempt, maxReconnectAttempts)
			return
		case <-time.After(reconnectAckTimeout):
			c.detach(c.current())
		case <-c.quit:
			c.reconnecting.Store(false)
			return
		}
	}

	// 重连失败
	c.reconnecting.Store(false)
	c.Close()
	if c.OnClose != nil {
		c.OnClose()
	}
}
