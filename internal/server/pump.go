package server

import (
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10 // 必须小于 pongWait
	maxMessageSize = 4096

	maxRateWarnings = 5 // 连续超速超过这个次数就断开
)

// rateVerdict 一条消息的限流结果
type rateVerdict int

const (
	rateOK rateVerdict = iota
	rateDrop
	rateKick
)

// checkRate 超速的消息丢弃并回错误，屡教不改的断开
func (c *Client) checkRate() rateVerdict {
	limiter := c.server.messageLimiter
	allowed, warning := limiter.AllowMessage(c.GetID())
	switch {
	case !allowed && limiter.GetWarningCount(c.GetID()) > maxRateWarnings:
		log.Printf("🚫 客户端 %s (IP: %s) 多次超速，断开", c.GetName(), c.IP)
		return rateKick
	case !allowed:
		c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "消息发送过于频繁"))
		return rateDrop
	case warning:
		c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeRateLimit, "请求过于频繁，请放慢速度"))
	}
	return rateOK
}

// decode 解码并记住客户端的帧类型
func (c *Client) decode(kind int, data []byte) (*protocol.Message, error) {
	binary := kind == websocket.BinaryMessage
	c.binary.Store(binary)
	if binary {
		return codec.DecodeBinary(data)
	}
	return codec.Decode(data)
}

// ReadPump 读循环，返回时连接已断开
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	extend := func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) }
	_ = extend("")
	c.conn.SetPongHandler(extend)

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("读取错误 (%s): %v", c.GetID(), err)
			}
			return
		}

		switch c.checkRate() {
		case rateKick:
			return
		case rateDrop:
			continue
		}

		msg, err := c.decode(kind, data)
		if err != nil {
			log.Printf("消息解析错误 (%s): %v", c.GetID(), err)
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}
		c.server.handler.Handle(c, msg)
		codec.PutMessage(msg)
	}
}

// WritePump 写循环，同时定时发 ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	write := func(kind int, data []byte) error {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		return c.conn.WriteMessage(kind, data)
	}

	for {
		var err error
		select {
		case f, ok := <-c.send:
			if !ok {
				_ = write(websocket.CloseMessage, nil)
				return
			}
			err = write(f.kind, f.data)
		case <-ticker.C:
			err = write(websocket.PingMessage, nil)
		}
		if err != nil {
			return
		}
	}
}

// handleDisconnect 已被重连顶替的旧连接静默退出
func (c *Client) handleDisconnect() {
	c.server.messageLimiter.ClearRateLimit(c.GetID())
	if !c.server.clients.deleteIf(c) {
		return
	}
	c.server.handler.HandleDisconnect(c)
	log.Printf("❌ 玩家 %s (%s) 已断开", c.GetName(), c.GetID())
}
