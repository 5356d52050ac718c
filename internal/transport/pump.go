package transport

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/hearts/internal/logger"
	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
)

// link 一条物理连接。重连时旧 link 作废，新 link 接手
type link struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newLink(conn *websocket.Conn) *link {
	return &link{conn: conn, send: make(chan []byte, bufferSize), done: make(chan struct{})}
}

func (l *link) close() { l.once.Do(func() { close(l.done) }) }

func recoverPump(name string) {
	if r := recover(); r != nil {
		logger.LogPanic(r)
		log.Printf("[PANIC] %s: %v", name, r)
	}
}

func decodeFrame(kind int, data []byte) (*protocol.Message, error) {
	if kind == websocket.BinaryMessage {
		return codec.DecodeBinary(data)
	}
	return codec.Decode(data)
}

func (c *Client) readPump(l *link) {
	defer c.afterRead(l)
	defer recoverPump("readPump")

	extend := func(string) error { return l.conn.SetReadDeadline(time.Now().Add(pongWait)) }
	_ = extend("")
	l.conn.SetPongHandler(extend)

	for {
		kind, data, err := l.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) && c.OnError != nil {
				c.OnError(err)
			}
			return
		}
		msg, err := decodeFrame(kind, data)
		if err != nil {
			log.Printf("消息解析错误: %v", err)
			continue
		}
		c.dispatch(msg)
	}
}

// afterRead 读循环结束：主动关闭或重连中什么都不做，有令牌就重连，否则报告断开
func (c *Client) afterRead(l *link) {
	c.detach(l)
	switch {
	case c.stopped.Load(), c.reconnecting.Load():
	case c.ReconnectToken() != "":
		go c.tryReconnect()
	case c.OnClose != nil:
		c.OnClose()
	}
}

// dispatch 先更新内部状态，再交给回调和接收队列。
// 重连成功的通知排在消息入队之后
func (c *Client) dispatch(msg *protocol.Message) {
	resumed := c.observe(msg)

	if c.OnMessage != nil {
		c.OnMessage(msg)
	}
	select {
	case c.receive <- msg:
	default:
	}
	if resumed && c.OnReconnect != nil {
		c.OnReconnect()
	}
}

// observe 记录身份与延迟，返回是否为重连成功
func (c *Client) observe(msg *protocol.Message) bool {
	switch msg.Type {
	case protocol.MsgConnected:
		// 重连时新连接先拿到的临时身份不算数
		if c.reconnecting.Load() {
			return false
		}
		if p, err := codec.ParsePayload[protocol.ConnectedPayload](msg); err == nil {
			c.mu.Lock()
			c.me = identity{playerID: p.PlayerID, playerName: p.PlayerName, token: p.ReconnectToken}
			c.mu.Unlock()
		}
	case protocol.MsgReconnected:
		c.reconnecting.Store(false)
		select {
		case c.reconnected <- struct{}{}:
		default:
		}
		return true
	case protocol.MsgPong:
		if p, err := codec.ParsePayload[protocol.PongPayload](msg); err == nil {
			rtt := time.Now().UnixMilli() - p.ClientTimestamp
			c.latency.Store(rtt)
			if c.OnLatencyUpdate != nil {
				c.OnLatencyUpdate(rtt)
			}
		}
	}
	return false
}

func (c *Client) writePump(l *link) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = l.conn.Close()
	}()
	defer recoverPump("writePump")

	write := func(kind int, data []byte) error {
		_ = l.conn.SetWriteDeadline(time.Now().Add(writeWait))
		return l.conn.WriteMessage(kind, data)
	}

	for {
		var err error
		select {
		case data := <-l.send:
			err = write(websocket.BinaryMessage, data)
		case <-ticker.C:
			err = write(websocket.PingMessage, nil)
		case <-l.done:
			_ = write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
		if err != nil {
			return
		}
	}
}
