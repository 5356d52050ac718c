package server

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
)

const sendBuffer = 256

type frame struct {
	kind int
	data []byte
}

// Client 一条 WebSocket 连接。重连成功后会换上旧身份
type Client struct {
	IP string

	server *Server
	conn   *websocket.Conn
	send   chan frame
	binary atomic.Bool // 最近一帧是二进制则按二进制回复

	mu       sync.RWMutex
	id       string
	name     string
	roomCode string
	closed   bool
}

// NewClient 临时 ID 加随机昵称
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		server: s,
		conn:   conn,
		send:   make(chan frame, sendBuffer),
		id:     uuid.NewString(),
		name:   GenerateNickname(),
	}
}

// encodeFrame 按客户端当前使用的帧类型编码
func (c *Client) encodeFrame(msg *protocol.Message) (frame, error) {
	if c.binary.Load() {
		data, err := codec.EncodeBinary(msg)
		return frame{websocket.BinaryMessage, data}, err
	}
	data, err := codec.Encode(msg)
	return frame{websocket.TextMessage, data}, err
}

// SendMessage 非阻塞入队，队列满说明对端太慢，直接断开
func (c *Client) SendMessage(msg *protocol.Message) {
	f, err := c.encodeFrame(msg)
	if err != nil {
		log.Printf("消息编码错误 (%s): %v", msg.Type, err)
		return
	}

	c.mu.RLock()
	full := false
	if !c.closed {
		select {
		case c.send <- f:
		default:
			full = true
		}
	}
	c.mu.RUnlock()

	if full {
		log.Printf("🐢 客户端 %s 发送队列已满，断开", c.GetID())
		c.Close()
	}
}

// Close 关闭发送队列，WritePump 发出关闭帧后退出
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) GetID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// SetIdentity 重连后换回旧的 ID 与昵称
func (c *Client) SetIdentity(id, name string) {
	c.mu.Lock()
	c.id, c.name = id, name
	c.mu.Unlock()
}

func (c *Client) SetRoom(roomCode string) {
	c.mu.Lock()
	c.roomCode = roomCode
	c.mu.Unlock()
}

func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}
