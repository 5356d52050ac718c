//go:build !production

package testutil

import (
	"slices"
	"sync"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
)

// SimpleClient 把收到的消息记下来的 types.ClientInterface，并发安全
type SimpleClient struct {
	ID   string
	Name string

	mu     sync.Mutex
	room   string
	inbox  []*protocol.Message
	closed bool
}

func NewSimpleClient(id, name string) *SimpleClient {
	return &SimpleClient{ID: id, Name: name}
}

func (c *SimpleClient) locked(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

func (c *SimpleClient) GetID() (id string) {
	c.locked(func() { id = c.ID })
	return
}

func (c *SimpleClient) GetName() (name string) {
	c.locked(func() { name = c.Name })
	return
}

func (c *SimpleClient) SetIdentity(id, name string) {
	c.locked(func() { c.ID, c.Name = id, name })
}

func (c *SimpleClient) GetRoom() (code string) {
	c.locked(func() { code = c.room })
	return
}

func (c *SimpleClient) SetRoom(code string) {
	c.locked(func() { c.room = code })
}

func (c *SimpleClient) SendMessage(msg *protocol.Message) {
	c.locked(func() { c.inbox = append(c.inbox, msg) })
}

func (c *SimpleClient) Close() {
	c.locked(func() { c.closed = true })
}

// Messages 已收到消息的副本
func (c *SimpleClient) Messages() (out []*protocol.Message) {
	c.locked(func() { out = slices.Clone(c.inbox) })
	return
}

func (c *SimpleClient) MessagesOf(t protocol.MessageType) []*protocol.Message {
	return slices.DeleteFunc(c.Messages(), func(m *protocol.Message) bool { return m.Type != t })
}

// Reset 清空收件箱
func (c *SimpleClient) Reset() {
	c.locked(func() { c.inbox = nil })
}

// LastPayload 最近一条 t 类型消息的 payload，没有或解析失败返回 nil
func LastPayload[T any](c *SimpleClient, t protocol.MessageType) *T {
	msgs := c.MessagesOf(t)
	if len(msgs) == 0 {
		return nil
	}
	p, err := codec.ParsePayload[T](msgs[len(msgs)-1])
	if err != nil {
		return nil
	}
	return p
}

// IsClosed 服务端是否主动关闭过这条连接
func (c *SimpleClient) IsClosed() (closed bool) {
	c.locked(func() { closed = c.closed })
	return
}
