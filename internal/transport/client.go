package transport

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	handshakeTimeout = 10 * time.Second
	bufferSize       = 256

	heartbeatInterval    = 5 * time.Second
	maxReconnectAttempts = 5
	reconnectInterval    = 2 * time.Second // 首次间隔，之后翻倍
	maxReconnectBackoff  = 30 * time.Second
	reconnectAckTimeout  = 5 * time.Second // 等服务器回 reconnected
)

var (
	ErrClosed     = errors.New("connection closed")
	ErrBufferFull = errors.New("send buffer full")
	ErrTimeout    = errors.New("receive timeout")
	ErrNoToken    = errors.New("no reconnect token")
)

// Client WebSocket 客户端。消息以 protobuf 二进制帧发送，掉线后凭令牌自动重连
type Client struct {
	ServerURL string

	OnMessage       func(*protocol.Message)
	OnError         func(error)
	OnClose         func() // 彻底断开：重连失败或主动关闭
	OnReconnect     func()
	OnReconnecting  func(attempt, max int)
	OnLatencyUpdate func(int64)

	receive     chan *protocol.Message
	quit        chan struct{} // Close 后关闭
	reconnected chan struct{}

	mu  sync.RWMutex
	cur *link // 当前连接，断开时为 nil
	me  identity

	latency      atomic.Int64
	stopped      atomic.Bool
	reconnecting atomic.Bool
}

// identity 服务器分配的身份，重连时原样带回
type identity struct {
	playerID   string
	playerName string
	token      string
}

func NewClient(serverURL string) *Client {
	return &Client{
		ServerURL:   serverURL,
		receive:     make(chan *protocol.Message, bufferSize),
		quit:        make(chan struct{}),
		reconnected: make(chan struct{}, 1),
	}
}

func (c *Client) Connect() error {
	conn, err := dial(c.ServerURL)
	if err != nil {
		return err
	}
	c.attach(conn)
	return nil
}

func dial(url string) (*websocket.Conn, error) {
	d := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := d.Dial(url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// attach 换上新连接并启动读写协程
func (c *Client) attach(conn *websocket.Conn) {
	l := newLink(conn)
	c.mu.Lock()
	c.cur = l
	c.mu.Unlock()

	go c.readPump(l)
	go c.writePump(l)
}

// detach 结束 l，若它仍是当前连接则清空
func (c *Client) detach(l *link) {
	if l == nil {
		return
	}
	c.mu.Lock()
	if c.cur == l {
		c.cur = nil
	}
	c.mu.Unlock()
	l.close()
}

func (c *Client) current() *link {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur
}

func (c *Client) SendMessage(msg *protocol.Message) error {
	data, err := codec.EncodeBinary(msg)
	if err != nil {
		return err
	}
	l := c.current()
	if l == nil {
		return ErrClosed
	}
	select {
	case l.send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// Receive 接收消息 (阻塞)
func (c *Client) Receive() (*protocol.Message, error) {
	select {
	case msg := <-c.receive:
		return msg, nil
	case <-c.quit:
		return nil, ErrClosed
	}
}

// ReceiveWithTimeout 带超时接收消息
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-c.receive:
		return msg, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-c.quit:
		return nil, ErrClosed
	}
}

// Close 主动关闭，之后不再重连
func (c *Client) Close() {
	if c.stopped.Swap(true) {
		return
	}
	close(c.quit)
	c.detach(c.current())
}

func (c *Client) IsConnected() bool { return c.current() != nil }

func (c *Client) whoami() identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.me
}

func (c *Client) PlayerID() string { return c.whoami().playerID }
func (c *Client) PlayerName() string { return c.whoami().playerName }
func (c *Client) ReconnectToken() string { return c.whoami().token }

// GetLatency 最近一次 ping 往返，毫秒
func (c *Client) GetLatency() int64 { return c.latency.Load() }

func (c *Client) IsReconnecting() bool { return c.reconnecting.Load() }
