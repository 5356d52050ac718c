package server

import (
	"log"
	"sync"
	"time"
)

const (
	visitorSweepEvery = 5 * time.Minute
	visitorIdleTTL    = 10 * time.Minute
)

// window 固定窗口计数器
type window struct {
	start time.Time
	count int
}

// hit 记一次并返回窗口内的次数，窗口过期就重新开始
func (w *window) hit(now time.Time, size time.Duration) int {
	if now.Sub(w.start) >= size {
		w.start, w.count = now, 0
	}
	w.count++
	return w.count
}

type visitor struct {
	second, minute window
	bannedUntil    time.Time
	lastSeen       time.Time
}

// RateLimiter 按 IP 限制建连频率，秒级或分钟级超限都会封禁 banDuration
type RateLimiter struct {
	perSecond   int
	perMinute   int
	banDuration time.Duration
	now         func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor

	stop     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(maxPerSecond, maxPerMinute int, banDuration time.Duration) *RateLimiter {
	rl := &RateLimiter{
		perSecond:   maxPerSecond,
		perMinute:   maxPerMinute,
		banDuration: banDuration,
		now:         time.Now,
		visitors:    make(map[string]*visitor),
		stop:        make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v := rl.visitors[ip]
	if v == nil {
		v = &visitor{}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	if now.Before(v.bannedUntil) {
		return false
	}

	if v.second.hit(now, time.Second) <= rl.perSecond && v.minute.hit(now, time.Minute) <= rl.perMinute {
		return true
	}
	v.bannedUntil = now.Add(rl.banDuration)
	log.Printf("⛔ IP %s 建连过于频繁，封禁 %v", ip, rl.banDuration)
	return false
}

func (rl *RateLimiter) IsBanned(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v := rl.visitors[ip]
	return v != nil && rl.now().Before(v.bannedUntil)
}

func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// sweep 丢掉闲置且未封禁的记录
func (rl *RateLimiter) sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	n := 0
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL && !now.Before(v.bannedUntil) {
			delete(rl.visitors, ip)
			n++
		}
	}
	return n
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(visitorSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep(rl.now())
		}
	}
}

// MessageRateLimiter 已建立连接的每秒消息数限制
type MessageRateLimiter struct {
	perSecond int
	warnAt    int // 过半就提醒放慢
	now       func() time.Time

	mu      sync.Mutex
	clients map[string]*messageRate
}

type messageRate struct {
	window
	warnings int // 超限次数
}

func NewMessageRateLimiter(maxPerSecond int) *MessageRateLimiter {
	return &MessageRateLimiter{
		perSecond: maxPerSecond,
		warnAt:    maxPerSecond / 2,
		now:       time.Now,
		clients:   make(map[string]*messageRate),
	}
}

// AllowMessage allowed 为假时丢弃这条消息；warning 表示接近或已超限
func (ml *MessageRateLimiter) AllowMessage(clientID string) (allowed bool, warning bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	r := ml.clients[clientID]
	if r == nil {
		r = &messageRate{}
		ml.clients[clientID] = r
	}

	n := r.hit(ml.now(), time.Second)
	if n > ml.perSecond {
		r.warnings++
		return false, true
	}
	return true, n > 1 && n > ml.warnAt
}

func (ml *MessageRateLimiter) GetWarningCount(clientID string) int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	if r := ml.clients[clientID]; r != nil {
		return r.warnings
	}
	return 0
}

// ClearRateLimit 断开时清掉记录
func (ml *MessageRateLimiter) ClearRateLimit(clientID string) {
	ml.mu.Lock()
	delete(ml.clients, clientID)
	ml.mu.Unlock()
}
