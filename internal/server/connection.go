package server

import (
	"context"
	"log"
	"net/http"
	"time"
)

// admission 升级前的一道关卡
type admission struct {
	allow  func(r *http.Request, ip string) bool
	status int
	reply  string
	logf   string // 参数: ip
}

func (s *Server) admissions() []admission {
	return []admission{
		{
			allow:  func(_ *http.Request, ip string) bool { return s.ipFilter.IsAllowed(ip) },
			status: http.StatusForbidden, reply: "Forbidden",
			logf: "🚫 IP %s 被过滤器拒绝",
		},
		{
			allow:  func(r *http.Request, _ string) bool { return s.originChecker.Check(r) },
			status: http.StatusForbidden, reply: "Origin not allowed",
			logf: "🚫 来源验证失败 (IP: %s)",
		},
		{
			allow:  func(_ *http.Request, ip string) bool { return s.rateLimiter.Allow(ip) },
			status: http.StatusTooManyRequests, reply: "Too Many Requests",
			logf: "🚫 IP %s 请求过于频繁",
		},
	}
}

// handleWebSocket 依次检查维护模式、连接数、IP、来源和频率，通过后升级
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if s.IsMaintenanceMode() {
		log.Printf("🔧 维护模式，拒绝新连接: %s", ip)
		http.Error(w, "Server is under maintenance, please try again later", http.StatusServiceUnavailable)
		return
	}

	// 占一个连接名额，读协程退出时归还
	select {
	case s.semaphore <- struct{}{}:
	default:
		log.Printf("🚫 达到最大连接数限制 (%d), IP: %s", s.maxConnections, ip)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}
	release := func() { <-s.semaphore }

	for _, a := range s.admissions() {
		if !a.allow(r, ip) {
			release()
			log.Printf(a.logf, ip)
			http.Error(w, a.reply, a.status)
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		release()
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	c := NewClient(s, conn)
	c.IP = ip
	s.clients.put(c.GetID(), c)
	s.handler.HandleConnect(c)
	log.Printf("✅ 玩家 %s (%s) 已连接", c.GetName(), c.GetID())

	go func() {
		defer release()
		c.ReadPump()
	}()
	go c.WritePump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.redisStore.Ping(ctx); err != nil {
		http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("OK"))
}

// handleDebugGameState 某个房间的完整对局快照，含所有手牌
func (s *Server) handleDebugGameState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	snap, err := s.redisStore.LoadGameState(ctx, r.PathValue("code"))
	switch {
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case snap == nil:
		http.Error(w, "game not found", http.StatusNotFound)
	default:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(snap)
	}
}
