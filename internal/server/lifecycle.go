package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/palemoky/hearts/internal/protocol"
	"github.com/palemoky/hearts/internal/protocol/codec"
)

const (
	statsInterval  = 30 * time.Second
	webhookTimeout = 3 * time.Second
	httpDrainWait  = 5 * time.Second
)

func (s *Server) monitorStats() {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	var m runtime.MemStats
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
		runtime.ReadMemStats(&m)
		log.Printf("📊 在线 %d · 房间 %d · 对局 %d · 连接 %d/%d · 协程 %d · 堆 %.1fMB",
			s.GetOnlineCount(), s.roomManager.RoomCount(), s.handler.ActiveSessions(),
			len(s.semaphore), s.maxConnections, runtime.NumGoroutine(),
			float64(m.HeapAlloc)/(1<<20))
	}
}

// EnterMaintenanceMode 拒绝新连接与新房间，并告知大厅里的玩家
func (s *Server) EnterMaintenanceMode() {
	if s.maintenance.Swap(true) {
		return
	}
	s.BroadcastToLobby(codec.MustNewMessage(protocol.MsgMaintenancePush, protocol.MaintenancePayload{Maintenance: true}))
	log.Println("🔧 已进入维护模式")
}

func (s *Server) IsMaintenanceMode() bool { return s.maintenance.Load() }

// waitForGames 每隔 interval 检查一次，对局清空返回 true，到期返回 false
func (s *Server) waitForGames(deadline time.Time, interval time.Duration) bool {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		n := s.handler.ActiveSessions()
		if n == 0 {
			return true
		}
		if !time.Now().Before(deadline) {
			log.Printf("⚠️ 等待超时，强制结束 %d 个对局", n)
			return false
		}
		log.Printf("⏳ 还有 %d 个对局进行中", n)
		<-ticker.C
	}
}

// GracefulShutdown 进入维护模式，等进行中的对局打完（最多 timeout）再关闭
func (s *Server) GracefulShutdown(timeout time.Duration) {
	s.EnterMaintenanceMode()

	game := s.config.Game
	if s.waitForGames(time.Now().Add(timeout), game.ShutdownCheckIntervalDuration()) {
		log.Printf("✅ 对局已全部结束，%ds 后关闭", game.RoomCleanupDelay)
		s.BroadcastToLobby(codec.MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
			Code:    protocol.ErrCodeServerMaintenance,
			Message: fmt.Sprintf("🚧 服务器将在 %d 秒后停机维护", game.RoomCleanupDelay),
		}))
		time.Sleep(game.RoomCleanupDelayDuration())
	}

	if url := os.Getenv("SHUTDOWN_WEBHOOK_URL"); url != "" {
		ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
		err := notifyWebhook(ctx, url, os.Getenv("SHUTDOWN_WEBHOOK_SECRET"), "红心大战服务器已停机，可以开始升级")
		cancel()
		if err != nil {
			log.Printf("⚠️ 停机通知失败: %v", err)
		} else {
			log.Println("🔔 已发送停机通知")
		}
	}

	s.Shutdown()
}

// notifyWebhook POST 一条 {"text": ...}，secret 非空时作为 Bearer 令牌
func notifyWebhook(ctx context.Context, url, secret, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("Authorization", "Bearer "+secret)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("webhook 返回 %s", resp.Status)
	}
	return nil
}

// Shutdown 立即关闭，多次调用只生效一次
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.handler.StopAll()

		for _, c := range s.clients.snapshot() {
			c.Close()
		}
		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), httpDrainWait)
			_ = s.httpServer.Shutdown(ctx)
			cancel()
		}

		s.roomManager.Close()
		s.sessionManager.Close()
		s.rateLimiter.Close()
		_ = s.redis.Close()
		log.Println("👋 服务器已关闭")
	})
}
