package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/hearts/internal/logger"
	"github.com/palemoky/hearts/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1780", "服务器地址")
	flag.Parse()

	if err := logger.Init(); err != nil {
		log.Printf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)
	logger.LogInfo("连接服务器 %s", serverURL)

	model := ui.NewOnlineModel(serverURL)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.LogError("客户端异常退出: %v", err)
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
