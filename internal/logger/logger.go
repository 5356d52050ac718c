package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
)

const maxLogSize = 10 * 1024 * 1024

var (
	log      = logrus.New()
	debugLog *os.File
	logPath  string
)

func init() {
	// 未初始化前不输出，避免打乱终端界面
	log.SetOutput(io.Discard)
}

// Init initializes the debug logger under ~/.hearts
func Init() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitAt(filepath.Join(homeDir, ".hearts"))
}

// InitAt initializes the debug logger in logDir
func InitAt(logDir string) error {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath = filepath.Join(logDir, "debug.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Rotate if file is too large
	if info, err := f.Stat(); err == nil && info.Size() > maxLogSize {
		_ = f.Close()
		backupPath := filepath.Join(logDir, fmt.Sprintf("debug.log.%d", time.Now().Unix()))
		_ = os.Rename(logPath, backupPath)
		f, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create new log file: %w", err)
		}
	}

	debugLog = f
	log.SetOutput(debugLog)
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})

	LogInfo("Logger initialized, log file: %s", logPath)
	return nil
}

// Close closes the debug log file
func Close() {
	if debugLog != nil {
		log.SetOutput(io.Discard)
		_ = debugLog.Close()
		debugLog = nil
	}
}

// LogInfo logs an info message
func LogInfo(format string, args ...any) {
	log.Infof(format, args...)
}

// LogError logs an error message
func LogError(format string, args ...any) {
	log.Errorf(format, args...)
}

// LogEvent logs a structured event, e.g. a received server message
func LogEvent(event string, fields map[string]any) {
	log.WithFields(logrus.Fields(fields)).Debug(event)
}

// LogPanic logs a panic with stack trace
func LogPanic(r any) {
	log.WithField("stack", string(debug.Stack())).Errorf("panic: %v", r)
}

// GetLogPath returns the current log file path
func GetLogPath() string {
	return logPath
}
