package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 1780
	defaultMaxConnections = 10000
	defaultRedisAddr      = "localhost:6379"

	defaultMaxScore              = 100
	defaultTurnTimeout           = 30
	defaultPassTimeout           = 45
	defaultRoomTimeout           = 10
	defaultOfflineTimeout        = 60
	defaultShutdownTimeout       = 30
	defaultShutdownCheckInterval = 10
	defaultRoomCleanupDelay      = 30

	defaultRateLimitPerSecond   = 10
	defaultRateLimitPerMinute   = 60
	defaultRateLimitBanDuration = 300
	defaultMessagePerSecond     = 20
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
	Debug          bool   `yaml:"debug"` // 开启调试接口
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	MaxScore              int `yaml:"max_score"`               // 结束分数
	TurnTimeout           int `yaml:"turn_timeout"`            // 出牌超时（秒）
	PassTimeout           int `yaml:"pass_timeout"`            // 传牌超时（秒）
	RoomTimeout           int `yaml:"room_timeout"`            // 房间等待超时（分钟）
	OfflineTimeout        int `yaml:"offline_timeout"`         // 掉线玩家回合等待（秒）
	ShutdownTimeout       int `yaml:"shutdown_timeout"`        // 优雅关闭最长等待（分钟）
	ShutdownCheckInterval int `yaml:"shutdown_check_interval"` // 优雅关闭检查间隔（秒）
	RoomCleanupDelay      int `yaml:"room_cleanup_delay"`      // 对局结束后清理房间的延迟（秒）
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
}

// RateLimitConfig 按 IP 的连接频率限制
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 秒
}

// MessageLimitConfig 单连接消息频率限制
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// TurnTimeoutDuration 返回出牌超时时长
func (c *GameConfig) TurnTimeoutDuration() time.Duration {
	return time.Duration(c.TurnTimeout) * time.Second
}

// PassTimeoutDuration 返回传牌超时时长
func (c *GameConfig) PassTimeoutDuration() time.Duration {
	return time.Duration(c.PassTimeout) * time.Second
}

// RoomTimeoutDuration 返回房间等待超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// OfflineTimeoutDuration 返回掉线玩家回合等待时长
func (c *GameConfig) OfflineTimeoutDuration() time.Duration {
	return time.Duration(c.OfflineTimeout) * time.Second
}

// ShutdownTimeoutDuration 返回优雅关闭最长等待时长
func (c *GameConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Minute
}

// ShutdownCheckIntervalDuration 返回优雅关闭检查间隔
func (c *GameConfig) ShutdownCheckIntervalDuration() time.Duration {
	return time.Duration(c.ShutdownCheckInterval) * time.Second
}

// RoomCleanupDelayDuration 返回房间清理延迟
func (c *GameConfig) RoomCleanupDelayDuration() time.Duration {
	return time.Duration(c.RoomCleanupDelay) * time.Second
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// Load 加载配置文件，再用当前目录的 .env 与环境变量覆盖
func Load(path string) (*Config, error) {
	return LoadWithEnvFile(path, ".env")
}

// LoadWithEnvFile 加载配置文件，envFile 不存在时忽略
func LoadWithEnvFile(path, envFile string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})
	return &cfg, nil
}

// Default 返回默认配置（同样应用环境变量）
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv(os.LookupEnv)
	return cfg
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return env, err
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	setDefault(&c.Server.Port, defaultPort)
	setDefault(&c.Server.MaxConnections, defaultMaxConnections)
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}

	setDefault(&c.Game.MaxScore, defaultMaxScore)
	setDefault(&c.Game.TurnTimeout, defaultTurnTimeout)
	setDefault(&c.Game.PassTimeout, defaultPassTimeout)
	setDefault(&c.Game.RoomTimeout, defaultRoomTimeout)
	setDefault(&c.Game.OfflineTimeout, defaultOfflineTimeout)
	setDefault(&c.Game.ShutdownTimeout, defaultShutdownTimeout)
	setDefault(&c.Game.ShutdownCheckInterval, defaultShutdownCheckInterval)
	setDefault(&c.Game.RoomCleanupDelay, defaultRoomCleanupDelay)

	if len(c.Security.AllowedOrigins) == 0 {
		c.Security.AllowedOrigins = []string{"*"}
	}
	setDefault(&c.Security.RateLimit.MaxPerSecond, defaultRateLimitPerSecond)
	setDefault(&c.Security.RateLimit.MaxPerMinute, defaultRateLimitPerMinute)
	setDefault(&c.Security.RateLimit.BanDuration, defaultRateLimitBanDuration)
	setDefault(&c.Security.MessageLimit.MaxPerSecond, defaultMessagePerSecond)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str("SERVER_HOST", &c.Server.Host)
	num("SERVER_PORT", &c.Server.Port)
	num("SERVER_MAX_CONNECTIONS", &c.Server.MaxConnections)
	if v, ok := lookup("SERVER_DEBUG"); ok {
		c.Server.Debug, _ = strconv.ParseBool(v)
	}
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	num("REDIS_DB", &c.Redis.DB)
	num("GAME_MAX_SCORE", &c.Game.MaxScore)
	num("GAME_TURN_TIMEOUT", &c.Game.TurnTimeout)
	num("GAME_PASS_TIMEOUT", &c.Game.PassTimeout)
	if v, ok := lookup("SECURITY_ALLOWED_ORIGINS"); ok && v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		c.Security.AllowedOrigins = origins
	}
}
