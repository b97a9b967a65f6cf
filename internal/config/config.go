package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zhouqilin/bridge-table/internal/game"
)

// 牌张协议类型
const (
	CardProtocolPeerless   = "peerless"   // 首席节点明文公布整副牌
	CardProtocolCardServer = "cardserver" // 外部牌张服务器（密码学协议）
)

// Config 节点配置
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
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PeerConfig 一个对等节点
type PeerConfig struct {
	Address   string   `yaml:"address"`   // host:port
	Positions []string `yaml:"positions"` // 该节点认领的座位
}

// GameConfig 对局配置
type GameConfig struct {
	SelfSeats      []string     `yaml:"self_seats"`    // 本节点控制的座位
	LeaderSeat     string       `yaml:"leader_seat"`   // 洗牌公布的首席座位
	CardProtocol   string       `yaml:"card_protocol"` // peerless 或 cardserver
	CardServerAddr string       `yaml:"card_server"`   // cardserver 协议的服务器地址 host:port
	Peers          []PeerConfig `yaml:"peers"`
}

// SelfPositions 解析本节点控制的座位
func (c *GameConfig) SelfPositions() ([]game.Position, error) {
	seats := make([]game.Position, 0, len(c.SelfSeats))
	seen := make(map[game.Position]bool)
	for _, name := range c.SelfSeats {
		seat, err := game.PositionFromName(name)
		if err != nil {
			return nil, err
		}
		if seen[seat] {
			return nil, fmt.Errorf("config: 座位重复: %s", name)
		}
		seen[seat] = true
		seats = append(seats, seat)
	}
	return seats, nil
}

// LeaderPosition 解析首席座位
func (c *GameConfig) LeaderPosition() (game.Position, error) {
	return game.PositionFromName(c.LeaderSeat)
}

// RateLimitConfig 连接速率限制配置
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 秒
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// MessageLimitConfig 消息速率限制配置
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if _, err := cfg.Game.SelfPositions(); err != nil {
		return nil, err
	}
	if _, err := cfg.Game.LeaderPosition(); err != nil {
		return nil, err
	}
	switch cfg.Game.CardProtocol {
	case CardProtocolPeerless:
	case CardProtocolCardServer:
		if cfg.Game.CardServerAddr == "" {
			return nil, fmt.Errorf("config: cardserver 协议需要配置 card_server 地址")
		}
	default:
		return nil, fmt.Errorf("config: 未知的牌张协议: %s", cfg.Game.CardProtocol)
	}

	return &cfg, nil
}

// applyDefaults 填充缺省值
func (cfg *Config) applyDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5555
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 1024
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if len(cfg.Game.SelfSeats) == 0 {
		cfg.Game.SelfSeats = []string{"north", "east", "south", "west"}
	}
	if cfg.Game.LeaderSeat == "" {
		cfg.Game.LeaderSeat = "north"
	}
	if cfg.Game.CardProtocol == "" {
		cfg.Game.CardProtocol = CardProtocolPeerless
	}
	if len(cfg.Security.AllowedOrigins) == 0 {
		cfg.Security.AllowedOrigins = []string{"*"}
	}
	if cfg.Security.RateLimit.MaxPerSecond == 0 {
		cfg.Security.RateLimit.MaxPerSecond = 10
	}
	if cfg.Security.RateLimit.MaxPerMinute == 0 {
		cfg.Security.RateLimit.MaxPerMinute = 120
	}
	if cfg.Security.RateLimit.BanDuration == 0 {
		cfg.Security.RateLimit.BanDuration = 300
	}
	if cfg.Security.MessageLimit.MaxPerSecond == 0 {
		cfg.Security.MessageLimit.MaxPerSecond = 30
	}
}

// Default 返回默认配置：单节点自控四席
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
