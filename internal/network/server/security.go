package server

import (
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter 连接速率限制器，按来源 IP 统计
type RateLimiter struct {
	requests map[string]*clientRate
	mu       sync.Mutex

	maxPerSecond    int
	maxPerMinute    int
	banDuration     time.Duration
	cleanupInterval time.Duration
}

type clientRate struct {
	secondCount int
	minuteCount int
	lastSecond  time.Time
	lastMinute  time.Time
	bannedUntil time.Time
}

// NewRateLimiter 创建连接速率限制器
func NewRateLimiter(maxPerSecond, maxPerMinute int, banDuration time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests:        make(map[string]*clientRate),
		maxPerSecond:    maxPerSecond,
		maxPerMinute:    maxPerMinute,
		banDuration:     banDuration,
		cleanupInterval: 5 * time.Minute,
	}
	go rl.cleanup()
	return rl
}

// Allow 检查是否允许来自该 IP 的新连接
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rate, exists := rl.requests[ip]
	if !exists {
		rl.requests[ip] = &clientRate{
			secondCount: 1,
			minuteCount: 1,
			lastSecond:  now,
			lastMinute:  now,
		}
		return true
	}

	if now.Before(rate.bannedUntil) {
		return false
	}

	if now.Sub(rate.lastSecond) >= time.Second {
		rate.secondCount = 0
		rate.lastSecond = now
	}
	if now.Sub(rate.lastMinute) >= time.Minute {
		rate.minuteCount = 0
		rate.lastMinute = now
	}

	rate.secondCount++
	rate.minuteCount++

	if rate.secondCount > rl.maxPerSecond || rate.minuteCount > rl.maxPerMinute {
		rate.bannedUntil = now.Add(rl.banDuration)
		log.Printf("⚠️ IP %s 因连接过于频繁被暂时封禁 %v", ip, rl.banDuration)
		return false
	}
	return true
}

// cleanup 清理长时间没有请求的记录
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, rate := range rl.requests {
			if now.Sub(rate.lastMinute) > 10*time.Minute && now.After(rate.bannedUntil) {
				delete(rl.requests, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// --- 消息速率限制 ---

// MessageRateLimiter 已连接客户端的消息速率限制器
type MessageRateLimiter struct {
	limits map[string]*messageRate
	mu     sync.Mutex

	maxPerSecond int
}

type messageRate struct {
	count     int
	lastReset time.Time
	warnings  int
}

// NewMessageRateLimiter 创建消息速率限制器
func NewMessageRateLimiter(maxPerSecond int) *MessageRateLimiter {
	return &MessageRateLimiter{
		limits:       make(map[string]*messageRate),
		maxPerSecond: maxPerSecond,
	}
}

// AllowMessage 检查身份是否允许再发一条消息
func (ml *MessageRateLimiter) AllowMessage(identity string) bool {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := time.Now()
	rate, exists := ml.limits[identity]
	if !exists {
		ml.limits[identity] = &messageRate{count: 1, lastReset: now}
		return true
	}

	if now.Sub(rate.lastReset) >= time.Second {
		rate.count = 1
		rate.lastReset = now
		return true
	}

	rate.count++
	if rate.count > ml.maxPerSecond {
		rate.warnings++
		return false
	}
	return true
}

// WarningCount 返回身份的超速次数
func (ml *MessageRateLimiter) WarningCount(identity string) int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	rate, exists := ml.limits[identity]
	if !exists {
		return 0
	}
	return rate.warnings
}

// Forget 清除身份的限速记录
func (ml *MessageRateLimiter) Forget(identity string) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	delete(ml.limits, identity)
}

// --- 来源验证 ---

// OriginChecker 来源验证器
type OriginChecker struct {
	allowedOrigins map[string]bool
	allowAll       bool
}

// NewOriginChecker 创建来源验证器
func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{
		allowedOrigins: make(map[string]bool),
	}
	for _, origin := range origins {
		if origin == "*" {
			oc.allowAll = true
			return oc
		}
		oc.allowedOrigins[strings.ToLower(origin)] = true
	}
	return oc
}

// Check 检查请求来源是否允许
func (oc *OriginChecker) Check(r *http.Request) bool {
	if oc.allowAll {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		// 没有 Origin 头，同源请求或非浏览器客户端
		return true
	}
	return oc.allowedOrigins[strings.ToLower(origin)]
}

// GetClientIP 获取客户端真实 IP
func GetClientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
