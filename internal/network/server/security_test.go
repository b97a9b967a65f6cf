package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(5, 100, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "第 %d 次连接应被允许", i+1)
	}
}

func TestRateLimiter_BansOnBurst(t *testing.T) {
	rl := NewRateLimiter(3, 100, time.Minute)

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("1.2.3.4"))
	}
	assert.False(t, rl.Allow("1.2.3.4"))

	// 封禁期内持续拒绝
	assert.False(t, rl.Allow("1.2.3.4"))

	// 其他 IP 不受影响
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestMessageRateLimiter(t *testing.T) {
	ml := NewMessageRateLimiter(3)

	for i := 0; i < 3; i++ {
		require.True(t, ml.AllowMessage("alice"))
	}
	assert.False(t, ml.AllowMessage("alice"))
	assert.False(t, ml.AllowMessage("alice"))
	assert.Equal(t, 2, ml.WarningCount("alice"))

	// 互不影响
	assert.True(t, ml.AllowMessage("bob"))
	assert.Equal(t, 0, ml.WarningCount("bob"))

	ml.Forget("alice")
	assert.Equal(t, 0, ml.WarningCount("alice"))
	assert.True(t, ml.AllowMessage("alice"))
}

func TestOriginChecker(t *testing.T) {
	oc := NewOriginChecker([]string{"https://bridge.example.com"})

	allowed := &http.Request{Header: http.Header{"Origin": []string{"https://bridge.example.com"}}}
	assert.True(t, oc.Check(allowed))

	denied := &http.Request{Header: http.Header{"Origin": []string{"https://evil.example.com"}}}
	assert.False(t, oc.Check(denied))

	// 非浏览器客户端没有 Origin 头
	noOrigin := &http.Request{Header: http.Header{}}
	assert.True(t, oc.Check(noOrigin))

	wildcard := NewOriginChecker([]string{"*"})
	assert.True(t, wildcard.Check(denied))
}

func TestGetClientIP(t *testing.T) {
	r := &http.Request{
		RemoteAddr: "10.0.0.1:43210",
		Header:     http.Header{},
	}
	assert.Equal(t, "10.0.0.1", GetClientIP(r))

	r.Header.Set("X-Real-IP", "9.9.9.9")
	assert.Equal(t, "9.9.9.9", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2")
	assert.Equal(t, "1.1.1.1", GetClientIP(r))
}
