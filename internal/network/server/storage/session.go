package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	sessionKeyPrefix = "session:"

	// 会话过期时间，掉线超过该时长后座位绑定失效
	sessionExpiration = 2 * time.Hour
)

// ErrSessionNotFound 会话不存在
var ErrSessionNotFound = errors.New("storage: 会话不存在")

// Session 一个远端身份的会话数据
type Session struct {
	Identity       string `json:"identity"`
	ReconnectToken string `json:"reconnect_token"`
	Position       string `json:"position,omitempty"` // 入座后绑定的座位
	Online         bool   `json:"online"`
	CreatedAt      int64  `json:"created_at"`
}

// SessionStore 基于 Redis 的会话存储
// 重连令牌与身份→座位绑定在连接断开后仍然有效
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(identity string) string {
	return sessionKeyPrefix + identity
}

// CreateSession 为身份创建会话并签发重连令牌
func (s *SessionStore) CreateSession(ctx context.Context, identity string) (string, error) {
	session := Session{
		Identity:       identity,
		ReconnectToken: uuid.New().String(),
		Online:         true,
		CreatedAt:      time.Now().Unix(),
	}
	if err := s.save(ctx, &session); err != nil {
		return "", err
	}
	return session.ReconnectToken, nil
}

// Get 读取身份的会话
func (s *SessionStore) Get(ctx context.Context, identity string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(identity)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取会话失败: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("解析会话数据失败: %w", err)
	}
	return &session, nil
}

// CanReconnect 校验重连令牌是否匹配该身份
func (s *SessionStore) CanReconnect(ctx context.Context, token, identity string) bool {
	session, err := s.Get(ctx, identity)
	if err != nil {
		return false
	}
	return token != "" && session.ReconnectToken == token
}

// BindSeat 记录身份入座后的座位
func (s *SessionStore) BindSeat(ctx context.Context, identity, position string) error {
	session, err := s.Get(ctx, identity)
	if err != nil {
		return err
	}
	session.Position = position
	return s.save(ctx, session)
}

// SeatOf 返回身份绑定的座位
func (s *SessionStore) SeatOf(ctx context.Context, identity string) (string, bool) {
	session, err := s.Get(ctx, identity)
	if err != nil || session.Position == "" {
		return "", false
	}
	return session.Position, true
}

// SetOnline 标记会话在线
func (s *SessionStore) SetOnline(ctx context.Context, identity string) error {
	return s.setOnline(ctx, identity, true)
}

// SetOffline 标记会话离线，重连令牌继续有效
func (s *SessionStore) SetOffline(ctx context.Context, identity string) error {
	return s.setOnline(ctx, identity, false)
}

func (s *SessionStore) setOnline(ctx context.Context, identity string, online bool) error {
	session, err := s.Get(ctx, identity)
	if err != nil {
		return err
	}
	session.Online = online
	return s.save(ctx, session)
}

// Delete 删除身份的会话
func (s *SessionStore) Delete(ctx context.Context, identity string) error {
	return s.client.Del(ctx, sessionKey(identity)).Err()
}

func (s *SessionStore) save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化会话数据失败: %w", err)
	}
	return s.client.Set(ctx, sessionKey(session.Identity), data, sessionExpiration).Err()
}
