//go:build !production

// Package testutil 提供测试用的连接与会话替身。
package testutil

import (
	"testing"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

// RecordingClient 记录下发消息的 ClientInterface 替身
type RecordingClient struct {
	Identity string
	Messages []*protocol.Message
	Closed   bool
}

func NewRecordingClient(identity string) *RecordingClient {
	return &RecordingClient{Identity: identity}
}

func (c *RecordingClient) GetIdentity() string { return c.Identity }

func (c *RecordingClient) SetIdentity(identity string) { c.Identity = identity }

func (c *RecordingClient) SendMessage(msg *protocol.Message) {
	c.Messages = append(c.Messages, msg)
}

func (c *RecordingClient) Close() { c.Closed = true }

// LastMessage 最后下发的消息，一条都没有时测试失败
func (c *RecordingClient) LastMessage(t *testing.T) *protocol.Message {
	t.Helper()
	if len(c.Messages) == 0 {
		t.Fatal("没有下发任何消息")
	}
	return c.Messages[len(c.Messages)-1]
}
