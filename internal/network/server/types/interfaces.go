package types

import (
	"context"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

// ServerContext 服务器上下文接口 - 避免循环依赖
type ServerContext interface {
	GetTable() TableInterface
	GetSessionStore() SessionStoreInterface
	GetOnlineCount() int
	Publish(msg *protocol.Message)
	GetClientByIdentity(identity string) ClientInterface
	RegisterClient(identity string, client ClientInterface)
	UnregisterClient(identity string)
}

// TableInterface 牌桌接口 - 处理器通过它驱动对局
type TableInterface interface {
	Join(identity, position string) (*protocol.JoinedPayload, *TableError)
	AddPeer(identity string, positions []string) (*protocol.PeerAcceptedPayload, *TableError)
	Call(identity string, payload *protocol.CallPayload) *TableError
	Play(identity string, payload *protocol.PlayPayload) *TableError
	Deal(identity string, payload *protocol.DealPayload) *TableError
	Get(identity string, keys []string) (*protocol.GetReplyPayload, *TableError)
	SeatOf(identity string) (string, bool)
}

// SessionStoreInterface 会话存储接口
type SessionStoreInterface interface {
	CreateSession(ctx context.Context, identity string) (token string, err error)
	CanReconnect(ctx context.Context, token, identity string) bool
	BindSeat(ctx context.Context, identity, position string) error
	SeatOf(ctx context.Context, identity string) (string, bool)
	SetOnline(ctx context.Context, identity string) error
	SetOffline(ctx context.Context, identity string) error
}

// ClientInterface 客户端连接接口
type ClientInterface interface {
	GetIdentity() string
	SetIdentity(identity string)
	SendMessage(msg *protocol.Message)
	Close()
}

// TableError 牌桌错误，协议边界上转换为 MsgError
type TableError struct {
	Code    int
	Message string
}

func (e *TableError) Error() string {
	return e.Message
}
