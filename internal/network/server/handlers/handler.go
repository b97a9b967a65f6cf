package handlers

import (
	"log"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
	"github.com/zhouqilin/bridge-table/internal/network/server/types"
)

// Handler 消息处理器，按消息类型分发
type Handler struct {
	server types.ServerContext
}

// NewHandler 创建消息处理器
func NewHandler(server types.ServerContext) *Handler {
	return &Handler{server: server}
}

// Handle 处理一条入站消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgPing:
		h.handlePing(client, msg)
	case protocol.MsgReconnect:
		h.handleReconnect(client, msg)
	case protocol.MsgJoin:
		h.handleJoin(client, msg)
	case protocol.MsgPeer:
		h.handlePeer(client, msg)
	case protocol.MsgLeave:
		h.handleLeave(client, msg)
	case protocol.MsgCall:
		h.handleCall(client, msg)
	case protocol.MsgPlay:
		h.handlePlay(client, msg)
	case protocol.MsgDeal:
		h.handleDeal(client, msg)
	case protocol.MsgGet:
		h.handleGet(client, msg)
	default:
		log.Printf("未知消息类型: %s", msg.Type)
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
	}
}

// sendTableError 将牌桌错误转换为错误消息下发
func sendTableError(client types.ClientInterface, err *types.TableError) {
	client.SendMessage(protocol.NewErrorMessageWithText(err.Code, err.Message))
}

// sendAck 确认命令已被接受，对等节点据此推进投递队列
func sendAck(client types.ClientInterface, msgType protocol.MessageType) {
	client.SendMessage(protocol.MustNewMessage(protocol.MsgAck, protocol.AckPayload{Type: msgType}))
}
