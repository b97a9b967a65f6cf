package handlers

import (
	"context"
	"log"
	"time"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
	"github.com/zhouqilin/bridge-table/internal/network/server/types"
)

// handlePing 处理心跳
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleReconnect 处理断线重连
// 令牌校验通过后把连接换回原身份，并回放该身份可见的对局状态
func (h *Handler) handleReconnect(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil || payload.Identity == "" || payload.Token == "" {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	store := h.server.GetSessionStore()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if !store.CanReconnect(ctx, payload.Token, payload.Identity) {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeInvalidMsg, "重连令牌无效"))
		return
	}

	// 连接时分配的临时身份作废
	oldIdentity := client.GetIdentity()
	if oldIdentity != payload.Identity {
		h.server.UnregisterClient(oldIdentity)
		client.SetIdentity(payload.Identity)
		h.server.RegisterClient(payload.Identity, client)
	}

	if err := store.SetOnline(ctx, payload.Identity); err != nil {
		log.Printf("会话上线标记失败: %v", err)
	}

	reply := protocol.ReconnectedPayload{Identity: payload.Identity}
	if position, ok := h.server.GetTable().SeatOf(payload.Identity); ok {
		reply.Position = position
		if state, terr := h.server.GetTable().Get(payload.Identity, nil); terr == nil {
			reply.State = state
		}
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgReconnected, reply))
}
