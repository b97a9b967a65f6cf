package handlers

import (
	"context"
	"log"
	"time"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
	"github.com/zhouqilin/bridge-table/internal/network/server/types"
)

// handleJoin 处理客户端入座
func (h *Handler) handleJoin(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	identity := client.GetIdentity()
	joined, terr := h.server.GetTable().Join(identity, payload.Position)
	if terr != nil {
		sendTableError(client, terr)
		return
	}

	// 座位写入会话，供断线重连恢复
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := h.server.GetSessionStore().BindSeat(ctx, identity, joined.Position); err != nil {
		log.Printf("座位绑定会话失败: %v", err)
	}
	cancel()

	client.SendMessage(protocol.MustNewMessage(protocol.MsgJoined, joined))
}

// handlePeer 处理对等节点握手
func (h *Handler) handlePeer(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PeerPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	accepted, terr := h.server.GetTable().AddPeer(client.GetIdentity(), payload.Positions)
	if terr != nil {
		sendTableError(client, terr)
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgPeerAccepted, accepted))
}

// handleLeave 处理离座
// 座位登记保留，离线者重连后仍坐在原位
func (h *Handler) handleLeave(client types.ClientInterface, msg *protocol.Message) {
	client.Close()
}

// handleCall 处理喊叫
func (h *Handler) handleCall(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.CallPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if terr := h.server.GetTable().Call(client.GetIdentity(), payload); terr != nil {
		sendTableError(client, terr)
		return
	}
	sendAck(client, msg.Type)
}

// handlePlay 处理出牌
func (h *Handler) handlePlay(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PlayPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if terr := h.server.GetTable().Play(client.GetIdentity(), payload); terr != nil {
		sendTableError(client, terr)
		return
	}
	sendAck(client, msg.Type)
}

// handleDeal 处理首席节点公布的整副牌
func (h *Handler) handleDeal(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.DealPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	if terr := h.server.GetTable().Deal(client.GetIdentity(), payload); terr != nil {
		sendTableError(client, terr)
		return
	}
	sendAck(client, msg.Type)
}

// handleGet 处理状态查询
func (h *Handler) handleGet(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.GetPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	reply, terr := h.server.GetTable().Get(client.GetIdentity(), payload.Keys)
	if terr != nil {
		sendTableError(client, terr)
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgGetReply, reply))
}
