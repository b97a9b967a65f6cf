package peer

import (
	"fmt"
	"log"

	"github.com/zhouqilin/bridge-table/internal/game/card"
	"github.com/zhouqilin/bridge-table/internal/network/client"
	"github.com/zhouqilin/bridge-table/internal/network/protocol"
	"github.com/zhouqilin/bridge-table/internal/network/server/table"
)

// CardServerLink 与外部牌张服务器的连接
//
// 实现 table.CardServerSender：把洗牌与翻牌请求发给牌张服务器，
// 收到的完成回报喂回牌桌。密码学协议在服务器一侧，这里只是信使
type CardServerLink struct {
	c *client.Client
}

// NewCardServerLink 创建连接，Connect 之前不可用
func NewCardServerLink(addr string) *CardServerLink {
	return &CardServerLink{
		c: client.NewClient(fmt.Sprintf("ws://%s/ws", addr)),
	}
}

// Connect 建立连接并把回报接到牌桌
func (l *CardServerLink) Connect(t *table.Table) error {
	l.c.OnMessage = func(msg *protocol.Message) {
		l.handleReply(t, msg)
	}
	if err := l.c.Connect(); err != nil {
		return fmt.Errorf("连接牌张服务器失败: %w", err)
	}
	l.c.StartHeartbeat()
	return nil
}

// Close 断开连接
func (l *CardServerLink) Close() {
	l.c.Close()
}

// SendShuffleRequest 请求牌张服务器洗牌
func (l *CardServerLink) SendShuffleRequest() error {
	return l.c.SendMessage(protocol.MustNewMessage(protocol.MsgShuffleRequest, nil))
}

// SendRevealRequest 请求翻开整副牌中给定下标的牌
func (l *CardServerLink) SendRevealRequest(indexes []int) error {
	return l.c.SendMessage(protocol.MustNewMessage(protocol.MsgRevealRequest, protocol.RevealRequestPayload{
		Indexes: indexes,
	}))
}

// handleReply 处理牌张服务器的完成回报
func (l *CardServerLink) handleReply(t *table.Table, msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgShuffleCompleted:
		t.HandleShuffleCompleted()

	case protocol.MsgRevealCompleted:
		payload, err := protocol.ParsePayload[protocol.RevealCompletedPayload](msg)
		if err != nil {
			log.Printf("翻牌回报解析失败: %v", err)
			return
		}
		cards := make([]card.Card, 0, len(payload.Cards))
		for _, info := range payload.Cards {
			c, err := protocol.ToCard(info)
			if err != nil {
				log.Printf("翻牌回报含无效的牌: %v", err)
				return
			}
			cards = append(cards, c)
		}
		t.HandleRevealCompleted(payload.Indexes, cards)
	}
}
