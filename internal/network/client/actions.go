package client

import (
	"errors"
	"time"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

// Join 申请入座，position 为空时由节点按配置顺序分配
func (c *Client) Join(position string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgJoin, protocol.JoinPayload{
		Position: position,
	}))
}

// Peer 以对等节点身份认领一组座位
func (c *Client) Peer(positions []string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPeer, protocol.PeerPayload{
		Positions: positions,
	}))
}

// Leave 离座
func (c *Client) Leave() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgLeave, nil))
}

// Call 喊叫
func (c *Client) Call(call protocol.CallInfo) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgCall, protocol.CallPayload{
		Call: call,
	}))
}

// Pass 不叫
func (c *Client) Pass() error {
	return c.Call(protocol.CallInfo{Type: "pass"})
}

// Bid 叫牌
func (c *Client) Bid(level int, strain string) error {
	return c.Call(protocol.CallInfo{
		Type: "bid",
		Bid:  &protocol.BidInfo{Level: level, Strain: strain},
	})
}

// Double 加倍
func (c *Client) Double() error {
	return c.Call(protocol.CallInfo{Type: "double"})
}

// Redouble 再加倍
func (c *Client) Redouble() error {
	return c.Call(protocol.CallInfo{Type: "redouble"})
}

// PlayCard 按牌面出牌
func (c *Client) PlayCard(card protocol.CardInfo) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPlay, protocol.PlayPayload{
		Card: &card,
	}))
}

// PlayIndex 按手牌槽位出牌
func (c *Client) PlayIndex(index int) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPlay, protocol.PlayPayload{
		Index: &index,
	}))
}

// Deal 以首席节点身份公布整副牌
func (c *Client) Deal(cards []protocol.CardInfo) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgDeal, protocol.DealPayload{
		Cards: cards,
	}))
}

// Get 查询对局状态，keys 为空时返回全部可见状态
func (c *Client) Get(keys ...string) error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgGet, protocol.GetPayload{
		Keys: keys,
	}))
}

// Ping 发送心跳
func (c *Client) Ping() error {
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: time.Now().UnixMilli(),
	}))
}

// Reconnect 手动发送重连请求
func (c *Client) Reconnect() error {
	if c.ReconnectToken == "" || c.Identity == "" {
		return errors.New("no reconnect token")
	}
	return c.SendMessage(protocol.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    c.ReconnectToken,
		Identity: c.Identity,
	}))
}
