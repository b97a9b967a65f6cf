// Package peer 把本节点与其他桥牌节点连成对等网络。
//
// 桥接器以普通客户端身份连上本节点接收广播，同时以对等节点身份
// 连上每个远端节点并认领本节点的自有座位。本地自有座位产生的
// 喊叫与出牌、以及首席节点的整副牌公布，经一条可靠投递队列发往
// 所有远端节点；远端座位的动作由对方的桥接器直接发到本节点，
// 不经过这里。
package peer

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/zhouqilin/bridge-table/internal/network/client"
	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

// 失败重发的退避区间
const (
	initialResendDelay = 50 * time.Millisecond
	maxResendDelay     = time.Minute
)

// MessageSender 可发送协议消息的连接
type MessageSender interface {
	SendMessage(msg *protocol.Message) error
}

// peerLink 一条对等连接及队首命令在它上面的投递状态
type peerLink struct {
	sender      MessageSender
	acked       bool
	resendDelay time.Duration
}

// Bridge 对等网络桥接器
//
// 发往远端的命令进入一条先进先出队列：队首命令发给全部对等
// 连接，被某个节点拒绝时按指数退避向该节点重发，全部节点确认
// 后才轮到下一条。先确立的命令因此先在每个远端生效
type Bridge struct {
	selfSeats map[string]bool

	// 当前一副牌的庄家与明手，从广播事件中跟踪
	declarer string
	dummy    string

	local *client.Client

	mu    sync.Mutex
	links []*peerLink
	queue []*protocol.Message
}

// partnerOf 对家座位
var partnerOf = map[string]string{
	"north": "south",
	"south": "north",
	"east":  "west",
	"west":  "east",
}

// NewBridge 创建桥接器，selfSeats 为本节点的自有座位
func NewBridge(selfSeats []string) *Bridge {
	seats := make(map[string]bool, len(selfSeats))
	for _, seat := range selfSeats {
		seats[seat] = true
	}
	return &Bridge{selfSeats: seats}
}

// AddPeer 连接一个远端节点并认领本节点的自有座位
func (b *Bridge) AddPeer(addr string) error {
	c := client.NewClient(fmt.Sprintf("ws://%s/ws", addr))
	link := &peerLink{sender: c, resendDelay: initialResendDelay}
	c.OnMessage = func(msg *protocol.Message) {
		b.handlePeerReply(link, msg)
	}

	if err := c.Connect(); err != nil {
		return fmt.Errorf("连接对等节点 %s 失败: %w", addr, err)
	}

	seats := make([]string, 0, len(b.selfSeats))
	for seat := range b.selfSeats {
		seats = append(seats, seat)
	}
	if err := c.Peer(seats); err != nil {
		c.Close()
		return fmt.Errorf("对等握手 %s 失败: %w", addr, err)
	}

	c.StartHeartbeat()
	b.mu.Lock()
	b.links = append(b.links, link)
	b.mu.Unlock()
	return nil
}

// AddPeerSender 登记一个已建立的对等连接，测试用
func (b *Bridge) AddPeerSender(sender MessageSender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.links = append(b.links, &peerLink{sender: sender, resendDelay: initialResendDelay})
}

// Start 连上本地节点并开始转发广播
func (b *Bridge) Start(localURL string) error {
	b.local = client.NewClient(localURL)
	b.local.OnMessage = b.HandleLocalEvent
	if err := b.local.Connect(); err != nil {
		return fmt.Errorf("连接本地节点失败: %w", err)
	}
	b.local.StartHeartbeat()
	return nil
}

// Close 断开全部连接
func (b *Bridge) Close() {
	if b.local != nil {
		b.local.Close()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, link := range b.links {
		if c, ok := link.sender.(*client.Client); ok {
			c.Close()
		}
	}
}

// SendToPeers 把一条命令排入投递队列，重发直到全部对等节点确认
func (b *Bridge) SendToPeers(msg *protocol.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.links) == 0 {
		return
	}
	b.queue = append(b.queue, msg)
	if len(b.queue) == 1 {
		b.sendHeadLocked()
	}
}

// sendHeadLocked 把队首命令发给全部对等连接
func (b *Bridge) sendHeadLocked() {
	for _, link := range b.links {
		link.acked = false
		link.resendDelay = initialResendDelay
		b.sendToLinkLocked(link)
	}
}

func (b *Bridge) sendToLinkLocked(link *peerLink) {
	if err := link.sender.SendMessage(b.queue[0]); err != nil {
		log.Printf("发送 %s 给对等节点失败: %v", b.queue[0].Type, err)
		b.scheduleResendLocked(link)
	}
}

// scheduleResendLocked 按当前退避延迟安排一次重发并把延迟翻倍
func (b *Bridge) scheduleResendLocked(link *peerLink) {
	delay := link.resendDelay
	if next := 2 * delay; next < maxResendDelay {
		link.resendDelay = next
	} else {
		link.resendDelay = maxResendDelay
	}
	time.AfterFunc(delay, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if len(b.queue) == 0 || link.acked {
			return
		}
		b.sendToLinkLocked(link)
	})
}

// handlePeerReply 处理对等连接上的命令回执，推进投递队列
func (b *Bridge) handlePeerReply(link *peerLink, msg *protocol.Message) {
	switch msg.Type {
	case protocol.MsgAck:
		payload, err := protocol.ParsePayload[protocol.AckPayload](msg)
		if err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if len(b.queue) == 0 || payload.Type != b.queue[0].Type || link.acked {
			return
		}
		link.acked = true
		for _, l := range b.links {
			if !l.acked {
				return
			}
		}
		b.queue = b.queue[1:]
		if len(b.queue) > 0 {
			b.sendHeadLocked()
		}

	case protocol.MsgError:
		// 命令被拒绝多半是远端状态还没跟上，退避后重发
		b.mu.Lock()
		defer b.mu.Unlock()
		if len(b.queue) == 0 || link.acked {
			return
		}
		b.scheduleResendLocked(link)
	}
}

// HandleLocalEvent 把本地广播中属于自有座位的动作转发给远端节点
func (b *Bridge) HandleLocalEvent(msg *protocol.Message) {
	if forward := b.translate(msg); forward != nil {
		b.SendToPeers(forward)
	}
}

// translate 把广播事件翻译为发给远端的命令，无需转发时返回 nil
func (b *Bridge) translate(msg *protocol.Message) *protocol.Message {
	switch msg.Type {
	case protocol.MsgDealStarted:
		b.declarer, b.dummy = "", ""
		return nil

	case protocol.MsgBiddingCompleted:
		payload, err := protocol.ParsePayload[protocol.BiddingCompletedPayload](msg)
		if err == nil {
			b.declarer = payload.Declarer
			b.dummy = partnerOf[payload.Declarer]
		}
		return nil

	case protocol.MsgCallMade:
		payload, err := protocol.ParsePayload[protocol.CallMadePayload](msg)
		if err != nil || !b.selfSeats[payload.Position] {
			return nil
		}
		return protocol.MustNewMessage(protocol.MsgCall, protocol.CallPayload{
			Position: payload.Position,
			Call:     payload.Call,
		})

	case protocol.MsgCardPlayed:
		payload, err := protocol.ParsePayload[protocol.CardPlayedPayload](msg)
		if err != nil {
			return nil
		}
		// 明手的牌由庄家出，转发时署庄家的座位
		acting := payload.Position
		if acting == b.dummy && b.declarer != "" {
			acting = b.declarer
		}
		if !b.selfSeats[acting] {
			return nil
		}
		card := payload.Card
		return protocol.MustNewMessage(protocol.MsgPlay, protocol.PlayPayload{
			Position: acting,
			Card:     &card,
		})
	}
	return nil
}
