package table

import (
	"fmt"
	"log"

	"github.com/zhouqilin/bridge-table/internal/game"
	"github.com/zhouqilin/bridge-table/internal/game/card"
	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

// Publisher 向所有已连接身份发布事件消息
type Publisher interface {
	Publish(msg *protocol.Message)
}

// PeerSender 把命令送达全部对等节点，并重发直到各节点确认
type PeerSender interface {
	SendToPeers(msg *protocol.Message)
}

// CardProtocol 牌张交换协议，决定洗好的整副牌如何在节点间产生与分发
type CardProtocol interface {
	// AcceptDeal 处理远端身份公布的整副牌
	AcceptDeal(identity string, deck card.Deck) *TableError
}

// PeerlessCardProtocol 无密码学的简单牌张协议
//
// 首席座位所在的节点在洗牌请求到来时生成整副牌，喂给本地的
// SimpleCardManager 并以 deal 命令发往对等节点；其余节点只在
// 洗牌待决期间接受来自首席座位控制者的公布。整副牌只在节点
// 之间传递，客户端永远看不到别家的暗牌
type PeerlessCardProtocol struct {
	manager    *game.SimpleCardManager
	control    *NodeControl
	peers      PeerSender // 无对等节点时为 nil
	leaderSeat game.Position
	pending    bool
}

// NewPeerlessCardProtocol 创建简单牌张协议
func NewPeerlessCardProtocol(manager *game.SimpleCardManager, control *NodeControl, leaderSeat game.Position) *PeerlessCardProtocol {
	p := &PeerlessCardProtocol{
		manager:    manager,
		control:    control,
		leaderSeat: leaderSeat,
	}
	manager.Subscribe(func(state game.ShuffleState) {
		switch state {
		case game.ShuffleRequested:
			p.pending = true
			p.onShuffleRequested()
		case game.ShuffleCompleted:
			p.pending = false
		}
	})
	return p
}

// IsLeader 判断本节点是否为首席（首席座位由本节点控制）
func (p *PeerlessCardProtocol) IsLeader() bool {
	return p.control.IsSelfSeat(p.leaderSeat)
}

// onShuffleRequested 首席节点生成整副牌并发往对等节点
func (p *PeerlessCardProtocol) onShuffleRequested() {
	if !p.IsLeader() {
		return
	}
	deck := card.NewDeck()
	deck.Shuffle()
	if err := p.manager.Shuffle(deck); err != nil {
		log.Printf("洗牌失败: %v", err)
		return
	}
	if p.peers != nil {
		p.peers.SendToPeers(protocol.MustNewMessage(protocol.MsgDeal, protocol.DealPayload{
			Cards: protocol.FromCards(deck),
		}))
	}
}

// AcceptDeal 非首席节点接受首席公布的整副牌
func (p *PeerlessCardProtocol) AcceptDeal(identity string, deck card.Deck) *TableError {
	if p.IsLeader() {
		// 本节点自己公布，不接受外来的
		return ErrInvalidDeal
	}
	if !p.pending {
		return ErrInvalidDeal
	}
	if !p.control.IsAllowedToAct(identity, p.leaderSeat) {
		return ErrNotYourSeat
	}
	if err := p.manager.Shuffle(deck); err != nil {
		return ErrInvalidDeal
	}
	return nil
}

// cardServerCardProtocol 牌张服务器协议下没有明文的整副牌公布
type cardServerCardProtocol struct{}

func (cardServerCardProtocol) AcceptDeal(identity string, deck card.Deck) *TableError {
	return ErrInvalidDeal
}

// CardServerSender 向外部牌张服务器发送命令
type CardServerSender interface {
	SendShuffleRequest() error
	SendRevealRequest(indexes []int) error
}

// CardServerProxy 牌张服务器代理
//
// 把洗牌与摊牌请求转发给运行密码学牌张协议的外部引擎，其回报经
// HandleShuffleCompleted / HandleRevealCompleted 喂回对局。密码学
// 协议本身对引擎不可见，引擎只看到先请求、后完成的通知
type CardServerProxy struct {
	sender    CardServerSender
	state     game.ShuffleState
	cards     []*card.Card // 下标即整副牌下标，nil 表示本节点尚不可见
	hands     []*game.Hand
	observers []game.ShuffleObserver
}

// NewCardServerProxy 创建牌张服务器代理
func NewCardServerProxy(sender CardServerSender) *CardServerProxy {
	return &CardServerProxy{
		sender: sender,
		state:  game.ShuffleNotRequested,
		cards:  make([]*card.Card, card.DeckSize),
	}
}

// Subscribe 订阅洗牌状态通知
func (p *CardServerProxy) Subscribe(observer game.ShuffleObserver) {
	p.observers = append(p.observers, observer)
}

// RequestShuffle 请求洗牌，转发给牌张服务器
func (p *CardServerProxy) RequestShuffle() {
	if p.state == game.ShuffleRequested {
		return
	}
	p.state = game.ShuffleRequested
	p.cards = make([]*card.Card, card.DeckSize)
	p.hands = nil
	if err := p.sender.SendShuffleRequest(); err != nil {
		log.Printf("转发洗牌请求失败: %v", err)
	}
	p.notify(game.ShuffleRequested)
}

// HandleShuffleCompleted 牌张服务器回报洗牌完成
func (p *CardServerProxy) HandleShuffleCompleted() {
	if p.state != game.ShuffleRequested {
		return
	}
	p.state = game.ShuffleCompleted
	p.notify(game.ShuffleCompleted)
}

// HandleRevealCompleted 牌张服务器回报摊牌结果
// indexes 与 cards 一一对应，为整副牌下标与翻开的牌面
func (p *CardServerProxy) HandleRevealCompleted(indexes []int, cards []card.Card) {
	if len(indexes) != len(cards) {
		return
	}
	for i, n := range indexes {
		if n < 0 || n >= card.DeckSize {
			return
		}
		c := cards[i]
		p.cards[n] = &c
	}
	for _, h := range p.hands {
		p.revealIfCovered(h, indexes)
	}
}

// revealIfCovered 被翻开的下标落在手牌内时推进该手牌的摊牌
func (p *CardServerProxy) revealIfCovered(h *game.Hand, indexes []int) {
	revealed := make(map[int]bool, len(indexes))
	for _, n := range indexes {
		revealed[n] = true
	}
	ns := make([]int, 0, len(indexes))
	for slot, n := range h.DeckIndexes() {
		if revealed[n] {
			ns = append(ns, slot)
		}
	}
	if len(ns) > 0 {
		h.Reveal(ns)
	}
}

// IsShuffleCompleted 判断洗牌是否完成
func (p *CardServerProxy) IsShuffleCompleted() bool {
	return p.state == game.ShuffleCompleted
}

// NumCards 返回已洗好的牌数
func (p *CardServerProxy) NumCards() int {
	if p.state != game.ShuffleCompleted {
		return 0
	}
	return card.DeckSize
}

// Hand 构造给定整副牌下标的手牌，其摊牌请求转发给牌张服务器
func (p *CardServerProxy) Hand(ns []int) (*game.Hand, error) {
	if p.state != game.ShuffleCompleted {
		return nil, fmt.Errorf("table: 洗牌未完成")
	}
	for _, n := range ns {
		if n < 0 || n >= card.DeckSize {
			return nil, fmt.Errorf("table: 整副牌下标越界: %d", n)
		}
	}
	h := game.NewHand(p, ns)
	h.Subscribe(func(state game.RevealState, slots []int) {
		if state != game.RevealRequested {
			return
		}
		deckIndexes := h.DeckIndexes()
		indexes := make([]int, 0, len(slots))
		for _, slot := range slots {
			indexes = append(indexes, deckIndexes[slot])
		}
		if err := p.sender.SendRevealRequest(indexes); err != nil {
			log.Printf("转发摊牌请求失败: %v", err)
		}
	})
	p.hands = append(p.hands, h)
	return h, nil
}

// CardAt 返回整副牌下标处的牌，对本节点尚不可见时 ok 为 false
func (p *CardServerProxy) CardAt(n int) (card.Card, bool) {
	if n < 0 || n >= card.DeckSize || p.cards[n] == nil {
		return card.Card{}, false
	}
	return *p.cards[n], true
}

func (p *CardServerProxy) notify(state game.ShuffleState) {
	for _, observer := range p.observers {
		observer(state)
	}
}
