package table

import (
	"log"
	"sync"

	"github.com/zhouqilin/bridge-table/internal/game"
	"github.com/zhouqilin/bridge-table/internal/game/card"
	"github.com/zhouqilin/bridge-table/internal/game/score"
	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

// Config 牌桌配置
type Config struct {
	SelfSeats  []game.Position // 本节点控制的座位
	LeaderSeat game.Position   // 洗牌公布的首席座位

	// CardServer 非空时启用牌张服务器协议，整副牌交由外部
	// 密码学引擎管理，不再有明文公布
	CardServer CardServerSender
}

// Table 牌桌，把访问控制、牌张协议与引擎编排在一起
//
// 处理器的调用经互斥锁串行化后进入引擎，引擎及访问控制层自身
// 不加锁（单一命令处理上下文）
type Table struct {
	mu          sync.Mutex
	control     *NodeControl
	manager     game.CardManager
	proxy       *CardServerProxy      // 牌张服务器协议下非空
	peerless    *PeerlessCardProtocol // 简单牌张协议下非空
	gameManager *score.DuplicateGameManager
	engine      *game.BridgeEngine
	protocol    CardProtocol
	publisher   Publisher
}

// New 创建牌桌并接好引擎事件到发布通道的转发
func New(cfg Config, publisher Publisher) *Table {
	control := NewNodeControl(cfg.SelfSeats)
	gameManager := score.NewDuplicateGameManager()

	t := &Table{
		control:     control,
		gameManager: gameManager,
		publisher:   publisher,
	}
	if cfg.CardServer != nil {
		proxy := NewCardServerProxy(cfg.CardServer)
		t.proxy = proxy
		t.manager = proxy
		t.protocol = cardServerCardProtocol{}
	} else {
		manager := game.NewSimpleCardManager()
		t.manager = manager
		// 牌张协议要先于引擎订阅洗牌通知：首席节点在引擎看到完成
		// 通知之前就得把整副牌喂进管理器
		t.peerless = NewPeerlessCardProtocol(manager, control, cfg.LeaderSeat)
		t.protocol = t.peerless
	}
	t.engine = game.NewBridgeEngine(t.manager, gameManager)
	t.subscribeEngine()
	return t
}

// AttachPeerSender 接上对等投递通道，首席节点经它发布整副牌
// 牌张服务器协议下没有明文的整副牌，调用是空操作
func (t *Table) AttachPeerSender(sender PeerSender) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.peerless != nil {
		t.peerless.peers = sender
	}
}

// HandleShuffleCompleted 牌张服务器回报洗牌完成，其他协议下忽略
func (t *Table) HandleShuffleCompleted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.proxy != nil {
		t.proxy.HandleShuffleCompleted()
	}
}

// HandleRevealCompleted 牌张服务器回报翻牌结果，其他协议下忽略
func (t *Table) HandleRevealCompleted(indexes []int, cards []card.Card) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.proxy != nil {
		t.proxy.HandleRevealCompleted(indexes, cards)
	}
}

// Engine 返回底层引擎，只在测试中使用
func (t *Table) Engine() *game.BridgeEngine {
	return t.engine
}

// subscribeEngine 把引擎事件转发为协议消息
func (t *Table) subscribeEngine() {
	t.engine.SubscribeDealStarted(func(e game.DealStarted) {
		t.publish(protocol.MsgDealStarted, protocol.DealStartedPayload{
			Deal:          e.Deal.String(),
			Opener:        e.Opener.String(),
			Vulnerability: protocol.FromVulnerability(e.Vulnerability),
		})
	})
	t.engine.SubscribeTurnStarted(func(e game.TurnStarted) {
		t.publish(protocol.MsgTurn, protocol.TurnPayload{
			Deal:     e.Deal.String(),
			Position: e.Position.String(),
		})
	})
	t.engine.SubscribeCallMade(func(e game.CallMade) {
		t.publish(protocol.MsgCallMade, protocol.CallMadePayload{
			Deal:     e.Deal.String(),
			Position: e.Position.String(),
			Call:     protocol.FromCall(e.Call),
		})
	})
	t.engine.SubscribeBiddingCompleted(func(e game.BiddingCompleted) {
		t.publish(protocol.MsgBiddingCompleted, protocol.BiddingCompletedPayload{
			Deal:     e.Deal.String(),
			Declarer: e.Declarer.String(),
			Contract: protocol.FromContract(e.Contract),
		})
	})
	t.engine.SubscribeTrickStarted(func(e game.TrickStarted) {
		t.publish(protocol.MsgTrickStarted, protocol.TrickStartedPayload{
			Deal:   e.Deal.String(),
			Leader: e.Leader.String(),
		})
	})
	t.engine.SubscribeCardPlayed(func(e game.CardPlayed) {
		t.publish(protocol.MsgCardPlayed, protocol.CardPlayedPayload{
			Deal:     e.Deal.String(),
			Position: e.Position.String(),
			Card:     protocol.FromCard(e.Card),
		})
	})
	t.engine.SubscribeTrickCompleted(func(e game.TrickCompleted) {
		t.publish(protocol.MsgTrickCompleted, protocol.TrickCompletedPayload{
			Deal:   e.Deal.String(),
			Cards:  protocol.FromPlayedCards(e.Cards),
			Winner: e.Winner.String(),
		})
	})
	t.engine.SubscribeDummyRevealed(func(e game.DummyRevealed) {
		t.publish(protocol.MsgDummyRevealed, protocol.DummyRevealedPayload{
			Deal:     e.Deal.String(),
			Position: e.Position.String(),
			Cards:    protocol.FromCards(e.Cards),
		})
	})
	t.engine.SubscribeDealEnded(func(e game.DealEnded) {
		t.publish(protocol.MsgDealEnded, protocol.DealEndedPayload{
			Deal:   e.Deal.String(),
			Result: protocol.FromDealScore(e.Result),
		})
		// 复式牌局永不结束，一副打完紧接着开下一副
		t.engine.StartDeal()
	})
}

func (t *Table) publish(msgType protocol.MessageType, payload any) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		log.Printf("事件编码失败: %v", err)
		return
	}
	t.publisher.Publish(msg)
}

// Join 客户端入座，position 为空时按配置顺序分配
func (t *Table) Join(identity, position string) (*protocol.JoinedPayload, *TableError) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var seat game.Position
	var ok bool
	if position == "" {
		seat, ok = t.control.AddClient(identity)
	} else {
		requested, err := game.PositionFromName(position)
		if err != nil {
			return nil, ErrInvalidMsg
		}
		seat, ok = t.control.AddClientAt(identity, requested)
	}
	if !ok {
		return nil, ErrSeatTaken
	}

	t.publish(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Identity: identity,
		Position: seat.String(),
	})
	t.maybeStartDeal()

	return &protocol.JoinedPayload{Identity: identity, Position: seat.String()}, nil
}

// AddPeer 对等节点握手并认领座位集合
func (t *Table) AddPeer(identity string, positions []string) (*protocol.PeerAcceptedPayload, *TableError) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seats := make([]game.Position, 0, len(positions))
	for _, name := range positions {
		seat, err := game.PositionFromName(name)
		if err != nil {
			return nil, ErrInvalidMsg
		}
		seats = append(seats, seat)
	}
	if !t.control.AddPeer(identity, seats) {
		return nil, ErrSeatsOverlap
	}

	t.maybeStartDeal()

	return &protocol.PeerAcceptedPayload{Identity: identity, Positions: positions}, nil
}

// maybeStartDeal 四个座位全部有主且本节点座位都有客户端驱动时开局
// 引擎只在空闲状态响应开局，重复调用无害
func (t *Table) maybeStartDeal() {
	all := game.Positions()
	if !t.control.ArePositionsControlled(all[:]) {
		return
	}
	if !t.control.AreSelfSeatsAssigned() {
		return
	}
	t.engine.StartDeal()
}

// actingSeat 解析请求身份要以哪个座位行动
func (t *Table) actingSeat(identity, position string) (game.Position, *TableError) {
	if position != "" {
		seat, err := game.PositionFromName(position)
		if err != nil {
			return 0, ErrInvalidMsg
		}
		if !t.control.IsAllowedToAct(identity, seat) {
			return 0, ErrNotYourSeat
		}
		return seat, nil
	}
	seat, ok := t.control.GetPosition(identity)
	if !ok {
		if t.control.IsRegistered(identity) {
			// 多座位的对等节点必须显式给出座位
			return 0, ErrNotYourSeat
		}
		return 0, ErrNotJoined
	}
	return seat, nil
}

// Call 以身份对应的座位作一次喊叫
func (t *Table) Call(identity string, payload *protocol.CallPayload) *TableError {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat, terr := t.actingSeat(identity, payload.Position)
	if terr != nil {
		return terr
	}
	call, err := protocol.ToCall(payload.Call)
	if err != nil {
		return ErrInvalidCall
	}
	if _, ok := t.engine.DealID(); !ok {
		return ErrTableNotReady
	}
	if phase, ok := t.engine.Phase(); !ok || phase != game.PhaseBidding {
		return ErrNoDeal
	}
	if inTurn, ok := t.engine.PositionInTurn(); !ok || inTurn != seat {
		return ErrNotYourTurn
	}
	if !t.engine.Call(seat, call) {
		return ErrInvalidCall
	}
	return nil
}

// Play 以身份对应的座位出一张牌，轮到明手时由庄家出
func (t *Table) Play(identity string, payload *protocol.PlayPayload) *TableError {
	t.mu.Lock()
	defer t.mu.Unlock()

	player, terr := t.actingSeat(identity, payload.Position)
	if terr != nil {
		return terr
	}
	if _, ok := t.engine.DealID(); !ok {
		return ErrTableNotReady
	}
	hand, ok := t.engine.HandPositionInTurn()
	if !ok {
		return ErrNoDeal
	}
	if inTurn, ok := t.engine.PositionInTurn(); !ok || inTurn != player {
		return ErrNotYourTurn
	}

	n, terr := t.resolveSlot(hand, payload)
	if terr != nil {
		return terr
	}
	if !t.engine.Play(player, hand, n) {
		return ErrInvalidPlay
	}
	return nil
}

// resolveSlot 把出牌请求解析为手牌槽位，牌面与槽位二选一
func (t *Table) resolveSlot(hand game.Position, payload *protocol.PlayPayload) (int, *TableError) {
	switch {
	case payload.Index != nil:
		n := *payload.Index
		h := t.engine.Hand(hand)
		if h == nil || n < 0 || n >= h.NumCards() {
			return 0, ErrInvalidPlay
		}
		return n, nil
	case payload.Card != nil:
		c, err := protocol.ToCard(*payload.Card)
		if err != nil {
			return 0, ErrInvalidPlay
		}
		h := t.engine.Hand(hand)
		if h == nil {
			return 0, ErrNoDeal
		}
		n, ok := h.Find(c)
		if !ok {
			return 0, ErrInvalidPlay
		}
		return n, nil
	}
	return 0, ErrInvalidMsg
}

// Deal 处理远端公布的整副牌
func (t *Table) Deal(identity string, payload *protocol.DealPayload) *TableError {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.control.IsRegistered(identity) {
		return ErrNotJoined
	}
	deck, err := protocol.ToDeck(payload.Cards)
	if err != nil {
		return ErrInvalidDeal
	}
	return t.protocol.AcceptDeal(identity, deck)
}

// SeatOf 返回身份对应的唯一座位名
func (t *Table) SeatOf(identity string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seat, ok := t.control.GetPosition(identity)
	if !ok {
		return "", false
	}
	return seat.String(), true
}
