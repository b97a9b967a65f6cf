package game

import (
	"github.com/google/uuid"

	"github.com/zhouqilin/bridge-table/internal/game/card"
)

// DealPhase 定义一副牌所处的阶段
type DealPhase int

const (
	// PhaseBidding 叫牌阶段
	PhaseBidding DealPhase = iota
	// PhasePlaying 打牌阶段
	PhasePlaying
)

var dealPhaseNames = map[DealPhase]string{
	PhaseBidding: "bidding",
	PhasePlaying: "playing",
}

func (p DealPhase) String() string {
	if name, ok := dealPhaseNames[p]; ok {
		return name
	}
	return "?"
}

// 引擎对外广播的事件，全部携带所属一副牌的标识

// DealStarted 新一副牌开始
type DealStarted struct {
	Deal          uuid.UUID
	Opener        Position
	Vulnerability Vulnerability
}

// TurnStarted 轮到某方行动
// 明手的手牌轮到时该事件携带庄家方位，因为实际决策的是庄家
type TurnStarted struct {
	Deal     uuid.UUID
	Position Position
}

// CallMade 某方作出一次喊叫
type CallMade struct {
	Deal     uuid.UUID
	Position Position
	Call     Call
}

// BiddingCompleted 叫牌结束并产生定约
type BiddingCompleted struct {
	Deal     uuid.UUID
	Declarer Position
	Contract Contract
}

// TrickStarted 新一墩开始
type TrickStarted struct {
	Deal   uuid.UUID
	Leader Position
}

// CardPlayed 某方打出一张牌
type CardPlayed struct {
	Deal     uuid.UUID
	Position Position
	Card     card.Card
}

// TrickCompleted 一墩出满并决出赢方
type TrickCompleted struct {
	Deal   uuid.UUID
	Cards  []PlayedCard
	Winner Position
}

// DummyRevealed 明手摊牌
type DummyRevealed struct {
	Deal     uuid.UUID
	Position Position
	Cards    []card.Card
}

// DealEnded 一副牌结束，流局时 Result.Scored 为 false
type DealEnded struct {
	Deal   uuid.UUID
	Result DealScore
}

// engineState 引擎内部状态
type engineState int

const (
	// stateIdle 两副牌之间的空闲状态
	stateIdle engineState = iota
	// stateShuffling 等待洗牌完成
	stateShuffling
	// stateInBidding 叫牌进行中
	stateInBidding
	// stateSelectingCard 等待当前一家选牌
	stateSelectingCard
	// stateWaitingRevealCard 已提交出牌，等待该牌亮出
	stateWaitingRevealCard
	// stateWaitingRevealDummy 等待明手摊牌
	stateWaitingRevealDummy
	// stateEnded 整场牌局结束
	stateEnded
)

// functionQueue 先进先出的事件队列
// 事件处理过程中触发的后续事件排到队尾，队列在最外层入口返回前
// 清空，保证观察者回调里再触发的事件不会重入正在进行的处理
type functionQueue struct {
	queue    []func()
	draining bool
}

func (q *functionQueue) enqueue(f func()) {
	q.queue = append(q.queue, f)
	if q.draining {
		return
	}
	q.draining = true
	defer func() { q.draining = false }()
	for len(q.queue) > 0 {
		next := q.queue[0]
		q.queue = q.queue[1:]
		next()
	}
}

// committedPlay 已提交但尚未亮出的出牌
type committedPlay struct {
	position Position
	index    int
}

// engineDeal 引擎持有的一副牌的全部状态
type engineDeal struct {
	id      uuid.UUID
	bidding *Bidding
	hands   [NumPositions]*Hand
	tricks  []*Trick
	winners []Position
}

// BridgeEngine 驱动一副接一副的桥牌对局
// 通过 CardManager 抽象拿牌，通过 GameManager 注入结果，
// 对局进展以事件通知观察者
//
// 引擎不做并发保护，所有方法必须在同一个 goroutine 中调用，
// 上层牌桌以自己的锁把各连接的操作串行化后才触达引擎
type BridgeEngine struct {
	cardManager CardManager
	gameManager GameManager
	queue       functionQueue

	state        engineState
	deal         *engineDeal
	dummyVisible bool
	committed    *committedPlay

	dealStarted      []func(DealStarted)
	turnStarted      []func(TurnStarted)
	callMade         []func(CallMade)
	biddingCompleted []func(BiddingCompleted)
	trickStarted     []func(TrickStarted)
	cardPlayed       []func(CardPlayed)
	trickCompleted   []func(TrickCompleted)
	dummyRevealed    []func(DummyRevealed)
	dealEnded        []func(DealEnded)
}

// NewBridgeEngine 创建引擎并挂上洗牌状态观察者
func NewBridgeEngine(cardManager CardManager, gameManager GameManager) *BridgeEngine {
	e := &BridgeEngine{
		cardManager: cardManager,
		gameManager: gameManager,
	}
	cardManager.Subscribe(func(state ShuffleState) {
		if state == ShuffleCompleted && cardManager.NumCards() == card.DeckSize {
			e.queue.enqueue(e.createNewDeal)
		}
	})
	return e
}

// SubscribeDealStarted 订阅新一副牌开始事件
func (e *BridgeEngine) SubscribeDealStarted(f func(DealStarted)) {
	e.dealStarted = append(e.dealStarted, f)
}

// SubscribeTurnStarted 订阅轮次事件
func (e *BridgeEngine) SubscribeTurnStarted(f func(TurnStarted)) {
	e.turnStarted = append(e.turnStarted, f)
}

// SubscribeCallMade 订阅喊叫事件
func (e *BridgeEngine) SubscribeCallMade(f func(CallMade)) {
	e.callMade = append(e.callMade, f)
}

// SubscribeBiddingCompleted 订阅叫牌结束事件
func (e *BridgeEngine) SubscribeBiddingCompleted(f func(BiddingCompleted)) {
	e.biddingCompleted = append(e.biddingCompleted, f)
}

// SubscribeTrickStarted 订阅新一墩开始事件
func (e *BridgeEngine) SubscribeTrickStarted(f func(TrickStarted)) {
	e.trickStarted = append(e.trickStarted, f)
}

// SubscribeCardPlayed 订阅出牌事件
func (e *BridgeEngine) SubscribeCardPlayed(f func(CardPlayed)) {
	e.cardPlayed = append(e.cardPlayed, f)
}

// SubscribeTrickCompleted 订阅一墩结束事件
func (e *BridgeEngine) SubscribeTrickCompleted(f func(TrickCompleted)) {
	e.trickCompleted = append(e.trickCompleted, f)
}

// SubscribeDummyRevealed 订阅明手摊牌事件
func (e *BridgeEngine) SubscribeDummyRevealed(f func(DummyRevealed)) {
	e.dummyRevealed = append(e.dummyRevealed, f)
}

// SubscribeDealEnded 订阅一副牌结束事件
func (e *BridgeEngine) SubscribeDealEnded(f func(DealEnded)) {
	e.dealEnded = append(e.dealEnded, f)
}

// StartDeal 开始新一副牌
// 空闲时触发洗牌，其他状态下无效果；整场牌局已结束时进入终止态
func (e *BridgeEngine) StartDeal() {
	e.queue.enqueue(func() {
		if e.state != stateIdle {
			return
		}
		if e.gameManager.HasEnded() {
			e.state = stateEnded
			return
		}
		e.state = stateShuffling
		e.cardManager.RequestShuffle()
	})
}

// Call 由指定方位作出一次喊叫，是否被接受以返回值表达
func (e *BridgeEngine) Call(position Position, call Call) bool {
	var accepted bool
	e.queue.enqueue(func() {
		accepted = e.handleCall(position, call)
	})
	return accepted
}

// Play 由 player 方从 hand 方的手牌中打出槽位 n 的牌
// 通常 player 与 hand 相同，庄家替明手出牌时 player 为庄家、
// hand 为明手；是否被接受以返回值表达
func (e *BridgeEngine) Play(player, hand Position, n int) bool {
	var accepted bool
	e.queue.enqueue(func() {
		accepted = e.handlePlay(player, hand, n)
	})
	return accepted
}

// HasEnded 判断整场牌局是否结束
func (e *BridgeEngine) HasEnded() bool {
	return e.state == stateEnded
}

// DealID 返回当前一副牌的标识，没有进行中的一副时 ok 为 false
func (e *BridgeEngine) DealID() (uuid.UUID, bool) {
	if e.deal == nil {
		return uuid.UUID{}, false
	}
	return e.deal.id, true
}

// Phase 返回当前一副牌所处的阶段
func (e *BridgeEngine) Phase() (DealPhase, bool) {
	switch e.state {
	case stateInBidding:
		return PhaseBidding, true
	case stateSelectingCard, stateWaitingRevealCard, stateWaitingRevealDummy:
		return PhasePlaying, true
	}
	return 0, false
}

// Bidding 返回当前一副牌的叫牌过程，没有进行中的一副时为 nil
func (e *BridgeEngine) Bidding() *Bidding {
	if e.deal == nil {
		return nil
	}
	return e.deal.bidding
}

// Hand 返回指定方位的手牌，没有进行中的一副时为 nil
func (e *BridgeEngine) Hand(position Position) *Hand {
	if e.deal == nil {
		return nil
	}
	return e.deal.hands[position]
}

// CurrentTrick 返回进行中的一墩，不在打牌阶段时为 nil
func (e *BridgeEngine) CurrentTrick() *Trick {
	if e.deal == nil || len(e.deal.tricks) == 0 {
		return nil
	}
	return e.deal.tricks[len(e.deal.tricks)-1]
}

// Tricks 返回当前一副牌已开始的各墩
func (e *BridgeEngine) Tricks() []*Trick {
	if e.deal == nil {
		return nil
	}
	tricks := make([]*Trick, len(e.deal.tricks))
	copy(tricks, e.deal.tricks)
	return tricks
}

// TricksWon 返回当前一副牌双方已赢的墩数
func (e *BridgeEngine) TricksWon() (northSouth, eastWest int) {
	if e.deal == nil {
		return 0, 0
	}
	for _, winner := range e.deal.winners {
		if PartnershipFor(winner) == NorthSouth {
			northSouth++
		} else {
			eastWest++
		}
	}
	return northSouth, eastWest
}

// Vulnerability 返回当前一副牌的局况
func (e *BridgeEngine) Vulnerability() (Vulnerability, bool) {
	return e.gameManager.Vulnerability()
}

// PositionInTurn 返回当前轮到行动的方位
// 打牌阶段轮到明手的手牌时返回庄家
func (e *BridgeEngine) PositionInTurn() (Position, bool) {
	hand, ok := e.HandPositionInTurn()
	if !ok {
		if e.state != stateInBidding {
			return 0, false
		}
		return e.deal.bidding.PositionInTurn()
	}
	if declarer, ok := e.declarer(); ok && hand == declarer.Partner() {
		return declarer, true
	}
	return hand, true
}

// HandPositionInTurn 返回当前轮到出牌的手牌方位，不在打牌阶段时 ok 为 false
func (e *BridgeEngine) HandPositionInTurn() (Position, bool) {
	if e.state != stateSelectingCard {
		return 0, false
	}
	trick := e.CurrentTrick()
	if trick == nil {
		return 0, false
	}
	return trick.PositionInTurn()
}

// Declarer 返回当前定约的庄家，叫牌尚未结束时 ok 为 false
func (e *BridgeEngine) Declarer() (Position, bool) {
	return e.declarer()
}

// Dummy 返回明手方位，仅在明手已摊牌后 ok 为 true
func (e *BridgeEngine) Dummy() (Position, bool) {
	if !e.dummyVisible {
		return 0, false
	}
	declarer, ok := e.declarer()
	if !ok {
		return 0, false
	}
	return declarer.Partner(), true
}

func (e *BridgeEngine) declarer() (Position, bool) {
	if e.deal == nil {
		return 0, false
	}
	return e.deal.bidding.Declarer()
}

// createNewDeal 洗牌完成后建立新一副牌
func (e *BridgeEngine) createNewDeal() {
	if e.state != stateShuffling {
		return
	}
	opener, ok := e.gameManager.OpenerPosition()
	if !ok {
		e.state = stateEnded
		return
	}
	deal := &engineDeal{
		id:      uuid.New(),
		bidding: NewBidding(opener),
	}
	for _, position := range Positions() {
		hand, err := e.cardManager.Hand(position.CardIndexes())
		if err != nil {
			// 洗牌完成后发不出手牌意味着发牌机制自相矛盾
			panic(err)
		}
		deal.hands[position] = hand
	}
	e.deal = deal
	e.dummyVisible = false
	e.state = stateInBidding

	vulnerability, _ := e.gameManager.Vulnerability()
	e.notifyDealStarted(DealStarted{
		Deal:          deal.id,
		Opener:        opener,
		Vulnerability: vulnerability,
	})
	e.notifyTurnStarted(TurnStarted{Deal: deal.id, Position: opener})
}

func (e *BridgeEngine) handleCall(position Position, call Call) bool {
	if e.state != stateInBidding {
		return false
	}
	bidding := e.deal.bidding
	if !bidding.Call(position, call) {
		return false
	}
	e.notifyCallMade(CallMade{Deal: e.deal.id, Position: position, Call: call})

	switch bidding.Outcome() {
	case BiddingComplete:
		contract, _ := bidding.Contract()
		declarer, _ := bidding.Declarer()
		e.notifyBiddingCompleted(BiddingCompleted{
			Deal:     e.deal.id,
			Declarer: declarer,
			Contract: contract,
		})
		e.queue.enqueue(func() { e.startPlaying(declarer) })
	case BiddingPassedOut:
		id := e.deal.id
		e.queue.enqueue(func() { e.passOutDeal(id) })
	default:
		e.notifyTurnStartedForDeal()
	}
	return true
}

// startPlaying 叫牌结束后进入打牌阶段，庄家的下一家领出第一墩
func (e *BridgeEngine) startPlaying(declarer Position) {
	leader := declarer.Clockwise(1)
	e.state = stateSelectingCard
	e.addTrick(leader)
	e.notifyTurnStarted(TurnStarted{Deal: e.deal.id, Position: leader})
}

func (e *BridgeEngine) passOutDeal(id uuid.UUID) {
	result := e.gameManager.AddPassedOut()
	e.deal = nil
	e.state = stateIdle
	e.notifyDealEnded(DealEnded{Deal: id, Result: result})
}

func (e *BridgeEngine) addTrick(leader Position) {
	trick := NewTrick(e.contractStrain(), leader, e.deal.hands)
	e.deal.tricks = append(e.deal.tricks, trick)
	e.notifyTrickStarted(TrickStarted{Deal: e.deal.id, Leader: leader})
}

func (e *BridgeEngine) contractStrain() Strain {
	contract, ok := e.deal.bidding.Contract()
	if !ok {
		panic("game: 打牌阶段必然存在定约")
	}
	return contract.Bid.Strain
}

func (e *BridgeEngine) handlePlay(player, hand Position, n int) bool {
	if e.state != stateSelectingCard {
		return false
	}
	inTurn, ok := e.PositionInTurn()
	if !ok || player != inTurn {
		return false
	}
	handInTurn, ok := e.HandPositionInTurn()
	if !ok || hand != handInTurn {
		return false
	}
	h := e.deal.hands[hand]
	if n < 0 || n >= h.NumCards() || h.IsPlayed(n) {
		return false
	}

	// 先提交出牌，等该牌亮出后再完成：出的牌可能来自尚未可见的
	// 手牌（对方或加密交换的明手），此时跟牌合法性要等亮出才能判定
	e.committed = &committedPlay{position: hand, index: n}
	e.state = stateWaitingRevealCard
	h.Subscribe(e.cardRevealObserver(h, n))
	h.RequestReveal([]int{n})
	return true
}

// cardRevealObserver 等待提交的那张牌亮出
func (e *BridgeEngine) cardRevealObserver(h *Hand, expected int) RevealObserver {
	return func(state RevealState, ns []int) {
		if state != RevealCompleted || len(ns) != 1 || ns[0] != expected {
			return
		}
		e.queue.enqueue(func() { e.playCommitted(h) })
	}
}

// playCommitted 提交的牌已亮出，落墩并推进对局
func (e *BridgeEngine) playCommitted(h *Hand) {
	if e.state != stateWaitingRevealCard || e.committed == nil {
		return
	}
	committed := *e.committed
	e.committed = nil
	trick := e.currentTrick()
	c, ok := h.Card(committed.index)
	if !ok || !trick.Play(committed.position, c) {
		// 亮出的牌违反跟牌规则，退回选牌状态等待重试
		e.state = stateSelectingCard
		return
	}
	h.MarkPlayed(committed.index)
	e.notifyCardPlayed(CardPlayed{
		Deal:     e.deal.id,
		Position: committed.position,
		Card:     c,
	})

	if trick.IsCompleted() {
		winner, _ := trick.Winner()
		e.deal.winners = append(e.deal.winners, winner)
		e.notifyTrickCompleted(TrickCompleted{
			Deal:   e.deal.id,
			Cards:  trick.Cards(),
			Winner: winner,
		})
		if len(e.deal.tricks) == CardsPerPosition {
			e.endDeal()
			return
		}
		e.state = stateSelectingCard
		e.addTrick(winner)
	} else {
		e.state = stateSelectingCard
	}
	e.afterPlay()
}

// afterPlay 每次成功出牌后的推进：第一次出牌后先让明手摊牌
func (e *BridgeEngine) afterPlay() {
	if e.dummyVisible {
		e.notifyTurnStartedForDeal()
		return
	}
	declarer, ok := e.declarer()
	if !ok {
		return
	}
	dummy := e.deal.hands[declarer.Partner()]
	e.state = stateWaitingRevealDummy
	dummy.Subscribe(e.dummyRevealObserver(dummy))
	ns := make([]int, dummy.NumCards())
	for i := range ns {
		ns[i] = i
	}
	dummy.RequestReveal(ns)
}

// dummyRevealObserver 等待明手的十三张牌全部亮出
func (e *BridgeEngine) dummyRevealObserver(dummy *Hand) RevealObserver {
	return func(state RevealState, ns []int) {
		if state != RevealCompleted || !coversWholeHand(ns, dummy.NumCards()) {
			return
		}
		e.queue.enqueue(e.revealDummy)
	}
}

// coversWholeHand 判断下标集合是否恰好覆盖整个手牌
func coversWholeHand(ns []int, numCards int) bool {
	if len(ns) != numCards {
		return false
	}
	seen := make([]bool, numCards)
	for _, n := range ns {
		if n < 0 || n >= numCards || seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}

func (e *BridgeEngine) revealDummy() {
	if e.state != stateWaitingRevealDummy {
		return
	}
	declarer, ok := e.declarer()
	if !ok {
		return
	}
	dummyPosition := declarer.Partner()
	dummy := e.deal.hands[dummyPosition]
	cards := make([]card.Card, 0, dummy.NumCards())
	for n := 0; n < dummy.NumCards(); n++ {
		if c, ok := dummy.Card(n); ok {
			cards = append(cards, c)
		}
	}
	e.dummyVisible = true
	e.state = stateSelectingCard
	e.notifyDummyRevealed(DummyRevealed{
		Deal:     e.deal.id,
		Position: dummyPosition,
		Cards:    cards,
	})
	e.notifyTurnStartedForDeal()
}

// endDeal 最后一墩结束，计分并回到空闲状态
func (e *BridgeEngine) endDeal() {
	declarer, ok := e.declarer()
	if !ok {
		return
	}
	partnership := PartnershipFor(declarer)
	contract, _ := e.deal.bidding.Contract()
	tricksWon := 0
	for _, winner := range e.deal.winners {
		if PartnershipFor(winner) == partnership {
			tricksWon++
		}
	}
	id := e.deal.id
	result := e.gameManager.AddResult(partnership, contract, tricksWon)
	e.deal = nil
	e.state = stateIdle
	e.notifyDealEnded(DealEnded{Deal: id, Result: result})
}

func (e *BridgeEngine) currentTrick() *Trick {
	return e.deal.tricks[len(e.deal.tricks)-1]
}

// notifyTurnStartedForDeal 以当前轮次广播轮次事件
func (e *BridgeEngine) notifyTurnStartedForDeal() {
	if position, ok := e.PositionInTurn(); ok {
		e.notifyTurnStarted(TurnStarted{Deal: e.deal.id, Position: position})
	}
}

func (e *BridgeEngine) notifyDealStarted(event DealStarted) {
	for _, f := range e.dealStarted {
		f(event)
	}
}

func (e *BridgeEngine) notifyTurnStarted(event TurnStarted) {
	for _, f := range e.turnStarted {
		f(event)
	}
}

func (e *BridgeEngine) notifyCallMade(event CallMade) {
	for _, f := range e.callMade {
		f(event)
	}
}

func (e *BridgeEngine) notifyBiddingCompleted(event BiddingCompleted) {
	for _, f := range e.biddingCompleted {
		f(event)
	}
}

func (e *BridgeEngine) notifyTrickStarted(event TrickStarted) {
	for _, f := range e.trickStarted {
		f(event)
	}
}

func (e *BridgeEngine) notifyCardPlayed(event CardPlayed) {
	for _, f := range e.cardPlayed {
		f(event)
	}
}

func (e *BridgeEngine) notifyTrickCompleted(event TrickCompleted) {
	for _, f := range e.trickCompleted {
		f(event)
	}
}

func (e *BridgeEngine) notifyDummyRevealed(event DummyRevealed) {
	for _, f := range e.dummyRevealed {
		f(event)
	}
}

func (e *BridgeEngine) notifyDealEnded(event DealEnded) {
	for _, f := range e.dealEnded {
		f(event)
	}
}
