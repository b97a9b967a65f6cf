package game

import (
	"fmt"

	"github.com/zhouqilin/bridge-table/internal/game/card"
)

// ShuffleState 定义洗牌流程的状态
type ShuffleState int

const (
	// ShuffleNotRequested 尚未请求洗牌
	ShuffleNotRequested ShuffleState = iota
	// ShuffleRequested 已请求洗牌，等待发牌机制完成
	ShuffleRequested
	// ShuffleCompleted 洗牌完成，可以取手牌
	ShuffleCompleted
)

// ShuffleObserver 洗牌状态观察者
type ShuffleObserver func(state ShuffleState)

// CardManager 定义发牌机制的抽象
// 引擎只通过该接口请求洗牌和获取手牌，不关心牌来自本地随机
// 还是外部安全交换；对局中整副牌的存储由发牌机制持有
type CardManager interface {
	// Subscribe 订阅洗牌状态通知
	Subscribe(observer ShuffleObserver)
	// RequestShuffle 请求开始新一副牌的洗牌，进行中重复请求无副作用
	RequestShuffle()
	// IsShuffleCompleted 判断洗牌是否已完成
	IsShuffleCompleted() bool
	// NumCards 返回整副牌的张数，洗牌未完成时为 0
	NumCards() int
	// Hand 以整副牌下标创建手牌，洗牌未完成或下标非法时返回错误
	Hand(ns []int) (*Hand, error)
	// CardAt 返回整副牌中下标 n 的牌，尚不可见时 ok 为 false
	CardAt(n int) (card.Card, bool)
}

// SimpleCardManager 实现可信环境下的发牌机制
// 牌的生成交给外部供牌方（本地随机或牌桌首席节点），一旦收到整副牌
// 即全部可见，亮牌请求同步完成
type SimpleCardManager struct {
	state     ShuffleState
	cards     []card.Card
	observers []ShuffleObserver
}

var _ CardManager = (*SimpleCardManager)(nil)

// NewSimpleCardManager 创建可信发牌机制
func NewSimpleCardManager() *SimpleCardManager {
	return &SimpleCardManager{state: ShuffleNotRequested}
}

// Subscribe 订阅洗牌状态通知
func (m *SimpleCardManager) Subscribe(observer ShuffleObserver) {
	m.observers = append(m.observers, observer)
}

// RequestShuffle 请求洗牌并通知观察者，由供牌方响应后调用 Shuffle
func (m *SimpleCardManager) RequestShuffle() {
	if m.state == ShuffleRequested {
		return
	}
	m.state = ShuffleRequested
	m.cards = nil
	m.notify(ShuffleRequested)
}

// Shuffle 接收供牌方给出的整副牌并完成洗牌
// 只在已请求洗牌时生效，牌数必须为一整副
func (m *SimpleCardManager) Shuffle(cards []card.Card) error {
	if m.state != ShuffleRequested {
		return fmt.Errorf("game: 未请求洗牌")
	}
	if len(cards) != card.DeckSize {
		return fmt.Errorf("game: 牌数非法: %d", len(cards))
	}
	m.cards = make([]card.Card, len(cards))
	copy(m.cards, cards)
	m.state = ShuffleCompleted
	m.notify(ShuffleCompleted)
	return nil
}

// IsShuffleCompleted 判断洗牌是否已完成
func (m *SimpleCardManager) IsShuffleCompleted() bool {
	return m.state == ShuffleCompleted
}

// NumCards 返回整副牌的张数
func (m *SimpleCardManager) NumCards() int {
	return len(m.cards)
}

// Hand 以整副牌下标创建手牌
// 可信环境下所有牌可见，亮牌请求到达时立即完成
func (m *SimpleCardManager) Hand(ns []int) (*Hand, error) {
	if m.state != ShuffleCompleted {
		return nil, fmt.Errorf("game: 洗牌未完成")
	}
	for _, n := range ns {
		if n < 0 || n >= len(m.cards) {
			return nil, fmt.Errorf("game: 整副牌下标越界: %d", n)
		}
	}
	h := NewHand(m, ns)
	h.Subscribe(func(state RevealState, ns []int) {
		if state == RevealRequested {
			h.Reveal(ns)
		}
	})
	return h, nil
}

// CardAt 返回整副牌中下标 n 的牌
func (m *SimpleCardManager) CardAt(n int) (card.Card, bool) {
	if n < 0 || n >= len(m.cards) {
		return card.Card{}, false
	}
	return m.cards[n], true
}

func (m *SimpleCardManager) notify(state ShuffleState) {
	for _, observer := range m.observers {
		observer(state)
	}
}
