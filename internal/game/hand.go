package game

import (
	"fmt"

	"github.com/zhouqilin/bridge-table/internal/game/card"
)

// RevealState 定义亮牌请求的状态通知
type RevealState int

const (
	// RevealRequested 已请求亮牌
	RevealRequested RevealState = iota
	// RevealCompleted 请求范围内的牌全部可见
	RevealCompleted
)

// RevealObserver 亮牌状态观察者，参数为事件和涉及的手牌下标
type RevealObserver func(state RevealState, ns []int)

// CardSource 定义手牌背后的牌存储
// 牌由发牌机制持有，手牌只借用下标引用；ok 为 false 表示该牌尚不可见
type CardSource interface {
	CardAt(n int) (card.Card, bool)
}

// Hand 定义一个方位的手牌
// 每个槽位引用整副牌中的一张，并各自维护"是否已打出"标记
// 牌是否可见由发牌机制驱动，是否已打出由引擎驱动，两者互相独立
type Hand struct {
	source    CardSource
	indexes   []int // 整副牌下标
	played    []bool
	observers []RevealObserver
}

// NewHand 以指定的整副牌下标创建手牌
func NewHand(source CardSource, indexes []int) *Hand {
	h := &Hand{
		source:  source,
		indexes: make([]int, len(indexes)),
		played:  make([]bool, len(indexes)),
	}
	copy(h.indexes, indexes)
	return h
}

// Subscribe 订阅亮牌状态通知
func (h *Hand) Subscribe(observer RevealObserver) {
	h.observers = append(h.observers, observer)
}

// NumCards 返回手牌槽位数量
func (h *Hand) NumCards() int {
	return len(h.indexes)
}

func (h *Hand) checkIndex(n int) {
	if n < 0 || n >= len(h.indexes) {
		panic(fmt.Sprintf("game: 手牌下标越界: %d", n))
	}
}

// Card 返回槽位 n 的牌
// 已打出或尚不可见时 ok 为 false，下标越界视为内部错误
func (h *Hand) Card(n int) (card.Card, bool) {
	h.checkIndex(n)
	if h.played[n] {
		return card.Card{}, false
	}
	return h.source.CardAt(h.indexes[n])
}

// IsKnown 判断槽位 n 的牌是否可见
func (h *Hand) IsKnown(n int) bool {
	h.checkIndex(n)
	_, ok := h.source.CardAt(h.indexes[n])
	return ok
}

// IsPlayed 判断槽位 n 的牌是否已打出
func (h *Hand) IsPlayed(n int) bool {
	h.checkIndex(n)
	return h.played[n]
}

// MarkPlayed 标记槽位 n 的牌已打出，重复标记无副作用
func (h *Hand) MarkPlayed(n int) {
	h.checkIndex(n)
	h.played[n] = true
}

// DeckIndexes 返回各槽位对应的整副牌下标
func (h *Hand) DeckIndexes() []int {
	ns := make([]int, len(h.indexes))
	copy(ns, h.indexes)
	return ns
}

// RequestReveal 请求让指定槽位的牌可见
// 立即向观察者通知 RevealRequested；由背后的发牌机制完成亮牌后
// 通过 Reveal 触发 RevealCompleted，可信发牌时两者同步发生
func (h *Hand) RequestReveal(ns []int) {
	h.notify(RevealRequested, ns)
}

// Reveal 在指定槽位的牌全部可见后向观察者通知 RevealCompleted
// 若范围内仍有不可见的牌则不通知并返回 false
func (h *Hand) Reveal(ns []int) bool {
	for _, n := range ns {
		h.checkIndex(n)
		if _, ok := h.source.CardAt(h.indexes[n]); !ok {
			return false
		}
	}
	h.notify(RevealCompleted, ns)
	return true
}

func (h *Hand) notify(state RevealState, ns []int) {
	copied := make([]int, len(ns))
	copy(copied, ns)
	for _, observer := range h.observers {
		observer(state, copied)
	}
}

// HoldsKnown 判断手牌中是否还有未打出且可见的指定花色牌
// 跟牌合法性只看确定持有：不可见的牌不计入
func (h *Hand) HoldsKnown(suit card.Suit) bool {
	for n := range h.indexes {
		if h.played[n] {
			continue
		}
		if c, ok := h.source.CardAt(h.indexes[n]); ok && c.Suit == suit {
			return true
		}
	}
	return false
}

// Find 在未打出且可见的牌中查找指定的牌，返回其槽位
func (h *Hand) Find(target card.Card) (int, bool) {
	for n := range h.indexes {
		if h.played[n] {
			continue
		}
		if c, ok := h.source.CardAt(h.indexes[n]); ok && c == target {
			return n, true
		}
	}
	return 0, false
}
