package game

import (
	"github.com/zhouqilin/bridge-table/internal/game/card"
)

// PlayedCard 记录一墩中的一次出牌
type PlayedCard struct {
	Position Position
	Card     card.Card
}

// Trick 定义一墩牌
// 由领出方按顺时针各出一张，跟牌合法性只依据确定持有的牌判断：
// 手中仍有可见的领出花色时必须跟牌，否则任意出
type Trick struct {
	trump  card.Suit
	ruff   bool // 是否有将牌
	leader Position
	hands  [NumPositions]*Hand
	cards  []PlayedCard
}

// NewTrick 以定约花色和领出方创建一墩
// hands 按方位下标给出各方手牌
func NewTrick(strain Strain, leader Position, hands [NumPositions]*Hand) *Trick {
	t := &Trick{
		leader: leader,
		hands:  hands,
		cards:  make([]PlayedCard, 0, NumPositions),
	}
	t.trump, t.ruff = strain.Trump()
	return t
}

// Leader 返回领出方
func (t *Trick) Leader() Position {
	return t.leader
}

// IsCompleted 判断本墩是否已出满
func (t *Trick) IsCompleted() bool {
	return len(t.cards) == NumPositions
}

// PositionInTurn 返回当前轮到的方位，本墩已出满时 ok 为 false
func (t *Trick) PositionInTurn() (Position, bool) {
	if t.IsCompleted() {
		return 0, false
	}
	return t.leader.Clockwise(len(t.cards)), true
}

// HandInTurn 返回当前轮到的手牌
func (t *Trick) HandInTurn() (*Hand, bool) {
	position, ok := t.PositionInTurn()
	if !ok {
		return nil, false
	}
	return t.hands[position], true
}

// LedSuit 返回领出花色，尚未领出时 ok 为 false
func (t *Trick) LedSuit() (card.Suit, bool) {
	if len(t.cards) == 0 {
		return 0, false
	}
	return t.cards[0].Card.Suit, true
}

// CanPlay 判断方位 position 当前是否可以打出牌 c
func (t *Trick) CanPlay(position Position, c card.Card) bool {
	inTurn, ok := t.PositionInTurn()
	if !ok || position != inTurn {
		return false
	}
	return t.isLegal(t.hands[position], c)
}

// Play 记录方位 position 打出牌 c，不轮到或不合法时返回 false
// 手牌上的已打出标记由调用方在成功后设置
func (t *Trick) Play(position Position, c card.Card) bool {
	if !t.CanPlay(position, c) {
		return false
	}
	t.cards = append(t.cards, PlayedCard{Position: position, Card: c})
	return true
}

func (t *Trick) isLegal(hand *Hand, c card.Card) bool {
	led, ok := t.LedSuit()
	if !ok || c.Suit == led {
		return true
	}
	return !hand.HoldsKnown(led)
}

// Cards 返回本墩已打出的牌，按出牌顺序
func (t *Trick) Cards() []PlayedCard {
	cards := make([]PlayedCard, len(t.cards))
	copy(cards, t.cards)
	return cards
}

// Winner 返回本墩的赢方，未出满时 ok 为 false
// 将牌大于非将牌，否则比较与当前赢牌同花色的点数，垫牌不参与
func (t *Trick) Winner() (Position, bool) {
	if !t.IsCompleted() {
		return 0, false
	}
	winning := t.cards[0]
	for _, played := range t.cards[1:] {
		if t.beats(played.Card, winning.Card) {
			winning = played
		}
	}
	return winning.Position, true
}

func (t *Trick) beats(c, winning card.Card) bool {
	if t.ruff && c.Suit == t.trump && winning.Suit != t.trump {
		return true
	}
	return c.Suit == winning.Suit && c.Rank > winning.Rank
}

// AllowedCards 枚举当前轮到的手牌中可合法打出的牌
// 只包含可见且未打出的牌，本墩已出满时返回空
func (t *Trick) AllowedCards() []card.Card {
	hand, ok := t.HandInTurn()
	if !ok {
		return nil
	}
	var cards []card.Card
	for n := 0; n < hand.NumCards(); n++ {
		c, ok := hand.Card(n)
		if !ok {
			continue
		}
		if t.isLegal(hand, c) {
			cards = append(cards, c)
		}
	}
	return cards
}
