package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouqilin/bridge-table/internal/game/card"
)

// fakeCardSource 测试用牌存储，可逐张控制可见性
type fakeCardSource struct {
	cards map[int]card.Card
}

func (s *fakeCardSource) CardAt(n int) (card.Card, bool) {
	c, ok := s.cards[n]
	return c, ok
}

func newFakeCardSource(cards ...card.Card) *fakeCardSource {
	s := &fakeCardSource{cards: make(map[int]card.Card)}
	for n, c := range cards {
		s.cards[n] = c
	}
	return s
}

func TestHand_CardAndMarkPlayed(t *testing.T) {
	source := newFakeCardSource(
		card.Card{Rank: card.RankA, Suit: card.Spades},
		card.Card{Rank: card.Rank2, Suit: card.Hearts},
	)
	hand := NewHand(source, []int{0, 1})

	c, ok := hand.Card(0)
	require.True(t, ok)
	assert.Equal(t, card.Card{Rank: card.RankA, Suit: card.Spades}, c)

	hand.MarkPlayed(0)
	_, ok = hand.Card(0)
	assert.False(t, ok, "已打出的牌不应再可取")
	assert.True(t, hand.IsPlayed(0))

	// 重复标记无副作用
	hand.MarkPlayed(0)
	assert.True(t, hand.IsPlayed(0))

	_, ok = hand.Card(1)
	assert.True(t, ok)
}

func TestHand_OutOfRangePanics(t *testing.T) {
	hand := NewHand(newFakeCardSource(), nil)
	assert.Panics(t, func() { hand.Card(0) })
	assert.Panics(t, func() { hand.MarkPlayed(-1) })
}

func TestHand_RevealNotifications(t *testing.T) {
	source := &fakeCardSource{cards: map[int]card.Card{}}
	hand := NewHand(source, []int{0, 1})

	var states []RevealState
	var lastIndexes []int
	hand.Subscribe(func(state RevealState, ns []int) {
		states = append(states, state)
		lastIndexes = ns
	})

	hand.RequestReveal([]int{0, 1})
	require.Equal(t, []RevealState{RevealRequested}, states)
	assert.Equal(t, []int{0, 1}, lastIndexes)

	// 牌未全部可见时不通知完成
	source.cards[0] = card.Card{Rank: card.RankQ, Suit: card.Diamonds}
	assert.False(t, hand.Reveal([]int{0, 1}))
	assert.Equal(t, []RevealState{RevealRequested}, states)

	source.cards[1] = card.Card{Rank: card.Rank7, Suit: card.Clubs}
	assert.True(t, hand.Reveal([]int{0, 1}))
	assert.Equal(t, []RevealState{RevealRequested, RevealCompleted}, states)
}

func TestHand_HoldsKnown(t *testing.T) {
	source := newFakeCardSource(
		card.Card{Rank: card.RankK, Suit: card.Hearts},
		card.Card{Rank: card.Rank5, Suit: card.Clubs},
	)
	hand := NewHand(source, []int{0, 1})

	assert.True(t, hand.HoldsKnown(card.Hearts))
	hand.MarkPlayed(0)
	assert.False(t, hand.HoldsKnown(card.Hearts), "已打出的牌不计入")
	assert.True(t, hand.HoldsKnown(card.Clubs))

	// 不可见的牌不计入
	unknown := NewHand(&fakeCardSource{cards: map[int]card.Card{}}, []int{0})
	assert.False(t, unknown.HoldsKnown(card.Spades))
}

func TestHand_Find(t *testing.T) {
	target := card.Card{Rank: card.RankJ, Suit: card.Diamonds}
	source := newFakeCardSource(
		card.Card{Rank: card.Rank3, Suit: card.Spades},
		target,
	)
	hand := NewHand(source, []int{0, 1})

	n, ok := hand.Find(target)
	require.True(t, ok)
	assert.Equal(t, 1, n)

	hand.MarkPlayed(1)
	_, ok = hand.Find(target)
	assert.False(t, ok)
}

func TestSimpleCardManager_ShuffleFlow(t *testing.T) {
	m := NewSimpleCardManager()
	require.False(t, m.IsShuffleCompleted())

	var states []ShuffleState
	m.Subscribe(func(state ShuffleState) { states = append(states, state) })

	m.RequestShuffle()
	require.Equal(t, []ShuffleState{ShuffleRequested}, states)

	// 进行中重复请求无副作用
	m.RequestShuffle()
	require.Equal(t, []ShuffleState{ShuffleRequested}, states)

	deck := card.NewDeck()
	require.NoError(t, m.Shuffle(deck))
	assert.Equal(t, []ShuffleState{ShuffleRequested, ShuffleCompleted}, states)
	assert.True(t, m.IsShuffleCompleted())
	assert.Equal(t, card.DeckSize, m.NumCards())

	c, ok := m.CardAt(0)
	require.True(t, ok)
	assert.Equal(t, deck[0], c)
}

func TestSimpleCardManager_ShuffleErrors(t *testing.T) {
	m := NewSimpleCardManager()
	assert.Error(t, m.Shuffle(card.NewDeck()), "未请求洗牌时供牌应失败")

	m.RequestShuffle()
	assert.Error(t, m.Shuffle(card.NewDeck()[:10]), "牌数不足一副应失败")
}

func TestSimpleCardManager_HandRevealsSynchronously(t *testing.T) {
	m := NewSimpleCardManager()

	_, err := m.Hand([]int{0})
	require.Error(t, err, "洗牌未完成时不应能取手牌")

	m.RequestShuffle()
	require.NoError(t, m.Shuffle(card.NewDeck()))

	hand, err := m.Hand(North.CardIndexes())
	require.NoError(t, err)
	require.Equal(t, CardsPerPosition, hand.NumCards())

	var completed [][]int
	hand.Subscribe(func(state RevealState, ns []int) {
		if state == RevealCompleted {
			completed = append(completed, ns)
		}
	})

	// 可信发牌下亮牌请求同步完成
	hand.RequestReveal([]int{0, 1, 2})
	require.Len(t, completed, 1)
	assert.Equal(t, []int{0, 1, 2}, completed[0])
}

func TestSimpleCardManager_HandIndexOutOfRange(t *testing.T) {
	m := NewSimpleCardManager()
	m.RequestShuffle()
	require.NoError(t, m.Shuffle(card.NewDeck()))

	_, err := m.Hand([]int{0, card.DeckSize})
	assert.Error(t, err)
}
