package card

import (
	"fmt"
	"math/rand"
)

// Suit 定义花色，顺序与叫牌花色的低到高一致
type Suit int

// Rank 定义点数
type Rank int

const (
	Clubs Suit = iota // 梅花
	Diamonds
	Hearts
	Spades
)

const (
	Rank2 Rank = iota
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ // Jack
	RankQ // Queen
	RankK // King
	RankA // Ace
)

const (
	// NumSuits 花色数量
	NumSuits = 4
	// NumRanks 每种花色的点数数量
	NumRanks = 13
	// DeckSize 一副牌的总张数
	DeckSize = NumSuits * NumRanks
)

// suitNames 花色的协议名称映射表
var suitNames = map[Suit]string{
	Clubs:    "clubs",
	Diamonds: "diamonds",
	Hearts:   "hearts",
	Spades:   "spades",
}

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Clubs:    "♣",
	Diamonds: "♦",
	Hearts:   "♥",
	Spades:   "♠",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return "?"
}

// Name 返回花色的协议名称
func (s Suit) Name() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return ""
}

// SuitFromName 根据协议名称查找花色
func SuitFromName(name string) (Suit, error) {
	for s, n := range suitNames {
		if n == name {
			return s, nil
		}
	}
	return -1, fmt.Errorf("无法识别的花色: %q", name)
}

// rankNames 点数的协议名称映射表
var rankNames = map[Rank]string{
	Rank2:  "2",
	Rank3:  "3",
	Rank4:  "4",
	Rank5:  "5",
	Rank6:  "6",
	Rank7:  "7",
	Rank8:  "8",
	Rank9:  "9",
	Rank10: "10",
	RankJ:  "jack",
	RankQ:  "queen",
	RankK:  "king",
	RankA:  "ace",
}

// rankSymbols 点数显示符号
var rankSymbols = map[Rank]string{
	Rank2:  "2",
	Rank3:  "3",
	Rank4:  "4",
	Rank5:  "5",
	Rank6:  "6",
	Rank7:  "7",
	Rank8:  "8",
	Rank9:  "9",
	Rank10: "10",
	RankJ:  "J",
	RankQ:  "Q",
	RankK:  "K",
	RankA:  "A",
}

func (r Rank) String() string {
	if name, ok := rankSymbols[r]; ok {
		return name
	}
	return "?"
}

// Name 返回点数的协议名称
func (r Rank) Name() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return ""
}

// RankFromName 根据协议名称查找点数
func RankFromName(name string) (Rank, error) {
	for r, n := range rankNames {
		if n == name {
			return r, nil
		}
	}
	return -1, fmt.Errorf("无法识别的点数: %q", name)
}

// Card 定义一张牌
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// At 枚举整副牌中下标为 n 的牌，同一花色的 13 张连续排列
func At(n int) Card {
	if n < 0 || n >= DeckSize {
		panic(fmt.Sprintf("card: 下标越界: %d", n))
	}
	return Card{Suit: Suit(n / NumRanks), Rank: Rank(n % NumRanks)}
}

// Deck 定义一副牌
type Deck []Card

// NewDeck 按固定顺序生成一副牌
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for n := 0; n < DeckSize; n++ {
		deck = append(deck, At(n))
	}
	return deck
}

// Shuffle 洗牌（仅用于可信发牌路径）
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}
