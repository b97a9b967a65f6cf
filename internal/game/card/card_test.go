package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAt_CoversWholeDeck(t *testing.T) {
	seen := make(map[Card]bool)
	for n := 0; n < DeckSize; n++ {
		c := At(n)
		assert.False(t, seen[c], "card %v enumerated twice", c)
		seen[c] = true
	}
	assert.Len(t, seen, DeckSize)

	// 同一花色连续排列
	assert.Equal(t, Card{Rank: Rank2, Suit: Clubs}, At(0))
	assert.Equal(t, Card{Rank: RankA, Suit: Clubs}, At(12))
	assert.Equal(t, Card{Rank: Rank2, Suit: Diamonds}, At(13))
	assert.Equal(t, Card{Rank: RankA, Suit: Spades}, At(51))
}

func TestAt_OutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { At(-1) })
	assert.Panics(t, func() { At(DeckSize) })
}

func TestNames_RoundTrip(t *testing.T) {
	for r := Rank2; r <= RankA; r++ {
		got, err := RankFromName(r.Name())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	for s := Clubs; s <= Spades; s++ {
		got, err := SuitFromName(s.Name())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := RankFromName("joker")
	assert.Error(t, err)
	_, err = SuitFromName("stars")
	assert.Error(t, err)
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, DeckSize)
	for n, c := range deck {
		assert.Equal(t, At(n), c)
	}
}

func TestShuffle_KeepsAllCards(t *testing.T) {
	deck := NewDeck()
	deck.Shuffle()
	require.Len(t, deck, DeckSize)

	seen := make(map[Card]bool)
	for _, c := range deck {
		seen[c] = true
	}
	assert.Len(t, seen, DeckSize)
}
