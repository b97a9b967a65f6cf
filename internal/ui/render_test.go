package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

func TestFormatCall(t *testing.T) {
	assert.Equal(t, "Pass", FormatCall(protocol.CallInfo{Type: "pass"}))
	assert.Equal(t, "X", FormatCall(protocol.CallInfo{Type: "double"}))
	assert.Equal(t, "XX", FormatCall(protocol.CallInfo{Type: "redouble"}))
	assert.Equal(t, "3无将", FormatCall(protocol.CallInfo{
		Type: "bid",
		Bid:  &protocol.BidInfo{Level: 3, Strain: "notrump"},
	}))
	assert.Equal(t, "4♠", FormatCall(protocol.CallInfo{
		Type: "bid",
		Bid:  &protocol.BidInfo{Level: 4, Strain: "spades"},
	}))
}

func TestFormatContract(t *testing.T) {
	assert.Equal(t, "4♥X", FormatContract(protocol.ContractInfo{
		Bid:      protocol.BidInfo{Level: 4, Strain: "hearts"},
		Doubling: "doubled",
	}))
	assert.Equal(t, "7无将XX", FormatContract(protocol.ContractInfo{
		Bid:      protocol.BidInfo{Level: 7, Strain: "notrump"},
		Doubling: "redoubled",
	}))
}

func TestFormatCard(t *testing.T) {
	assert.Contains(t, FormatCard(protocol.CardInfo{Rank: "ace", Suit: "spades"}), "♠A")
	assert.Contains(t, FormatCard(protocol.CardInfo{Rank: "10", Suit: "hearts"}), "♥10")
}

func TestRenderEvent_CallMade(t *testing.T) {
	msg := protocol.MustNewMessage(protocol.MsgCallMade, protocol.CallMadePayload{
		Deal:     "deal-1",
		Position: "north",
		Call:     protocol.CallInfo{Type: "pass"},
	})
	assert.Contains(t, RenderEvent(msg), "北")
	assert.Contains(t, RenderEvent(msg), "Pass")
}

func TestRenderEvent_DealEnded(t *testing.T) {
	passedOut := protocol.MustNewMessage(protocol.MsgDealEnded, protocol.DealEndedPayload{
		Deal: "deal-1",
	})
	assert.Contains(t, RenderEvent(passedOut), "流局")

	scored := protocol.MustNewMessage(protocol.MsgDealEnded, protocol.DealEndedPayload{
		Deal:   "deal-1",
		Result: &protocol.ScoreInfo{Partnership: "northSouth", Score: 420},
	})
	assert.Contains(t, RenderEvent(scored), "南北 +420")
}

func TestRenderEvent_UnknownTypeIsSilent(t *testing.T) {
	assert.Empty(t, RenderEvent(&protocol.Message{Type: "mystery"}))
}

func TestRenderState(t *testing.T) {
	state := &protocol.GetReplyPayload{
		Phase:          "playing",
		Self:           "south",
		PositionInTurn: "south",
		Declarer:       "south",
		Contract: &protocol.ContractInfo{
			Bid:      protocol.BidInfo{Level: 3, Strain: "notrump"},
			Doubling: "undoubled",
		},
		Cards: map[string][]protocol.CardInfo{
			"south": {{Rank: "ace", Suit: "spades"}, {Rank: "2", Suit: "clubs"}},
		},
		TricksWon: &protocol.TricksWonInfo{NorthSouth: 3, EastWest: 2},
		Score:     []*protocol.ScoreInfo{nil, {Partnership: "eastWest", Score: 50}},
	}

	out := RenderState(state)
	assert.Contains(t, out, "阶段: playing")
	assert.Contains(t, out, "定约: 3无将 庄家 南")
	assert.Contains(t, out, "♠A")
	assert.Contains(t, out, "赢墩: 南北 3 / 东西 2")
	assert.Contains(t, out, "流局")
	assert.Contains(t, out, "东西 +50")
}
