package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// auction 依次作出一串喊叫，要求每一步都成功
func auction(t *testing.T, b *Bidding, calls ...Call) {
	t.Helper()
	for _, call := range calls {
		position, ok := b.PositionInTurn()
		require.True(t, ok, "叫牌不应已结束")
		require.True(t, b.Call(position, call), "%v 喊叫 %v 应当合法", position, call)
	}
}

func TestBidding_PassedOut(t *testing.T) {
	b := NewBidding(North)
	auction(t, b, Pass(), Pass(), Pass())
	assert.Equal(t, BiddingOngoing, b.Outcome(), "三次不叫尚不足以流局")

	auction(t, b, Pass())
	assert.True(t, b.HasEnded())
	assert.Equal(t, BiddingPassedOut, b.Outcome())

	_, ok := b.Contract()
	assert.False(t, ok)
	_, ok = b.Declarer()
	assert.False(t, ok)
}

func TestBidding_SimpleAuction(t *testing.T) {
	b := NewBidding(North)
	auction(t, b,
		MakeBid(1, StrainClubs), // 北
		Pass(),                  // 东
		MakeBid(2, StrainClubs), // 南
		Pass(), Pass(), Pass(),
	)

	require.True(t, b.HasEnded())
	assert.Equal(t, BiddingComplete, b.Outcome())

	contract, ok := b.Contract()
	require.True(t, ok)
	assert.Equal(t, Contract{Bid: Bid{Level: 2, Strain: StrainClubs}, Doubling: Undoubled}, contract)

	// 定约花色由北家先叫出，庄家应为北而非最后叫牌的南
	declarer, ok := b.Declarer()
	require.True(t, ok)
	assert.Equal(t, North, declarer)
}

func TestBidding_DeclarerIsFirstToNameStrain(t *testing.T) {
	b := NewBidding(East)
	auction(t, b,
		MakeBid(1, StrainSpades),   // 东
		Pass(),                     // 南
		MakeBid(2, StrainHearts),   // 西
		Pass(),                     // 北
		MakeBid(4, StrainHearts),   // 东
		Pass(), Pass(), Pass(),
	)

	declarer, ok := b.Declarer()
	require.True(t, ok)
	assert.Equal(t, West, declarer, "联队中先叫出红心的是西家")
}

func TestBidding_RejectsOutOfTurnAndLowBid(t *testing.T) {
	b := NewBidding(North)
	assert.False(t, b.Call(East, Pass()), "未轮到的方位不能喊叫")

	auction(t, b, MakeBid(1, StrainHearts))

	// 不高于当前定约的叫牌应被拒绝且不改变状态
	assert.False(t, b.Call(East, MakeBid(1, StrainHearts)))
	assert.False(t, b.Call(East, MakeBid(1, StrainClubs)))
	assert.Equal(t, 1, b.NumCalls())

	assert.True(t, b.Call(East, MakeBid(1, StrainSpades)))
}

func TestBidding_DoublingRules(t *testing.T) {
	b := NewBidding(North)

	// 尚无定约时不能加倍
	assert.False(t, b.Call(North, Double()))

	auction(t, b, MakeBid(1, StrainNoTrump))

	// 对方可以加倍，自方不能
	assert.True(t, b.IsDoublingAllowed())
	auction(t, b, Double())

	// 已加倍后对方不能再加倍
	assert.False(t, b.Call(South, Double()))
	assert.False(t, b.IsDoublingAllowed())

	// 被加倍一方可以再加倍
	auction(t, b, Pass(), Pass())
	require.True(t, b.IsRedoublingAllowed())
	auction(t, b, Redouble(), Pass(), Pass(), Pass())

	contract, ok := b.Contract()
	require.True(t, ok)
	assert.Equal(t, Redoubled, contract.Doubling)
}

func TestBidding_CannotDoubleOwnSide(t *testing.T) {
	b := NewBidding(North)
	auction(t, b, MakeBid(1, StrainDiamonds), Pass())
	// 南家与叫牌的北家同队
	assert.False(t, b.Call(South, Double()))
}

func TestBidding_NewBidResetsDoubling(t *testing.T) {
	b := NewBidding(North)
	auction(t, b, MakeBid(1, StrainClubs), Double(), MakeBid(2, StrainClubs))

	assert.True(t, b.IsDoublingAllowed(), "新叫牌后加倍状态应重置")
	auction(t, b, Pass(), Pass(), Pass())

	contract, ok := b.Contract()
	require.True(t, ok)
	assert.Equal(t, Undoubled, contract.Doubling)
}

func TestBidding_CallAfterEndRejected(t *testing.T) {
	b := NewBidding(West)
	auction(t, b, Pass(), Pass(), Pass(), Pass())
	assert.False(t, b.Call(West, Pass()))

	_, ok := b.PositionInTurn()
	assert.False(t, ok)
}

func TestBidding_LowestAllowedBid(t *testing.T) {
	b := NewBidding(North)

	bid, ok := b.LowestAllowedBid()
	require.True(t, ok)
	assert.Equal(t, LowestBid, bid)

	auction(t, b, MakeBid(3, StrainNoTrump))
	bid, ok = b.LowestAllowedBid()
	require.True(t, ok)
	assert.Equal(t, Bid{Level: 4, Strain: StrainClubs}, bid)

	b2 := NewBidding(North)
	auction(t, b2, MakeBid(7, StrainNoTrump))
	_, ok = b2.LowestAllowedBid()
	assert.False(t, ok, "7NT 之上已无叫牌")
}

func TestBidding_AllowedCalls(t *testing.T) {
	b := NewBidding(North)
	auction(t, b, MakeBid(7, StrainSpades))

	calls := b.AllowedCalls()
	// 东家可以：不叫、加倍、7NT
	require.Len(t, calls, 3)
	assert.Equal(t, Pass(), calls[0])
	assert.Equal(t, Double(), calls[1])
	assert.Equal(t, MakeBid(7, StrainNoTrump), calls[2])

	b2 := NewBidding(North)
	auction(t, b2, Pass(), Pass(), Pass(), Pass())
	assert.Nil(t, b2.AllowedCalls())
}

func TestBidding_CallAt(t *testing.T) {
	b := NewBidding(South)
	auction(t, b, MakeBid(1, StrainHearts), Pass())

	position, call := b.CallAt(0)
	assert.Equal(t, South, position)
	assert.Equal(t, MakeBid(1, StrainHearts), call)

	position, call = b.CallAt(1)
	assert.Equal(t, West, position)
	assert.Equal(t, Pass(), call)

	assert.Panics(t, func() { b.CallAt(2) })
}
