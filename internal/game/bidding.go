package game

// BiddingOutcome 定义叫牌阶段的三种结局
type BiddingOutcome int

const (
	// BiddingOngoing 叫牌仍在进行
	BiddingOngoing BiddingOutcome = iota
	// BiddingPassedOut 四家都不叫，本副流局
	BiddingPassedOut
	// BiddingComplete 叫牌结束并产生定约
	BiddingComplete
)

// Bidding 定义叫牌过程的状态机
// 从开叫方位起按顺时针轮流喊叫，保证序列中不会出现非法喊叫
type Bidding struct {
	opener   Position
	calls    []Call
	contract *Contract // 形成中的定约，尚无叫牌时为 nil
	bidIndex int       // 当前最高叫牌在序列中的下标，-1 表示尚无叫牌
}

// NewBidding 以指定开叫方位创建叫牌过程
func NewBidding(opener Position) *Bidding {
	return &Bidding{opener: opener, bidIndex: -1}
}

// Opener 返回开叫方位
func (b *Bidding) Opener() Position {
	return b.opener
}

// NumCalls 返回已经喊叫的次数
func (b *Bidding) NumCalls() int {
	return len(b.calls)
}

// CallAt 返回第 n 次喊叫及其方位
func (b *Bidding) CallAt(n int) (Position, Call) {
	if n < 0 || n >= len(b.calls) {
		panic("game: 喊叫下标越界")
	}
	return b.opener.Clockwise(n), b.calls[n]
}

// PositionInTurn 返回当前轮到喊叫的方位，叫牌结束时 ok 为 false
func (b *Bidding) PositionInTurn() (Position, bool) {
	if b.HasEnded() {
		return 0, false
	}
	return b.opener.Clockwise(len(b.calls)), true
}

// HasEnded 判断叫牌是否结束
// 统一判定：喊叫次数不少于四且最后三次均为不叫
// 此判定同时覆盖开叫即流局（四次不叫）与有叫牌后三次不叫收尾两种情形
func (b *Bidding) HasEnded() bool {
	n := len(b.calls)
	if n < NumPositions {
		return false
	}
	for _, c := range b.calls[n-(NumPositions-1):] {
		if c.Type != CallPass {
			return false
		}
	}
	return true
}

// Outcome 返回叫牌结局
func (b *Bidding) Outcome() BiddingOutcome {
	switch {
	case !b.HasEnded():
		return BiddingOngoing
	case b.contract == nil:
		return BiddingPassedOut
	default:
		return BiddingComplete
	}
}

// Contract 返回最终定约，仅在叫牌结束且未流局时 ok 为 true
func (b *Bidding) Contract() (Contract, bool) {
	if b.Outcome() != BiddingComplete {
		return Contract{}, false
	}
	return *b.contract, true
}

// Declarer 返回庄家方位，即定约联队中最先叫出定约花色的一家
func (b *Bidding) Declarer() (Position, bool) {
	if b.Outcome() != BiddingComplete {
		return 0, false
	}
	strain := b.contract.Bid.Strain
	for i := b.bidIndex % 2; i <= b.bidIndex; i += 2 {
		if b.calls[i].Type == CallBid && b.calls[i].Bid.Strain == strain {
			return b.opener.Clockwise(i), true
		}
	}
	panic("game: 定约花色在喊叫序列中缺失")
}

// IsCallAllowed 判断当前轮到的一家能否作出指定喊叫，不改变状态
func (b *Bidding) IsCallAllowed(call Call) bool {
	if b.HasEnded() {
		return false
	}
	switch call.Type {
	case CallPass:
		return true
	case CallBid:
		if call.Bid.Level < MinLevel || call.Bid.Level > MaxLevel {
			return false
		}
		return b.contract == nil || b.contract.Bid.Less(call.Bid)
	case CallDouble:
		// 加倍只能针对对方尚未加倍的定约
		return b.contract != nil && b.contract.Doubling == Undoubled &&
			len(b.calls)%2 != b.bidIndex%2
	case CallRedouble:
		// 再加倍只能由被加倍一方作出
		return b.contract != nil && b.contract.Doubling == Doubled &&
			len(b.calls)%2 == b.bidIndex%2
	}
	return false
}

// IsDoublingAllowed 判断当前是否可以加倍
func (b *Bidding) IsDoublingAllowed() bool {
	return b.IsCallAllowed(Double())
}

// IsRedoublingAllowed 判断当前是否可以再加倍
func (b *Bidding) IsRedoublingAllowed() bool {
	return b.IsCallAllowed(Redouble())
}

// LowestAllowedBid 返回当前允许的最低叫牌，叫牌结束或已无更高叫牌时 ok 为 false
func (b *Bidding) LowestAllowedBid() (Bid, bool) {
	if b.HasEnded() {
		return Bid{}, false
	}
	if b.contract == nil {
		return LowestBid, true
	}
	return b.contract.Bid.Next()
}

// Call 由指定方位作出一次喊叫
// 仅当轮到该方位且喊叫合法时成功并改变状态，否则返回 false 且不产生任何变化
// 远端对手发来非法喊叫属于常态，因此以布尔值而非错误表达拒绝
func (b *Bidding) Call(position Position, call Call) bool {
	inTurn, ok := b.PositionInTurn()
	if !ok || inTurn != position || !b.IsCallAllowed(call) {
		return false
	}
	switch call.Type {
	case CallBid:
		b.contract = &Contract{Bid: call.Bid, Doubling: Undoubled}
		b.bidIndex = len(b.calls)
	case CallDouble:
		b.contract = &Contract{Bid: b.contract.Bid, Doubling: Doubled}
	case CallRedouble:
		b.contract = &Contract{Bid: b.contract.Bid, Doubling: Redoubled}
	}
	b.calls = append(b.calls, call)
	return true
}

// AllowedCalls 枚举当前轮到的一家的全部合法喊叫
// 顺序为：不叫、加倍、再加倍（如适用），随后是从低到高的全部合法叫牌
func (b *Bidding) AllowedCalls() []Call {
	if b.HasEnded() {
		return nil
	}
	calls := []Call{Pass()}
	if b.IsDoublingAllowed() {
		calls = append(calls, Double())
	}
	if b.IsRedoublingAllowed() {
		calls = append(calls, Redouble())
	}
	bid, ok := b.LowestAllowedBid()
	for ok {
		calls = append(calls, Call{Type: CallBid, Bid: bid})
		bid, ok = bid.Next()
	}
	return calls
}
