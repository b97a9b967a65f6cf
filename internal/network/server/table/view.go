package table

import (
	"github.com/zhouqilin/bridge-table/internal/game"
	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

// allGetKeys get 请求未指定键时返回的全部键
var allGetKeys = []string{
	protocol.GetKeyDeal,
	protocol.GetKeyPhase,
	protocol.GetKeyPositionInTurn,
	protocol.GetKeyCalls,
	protocol.GetKeyAllowedCalls,
	protocol.GetKeyDeclarer,
	protocol.GetKeyContract,
	protocol.GetKeyCards,
	protocol.GetKeyAllowedCards,
	protocol.GetKeyTrick,
	protocol.GetKeyTricksWon,
	protocol.GetKeyVulnerability,
	protocol.GetKeyScore,
	protocol.GetKeySelf,
}

// Get 按键查询对局状态，手牌内容按请求身份的可见范围裁剪
func (t *Table) Get(identity string, keys []string) (*protocol.GetReplyPayload, *TableError) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.control.IsRegistered(identity) {
		return nil, ErrNotJoined
	}
	if len(keys) == 0 {
		keys = allGetKeys
	}

	reply := &protocol.GetReplyPayload{}
	for _, key := range keys {
		if terr := t.fillKey(reply, identity, key); terr != nil {
			return nil, terr
		}
	}
	return reply, nil
}

func (t *Table) fillKey(reply *protocol.GetReplyPayload, identity, key string) *TableError {
	switch key {
	case protocol.GetKeyDeal:
		if id, ok := t.engine.DealID(); ok {
			reply.Deal = id.String()
		}
	case protocol.GetKeyPhase:
		if phase, ok := t.engine.Phase(); ok {
			reply.Phase = phase.String()
		}
	case protocol.GetKeyPositionInTurn:
		if seat, ok := t.engine.PositionInTurn(); ok {
			reply.PositionInTurn = seat.String()
		}
	case protocol.GetKeyCalls:
		if bidding := t.engine.Bidding(); bidding != nil {
			reply.Calls = protocol.FromCallSequence(bidding)
		}
	case protocol.GetKeyAllowedCalls:
		reply.AllowedCalls = t.allowedCalls(identity)
	case protocol.GetKeyDeclarer:
		if declarer, ok := t.engine.Declarer(); ok {
			reply.Declarer = declarer.String()
		}
	case protocol.GetKeyContract:
		if bidding := t.engine.Bidding(); bidding != nil {
			if contract, ok := bidding.Contract(); ok {
				info := protocol.FromContract(contract)
				reply.Contract = &info
			}
		}
	case protocol.GetKeyCards:
		reply.Cards = t.visibleCards(identity)
	case protocol.GetKeyAllowedCards:
		reply.AllowedCards = t.allowedCards(identity)
	case protocol.GetKeyTrick:
		if trick := t.engine.CurrentTrick(); trick != nil && !trick.IsCompleted() {
			reply.Trick = protocol.FromPlayedCards(trick.Cards())
		}
	case protocol.GetKeyTricksWon:
		if _, ok := t.engine.Phase(); ok {
			northSouth, eastWest := t.engine.TricksWon()
			reply.TricksWon = &protocol.TricksWonInfo{NorthSouth: northSouth, EastWest: eastWest}
		}
	case protocol.GetKeyVulnerability:
		if v, ok := t.engine.Vulnerability(); ok {
			info := protocol.FromVulnerability(v)
			reply.Vulnerability = &info
		}
	case protocol.GetKeyScore:
		reply.Score = t.scoreEntries()
	case protocol.GetKeySelf:
		if seat, ok := t.control.GetPosition(identity); ok {
			reply.Self = seat.String()
		}
	default:
		return ErrUnknownKey
	}
	return nil
}

// allowedCalls 轮到身份可控的座位喊叫时列出全部合法喊叫
func (t *Table) allowedCalls(identity string) []protocol.CallInfo {
	if phase, ok := t.engine.Phase(); !ok || phase != game.PhaseBidding {
		return nil
	}
	inTurn, ok := t.engine.PositionInTurn()
	if !ok || !t.control.IsAllowedToAct(identity, inTurn) {
		return nil
	}
	calls := t.engine.Bidding().AllowedCalls()
	infos := make([]protocol.CallInfo, len(calls))
	for i, call := range calls {
		infos[i] = protocol.FromCall(call)
	}
	return infos
}

// allowedCards 轮到身份行动时列出当前手牌里全部合法可出的牌
func (t *Table) allowedCards(identity string) []protocol.CardInfo {
	inTurn, ok := t.engine.PositionInTurn()
	if !ok || !t.control.IsAllowedToAct(identity, inTurn) {
		return nil
	}
	trick := t.engine.CurrentTrick()
	if trick == nil || trick.IsCompleted() {
		return nil
	}
	return protocol.FromCards(trick.AllowedCards())
}

// visibleCards 收集身份可见的手牌：自己座位的手牌，以及摊牌后的明手
func (t *Table) visibleCards(identity string) map[string][]protocol.CardInfo {
	cards := make(map[string][]protocol.CardInfo)
	dummy, dummyVisible := t.engine.Dummy()
	for _, seat := range game.Positions() {
		if !t.control.IsAllowedToAct(identity, seat) {
			if !dummyVisible || seat != dummy {
				continue
			}
		}
		h := t.engine.Hand(seat)
		if h == nil {
			continue
		}
		cards[seat.String()] = handCards(h)
	}
	if len(cards) == 0 {
		return nil
	}
	return cards
}

// handCards 列出手牌中已知且未打出的牌
func handCards(h *game.Hand) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, 0, h.NumCards())
	for n := 0; n < h.NumCards(); n++ {
		if c, ok := h.Card(n); ok {
			infos = append(infos, protocol.FromCard(c))
		}
	}
	return infos
}

// scoreEntries 计分表，流局的一副在表中为 null
func (t *Table) scoreEntries() []*protocol.ScoreInfo {
	entries := t.gameManager.Sheet().Entries()
	infos := make([]*protocol.ScoreInfo, len(entries))
	for i, entry := range entries {
		infos[i] = protocol.FromDealScore(entry)
	}
	return infos
}
