package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouqilin/bridge-table/internal/game"
	"github.com/zhouqilin/bridge-table/internal/game/card"
	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

// recordingPublisher 记录发布的全部消息
type recordingPublisher struct {
	messages []*protocol.Message
}

func (p *recordingPublisher) Publish(msg *protocol.Message) {
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) typeSeen(msgType protocol.MessageType) bool {
	for _, msg := range p.messages {
		if msg.Type == msgType {
			return true
		}
	}
	return false
}

func (p *recordingPublisher) last(msgType protocol.MessageType) *protocol.Message {
	for i := len(p.messages) - 1; i >= 0; i-- {
		if p.messages[i].Type == msgType {
			return p.messages[i]
		}
	}
	return nil
}

// recordingPeerSender 记录发往对等节点的命令
type recordingPeerSender struct {
	messages []*protocol.Message
}

func (p *recordingPeerSender) SendToPeers(msg *protocol.Message) {
	p.messages = append(p.messages, msg)
}

// soloTable 四个座位都由本节点控制的牌桌
func soloTable(t *testing.T) (*Table, *recordingPublisher) {
	t.Helper()
	publisher := &recordingPublisher{}
	all := game.Positions()
	tbl := New(Config{SelfSeats: all[:], LeaderSeat: game.North}, publisher)
	return tbl, publisher
}

// joinAll 按 north, east, south, west 顺序入座四个客户端
func joinAll(t *testing.T, tbl *Table) map[game.Position]string {
	t.Helper()
	identities := []string{"alice", "bob", "carol", "dave"}
	seats := make(map[game.Position]string)
	for _, identity := range identities {
		joined, terr := tbl.Join(identity, "")
		require.Nil(t, terr)
		seat, err := game.PositionFromName(joined.Position)
		require.NoError(t, err)
		seats[seat] = identity
	}
	return seats
}

func TestTable_DealStartsWhenAllSeatsAssigned(t *testing.T) {
	tbl, publisher := soloTable(t)
	peers := &recordingPeerSender{}
	tbl.AttachPeerSender(peers)

	tbl.mu.Lock()
	_, started := tbl.engine.DealID()
	tbl.mu.Unlock()
	assert.False(t, started)

	joinAll(t, tbl)

	// 整副牌只发往对等节点，客户端广播里没有任何暗牌
	assert.False(t, publisher.typeSeen(protocol.MsgDeal))
	require.Len(t, peers.messages, 1)
	assert.Equal(t, protocol.MsgDeal, peers.messages[0].Type)
	dealCmd, err := protocol.ParsePayload[protocol.DealPayload](peers.messages[0])
	require.NoError(t, err)
	assert.Len(t, dealCmd.Cards, card.DeckSize)

	assert.True(t, publisher.typeSeen(protocol.MsgDealStarted))
	assert.True(t, publisher.typeSeen(protocol.MsgTurn))

	dealStarted := publisher.last(protocol.MsgDealStarted)
	payload, err := protocol.ParsePayload[protocol.DealStartedPayload](dealStarted)
	require.NoError(t, err)
	assert.Equal(t, "north", payload.Opener)
	assert.False(t, payload.Vulnerability.NorthSouth)
	assert.False(t, payload.Vulnerability.EastWest)
}

func TestTable_JoinErrors(t *testing.T) {
	tbl, _ := soloTable(t)

	_, terr := tbl.Join("alice", "nowhere")
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, terr.Code)

	_, terr = tbl.Join("alice", "south")
	require.Nil(t, terr)

	// 座位已被占用
	_, terr = tbl.Join("bob", "south")
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeSeatTaken, terr.Code)

	joinAll(t, tbl)

	// 座位用完
	_, terr = tbl.Join("eve", "")
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeSeatTaken, terr.Code)
}

func pass() protocol.CallInfo {
	return protocol.CallInfo{Type: "pass"}
}

func TestTable_CallBeforeDeal(t *testing.T) {
	tbl, _ := soloTable(t)
	_, terr := tbl.Join("alice", "")
	require.Nil(t, terr)

	// 座位未坐满，对局尚未开始
	terr = tbl.Call("alice", &protocol.CallPayload{Call: pass()})
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeTableNotReady, terr.Code)

	terr = tbl.Play("alice", &protocol.PlayPayload{Card: &protocol.CardInfo{Rank: "2", Suit: "clubs"}})
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeTableNotReady, terr.Code)
}

func TestTable_PassedOutDealRestartsNext(t *testing.T) {
	tbl, publisher := soloTable(t)
	seats := joinAll(t, tbl)

	// 未轮到的身份喊叫被拒绝
	terr := tbl.Call(seats[game.East], &protocol.CallPayload{Call: pass()})
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeNotYourTurn, terr.Code)

	// 未入座身份
	terr = tbl.Call("stranger", &protocol.CallPayload{Call: pass()})
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeNotJoined, terr.Code)

	// 四家依次不叫，流局
	for _, seat := range game.Positions() {
		terr := tbl.Call(seats[seat], &protocol.CallPayload{Call: pass()})
		require.Nil(t, terr)
	}

	ended := publisher.last(protocol.MsgDealEnded)
	require.NotNil(t, ended)
	payload, err := protocol.ParsePayload[protocol.DealEndedPayload](ended)
	require.NoError(t, err)
	assert.Nil(t, payload.Result)

	// 紧接着自动开下一副，首叫轮转到东家
	next := publisher.last(protocol.MsgDealStarted)
	require.NotNil(t, next)
	started, err := protocol.ParsePayload[protocol.DealStartedPayload](next)
	require.NoError(t, err)
	assert.Equal(t, "east", started.Opener)
	assert.NotEqual(t, payload.Deal, started.Deal)

	// 计分表记下流局
	reply, terr := tbl.Get(seats[game.North], []string{protocol.GetKeyScore})
	require.Nil(t, terr)
	require.Len(t, reply.Score, 1)
	assert.Nil(t, reply.Score[0])
}

func TestTable_InvalidCallRejected(t *testing.T) {
	tbl, _ := soloTable(t)
	seats := joinAll(t, tbl)

	terr := tbl.Call(seats[game.North], &protocol.CallPayload{
		Call: protocol.CallInfo{Type: "shout"},
	})
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeInvalidCall, terr.Code)

	// 没有定约时加倍非法
	terr = tbl.Call(seats[game.North], &protocol.CallPayload{
		Call: protocol.CallInfo{Type: "double"},
	})
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeInvalidCall, terr.Code)
}

func TestTable_GetVisibility(t *testing.T) {
	tbl, _ := soloTable(t)
	seats := joinAll(t, tbl)

	reply, terr := tbl.Get(seats[game.North], nil)
	require.Nil(t, terr)

	assert.NotEmpty(t, reply.Deal)
	assert.Equal(t, "bidding", reply.Phase)
	assert.Equal(t, "north", reply.PositionInTurn)
	assert.Equal(t, "north", reply.Self)
	assert.Empty(t, reply.Calls)
	assert.NotEmpty(t, reply.AllowedCalls)

	// 只能看见自己的手牌
	require.Len(t, reply.Cards, 1)
	assert.Len(t, reply.Cards["north"], game.CardsPerPosition)

	// 未轮到的身份看不到合法喊叫
	reply, terr = tbl.Get(seats[game.East], nil)
	require.Nil(t, terr)
	assert.Empty(t, reply.AllowedCalls)
	require.Len(t, reply.Cards, 1)
	assert.Len(t, reply.Cards["east"], game.CardsPerPosition)

	// 未入座与未知键
	_, terr = tbl.Get("stranger", nil)
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeNotJoined, terr.Code)

	_, terr = tbl.Get(seats[game.North], []string{"bogus"})
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeUnknownKey, terr.Code)
}

func TestTable_PeerAnnouncesDeckAsLeader(t *testing.T) {
	publisher := &recordingPublisher{}
	tbl := New(Config{
		SelfSeats:  []game.Position{game.North},
		LeaderSeat: game.North,
	}, publisher)
	peers := &recordingPeerSender{}
	tbl.AttachPeerSender(peers)

	_, terr := tbl.Join("alice", "")
	require.Nil(t, terr)

	// 与已有座位重叠的认领被拒绝
	_, terr = tbl.AddPeer("peer-1", []string{"north", "east"})
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeSeatsOverlap, terr.Code)

	_, terr = tbl.AddPeer("peer-1", []string{"east", "south", "west"})
	require.Nil(t, terr)

	// 本节点是首席，整副牌发往对等节点后开局
	require.Len(t, peers.messages, 1)
	assert.Equal(t, protocol.MsgDeal, peers.messages[0].Type)
	assert.False(t, publisher.typeSeen(protocol.MsgDeal))
	assert.True(t, publisher.typeSeen(protocol.MsgDealStarted))
}

func TestTable_AcceptsDealOnlyFromLeaderSeatOwner(t *testing.T) {
	publisher := &recordingPublisher{}
	tbl := New(Config{
		SelfSeats:  []game.Position{game.North},
		LeaderSeat: game.East,
	}, publisher)

	_, terr := tbl.Join("alice", "")
	require.Nil(t, terr)
	_, terr = tbl.AddPeer("peer-1", []string{"east", "south", "west"})
	require.Nil(t, terr)

	// 首席在对等节点那边，本节点等待公布
	assert.False(t, publisher.typeSeen(protocol.MsgDealStarted))

	deck := card.NewDeck()
	payload := &protocol.DealPayload{Cards: protocol.FromCards(deck)}

	// 不控制首席座位的身份无权公布
	terr = tbl.Deal("alice", payload)
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeNotYourSeat, terr.Code)

	// 未入座身份
	terr = tbl.Deal("stranger", payload)
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeNotJoined, terr.Code)

	// 首席座位的控制者公布后开局
	terr = tbl.Deal("peer-1", payload)
	require.Nil(t, terr)
	assert.True(t, publisher.typeSeen(protocol.MsgDealStarted))

	// 洗牌已完成，重复公布被拒绝
	terr = tbl.Deal("peer-1", payload)
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeInvalidDeal, terr.Code)

	// 牌数不足
	terr = tbl.Deal("peer-1", &protocol.DealPayload{Cards: protocol.FromCards(deck[:51])})
	require.NotNil(t, terr)
	assert.Equal(t, protocol.ErrCodeInvalidDeal, terr.Code)
}
