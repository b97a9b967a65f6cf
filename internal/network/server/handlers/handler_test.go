package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
	"github.com/zhouqilin/bridge-table/internal/network/server/types"
	"github.com/zhouqilin/bridge-table/internal/testutil"
)

// mockTable 记录调用并返回预设结果
type mockTable struct {
	joinIdentity string
	joinPosition string
	joinReply    *protocol.JoinedPayload
	joinErr      *types.TableError

	peerPositions []string
	peerReply     *protocol.PeerAcceptedPayload
	peerErr       *types.TableError

	callPayload *protocol.CallPayload
	callErr     *types.TableError
	playPayload *protocol.PlayPayload
	playErr     *types.TableError
	dealPayload *protocol.DealPayload
	dealErr     *types.TableError

	getKeys  []string
	getReply *protocol.GetReplyPayload
	getErr   *types.TableError

	seat   string
	seated bool
}

func (m *mockTable) Join(identity, position string) (*protocol.JoinedPayload, *types.TableError) {
	m.joinIdentity, m.joinPosition = identity, position
	return m.joinReply, m.joinErr
}

func (m *mockTable) AddPeer(identity string, positions []string) (*protocol.PeerAcceptedPayload, *types.TableError) {
	m.peerPositions = positions
	return m.peerReply, m.peerErr
}

func (m *mockTable) Call(identity string, payload *protocol.CallPayload) *types.TableError {
	m.callPayload = payload
	return m.callErr
}

func (m *mockTable) Play(identity string, payload *protocol.PlayPayload) *types.TableError {
	m.playPayload = payload
	return m.playErr
}

func (m *mockTable) Deal(identity string, payload *protocol.DealPayload) *types.TableError {
	m.dealPayload = payload
	return m.dealErr
}

func (m *mockTable) Get(identity string, keys []string) (*protocol.GetReplyPayload, *types.TableError) {
	m.getKeys = keys
	return m.getReply, m.getErr
}

func (m *mockTable) SeatOf(identity string) (string, bool) {
	return m.seat, m.seated
}

// mockServer 最小的 ServerContext 实现
type mockServer struct {
	table     *mockTable
	sessions  *testutil.MemorySessionStore
	clients   map[string]types.ClientInterface
	published []*protocol.Message
}

func newMockServer() *mockServer {
	return &mockServer{
		table:    &mockTable{},
		sessions: testutil.NewMemorySessionStore(),
		clients:  make(map[string]types.ClientInterface),
	}
}

func (m *mockServer) GetTable() types.TableInterface               { return m.table }
func (m *mockServer) GetSessionStore() types.SessionStoreInterface { return m.sessions }
func (m *mockServer) GetOnlineCount() int                          { return len(m.clients) }
func (m *mockServer) Publish(msg *protocol.Message)                { m.published = append(m.published, msg) }

func (m *mockServer) GetClientByIdentity(identity string) types.ClientInterface {
	return m.clients[identity]
}

func (m *mockServer) RegisterClient(identity string, client types.ClientInterface) {
	m.clients[identity] = client
}

func (m *mockServer) UnregisterClient(identity string) {
	delete(m.clients, identity)
}

func parseReply[T any](t *testing.T, msg *protocol.Message) *T {
	t.Helper()
	payload, err := protocol.ParsePayload[T](msg)
	require.NoError(t, err)
	return payload
}

func TestHandlePing(t *testing.T) {
	server := newMockServer()
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("alice")

	sent := time.Now().UnixMilli()
	handler.Handle(client, protocol.MustNewMessage(protocol.MsgPing, protocol.PingPayload{
		Timestamp: sent,
	}))

	msg := client.LastMessage(t)
	assert.Equal(t, protocol.MsgPong, msg.Type)
	pong := parseReply[protocol.PongPayload](t, msg)
	assert.Equal(t, sent, pong.ClientTimestamp)
	assert.GreaterOrEqual(t, pong.ServerTimestamp, sent)
}

func TestHandleJoin(t *testing.T) {
	server := newMockServer()
	server.table.joinReply = &protocol.JoinedPayload{Identity: "alice", Position: "north"}
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("alice")

	handler.Handle(client, protocol.MustNewMessage(protocol.MsgJoin, protocol.JoinPayload{}))

	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgJoined, msg.Type)
	joined := parseReply[protocol.JoinedPayload](t, msg)
	assert.Equal(t, "north", joined.Position)
	assert.Equal(t, "alice", server.table.joinIdentity)

	// 座位写入会话
	seat, ok := server.sessions.SeatOf(context.Background(), "alice")
	require.True(t, ok)
	assert.Equal(t, "north", seat)
}

func TestHandleJoin_TableError(t *testing.T) {
	server := newMockServer()
	server.table.joinErr = &types.TableError{Code: protocol.ErrCodeSeatTaken, Message: "座位已被占用"}
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("bob")

	handler.Handle(client, protocol.MustNewMessage(protocol.MsgJoin, protocol.JoinPayload{Position: "north"}))

	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgError, msg.Type)
	errPayload := parseReply[protocol.ErrorPayload](t, msg)
	assert.Equal(t, protocol.ErrCodeSeatTaken, errPayload.Code)
}

func TestHandlePeer(t *testing.T) {
	server := newMockServer()
	server.table.peerReply = &protocol.PeerAcceptedPayload{
		Identity:  "peer-1",
		Positions: []string{"east", "west"},
	}
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("peer-1")

	handler.Handle(client, protocol.MustNewMessage(protocol.MsgPeer, protocol.PeerPayload{
		Positions: []string{"east", "west"},
	}))

	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgPeerAccepted, msg.Type)
	assert.Equal(t, []string{"east", "west"}, server.table.peerPositions)
}

func TestHandleCall(t *testing.T) {
	server := newMockServer()
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("alice")

	handler.Handle(client, protocol.MustNewMessage(protocol.MsgCall, protocol.CallPayload{
		Call: protocol.CallInfo{Type: "pass"},
	}))

	// 成功的喊叫回一条确认，牌局进展通过广播事件体现
	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgAck, msg.Type)
	ackPayload := parseReply[protocol.AckPayload](t, msg)
	assert.Equal(t, protocol.MsgCall, ackPayload.Type)
	require.NotNil(t, server.table.callPayload)
	assert.Equal(t, "pass", server.table.callPayload.Call.Type)
}

func TestHandleCall_Error(t *testing.T) {
	server := newMockServer()
	server.table.callErr = &types.TableError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("alice")

	handler.Handle(client, protocol.MustNewMessage(protocol.MsgCall, protocol.CallPayload{
		Call: protocol.CallInfo{Type: "pass"},
	}))

	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgError, msg.Type)
	errPayload := parseReply[protocol.ErrorPayload](t, msg)
	assert.Equal(t, protocol.ErrCodeNotYourTurn, errPayload.Code)
}

func TestHandlePlay(t *testing.T) {
	server := newMockServer()
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("alice")

	index := 3
	handler.Handle(client, protocol.MustNewMessage(protocol.MsgPlay, protocol.PlayPayload{
		Index: &index,
	}))

	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgAck, msg.Type)
	ackPayload := parseReply[protocol.AckPayload](t, msg)
	assert.Equal(t, protocol.MsgPlay, ackPayload.Type)
	require.NotNil(t, server.table.playPayload)
	require.NotNil(t, server.table.playPayload.Index)
	assert.Equal(t, 3, *server.table.playPayload.Index)
}

func TestHandleDeal(t *testing.T) {
	server := newMockServer()
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("peer-1")

	handler.Handle(client, protocol.MustNewMessage(protocol.MsgDeal, protocol.DealPayload{
		Cards: []protocol.CardInfo{{Rank: "2", Suit: "clubs"}},
	}))

	// 接受的公布回确认，发布方据此不再重发
	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgAck, msg.Type)
	ackPayload := parseReply[protocol.AckPayload](t, msg)
	assert.Equal(t, protocol.MsgDeal, ackPayload.Type)
	require.NotNil(t, server.table.dealPayload)
}

func TestHandleDeal_Rejected(t *testing.T) {
	server := newMockServer()
	server.table.dealErr = &types.TableError{Code: protocol.ErrCodeInvalidDeal, Message: "非法的发牌公布"}
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("peer-1")

	handler.Handle(client, protocol.MustNewMessage(protocol.MsgDeal, protocol.DealPayload{}))

	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgError, msg.Type)
	errPayload := parseReply[protocol.ErrorPayload](t, msg)
	assert.Equal(t, protocol.ErrCodeInvalidDeal, errPayload.Code)
}

func TestHandleGet(t *testing.T) {
	server := newMockServer()
	server.table.getReply = &protocol.GetReplyPayload{Phase: "bidding", Self: "north"}
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("alice")

	handler.Handle(client, protocol.MustNewMessage(protocol.MsgGet, protocol.GetPayload{
		Keys: []string{protocol.GetKeyPhase},
	}))

	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgGetReply, msg.Type)
	reply := parseReply[protocol.GetReplyPayload](t, msg)
	assert.Equal(t, "bidding", reply.Phase)
	assert.Equal(t, []string{protocol.GetKeyPhase}, server.table.getKeys)
}

func TestHandleGet_NoPayload(t *testing.T) {
	server := newMockServer()
	server.table.getReply = &protocol.GetReplyPayload{Phase: "bidding"}
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("alice")

	// 不带 payload 的 get 查询全部可见状态
	handler.Handle(client, &protocol.Message{Type: protocol.MsgGet})

	msg := client.LastMessage(t)
	assert.Equal(t, protocol.MsgGetReply, msg.Type)
	assert.Nil(t, server.table.getKeys)
}

func TestHandleReconnect(t *testing.T) {
	server := newMockServer()
	token, err := server.sessions.CreateSession(context.Background(), "alice")
	require.NoError(t, err)
	server.table.seat, server.table.seated = "north", true
	server.table.getReply = &protocol.GetReplyPayload{Phase: "bidding", Self: "north"}

	handler := NewHandler(server)
	client := testutil.NewRecordingClient("temp-id")
	server.RegisterClient("temp-id", client)

	handler.Handle(client, protocol.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    token,
		Identity: "alice",
	}))

	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgReconnected, msg.Type)
	reply := parseReply[protocol.ReconnectedPayload](t, msg)
	assert.Equal(t, "alice", reply.Identity)
	assert.Equal(t, "north", reply.Position)
	require.NotNil(t, reply.State)
	assert.Equal(t, "bidding", reply.State.Phase)

	// 连接换绑到原身份
	assert.Equal(t, "alice", client.GetIdentity())
	assert.Nil(t, server.GetClientByIdentity("temp-id"))
	assert.Equal(t, client, server.GetClientByIdentity("alice"))
}

func TestHandleReconnect_BadToken(t *testing.T) {
	server := newMockServer()
	_, err := server.sessions.CreateSession(context.Background(), "alice")
	require.NoError(t, err)

	handler := NewHandler(server)
	client := testutil.NewRecordingClient("temp-id")

	handler.Handle(client, protocol.MustNewMessage(protocol.MsgReconnect, protocol.ReconnectPayload{
		Token:    "wrong",
		Identity: "alice",
	}))

	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgError, msg.Type)
	assert.Equal(t, "temp-id", client.GetIdentity())
}

func TestHandleLeave(t *testing.T) {
	server := newMockServer()
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("alice")

	handler.Handle(client, &protocol.Message{Type: protocol.MsgLeave})

	assert.True(t, client.Closed)
}

func TestHandleUnknownType(t *testing.T) {
	server := newMockServer()
	handler := NewHandler(server)
	client := testutil.NewRecordingClient("alice")

	handler.Handle(client, &protocol.Message{Type: "dance"})

	msg := client.LastMessage(t)
	require.Equal(t, protocol.MsgError, msg.Type)
	errPayload := parseReply[protocol.ErrorPayload](t, msg)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, errPayload.Code)
}
