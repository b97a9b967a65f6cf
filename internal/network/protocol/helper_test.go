package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	// Test creating a simple message
	payload := JoinPayload{Position: "north"}
	msg, err := NewMessage(MsgJoin, payload)

	assert.NoError(t, err)
	assert.NotNil(t, msg)
	assert.Equal(t, MsgJoin, msg.Type)
	assert.NotEmpty(t, msg.Payload)
}

func TestNewMessage_NilPayload(t *testing.T) {
	msg, err := NewMessage(MsgPong, nil)

	assert.NoError(t, err)
	assert.Equal(t, MsgPong, msg.Type)
	assert.Empty(t, msg.Payload)
}

func TestEncodeDecode(t *testing.T) {
	// Setup original message
	payload := CallPayload{
		Position: "east",
		Call:     CallInfo{Type: "bid", Bid: &BidInfo{Level: 1, Strain: "hearts"}},
	}
	originalMsg, err := NewMessage(MsgCall, payload)
	assert.NoError(t, err)

	// Encode
	bytes, err := originalMsg.Encode()
	assert.NoError(t, err)
	assert.NotEmpty(t, bytes)

	// Decode
	decodedMsg, err := Decode(bytes)
	assert.NoError(t, err)
	assert.NotNil(t, decodedMsg)

	// Verify
	assert.Equal(t, originalMsg.Type, decodedMsg.Type)
	assert.JSONEq(t, string(originalMsg.Payload), string(decodedMsg.Payload))
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestParsePayload(t *testing.T) {
	msg := MustNewMessage(MsgPlay, PlayPayload{
		Position: "south",
		Card:     &CardInfo{Rank: "ace", Suit: "spades"},
	})

	parsed, err := ParsePayload[PlayPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, "south", parsed.Position)
	require.NotNil(t, parsed.Card)
	assert.Equal(t, "ace", parsed.Card.Rank)
	assert.Nil(t, parsed.Index)
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage(ErrCodeNotYourTurn)
	require.Equal(t, MsgError, msg.Type)

	payload, err := ParsePayload[ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, ErrCodeNotYourTurn, payload.Code)
	assert.Equal(t, ErrorMessages[ErrCodeNotYourTurn], payload.Message)
}

func TestNewErrorMessageWithText(t *testing.T) {
	msg := NewErrorMessageWithText(ErrCodeInvalidCall, "自定义错误")

	payload, err := ParsePayload[ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, ErrCodeInvalidCall, payload.Code)
	assert.Equal(t, "自定义错误", payload.Message)
}
