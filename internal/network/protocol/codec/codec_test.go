package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	original := protocol.MustNewMessage(protocol.MsgJoin, protocol.JoinPayload{
		Position: "north",
	})

	data, err := Encode(original)
	require.NoError(t, err)

	msg, err := Decode(data)
	require.NoError(t, err)
	defer PutMessage(msg)

	assert.Equal(t, protocol.MsgJoin, msg.Type)
	payload, err := protocol.ParsePayload[protocol.JoinPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, "north", payload.Position)
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}
