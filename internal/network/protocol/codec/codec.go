package codec

import (
	"encoding/json"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

// Decode 把 JSON 字节解码为池中取出的消息
// 调用方处理完毕后必须用 PutMessage 交还，且不得继续持有
func Decode(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, err
	}
	return msg, nil
}

// Encode 用池化缓冲区把消息编码为 JSON 字节
func Encode(msg *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(msg); err != nil {
		return nil, err
	}

	data := make([]byte, buf.Len())
	copy(data, buf.Bytes())
	return data, nil
}
