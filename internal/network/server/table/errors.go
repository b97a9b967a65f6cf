package table

import (
	"github.com/zhouqilin/bridge-table/internal/network/protocol"
	"github.com/zhouqilin/bridge-table/internal/network/server/types"
)

// TableError 牌桌错误，实际定义在 types 包以避免循环依赖
type TableError = types.TableError

// 协议边界上使用的预定义错误
var (
	ErrSeatTaken     = &TableError{Code: protocol.ErrCodeSeatTaken, Message: "座位已被占用"}
	ErrNotJoined     = &TableError{Code: protocol.ErrCodeNotJoined, Message: "您尚未入座"}
	ErrSeatsOverlap  = &TableError{Code: protocol.ErrCodeSeatsOverlap, Message: "座位集合与已有节点重叠"}
	ErrNotYourSeat   = &TableError{Code: protocol.ErrCodeNotYourSeat, Message: "您无权以该座位行动"}
	ErrTableNotReady = &TableError{Code: protocol.ErrCodeTableNotReady, Message: "座位未坐满，对局尚未开始"}
	ErrNoDeal        = &TableError{Code: protocol.ErrCodeNoDeal, Message: "没有进行中的一副牌"}
	ErrNotYourTurn   = &TableError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}
	ErrInvalidCall   = &TableError{Code: protocol.ErrCodeInvalidCall, Message: "非法的喊叫"}
	ErrInvalidPlay   = &TableError{Code: protocol.ErrCodeInvalidPlay, Message: "非法的出牌"}
	ErrInvalidDeal   = &TableError{Code: protocol.ErrCodeInvalidDeal, Message: "非法的发牌公布"}
	ErrUnknownKey    = &TableError{Code: protocol.ErrCodeUnknownKey, Message: "未知的查询键"}
	ErrInvalidMsg    = &TableError{Code: protocol.ErrCodeInvalidMsg, Message: "无效的消息格式"}
)
