package protocol

// 错误码
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001
	ErrCodeRateLimit  = 1002 // 速率限制

	ErrCodeSeatTaken     = 2001 // 座位已被占用
	ErrCodeNotJoined     = 2002 // 尚未入座
	ErrCodeSeatsOverlap  = 2003 // 对等节点座位集合与已有重叠
	ErrCodeNotYourSeat   = 2004 // 无权以该座位行动
	ErrCodeTableNotReady = 2005 // 座位未坐满，对局尚未开始

	ErrCodeNoDeal      = 3001 // 没有进行中的一副牌
	ErrCodeNotYourTurn = 3002 // 还没轮到
	ErrCodeInvalidCall = 3003 // 非法喊叫
	ErrCodeInvalidPlay = 3004 // 非法出牌
	ErrCodeInvalidDeal = 3005 // 非法的发牌公布
	ErrCodeUnknownKey  = 3006 // 未知的查询键
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:    "未知错误",
	ErrCodeInvalidMsg: "无效的消息格式",
	ErrCodeRateLimit:  "请求过于频繁",

	ErrCodeSeatTaken:     "座位已被占用",
	ErrCodeNotJoined:     "您尚未入座",
	ErrCodeSeatsOverlap:  "座位集合与已有节点重叠",
	ErrCodeNotYourSeat:   "您无权以该座位行动",
	ErrCodeTableNotReady: "座位未坐满，对局尚未开始",

	ErrCodeNoDeal:      "没有进行中的一副牌",
	ErrCodeNotYourTurn: "还没轮到您",
	ErrCodeInvalidCall: "非法的喊叫",
	ErrCodeInvalidPlay: "非法的出牌",
	ErrCodeInvalidDeal: "非法的发牌公布",
	ErrCodeUnknownKey:  "未知的查询键",
}
