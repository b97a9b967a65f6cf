package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端/对等节点 → 本节点 消息类型
const (
	// 连接操作
	MsgReconnect MessageType = "reconnect" // 断线重连
	MsgPing      MessageType = "ping"      // 心跳 ping

	// 入座操作
	MsgJoin  MessageType = "join"  // 客户端申请入座
	MsgPeer  MessageType = "peer"  // 对等节点握手并认领座位集合
	MsgLeave MessageType = "leave" // 离座

	// 对局操作
	MsgCall MessageType = "call" // 喊叫
	MsgPlay MessageType = "play" // 出牌
	MsgDeal MessageType = "deal" // 首席节点公布整副牌
	MsgGet  MessageType = "get"  // 查询对局状态
)

// 本节点 → 客户端/对等节点 消息类型
const (
	// 连接相关
	MsgConnected   MessageType = "connected"   // 连接成功
	MsgReconnected MessageType = "reconnected" // 重连成功
	MsgPong        MessageType = "pong"        // 心跳 pong

	// 入座相关
	MsgJoined       MessageType = "joined"        // 入座成功
	MsgPeerAccepted MessageType = "peer_accepted" // 对等握手成功
	MsgPlayerJoined MessageType = "player_joined" // 其他身份入座

	// 对局事件
	MsgDealStarted      MessageType = "deal_started"      // 新一副牌开始
	MsgTurn             MessageType = "turn"              // 轮到某方行动
	MsgCallMade         MessageType = "call_made"         // 有人喊叫
	MsgBiddingCompleted MessageType = "bidding_completed" // 叫牌结束定约产生
	MsgTrickStarted     MessageType = "trick_started"     // 新一墩开始
	MsgCardPlayed       MessageType = "card_played"       // 有人出牌
	MsgTrickCompleted   MessageType = "trick_completed"   // 一墩结束
	MsgDummyRevealed    MessageType = "dummy_revealed"    // 明手摊牌
	MsgDealEnded        MessageType = "deal_ended"        // 一副牌结束

	// 查询响应
	MsgGetReply MessageType = "get_reply" // 状态查询结果

	// 命令确认，对等节点据此推进待确认队列
	MsgAck MessageType = "ack"

	// 错误
	MsgError MessageType = "error" // 错误消息
)

// 本节点 ⇆ 外部牌张服务器 消息类型（cardserver 牌张协议）
const (
	MsgShuffleRequest   MessageType = "shuffle_request"   // 请求洗牌
	MsgRevealRequest    MessageType = "reveal_request"    // 请求翻开若干张牌
	MsgShuffleCompleted MessageType = "shuffle_completed" // 洗牌完成
	MsgRevealCompleted  MessageType = "reveal_completed"  // 翻牌结果
)

// --- 通用数据结构 ---

// CardInfo 牌信息
type CardInfo struct {
	Rank string `json:"rank"` // "2".."10", "jack", "queen", "king", "ace"
	Suit string `json:"suit"` // "clubs", "diamonds", "hearts", "spades"
}

// BidInfo 叫牌信息
type BidInfo struct {
	Level  int    `json:"level"`  // 1-7
	Strain string `json:"strain"` // "clubs".."notrump"
}

// CallInfo 喊叫信息
type CallInfo struct {
	Type string   `json:"type"`          // "pass", "double", "redouble", "bid"
	Bid  *BidInfo `json:"bid,omitempty"` // 仅 type == "bid" 时存在
}

// ContractInfo 定约信息
type ContractInfo struct {
	Bid      BidInfo `json:"bid"`
	Doubling string  `json:"doubling"` // "undoubled", "doubled", "redoubled"
}

// VulnerabilityInfo 局况信息
type VulnerabilityInfo struct {
	NorthSouth bool `json:"northSouth"`
	EastWest   bool `json:"eastWest"`
}

// PositionCallInfo 喊叫序列中的一项
type PositionCallInfo struct {
	Position string   `json:"position"`
	Call     CallInfo `json:"call"`
}

// PlayedCardInfo 一墩中的一次出牌
type PlayedCardInfo struct {
	Position string   `json:"position"`
	Card     CardInfo `json:"card"`
}

// ScoreInfo 计分表中的一行，流局的一副在表中为 null
type ScoreInfo struct {
	Partnership string `json:"partnership"` // "northSouth", "eastWest"
	Score       int    `json:"score"`
}

// --- 客户端/对等节点请求 Payloads ---

// ReconnectPayload 断线重连请求
type ReconnectPayload struct {
	Token    string `json:"token"`    // 重连令牌
	Identity string `json:"identity"` // 身份 ID
}

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// JoinPayload 入座请求，不指定方位时由节点按配置顺序分配
type JoinPayload struct {
	Position string `json:"position,omitempty"`
}

// PeerPayload 对等节点握手请求，认领一组互不重叠的座位
type PeerPayload struct {
	Positions []string `json:"positions"`
}

// CallPayload 喊叫请求
// 身份只控制一个座位时 position 可省略
type CallPayload struct {
	Position string   `json:"position,omitempty"`
	Call     CallInfo `json:"call"`
}

// PlayPayload 出牌请求
// 牌以具体牌面或手牌槽位二选一给出；身份只控制一个座位时
// position 可省略，出的永远是当前轮到的手牌
type PlayPayload struct {
	Position string    `json:"position,omitempty"`
	Card     *CardInfo `json:"card,omitempty"`
	Index    *int      `json:"index,omitempty"`
}

// DealPayload 首席节点公布整副牌
type DealPayload struct {
	Cards []CardInfo `json:"cards"` // 按整副牌下标排列的 52 张
}

// GetPayload 状态查询请求，keys 为空时返回全部可见状态
type GetPayload struct {
	Keys []string `json:"keys,omitempty"`
}

// get 查询支持的键名
const (
	GetKeyDeal           = "deal"
	GetKeyPhase          = "phase"
	GetKeyPositionInTurn = "positionInTurn"
	GetKeyCalls          = "calls"
	GetKeyAllowedCalls   = "allowedCalls"
	GetKeyDeclarer       = "declarer"
	GetKeyContract       = "contract"
	GetKeyCards          = "cards"
	GetKeyAllowedCards   = "allowedCards"
	GetKeyTrick          = "trick"
	GetKeyTricksWon      = "tricksWon"
	GetKeyVulnerability  = "vulnerability"
	GetKeyScore          = "score"
	GetKeySelf           = "self"
)

// --- 牌张服务器 Payloads ---

// RevealRequestPayload 请求翻开整副牌中给定下标的牌
type RevealRequestPayload struct {
	Indexes []int `json:"indexes"`
}

// RevealCompletedPayload 翻牌结果，indexes 与 cards 一一对应
type RevealCompletedPayload struct {
	Indexes []int      `json:"indexes"`
	Cards   []CardInfo `json:"cards"`
}

// --- 本节点响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	Identity       string `json:"identity"`
	ReconnectToken string `json:"reconnect_token"` // 重连令牌
}

// ReconnectedPayload 重连成功响应
type ReconnectedPayload struct {
	Identity string           `json:"identity"`
	Position string           `json:"position,omitempty"` // 重连前的座位
	State    *GetReplyPayload `json:"state,omitempty"`    // 对局中的可见状态
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 节点时间戳（毫秒）
}

// JoinedPayload 入座成功响应
type JoinedPayload struct {
	Identity string `json:"identity"`
	Position string `json:"position"`
}

// PeerAcceptedPayload 对等握手成功响应
type PeerAcceptedPayload struct {
	Identity  string   `json:"identity"`
	Positions []string `json:"positions"`
}

// PlayerJoinedPayload 其他身份入座通知
type PlayerJoinedPayload struct {
	Identity string `json:"identity"`
	Position string `json:"position"`
}

// DealStartedPayload 新一副牌开始通知
type DealStartedPayload struct {
	Deal          string            `json:"deal"` // 一副牌的 UUID
	Opener        string            `json:"opener"`
	Vulnerability VulnerabilityInfo `json:"vulnerability"`
}

// TurnPayload 轮次通知，轮到明手时 position 为庄家
type TurnPayload struct {
	Deal     string `json:"deal"`
	Position string `json:"position"`
}

// CallMadePayload 喊叫通知
type CallMadePayload struct {
	Deal     string   `json:"deal"`
	Position string   `json:"position"`
	Call     CallInfo `json:"call"`
}

// BiddingCompletedPayload 叫牌结束通知
type BiddingCompletedPayload struct {
	Deal     string       `json:"deal"`
	Declarer string       `json:"declarer"`
	Contract ContractInfo `json:"contract"`
}

// TrickStartedPayload 新一墩开始通知
type TrickStartedPayload struct {
	Deal   string `json:"deal"`
	Leader string `json:"leader"`
}

// CardPlayedPayload 出牌通知
type CardPlayedPayload struct {
	Deal     string   `json:"deal"`
	Position string   `json:"position"`
	Card     CardInfo `json:"card"`
}

// TrickCompletedPayload 一墩结束通知
type TrickCompletedPayload struct {
	Deal   string           `json:"deal"`
	Cards  []PlayedCardInfo `json:"cards"`
	Winner string           `json:"winner"`
}

// DummyRevealedPayload 明手摊牌通知
type DummyRevealedPayload struct {
	Deal     string     `json:"deal"`
	Position string     `json:"position"`
	Cards    []CardInfo `json:"cards"`
}

// DealEndedPayload 一副牌结束通知，流局时 result 为 null
type DealEndedPayload struct {
	Deal   string     `json:"deal"`
	Result *ScoreInfo `json:"result"`
}

// TricksWonInfo 双方已赢墩数
type TricksWonInfo struct {
	NorthSouth int `json:"northSouth"`
	EastWest   int `json:"eastWest"`
}

// GetReplyPayload 状态查询结果
// 只包含请求的键，且手牌内容按查询身份的可见范围裁剪
type GetReplyPayload struct {
	Deal           string                `json:"deal,omitempty"`
	Phase          string                `json:"phase,omitempty"`
	PositionInTurn string                `json:"positionInTurn,omitempty"`
	Calls          []PositionCallInfo    `json:"calls,omitempty"`
	AllowedCalls   []CallInfo            `json:"allowedCalls,omitempty"`
	Declarer       string                `json:"declarer,omitempty"`
	Contract       *ContractInfo         `json:"contract,omitempty"`
	Cards          map[string][]CardInfo `json:"cards,omitempty"`
	AllowedCards   []CardInfo            `json:"allowedCards,omitempty"`
	Trick          []PlayedCardInfo      `json:"trick,omitempty"`
	TricksWon      *TricksWonInfo        `json:"tricksWon,omitempty"`
	Vulnerability  *VulnerabilityInfo    `json:"vulnerability,omitempty"`
	Score          []*ScoreInfo          `json:"score,omitempty"`
	Self           string                `json:"self,omitempty"`
}

// AckPayload 命令确认，携带被确认命令的类型
type AckPayload struct {
	Type MessageType `json:"type"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
