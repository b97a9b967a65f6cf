package game

import (
	"fmt"

	"github.com/zhouqilin/bridge-table/internal/game/card"
)

// Strain 定义叫牌花色，比牌张花色多出无将，顺序即叫牌的低到高
type Strain int

const (
	StrainClubs Strain = iota
	StrainDiamonds
	StrainHearts
	StrainSpades
	StrainNoTrump
)

// NumStrains 叫牌花色数量
const NumStrains = 5

// strainNames 叫牌花色的协议名称映射表
var strainNames = map[Strain]string{
	StrainClubs:    "clubs",
	StrainDiamonds: "diamonds",
	StrainHearts:   "hearts",
	StrainSpades:   "spades",
	StrainNoTrump:  "notrump",
}

func (s Strain) String() string {
	if name, ok := strainNames[s]; ok {
		return name
	}
	return "?"
}

// StrainFromName 根据协议名称查找叫牌花色
func StrainFromName(name string) (Strain, error) {
	for s, n := range strainNames {
		if n == name {
			return s, nil
		}
	}
	return -1, fmt.Errorf("无法识别的叫牌花色: %q", name)
}

// Trump 返回叫牌花色对应的将牌花色，无将时 ok 为 false
func (s Strain) Trump() (card.Suit, bool) {
	switch s {
	case StrainClubs:
		return card.Clubs, true
	case StrainDiamonds:
		return card.Diamonds, true
	case StrainHearts:
		return card.Hearts, true
	case StrainSpades:
		return card.Spades, true
	}
	return 0, false
}

const (
	// MinLevel 最低叫牌阶数
	MinLevel = 1
	// MaxLevel 最高叫牌阶数
	MaxLevel = 7
)

// Bid 定义一个叫牌，由阶数和花色组成
type Bid struct {
	Level  int
	Strain Strain
}

// NewBid 构造叫牌，阶数越界视为内部错误
func NewBid(level int, strain Strain) Bid {
	if level < MinLevel || level > MaxLevel {
		panic(fmt.Sprintf("game: 非法叫牌阶数: %d", level))
	}
	return Bid{Level: level, Strain: strain}
}

// LowestBid 最低的叫牌（1♣）
var LowestBid = Bid{Level: MinLevel, Strain: StrainClubs}

// HighestBid 最高的叫牌（7NT）
var HighestBid = Bid{Level: MaxLevel, Strain: StrainNoTrump}

// Less 按 (阶数, 花色) 的字典序比较两个叫牌
func (b Bid) Less(other Bid) bool {
	if b.Level != other.Level {
		return b.Level < other.Level
	}
	return b.Strain < other.Strain
}

// Next 返回紧邻其上的叫牌，已是最高叫牌时 ok 为 false
func (b Bid) Next() (Bid, bool) {
	if b.Strain < StrainNoTrump {
		return Bid{Level: b.Level, Strain: b.Strain + 1}, true
	}
	if b.Level < MaxLevel {
		return Bid{Level: b.Level + 1, Strain: StrainClubs}, true
	}
	return Bid{}, false
}

func (b Bid) String() string {
	return fmt.Sprintf("%d %s", b.Level, b.Strain)
}

// CallType 定义喊叫的种类
type CallType int

const (
	CallPass CallType = iota
	CallDouble
	CallRedouble
	CallBid
)

// callTypeNames 喊叫种类的协议名称映射表
var callTypeNames = map[CallType]string{
	CallPass:     "pass",
	CallDouble:   "double",
	CallRedouble: "redouble",
	CallBid:      "bid",
}

func (t CallType) String() string {
	if name, ok := callTypeNames[t]; ok {
		return name
	}
	return "?"
}

// CallTypeFromName 根据协议名称查找喊叫种类
func CallTypeFromName(name string) (CallType, error) {
	for t, n := range callTypeNames {
		if n == name {
			return t, nil
		}
	}
	return -1, fmt.Errorf("无法识别的喊叫: %q", name)
}

// Call 定义一次喊叫：不叫、加倍、再加倍，或具体叫牌
// 只有叫牌之间才有高低次序
type Call struct {
	Type CallType
	Bid  Bid // 仅 Type == CallBid 时有效
}

// Pass 构造不叫
func Pass() Call { return Call{Type: CallPass} }

// Double 构造加倍
func Double() Call { return Call{Type: CallDouble} }

// Redouble 构造再加倍
func Redouble() Call { return Call{Type: CallRedouble} }

// MakeBid 构造一次具体叫牌
func MakeBid(level int, strain Strain) Call {
	return Call{Type: CallBid, Bid: NewBid(level, strain)}
}

func (c Call) String() string {
	if c.Type == CallBid {
		return c.Bid.String()
	}
	return c.Type.String()
}

// Doubling 定义定约的加倍状态
type Doubling int

const (
	Undoubled Doubling = iota
	Doubled
	Redoubled
)

// doublingNames 加倍状态的协议名称映射表
var doublingNames = map[Doubling]string{
	Undoubled: "undoubled",
	Doubled:   "doubled",
	Redoubled: "redoubled",
}

func (d Doubling) String() string {
	if name, ok := doublingNames[d]; ok {
		return name
	}
	return "?"
}

// DoublingFromName 根据协议名称查找加倍状态
func DoublingFromName(name string) (Doubling, error) {
	for d, n := range doublingNames {
		if n == name {
			return d, nil
		}
	}
	return -1, fmt.Errorf("无法识别的加倍状态: %q", name)
}

// Contract 定义最终定约，由胜出的叫牌和加倍状态组成
type Contract struct {
	Bid      Bid
	Doubling Doubling
}

// IsMade 判断赢得 tricksWon 墩时定约是否完成
// 基本墩为 6，完成定约需要赢得 6 + 阶数墩
func (c Contract) IsMade(tricksWon int) bool {
	return tricksWon >= TricksInBook+c.Bid.Level
}

func (c Contract) String() string {
	return fmt.Sprintf("%s %s", c.Bid, c.Doubling)
}

const (
	// TricksInBook 基本墩数
	TricksInBook = 6
	// TricksPerDeal 每副牌的总墩数
	TricksPerDeal = 13
)
