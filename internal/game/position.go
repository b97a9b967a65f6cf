package game

import "fmt"

// Position 定义桥牌桌上的四个固定方位，按顺时针顺序排列
type Position int

const (
	North Position = iota
	East
	South
	West
)

// NumPositions 方位数量
const NumPositions = 4

// CardsPerPosition 每个方位固定持有的牌数
const CardsPerPosition = 13

// positionNames 方位的协议名称映射表
var positionNames = map[Position]string{
	North: "north",
	East:  "east",
	South: "south",
	West:  "west",
}

func (p Position) String() string {
	if name, ok := positionNames[p]; ok {
		return name
	}
	return "?"
}

// Valid 判断方位是否合法
func (p Position) Valid() bool {
	return p >= North && p <= West
}

// PositionFromName 根据协议名称查找方位
func PositionFromName(name string) (Position, error) {
	for p, n := range positionNames {
		if n == name {
			return p, nil
		}
	}
	return -1, fmt.Errorf("无法识别的方位: %q", name)
}

// Clockwise 返回方位顺时针旋转 steps 步后的方位，steps 可以为负数
func (p Position) Clockwise(steps int) Position {
	if !p.Valid() {
		panic(fmt.Sprintf("game: 非法方位: %d", p))
	}
	n := (int(p) + steps) % NumPositions
	if n < 0 {
		n += NumPositions
	}
	return Position(n)
}

// Partner 返回方位的同伴，即对面两步远的方位
func (p Position) Partner() Position {
	return p.Clockwise(2)
}

// Positions 按顺时针顺序返回所有方位
func Positions() [NumPositions]Position {
	return [NumPositions]Position{North, East, South, West}
}

// CardIndexes 返回发牌时分配给该方位的整副牌下标
// 北家持有 0–12，东家 13–25，南家 26–38，西家 39–51
func (p Position) CardIndexes() []int {
	if !p.Valid() {
		panic(fmt.Sprintf("game: 非法方位: %d", p))
	}
	ns := make([]int, 0, CardsPerPosition)
	for i := 0; i < CardsPerPosition; i++ {
		ns = append(ns, int(p)*CardsPerPosition+i)
	}
	return ns
}

// Partnership 定义两个对家组成的联队
type Partnership int

const (
	NorthSouth Partnership = iota
	EastWest
)

// partnershipNames 联队的协议名称映射表
var partnershipNames = map[Partnership]string{
	NorthSouth: "northSouth",
	EastWest:   "eastWest",
}

func (p Partnership) String() string {
	if name, ok := partnershipNames[p]; ok {
		return name
	}
	return "?"
}

// PartnershipFromName 根据协议名称查找联队
func PartnershipFromName(name string) (Partnership, error) {
	for p, n := range partnershipNames {
		if n == name {
			return p, nil
		}
	}
	return -1, fmt.Errorf("无法识别的联队: %q", name)
}

// PartnershipFor 返回方位所属的联队，由旋转下标的奇偶决定
func PartnershipFor(position Position) Partnership {
	switch position {
	case North, South:
		return NorthSouth
	case East, West:
		return EastWest
	}
	panic(fmt.Sprintf("game: 非法方位: %d", position))
}

// Other 返回对方联队
func (p Partnership) Other() Partnership {
	switch p {
	case NorthSouth:
		return EastWest
	case EastWest:
		return NorthSouth
	}
	panic(fmt.Sprintf("game: 非法联队: %d", p))
}

// PositionsFor 返回联队的两个方位
func (p Partnership) PositionsFor() (Position, Position) {
	switch p {
	case NorthSouth:
		return North, South
	case EastWest:
		return East, West
	}
	panic(fmt.Sprintf("game: 非法联队: %d", p))
}

// Vulnerability 定义一副牌中双方的局况
type Vulnerability struct {
	NorthSouth bool `json:"northSouth"`
	EastWest   bool `json:"eastWest"`
}

// IsVulnerable 判断指定联队是否有局
func (v Vulnerability) IsVulnerable(partnership Partnership) bool {
	switch partnership {
	case NorthSouth:
		return v.NorthSouth
	case EastWest:
		return v.EastWest
	}
	panic(fmt.Sprintf("game: 非法联队: %d", partnership))
}
