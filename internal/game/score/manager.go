package score

import (
	"fmt"

	"github.com/zhouqilin/bridge-table/internal/game"
)

// dealConfig 一副牌的开叫方位与局况
type dealConfig struct {
	opener        game.Position
	vulnerability game.Vulnerability
}

// dealConfigs 复式桥牌的轮转表，十六副一个周期
// 开叫方位逐副顺时针轮转，局况按标准复式日程排布
var dealConfigs = [...]dealConfig{
	{game.North, game.Vulnerability{}},
	{game.East, game.Vulnerability{NorthSouth: true}},
	{game.South, game.Vulnerability{EastWest: true}},
	{game.West, game.Vulnerability{NorthSouth: true, EastWest: true}},
	{game.North, game.Vulnerability{NorthSouth: true}},
	{game.East, game.Vulnerability{EastWest: true}},
	{game.South, game.Vulnerability{NorthSouth: true, EastWest: true}},
	{game.West, game.Vulnerability{}},
	{game.North, game.Vulnerability{EastWest: true}},
	{game.East, game.Vulnerability{NorthSouth: true, EastWest: true}},
	{game.South, game.Vulnerability{}},
	{game.West, game.Vulnerability{NorthSouth: true}},
	{game.North, game.Vulnerability{NorthSouth: true, EastWest: true}},
	{game.East, game.Vulnerability{}},
	{game.South, game.Vulnerability{NorthSouth: true}},
	{game.West, game.Vulnerability{EastWest: true}},
}

// DuplicateGameManager 按复式计分驱动一场不限副数的牌局
// 名字里的复式指计分方式：每副独立计分，不像盘式桥牌那样累积成局
// 逐副结果记入计分表，开叫方位与局况按轮转表推进
type DuplicateGameManager struct {
	round int
	sheet *Sheet
}

var _ game.GameManager = (*DuplicateGameManager)(nil)

// NewDuplicateGameManager 从第一副开始创建牌局
func NewDuplicateGameManager() *DuplicateGameManager {
	return &DuplicateGameManager{sheet: NewSheet()}
}

// NewDuplicateGameManagerAt 从指定的开叫方位与局况对应的一副开始创建牌局
// 组合不在轮转表中时返回错误
func NewDuplicateGameManagerAt(
	opener game.Position, vulnerability game.Vulnerability,
) (*DuplicateGameManager, error) {
	for round, config := range dealConfigs {
		if config.opener == opener && config.vulnerability == vulnerability {
			return &DuplicateGameManager{round: round, sheet: NewSheet()}, nil
		}
	}
	return nil, fmt.Errorf("score: 开叫方位 %v 与局况 %+v 的组合不在轮转表中",
		opener, vulnerability)
}

// AddResult 计入一副有定约牌的结果并推进轮转
func (m *DuplicateGameManager) AddResult(
	partnership game.Partnership, contract game.Contract, tricksWon int,
) game.DealScore {
	vulnerability := m.config().vulnerability
	m.round++
	return m.sheet.AddResult(partnership, contract, tricksWon, vulnerability)
}

// AddPassedOut 计入一副流局并推进轮转
func (m *DuplicateGameManager) AddPassedOut() game.DealScore {
	m.round++
	return m.sheet.AddPassedOut()
}

// HasEnded 复式牌局可以无限打下去
func (m *DuplicateGameManager) HasEnded() bool {
	return false
}

// OpenerPosition 返回当前一副的开叫方位
func (m *DuplicateGameManager) OpenerPosition() (game.Position, bool) {
	return m.config().opener, true
}

// Vulnerability 返回当前一副的局况
func (m *DuplicateGameManager) Vulnerability() (game.Vulnerability, bool) {
	return m.config().vulnerability, true
}

// Sheet 返回牌局的计分表
func (m *DuplicateGameManager) Sheet() *Sheet {
	return m.sheet
}

func (m *DuplicateGameManager) config() dealConfig {
	return dealConfigs[m.round%len(dealConfigs)]
}
