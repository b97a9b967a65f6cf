package score

import (
	"github.com/zhouqilin/bridge-table/internal/game"
)

// Sheet 记录一场牌局逐副的计分结果，流局也占一行
type Sheet struct {
	entries []game.DealScore
}

// NewSheet 创建空白计分表
func NewSheet() *Sheet {
	return &Sheet{}
}

// AddResult 按局况计入一副有定约牌的结果
func (s *Sheet) AddResult(
	partnership game.Partnership,
	contract game.Contract,
	tricksWon int,
	vulnerability game.Vulnerability,
) game.DealScore {
	value := Calculate(contract, vulnerability.IsVulnerable(partnership), tricksWon)
	entry := game.NewDealScore(partnership, value)
	s.entries = append(s.entries, entry)
	return entry
}

// AddPassedOut 计入一副流局
func (s *Sheet) AddPassedOut() game.DealScore {
	entry := game.PassedOutScore()
	s.entries = append(s.entries, entry)
	return entry
}

// NumDeals 返回已计分的副数
func (s *Sheet) NumDeals() int {
	return len(s.entries)
}

// Entries 按顺序返回全部计分行
func (s *Sheet) Entries() []game.DealScore {
	entries := make([]game.DealScore, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// Totals 返回两个联队的累计带符号分值
func (s *Sheet) Totals() (northSouth, eastWest int) {
	for _, entry := range s.entries {
		northSouth += entry.ScoreFor(game.NorthSouth)
		eastWest += entry.ScoreFor(game.EastWest)
	}
	return northSouth, eastWest
}
