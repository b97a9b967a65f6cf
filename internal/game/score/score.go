// Package score 实现复式桥牌计分
// 只负责把定约、局况和赢墩数换算成分值，不关心牌怎么打出来
package score

import (
	"github.com/zhouqilin/bridge-table/internal/game"
)

// trickPoints 各叫牌花色每墩的定约分
var trickPoints = map[game.Strain]int{
	game.StrainClubs:    20,
	game.StrainDiamonds: 20,
	game.StrainHearts:   30,
	game.StrainSpades:   30,
	game.StrainNoTrump:  30,
}

// doublingFactor 加倍状态对定约分的放大倍数
var doublingFactor = map[game.Doubling]int{
	game.Undoubled: 1,
	game.Doubled:   2,
	game.Redoubled: 4,
}

// Calculate 计算一副牌的复式得分
// 返回庄家联队视角下的带符号分值：完成定约为正，宕约为负
func Calculate(contract game.Contract, vulnerable bool, tricksWon int) int {
	if contract.IsMade(tricksWon) {
		return madeScore(contract, vulnerable, tricksWon)
	}
	return -defeatedPenalty(contract, vulnerable, tricksWon)
}

func madeScore(contract game.Contract, vulnerable bool, tricksWon int) int {
	tricksBidAndMade := min(tricksWon, game.TricksInBook+contract.Bid.Level)
	oddTricks := tricksBidAndMade - game.TricksInBook
	overtricks := tricksWon - tricksBidAndMade

	points := contractPoints(contract.Bid.Strain, contract.Doubling, oddTricks)
	total := points +
		overtrickPoints(contract.Bid.Strain, contract.Doubling, vulnerable, overtricks) +
		50 + // 成局与否都有的基础奖分
		gameBonus(points, vulnerable) +
		slamBonus(tricksBidAndMade, vulnerable)
	switch contract.Doubling {
	case game.Doubled:
		total += 50
	case game.Redoubled:
		total += 100
	}
	return total
}

// contractPoints 定约墩的得分，无将定约第一墩多 10 分
func contractPoints(strain game.Strain, doubling game.Doubling, oddTricks int) int {
	bonus := 0
	if strain == game.StrainNoTrump {
		bonus = 10
	}
	return doublingFactor[doubling] * (bonus + oddTricks*trickPoints[strain])
}

func overtrickPoints(strain game.Strain, doubling game.Doubling, vulnerable bool, overtricks int) int {
	switch {
	case doubling == game.Doubled && !vulnerable:
		return overtricks * 100
	case doubling == game.Redoubled && !vulnerable:
		return overtricks * 200
	case doubling == game.Doubled && vulnerable:
		return overtricks * 200
	case doubling == game.Redoubled && vulnerable:
		return overtricks * 400
	}
	return overtricks * trickPoints[strain]
}

// gameBonus 定约分满 100 为成局
func gameBonus(contractPoints int, vulnerable bool) int {
	if contractPoints < 100 {
		return 0
	}
	if vulnerable {
		return 450
	}
	return 250
}

func slamBonus(tricksBidAndMade int, vulnerable bool) int {
	switch tricksBidAndMade {
	case 12:
		if vulnerable {
			return 750
		}
		return 500
	case 13:
		if vulnerable {
			return 1500
		}
		return 1000
	}
	return 0
}

func defeatedPenalty(contract game.Contract, vulnerable bool, tricksWon int) int {
	undertricks := game.TricksInBook + contract.Bid.Level - tricksWon
	secondAndThird := min(max(undertricks-1, 0), 2)
	subsequent := max(undertricks-3, 0)

	return firstUndertrickPenalty(contract.Doubling, vulnerable) +
		secondAndThird*middleUndertrickPenalty(contract.Doubling, vulnerable) +
		subsequent*subsequentUndertrickPenalty(contract.Doubling)
}

func firstUndertrickPenalty(doubling game.Doubling, vulnerable bool) int {
	penalty := map[game.Doubling]int{
		game.Undoubled: 50,
		game.Doubled:   100,
		game.Redoubled: 200,
	}[doubling]
	if vulnerable {
		penalty *= 2
	}
	return penalty
}

func middleUndertrickPenalty(doubling game.Doubling, vulnerable bool) int {
	if vulnerable {
		return map[game.Doubling]int{
			game.Undoubled: 100,
			game.Doubled:   300,
			game.Redoubled: 600,
		}[doubling]
	}
	return map[game.Doubling]int{
		game.Undoubled: 50,
		game.Doubled:   200,
		game.Redoubled: 400,
	}[doubling]
}

func subsequentUndertrickPenalty(doubling game.Doubling) int {
	return map[game.Doubling]int{
		game.Undoubled: 50,
		game.Doubled:   300,
		game.Redoubled: 600,
	}[doubling]
}
