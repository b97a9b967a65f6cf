package game

// DealScore 一副牌的计分结果
// 分值恒为非负，归属于得分的联队；流局时 Scored 为 false
type DealScore struct {
	Partnership Partnership `json:"partnership"`
	Score       int         `json:"score"`
	Scored      bool        `json:"-"`
}

// NewDealScore 根据带符号的分值构造计分结果
// 负分意味着对方得分，零分视为无结果
func NewDealScore(partnership Partnership, score int) DealScore {
	switch {
	case score > 0:
		return DealScore{Partnership: partnership, Score: score, Scored: true}
	case score < 0:
		return DealScore{Partnership: partnership.Other(), Score: -score, Scored: true}
	}
	return PassedOutScore()
}

// PassedOutScore 构造流局结果
func PassedOutScore() DealScore {
	return DealScore{}
}

// ScoreFor 返回指定联队视角下的带符号分值
func (s DealScore) ScoreFor(partnership Partnership) int {
	if !s.Scored {
		return 0
	}
	if s.Partnership == partnership {
		return s.Score
	}
	return -s.Score
}

// GameManager 封装整场牌局的规则
// 引擎通过该接口注入每副牌的结果、查询开叫方位和局况，
// 以及判断整场牌局是否结束；具体计分方式由实现决定
type GameManager interface {
	// AddResult 注入一副有定约牌的结果并返回计分，牌局已结束时无效果
	AddResult(partnership Partnership, contract Contract, tricksWon int) DealScore
	// AddPassedOut 注入一副流局，牌局已结束时无效果
	AddPassedOut() DealScore
	// HasEnded 判断整场牌局是否结束
	HasEnded() bool
	// OpenerPosition 返回当前一副的开叫方位，牌局结束时 ok 为 false
	OpenerPosition() (Position, bool)
	// Vulnerability 返回当前一副的局况，牌局结束时 ok 为 false
	Vulnerability() (Vulnerability, bool)
}
