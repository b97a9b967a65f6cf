package protocol

import (
	"fmt"

	"github.com/zhouqilin/bridge-table/internal/game"
	"github.com/zhouqilin/bridge-table/internal/game/card"
)

// 对局内部类型与协议数据结构的互相转换
// 内部 → 协议方向不会失败；协议 → 内部方向校验远端给出的内容

// FromCard 转换一张牌
func FromCard(c card.Card) CardInfo {
	return CardInfo{Rank: c.Rank.Name(), Suit: c.Suit.Name()}
}

// ToCard 解析一张牌
func ToCard(info CardInfo) (card.Card, error) {
	rank, err := card.RankFromName(info.Rank)
	if err != nil {
		return card.Card{}, err
	}
	suit, err := card.SuitFromName(info.Suit)
	if err != nil {
		return card.Card{}, err
	}
	return card.Card{Rank: rank, Suit: suit}, nil
}

// FromCards 转换一组牌
func FromCards(cards []card.Card) []CardInfo {
	infos := make([]CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = FromCard(c)
	}
	return infos
}

// ToCards 解析一组牌
func ToCards(infos []CardInfo) ([]card.Card, error) {
	cards := make([]card.Card, len(infos))
	for i, info := range infos {
		c, err := ToCard(info)
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}
	return cards, nil
}

// FromCall 转换一次喊叫
func FromCall(c game.Call) CallInfo {
	info := CallInfo{Type: c.Type.String()}
	if c.Type == game.CallBid {
		info.Bid = &BidInfo{Level: c.Bid.Level, Strain: c.Bid.Strain.String()}
	}
	return info
}

// ToCall 解析一次喊叫
func ToCall(info CallInfo) (game.Call, error) {
	callType, err := game.CallTypeFromName(info.Type)
	if err != nil {
		return game.Call{}, err
	}
	if callType != game.CallBid {
		return game.Call{Type: callType}, nil
	}
	if info.Bid == nil {
		return game.Call{}, fmt.Errorf("喊叫缺少叫牌内容")
	}
	strain, err := game.StrainFromName(info.Bid.Strain)
	if err != nil {
		return game.Call{}, err
	}
	if info.Bid.Level < game.MinLevel || info.Bid.Level > game.MaxLevel {
		return game.Call{}, fmt.Errorf("非法叫牌阶数: %d", info.Bid.Level)
	}
	return game.Call{
		Type: game.CallBid,
		Bid:  game.Bid{Level: info.Bid.Level, Strain: strain},
	}, nil
}

// FromContract 转换定约
func FromContract(c game.Contract) ContractInfo {
	return ContractInfo{
		Bid:      BidInfo{Level: c.Bid.Level, Strain: c.Bid.Strain.String()},
		Doubling: c.Doubling.String(),
	}
}

// FromVulnerability 转换局况
func FromVulnerability(v game.Vulnerability) VulnerabilityInfo {
	return VulnerabilityInfo{NorthSouth: v.NorthSouth, EastWest: v.EastWest}
}

// FromDealScore 转换一副牌的计分结果，流局为 nil
func FromDealScore(s game.DealScore) *ScoreInfo {
	if !s.Scored {
		return nil
	}
	return &ScoreInfo{Partnership: s.Partnership.String(), Score: s.Score}
}

// FromPlayedCards 转换一墩中已打出的牌
func FromPlayedCards(cards []game.PlayedCard) []PlayedCardInfo {
	infos := make([]PlayedCardInfo, len(cards))
	for i, played := range cards {
		infos[i] = PlayedCardInfo{
			Position: played.Position.String(),
			Card:     FromCard(played.Card),
		}
	}
	return infos
}

// FromCallSequence 转换喊叫序列
func FromCallSequence(bidding *game.Bidding) []PositionCallInfo {
	infos := make([]PositionCallInfo, 0, bidding.NumCalls())
	for n := 0; n < bidding.NumCalls(); n++ {
		position, call := bidding.CallAt(n)
		infos = append(infos, PositionCallInfo{
			Position: position.String(),
			Call:     FromCall(call),
		})
	}
	return infos
}

// ToDeck 解析首席节点公布的整副牌，只校验牌数与各张牌面的合法性
// 是否为一副完整牌的排列由收取方校验
func ToDeck(infos []CardInfo) (card.Deck, error) {
	if len(infos) != card.DeckSize {
		return nil, fmt.Errorf("整副牌应为 %d 张，实际 %d 张", card.DeckSize, len(infos))
	}
	cards, err := ToCards(infos)
	if err != nil {
		return nil, err
	}
	return card.Deck(cards), nil
}
