package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

// Lipgloss Styles
var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Bold(true)
	blackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("254")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// 花色符号
var suitSymbols = map[string]string{
	"clubs":    "♣",
	"diamonds": "♦",
	"hearts":   "♥",
	"spades":   "♠",
}

// 牌面的短写
var rankSymbols = map[string]string{
	"jack":  "J",
	"queen": "Q",
	"king":  "K",
	"ace":   "A",
}

// 方位的中文名
var positionNames = map[string]string{
	"north": "北",
	"east":  "东",
	"south": "南",
	"west":  "西",
}

// 花色/无将的中文名
var strainNames = map[string]string{
	"clubs":    "♣",
	"diamonds": "♦",
	"hearts":   "♥",
	"spades":   "♠",
	"notrump":  "无将",
}

// FormatCard 渲染一张牌，红花色用红色
func FormatCard(card protocol.CardInfo) string {
	rank := card.Rank
	if short, ok := rankSymbols[rank]; ok {
		rank = short
	}
	text := suitSymbols[card.Suit] + rank
	if card.Suit == "hearts" || card.Suit == "diamonds" {
		return redStyle.Render(text)
	}
	return blackStyle.Render(text)
}

// FormatPosition 渲染一个方位
func FormatPosition(position string) string {
	if name, ok := positionNames[position]; ok {
		return name
	}
	return position
}

// FormatCall 渲染一次喊叫
func FormatCall(call protocol.CallInfo) string {
	switch call.Type {
	case "pass":
		return "Pass"
	case "double":
		return "X"
	case "redouble":
		return "XX"
	case "bid":
		if call.Bid != nil {
			return fmt.Sprintf("%d%s", call.Bid.Level, strainNames[call.Bid.Strain])
		}
	}
	return call.Type
}

// FormatContract 渲染定约
func FormatContract(contract protocol.ContractInfo) string {
	text := fmt.Sprintf("%d%s", contract.Bid.Level, strainNames[contract.Bid.Strain])
	switch contract.Doubling {
	case "doubled":
		text += "X"
	case "redoubled":
		text += "XX"
	}
	return text
}
