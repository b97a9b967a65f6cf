// Package ui 把节点广播的对局事件与状态渲染为终端文本。
package ui

import (
	"fmt"
	"strings"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
)

// RenderEvent 渲染一条广播消息，无需展示的消息返回空串
func RenderEvent(msg *protocol.Message) string {
	switch msg.Type {
	case protocol.MsgConnected:
		payload, err := protocol.ParsePayload[protocol.ConnectedPayload](msg)
		if err != nil {
			return ""
		}
		return eventStyle.Render(fmt.Sprintf("已连接，身份 %s", payload.Identity))

	case protocol.MsgReconnected:
		payload, err := protocol.ParsePayload[protocol.ReconnectedPayload](msg)
		if err != nil {
			return ""
		}
		line := "重连成功"
		if payload.Position != "" {
			line += fmt.Sprintf("，座位 %s", FormatPosition(payload.Position))
		}
		return eventStyle.Render(line)

	case protocol.MsgJoined:
		payload, err := protocol.ParsePayload[protocol.JoinedPayload](msg)
		if err != nil {
			return ""
		}
		return eventStyle.Render(fmt.Sprintf("入座成功：%s", FormatPosition(payload.Position)))

	case protocol.MsgPlayerJoined:
		payload, err := protocol.ParsePayload[protocol.PlayerJoinedPayload](msg)
		if err != nil {
			return ""
		}
		return eventStyle.Render(fmt.Sprintf("%s 已入座", FormatPosition(payload.Position)))

	case protocol.MsgDealStarted:
		payload, err := protocol.ParsePayload[protocol.DealStartedPayload](msg)
		if err != nil {
			return ""
		}
		return titleStyle(fmt.Sprintf("── 新一副牌，%s 开叫，局况 %s ──",
			FormatPosition(payload.Opener), formatVulnerability(payload.Vulnerability)))

	case protocol.MsgTurn:
		payload, err := protocol.ParsePayload[protocol.TurnPayload](msg)
		if err != nil {
			return ""
		}
		return promptStyle.Render(fmt.Sprintf("轮到 %s", FormatPosition(payload.Position)))

	case protocol.MsgCallMade:
		payload, err := protocol.ParsePayload[protocol.CallMadePayload](msg)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%s：%s", FormatPosition(payload.Position), FormatCall(payload.Call))

	case protocol.MsgBiddingCompleted:
		payload, err := protocol.ParsePayload[protocol.BiddingCompletedPayload](msg)
		if err != nil {
			return ""
		}
		return titleStyle(fmt.Sprintf("定约 %s，庄家 %s",
			FormatContract(payload.Contract), FormatPosition(payload.Declarer)))

	case protocol.MsgTrickStarted:
		payload, err := protocol.ParsePayload[protocol.TrickStartedPayload](msg)
		if err != nil {
			return ""
		}
		return promptStyle.Render(fmt.Sprintf("新一墩，%s 先出", FormatPosition(payload.Leader)))

	case protocol.MsgCardPlayed:
		payload, err := protocol.ParsePayload[protocol.CardPlayedPayload](msg)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%s：%s", FormatPosition(payload.Position), FormatCard(payload.Card))

	case protocol.MsgTrickCompleted:
		payload, err := protocol.ParsePayload[protocol.TrickCompletedPayload](msg)
		if err != nil {
			return ""
		}
		return eventStyle.Render(fmt.Sprintf("本墩由 %s 赢得", FormatPosition(payload.Winner)))

	case protocol.MsgDummyRevealed:
		payload, err := protocol.ParsePayload[protocol.DummyRevealedPayload](msg)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("明手 %s 摊牌：%s",
			FormatPosition(payload.Position), formatCards(payload.Cards))

	case protocol.MsgDealEnded:
		payload, err := protocol.ParsePayload[protocol.DealEndedPayload](msg)
		if err != nil {
			return ""
		}
		if payload.Result == nil {
			return titleStyle("── 流局，无人叫牌 ──")
		}
		return titleStyle(fmt.Sprintf("── 本副结束，%s +%d ──",
			formatPartnership(payload.Result.Partnership), payload.Result.Score))

	case protocol.MsgGetReply:
		payload, err := protocol.ParsePayload[protocol.GetReplyPayload](msg)
		if err != nil {
			return ""
		}
		return RenderState(payload)

	case protocol.MsgError:
		payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			return ""
		}
		return ErrorStyle.Render(fmt.Sprintf("错误 [%d]: %s", payload.Code, payload.Message))
	}
	return ""
}

// RenderState 渲染状态查询结果
func RenderState(state *protocol.GetReplyPayload) string {
	var b strings.Builder

	if state.Deal != "" {
		fmt.Fprintf(&b, "牌局: %s\n", state.Deal)
	}
	if state.Phase != "" {
		fmt.Fprintf(&b, "阶段: %s\n", state.Phase)
	}
	if state.Self != "" {
		fmt.Fprintf(&b, "座位: %s\n", FormatPosition(state.Self))
	}
	if state.PositionInTurn != "" {
		fmt.Fprintf(&b, "轮到: %s\n", FormatPosition(state.PositionInTurn))
	}
	if state.Contract != nil {
		fmt.Fprintf(&b, "定约: %s 庄家 %s\n", FormatContract(*state.Contract), FormatPosition(state.Declarer))
	}
	if len(state.Calls) > 0 {
		b.WriteString("叫牌: ")
		for i, pc := range state.Calls {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%s %s", FormatPosition(pc.Position), FormatCall(pc.Call))
		}
		b.WriteByte('\n')
	}
	for _, position := range []string{"north", "east", "south", "west"} {
		if cards, ok := state.Cards[position]; ok {
			fmt.Fprintf(&b, "%s: %s\n", FormatPosition(position), formatCards(cards))
		}
	}
	if len(state.Trick) > 0 {
		b.WriteString("本墩: ")
		for i, pc := range state.Trick {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%s %s", FormatPosition(pc.Position), FormatCard(pc.Card))
		}
		b.WriteByte('\n')
	}
	if state.TricksWon != nil {
		fmt.Fprintf(&b, "赢墩: 南北 %d / 东西 %d\n", state.TricksWon.NorthSouth, state.TricksWon.EastWest)
	}
	if len(state.AllowedCalls) > 0 {
		b.WriteString("可叫: ")
		for i, call := range state.AllowedCalls {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(FormatCall(call))
		}
		b.WriteByte('\n')
	}
	if len(state.AllowedCards) > 0 {
		fmt.Fprintf(&b, "可出: %s\n", formatCards(state.AllowedCards))
	}
	if state.Vulnerability != nil {
		fmt.Fprintf(&b, "局况: %s\n", formatVulnerability(*state.Vulnerability))
	}
	if len(state.Score) > 0 {
		b.WriteString("计分:\n")
		for i, entry := range state.Score {
			if entry == nil {
				fmt.Fprintf(&b, "  %2d. 流局\n", i+1)
				continue
			}
			fmt.Fprintf(&b, "  %2d. %s +%d\n", i+1, formatPartnership(entry.Partnership), entry.Score)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatCards(cards []protocol.CardInfo) string {
	parts := make([]string, len(cards))
	for i, card := range cards {
		parts[i] = FormatCard(card)
	}
	return strings.Join(parts, " ")
}

func formatVulnerability(v protocol.VulnerabilityInfo) string {
	switch {
	case v.NorthSouth && v.EastWest:
		return "双方有局"
	case v.NorthSouth:
		return "南北有局"
	case v.EastWest:
		return "东西有局"
	}
	return "双方无局"
}

func formatPartnership(partnership string) string {
	switch partnership {
	case "northSouth":
		return "南北"
	case "eastWest":
		return "东西"
	}
	return partnership
}
