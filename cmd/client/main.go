package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zhouqilin/bridge-table/internal/logger"
	"github.com/zhouqilin/bridge-table/internal/network/client"
	"github.com/zhouqilin/bridge-table/internal/network/protocol"
	"github.com/zhouqilin/bridge-table/internal/ui"
)

// 命令行输入的牌面短写
var rankAliases = map[string]string{
	"a": "ace", "k": "king", "q": "queen", "j": "jack", "t": "10",
}

var suitAliases = map[string]string{
	"c": "clubs", "d": "diamonds", "h": "hearts", "s": "spades",
}

var strainAliases = map[string]string{
	"c": "clubs", "d": "diamonds", "h": "hearts", "s": "spades",
	"n": "notrump", "nt": "notrump",
}

func main() {
	serverAddr := flag.String("server", "localhost:5555", "节点地址")
	position := flag.String("position", "", "入座方位，留空自动分配")
	flag.Parse()

	// 客户端库的日志写入文件，避免打乱终端输出
	if err := logger.Init(); err == nil {
		defer logger.Close()
	}

	c := client.NewClient(fmt.Sprintf("ws://%s/ws", *serverAddr))
	c.OnMessage = func(msg *protocol.Message) {
		if line := ui.RenderEvent(msg); line != "" {
			fmt.Println(line)
		}
	}
	c.OnClose = func() {
		fmt.Println("连接已断开")
		os.Exit(0)
	}

	if err := c.Connect(); err != nil {
		fmt.Fprintf(os.Stderr, "连接节点失败: %v\n", err)
		os.Exit(1)
	}
	c.StartHeartbeat()

	if err := c.Join(*position); err != nil {
		fmt.Fprintf(os.Stderr, "入座请求失败: %v\n", err)
		os.Exit(1)
	}

	printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			c.Close()
			return
		}
		if err := dispatch(c, line); err != nil {
			fmt.Println(ui.ErrorStyle.Render(err.Error()))
		}
	}
}

func printHelp() {
	fmt.Println(`命令:
  pass / x / xx         不叫 / 加倍 / 再加倍
  bid <阶数> <花色>     叫牌，花色 c d h s nt，如 bid 3 nt
  play <牌>             出牌，如 play as、play 10h
  play <槽位>           按手牌槽位出牌，如 play 0
  get [键...]           查询状态，如 get、get cards score
  help                  显示帮助
  quit                  退出`)
}

// dispatch 解析一行命令并发给节点
func dispatch(c *client.Client, line string) error {
	fields := strings.Fields(strings.ToLower(line))
	switch fields[0] {
	case "help":
		printHelp()
		return nil
	case "pass":
		return c.Pass()
	case "x", "double":
		return c.Double()
	case "xx", "redouble":
		return c.Redouble()
	case "bid":
		if len(fields) != 3 {
			return fmt.Errorf("用法: bid <阶数> <花色>")
		}
		level, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("无效的阶数: %s", fields[1])
		}
		strain, ok := strainAliases[fields[2]]
		if !ok {
			strain = fields[2]
		}
		return c.Bid(level, strain)
	case "play":
		if len(fields) != 2 {
			return fmt.Errorf("用法: play <牌|槽位>")
		}
		if index, err := strconv.Atoi(fields[1]); err == nil {
			return c.PlayIndex(index)
		}
		card, err := parseCard(fields[1])
		if err != nil {
			return err
		}
		return c.PlayCard(card)
	case "get":
		return c.Get(fields[1:]...)
	}
	return fmt.Errorf("未知命令: %s，输入 help 查看帮助", fields[0])
}

// parseCard 解析 as、kh、10d 这样的牌面短写
func parseCard(text string) (protocol.CardInfo, error) {
	if len(text) < 2 {
		return protocol.CardInfo{}, fmt.Errorf("无效的牌: %s", text)
	}

	rankPart := text[:len(text)-1]
	suitPart := text[len(text)-1:]

	rank := rankPart
	if full, ok := rankAliases[rankPart]; ok {
		rank = full
	}
	suit, ok := suitAliases[suitPart]
	if !ok {
		return protocol.CardInfo{}, fmt.Errorf("无效的花色: %s", suitPart)
	}

	return protocol.CardInfo{Rank: rank, Suit: suit}, nil
}
