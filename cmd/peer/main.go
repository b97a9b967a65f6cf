package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zhouqilin/bridge-table/internal/config"
	"github.com/zhouqilin/bridge-table/internal/network/peer"
	"github.com/zhouqilin/bridge-table/internal/network/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	// 创建节点
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("创建节点失败: %v", err)
	}

	// 连接对等节点
	bridge := startBridge(cfg)
	if bridge != nil {
		srv.AttachPeerSender(bridge)
	}

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("正在关闭节点...")
		if bridge != nil {
			bridge.Close()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("关闭出错: %v", err)
		}
		os.Exit(0)
	}()

	// 启动节点
	log.Println("🃏 桥牌节点启动中...")
	if err := srv.Start(); err != nil {
		log.Fatalf("节点启动失败: %v", err)
	}
}

// startBridge 按配置建立对等网络，没有配置对等节点时返回 nil
func startBridge(cfg *config.Config) *peer.Bridge {
	if len(cfg.Game.Peers) == 0 {
		return nil
	}

	bridge := peer.NewBridge(cfg.Game.SelfSeats)

	// 等节点监听就绪后再建连
	go func() {
		time.Sleep(time.Second)

		localURL := fmt.Sprintf("ws://127.0.0.1:%d/ws", cfg.Server.Port)
		if err := bridge.Start(localURL); err != nil {
			log.Printf("对等桥接启动失败: %v", err)
			return
		}

		for _, p := range cfg.Game.Peers {
			if err := bridge.AddPeer(p.Address); err != nil {
				log.Printf("%v", err)
			}
		}
	}()

	return bridge
}
