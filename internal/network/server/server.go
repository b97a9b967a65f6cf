package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/zhouqilin/bridge-table/internal/config"
	"github.com/zhouqilin/bridge-table/internal/network/peer"
	"github.com/zhouqilin/bridge-table/internal/network/protocol"
	"github.com/zhouqilin/bridge-table/internal/network/server/handlers"
	"github.com/zhouqilin/bridge-table/internal/network/server/storage"
	"github.com/zhouqilin/bridge-table/internal/network/server/table"
	"github.com/zhouqilin/bridge-table/internal/network/server/types"
)

// Server 桥牌节点服务器
type Server struct {
	config       *config.Config
	redisClient  *redis.Client
	sessionStore *storage.SessionStore
	table        *table.Table
	handler      *handlers.Handler
	cardServer   *peer.CardServerLink

	clients   map[string]*Client // identity -> client
	clientsMu sync.RWMutex

	rateLimiter    *RateLimiter
	messageLimiter *MessageRateLimiter
	originChecker  *OriginChecker

	// 连接数信号量
	connSemaphore chan struct{}

	upgrader   websocket.Upgrader
	httpServer *http.Server
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	selfSeats, err := cfg.Game.SelfPositions()
	if err != nil {
		return nil, err
	}
	leader, err := cfg.Game.LeaderPosition()
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:       cfg,
		redisClient:  redisClient,
		sessionStore: storage.NewSessionStore(redisClient),
		clients:      make(map[string]*Client),
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		connSemaphore:  make(chan struct{}, cfg.Server.MaxConnections),
	}

	tableCfg := table.Config{
		SelfSeats:  selfSeats,
		LeaderSeat: leader,
	}
	if cfg.Game.CardProtocol == config.CardProtocolCardServer {
		link := peer.NewCardServerLink(cfg.Game.CardServerAddr)
		tableCfg.CardServer = link
		s.cardServer = link
	}
	s.table = table.New(tableCfg, s)
	if s.cardServer != nil {
		if err := s.cardServer.Connect(s.table); err != nil {
			return nil, fmt.Errorf("发牌服务连接失败: %w", err)
		}
	}

	s.handler = handlers.NewHandler(s)

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}

	return s, nil
}

// AttachPeerSender 把对等投递通道接到牌桌，首席节点经它公布整副牌
func (s *Server) AttachPeerSender(sender table.PeerSender) {
	s.table.AttachPeerSender(sender)
}

// Start 启动服务器并阻塞直至退出
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("🃏 桥牌节点启动，监听 %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 平滑关闭服务器
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("服务器关闭中...")

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	if s.cardServer != nil {
		s.cardServer.Close()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	return s.redisClient.Close()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","online":%d}`, s.GetOnlineCount())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	// 连接数上限
	select {
	case s.connSemaphore <- struct{}{}:
	default:
		log.Printf("⚠️ 达到最大连接数，拒绝来自 %s 的连接", ip)
		http.Error(w, "服务器已满", http.StatusServiceUnavailable)
		return
	}

	// 连接速率限制
	if !s.rateLimiter.Allow(ip) {
		<-s.connSemaphore
		http.Error(w, "连接过于频繁", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		<-s.connSemaphore
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn)
	client.IP = ip

	s.RegisterClient(client.GetIdentity(), client)

	// 创建会话并下发重连令牌
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	token, err := s.sessionStore.CreateSession(ctx, client.GetIdentity())
	cancel()
	if err != nil {
		log.Printf("会话创建失败: %v", err)
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		Identity:       client.GetIdentity(),
		ReconnectToken: token,
	}))

	go client.WritePump()
	go func() {
		client.ReadPump()
		<-s.connSemaphore
	}()
}

// --- types.ServerContext 实现 ---

// GetTable 返回本节点的牌桌
func (s *Server) GetTable() types.TableInterface {
	return s.table
}

// GetSessionStore 返回会话存储
func (s *Server) GetSessionStore() types.SessionStoreInterface {
	return s.sessionStore
}

// GetOnlineCount 返回当前在线连接数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Publish 将消息广播给所有已连接身份
func (s *Server) Publish(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	for _, client := range s.clients {
		client.SendMessage(msg)
	}
}

// GetClientByIdentity 按身份查找连接
func (s *Server) GetClientByIdentity(identity string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if client, ok := s.clients[identity]; ok {
		return client
	}
	return nil
}

// RegisterClient 登记连接，重连时替换原有连接
func (s *Server) RegisterClient(identity string, client types.ClientInterface) {
	s.clientsMu.Lock()
	old, exists := s.clients[identity]
	if c, ok := client.(*Client); ok {
		s.clients[identity] = c
	}
	s.clientsMu.Unlock()

	if exists && old != client {
		old.Close()
	}
}

// UnregisterClient 按身份移除连接
func (s *Server) UnregisterClient(identity string) {
	s.clientsMu.Lock()
	delete(s.clients, identity)
	s.clientsMu.Unlock()
}

// unregisterClient 移除连接，但仅当登记的仍是该连接本身
// 重连已替换的旧连接断开时不应移除新连接
func (s *Server) unregisterClient(client *Client) bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	identity := client.GetIdentity()
	if registered, ok := s.clients[identity]; ok && registered == client {
		delete(s.clients, identity)
		return true
	}
	return false
}

func (s *Server) setSessionOffline(identity string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.sessionStore.SetOffline(ctx, identity); err != nil && err != storage.ErrSessionNotFound {
		log.Printf("会话离线标记失败: %v", err)
	}
}
