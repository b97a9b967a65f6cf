package server

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zhouqilin/bridge-table/internal/network/protocol"
	"github.com/zhouqilin/bridge-table/internal/network/protocol/codec"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 8192
)

// Client 代表一个已连接的远端身份（客户端或对等节点）
type Client struct {
	IP string // 客户端 IP 地址

	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu       sync.RWMutex
	identity string
	closed   bool
}

// NewClient 创建新客户端连接
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		identity: uuid.New().String(),
		server:   s,
		conn:     conn,
		send:     make(chan []byte, 256),
	}
}

// GetIdentity 返回连接绑定的身份
func (c *Client) GetIdentity() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// SetIdentity 重绑定身份，重连时换回原有身份
func (c *Client) SetIdentity(identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
}

// ReadPump 从 WebSocket 读取消息
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("读取错误: %v", err)
			}
			break
		}

		identity := c.GetIdentity()

		// 消息速率限制检查
		if !c.server.messageLimiter.AllowMessage(identity) {
			log.Printf("⚠️ 身份 %s (IP: %s) 消息过于频繁", identity, c.IP)
			c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeRateLimit))
			if c.server.messageLimiter.WarningCount(identity) > 5 {
				log.Printf("🚫 身份 %s 因多次超速被断开连接", identity)
				break
			}
			continue
		}

		// 解析消息，处理完交还消息池
		msg, err := codec.Decode(message)
		if err != nil {
			log.Printf("消息解析错误: %v", err)
			c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.handler.Handle(c, msg)
		codec.PutMessage(msg)
	}
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 发送消息给该连接
func (c *Client) SendMessage(msg *protocol.Message) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	c.mu.RUnlock()

	data, err := codec.Encode(msg)
	if err != nil {
		log.Printf("消息编码错误: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		// 发送缓冲区已满，关闭连接
		log.Printf("身份 %s 发送缓冲区已满", c.GetIdentity())
		c.Close()
	}
}

// handleDisconnect 处理断开连接
func (c *Client) handleDisconnect() {
	identity := c.GetIdentity()
	c.server.messageLimiter.Forget(identity)

	// 重连已替换的旧连接断开时不动会话状态
	if c.server.unregisterClient(c) {
		// 标记会话离线，座位与重连令牌保留
		c.server.setSessionOffline(identity)
	}
}

// Close 关闭客户端连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
