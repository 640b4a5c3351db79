package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub 维护所有 socket 连接，把消息推给每个在线客户端。
// 每个客户端有独立的发送队列与写协程，队列满时只丢弃该客户端的这条消息
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	clients  map[*client]struct{}
	logger   *logrus.Logger
	metrics  *Metrics
}

// NewHub allowOrigin 为空时接受任意 Origin；metrics 可为 nil
func NewHub(allowOrigin func(r *http.Request) bool, logger *logrus.Logger, metrics *Metrics) *Hub {
	if allowOrigin == nil {
		allowOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		clients:  make(map[*client]struct{}),
		logger:   logger,
		metrics:  metrics,
	}
}

var _ Publisher = (*Hub)(nil)

// HandleWS 升级连接并阻塞到客户端断开。客户端发来的内容只用于保活，不做处理。
// 握手前先登记，握手期间的广播进入发送队列，连接建立后送达
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	c := &client{id: uuid.NewString(), send: make(chan []byte, sendBuffer)}
	h.register(c)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket 升级失败")
		h.unregister(c)
		return
	}
	h.mu.Lock()
	c.conn = conn
	h.mu.Unlock()
	go h.writeLoop(c)

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(c)
	_ = conn.Close()
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.Clients.Inc()
	}
	h.logger.WithField("client_id", c.id).WithField("clients", n).Info("WebSocket client connected")
}

// unregister 移除后关闭发送队列；广播持有读锁发送，因此关闭后不会再有写入
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.Clients.Dec()
	}
	h.logger.WithField("client_id", c.id).WithField("clients", n).Info("WebSocket client disconnected")
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				h.logger.WithError(err).WithField("client_id", c.id).Debug("WebSocket 写入失败")
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.conn.Close()
				return
			}
		}
	}
}

// Broadcast 序列化一次后投递到所有在线客户端，不等待写完成
func (h *Hub) Broadcast(msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			if h.metrics != nil {
				h.metrics.Dropped.Inc()
			}
			h.logger.WithField("client_id", c.id).WithField("event", msg.Event).Warn("客户端发送队列已满，丢弃消息")
		}
	}
	if h.metrics != nil {
		h.metrics.Broadcasts.WithLabelValues(msg.Event).Inc()
	}
	return nil
}

func (h *Hub) Publish(_ context.Context, msg Message) error {
	return h.Broadcast(msg)
}

// ClientCount 当前在线客户端数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close 关闭所有连接，用于进程退出
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		if c.conn != nil {
			conns = append(conns, c.conn)
		}
	}
	h.mu.RUnlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}
