package realtime

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type ClientConfig struct {
	SendBuffer   int
	WriteTimeout time.Duration
	PongWait     time.Duration
	MaxFrameSize int64
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.SendBuffer <= 0 {
		c.SendBuffer = 64
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.MaxFrameSize <= 0 {
		c.MaxFrameSize = 4096
	}
	return c
}

func (c ClientConfig) pingPeriod() time.Duration {
	return c.PongWait * 9 / 10
}

// Client 基于 gorilla/websocket 的连接，一个读协程一个写协程
type Client struct {
	id   string
	ws   *websocket.Conn
	cfg  ClientConfig
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(ws *websocket.Conn, cfg ClientConfig) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		id:   "ws-" + uuid.NewString(),
		ws:   ws,
		cfg:  cfg,
		send: make(chan []byte, cfg.SendBuffer),
		done: make(chan struct{}),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send 入队不阻塞，队列满时按慢消费者关闭连接
func (c *Client) Send(ev Event) bool {
	payload, err := Encode(ev)
	if err != nil {
		log.Error("事件编码失败", "conn", c.id, "err", err)
		return false
	}

	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		log.Warn("发送队列已满，关闭慢连接", "conn", c.id, "event", EventName(ev))
		c.Close()
		return false
	}
}

// Close 通知写协程发送关闭帧并断开，可重复调用
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Done 连接关闭后可读
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug("WS 推送失败", "conn", c.id, "err", err)
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.cfg.WriteTimeout))
			return
		}
	}
}

func (c *Client) readPump(ctx context.Context, handle func(Inbound)) {
	c.ws.SetReadLimit(c.cfg.MaxFrameSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		mt, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.DebugContext(ctx, "WS 读取结束", "conn", c.id, "err", err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		if mt != websocket.TextMessage {
			continue
		}
		in, err := DecodeInbound(raw)
		if err != nil {
			log.DebugContext(ctx, "忽略非法帧", "conn", c.id, "err", err)
			continue
		}
		handle(in)
	}
}

// Serve 驱动已鉴权连接的完整生命周期，返回时连接已注销
func (h *Hub) Serve(ctx context.Context, c *Client, userID uint64) {
	go c.writePump()
	defer c.Close()

	h.Connect(ctx, userID, c)
	defer h.Disconnect(ctx, userID, c)

	c.readPump(ctx, func(in Inbound) {
		switch in.Event {
		case EventPresencePreferenceUpdated:
			h.PresencePreferenceChanged(ctx, userID)
		default:
			log.DebugContext(ctx, "忽略未知事件", "userID", userID, "event", in.Event)
		}
	})
}

// ServeInert 未鉴权连接：不注册，不处理任何上行事件
func ServeInert(ctx context.Context, c *Client) {
	go c.writePump()
	defer c.Close()

	log.InfoContext(ctx, "未鉴权的 WS 连接", "conn", c.id)
	c.readPump(ctx, func(Inbound) {})
}
