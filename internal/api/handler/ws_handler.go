package handler

import (
	"Cipherchat/internal/api/middleware"
	"Cipherchat/internal/pkg/logger"
	"Cipherchat/internal/realtime"
	"context"
	log "log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WsHandler struct {
	hub       *realtime.Hub
	resolver  middleware.IdentityResolver
	clientCfg realtime.ClientConfig
	upgrader  websocket.Upgrader
}

func NewWsHandler(hub *realtime.Hub, resolver middleware.IdentityResolver, clientCfg realtime.ClientConfig, allowedOrigins []string) *WsHandler {
	return &WsHandler{
		hub:       hub,
		resolver:  resolver,
		clientCfg: clientCfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || middleware.OriginAllowed(allowedOrigins, origin)
			},
		},
	}
}

// Connect 身份无效时仍然升级，但连接不注册也不处理任何事件
func (s *WsHandler) Connect(c *gin.Context) {
	userID, ok := s.authenticate(c)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WarnContext(c.Request.Context(), "WS 协议升级失败", "err", err)
		return
	}

	client := realtime.NewClient(conn, s.clientCfg)
	ctx := logger.WithTraceID(context.WithoutCancel(c.Request.Context()), client.ID())
	if !ok {
		realtime.ServeInert(ctx, client)
		return
	}
	s.hub.Serve(ctx, client, userID)
}

func (s *WsHandler) authenticate(c *gin.Context) (uint64, bool) {
	token := c.Query("token")
	if token == "" {
		token = middleware.ExtractToken(c)
	}
	if token == "" {
		return 0, false
	}

	userID, err := s.resolver.ResolveIdentity(c.Request.Context(), token)
	if err != nil {
		log.WarnContext(c.Request.Context(), "WS 鉴权失败", "err", err)
		return 0, false
	}

	if claimed := c.Query("userId"); claimed != "" {
		id, err := strconv.ParseUint(claimed, 10, 64)
		if err != nil || id != userID {
			log.WarnContext(c.Request.Context(), "WS userId 与 token 不一致", "userID", userID, "claimed", claimed)
			return 0, false
		}
	}
	return userID, true
}
