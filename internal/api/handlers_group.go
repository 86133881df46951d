package api

import (
	"Cipherchat/internal/api/handler"
	"Cipherchat/internal/api/middleware"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler    *handler.AuthHandler
	ContactHandler *handler.ContactHandler
	MessageHandler *handler.MessageHandler
	WsHandler      *handler.WsHandler

	Resolver       middleware.IdentityResolver
	AllowedOrigins []string
}
