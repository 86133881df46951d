package api

import (
	"Cipherchat/internal/api/middleware"
	"Cipherchat/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(group.AllowedOrigins))
	logger.SetupGin(r)

	auth := middleware.AuthMiddleware(group.Resolver)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		// 鉴权在握手内完成，失败的连接保持静默
		apiGroup.GET("/ws", group.WsHandler.Connect)

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/signup", group.AuthHandler.Signup)
			authGroup.POST("/login", group.AuthHandler.Login)

			loggedIn := authGroup.Group("")
			loggedIn.Use(auth)
			{
				loggedIn.POST("/logout", group.AuthHandler.Logout)
				loggedIn.GET("/check", group.AuthHandler.Check)
				loggedIn.PUT("/update-profile", group.AuthHandler.UpdateProfile)
				loggedIn.PUT("/public-key", group.AuthHandler.UpdatePublicKey)
				loggedIn.PUT("/preferences", group.AuthHandler.UpdatePreferences)
				loggedIn.DELETE("/delete", group.AuthHandler.DeleteAccount)
			}
		}

		contactGroup := apiGroup.Group("/contacts")
		contactGroup.Use(auth)
		{
			contactGroup.POST("", group.ContactHandler.AddContact)
			contactGroup.DELETE("/:id", group.ContactHandler.RemoveContact)
		}

		messageGroup := apiGroup.Group("/messages")
		messageGroup.Use(auth)
		{
			messageGroup.GET("/users", group.MessageHandler.GetUsersForSidebar)
			messageGroup.GET("/:id", group.MessageHandler.GetMessages)
			messageGroup.POST("/send/:id", group.MessageHandler.SendMessage)
			messageGroup.DELETE("/message/:messageId", group.MessageHandler.DeleteMessage)
		}
	}

	return r
}
