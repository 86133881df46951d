package wire

import (
	"Cipherchat/internal/api"
	"Cipherchat/internal/api/config"
	"Cipherchat/internal/api/handler"
	"Cipherchat/internal/job"
	"Cipherchat/internal/pkg/cron"
	"Cipherchat/internal/pkg/minio"
	"Cipherchat/internal/pkg/mongo"
	"Cipherchat/internal/pkg/redis"
	"Cipherchat/internal/realtime"
	"Cipherchat/internal/repository"
	"Cipherchat/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	Hub     *realtime.Hub
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	contactRepo := repository.NewContactRepo(db)
	messageRepo := mongo.NewMessageRepo(mongoDB)
	tokenStore := redis.NewTokenStore()
	storage := minio.NewStorage()

	rt := cfg.Realtime
	hub := realtime.NewHub(
		service.NewCapabilityStore(userRepo, contactRepo),
		time.Duration(rt.StoreTimeout)*time.Second,
	)
	clientCfg := realtime.ClientConfig{
		SendBuffer:   rt.SendBuffer,
		WriteTimeout: time.Duration(rt.WriteTimeout) * time.Second,
		PongWait:     time.Duration(rt.PongWait) * time.Second,
		MaxFrameSize: int64(rt.MaxFrameSize),
	}

	userService := service.NewUserService(userRepo, messageRepo, tokenStore, storage, hub)
	contactService := service.NewContactService(userRepo, contactRepo, messageRepo, hub)
	messageService := service.NewMessageService(userRepo, contactRepo, messageRepo, storage, hub)

	handlers := &api.HandlersGroup{
		AuthHandler:    handler.NewAuthHandler(userService, cfg.Security.CookieSecure),
		ContactHandler: handler.NewContactHandler(contactService),
		MessageHandler: handler.NewMessageHandler(messageService),
		WsHandler:      handler.NewWsHandler(hub, userService, clientCfg, cfg.Server.AllowedOrigins),
		Resolver:       userService,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	router := api.SetupRouter(handlers)

	presenceStatsJob := job.NewPresenceStatsJob(hub, redis.SetWithExpiration, 10*time.Minute)
	cronMgr := cron.NewCronManager(cfg.Cron.PresenceStats, presenceStatsJob)

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		Hub:     hub,
		CronMgr: cronMgr,
	}, nil
}
