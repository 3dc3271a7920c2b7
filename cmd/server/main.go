package main

import (
	"fmt"
	"log"

	"esmu-server/internal/api"
	"esmu-server/internal/blobstore"
	"esmu-server/internal/metrics"
	"esmu-server/internal/middleware"
	"esmu-server/internal/model"
	"esmu-server/internal/repository"
	"esmu-server/internal/service"
	"esmu-server/pkg/config"
	"esmu-server/pkg/db"
	"esmu-server/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// 初始化配置
	if err := config.Init(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.InitLogger(config.GlobalConfig.Log.Level, config.GlobalConfig.Log.Production); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库连接
	if err := db.InitDB(); err != nil {
		logger.L.Fatal("Failed to initialize database", zap.Error(err))
	}

	// 初始化对象存储
	blob := blobstore.New(config.GlobalConfig.Blob.Path)
	defer func() {
		if err := blob.Close(); err != nil {
			logger.L.Warn("Failed to close blob store", zap.Error(err))
		}
	}()

	// 组装各层依赖
	userRepo := repository.NewUserRepository()
	threadRepo := repository.NewThreadRepository()
	messageRepo := repository.NewMessageRepository()
	fileRepo := repository.NewFileRepository()
	recordRepo := repository.NewRecordRepository()

	threadService := service.NewThreadService(threadRepo, messageRepo, userRepo, blob)
	fileService := service.NewFileService(fileRepo, blob)
	recordService := service.NewRecordService(recordRepo)
	userService := service.NewUserService(userRepo, blob)

	authHandler := api.NewAuthHandler()
	threadHandler := api.NewThreadHandler(threadService)
	fileHandler := api.NewFileHandler(fileService, blob)
	recordHandler := api.NewRecordHandler(recordService)
	userHandler := api.NewUserHandler(userService)

	// 创建Gin引擎
	r := gin.New()
	r.Use(middleware.GinZapLogger(), gin.Recovery(), metrics.GinMiddleware())

	// 公开路由
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/api/auth/register", authHandler.Register)
	r.POST("/api/auth/login", authHandler.Login)
	r.GET("/files/:filename", fileHandler.StreamFile)

	// 受保护的路由
	authed := r.Group("/api", middleware.AuthMiddleware())
	{
		authed.GET("/users/me", userHandler.GetMe)
		authed.PATCH("/users/me", userHandler.UpdateProfile)

		authed.GET("/contacts", threadHandler.GetContacts)
		authed.POST("/threads", threadHandler.CreateThread)
		authed.GET("/threads", threadHandler.GetUserThreads)
		authed.PATCH("/threads/:thread_id", threadHandler.UpdateThreadName)
		authed.GET("/threads/:thread_id/messages", threadHandler.GetThreadMessages)
		authed.POST("/threads/:thread_id/messages", threadHandler.AddMessage)
		authed.PATCH("/threads/:thread_id/messages/:message_id", threadHandler.EditMessage)
		authed.DELETE("/threads/:thread_id/messages/:message_id", threadHandler.DeleteMessage)
		authed.POST("/threads/:thread_id/messages/:message_id/replies", threadHandler.ReplyToMessage)
		authed.POST("/threads/:thread_id/read", threadHandler.MarkMessagesAsRead)

		authed.POST("/files", fileHandler.UploadFiles)
	}

	// 管理路由，仅限管理员
	admin := r.Group("/api", middleware.AuthMiddleware(model.RoleAdmin, model.RoleSuperAdmin))
	{
		admin.GET("/records", recordHandler.GetRecords)
		admin.POST("/records", recordHandler.CreateRecord)
		admin.PATCH("/records/:id", recordHandler.UpdateRecord)
		admin.DELETE("/records", recordHandler.DeleteRecords)

		admin.GET("/users", userHandler.GetUsers)
		admin.PATCH("/users/:id", userHandler.UpdateUser)
		admin.DELETE("/users", userHandler.DeleteUsers)
	}

	// 启动服务器
	addr := fmt.Sprintf(":%d", config.GlobalConfig.Server.Port)
	logger.L.Info("Server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.L.Fatal("Failed to start server", zap.Error(err))
	}
}
