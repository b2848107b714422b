package main

import (
	"board-backend/config"
	"board-backend/internal/api/admin"
	"board-backend/internal/api/board"
	"board-backend/internal/api/customer"
	"board-backend/internal/common"
	"board-backend/internal/middleware"
	"board-backend/internal/repository/mysql"
	"board-backend/internal/service"
	"board-backend/internal/storage"
	"board-backend/internal/util"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 配置连接池
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 测试数据库连接，启动阶段允许短暂重试
	if err := common.WithRetry(db.Ping, 3); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("not_blank", util.ValidateNotBlank)
	}

	// 初始化附件存储
	attachmentStorage := newStorage()

	// 初始化存储库、服务和处理器
	customerRepo := mysql.NewCustomerRepository(db)
	postRepo := mysql.NewPostRepository(db)

	var emailService *service.EmailService
	if config.AppConfig.SMTPHost != "" {
		emailService = service.NewEmailService()
	}

	customerService := service.NewCustomerService(customerRepo, emailService)
	postService := service.NewPostService(postRepo, customerRepo)
	statsService := service.NewStatsService(customerRepo, postRepo)

	// 初始化错误监控，计数通过管理后台的统计接口暴露
	errorMonitor := middleware.NewErrorMonitor()

	authHandler := customer.NewAuthHandler(customerService)
	profileHandler := customer.NewProfileHandler(customerService)
	boardHandler := board.NewBoardHandler(postService, attachmentStorage)
	adminHandler := admin.NewAdminHandler(customerService, statsService, errorMonitor)

	// 设置 Gin 路由
	r := gin.Default()

	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	r.Use(cors.New(corsConfig))

	// 本地存储时通过静态路由提供附件访问
	if config.AppConfig.StorageBackend == "local" {
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	// 定义 API 路由
	api := r.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 帖子列表无需登录
		api.GET("/posts", boardHandler.ListPosts)

		// 需要认证的路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware(customerService))
		{
			authorized.GET("/profile", profileHandler.GetProfile)
			authorized.POST("/refresh-token", authHandler.RefreshToken)
			authorized.POST("/posts", boardHandler.CreatePost)
			authorized.GET("/posts/:id", boardHandler.ViewPost)
			authorized.POST("/posts/:id/like", boardHandler.ToggleLike)
		}

		// 管理员路由组
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(customerService), middleware.AdminMiddleware(customerService))
		{
			adminRoutes.GET("/stats", adminHandler.GetSystemStats)
			adminRoutes.GET("/customers", adminHandler.GetCustomers)
			adminRoutes.GET("/customers/:user_id", adminHandler.GetCustomerByUserID)
		}
	}

	srv := &http.Server{
		Addr:    config.AppConfig.ServerAddr,
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动", zap.String("addr", config.AppConfig.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// newStorage 根据配置选择附件存储后端
func newStorage() storage.Storage {
	switch config.AppConfig.StorageBackend {
	case "s3":
		s3Client, err := storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
		if err != nil {
			util.Logger.Fatal("初始化S3存储失败", zap.Error(err))
		}
		return s3Client
	case "gcs":
		gcsClient, err := storage.NewGCSClient(config.AppConfig.GCSBucketName, config.AppConfig.GCSCredentialsFile)
		if err != nil {
			util.Logger.Fatal("初始化GCS存储失败", zap.Error(err))
		}
		return gcsClient
	default:
		localStorage, err := storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
		if err != nil {
			util.Logger.Fatal("初始化本地存储失败", zap.Error(err))
		}
		return localStorage
	}
}
