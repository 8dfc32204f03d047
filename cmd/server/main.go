package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"case-exchange/config"
	"case-exchange/internal/handler"
	"case-exchange/internal/match"
	"case-exchange/internal/model"
	"case-exchange/internal/notify"
	"case-exchange/internal/repository"
	"case-exchange/internal/repository/mongodb"
	"case-exchange/internal/service"
	dbPkg "case-exchange/pkg/db"
	"case-exchange/pkg/jwt"
	"case-exchange/pkg/logger"
	redisPkg "case-exchange/pkg/redis"
	"case-exchange/pkg/response"
	"case-exchange/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	log.Info("=== 案例交换服务启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("database_host", cfg.Database.Host),
		zap.Int("database_port", cfg.Database.Port),
		zap.String("database_name", cfg.Database.Database),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("mongo_enabled", cfg.Mongo.URI != ""),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据库连接
	if _, err := dbPkg.InitDB(cfg.Database); err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(model.All()...); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 3.2 Redis 通知角标（可选）
	var (
		badgeInc   notify.BadgeIncrementer
		badgeStore service.BadgeStore
	)
	if cfg.Redis.Enabled {
		if err := redisPkg.InitRedis(cfg.Redis); err != nil {
			log.Warn("Redis连接失败，通知角标不可用", zap.Error(err))
		} else {
			defer redisPkg.Close()
			badgeInc = redisPkg.FeedBadge{}
			badgeStore = redisPkg.FeedBadge{}
			log.Info("Redis连接成功")
		}
	}

	// 3.3 MongoDB 交换状态流转日志（可选）
	var (
		history     mongodb.HistoryRepository
		mongoClient *mongo.Client
	)
	if cfg.Mongo.URI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
		cancel()
		if err != nil {
			log.Warn("MongoDB连接失败，不记录状态流转", zap.Error(err))
		} else {
			mongoClient = client
			history = mongodb.NewHistoryRepository(client, cfg.Mongo.Database, cfg.Mongo.Collection)
			log.Info("MongoDB连接成功", zap.String("database", cfg.Mongo.Database))
		}
	}

	// 3.4 初始化业务服务
	orm := dbPkg.GetDB()
	jwtSvc := jwt.NewJWTService(cfg.JWT)

	userRepo := repository.NewUserRepository(orm)
	caseRepo := repository.NewCaseRepository(orm)
	likeRepo := repository.NewLikeRepository(orm)
	interestRepo := repository.NewInterestRepository(orm)
	matchRepo := repository.NewMatchRepository(orm)
	offerRepo := repository.NewOfferRepository(orm)
	dismissalRepo := repository.NewDismissalRepository(orm)

	engine := match.NewEngine(caseRepo, userRepo, interestRepo,
		match.WithRegionLimit(cfg.Match.RegionTierLimit),
		match.WithShuffler(match.NewShuffler(cfg.Match.ShuffleSeed)),
	)
	notifier := notify.NewDefault(badgeInc)

	userSvc := service.NewUserService(userRepo, jwtSvc)
	caseSvc := service.NewCaseService(caseRepo, userRepo, likeRepo)
	interestSvc := service.NewInterestService(interestRepo)
	detector := service.NewMutualDetector(caseRepo, likeRepo, matchRepo)
	likeSvc := service.NewLikeService(caseRepo, likeRepo, detector, notifier)
	candidateSvc := service.NewCandidateService(engine, userRepo, likeRepo, cfg.Match.DefaultPageSize)
	offerSvc := service.NewOfferService(offerRepo, caseRepo, userRepo, caseSvc, history, notifier)
	feedSvc := service.NewFeedService(matchRepo, offerRepo, userRepo, caseRepo, dismissalRepo, badgeStore)

	handlers := &handler.Handlers{
		User:     handler.NewUserHandler(userSvc),
		Case:     handler.NewCaseHandler(caseSvc),
		Browse:   handler.NewBrowseHandler(candidateSvc, likeSvc),
		Interest: handler.NewInterestHandler(interestSvc),
		Offer:    handler.NewOfferHandler(offerSvc),
		Feed:     handler.NewFeedHandler(feedSvc),
	}

	// 4. 设置Gin模式
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 5. 创建Gin路由
	router := gin.New()
	router.Use(logger.RequestID())
	router.Use(logger.RequestLogger())
	router.Use(logger.ErrorLoggerMiddleware())

	// 6. 设置基础路由
	setupBasicRoutes(router, cfg)

	// 6.1 业务路由
	v1 := router.Group("/api/v1")
	v1.Use(handler.RequestTimeout(cfg.Server.RequestTimeout))
	handler.RegisterRoutes(v1, handlers, jwtSvc.AuthMiddleware())

	// WebSocket路由
	router.GET("/ws", websocket.NewHandler(websocket.GetManager(), jwtSvc, cfg.WebSocket))

	// 7. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 8. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 9. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Error("MongoDB断开失败", zap.Error(err))
		}
	}

	log.Info("服务器已安全关闭")
}

// setupBasicRoutes 设置基础路由
func setupBasicRoutes(router *gin.Engine, cfg *config.Config) {
	// 健康检查
	// 完整url为：http://localhost:8080/health
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := dbPkg.HealthCheck(); err != nil {
			status = "db-down"
		}
		redisStatus := "disabled"
		if cfg.Redis.Enabled {
			redisStatus = "ok"
			if err := redisPkg.HealthCheck(); err != nil {
				redisStatus = "down"
			}
		}
		response.Success(c, gin.H{
			"status": status,
			"redis":  redisStatus,
			"online": websocket.GetManager().OnlineCount(),
			"time":   time.Now().Format(time.RFC3339),
		})
	})
}
