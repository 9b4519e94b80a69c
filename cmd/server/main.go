package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AlanDanielGC/hr-hub-main-sub001/config"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/api/handler"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/api/router"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/repository"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/service"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/database"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/jwt"
	applogger "github.com/AlanDanielGC/hr-hub-main-sub001/pkg/logger"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/notify"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/redis"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/storage"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("RRHH_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var cache service.SessionCache
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，会话缓存与登录限流将不可用", zap.Error(err))
		rdb = nil
	} else {
		cache = rdb
	}

	// 5. 对象存储与通知
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.NewS3Storage(initCtx, &cfg.Storage, logger)
	initCancel()
	if err != nil {
		logger.Fatal("对象存储初始化失败", zap.Error(err))
	}
	notifier := notify.NewNotifier(&cfg.Notify, logger)

	// 6. 设备令牌管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, cache, store, notifier, logger)
	h := handler.NewHandler(cfg, svc)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, svc.Auth, jwtMgr, rdb, logger)

	// 9. 后台清理过期会话
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		service.NewSessionSweeper(svc.Auth, cfg.Auth.SessionSweepInterval, logger).Run(ctx)
	}()

	// 10. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("收到关闭信号，开始优雅关闭...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}
	<-sweeperDone

	// 关闭数据库连接
	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
