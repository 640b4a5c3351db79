package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"EsportsHub/internal/api"
	"EsportsHub/internal/chain"
	"EsportsHub/internal/config"
	"EsportsHub/internal/ipfs"
	"EsportsHub/internal/realtime"
	"EsportsHub/internal/repository"
	"EsportsHub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func newLogger(cfg config.LogConfig) *logrus.Logger {
	l := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	if cfg.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

// openStore dsn 为空时使用内存存储
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *logrus.Logger) (repository.Store, func(), error) {
	if cfg.DSN == "" {
		logger.Info("未配置 database.dsn，使用内存存储（重启后数据丢失）")
		return repository.NewMemoryStore(), func() {}, nil
	}
	db, err := repository.OpenPostgres(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("连接PostgreSQL失败: %w", err)
	}
	logger.Info("PostgreSQL连接成功")
	store := repository.NewGormStore(db)
	if err := store.AutoMigrate(ctx); err != nil {
		return nil, nil, fmt.Errorf("数据库表结构迁移失败: %w", err)
	}
	logger.Info("数据库表结构检查完成（不存在则已创建）")
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return store, closeFn, nil
}

// originChecker 与 CORS 使用同一份前端地址列表
func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logger := newLogger(cfg.Log)
	logger.Info("配置文件加载成功")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 存储
	store, closeStore, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal(err)
	}
	defer closeStore()

	// 4. 链上与内容适配器（启动时选定，进程内不再切换）
	chainAdapter, err := chain.NewAdapter(cfg.Chain, logger)
	if err != nil {
		logger.Fatalf("初始化链上适配器失败: %v", err)
	}
	content := ipfs.NewContentAdapter(cfg.Content, logger)

	// 5. 实时推送：本机 hub，可选 Redis 中继与 Kafka 审计流
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	hub := realtime.NewHub(originChecker(cfg.Server.AllowedOrigins), logger, realtime.NewMetrics(reg))
	defer hub.Close()

	var (
		relay *realtime.RedisRelay
		sink  *realtime.KafkaSink
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("连接Redis失败: %v", err)
		}
		defer rdb.Close()
		relay = realtime.NewRedisRelay(rdb, cfg.Redis.Channel, logger)
		if err := relay.Start(ctx, hub); err != nil {
			logger.Fatalf("启动Redis推送中继失败: %v", err)
		}
	}
	if cfg.Kafka.Brokers != "" {
		writer := realtime.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer writer.Close()
		sink = realtime.NewKafkaSink(writer)
		logger.WithField("topic", writer.Topic).Info("Kafka 审计流已启用")
	}
	pub := realtime.NewPublisher(hub, relay, sink)

	// 6. 业务 service
	market := service.NewMarketService(store, chainAdapter, pub, logger)
	video := service.NewVideoService(store, chainAdapter, content, pub, logger)
	course := service.NewCourseService(store, chainAdapter, logger)
	marketplace := service.NewMarketplaceService(store, chainAdapter, pub, logger)

	// 7. 配置Gin运行模式并注册路由
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.Deps{
		Config:      cfg,
		Store:       store,
		Chain:       chainAdapter,
		Content:     content,
		Hub:         hub,
		Gatherer:    reg,
		Logger:      logger,
		Market:      market,
		Video:       video,
		DAO:         service.NewDAOService(store, chainAdapter, pub, logger),
		Course:      course,
		Marketplace: marketplace,
		User:        service.NewUserService(store, chainAdapter, logger),
		Admin:       service.NewAdminService(*cfg, chainAdapter, market, video, course, marketplace, logger),
	})
	logger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	// 8. 启动服务，收到退出信号后优雅关闭
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("服务启动成功，端口：%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("启动服务失败: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("收到退出信号，开始关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("服务关闭失败")
	}
}
