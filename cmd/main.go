package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fyerfyer/doc-editor-system/api"
	"github.com/fyerfyer/doc-editor-system/api/handler"
	"github.com/fyerfyer/doc-editor-system/api/middleware"
	editorconfig "github.com/fyerfyer/doc-editor-system/config"
	"github.com/fyerfyer/doc-editor-system/internal/cache"
	"github.com/fyerfyer/doc-editor-system/internal/database"
	"github.com/fyerfyer/doc-editor-system/internal/draft"
	"github.com/fyerfyer/doc-editor-system/internal/eventbus"
	"github.com/fyerfyer/doc-editor-system/internal/export"
	"github.com/fyerfyer/doc-editor-system/internal/repository"
	"github.com/fyerfyer/doc-editor-system/internal/services"
	"github.com/fyerfyer/doc-editor-system/pkg/storage"
	"github.com/fyerfyer/doc-editor-system/pkg/taskqueue"
)

// 命令行参数
type flags struct {
	ConfigFile string // 配置文件路径
	Port       int    // 服务端口（覆盖配置文件）
	Mode       string // 运行模式 (debug/release)
	LogLevel   string // 日志级别（覆盖配置文件）
}

func main() {
	f := parseFlags()

	// 加载配置文件
	cfg, err := editorconfig.Load(f.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlagOverrides(cfg, f)

	// 设置Gin模式
	gin.SetMode(f.Mode)

	// 初始化日志
	logger := setupLogger(cfg.Logging)
	logger.Info("Starting Document Editor System...")

	// 初始化数据库
	if err := setupDatabase(cfg, logger); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	// 创建文件存储服务
	fileStorage, err := setupStorage(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// 创建缓存服务
	cacheService, err := setupCache(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}

	// 创建事件总线
	bus, err := setupEventBus(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize event bus: %v", err)
	}
	defer bus.Close()

	// 初始化任务队列（如果启用）
	var queue taskqueue.Queue
	if cfg.Queue.Enable {
		queue, err = setupTaskQueue(cfg, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer queue.Close()
		logger.Info("Task queue initialized successfully")
	}

	// 创建草稿存储
	draftStore := draft.NewStore(cacheService, bus,
		draft.WithTTL(cfg.Draft.TTL),
		draft.WithLogger(logger),
	)

	// 初始化业务服务
	repo := repository.NewDocumentRepository()
	statusManager := services.NewDocumentStatusManager(repo, logger)
	exporter := export.NewExporter(repo, fileStorage, export.WithLogger(logger))

	editorOptions := []services.EditorOption{
		services.WithLogger(logger),
		services.WithDraftStore(draftStore),
		services.WithEventBus(bus),
		services.WithStatusManager(statusManager),
		services.WithExporter(exporter),
	}
	if queue != nil {
		editorOptions = append(editorOptions, services.WithTaskQueue(queue))
		logger.Info("Document import/export will use async task queue")
	}

	editorService := services.NewEditorService(repo, fileStorage, editorOptions...)

	// 启动任务队列工作者
	if queue != nil {
		worker, err := setupWorker(queue, cfg, editorService, logger)
		if err != nil {
			logger.Fatalf("Failed to start task queue worker: %v", err)
		}
		defer worker.Stop()
	}

	// 初始化API处理器
	docHandler := handler.NewDocumentHandler(editorService)
	importHandler := handler.NewImportHandler(editorService)
	draftHandler := handler.NewDraftHandler(editorService)
	exportHandler := handler.NewExportHandler(editorService)
	taskHandler := handler.NewTaskHandler(editorService)

	// 设置路由
	r := api.SetupRouter(docHandler, importHandler, draftHandler, exportHandler, taskHandler)

	// 启动HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// 优雅关闭
	go func() {
		logger.Infof("Server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// 等待终止信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// 创建带超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// parseFlags 解析命令行参数
func parseFlags() flags {
	f := flags{}

	flag.StringVar(&f.ConfigFile, "config", "", "Path to config file")
	flag.IntVar(&f.Port, "port", 0, "Server port (overrides config file)")
	flag.StringVar(&f.Mode, "mode", "release", "Run mode (debug/release)")
	flag.StringVar(&f.LogLevel, "log-level", "", "Log level (debug/info/warn/error)")

	flag.Parse()
	return f
}

// applyFlagOverrides 命令行参数优先于配置文件
func applyFlagOverrides(cfg *editorconfig.Config, f flags) {
	if f.Port > 0 {
		cfg.Server.Port = f.Port
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
}

// setupLogger 设置日志系统
func setupLogger(cfg editorconfig.LoggingConfig) *logrus.Logger {
	logger := middleware.GetLogger()

	// 设置日志级别
	switch cfg.Level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	// 配置了日志文件时同时写入滚动日志文件
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}

	return logger
}

// setupDatabase 设置数据库
func setupDatabase(cfg *editorconfig.Config, logger *logrus.Logger) error {
	if cfg.Database.Type == "sqlite" {
		// 确保数据目录存在
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %v", err)
		}
	}

	dbConfig := &database.Config{
		Type: cfg.Database.Type,
		DSN:  cfg.Database.DSN,
	}

	return database.Setup(dbConfig, logger)
}

// setupStorage 设置文件存储服务
func setupStorage(cfg *editorconfig.Config) (storage.Storage, error) {
	storageConfig := storage.Config{
		Type: cfg.Storage.Type,
		Local: storage.LocalConfig{
			Path: cfg.Storage.Path,
		},
		Minio: storage.MinioConfig{
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKey,
			SecretAccessKey: cfg.Storage.SecretKey,
			UseSSL:          cfg.Storage.UseSSL,
			BucketName:      cfg.Storage.Bucket,
		},
	}

	return storage.NewStorage(storageConfig)
}

// setupCache 设置缓存服务
func setupCache(cfg *editorconfig.Config) (cache.Cache, error) {
	cacheConfig := cache.Config{
		Type:            cfg.Cache.Type,
		DefaultTTL:      cfg.Cache.TTL,
		CleanupInterval: 10 * time.Minute,
	}

	if cfg.Cache.Type == "redis" {
		cacheConfig.RedisAddr = cfg.Cache.Address
		cacheConfig.RedisPassword = cfg.Cache.Password
		cacheConfig.RedisDB = cfg.Cache.DB
	}

	return cache.NewCache(cacheConfig)
}

// setupEventBus 设置事件总线
func setupEventBus(cfg *editorconfig.Config) (eventbus.Bus, error) {
	busConfig := eventbus.DefaultConfig()
	busConfig.Type = cfg.Bus.Type
	if cfg.Bus.Type == "redis" {
		busConfig.RedisAddr = cfg.Bus.RedisAddr
		busConfig.RedisPassword = cfg.Bus.RedisPassword
		busConfig.RedisDB = cfg.Bus.RedisDB
		if cfg.Bus.ChannelPrefix != "" {
			busConfig.ChannelPrefix = cfg.Bus.ChannelPrefix
		}
	}

	return eventbus.NewBus(busConfig)
}

// setupTaskQueue 设置任务队列
func setupTaskQueue(cfg *editorconfig.Config, logger *logrus.Logger) (taskqueue.Queue, error) {
	queueConfig := taskqueue.DefaultConfig()
	queueConfig.RedisAddr = cfg.Queue.RedisAddr
	queueConfig.RedisPassword = cfg.Queue.RedisPassword
	queueConfig.RedisDB = cfg.Queue.RedisDB
	queueConfig.Concurrency = cfg.Queue.Concurrency
	queueConfig.RetryLimit = cfg.Queue.RetryLimit
	queueConfig.RetryDelay = cfg.Queue.RetryDelay

	logger.WithFields(logrus.Fields{
		"type":        cfg.Queue.Type,
		"redis_addr":  cfg.Queue.RedisAddr,
		"concurrency": cfg.Queue.Concurrency,
		"retry_limit": cfg.Queue.RetryLimit,
	}).Info("Setting up task queue")

	return taskqueue.NewQueue(cfg.Queue.Type, queueConfig)
}

// setupWorker 启动任务队列工作者并注册导入导出处理器
func setupWorker(queue taskqueue.Queue, cfg *editorconfig.Config, editor *services.EditorService, logger *logrus.Logger) (taskqueue.Worker, error) {
	redisQueue, ok := queue.(*taskqueue.RedisQueue)
	if !ok {
		return nil, fmt.Errorf("task queue type %s does not support workers", cfg.Queue.Type)
	}

	worker := taskqueue.NewRedisWorker(redisQueue, nil)
	worker.RegisterHandler(taskqueue.TaskDocumentImport, editor.ImportTaskHandler())
	worker.RegisterHandler(taskqueue.TaskDocumentExport, editor.ExportTaskHandler())

	if err := worker.Start(); err != nil {
		return nil, fmt.Errorf("failed to start worker: %v", err)
	}

	logger.Info("Task queue worker started")
	return worker, nil
}
