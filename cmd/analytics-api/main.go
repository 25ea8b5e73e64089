package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/odtrack/analytics-api/api/swagger"
	"github.com/odtrack/analytics-api/internal/handler"
	"github.com/odtrack/analytics-api/internal/middleware"
	"github.com/odtrack/analytics-api/internal/models"
	"github.com/odtrack/analytics-api/internal/repository"
	"github.com/odtrack/analytics-api/internal/service"
	"github.com/odtrack/analytics-api/pkg/cache"
	"github.com/odtrack/analytics-api/pkg/config"
	"github.com/odtrack/analytics-api/pkg/database"
	"github.com/odtrack/analytics-api/pkg/export"
	"github.com/odtrack/analytics-api/pkg/logger"
	corsmiddleware "github.com/odtrack/analytics-api/pkg/middleware/cors"
	reqidmiddleware "github.com/odtrack/analytics-api/pkg/middleware/requestid"
	"github.com/odtrack/analytics-api/pkg/progress"
	"github.com/odtrack/analytics-api/pkg/storage"
)

// @title ODTrack Analytics API
// @version 1.0.0
// @description Staff workload analytics and report export service for on-duty request tracking
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Analytics.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, true)
		}
	}

	artifacts, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("init export storage", zap.Error(err))
	}

	odRequests := repository.NewODRequestRepository(db)
	workloads := repository.NewWorkloadRepository(db)
	benchmarks := repository.NewBenchmarkRepository(db)
	staff := repository.NewStaffRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	users := repository.NewUserRepository(db)
	exportHistory := repository.NewExportHistoryRepository(db)

	authSvc := service.NewAuthService(users, cfg.JWT.Secret, cfg.JWT.Expiration, logr)
	workloadSvc := service.NewWorkloadService(workloads, cacheSvc, metrics, logr)
	efficiencySvc := service.NewEfficiencyService(odRequests, benchmarks, staff, cacheSvc, metrics, logr)
	teachingSvc := service.NewTeachingService(workloads, enrollments, logr)
	performanceSvc := service.NewPerformanceService(workloadSvc, teachingSvc, efficiencySvc, staff, logr)
	reportSvc := service.NewReportService(odRequests, staff, efficiencySvc, logr)

	hub := progress.NewHub()
	renderers := map[models.ExportFormat]service.Renderer{
		models.FormatPDF: export.NewPDFRenderer("ODTrack Academia"),
		models.FormatCSV: export.NewCSVRenderer(),
	}
	exportSvc := service.NewExportService(reportSvc, exportHistory, artifacts, hub, metrics, renderers, service.ExportServiceConfig{
		Workers: cfg.Reports.WorkerConcurrency,
		Timeout: cfg.Reports.ExportTimeout,
		Logger:  logr,
	})
	historySvc := service.NewHistoryService(exportHistory, artifacts, cfg.Reports.RetentionPeriod, logr)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	exportSvc.Start(ctx)
	defer exportSvc.Stop()
	historySvc.StartCleanup(ctx, cfg.Reports.CleanupInterval)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r, cfg.APIPrefix, handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Analytics: handler.NewAnalyticsHandler(workloadSvc, efficiencySvc, performanceSvc, teachingSvc),
		Reports:   handler.NewReportHandler(exportSvc),
		History:   handler.NewHistoryHandler(historySvc),
		Progress:  handler.NewProgressHandler(hub, logr),
	}, authSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
