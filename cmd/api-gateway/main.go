package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/ecolog-api/api/swagger"
	"github.com/noah-isme/ecolog-api/internal/emission"
	"github.com/noah-isme/ecolog-api/internal/handler"
	"github.com/noah-isme/ecolog-api/internal/middleware"
	"github.com/noah-isme/ecolog-api/internal/models"
	"github.com/noah-isme/ecolog-api/internal/repository"
	"github.com/noah-isme/ecolog-api/internal/service"
	"github.com/noah-isme/ecolog-api/pkg/cache"
	"github.com/noah-isme/ecolog-api/pkg/config"
	"github.com/noah-isme/ecolog-api/pkg/database"
	"github.com/noah-isme/ecolog-api/pkg/jobs"
	"github.com/noah-isme/ecolog-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/ecolog-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ecolog-api/pkg/middleware/requestid"
	"github.com/noah-isme/ecolog-api/pkg/storage"
)

// @title EcoLog API
// @version 1.0.0
// @description Student CO2 emissions logbook for schools
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

	tables := emission.Default()
	if err := tables.Validate(); err != nil {
		logr.Sugar().Fatalw("invalid emission tables", "error", err)
	}
	calculator := emission.NewCalculator(tables, emission.Ceilings{
		TransportMinutes: cfg.Entries.TransportMinutes,
		WasteItems:       cfg.Entries.WasteItems,
		DigitalHours:     cfg.Entries.DigitalHours,
	})

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, history caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	logRepo := repository.NewLogRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.History.CacheTTL, logr, redisClient != nil)

	authSvc := service.NewAuthService(userRepo, studentRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	studentSvc := service.NewStudentService(studentRepo, cacheSvc, service.SeedingConfig{
		MaxStudents: cfg.Seeding.MaxStudents,
		BatchSize:   cfg.Seeding.BatchSize,
	}, validate, logr)
	adviceSvc := service.NewAdviceService(service.AdviceConfig{
		Enabled: cfg.Advice.Enabled,
		BaseURL: cfg.Advice.BaseURL,
		Models:  cfg.Advice.Models,
		Timeout: cfg.Advice.Timeout,
	}, metricsSvc, logr)
	logbookSvc := service.NewLogbookService(logRepo, calculator, adviceSvc, cacheSvc, metricsSvc, validate, logr)
	historySvc := service.NewHistoryService(logRepo, tables, cacheSvc, service.HistoryConfig{
		CacheTTL:      cfg.History.CacheTTL,
		RecentBuckets: cfg.History.RecentBuckets,
	}, logr)
	maintenanceSvc := service.NewMaintenanceService(logRepo, cacheSvc, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var reportSvc *service.ReportService
	var reportQueue *jobs.Queue
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc := service.NewExportService(studentRepo, logRepo, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr, nil, nil)

		worker := service.NewReportWorker(reportRepo, exportSvc, metricsSvc, cfg.Reports.WorkerRetries, logr)
		reportQueue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportQueue.Start(ctx)
		defer reportQueue.Stop()

		reportSvc = service.NewReportService(reportRepo, reportQueue, exportSvc, validate, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	logbookHandler := handler.NewLogbookHandler(logbookSvc)
	historyHandler := handler.NewHistoryHandler(historySvc)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/student", authHandler.StudentLogin)

	students := api.Group("/students/:id", middleware.JWT(authSvc), middleware.RBAC("SELF", string(models.RoleTeacher), string(models.RoleAdmin)))
	students.GET("", studentHandler.GetProfile)
	students.PUT("/profile", studentHandler.UpdateProfile)
	students.POST("/logs/preview", logbookHandler.Preview)
	students.POST("/logs", logbookHandler.Save)
	students.GET("/logs", logbookHandler.List)
	students.GET("/history/daily", historyHandler.Daily)
	students.GET("/history/recent", historyHandler.Recent)
	students.GET("/history/breakdown", historyHandler.Breakdown)

	admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin))
	admin.GET("/students", studentHandler.Roster)
	admin.POST("/students/seed", studentHandler.SeedAccounts)
	admin.DELETE("/students/:id", studentHandler.Delete)
	admin.DELETE("/students", middleware.RequireRoles(models.RoleAdmin), studentHandler.DeleteAll)
	admin.DELETE("/logs/range", middleware.RequireRoles(models.RoleAdmin), maintenanceHandler.DeleteRange)
	admin.DELETE("/logs", middleware.RequireRoles(models.RoleAdmin), maintenanceHandler.DeleteAll)

	if reportSvc != nil {
		reportHandler := handler.NewReportHandler(reportSvc)
		admin.POST("/reports", reportHandler.Generate)
		admin.GET("/reports/:jobId", reportHandler.Status)
		api.GET("/reports/download/:token", reportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
