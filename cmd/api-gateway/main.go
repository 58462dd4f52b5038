package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dersplan/timetable-api/api/swagger"
	internalhandler "github.com/dersplan/timetable-api/internal/handler"
	"github.com/dersplan/timetable-api/internal/importer"
	"github.com/dersplan/timetable-api/internal/repository"
	"github.com/dersplan/timetable-api/internal/service"
	"github.com/dersplan/timetable-api/pkg/cache"
	"github.com/dersplan/timetable-api/pkg/config"
	"github.com/dersplan/timetable-api/pkg/database"
	"github.com/dersplan/timetable-api/pkg/jobs"
	"github.com/dersplan/timetable-api/pkg/logger"
	corsmiddleware "github.com/dersplan/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dersplan/timetable-api/pkg/middleware/requestid"
	"github.com/dersplan/timetable-api/pkg/metrics"
)

// @title Timetable API
// @version 0.1.0
// @description Constraint-based weekly university timetable scheduler
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
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, editor locking and job status caching degrade to no-ops", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	catalogueRepo := repository.NewCatalogueRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	generationSvc := service.NewGenerationService(catalogueRepo, scheduleRepo, service.GenerationConfig{
		RectorWideCodes:                     cfg.Scheduler.RectorWideCodes,
		ForcedDistribution:                  cfg.Scheduler.ForcedDistribution,
		AvailabilityMissingDayUnconstrained: cfg.Scheduler.AvailabilityMissingDayUnconstrained(),
		Seed:                                cfg.Scheduler.Seed,
	}, logr)

	// generationJobSvc is assigned after jobQueue is built and closes over it
	// by reference, since the queue's handler and the job service each need
	// the other to exist first.
	var generationJobSvc *service.GenerationJobService
	jobQueue := jobs.NewQueue("schedule-generation", func(ctx context.Context, job jobs.Job) error {
		return generationJobSvc.Handle(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		BufferSize: cfg.Jobs.BufferSize,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})
	metricsSvc := metrics.New()
	generationJobSvc = service.NewGenerationJobService(generationSvc, jobQueue, cacheRepo, cfg.Scheduler.ProposalTTL, metricsSvc, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	jobQueue.Start(ctx)
	defer jobQueue.Stop()

	editorSvc := service.NewEditorService(catalogueRepo, scheduleRepo, cacheRepo, service.EditorConfig{
		AvailabilityMissingDayUnconstrained: cfg.Scheduler.AvailabilityMissingDayUnconstrained(),
	}, logr)

	importSvc := service.NewImportService(importer.Config{SharedCoursePrefixes: cfg.Scheduler.SharedCoursePrefixes}, courseRepo, logr)
	exportSvc := service.NewExportService(catalogueRepo, scheduleRepo, logr)

	healthHandler := internalhandler.NewHealthHandler(metricsSvc)
	scheduleHandler := internalhandler.NewScheduleHandler(generationSvc, generationJobSvc, editorSvc, scheduleRepo, importSvc, exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metrics.GinMiddleware(metricsSvc))

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Health)
	r.GET("/metrics", healthHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	schedules := api.Group("/schedules")
	{
		schedules.POST("/generate", scheduleHandler.Generate)
		schedules.GET("", scheduleHandler.List)
		schedules.GET("/jobs/:jobId", scheduleHandler.JobStatus)
		schedules.POST("/import", scheduleHandler.Import)
		schedules.POST("/:id/move", scheduleHandler.Move)
		schedules.GET("/:id/slots", scheduleHandler.Slots)
		schedules.GET("/:id/export.:format", scheduleHandler.Export)
		schedules.DELETE("/:id", scheduleHandler.Delete)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Scheduler.RunTimeout + 15*time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
