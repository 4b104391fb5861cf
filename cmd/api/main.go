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
	"go.uber.org/zap"

	_ "github.com/study-buddy/study-buddy-api/api/swagger"
	"github.com/study-buddy/study-buddy-api/internal/genai"
	"github.com/study-buddy/study-buddy-api/internal/handler"
	"github.com/study-buddy/study-buddy-api/internal/middleware"
	"github.com/study-buddy/study-buddy-api/internal/repository"
	"github.com/study-buddy/study-buddy-api/internal/service"
	"github.com/study-buddy/study-buddy-api/pkg/cache"
	"github.com/study-buddy/study-buddy-api/pkg/config"
	"github.com/study-buddy/study-buddy-api/pkg/database"
	"github.com/study-buddy/study-buddy-api/pkg/logger"
	corsmiddleware "github.com/study-buddy/study-buddy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/study-buddy/study-buddy-api/pkg/middleware/requestid"
	"github.com/study-buddy/study-buddy-api/pkg/storage"
)

// @title Study Buddy API
// @version 0.1.0
// @description AI-assisted study planner: timetables, syllabi, notes and tutorial solving
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
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional: the planner degrades to cache misses when it is
	// unreachable, so a dead cache must not keep the API from starting.
	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	rosterRepo := repository.NewRosterRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Planner.CacheTTL, logr, cacheRepo != nil)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "study-buddy-api",
	})

	emailSvc := service.NewEmailService(service.NewSMTPSender(cfg.Email), cfg.Email, logr)
	emailSvc.Start(ctx)
	defer emailSvc.Stop()

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("export storage init failed", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(exportStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, nil)
	exportSvc.StartCleanup(ctx, cfg.Exports.CleanupInterval)

	uploadStore, err := storage.NewLocalStorage(cfg.Solver.UploadDir)
	if err != nil {
		logr.Sugar().Fatalw("upload storage init failed", "error", err)
	}

	aiClient := genai.NewClient(cfg.Gemini, logr)

	plannerSvc := service.NewPlannerService(rosterRepo, aiClient, cacheSvc, metricsSvc, exportSvc, emailSvc, validate, logr, service.PlannerOptions{
		CacheTTL:   cfg.Planner.CacheTTL,
		MinCourses: cfg.Planner.MinCourses,
	})
	syllabusSvc := service.NewSyllabusService(aiClient, metricsSvc, validate, logr)
	notesSvc := service.NewNotesService(aiClient, metricsSvc, exportSvc, validate, logr)
	solverSvc := service.NewSolverService(aiClient, uploadStore, metricsSvc, logr, service.SolverOptions{
		MaxFileSizeBytes: cfg.Solver.MaxFileSizeBytes,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	registerRoutes(r, cfg, authSvc,
		handler.NewAuthHandler(authSvc, emailSvc),
		handler.NewPlannerHandler(plannerSvc),
		handler.NewSyllabusHandler(syllabusSvc),
		handler.NewNotesHandler(notesSvc),
		handler.NewSolverHandler(solverSvc, cfg.Solver.MaxFileSizeBytes),
		handler.NewExportHandler(exportSvc),
		handler.NewMetricsHandler(metricsSvc),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("shutdown incomplete", zap.Error(err))
	}
	logr.Info("server stopped")
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	authSvc *service.AuthService,
	auth *handler.AuthHandler,
	planner *handler.PlannerHandler,
	syllabus *handler.SyllabusHandler,
	notes *handler.NotesHandler,
	solver *handler.SolverHandler,
	export *handler.ExportHandler,
	metrics *handler.MetricsHandler,
) {
	r.GET("/health", metrics.Health)
	r.GET("/ready", metrics.Health)
	r.GET("/metrics", metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/signup", auth.Signup)
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/refresh", auth.Refresh)

	api.GET("/export/:token", export.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.POST("/auth/logout", auth.Logout)
	authed.GET("/auth/me", auth.Me)

	authed.POST("/timetable", planner.Generate)
	authed.GET("/timetable/last", planner.Last)
	authed.GET("/timetable/export", planner.Export)
	authed.GET("/roster/latest", planner.LatestRoster)

	authed.POST("/syllabus", syllabus.Generate)
	authed.POST("/notes", notes.Generate)
	authed.POST("/notes/export", notes.Export)
	authed.POST("/solver", solver.Solve)

	authed.GET("/metrics/summary", metrics.Snapshot)
}
