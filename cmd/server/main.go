package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nicolaspaye/gamification/internal/config"
	"nicolaspaye/gamification/internal/gamification"
	"nicolaspaye/gamification/internal/handlers"
	"nicolaspaye/gamification/internal/jobs"
	"nicolaspaye/gamification/internal/metrics"
	"nicolaspaye/gamification/internal/models"
	"nicolaspaye/gamification/internal/repositories"
	"nicolaspaye/gamification/internal/routers"
	"nicolaspaye/gamification/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	// TranslateError maps unique-constraint violations to
	// gorm.ErrDuplicatedKey, which the duplicate-award guard relies on.
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.XPEvent{},
		&models.Submission{},
		&models.UserBadge{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

func registerRoutes(router *chi.Mux, db *gorm.DB, engine *gamification.Engine, job *jobs.StreakMaintenanceJob, logger *zap.Logger, cfg *config.Config) {
	users := &repositories.UserRepository{DB: db}
	events := &repositories.XPEventRepository{DB: db}
	submissions := &repositories.SubmissionRepository{DB: db}
	badges := &repositories.BadgeRepository{DB: db}

	xpHandler := &handlers.XPHandler{Engine: engine, JWTSecret: cfg.JWTSecret}
	submissionHandler := &handlers.SubmissionHandler{
		Submissions: submissions,
		Users:       users,
		Engine:      engine,
		Logger:      logger,
	}
	statsHandler := &handlers.StatsHandler{Users: users, Events: events, Badges: badges}
	jobHandler := &handlers.JobHandler{Job: job, Secret: cfg.JobSecret}
	healthHandler := &handlers.HealthHandler{DB: db}

	routers.XPRoutes(router, xpHandler)
	routers.SubmissionRoutes(router, submissionHandler)
	routers.StatsRoutes(router, statsHandler)
	routers.JobRoutes(router, jobHandler)

	router.Get("/healthz", healthHandler.Healthz)
	router.Handle("/metrics", metrics.Handler())
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	engine := gamification.NewEngine(db, logger)

	job := jobs.NewStreakMaintenanceJob(db, logger, cfg.StreakSchedule)
	if err := job.Start(); err != nil {
		logger.Fatal("failed to schedule streak maintenance", zap.Error(err))
	}

	subscriberCtx, stopSubscriber := context.WithCancel(context.Background())
	subscriber := services.NewModerationSubscriber(rdb, engine, logger)
	go subscriber.Subscribe(subscriberCtx)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)

	registerRoutes(router, db, engine, job, logger, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("gamification service starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("gamification service shutting down...")

	job.Stop()
	stopSubscriber()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("gamification service exited")
}
