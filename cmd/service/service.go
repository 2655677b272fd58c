package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	configs "taskgame_service/config"
	"taskgame_service/internal/auth"
	"taskgame_service/internal/cache"
	"taskgame_service/internal/handler"
	"taskgame_service/internal/middleware"
	"taskgame_service/internal/repository"
	"taskgame_service/internal/service"
	"taskgame_service/internal/storage"
	"taskgame_service/pkg/db"
	"taskgame_service/pkg/kafka"
	"taskgame_service/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	logger := logging.New(zapLogger)
	defer logger.Sync() //nolint:errcheck

	cfg, err := configs.Load()
	if err != nil {
		logger.Fatal(ctx, "failed to load config", zap.Error(err))
	}

	pg, err := db.NewPostgres(db.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,

		MigrationsPath: cfg.DB.MigrationsPath,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect to database", zap.Error(err))
	}
	defer pg.Close()

	eventRepo := repository.NewEventRepository(pg.DB())
	invitationRepo := repository.NewInvitationRepository(pg.DB())
	taskRepo := repository.NewTaskRepository(pg.DB())
	assignmentRepo := repository.NewAssignmentRepository(pg.DB())
	submissionRepo := repository.NewSubmissionRepository(pg.DB())
	userRepo := repository.NewUserRepository(pg.DB())

	fileStore, err := storage.NewStore(ctx, &storage.Config{
		Endpoint:        cfg.S3.Endpoint,
		Region:          cfg.S3.Region,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Bucket:          cfg.S3.Bucket,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to create file store", zap.Error(err))
	}

	redisConn := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})
	redisCache := cache.NewRedisCache(redisConn)

	kafkaProducer, err := kafka.NewProducer(kafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to create kafka producer", zap.Error(err))
	}
	defer kafkaProducer.Close()

	tokens := auth.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	roleGraphService := service.NewRoleGraphService(invitationRepo, nil)
	assignmentService := service.NewAssignmentService(taskRepo, eventRepo, invitationRepo, assignmentRepo)
	taskService := service.NewTaskService(taskRepo, invitationRepo, assignmentService, kafkaProducer)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, fileStore, redisCache)
	eventService := service.NewEventService(
		eventRepo, invitationRepo, taskRepo, assignmentRepo, submissionRepo, fileStore, roleGraphService,
	)
	userService := service.NewUserService(userRepo, tokens)

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	authHandler := handler.NewAuthHandler(userService)
	eventHandler := handler.NewEventHandler(eventService, userService)
	invitationHandler := handler.NewInvitationHandler(roleGraphService)
	taskHandler := handler.NewTaskHandler(taskService, assignmentService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)

	r := chi.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(func(next http.Handler) http.Handler {
		return http.MaxBytesHandler(next, 60<<20) // multipart submissions included
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
	})
	r.Route("/admin", func(r chi.Router) {
		eventHandler.RegisterRoutes(r, authMiddleware)
	})
	r.Route("/invitations", func(r chi.Router) {
		invitationHandler.RegisterRoutes(r, authMiddleware)
	})
	taskHandler.RegisterRoutes(r, authMiddleware)
	submissionHandler.RegisterRoutes(r, authMiddleware)

	reminderWorker := NewReminderWorker(eventRepo, kafkaProducer, logger)
	go reminderWorker.Start(ctx)

	port := fmt.Sprintf(":%d", cfg.HTTP.Port)
	logger.Info(ctx, "starting server", zap.String("port", port))

	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "cannot start http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal(ctx, "server forced to shutdown", zap.Error(err))
	}
	logger.Info(ctx, "server stopped")
}
