package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/gymtracker/backend/internal/api/http"
	"github.com/gymtracker/backend/internal/api/http/handlers"
	"github.com/gymtracker/backend/internal/auth"
	"github.com/gymtracker/backend/internal/config"
	"github.com/gymtracker/backend/internal/events"
	"github.com/gymtracker/backend/internal/observability"
	"github.com/gymtracker/backend/internal/persistence"
	"github.com/gymtracker/backend/internal/repository"
	"github.com/gymtracker/backend/internal/service"
	"github.com/gymtracker/backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	serviceAccountRepo := repository.NewServiceAccountRepository(pool)
	exerciseRepo := repository.NewExerciseRepository(pool)
	workoutRepo := repository.NewWorkoutLogRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	tokenManager := auth.NewTokenManager(cfg.Auth)
	classifier := auth.NewClassifier(tokenManager)

	authService := service.NewAuthService(*cfg, userRepo, tokenManager, dispatcher)
	serviceAuthService := service.NewServiceAuthService(serviceAccountRepo, tokenManager, cfg.Auth.ServiceTokenTTL(), logger)
	exerciseService := service.NewExerciseService(exerciseRepo, dispatcher)
	workoutService := service.NewWorkoutService(workoutRepo, dispatcher)
	ragService := service.NewRagService(exerciseRepo, workoutRepo)
	adminService := service.NewAdminService(userRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, notificationRepo, redis, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(classifier, userRepo, logger)
	serviceTokenFilter := auth.NewServiceTokenFilter(classifier, logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:             handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:               handlers.NewAuthHandler(authService),
		ServiceToken:       handlers.NewServiceTokenHandler(serviceAuthService, logger),
		Exercises:          handlers.NewExercisesHandler(exerciseService),
		Workouts:           handlers.NewWorkoutsHandler(workoutService),
		Internal:           handlers.NewInternalHandler(ragService),
		Admin:              handlers.NewAdminHandler(adminService),
		Notifications:      handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware:     authMiddleware,
		ServiceTokenFilter: serviceTokenFilter,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
