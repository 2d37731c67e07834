package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hotspot-service/internal/api/http"
	"github.com/spec-kit/hotspot-service/internal/api/http/handlers"
	"github.com/spec-kit/hotspot-service/internal/auth"
	"github.com/spec-kit/hotspot-service/internal/config"
	"github.com/spec-kit/hotspot-service/internal/events"
	"github.com/spec-kit/hotspot-service/internal/observability"
	"github.com/spec-kit/hotspot-service/internal/persistence"
	"github.com/spec-kit/hotspot-service/internal/repository"
	"github.com/spec-kit/hotspot-service/internal/service"
	"github.com/spec-kit/hotspot-service/internal/worker"
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
	resetRepo := repository.NewPasswordResetRepository(pool)
	controllerRepo := repository.NewControllerRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	voucherRepo := repository.NewVoucherRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	throttle := service.NewLoginThrottle(redis.ClientHandle(), logger,
		cfg.Auth.LoginMaxFailures, cfg.Auth.LoginFailureWindow())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Throttle:          throttle,
		Logger:            logger,
	})
	userService := service.NewUserService(userRepo, dispatcher, cfg.Auth.BcryptCost)
	controllerService := service.NewControllerService(controllerRepo, dispatcher)
	planService := service.NewPlanService(planRepo)
	voucherService := service.NewVoucherService(voucherRepo, planRepo, dispatcher, redis.ClientHandle(), logger)
	sessionService := service.NewSessionService(sessionRepo, dispatcher)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Controllers:    handlers.NewControllersHandler(controllerService),
		Plans:          handlers.NewPlansHandler(planService),
		Vouchers:       handlers.NewVouchersHandler(voucherService),
		Sessions:       handlers.NewSessionsHandler(sessionService),
		AuthMiddleware: authMiddleware,
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
