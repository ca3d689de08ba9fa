package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/interpreteya/booking-service/internal/api/http"
	"github.com/interpreteya/booking-service/internal/api/http/handlers"
	"github.com/interpreteya/booking-service/internal/auth"
	"github.com/interpreteya/booking-service/internal/config"
	"github.com/interpreteya/booking-service/internal/events"
	"github.com/interpreteya/booking-service/internal/observability"
	"github.com/interpreteya/booking-service/internal/persistence"
	"github.com/interpreteya/booking-service/internal/repository"
	"github.com/interpreteya/booking-service/internal/service"
	"github.com/interpreteya/booking-service/internal/stream"
	"github.com/interpreteya/booking-service/internal/worker"
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

	metrics := observability.NewMetrics(cfg.App.Name)
	feed := stream.NewFeed(redis.Client, logger)
	dispatcher := events.NewInMemoryDispatcher()

	if cfg.AMQP.URL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, logger)
		if err != nil {
			logger.Warn("amqp publisher disabled", zap.Error(err))
		} else {
			publisher.Mirror(dispatcher)
			defer publisher.Close()
		}
	}

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo:       accountRepo,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
		Feed:              feed,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		AccountRepo: accountRepo,
		Dispatcher:  dispatcher,
		Feed:        feed,
	})
	bookingService := service.NewBookingService(service.BookingDependencies{
		BookingRepo: bookingRepo,
		AccountRepo: accountRepo,
		Dispatcher:  dispatcher,
		Feed:        feed,
	})
	ratingService := service.NewRatingService(service.RatingDependencies{
		RatingRepo:  ratingRepo,
		BookingRepo: bookingRepo,
		AccountRepo: accountRepo,
		Dispatcher:  dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	if _, err := authService.SeedManager(ctx, cfg.Manager); err != nil {
		logger.Warn("manager seed failed", zap.Error(err))
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Accounts:       handlers.NewAccountsHandler(authService, accountService),
		Bookings:       handlers.NewBookingsHandler(bookingService, ratingService),
		Interpreters:   handlers.NewInterpretersHandler(accountService, ratingService),
		Manager:        handlers.NewManagerHandler(accountService, bookingService),
		Watch:          handlers.NewWatchHandler(feed),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
