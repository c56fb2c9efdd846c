package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/jury/config"
	"github.com/Payphone-Digital/jury/internal/constants"
	"github.com/Payphone-Digital/jury/internal/handler"
	"github.com/Payphone-Digital/jury/internal/middleware"
	"github.com/Payphone-Digital/jury/internal/repository"
	"github.com/Payphone-Digital/jury/internal/router"
	"github.com/Payphone-Digital/jury/internal/service"
	"github.com/Payphone-Digital/jury/pkg/cache"
	"github.com/Payphone-Digital/jury/pkg/circuit"
	"github.com/Payphone-Digital/jury/pkg/database"
	"github.com/Payphone-Digital/jury/pkg/health"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/Payphone-Digital/jury/pkg/mailer"
	"github.com/Payphone-Digital/jury/pkg/queue"
	"github.com/Payphone-Digital/jury/pkg/redis"
	"github.com/Payphone-Digital/jury/pkg/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		// a half-configured key pair must never start an open server
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if config.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	provider := configs.NewProvider(config, nil)

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
		zap.Bool("auth_enabled", provider.AuthEnabled()),
	)
	if !provider.AuthEnabled() {
		logger.GetLogger().Warn("Authorization is disabled: no signing or encryption key configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.Config{
		Driver:          config.Database.Driver,
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		Path:            config.Database.Path,
		Environment:     config.App.Environment,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	database.OptimizedIndexes(ctx, db)
	logger.GetLogger().Info("Database migrated successfully")

	if config.Seed.Enabled {
		admin := database.DefaultAdmin{
			Name:     config.Seed.AdminName,
			Email:    config.Seed.AdminEmail,
			Password: config.Seed.AdminPassword,
		}
		if err := database.SeedAdmin(ctx, db, admin, config.Auth.BcryptCost); err != nil {
			logger.GetLogger().Error("Failed to seed database", zap.Error(err))
		}
	}

	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	if redisClient.Enabled() {
		logger.GetLogger().Info("Redis connected", zap.Any("pool", redisClient.PoolStats()))
	}

	localCache := cache.NewCache()
	defer localCache.Close()

	// Notifications
	breakers := circuit.NewRegistry(circuit.Config{
		Threshold: config.Notify.BreakerThreshold,
		Timeout:   config.Notify.BreakerTimeout,
	}, logger.GetLogger())

	publisher, consumer, err := queue.New(config.Notify, breakers)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize notification queue", zap.Error(err))
	}
	defer publisher.Close()
	defer consumer.Close()

	notifier := service.NewNotifier(publisher, config.Notify.Topic)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	penaltyRepo := repository.NewPenaltyRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	logRepo := repository.NewAuditLogRepository(db)
	tierRepo := repository.NewTierRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Services
	hasher := service.NewPasswordHasher(config.Auth.BcryptCost)
	tokenService := service.NewTokenService(provider)
	authService := service.NewAuthService(userRepo, refreshTokenRepo, tokenService, hasher)
	userService := service.NewUserService(userRepo, hasher)

	worker, err := service.NewNotificationWorker(consumer, config.Notify.Topic, mailer.New(config.Email))
	if err != nil {
		logger.GetLogger().Fatal("Failed to build notification worker", zap.Error(err))
	}

	var background sync.WaitGroup
	background.Add(1)
	go func() {
		defer background.Done()
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.GetLogger().Error("Notification worker stopped", zap.Error(err))
		}
	}()

	if config.Reminder.Enabled {
		reminders := service.NewReminderScheduler(
			activityRepo,
			userRepo,
			notifier,
			service.NewDeduper(redisClient, localCache),
			config.Reminder.Interval,
			config.Reminder.Window,
		)
		background.Add(1)
		go func() {
			defer background.Done()
			reminders.Run(ctx)
		}()
	}

	// Health
	monitor := health.NewMonitor(config.Health.Interval, logger.GetLogger())
	monitor.Register("database", true, func(ctx context.Context) error {
		return database.Ping(ctx, db)
	})
	if redisClient.Enabled() {
		monitor.Register("redis", false, redisClient.Ping)
	}
	monitor.Register("notifications", false, func(context.Context) error {
		if breakers.AnyOpen() {
			return circuit.ErrCircuitOpen
		}
		return nil
	})
	monitor.Start(ctx)
	defer monitor.Stop()

	if config.Health.GRPCPort != "" {
		background.Add(1)
		go func() {
			defer background.Done()
			if err := monitor.Serve(ctx, ":"+config.Health.GRPCPort); err != nil {
				logger.GetLogger().Error("gRPC health server stopped", zap.Error(err))
			}
		}()
	}

	go provider.WatchSIGHUP(ctx, func(cfg *configs.Config, err error) {
		if err != nil {
			logger.GetLogger().Error("Config reload failed, keeping previous", zap.Error(err))
			return
		}
		logger.GetLogger().Info("Config reloaded",
			zap.Bool("auth_enabled", configs.IsAuthEnabled(cfg.Auth)),
		)
	})

	// HTTP
	validation.Register(nil)
	gate := middleware.NewGate(provider, tokenService, middleware.NewAccessTable())

	r := router.NewRouter(router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Penalty:  handler.NewPenaltyHandler(service.NewPenaltyService(penaltyRepo, userRepo, notifier)),
		Expense:  handler.NewExpenseHandler(service.NewExpenseService(expenseRepo, userRepo, notifier)),
		Log:      handler.NewLogHandler(service.NewAuditLogService(logRepo, userRepo)),
		Tier:     handler.NewTierHandler(service.NewTierService(tierRepo)),
		Activity: handler.NewActivityHandler(service.NewActivityService(activityRepo)),
		Health:   handler.NewHealthHandler(monitor),
	}, gate, config).SetupRoutes()

	server := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	<-ctx.Done()
	logger.GetLogger().Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Server shutdown failed", zap.Error(err))
	}

	background.Wait()
	logger.GetLogger().Info("Server stopped")
}
