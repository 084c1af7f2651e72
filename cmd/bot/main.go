package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/app"
	"github.com/Freeeeeet/lessonmarket/internal/catalog"
	"github.com/Freeeeeet/lessonmarket/internal/config"
	"github.com/Freeeeeet/lessonmarket/internal/controller"
	"github.com/Freeeeeet/lessonmarket/internal/repository"
	"github.com/Freeeeeet/lessonmarket/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	logger.Sugar().Infow("Starting lesson market bot",
		"environment", cfg.Environment,
		"timezone", cfg.Timezone,
		"token_length", len(cfg.TelegramToken))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now := time.Now

	pool, err := app.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	defer migrator.Close()
	if err := migrator.Run(ctx); err != nil {
		return err
	}

	redisClient, err := app.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient == nil {
		logger.Info("Catalog cache disabled, REDIS_ADDR is empty")
	}

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	cacheRepo := repository.NewCacheRepository(redisClient, logger)
	defer cacheRepo.Close()

	metrics := app.NewMetrics()
	if cfg.MetricsAddr != "" {
		metrics.Serve(ctx, cfg.MetricsAddr, logger)
	}

	// Сервисы
	tx := app.NewTxRunner(pool)
	engine := catalog.NewEngine(loc, now)
	catalogService := service.NewCatalogService(lessonRepo, cacheRepo, cfg.CatalogCacheTTL, engine, metrics, logger)
	services := controller.Services{
		User:     service.NewUserService(userRepo, logger),
		Catalog:  catalogService,
		Lesson:   service.NewLessonService(tx, lessonRepo, catalogService, now, logger),
		Schedule: service.NewScheduleService(tx, lessonRepo, slotRepo, catalogService, metrics, loc, now, logger),
		Booking:  service.NewBookingService(tx, lessonRepo, bookingRepo, catalogService, metrics, now, logger),
	}

	// Фоновое закрытие прошедших слотов и занятий
	scheduler := app.NewScheduler(services.Lesson, cfg.ReconcileInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, services, now, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// меню команд не критично для работы
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	return botController.Start(ctx)
}
