package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/joho/godotenv/autoload"

	"github.com/romanzzaa/stock-tracker-bot/internal/bot"
	"github.com/romanzzaa/stock-tracker-bot/internal/config"
	"github.com/romanzzaa/stock-tracker-bot/internal/infrastructure/chart"
	"github.com/romanzzaa/stock-tracker-bot/internal/infrastructure/database"
	"github.com/romanzzaa/stock-tracker-bot/internal/infrastructure/yahoo"
	"github.com/romanzzaa/stock-tracker-bot/internal/notify"
	"github.com/romanzzaa/stock-tracker-bot/internal/usecase"
	"github.com/romanzzaa/stock-tracker-bot/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.NewConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(context.Background()); err != nil {
		logger.Error("failed to ensure schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	trackRepo := database.NewTrackingRepository(db, logger)
	quotes := yahoo.NewClient(yahoo.DefaultBaseURL, 15*time.Second)
	renderer := chart.NewRenderer()

	tgBot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error("failed to init telegram bot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tgBot.Debug = false
	logger.Info("Telegram bot authorized", slog.String("username", tgBot.Self.UserName))

	notifier := notify.NewTelegramNotifier(tgBot, logger)
	updater := usecase.NewUpdateService(quotes, renderer, notifier, trackRepo, cfg.Tracker.ChartPeriod, logger)

	manager := worker.NewManager(
		trackRepo,
		updater,
		cfg.Tracker.CheckThreshold,
		cfg.Tracker.SweepPeriod,
		logger,
	)

	botHandler := bot.NewHandler(tgBot, trackRepo, quotes, renderer, updater, cfg.Telegram.AllowedIDs, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting bot...",
		slog.String("env", cfg.Env),
		slog.Int("allowed_users", len(cfg.Telegram.AllowedIDs)))

	go manager.Run(ctx)
	go botHandler.Start(ctx)

	<-ctx.Done()
	logger.Info("Bot stopped gracefully")
}
