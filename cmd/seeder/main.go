package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"

	"github.com/romanzzaa/stock-tracker-bot/internal/config"
	"github.com/romanzzaa/stock-tracker-bot/internal/domain"
	"github.com/romanzzaa/stock-tracker-bot/internal/infrastructure/database"
)

// Seeds the local database with a couple of trackings so the sweep loop
// has something to chew on during development.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if cfg.Env != "local" {
		log.Fatal("Seeder allowed only in local environment")
	}

	if len(cfg.Telegram.AllowedIDs) == 0 {
		log.Fatal("Set TELEGRAM_ALLOWED_IDS so the seeded trackings belong to a real chat")
	}
	userID := cfg.Telegram.AllowedIDs[0]

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.NewConnection(database.Config{
		Host: cfg.Database.Host, Port: cfg.Database.Port, User: cfg.Database.User,
		Password: cfg.Database.Password, DBName: cfg.Database.DBName, SSLMode: cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	repo := database.NewTrackingRepository(db, logger)

	seeds := []domain.Tracking{
		{UserID: userID, Ticker: "AAPL", BuyPrice: decimal.NewFromInt(180)},
		{UserID: userID, Ticker: "MSFT"},
	}

	for _, seed := range seeds {
		t := seed
		err := repo.Create(ctx, &t)
		if errors.Is(err, domain.ErrDuplicateTracking) {
			log.Printf("[Seeder] %s already tracked, skipping", t.Ticker)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to seed %s: %v", t.Ticker, err)
		}

		// Age the row so the first sweep picks it up right away.
		if err := repo.MarkChecked(ctx, t.ID, time.Now().Add(-24*time.Hour)); err != nil {
			log.Fatalf("Failed to age tracking %d: %v", t.ID, err)
		}
		log.Printf("Tracking created: %s (id %d)", t.Ticker, t.ID)
	}
}
