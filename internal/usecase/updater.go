package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/romanzzaa/stock-tracker-bot/internal/domain"
)

// UpdateService runs one due tracking through the update pipeline:
// fetch quote -> compute metrics -> render chart -> notify -> mark checked.
type UpdateService struct {
	provider domain.QuoteProvider
	renderer domain.ChartRenderer
	notifier domain.Notifier
	repo     domain.TrackingRepository
	logger   *slog.Logger

	chartPeriod string
}

func NewUpdateService(
	provider domain.QuoteProvider,
	renderer domain.ChartRenderer,
	notifier domain.Notifier,
	repo domain.TrackingRepository,
	chartPeriod string,
	logger *slog.Logger,
) *UpdateService {
	return &UpdateService{
		provider:    provider,
		renderer:    renderer,
		notifier:    notifier,
		repo:        repo,
		chartPeriod: chartPeriod,
		logger:      logger,
	}
}

// ProcessTracking processes a single due tracking. A quote or render
// failure returns before MarkChecked, so the item stays due and is
// retried next sweep. A delivery failure is logged only: the data was
// acquired, re-fetching it next cycle would just spam the upstream.
func (s *UpdateService) ProcessTracking(ctx context.Context, t domain.Tracking, now time.Time) error {
	log := s.logger.With(
		slog.Int64("tracking_id", t.ID),
		slog.Int64("user_id", t.UserID),
		slog.String("ticker", t.Ticker),
	)

	snap, err := s.provider.Quote(ctx, t.Ticker)
	if err != nil {
		return fmt.Errorf("fetch quote: %w", err)
	}

	metrics := domain.ComputeChangeMetrics(snap.Price, snap.Open, t.BuyPrice)

	series, err := s.provider.History(ctx, t.Ticker, s.chartPeriod)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	img, err := s.renderer.Render(series, domain.ChartOptions{
		Title:    chartTitle(snap),
		BuyPrice: t.BuyPrice,
	})
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	if err := s.notifier.SendPhoto(t.UserID, FormatUpdate(snap, metrics, t), img); err != nil {
		log.Error("update delivery failed", slog.String("error", err.Error()))
	}

	if err := s.repo.MarkChecked(ctx, t.ID, now); err != nil {
		return fmt.Errorf("mark checked: %w", err)
	}

	log.Info("tracking updated", slog.String("price", snap.Price.String()))
	return nil
}

// QuoteLine fetches a quote and formats the one-line /price reply.
func (s *UpdateService) QuoteLine(ctx context.Context, ticker string) (string, error) {
	snap, err := s.provider.Quote(ctx, ticker)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Current price of %s (%s): %s",
		displayName(snap), snap.Ticker, snap.Price.String()), nil
}

// FormatUpdate builds the caption of a periodic update message.
func FormatUpdate(snap domain.QuoteSnapshot, m domain.ChangeMetrics, t domain.Tracking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Current price of %s (%s): %s\n", displayName(snap), snap.Ticker, snap.Price.String())
	fmt.Fprintf(&sb, "Min: %s\n", snap.DayLow.String())
	fmt.Fprintf(&sb, "Max: %s\n", snap.DayHigh.String())
	fmt.Fprintf(&sb, "Change: %s%%", m.DayChangePct.String())
	if t.HasBuyPrice() {
		fmt.Fprintf(&sb, "\nBuy Change: %s%%", m.BuyChangePct.String())
	}
	return sb.String()
}

func chartTitle(snap domain.QuoteSnapshot) string {
	return fmt.Sprintf("Price Graph for %s (%s)", displayName(snap), snap.Ticker)
}

func displayName(snap domain.QuoteSnapshot) string {
	if snap.Name != "" {
		return snap.Name
	}
	return snap.Ticker
}
