package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TrackingRepository - durable registry of tracked tickers
type TrackingRepository interface {
	// Insert a new tracking. Returns ErrDuplicateTracking when the
	// (user, ticker) pair is already live.
	Create(ctx context.Context, t *Tracking) error

	// Delete by pair. Not-found is (false, nil), never an error.
	Delete(ctx context.Context, userID int64, ticker string) (bool, error)

	// All trackings of one user, insertion order.
	ListByUser(ctx context.Context, userID int64) ([]Tracking, error)

	// One tracking by pair, nil when absent.
	GetByUserAndTicker(ctx context.Context, userID int64, ticker string) (*Tracking, error)

	// Consistent snapshot of trackings with last_check older than
	// now minus threshold. The sweep iterates this fixed list.
	SelectDue(ctx context.Context, now time.Time, threshold time.Duration) ([]Tracking, error)

	// Advance last_check. No-op when the row was deleted mid-sweep.
	MarkChecked(ctx context.Context, id int64, at time.Time) error
}

// QuoteProvider - read-only market data gateway. Both calls are slow,
// unreliable network calls; the core never retries them within a sweep.
type QuoteProvider interface {
	Quote(ctx context.Context, ticker string) (QuoteSnapshot, error)
	History(ctx context.Context, ticker string, period string) (Series, error)
}

// ChartRenderer turns a price series into PNG bytes.
type ChartRenderer interface {
	Render(series Series, opts ChartOptions) ([]byte, error)
}

// ChartOptions - presentation knobs for one chart
type ChartOptions struct {
	Title      string
	BuyPrice   decimal.Decimal // dashed horizontal line when positive
	SMAPeriods []int           // overlay SMA series, e.g. [9, 20]
}

// Notifier delivers one message (optionally with a chart) to a user.
type Notifier interface {
	SendPhoto(userID int64, caption string, image []byte) error
	SendText(userID int64, text string) error
}
