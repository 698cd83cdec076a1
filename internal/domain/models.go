package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tracking is a standing request to receive periodic price updates
// for a ticker on behalf of a Telegram user.
type Tracking struct {
	ID        int64
	UserID    int64  // Telegram chat/user id of the owner
	Ticker    string // normalized by the front end, stored as-is
	BuyPrice  decimal.Decimal
	LastCheck time.Time
	CreatedAt time.Time
}

// HasBuyPrice reports whether the user supplied a reference price.
// Zero is the encoded "none", never a real price.
func (t Tracking) HasBuyPrice() bool {
	return t.BuyPrice.IsPositive()
}

// IsDue reports whether the tracking is older than the check threshold.
// Due-ness is derived from the persisted last_check, never cached.
func (t Tracking) IsDue(now time.Time, threshold time.Duration) bool {
	return now.Sub(t.LastCheck) >= threshold
}

// QuoteSnapshot is the current market state of one ticker.
// Produced fresh for every check and never persisted.
type QuoteSnapshot struct {
	Ticker  string
	Name    string // display name, may be empty if upstream omits it
	Price   decimal.Decimal
	Open    decimal.Decimal
	DayLow  decimal.Decimal
	DayHigh decimal.Decimal
}

// Candle is one history point. Only the close is charted today, but the
// gateway already returns OHLC so the renderer can grow candlesticks later.
type Candle struct {
	Time  time.Time
	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal
}

// Series is a chronological price history for one ticker.
type Series struct {
	Ticker  string
	Candles []Candle
}
