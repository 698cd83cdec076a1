package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ChangeMetrics - derived percentages for one quote check
type ChangeMetrics struct {
	DayChangePct decimal.Decimal // vs today's open
	BuyChangePct decimal.Decimal // vs the user's buy price, zero when none
}

// ComputeChangeMetrics computes the intraday and buy-price change
// percentages, rounded half-up to two decimals.
//
// Guard: a zero current price yields zero percentages, not an error.
// Upstream sometimes reports 0 for halted or unknown instruments and the
// update must still go out. A zero buy price means "no reference", so
// BuyChangePct stays zero as well.
func ComputeChangeMetrics(current, open, buy decimal.Decimal) ChangeMetrics {
	var m ChangeMetrics
	if current.IsZero() {
		return m
	}

	// (current - open) / current * 100
	m.DayChangePct = current.Sub(open).Div(current).Mul(hundred).Round(2)

	if buy.IsPositive() {
		m.BuyChangePct = current.Sub(buy).Div(current).Mul(hundred).Round(2)
	}
	return m
}
