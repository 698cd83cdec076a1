package domain

import "github.com/shopspring/decimal"

// ValidPeriods - history ranges the gateway accepts, as the users type them
var ValidPeriods = []string{"1d", "5d", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "ytd", "max"}

// IsValidPeriod reports whether p is one of the accepted history ranges.
func IsValidPeriod(p string) bool {
	for _, v := range ValidPeriods {
		if v == p {
			return true
		}
	}
	return false
}

// Closes returns the close prices in chronological order.
func (s Series) Closes() []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// SMA computes the simple moving average of the close prices over the
// given window. The first window-1 positions have no value and are
// returned as zero decimals; the renderer skips leading zeros.
func (s Series) SMA(window int) []decimal.Decimal {
	out := make([]decimal.Decimal, len(s.Candles))
	if window <= 0 || window > len(s.Candles) {
		return out
	}

	div := decimal.NewFromInt(int64(window))
	var sum decimal.Decimal
	for i, c := range s.Candles {
		sum = sum.Add(c.Close)
		if i >= window {
			sum = sum.Sub(s.Candles[i-window].Close)
		}
		if i >= window-1 {
			out[i] = sum.Div(div)
		}
	}
	return out
}
