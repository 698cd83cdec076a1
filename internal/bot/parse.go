package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/romanzzaa/stock-tracker-bot/internal/domain"
)

// Argument parsing for the text commands. Normalization lives here: the
// core stores tickers exactly as the front end hands them over.

// NormalizeTicker trims and uppercases a user-typed ticker.
func NormalizeTicker(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// parseTrackArgs handles "/track TICKER [buy_price]".
func parseTrackArgs(args string) (string, decimal.Decimal, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", decimal.Zero, fmt.Errorf("usage: /track TICKER [buy_price]")
	}

	ticker := NormalizeTicker(fields[0])
	buy := decimal.Zero
	if len(fields) > 1 {
		var err error
		buy, err = decimal.NewFromString(fields[1])
		if err != nil || buy.IsNegative() {
			return "", decimal.Zero, fmt.Errorf("invalid buy price %q", fields[1])
		}
	}
	return ticker, buy, nil
}

// parseGraphArgs handles "/graph TICKER [period]", default period 1y.
func parseGraphArgs(args string) (string, string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", "", fmt.Errorf("usage: /graph TICKER [period]")
	}

	period := "1y"
	if len(fields) > 1 {
		period = strings.ToLower(fields[1])
	}
	if !domain.IsValidPeriod(period) {
		return "", "", fmt.Errorf("invalid period %q, use one of: %s",
			period, strings.Join(domain.ValidPeriods, ", "))
	}
	return NormalizeTicker(fields[0]), period, nil
}

// parseSMAArgs handles "/sma TICKER [short] [long]", defaults 9 and 20.
func parseSMAArgs(args string) (string, int, int, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", 0, 0, fmt.Errorf("usage: /sma TICKER [short_period] [long_period]")
	}

	short, long := 9, 20
	var err error
	if len(fields) > 1 {
		if short, err = parsePeriodArg(fields[1]); err != nil {
			return "", 0, 0, err
		}
	}
	if len(fields) > 2 {
		if long, err = parsePeriodArg(fields[2]); err != nil {
			return "", 0, 0, err
		}
	}
	if short >= long {
		return "", 0, 0, fmt.Errorf("short period must be below long period")
	}
	return NormalizeTicker(fields[0]), short, long, nil
}

func parsePeriodArg(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid SMA period %q", raw)
	}
	return n, nil
}
