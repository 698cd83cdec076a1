package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/romanzzaa/stock-tracker-bot/internal/domain"
)

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// Yahoo rejects requests without a browser-ish user agent.
	userAgent = "Mozilla/5.0 (compatible; stock-tracker-bot/1.0)"
)

// intervalForPeriod keeps charts around a few hundred points per range.
var intervalForPeriod = map[string]string{
	"1d": "5m", "5d": "30m", "1mo": "1d", "3mo": "1d", "6mo": "1d",
	"1y": "1d", "2y": "1wk", "5y": "1wk", "10y": "1mo", "ytd": "1d", "max": "1mo",
}

// Client - HTTP gateway to the Yahoo Finance chart API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Quote fetches the current market snapshot for one ticker. A response
// without a market price is treated as domain.ErrQuoteUnavailable; other
// missing fields come back as zero decimals ("unknown", not an error).
func (c *Client) Quote(ctx context.Context, ticker string) (domain.QuoteSnapshot, error) {
	result, err := c.fetchChart(ctx, ticker, "1d", "1d")
	if err != nil {
		return domain.QuoteSnapshot{}, err
	}

	if result.Meta.RegularMarketPrice == nil {
		return domain.QuoteSnapshot{}, fmt.Errorf("%w: no market price for %s", domain.ErrQuoteUnavailable, ticker)
	}

	snap := domain.QuoteSnapshot{
		Ticker:  ticker,
		Name:    displayName(result.Meta),
		Price:   fromFloatPtr(result.Meta.RegularMarketPrice),
		DayLow:  fromFloatPtr(result.Meta.RegularMarketDayLow),
		DayHigh: fromFloatPtr(result.Meta.RegularMarketDayHi),
	}

	// The open is not in meta; take the first open of today's candles.
	if len(result.Indicators.Quote) > 0 {
		for _, open := range result.Indicators.Quote[0].Open {
			if open != nil {
				snap.Open = fromFloatPtr(open)
				break
			}
		}
	}

	return snap, nil
}

// History fetches the close-price series for a period token
// (1d, 5d, 1mo, ... as validated by domain.IsValidPeriod).
func (c *Client) History(ctx context.Context, ticker string, period string) (domain.Series, error) {
	interval, ok := intervalForPeriod[period]
	if !ok {
		return domain.Series{}, fmt.Errorf("unsupported period %q", period)
	}

	result, err := c.fetchChart(ctx, ticker, period, interval)
	if err != nil {
		return domain.Series{}, err
	}

	series := domain.Series{Ticker: ticker}
	if len(result.Indicators.Quote) == 0 {
		return series, nil
	}

	quote := result.Indicators.Quote[0]
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // session gap, skip the point
		}
		series.Candles = append(series.Candles, domain.Candle{
			Time:  time.Unix(ts, 0).UTC(),
			Open:  fromFloatPtrAt(quote.Open, i),
			High:  fromFloatPtrAt(quote.High, i),
			Low:   fromFloatPtrAt(quote.Low, i),
			Close: fromFloatPtr(quote.Close[i]),
		})
	}
	return series, nil
}

func (c *Client) fetchChart(ctx context.Context, ticker, rng, interval string) (*ChartResult, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.baseURL, url.PathEscape(ticker), rng, interval)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: unknown ticker %s", domain.ErrQuoteUnavailable, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: upstream status %d", domain.ErrQuoteUnavailable, resp.StatusCode)
	}

	var parsed ChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrQuoteUnavailable, err)
	}

	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrQuoteUnavailable,
			parsed.Chart.Error.Code, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: empty result for %s", domain.ErrQuoteUnavailable, ticker)
	}

	return &parsed.Chart.Result[0], nil
}

func displayName(m Meta) string {
	if m.LongName != "" {
		return m.LongName
	}
	return m.ShortName
}

func fromFloatPtr(f *float64) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f)
}

func fromFloatPtrAt(vals []*float64, i int) decimal.Decimal {
	if i >= len(vals) {
		return decimal.Zero
	}
	return fromFloatPtr(vals[i])
}
