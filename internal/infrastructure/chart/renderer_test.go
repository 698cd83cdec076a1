package chart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanzzaa/stock-tracker-bot/internal/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testSeries(n int) domain.Series {
	s := domain.Series{Ticker: "TEST"}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.Candles = append(s.Candles, domain.Candle{
			Time:  base.AddDate(0, 0, i),
			Close: decimal.NewFromInt(int64(100 + i)),
		})
	}
	return s
}

func TestRendererProducesPNG(t *testing.T) {
	r := NewRenderer()

	img, err := r.Render(testSeries(30), domain.ChartOptions{
		Title:    "Price Graph for TEST",
		BuyPrice: decimal.NewFromInt(110),
	})
	require.NoError(t, err)
	require.Greater(t, len(img), 4)
	assert.Equal(t, pngMagic, img[:4])
}

func TestRendererWithSMAOverlays(t *testing.T) {
	r := NewRenderer()

	img, err := r.Render(testSeries(60), domain.ChartOptions{
		Title:      "SMA Crossover for TEST",
		SMAPeriods: []int{9, 20},
	})
	require.NoError(t, err)
	assert.Equal(t, pngMagic, img[:4])
}

func TestRendererRejectsShortSeries(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render(testSeries(1), domain.ChartOptions{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrRenderFailed)
}
