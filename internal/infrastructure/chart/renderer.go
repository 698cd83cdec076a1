package chart

import (
	"bytes"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/romanzzaa/stock-tracker-bot/internal/domain"
)

// Renderer draws price charts as PNG bytes.
type Renderer struct {
	width  int
	height int
}

func NewRenderer() *Renderer {
	return &Renderer{width: 1024, height: 512}
}

// Render draws the close series, a dashed buy-price line when the options
// carry one, and any requested SMA overlays. Wraps domain.ErrRenderFailed
// so callers can classify the failure.
func (r *Renderer) Render(series domain.Series, opts domain.ChartOptions) ([]byte, error) {
	if len(series.Candles) < 2 {
		return nil, fmt.Errorf("%w: not enough points for %s (%d)",
			domain.ErrRenderFailed, series.Ticker, len(series.Candles))
	}

	xs := make([]time.Time, len(series.Candles))
	ys := make([]float64, len(series.Candles))
	for i, c := range series.Candles {
		xs[i] = c.Time
		ys[i], _ = c.Close.Float64()
	}

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  r.width,
		Height: r.height,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Close",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 1.6,
				},
			},
		},
	}

	if opts.BuyPrice.IsPositive() {
		buy, _ := opts.BuyPrice.Float64()
		line := make([]float64, len(xs))
		for i := range line {
			line[i] = buy
		}
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    fmt.Sprintf("Buy %s", opts.BuyPrice.String()),
			XValues: xs,
			YValues: line,
			Style: chart.Style{
				StrokeColor:     chart.ColorRed,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		})
	}

	for _, period := range opts.SMAPeriods {
		sma := series.SMA(period)
		// leading positions have no average yet
		var sx []time.Time
		var sy []float64
		for i, v := range sma {
			if i < period-1 {
				continue
			}
			f, _ := v.Float64()
			sx = append(sx, xs[i])
			sy = append(sy, f)
		}
		if len(sx) < 2 {
			continue
		}
		graph.Series = append(graph.Series, chart.TimeSeries{
			Name:    fmt.Sprintf("SMA %d", period),
			XValues: sx,
			YValues: sy,
		})
	}

	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}
