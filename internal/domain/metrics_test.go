package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestComputeChangeMetrics(t *testing.T) {
	t.Run("day and buy change", func(t *testing.T) {
		m := ComputeChangeMetrics(d("110"), d("100"), d("100"))
		assert.True(t, m.DayChangePct.Equal(d("9.09")), "got %s", m.DayChangePct)
		assert.True(t, m.BuyChangePct.Equal(d("9.09")), "got %s", m.BuyChangePct)
	})

	t.Run("zero current price is guarded", func(t *testing.T) {
		m := ComputeChangeMetrics(decimal.Zero, d("100"), d("100"))
		assert.True(t, m.DayChangePct.IsZero())
		assert.True(t, m.BuyChangePct.IsZero())
	})

	t.Run("no buy price means no buy change", func(t *testing.T) {
		m := ComputeChangeMetrics(d("110"), d("100"), decimal.Zero)
		assert.True(t, m.DayChangePct.Equal(d("9.09")))
		assert.True(t, m.BuyChangePct.IsZero())
	})

	t.Run("negative change", func(t *testing.T) {
		m := ComputeChangeMetrics(d("90"), d("100"), d("120"))
		// (90-100)/90*100 = -11.11..., (90-120)/90*100 = -33.33...
		assert.True(t, m.DayChangePct.Equal(d("-11.11")), "got %s", m.DayChangePct)
		assert.True(t, m.BuyChangePct.Equal(d("-33.33")), "got %s", m.BuyChangePct)
	})

	t.Run("rounding is half-up on ties", func(t *testing.T) {
		// (100.125-100)/100.125*100 is not a tie; construct one directly:
		// open chosen so the raw change is exactly 0.125 -> 0.13
		m := ComputeChangeMetrics(d("1000"), d("998.75"), decimal.Zero)
		assert.True(t, m.DayChangePct.Equal(d("0.13")), "got %s", m.DayChangePct)
	})
}
