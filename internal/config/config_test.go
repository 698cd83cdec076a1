package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList("201580722, 42 ,7")
	require.NoError(t, err)
	assert.Equal(t, []int64{201580722, 42, 7}, ids)

	ids, err = parseIDList("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = parseIDList("42,abc")
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("TELEGRAM_ALLOWED_IDS", "1,2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "11h0m0s", cfg.Tracker.CheckThreshold.String())
	assert.Equal(t, "12h0m0s", cfg.Tracker.SweepPeriod.String())
	assert.Equal(t, "1mo", cfg.Tracker.ChartPeriod)
	assert.Equal(t, []int64{1, 2}, cfg.Telegram.AllowedIDs)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}
