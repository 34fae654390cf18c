package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, dirExists(dir))
	assert.False(t, dirExists(dir+"-notfound"))
}

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		dur      time.Duration
		expected string
	}{
		{time.Second * 5, "5 seconds"},
		{time.Second * 65, "1 minute, 5 seconds"},
		{time.Second * 3665, "1 hour, 1 minute, 5 seconds"},
		{time.Second * 3600, "1 hour, 0 minutes, 0 seconds"},
		{time.Second * 60, "1 minute, 0 seconds"},
		{time.Second * 1, "1 second"},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, formatUptime(c.dur), "formatUptime(%v)", c.dur)
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "", plural(1))
	assert.Equal(t, "s", plural(2))
	assert.Equal(t, "s", plural(0))
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2s")
	assert.Equal(t, 2*time.Second, getEnvDuration("TEST_DURATION", time.Second))
	t.Setenv("TEST_DURATION", "notaduration")
	assert.Equal(t, 3*time.Second, getEnvDuration("TEST_DURATION", 3*time.Second))
	t.Setenv("TEST_DURATION", "")
	assert.Equal(t, 4*time.Second, getEnvDuration("TEST_DURATION", 4*time.Second))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, getEnvInt("TEST_INT", 7))
	t.Setenv("TEST_INT", "notanint")
	assert.Equal(t, 8, getEnvInt("TEST_INT", 8))
	t.Setenv("TEST_INT", "")
	assert.Equal(t, 9, getEnvInt("TEST_INT", 9))
}

func TestParseInt(t *testing.T) {
	got, err := parseInt(" 123 ")
	assert.NoError(t, err)
	assert.Equal(t, 123, got)
	_, err = parseInt("notanint")
	assert.Error(t, err)
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, getEnvBool("TEST_BOOL", false))
	t.Setenv("TEST_BOOL", "maybe")
	assert.True(t, getEnvBool("TEST_BOOL", true), "invalid input falls back")
	t.Setenv("TEST_BOOL", "")
	assert.False(t, getEnvBool("TEST_BOOL", false), "unset falls back")
}

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "  value ")
	assert.Equal(t, "value", getEnvString("TEST_STRING", "x"))
	t.Setenv("TEST_STRING", "   ")
	assert.Equal(t, "x", getEnvString("TEST_STRING", "x"))
}

func TestReqPrefix(t *testing.T) {
	assert.Empty(t, reqPrefix(context.Background()))
	ctx := context.WithValue(context.Background(), requestIDKey, "r-1")
	assert.Equal(t, "[request_id=r-1] ", reqPrefix(ctx))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("GATE_PAIRS", "6")
	t.Setenv("GATE_MISMATCH_DELAY", "2s")
	t.Setenv("GATE_ALLOW_DISMISS", "1")
	t.Setenv("SUBSCRIBE_URL", "https://example.com/subscribe")

	cfg := loadConfig()
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, 6, cfg.GatePairs)
	assert.Equal(t, 2*time.Second, cfg.MismatchDelay)
	assert.Equal(t, DefaultMatchDelay, cfg.MatchDelay)
	assert.True(t, cfg.AllowDismiss)
	assert.Equal(t, "https://example.com/subscribe", cfg.SubscribeURL)
	assert.Equal(t, "data/content.json", cfg.ContentFile)
}
