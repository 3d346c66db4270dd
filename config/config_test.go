package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "SESSION_DURATION", "CODE_TTL", "MAX_CODE_ATTEMPTS", "CACHE_TTL", "POLICY_START_DATE", "STORE_DRIVER", "ATTEMPT_SWEEP_INTERVAL", "ATTEMPT_SWEEP_GRACE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 8*time.Hour, cfg.SessionDuration)
	assert.Equal(t, 10*time.Minute, cfg.CodeTTL)
	assert.Equal(t, 3, cfg.MaxCodeAttempts)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 24*time.Hour, cfg.SweepGrace)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), cfg.PolicyStartDate)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_DURATION", "2h")
	t.Setenv("MAX_CODE_ATTEMPTS", "5")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("POLICY_START_DATE", "2024-01-15")
	t.Setenv("CACHE_TTL", "not-a-duration")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.SessionDuration)
	assert.Equal(t, 5, cfg.MaxCodeAttempts)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, 2024, cfg.PolicyStartDate.Year())
	assert.Equal(t, time.Hour, cfg.CacheTTL)
}

func TestLoad_NonPositiveDurationsUseDefaults(t *testing.T) {
	t.Setenv("ATTEMPT_SWEEP_INTERVAL", "0")
	t.Setenv("ATTEMPT_SWEEP_GRACE", "-1h")
	t.Setenv("CACHE_TTL", "-1s")
	t.Setenv("MAIL_TIMEOUT", "0s")
	t.Setenv("DATABASE_QUERY_TIMEOUT", "-5s")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 24*time.Hour, cfg.SweepGrace)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.MailTimeout)
	assert.Equal(t, 15*time.Second, cfg.QueryTimeout)
}
