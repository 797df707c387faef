package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 20, cfg.Quiz.BatchSize)
	assert.Equal(t, ClaimBackendDatabase, cfg.Claim.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Claim.TTL)
	assert.Empty(t, cfg.Auth.JWTSecret)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("QUIZ_BATCH_SIZE", "5")
	t.Setenv("CLAIM_BACKEND", "redis")
	t.Setenv("CLAIM_TTL", "30s")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, 5, cfg.Quiz.BatchSize)
	assert.Equal(t, ClaimBackendRedis, cfg.Claim.Backend)
	assert.Equal(t, 30*time.Second, cfg.Claim.TTL)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
}

func TestNonPositiveBatchSizeFallsBack(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("QUIZ_BATCH_SIZE", 0)

	assert.Equal(t, 20, fromViper(v).Quiz.BatchSize)
}
