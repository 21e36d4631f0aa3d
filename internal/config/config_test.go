package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DAILY_GENERATION_CAP", "")
	t.Setenv("PENDING_STORE_PATH", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultDailyGenerationCap, cfg.DailyGenerationCap)
	assert.Equal(t, DefaultPendingStorePath, cfg.PendingStorePath)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DAILY_GENERATION_CAP", "5")
	t.Setenv("PENDING_STORE_PATH", "/tmp/flags.json")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5, cfg.DailyGenerationCap)
	assert.Equal(t, "/tmp/flags.json", cfg.PendingStorePath)
	require.NoError(t, cfg.RequireGemini())
}

func TestFromEnv_InvalidCap(t *testing.T) {
	t.Setenv("DAILY_GENERATION_CAP", "many")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("DAILY_GENERATION_CAP", "-1")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestConfig_Requirements(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireDatabase())
	assert.Error(t, cfg.RequireGemini())

	cfg.DatabaseURL = "postgres://localhost/studio"
	cfg.GeminiAPIKey = "key"
	assert.NoError(t, cfg.RequireDatabase())
	assert.NoError(t, cfg.RequireGemini())
}

func TestNewJWTConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := NewJWTConfig()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.ExpirationHours)

	t.Setenv("JWT_EXPIRATION_HOURS", "0")
	_, err = NewJWTConfig()
	assert.Error(t, err)
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	cfg, err := NewPasswordConfig()
	require.NoError(t, err)

	hash, err := cfg.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, cfg.VerifyPassword("hunter2", hash))
	assert.False(t, cfg.VerifyPassword("wrong", hash))
}

func TestPasswordConfig_CostBounds(t *testing.T) {
	t.Setenv("BCRYPT_COST", "9")
	_, err := NewPasswordConfig()
	assert.Error(t, err)

	t.Setenv("BCRYPT_COST", "15")
	_, err = NewPasswordConfig()
	assert.Error(t, err)
}
