package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("VOTER_TOKEN_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")

	t.Setenv("ADMIN_PASSWORD", "letmein")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VOTER_TOKEN_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "letmein")
	t.Setenv("VOTER_TOKEN_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "qa", cfg.Mongo.Database)
	assert.Empty(t, cfg.Redis.Addr, "redis bridge disabled by default")
	assert.Equal(t, 720, cfg.Voter.ExpireHours)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "letmein")
	t.Setenv("VOTER_TOKEN_SECRET", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("MONGO_DB", "qa_test")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "qa_test", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}
