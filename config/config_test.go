package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromMissingFileUsesDefaults(t *testing.T) {
	cfg := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Match.RegionTierLimit)
	assert.Equal(t, int64(0), cfg.Match.ShuffleSeed)
	assert.Empty(t, cfg.Mongo.URI)
}

func TestLoadConfigFromYAMLKeepsUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "server:\n  port: \"9090\"\n  readTimeout: 5s\nmatch:\n  shuffleSeed: 42\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg := LoadConfigFrom(path)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(42), cfg.Match.ShuffleSeed)
	assert.Equal(t, 10, cfg.Match.RegionTierLimit)
	assert.Equal(t, "case-exchange", cfg.JWT.Issuer)
}

func TestEnvOverridesYAML(t *testing.T) {
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("MATCH_REGION_TIER_LIMIT", "3")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Match.RegionTierLimit)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
}
