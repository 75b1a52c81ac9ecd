package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadAppliesDefaultsWhenUnset(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 1024, cfg.BatchSize)
	assert.Equal(t, 1024, cfg.ElasticQueueLimit)
	assert.Equal(t, 512, cfg.ElasticSafetyThreshold)
	assert.Equal(t, 256, cfg.ReactiveWindow)
	assert.Equal(t, time.Millisecond, cfg.TickInterval)
	assert.Equal(t, ".", cfg.StorageRoot)
	assert.True(t, cfg.CodecCaseSensitive)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "flowcore", cfg.MongoDatabase)
	assert.Equal(t, "localhost:6379", cfg.RedisURL)
	assert.Equal(t, "", cfg.RedisPassword)
	assert.Equal(t, "localhost:7233", cfg.TemporalHostPort)
	assert.Equal(t, "default", cfg.TemporalNamespace)
	assert.Equal(t, "flowcore", cfg.TemporalTaskQueue)
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	t.Setenv("FLOWCORE_BATCH_SIZE", "2048")
	t.Setenv("FLOWCORE_TICK_INTERVAL", "5ms")
	t.Setenv("FLOWCORE_CODEC_CASE_SENSITIVE", "false")
	t.Setenv("FLOWCORE_STORAGE_ROOT", "/data")

	cfg := Load()
	assert.Equal(t, 2048, cfg.BatchSize)
	assert.Equal(t, 5*time.Millisecond, cfg.TickInterval)
	assert.False(t, cfg.CodecCaseSensitive)
	assert.Equal(t, "/data", cfg.StorageRoot)
}

func TestEnvIntOrIgnoresUnparseableValue(t *testing.T) {
	t.Setenv("FLOWCORE_BATCH_SIZE", "not-a-number")

	cfg := Load()
	assert.Equal(t, 1024, cfg.BatchSize, "an unparseable override falls back to the default")
}

func TestEnvBoolOrIgnoresUnparseableValue(t *testing.T) {
	t.Setenv("FLOWCORE_CODEC_CASE_SENSITIVE", "maybe")

	cfg := Load()
	assert.True(t, cfg.CodecCaseSensitive)
}

func TestEnvDurationOrIgnoresUnparseableValue(t *testing.T) {
	t.Setenv("FLOWCORE_TICK_INTERVAL", "not-a-duration")

	cfg := Load()
	assert.Equal(t, time.Millisecond, cfg.TickInterval)
}
