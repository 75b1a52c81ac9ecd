package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every process-level setting a collaborator exposing the flow
// graph core or streaming pipeline consumes.
type Config struct {
	BatchSize              int
	ElasticQueueLimit      int
	ElasticSafetyThreshold int
	ReactiveWindow         int
	TickInterval           time.Duration
	StorageRoot            string
	CodecCaseSensitive     bool

	MongoURI      string
	MongoDatabase string

	RedisURL      string
	RedisPassword string

	TemporalHostPort  string
	TemporalNamespace string
	TemporalTaskQueue string
}

// Load reads Config from the environment, falling back to the defaults
// documented in the package comment.
func Load() Config {
	return Config{
		BatchSize:              envIntOr("FLOWCORE_BATCH_SIZE", 1024),
		ElasticQueueLimit:      envIntOr("FLOWCORE_ELASTIC_QUEUE_LIMIT", 1024),
		ElasticSafetyThreshold: envIntOr("FLOWCORE_ELASTIC_SAFETY_THRESHOLD", 512),
		ReactiveWindow:         envIntOr("FLOWCORE_REACTIVE_WINDOW", 256),
		TickInterval:           envDurationOr("FLOWCORE_TICK_INTERVAL", time.Millisecond),
		StorageRoot:            envOr("FLOWCORE_STORAGE_ROOT", "."),
		CodecCaseSensitive:     envBoolOr("FLOWCORE_CODEC_CASE_SENSITIVE", true),
		MongoURI:               envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:          envOr("MONGO_DATABASE", "flowcore"),
		RedisURL:               envOr("REDIS_URL", "localhost:6379"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		TemporalHostPort:       envOr("TEMPORAL_HOST_PORT", "localhost:7233"),
		TemporalNamespace:      envOr("TEMPORAL_NAMESPACE", "default"),
		TemporalTaskQueue:      envOr("TEMPORAL_TASK_QUEUE", "flowcore"),
	}
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOr(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func envBoolOr(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func envDurationOr(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
