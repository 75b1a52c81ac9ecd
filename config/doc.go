// Package config loads process-level settings for the flow graph core and
// streaming pipeline from environment variables, following the envOr
// pattern registry/cmd/registry/main.go documents in its package comment.
//
// Recognized environment variables:
//
//	FLOWCORE_BATCH_SIZE              - rows per batch for text codecs (default: 1024)
//	FLOWCORE_ELASTIC_QUEUE_LIMIT      - elastic buffer queue limit (default: 1024)
//	FLOWCORE_ELASTIC_SAFETY_THRESHOLD - elastic buffer safety threshold (default: 512)
//	FLOWCORE_REACTIVE_WINDOW          - reactive subscriber window size (default: 256)
//	FLOWCORE_TICK_INTERVAL            - pipeline event loop tick interval (default: "1ms")
//	FLOWCORE_STORAGE_ROOT             - local file storage root directory (default: ".")
//	FLOWCORE_CODEC_CASE_SENSITIVE     - object-format decoder case sensitivity (default: true)
//	MONGO_URI                         - metadata/resource bundle backing store (default: "mongodb://localhost:27017")
//	MONGO_DATABASE                    - database name (default: "flowcore")
//	REDIS_URL                         - reactive sink transport (default: "localhost:6379")
//	REDIS_PASSWORD                    - Redis password (optional)
//	TEMPORAL_HOST_PORT                - Temporal frontend address (default: "localhost:7233")
//	TEMPORAL_NAMESPACE                - Temporal namespace (default: "default")
//	TEMPORAL_TASK_QUEUE               - task queue the graph executor hands sections to (default: "flowcore")
package config
