// Package coordinator implements the Pipeline Coordinator: it owns a
// pipeline's stage list, schedules pump cycles on a single event loop,
// propagates completion and failure, and guarantees every stage receives
// exactly one shutdown.
package coordinator
