// Package pulsebridge provides the concrete Pulse/Redis-backed transport
// the reactive Source and Sink adapters bridge to: a Pulse stream plays
// the role of "external publisher" when feeding a Source, and of
// "external subscriber" when consuming from a Sink.
package pulsebridge
