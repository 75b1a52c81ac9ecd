// Package localfile implements Local File Storage: a concrete byte-stream
// source/sink against a process-local filesystem, presented as the
// reference implementation of the byte-stream boundary contract every
// storage plugin shares.
package localfile
