// Package errs defines the five structured error kinds that cross
// collaborator boundaries in the flow graph core and streaming pipeline:
// an opaque, tag-plus-fields error type per kind, each with Unwrap support
// so errors.As/errors.Is keep working across the chain.
package errs
