// Package binder implements the Job Binder: it augments a GraphSection with
// runtime information pulled from a JobDefinition, a MetadataBundle, and a
// ResourceBundle. Missing lookups leave nodes unchanged; the
// type inferencer may still fill gaps downstream.
package binder
