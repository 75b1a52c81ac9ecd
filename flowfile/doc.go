// Package flowfile round-trips a graph.FlowDefinition to and from YAML,
// following the tagged-struct-plus-gopkg.in/yaml.v3 pattern
// integration_tests/framework/runner.go uses for its scenario files.
package flowfile
