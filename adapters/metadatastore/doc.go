// Package metadatastore provides a MongoDB-backed graph.MetadataBundle and
// graph.ResourceBundle: read-only lookups from tag selector (or resource
// name) to object/resource definition.
package metadatastore
