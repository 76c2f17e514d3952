// Package config loads console configuration: service endpoints, input
// tuning, and the known-locations table.
//
// Resolution order is defaults, then an optional YAML config file, then
// VCC_* environment overrides, then validation of the merged result.
package config
