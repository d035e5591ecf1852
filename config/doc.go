// Package config loads the cvmesh configuration from an optional YAML file
// and CVMESH_* environment overrides.
package config
