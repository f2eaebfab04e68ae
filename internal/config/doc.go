// Package config loads, normalizes, and validates gapsplice configuration data.
//
// It supplies defaults that mirror the classic ./source, ./gap, ./tmp and
// ./output layout, expands user paths (including tilde shortcuts), and reads
// TOML files. The Config type centralizes every knob the CLI and the render
// pipeline need so directories and tool locations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
