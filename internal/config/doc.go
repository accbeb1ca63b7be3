// ABOUTME: Configuration package for the shush CLI
// ABOUTME: Layers flags over an optional YAML file over built-in defaults
// Package config loads extraction settings.
//
// Values come from DefaultConfig, then the first config file found
// (-config, ./shush.yaml, ~/.shush/config.yaml), then command-line flags.
package config
