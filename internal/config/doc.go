// Package config loads lineguard configuration from TOML or YAML files with
// local-then-global precedence. The CLI applies flag overrides on top and
// hands the frozen value to discovery and checking.
package config
