// Package config loads runtime configuration for cvtrack.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c/--config or CVTRACK_CONFIG.
//  3. CVTRACK_* environment variables, with values from a .env file used
//     where the process environment has none.
//  4. Command-line flags, applied only when set explicitly.
//
// Relative paths are resolved against data_dir once all sources are applied,
// and the result is validated.
//
// # File schema
//
// Durations use timex.Duration, so "5m" and integer nanoseconds both work:
//
//	{
//	  "data_dir": "~/jobs",
//	  "scan_interval": "5m",
//	  "watch_outputs": true,
//	  "countries": [{"name": "Germany", "keywords": ["Germany", "Berlin"]}]
//	}
package config
