// Package config handles loading and validation of vsort configuration.
//
// Configuration is read from ~/.config/vsort/config.toml with environment
// variable overrides. A project may carry a .vsort.toml next to its project
// file that overrides fetch settings for that project only.
//
// # Configuration Sources (highest priority first)
//
//   - VSORT_CACHE_DIR env var: disk cache directory
//   - VSORT_WORKERS env var: concurrent fetch count
//   - .vsort.toml next to the project file
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - workers: number of images fetched at once (1-64, default 5)
//   - thumbnail.width/height/timeout: grid cell size and per-fetch timeout
//   - detail.timeout: timeout for images in the folder detail view
//   - viewer.width/height/timeout: enlarged viewer size and timeout
//   - cache.dir/max_age/disabled: on-disk tier for downloaded sources
//   - theme.name/mode: color theme ("default", "dracula", "nord", "none")
//
// Durations use Go syntax ("10s", "168h").
//
// # Path Validation
//
// Directory paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
