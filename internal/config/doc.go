// Package config owns downloader runtime configuration: defaults, the TOML
// file format and validation.
package config
