// Package metrics owns the downloader's Prometheus counters.
package metrics
