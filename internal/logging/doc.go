// Package logging owns process-wide zerolog configuration.
//
// Ownership boundary:
// - level selection (names, numeric levels, env overrides)
//
// - console and logfile sinks
package logging
