// Package storage owns persistence of received payloads.
//
// Ownership boundary:
// - directory creation for the output root and subfolders
//
// - binary file writes (truncate and overwrite, no atomic rename)
package storage
