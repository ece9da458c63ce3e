// Package tools provides helpers for running host commands.
//
// Ownership boundary:
// - command execution (sound player, git)
package tools
