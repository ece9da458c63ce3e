// Package transport owns the byte stream a session reads frames from.
//
// Ownership boundary:
// - serial device open/close
//
// - delimiter-bounded reads over any stream
package transport
