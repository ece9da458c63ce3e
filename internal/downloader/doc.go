// Package downloader owns the receive session.
//
// Ownership boundary:
// - transport lifecycle (open, scoped close, close on interrupt)
//
// - frame loop and command dispatch
//
// - working directory state
//
// - the single end-of-session notification
//
// Lifecycle order:
// - ensure output root -> open transport -> read frames until quit or error -> notify
//
// A session never retries. The first fatal error ends it.
package downloader
