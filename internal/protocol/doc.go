// Package protocol owns interpretation of received frames.
//
// Ownership boundary:
// - name block decoding and normalization
//
// - command classification (store file, change subfolder, quit)
//
// Wire framing and delimiter scanning live in package frame.
package protocol
