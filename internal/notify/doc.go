// Package notify announces the end of a session, audibly when configured.
package notify
