package downloader

import "time"

// Result classifies how a session ended.
type Result string

const (
	ResultQuit            Result = "quit"
	ResultSetupFailed     Result = "setup_failed"
	ResultOpenFailed      Result = "open_failed"
	ResultTransportError  Result = "transport_error"
	ResultDecodeError     Result = "decode_error"
	ResultWriteFailed     Result = "write_failed"
	ResultDirectoryFailed Result = "directory_failed"
	ResultInterrupted     Result = "interrupted"
)

// Outcome summarizes one session.
type Outcome struct {
	Result       Result
	SessionID    string
	FilesWritten int
	BytesWritten int64
	Subfolders   int
	WorkingDir   string
	Notified     bool
	Duration     time.Duration
	Err          error
}

// OK reports whether the session ended with the quit command.
func (o Outcome) OK() bool {
	return o.Result == ResultQuit
}
