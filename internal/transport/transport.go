package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/danmuck/cpmdl/internal/protocol/frame"
)

var (
	ErrNotOpen = errors.New("transport: not open")
	ErrClosed  = errors.New("transport: closed")
)

// Transport is one open connection to a sender.
//
// Close must be idempotent and safe to call while ReadUntil is blocked: a
// session closes the transport from its interrupt hook and again on return.
// A read unblocked by Close reports ErrClosed.
type Transport interface {
	frame.DelimitedReader
	io.Writer
	IsOpen() bool
	Close() error
}

// Opener opens a transport for a device at the given baud rate.
type Opener func(device string, baud int) (Transport, error)

// OpenError reports a device that could not be opened.
type OpenError struct {
	Device string
	Baud   int
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("transport: open %s at %d baud: %v", e.Device, e.Baud, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Stream adapts any byte stream to Transport. Close is idempotent and safe to
// call while a read is blocked.
type Stream struct {
	name    string
	rwc     io.ReadWriteCloser
	scanner *frame.Scanner
	open    atomic.Bool
	once    sync.Once
	err     error
}

func NewStream(name string, rwc io.ReadWriteCloser) *Stream {
	s := &Stream{
		name:    name,
		rwc:     rwc,
		scanner: frame.NewScanner(rwc),
	}
	s.open.Store(true)
	return s
}

// Name returns the device identifier the stream was opened for.
func (s *Stream) Name() string {
	return s.name
}

func (s *Stream) IsOpen() bool {
	return s.open.Load()
}

func (s *Stream) ReadUntil(delim []byte, max uint64) ([]byte, error) {
	if !s.IsOpen() {
		return nil, ErrClosed
	}
	out, err := s.scanner.ReadUntil(delim, max)
	if err != nil && !s.IsOpen() {
		return out, errors.Join(ErrClosed, err)
	}
	return out, err
}

func (s *Stream) Write(p []byte) (int, error) {
	if !s.IsOpen() {
		return 0, ErrClosed
	}
	return s.rwc.Write(p)
}

func (s *Stream) Close() error {
	s.once.Do(func() {
		s.open.Store(false)
		s.err = s.rwc.Close()
	})
	return s.err
}

// ReadError reports a failed read on an open transport.
type ReadError struct {
	Device string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("transport: read %s: %v", e.Device, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
