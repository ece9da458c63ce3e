package frame

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// Sentinels terminating the two blocks of a frame on the wire.
var (
	StopSentinel = []byte("...STOP...")
	GoSentinel   = []byte("...GO...")
)

var (
	ErrEmptyDelimiter    = errors.New("frame: empty delimiter")
	ErrSegmentTooLarge   = errors.New("frame: segment exceeds limit")
	ErrContentTooLarge   = errors.New("frame: content too large")
	ErrNameTooLarge      = errors.New("frame: name too large")
	ErrUnexpectedEOF     = errors.New("frame: stream ended inside a frame")
	ErrUnterminated      = errors.New("frame: segment is missing its sentinel")
	ErrSentinelInPayload = errors.New("frame: sentinel inside payload")
)

// Frame is one unit as it travels on the wire. Content ends with StopSentinel
// and Name ends with GoSentinel.
type Frame struct {
	Content []byte
	Name    []byte
}

// Limits constrains how much a single frame may buffer. Zero disables a limit.
type Limits struct {
	MaxContentBytes uint64
	MaxNameBytes    uint64
}

func DefaultLimits() Limits {
	return Limits{
		MaxContentBytes: 8 * 1024 * 1024,
		MaxNameBytes:    1024,
	}
}

// DelimitedReader is the read primitive the framing layer needs from a transport.
type DelimitedReader interface {
	// ReadUntil blocks until delim was read and returns everything up to and
	// including it. max bounds the bytes before delim; zero means unbounded.
	ReadUntil(delim []byte, max uint64) ([]byte, error)
}

// New builds a wire frame from a bare payload and name.
func New(content []byte, name string) Frame {
	c := make([]byte, 0, len(content)+len(StopSentinel))
	c = append(c, content...)
	c = append(c, StopSentinel...)
	n := make([]byte, 0, len(name)+len(GoSentinel))
	n = append(n, name...)
	n = append(n, GoSentinel...)
	return Frame{Content: c, Name: n}
}

// Payload returns the content block without its sentinel.
func (f Frame) Payload() []byte {
	return bytes.TrimSuffix(f.Content, StopSentinel)
}

// Label returns the name block without its sentinel.
func (f Frame) Label() []byte {
	return bytes.TrimSuffix(f.Name, GoSentinel)
}

// ReadFrame reads one content block and one name block. A stream that ends
// cleanly before any content byte yields io.EOF.
func ReadFrame(r DelimitedReader, limits Limits) (Frame, error) {
	content, err := r.ReadUntil(StopSentinel, limits.MaxContentBytes)
	if err != nil {
		if errors.Is(err, ErrSegmentTooLarge) {
			return Frame{}, ErrContentTooLarge
		}
		return Frame{}, err
	}
	name, err := r.ReadUntil(GoSentinel, limits.MaxNameBytes)
	if err != nil {
		if errors.Is(err, ErrSegmentTooLarge) {
			return Frame{}, ErrNameTooLarge
		}
		if errors.Is(err, io.EOF) {
			return Frame{}, ErrUnexpectedEOF
		}
		return Frame{}, err
	}
	return Frame{Content: content, Name: name}, nil
}

func WriteFrame(w io.Writer, f Frame, limits Limits) error {
	if !bytes.HasSuffix(f.Content, StopSentinel) || !bytes.HasSuffix(f.Name, GoSentinel) {
		return ErrUnterminated
	}
	payload := f.Payload()
	label := f.Label()
	if limits.MaxContentBytes > 0 && uint64(len(payload)) > limits.MaxContentBytes {
		return ErrContentTooLarge
	}
	if limits.MaxNameBytes > 0 && uint64(len(label)) > limits.MaxNameBytes {
		return ErrNameTooLarge
	}
	if bytes.Contains(payload, StopSentinel) || bytes.Contains(label, GoSentinel) {
		return ErrSentinelInPayload
	}

	if _, err := w.Write(f.Content); err != nil {
		return err
	}
	if _, err := w.Write(f.Name); err != nil {
		return err
	}
	return nil
}

// Scanner implements DelimitedReader over any byte stream.
type Scanner struct {
	r *bufio.Reader
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

func (s *Scanner) ReadUntil(delim []byte, max uint64) ([]byte, error) {
	if len(delim) == 0 {
		return nil, ErrEmptyDelimiter
	}
	last := delim[len(delim)-1]
	var out []byte
	for {
		chunk, err := s.r.ReadSlice(last)
		out = append(out, chunk...)
		if max > 0 && uint64(len(out)) > max+uint64(len(delim)) {
			return nil, ErrSegmentTooLarge
		}
		switch {
		case err == nil:
			if bytes.HasSuffix(out, delim) {
				return out, nil
			}
		case errors.Is(err, bufio.ErrBufferFull):
		case errors.Is(err, io.EOF):
			if len(out) == 0 {
				return nil, io.EOF
			}
			return out, ErrUnexpectedEOF
		default:
			return out, err
		}
	}
}
