package frame

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
)

func TestReadWriteFrameRoundTrip(t *testing.T) {
	payload := []byte{0x00, 0x1a, 'H', 'I', 0xff, '\n'}
	in := New(payload, "Greeting.TXT")

	var buf bytes.Buffer
	if err := WriteFrame(&buf, in, DefaultLimits()); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	out, err := ReadFrame(NewScanner(&buf), DefaultLimits())
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if !bytes.Equal(out.Payload(), payload) {
		t.Fatalf("payload mismatch: got=%q want=%q", out.Payload(), payload)
	}
	if string(out.Label()) != "Greeting.TXT" {
		t.Fatalf("label mismatch: %q", out.Label())
	}
	if !bytes.HasSuffix(out.Content, StopSentinel) || !bytes.HasSuffix(out.Name, GoSentinel) {
		t.Fatalf("raw segments lost their sentinels: %+v", out)
	}
}

func TestReadFrameEmptyContent(t *testing.T) {
	wire := append(append(append([]byte{}, StopSentinel...), "quit"...), GoSentinel...)
	out, err := ReadFrame(NewScanner(bytes.NewReader(wire)), DefaultLimits())
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if len(out.Payload()) != 0 {
		t.Fatalf("expected empty payload, got %q", out.Payload())
	}
	if string(out.Label()) != "quit" {
		t.Fatalf("unexpected label: %q", out.Label())
	}
}

func TestReadFrameSequenceOneByteReads(t *testing.T) {
	var buf bytes.Buffer
	for _, f := range []Frame{New([]byte("A"), "a.txt"), New([]byte("BB"), "b.txt")} {
		if err := WriteFrame(&buf, f, Limits{}); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}
	s := NewScanner(iotest.OneByteReader(&buf))
	first, err := ReadFrame(s, Limits{})
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	second, err := ReadFrame(s, Limits{})
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if string(first.Payload()) != "A" || string(second.Payload()) != "BB" {
		t.Fatalf("unexpected payloads: %q %q", first.Payload(), second.Payload())
	}
	if _, err := ReadFrame(s, Limits{}); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after last frame, got %v", err)
	}
}

func TestReadUntilPartialSentinelInsideContent(t *testing.T) {
	// "...STO" followed by other bytes must not terminate the block.
	wire := []byte("x...STOy...STOP...")
	got, err := NewScanner(bytes.NewReader(wire)).ReadUntil(StopSentinel, 0)
	if err != nil {
		t.Fatalf("read until: %v", err)
	}
	if !bytes.Equal(got, wire) {
		t.Fatalf("unexpected segment: %q", got)
	}
}

func TestReadUntilLargerThanBuffer(t *testing.T) {
	content := bytes.Repeat([]byte{'P'}, 64*1024)
	wire := append(append([]byte{}, content...), StopSentinel...)
	got, err := NewScanner(bytes.NewReader(wire)).ReadUntil(StopSentinel, 0)
	if err != nil {
		t.Fatalf("read until: %v", err)
	}
	if len(got) != len(wire) {
		t.Fatalf("unexpected length: got=%d want=%d", len(got), len(wire))
	}
}

func TestReadFrameTruncatedStream(t *testing.T) {
	wire := []byte("HELLO...STOP...greet")
	_, err := ReadFrame(NewScanner(bytes.NewReader(wire)), DefaultLimits())
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}

	_, err = ReadFrame(NewScanner(bytes.NewReader([]byte("HEL"))), DefaultLimits())
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF for partial content, got %v", err)
	}
}

func TestReadFrameLimits(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, New([]byte("0123456789"), "f"), Limits{}); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	_, err := ReadFrame(NewScanner(&buf), Limits{MaxContentBytes: 4})
	if !errors.Is(err, ErrContentTooLarge) {
		t.Fatalf("expected ErrContentTooLarge, got %v", err)
	}

	buf.Reset()
	if err := WriteFrame(&buf, New(nil, "a-long-file-name.bin"), Limits{}); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	_, err = ReadFrame(NewScanner(&buf), Limits{MaxNameBytes: 8})
	if !errors.Is(err, ErrNameTooLarge) {
		t.Fatalf("expected ErrNameTooLarge, got %v", err)
	}
}

func TestReadFrameExactlyAtLimit(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, New([]byte("1234"), "abcd"), Limits{}); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	out, err := ReadFrame(NewScanner(&buf), Limits{MaxContentBytes: 4, MaxNameBytes: 4})
	if err != nil {
		t.Fatalf("read frame at limit: %v", err)
	}
	if string(out.Payload()) != "1234" {
		t.Fatalf("unexpected payload: %q", out.Payload())
	}
}

func TestWriteFrameRejectsInvalidFrames(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, Frame{Content: []byte("x"), Name: []byte("y")}, Limits{}); !errors.Is(err, ErrUnterminated) {
		t.Fatalf("expected ErrUnterminated, got %v", err)
	}
	bad := New(append([]byte("a"), StopSentinel...), "f")
	if err := WriteFrame(&buf, bad, Limits{}); !errors.Is(err, ErrSentinelInPayload) {
		t.Fatalf("expected ErrSentinelInPayload, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("rejected frames must not write bytes, wrote %d", buf.Len())
	}
}

func TestReadUntilEmptyDelimiter(t *testing.T) {
	_, err := NewScanner(bytes.NewReader(nil)).ReadUntil(nil, 0)
	if !errors.Is(err, ErrEmptyDelimiter) {
		t.Fatalf("expected ErrEmptyDelimiter, got %v", err)
	}
}
