package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrNonASCIIName   = errors.New("protocol: name block is not 7-bit ascii")
	ErrUnknownCommand = errors.New("protocol: unknown command")
)

// DecodeError reports a name block that could not be decoded as text.
type DecodeError struct {
	Offset int
	Byte   byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: byte 0x%02x at offset %d", e.Err, e.Byte, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
