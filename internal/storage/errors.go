package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotDirectory = errors.New("storage: not a directory")
	ErrEmptyName    = errors.New("storage: empty filename")
	ErrEscapesRoot  = errors.New("storage: path escapes directory")
	ErrShortWrite   = errors.New("storage: short write")
)

// DirectoryError reports a directory that could not be created or used.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("storage: directory %q: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// WriteError reports a file that could not be written completely.
type WriteError struct {
	Path     string
	Filename string
	Bytes    int
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage: write %q (%d bytes) to %q: %v", e.Filename, e.Bytes, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
