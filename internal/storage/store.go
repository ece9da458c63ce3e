package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Store creates directories and writes received payloads.
type Store struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// New constructs a store on an explicit filesystem.
func New(fs afero.Fs, logger zerolog.Logger) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{fs: fs, logger: logger.With().Str("component", "storage").Logger()}
}

// NewOS constructs a store on the host filesystem.
func NewOS(logger zerolog.Logger) *Store {
	return New(afero.NewOsFs(), logger)
}

// Fs exposes the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// EnsureDirectory creates path and all missing parents. An existing directory
// is not an error.
func (s *Store) EnsureDirectory(path string) error {
	if err := s.fs.MkdirAll(path, 0o755); err != nil {
		return &DirectoryError{Path: path, Err: err}
	}
	fi, err := s.fs.Stat(path)
	if err != nil {
		return &DirectoryError{Path: path, Err: err}
	}
	if !fi.IsDir() {
		return &DirectoryError{Path: path, Err: ErrNotDirectory}
	}
	return nil
}

// WriteFile writes content to dir/filename, replacing any existing file.
// It returns the number of bytes written.
func (s *Store) WriteFile(dir, filename string, content []byte) (int, error) {
	p, err := resolvePath(dir, filename)
	if err != nil {
		return 0, &WriteError{Path: filepath.Join(dir, filename), Filename: filename, Bytes: len(content), Err: err}
	}

	f, err := s.fs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, &WriteError{Path: p, Filename: filename, Bytes: len(content), Err: err}
	}
	n, err := f.Write(content)
	if err == nil && n < len(content) {
		err = ErrShortWrite
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, &WriteError{Path: p, Filename: filename, Bytes: len(content), Err: err}
	}

	s.logger.Debug().Int("bytes", n).Str("path", p).Msg("file written")
	return n, nil
}

// Subdirectory joins name onto root. The result must stay inside root; an
// empty name yields root itself.
func Subdirectory(root, name string) (string, error) {
	base := filepath.Clean(root)
	p := filepath.Join(base, strings.TrimSpace(name))
	if !within(base, p) {
		return "", &DirectoryError{Path: p, Err: ErrEscapesRoot}
	}
	return p, nil
}

func resolvePath(dir, filename string) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "", ErrEmptyName
	}
	root := filepath.Clean(dir)
	p := filepath.Join(root, name)
	if p == root || !within(root, p) {
		return "", ErrEscapesRoot
	}
	return p, nil
}

// within reports whether p is root or lies below it.
func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && !filepath.IsAbs(rel)
}
