package protocol

import (
	"bytes"
	"strings"

	"github.com/danmuck/cpmdl/internal/protocol/frame"
)

const (
	// QuitName ends the session when it is the whole name block.
	QuitName = "quit"
	// SubfolderMarker prefixes a name block that switches the output subfolder.
	SubfolderMarker = "#_"
)

// Kind identifies a Command variant.
type Kind string

const (
	KindStoreFile       Kind = "store_file"
	KindChangeSubfolder Kind = "change_subfolder"
	KindQuit            Kind = "quit"
)

// Command is the interpretation of one frame. The set of variants is closed:
// StoreFile, ChangeSubfolder and Quit.
type Command interface {
	Kind() Kind
	command()
}

// StoreFile persists Content under Filename in the working directory.
type StoreFile struct {
	Filename string
	Content  []byte
}

// ChangeSubfolder switches the working directory to <output root>/Name.
type ChangeSubfolder struct {
	Name string
}

// Quit ends the session successfully.
type Quit struct{}

func (StoreFile) Kind() Kind       { return KindStoreFile }
func (ChangeSubfolder) Kind() Kind { return KindChangeSubfolder }
func (Quit) Kind() Kind            { return KindQuit }

func (StoreFile) command()       {}
func (ChangeSubfolder) command() {}
func (Quit) command()            {}

// ParseFrame classifies the raw content and name segments of one frame.
// Trailing sentinels are stripped if present. The name is lowercased and
// trimmed; a name containing bytes above 0x7f is rejected with a *DecodeError.
func ParseFrame(rawContent, rawName []byte) (Command, error) {
	content := bytes.TrimSuffix(rawContent, frame.StopSentinel)
	name, err := NormalizeName(bytes.TrimSuffix(rawName, frame.GoSentinel))
	if err != nil {
		return nil, err
	}

	switch {
	case name == QuitName:
		return Quit{}, nil
	case strings.HasPrefix(name, SubfolderMarker):
		return ChangeSubfolder{Name: strings.TrimSpace(name[len(SubfolderMarker):])}, nil
	default:
		return StoreFile{Filename: name, Content: content}, nil
	}
}

// Parse is ParseFrame applied to a frame read from the wire.
func Parse(f frame.Frame) (Command, error) {
	return ParseFrame(f.Content, f.Name)
}

// NormalizeName decodes a name block as ascii, lowercases and trims it.
func NormalizeName(raw []byte) (string, error) {
	for i, b := range raw {
		if b > 0x7f {
			return "", &DecodeError{Offset: i, Byte: b, Err: ErrNonASCIIName}
		}
	}
	return strings.TrimSpace(strings.ToLower(string(raw))), nil
}
