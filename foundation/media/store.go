// Package media handles storing uploaded sample files on disk and fetching
// them from the messaging provider.
package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Set of file extensions used for stored samples.
const (
	ExtImage    = ".jpg"
	ExtSequence = ".fasta"
)

// ErrTooLarge is returned when a sample exceeds the configured size limit.
var ErrTooLarge = errors.New("media exceeds size limit")

// Store represents the folder uploaded samples are written into.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore constructs a Store for the specified folder, creating it when it
// does not exist. A maxBytes of zero disables the size limit.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating media directory: %w", err)
	}

	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the folder samples are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the content of the reader to a new file with the specified
// name and returns the path of the file.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("creating sample file: %w", err)
	}
	defer f.Close()

	if s.maxBytes > 0 {
		r = io.LimitReader(r, s.maxBytes+1)
	}

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing sample file: %w", err)
	}

	if s.maxBytes > 0 && n > s.maxBytes {
		f.Close()
		os.Remove(path)
		return "", ErrTooLarge
	}

	return path, nil
}

// Head returns up to size bytes from the start of a stored file.
func (s *Store) Head(path string, size int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, size)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return buf[:n], nil
}

// FileName forms the name a sample is stored under from the sender, the
// ledger timestamp and the declared content type.
func FileName(sender string, timestamp string, contentType string) string {
	return fmt.Sprintf("%s_%s%s", strings.ReplaceAll(sender, "+", ""), timestamp, Ext(contentType))
}

// Ext returns the extension for a declared content type. Anything that is
// not an image is stored as a sequence file.
func Ext(contentType string) string {
	if strings.Contains(contentType, "image") {
		return ExtImage
	}
	return ExtSequence
}

// Detect sniffs the content type of the data.
func Detect(data []byte) string {
	return mimetype.Detect(data).String()
}
