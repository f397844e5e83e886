// Package storage saves admin uploads on local disk after sniffing their
// content type.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// URLPrefix is the public path uploads are served under.
const URLPrefix = "/uploads"

const (
	sniffBytes = 3072
	dirPerm    = 0o755
)

var (
	// ErrEmptyFile is returned for a zero-byte upload.
	ErrEmptyFile = errors.New("file is empty")
	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file exceeds the upload size limit")
	// ErrUnsupportedType is returned for content outside the allowlist.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// allowedTypes maps sniffed MIME types to the stored file extension.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"image/svg+xml":   ".svg",
	"application/pdf": ".pdf",
}

// File describes a stored upload.
type File struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	// Path is the file location on disk.
	Path string `json:"-"`
}

// Store writes uploads to <dir>/<yyyy>/<mm>/<uuid><ext>.
type Store struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

// NewStore creates a store rooted at dir accepting files up to maxBytes.
func NewStore(dir string, maxBytes int64) *Store {
	return &Store{dir: dir, maxBytes: maxBytes, now: time.Now}
}

// Dir returns the upload root.
func (s *Store) Dir() string {
	return s.dir
}

// MaxBytes returns the size limit.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save sniffs r, rejects disallowed types and writes it under a new name.
func (s *Store) Save(r io.Reader) (*File, error) {
	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyFile
	}
	head = head[:n]

	mime := mimetype.Detect(head)
	contentType, ext := allowed(mime)
	if ext == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mime.String())
	}

	now := s.now().UTC()
	year, month := now.Format("2006"), now.Format("01")
	targetDir := filepath.Join(s.dir, year, month)
	if err = os.MkdirAll(targetDir, dirPerm); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(targetDir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	body := io.MultiReader(bytes.NewReader(head), r)
	written, copyErr := io.Copy(tmp, io.LimitReader(body, s.maxBytes+1))
	closeErr := tmp.Close()
	if copyErr != nil {
		return nil, fmt.Errorf("write upload: %w", copyErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close upload: %w", closeErr)
	}
	if written > s.maxBytes {
		return nil, ErrTooLarge
	}

	name := uuid.NewString() + ext
	finalPath := filepath.Join(targetDir, name)
	if err = os.Rename(tmpName, finalPath); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return &File{
		URL:         path.Join(URLPrefix, year, month, name),
		ContentType: contentType,
		Size:        written,
		Path:        finalPath,
	}, nil
}

// allowed walks the detected type and its parents, so subtypes of an
// allowed type are accepted.
func allowed(mime *mimetype.MIME) (contentType, ext string) {
	for m := mime; m != nil; m = m.Parent() {
		base, _, _ := strings.Cut(m.String(), ";")
		if e, ok := allowedTypes[base]; ok {
			return base, e
		}
	}
	return "", ""
}
