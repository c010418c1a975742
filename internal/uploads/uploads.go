// Package uploads stores profile pictures and CV documents on local disk.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

// MaxFileSize bounds a single uploaded file
const MaxFileSize = 10 << 20

var (
	ErrFileTooLarge = errors.New("file exceeds maximum size")
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileType     = errors.New("file type not allowed")
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Kind describes a category of upload and the extensions it accepts
type Kind struct {
	Dir         string
	Allowed     map[string]bool
	DefaultExt  string
	StrictTypes bool // reject instead of falling back to DefaultExt
}

// ProfilePictures accepts common image formats and falls back to jpg
func ProfilePictures(dir string) Kind {
	return Kind{
		Dir:        dir,
		Allowed:    map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true},
		DefaultExt: "jpg",
	}
}

// CVs accepts PDF documents only
func CVs(dir string) Kind {
	return Kind{
		Dir:         dir,
		Allowed:     map[string]bool{"pdf": true},
		DefaultExt:  "pdf",
		StrictTypes: true,
	}
}

// Store writes uploads beneath per-kind directories
type Store struct {
	pictures Kind
	cvs      Kind
}

// NewStore creates the upload directories if needed
func NewStore(pictures, cvs Kind) (*Store, error) {
	for _, dir := range []string{pictures.Dir, cvs.Dir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}
	return &Store{pictures: pictures, cvs: cvs}, nil
}

// SaveProfilePicture stores an image and returns the generated file name
func (s *Store) SaveProfilePicture(fh *multipart.FileHeader, email string) (string, error) {
	return save(s.pictures, fh, email)
}

// SaveCV stores a CV document and returns the generated file name
func (s *Store) SaveCV(fh *multipart.FileHeader, email string) (string, error) {
	return save(s.cvs, fh, email)
}

// FileName builds "<local-part>_<ulid>.<ext>" for an upload
func FileName(kind Kind, original, email string) (string, error) {
	ext := kind.DefaultExt
	if i := strings.LastIndex(original, "."); i >= 0 {
		candidate := strings.ToLower(original[i+1:])
		switch {
		case kind.Allowed[candidate]:
			ext = candidate
		case kind.StrictTypes:
			return "", fmt.Errorf("%w: .%s", ErrFileType, candidate)
		}
	} else if kind.StrictTypes {
		return "", fmt.Errorf("%w: missing extension", ErrFileType)
	}

	local, _, _ := strings.Cut(email, "@")
	safe := unsafeChars.ReplaceAllString(local, "_")
	if safe == "" {
		safe = "user"
	}

	return fmt.Sprintf("%s_%s.%s", safe, strings.ToLower(ulid.Make().String()), ext), nil
}

func save(kind Kind, fh *multipart.FileHeader, email string) (string, error) {
	if fh.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}

	name, err := FileName(kind, fh.Filename, email)
	if err != nil {
		return "", err
	}

	base, err := filepath.Abs(kind.Dir)
	if err != nil {
		return "", err
	}
	target, err := filepath.Abs(filepath.Join(kind.Dir, name))
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(target, base+string(os.PathSeparator)) {
		return "", ErrInvalidPath
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, MaxFileSize)); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return name, nil
}
