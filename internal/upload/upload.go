// Package upload stores multipart image uploads on local disk and hands back
// the public path they are served from.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"family-organizer/internal/config"
)

const PublicPrefix = "/uploads/"

var (
	ErrNoFile          = errors.New("no file in request")
	ErrTooLarge        = errors.New("file exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedContentTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/gif":  {},
}

var whitespacePattern = regexp.MustCompile(`\s+`)

type Store struct {
	dir      string
	maxBytes int64
}

func NewStore(cfg config.UploadConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: cfg.Dir, maxBytes: cfg.MaxBytes}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// SaveImage extracts the named multipart file, checks its size and sniffed
// content type, writes it under a unique filename, and returns its public
// path. Returns ErrNoFile when the field is absent.
func (s *Store) SaveImage(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", ErrNoFile
		}
		return "", err
	}
	defer file.Close()

	if header.Size > s.maxBytes {
		return "", ErrTooLarge
	}

	contentType, err := sniffContentType(file)
	if err != nil {
		return "", err
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return "", ErrUnsupportedType
	}

	name, err := uniqueFilename(header.Filename)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, s.maxBytes)); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return PublicPrefix + name, nil
}

func sniffContentType(file multipart.File) (string, error) {
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

func uniqueFilename(original string) (string, error) {
	var random [4]byte
	if _, err := rand.Read(random[:]); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = whitespacePattern.ReplaceAllString(base, "_")
	if base == "" || base == "." {
		base = "upload"
	}

	return fmt.Sprintf("%d_%s_%s%s", time.Now().UnixMilli(), hex.EncodeToString(random[:]), base, ext), nil
}
