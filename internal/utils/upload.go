package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"drops_api/internal/domain"

	"github.com/google/uuid"
)

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// ImageStore writes uploaded images below a storage root on local disk
type ImageStore struct {
	root string // Directory on disk, also the public URL prefix
}

// NewImageStore creates a store rooted at dir
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{root: dir}
}

// Save writes fh under subdir with a random name and returns its
// storage-relative path, e.g. "products/<uuid>.png".
func (s *ImageStore) Save(fh *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExt[ext] {
		return "", fmt.Errorf("%w: unsupported image type %q", domain.ErrValidation, ext)
	}
	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	if err := writeFile(filepath.Join(dir, name), src); err != nil {
		return "", err
	}
	return subdir + "/" + name, nil
}

// writeFile copies src to path and removes the file again on any failure
func writeFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path) // No partial images on disk
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
