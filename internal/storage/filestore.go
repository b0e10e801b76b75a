// Package storage keeps uploaded files in a flat directory under generated names.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/yukikurage/portfolio-cms/internal/constants"
	"github.com/yukikurage/portfolio-cms/internal/logger"
)

var (
	// ErrInvalidName is returned for names that are not bare stored file names.
	ErrInvalidName = errors.New("invalid file name")
	// ErrImageTooLarge is returned for images whose header declares
	// more pixels than constants.MaxImagePixels.
	ErrImageTooLarge = errors.New("image dimensions too large")
)

// Bounds is the largest size an image may be stored at.
type Bounds struct {
	Width  int
	Height int
}

var (
	// DefaultBounds applies to project and achievement images.
	DefaultBounds = Bounds{Width: constants.ImageMaxDimension, Height: constants.ImageMaxDimension}
	// ProfileBounds applies to profile pictures.
	ProfileBounds = Bounds{Width: constants.ProfileImageDimension, Height: constants.ProfileImageDimension}
)

// Extensions that are decoded, resized and re-encoded. Everything else is
// stored byte for byte.
var imageFormats = map[string]imaging.Format{
	".jpg":  imaging.JPEG,
	".jpeg": imaging.JPEG,
	".png":  imaging.PNG,
	".gif":  imaging.GIF,
}

// FileStore stores uploads in a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory when it does not exist yet.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the upload directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Store writes r under a fresh random name that keeps only the extension of
// originalName. Images larger than bounds are shrunk to fit, preserving the
// aspect ratio. A failed write leaves nothing behind.
func (s *FileStore) Store(r io.Reader, originalName string, bounds Bounds) (string, error) {
	ext := extension(originalName)
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	path := filepath.Join(s.dir, name)

	var err error
	if format, ok := imageFormats[ext]; ok {
		err = s.storeImage(r, path, format, bounds)
	} else {
		err = s.storeRaw(r, path)
	}
	if err != nil {
		if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			logger.Log.Warnw("failed to remove partial upload", "file", name, "error", removeErr)
		}
		logger.Log.Errorw("failed to store upload", "original_name", originalName, "error", err)
		return "", err
	}

	logger.Log.Infow("stored upload", "file", name, "original_name", originalName)
	return name, nil
}

func (s *FileStore) storeImage(r io.Reader, path string, format imaging.Format, bounds Bounds) error {
	// The header is read through a tee so the full decode sees every byte.
	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > constants.MaxImagePixels {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(io.MultiReader(&header, r), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	if format == imaging.JPEG {
		img = flatten(img)
	}

	size := img.Bounds().Size()
	if size.X > bounds.Width || size.Y > bounds.Height {
		img = imaging.Fit(img, bounds.Width, bounds.Height, imaging.Lanczos)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := imaging.Encode(file, img, format, imaging.JPEGQuality(constants.JPEGQuality)); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return file.Close()
}

func (s *FileStore) storeRaw(r io.Reader, path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// flatten draws img over an opaque white background.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	background := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

// Remove deletes a stored file. It reports false for an empty name, a missing
// file or a filesystem error; errors are logged, never returned.
func (s *FileStore) Remove(name string) bool {
	if name == "" {
		return false
	}

	path, err := s.Path(name)
	if err != nil {
		logger.Log.Warnw("refusing to remove file", "file", name, "error", err)
		return false
	}

	if err := os.Remove(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Log.Errorw("error deleting file", "file", name, "error", err)
		}
		return false
	}
	return true
}

// Path resolves a stored name inside the upload directory.
func (s *FileStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// extension returns the lowercased extension of name with anything outside
// [a-z0-9] dropped.
func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(strings.ReplaceAll(name, "\\", "/"))))
	if ext == "" {
		return ""
	}

	var b strings.Builder
	b.WriteByte('.')
	for _, r := range ext[1:] {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 1 {
		return ""
	}
	return b.String()
}

// HasExtension reports whether name ends in one of the allowed extensions,
// compared case-insensitively and given without the leading dot.
func HasExtension(name string, allowed ...string) bool {
	ext := strings.TrimPrefix(extension(name), ".")
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
