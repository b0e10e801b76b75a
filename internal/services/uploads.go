package services

import (
	"io"

	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/storage"
)

// FileStore persists uploaded files.
type FileStore interface {
	Store(r io.Reader, originalName string, bounds storage.Bounds) (string, error)
	Remove(name string) bool
}

// Upload is a file submitted with a form.
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// storeUpload stores up and returns its stored name. A nil upload yields "".
// A failed upload is logged, returns "" and sets skipped.
func storeUpload(files FileStore, up *Upload, bounds storage.Bounds, skipped *bool) string {
	if up == nil {
		return ""
	}

	rc, err := up.Open()
	if err != nil {
		logger.Log.Warnw("failed to open upload", "file", up.Filename, "error", err)
		*skipped = true
		return ""
	}
	defer rc.Close()

	name, err := files.Store(rc, up.Filename, bounds)
	if err != nil {
		*skipped = true
		return ""
	}
	return name
}

// removeFiles deletes stored files, ignoring empty names.
func removeFiles(files FileStore, names ...string) {
	for _, name := range names {
		if name != "" {
			files.Remove(name)
		}
	}
}
