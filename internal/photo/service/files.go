package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskFiles stores uploaded images on local disk under a single directory,
// renaming each to a uuid so caller-supplied names never touch the
// filesystem.
type DiskFiles struct {
	dir       string
	publicURL string
}

// NewDiskFiles ensures the directory exists and constructs a DiskFiles.
// publicURL is the URL prefix the stored files are served under.
func NewDiskFiles(dir, publicURL string) (*DiskFiles, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create submissions dir: %w", err)
	}
	return &DiskFiles{dir: dir, publicURL: publicURL}, nil
}

// Save implements FileStore. Only the extension of the original filename
// survives.
func (d *DiskFiles) Save(originalFilename string, contents io.Reader) (string, error) {
	name := uuid.NewString() + filepath.Ext(filepath.Base(originalFilename))

	f, err := os.Create(filepath.Join(d.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, contents); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return d.publicURL + "/" + name, nil
}
