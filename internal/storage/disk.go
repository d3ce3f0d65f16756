package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Disk stores uploads as regular files under a single directory. File
// identifiers are uuid-prefixed to keep client-supplied names from
// colliding or escaping the directory.
type Disk struct {
	dir      string
	maxBytes int64
}

// NewDisk creates the upload directory if needed.
func NewDisk(dir string, maxBytes int64) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir, maxBytes: maxBytes}, nil
}

// Save streams the upload to disk, enforcing the size limit as it copies.
// A stream above the limit is removed and rejected with ErrTooLarge.
func (d *Disk) Save(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	id := uuid.New().String() + "_" + filepath.Base(name)
	path := filepath.Join(d.dir, id)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create upload file: %w", err)
	}

	// Read one byte past the limit to tell "exactly at" from "over".
	n, err := io.Copy(f, io.LimitReader(r, d.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write upload file: %w", err)
	}
	if n > d.maxBytes {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, d.maxBytes)
	}

	return id, n, nil
}

// Dir returns the directory uploads are stored in.
func (d *Disk) Dir() string {
	return d.dir
}
