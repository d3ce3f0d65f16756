package storage

import (
	"context"
	"errors"
	"io"
)

// ErrTooLarge rejects uploads above the configured maximum size.
var ErrTooLarge = errors.New("file exceeds maximum allowed size")

// Store accepts uploaded byte streams and hands back an opaque file
// identifier. The relay never inspects file contents; it only passes the
// identifier, declared name and declared size along to the room.
type Store interface {
	// Save consumes the stream and returns the stored file's identifier
	// and byte size. Streams above the size limit fail with ErrTooLarge.
	Save(ctx context.Context, name string, r io.Reader) (id string, size int64, err error)
	// Dir returns the directory files are served from.
	Dir() string
}
