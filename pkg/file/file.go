package file

import (
	"context"
	"io"
)

// Storage reads and replaces whole objects.
type Storage interface {
	// Open returns a reader for the object at path. The caller closes it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Write replaces the object at path with the content of r. Readers never
	// observe a partially written object.
	Write(ctx context.Context, path string, r io.Reader) error
}
