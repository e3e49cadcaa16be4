package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage implements Storage on the local filesystem.
// Writes go to a temporary file in the target directory which is renamed
// over the destination once fully flushed.
type LocalStorage struct {
	perm fs.FileMode
}

type LocalOption func(*LocalStorage)

// WithFileMode sets the permissions of written files. Default is 0644.
func WithFileMode(perm fs.FileMode) LocalOption {
	return func(s *LocalStorage) {
		if perm != 0 {
			s.perm = perm
		}
	}
}

func NewLocalStorage(opts ...LocalOption) *LocalStorage {
	s := &LocalStorage{perm: 0o644}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, contextError(err, "open")
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrFailedToOpenFile, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", ErrFailedToOpenFile, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	return f, nil
}

func (s *LocalStorage) Write(ctx context.Context, path string, r io.Reader) (err error) {
	if err := ctx.Err(); err != nil {
		return contextError(err, "write")
	}
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToCreateFile, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}
	if err = tmp.Chmod(s.perm); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToWriteFile, err)
	}

	return nil
}

func contextError(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s operation", ErrOperationTimeout, operation)
	}
	return fmt.Errorf("%w: %s operation", ErrOperationCanceled, operation)
}
