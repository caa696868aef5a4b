package fsx

import (
	"context"
	"io"
)

// FileReader reads files from a storage backend
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// FileSystem abstracts a file storage backend (S3, local disk, ...)
type FileSystem interface {
	FileReader

	WriteFile(ctx context.Context, path string, data []byte) error
	WriteFileStream(ctx context.Context, path string, reader io.Reader) error
	DeleteFile(ctx context.Context, path string) error

	// Join builds a storage path from segments using the backend's separator
	Join(parts ...string) string
}
