package port

import (
	"audiopress/internal/core/domain"
	"context"
	"io"
)

// BlobStore is an interface to define storage directory interactions.
// Keys are bare file names; the adapter owns the directory itself.
type BlobStore interface {
	// Save streams src into key. A positive maxBytes is a hard ceiling:
	// exceeding it aborts the write, removes the partial blob and
	// returns domain.ErrPayloadTooLarge.
	Save(ctx context.Context, key string, src io.Reader, maxBytes int64) (int64, error)
	Open(ctx context.Context, key string) (io.ReadSeekCloser, error)
	Stat(ctx context.Context, key string) (*domain.BlobInfo, error)
	List(ctx context.Context) ([]domain.BlobInfo, error)
	Rename(ctx context.Context, oldKey, newKey string) error
	Remove(ctx context.Context, key string) error
	// Path resolves key to the absolute path handed to external tools
	Path(key string) string
}
