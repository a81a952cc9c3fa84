package localfs

import (
	"audiopress/internal/core/domain"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Adapter owns all file access under the storage directory
type Adapter struct {
	dir    string
	logger *slog.Logger
}

// NewAdapter ensures the storage directory exists and returns Adapter
func NewAdapter(dir string, logger *slog.Logger) (*Adapter, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Adapter{dir: dir, logger: logger}, nil
}

// Path resolves key to the path handed to external tools
func (a *Adapter) Path(key string) string {
	return filepath.Join(a.dir, key)
}

// Save streams src into key, enforcing maxBytes when positive. A stream
// longer than maxBytes aborts the write, removes the partial blob and
// returns domain.ErrPayloadTooLarge.
func (a *Adapter) Save(ctx context.Context, key string, src io.Reader, maxBytes int64) (int64, error) {
	path := a.Path(key)

	dst, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create blob: %v", domain.ErrStorageIO, err)
	}

	limited := src
	if maxBytes > 0 {
		limited = io.LimitReader(src, maxBytes+1)
	}

	written, copyErr := io.Copy(dst, limited)
	closeErr := dst.Close()

	if copyErr != nil {
		a.discard(path)
		return 0, fmt.Errorf("%w: failed to write blob: %v", domain.ErrStorageIO, copyErr)
	}
	if closeErr != nil {
		a.discard(path)
		return 0, fmt.Errorf("%w: failed to close blob: %v", domain.ErrStorageIO, closeErr)
	}
	if maxBytes > 0 && written > maxBytes {
		a.discard(path)
		return 0, domain.ErrPayloadTooLarge
	}
	return written, nil
}

// Open opens the blob at key for reading. Missing blobs satisfy
// errors.Is(err, fs.ErrNotExist).
func (a *Adapter) Open(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	f, err := os.Open(a.Path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", key, err)
	}
	return f, nil
}

// Stat returns the stat record of the blob at key
func (a *Adapter) Stat(ctx context.Context, key string) (*domain.BlobInfo, error) {
	info, err := os.Stat(a.Path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to stat blob %s: %w", key, err)
	}
	return &domain.BlobInfo{
		Key:       key,
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// List returns a stat record for every blob under the storage directory
func (a *Adapter) List(ctx context.Context) ([]domain.BlobInfo, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	blobs := make([]domain.BlobInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			a.logger.Warn("failed to stat directory entry", "name", entry.Name(), "error", err)
			continue
		}
		blobs = append(blobs, domain.BlobInfo{
			Key:       entry.Name(),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
	}
	return blobs, nil
}

// Rename moves the blob at oldKey to newKey
func (a *Adapter) Rename(ctx context.Context, oldKey, newKey string) error {
	if err := os.Rename(a.Path(oldKey), a.Path(newKey)); err != nil {
		return fmt.Errorf("failed to rename blob %s to %s: %w", oldKey, newKey, err)
	}
	return nil
}

// Remove deletes the blob at key. Missing blobs satisfy
// errors.Is(err, fs.ErrNotExist) so callers can tolerate them.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := os.Remove(a.Path(key)); err != nil {
		return fmt.Errorf("failed to remove blob %s: %w", key, err)
	}
	return nil
}

func (a *Adapter) discard(path string) {
	if err := os.Remove(path); err != nil {
		a.logger.Warn("failed to discard partial blob", "path", path, "error", err)
	}
}
