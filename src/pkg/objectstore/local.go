package objectstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dustin/go-humanize"
)

var ErrObjectNotFound = errors.New("object not found")

// LocalBackend implements Store on the local filesystem. Object bodies live in
// files named after the hash of bucket and key, metadata lives in badger.
type LocalBackend struct {
	root string
	db   *badger.DB
	mu   sync.RWMutex
}

func NewLocalBackend(root string) (*LocalBackend, error) {
	if err := os.MkdirAll(filepath.Join(root, "objects"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	opts := badger.DefaultOptions(filepath.Join(root, "objects_badger"))
	opts.Logger = nil // Disable badger logging
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &LocalBackend{
		root: root,
		db:   db,
	}, nil
}

func objectKey(bucket, name string) []byte {
	return []byte(bucket + "/" + name)
}

// fileName is the hex sha256 of the object key, so any client supplied name
// maps to a flat, safe file name.
func fileName(bucket, name string) string {
	sum := sha256.Sum256(objectKey(bucket, name))
	return hex.EncodeToString(sum[:])
}

func (b *LocalBackend) objectPath(hash string) string {
	return filepath.Clean(filepath.Join(b.root, "objects", hash))
}

// stage copies body into a temporary file next to the object files. The file
// is removed again when the copy fails.
func (b *LocalBackend) stage(body io.Reader) (path string, size int64, retErr error) {
	file, err := os.CreateTemp(filepath.Join(b.root, "objects"), ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			retErr = errors.Join(retErr, closeErr)
		}
		if retErr != nil {
			if removeErr := os.Remove(file.Name()); removeErr != nil && !os.IsNotExist(removeErr) {
				retErr = errors.Join(retErr, removeErr)
			}
		}
	}()

	size, err = io.Copy(file, body)
	if err != nil {
		return "", 0, err
	}
	return file.Name(), size, nil
}

func (b *LocalBackend) Store(ctx context.Context, bucket, name string, body io.Reader) error {
	if bucket == "" {
		return fmt.Errorf("failed to upload %q: bucket name is empty", name)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to upload %q to bucket %q: %w", name, bucket, err)
	}

	contentType, detectErr := detectContentType(body)
	if detectErr != nil {
		return fmt.Errorf("failed to upload %q to bucket %q: %w", name, bucket, detectErr)
	}

	// The copy runs unlocked; only swapping the file in and writing its
	// metadata is serialized.
	staged, size, stageErr := b.stage(body)
	if stageErr != nil {
		return fmt.Errorf("failed to upload %q to bucket %q: %w", name, bucket, stageErr)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	hash := fileName(bucket, name)
	if renameErr := os.Rename(staged, b.objectPath(hash)); renameErr != nil {
		if removeErr := os.Remove(staged); removeErr != nil {
			renameErr = errors.Join(renameErr, removeErr)
		}
		return fmt.Errorf("failed to upload %q to bucket %q: %w", name, bucket, renameErr)
	}

	metadata := &ObjectMetadata{
		Bucket:      bucket,
		Key:         name,
		Hash:        hash,
		Size:        size,
		ContentType: contentType,
		UploadedAt:  time.Now(),
	}

	if updateErr := b.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		return txn.Set(objectKey(bucket, name), data)
	}); updateErr != nil {
		return fmt.Errorf("failed to upload %q to bucket %q: %w", name, bucket, updateErr)
	}

	slog.Info("Stored object", "bucket", bucket, "name", name, "size", humanize.Bytes(uint64(size)))
	return nil
}

func (b *LocalBackend) getMetadata(bucket, name string) (*ObjectMetadata, error) {
	var metadata ObjectMetadata
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(objectKey(bucket, name))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, name)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &metadata)
		})
	})
	if err != nil {
		return nil, err
	}
	return &metadata, nil
}

func (b *LocalBackend) GetMetadata(bucket, name string) (*ObjectMetadata, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.getMetadata(bucket, name)
}

func (b *LocalBackend) Retrieve(bucket, name string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	metadata, err := b.getMetadata(bucket, name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(b.objectPath(metadata.Hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: file for %s/%s is missing", ErrObjectNotFound, bucket, name)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (b *LocalBackend) Exists(bucket, name string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var exists bool
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(objectKey(bucket, name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			exists = false
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	return exists, err
}

// List returns the object names stored in bucket.
func (b *LocalBackend) List(bucket string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	prefix := []byte(bucket + "/")
	var names []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // Only need keys
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return names, err
}

func (b *LocalBackend) Remove(bucket, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	metadata, err := b.getMetadata(bucket, name)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil // Object doesn't exist, consider it already removed
		}
		return fmt.Errorf("failed to get metadata: %w", err)
	}

	if err := os.Remove(b.objectPath(metadata.Hash)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(objectKey(bucket, name))
	})
}

// Close closes the database connection
func (b *LocalBackend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}
