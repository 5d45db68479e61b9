package objectstore

import (
	"context"
	"io"
	"time"
)

// Store writes one object. Writing an existing key replaces it.
type Store interface {
	Store(ctx context.Context, bucket, name string, body io.Reader) error
}

type ObjectMetadata struct {
	Bucket      string    `json:"bucket"`
	Key         string    `json:"key"`
	Hash        string    `json:"hash"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
