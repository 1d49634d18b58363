package repo

import (
	"context"
)

type (
	// Blob is an object read back from a BlobStore.
	Blob struct {
		Data        []byte
		ContentType string
		Metadata    map[string]string
	}

	// BlobStore is an opaque object store. Get returns errs.ErrObjectNotFound for a missing key.
	BlobStore interface {
		Get(ctx context.Context, key string) (*Blob, error)
		Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error
	}
)
