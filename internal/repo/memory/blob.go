// Package memory is an in-process BlobStore for tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/andreyxaxa/miniaturs/internal/repo"
	"github.com/andreyxaxa/miniaturs/pkg/types/errs"
)

type BlobStore struct {
	mu      sync.RWMutex
	objects map[string]repo.Blob

	puts int
}

var _ repo.BlobStore = (*BlobStore)(nil)

func NewBlobStore() *BlobStore {
	return &BlobStore{objects: make(map[string]repo.Blob)}
}

func (s *BlobStore) Get(ctx context.Context, key string) (*repo.Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.objects[key]
	if !ok {
		return nil, errs.ErrObjectNotFound
	}

	return &repo.Blob{
		Data:        append([]byte(nil), b.Data...),
		ContentType: b.ContentType,
		Metadata:    maps.Clone(b.Metadata),
	}, nil
}

func (s *BlobStore) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.puts++
	s.objects[key] = repo.Blob{
		Data:        append([]byte(nil), data...),
		ContentType: contentType,
		Metadata:    maps.Clone(metadata),
	}

	return nil
}

// Len is the number of stored objects.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.objects)
}

// Keys lists stored object keys in no particular order.
func (s *BlobStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}

	return keys
}

// Puts counts Put calls, including overwrites.
func (s *BlobStore) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.puts
}
