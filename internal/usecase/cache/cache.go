package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andreyxaxa/miniaturs/internal/entity"
	"github.com/andreyxaxa/miniaturs/internal/repo"
	"github.com/andreyxaxa/miniaturs/pkg/logger"
	"github.com/andreyxaxa/miniaturs/pkg/metrics"
	"github.com/andreyxaxa/miniaturs/pkg/types/errs"
)

// MetadataJSONKey is the sidecar metadata entry holding the JSON-encoded cache entry.
const MetadataJSONKey = "_metadata_json"

const (
	TierProcessed   = "processed"
	TierUnprocessed = "unprocessed"
)

// Keyer is anything with a content-derived cache key.
type Keyer interface {
	CacheKey() (entity.CacheKey, error)
}

// Entry is sidecar metadata that also knows the content type of the bytes it describes.
type Entry interface {
	Keyer
	ObjectContentType() string
}

// Retrieved pairs cached bytes with the entry that describes them.
type Retrieved[E any] struct {
	Data  []byte
	Entry E
}

// Cache is a cache-aside tier over a BlobStore. E is the sidecar entry type.
type Cache[E Entry] struct {
	store   repo.BlobStore
	tier    string
	metrics *metrics.Metrics
	logger  logger.Interface
}

type (
	UnprocessedCache = Cache[entity.FetchedEntry]
	ProcessedCache   = Cache[entity.ResizedEntry]
)

func New[E Entry](store repo.BlobStore, tier string, m *metrics.Metrics, l logger.Interface) *Cache[E] {
	return &Cache[E]{
		store:   store,
		tier:    tier,
		metrics: m,
		logger:  l,
	}
}

func NewUnprocessed(store repo.BlobStore, m *metrics.Metrics, l logger.Interface) *UnprocessedCache {
	return New[entity.FetchedEntry](store, TierUnprocessed, m, l)
}

func NewProcessed(store repo.BlobStore, m *metrics.Metrics, l logger.Interface) *ProcessedCache {
	return New[entity.ResizedEntry](store, TierProcessed, m, l)
}

// Get returns (nil, nil) on a miss. Objects without readable metadata count as misses.
func (c *Cache[E]) Get(ctx context.Context, req Keyer) (*Retrieved[E], error) {
	key, err := req.CacheKey()
	if err != nil {
		return nil, fmt.Errorf("Cache - Get - req.CacheKey: %w", err)
	}

	blob, err := c.store.Get(ctx, string(key))
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			c.metrics.CacheLookup(c.tier, metrics.ResultMiss)

			return nil, nil
		}
		c.metrics.CacheLookup(c.tier, metrics.ResultError)

		return nil, fmt.Errorf("Cache - Get - c.store.Get: %w", err)
	}

	raw, ok := blob.Metadata[MetadataJSONKey]
	if !ok {
		c.logger.Warn("cache %s: object %s has no metadata, ignoring", c.tier, key)
		c.metrics.CacheLookup(c.tier, metrics.ResultMiss)

		return nil, nil
	}

	var entry E
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.logger.Warn("cache %s: object %s has unreadable metadata, ignoring: %v", c.tier, key, err)
		c.metrics.CacheLookup(c.tier, metrics.ResultMiss)

		return nil, nil
	}

	// a foreign or stale object under our key is not trusted
	entryKey, err := entry.CacheKey()
	if err != nil || entryKey != key {
		c.logger.Warn("cache %s: object %s describes another request, ignoring", c.tier, key)
		c.metrics.CacheLookup(c.tier, metrics.ResultMiss)

		return nil, nil
	}

	c.metrics.CacheLookup(c.tier, metrics.ResultHit)

	return &Retrieved[E]{Data: blob.Data, Entry: entry}, nil
}

// Set stores data under the entry's key, overwriting whatever was there.
func (c *Cache[E]) Set(ctx context.Context, data []byte, entry E) error {
	key, err := entry.CacheKey()
	if err != nil {
		return fmt.Errorf("Cache - Set - entry.CacheKey: %w", err)
	}

	metadata, err := Metadata(entry)
	if err != nil {
		return fmt.Errorf("Cache - Set - Metadata: %w", err)
	}

	err = c.store.Put(ctx, string(key), data, entry.ObjectContentType(), metadata)
	if err != nil {
		c.metrics.CacheWrite(c.tier, metrics.ResultError)

		return fmt.Errorf("Cache - Set - c.store.Put: %w", err)
	}

	c.metrics.CacheWrite(c.tier, metrics.ResultOK)

	return nil
}

// Metadata is the sidecar map stored next to the cached bytes.
func Metadata(entry any) (map[string]string, error) {
	b, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("Metadata - json.Marshal: %w", err)
	}

	return map[string]string{MetadataJSONKey: string(b)}, nil
}
