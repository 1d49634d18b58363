package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CacheKey is the hex SHA-256 of a key request's JSON encoding.
type CacheKey string

// FetchRequest identifies the raw bytes of a source image.
type FetchRequest struct {
	URL string `json:"requested_image_url"`
}

func (r FetchRequest) CacheKey() (CacheKey, error) {
	return digest(r)
}

// FetchedEntry is stored as sidecar metadata next to fetched source bytes.
type FetchedEntry struct {
	Request     FetchRequest `json:"request"`
	ContentType *string      `json:"content_type"`
}

func (e FetchedEntry) CacheKey() (CacheKey, error) {
	return e.Request.CacheKey()
}

// ObjectContentType is the type the cached object is stored with; empty when the origin sent none.
func (e FetchedEntry) ObjectContentType() string {
	if e.ContentType == nil {
		return ""
	}

	return *e.ContentType
}

// ResizeRequest identifies a rendered output.
type ResizeRequest struct {
	URL        string     `json:"requested_image_url"`
	Operations Operations `json:"operations"`
}

func (r ResizeRequest) CacheKey() (CacheKey, error) {
	return digest(r)
}

// ResizedEntry is stored as sidecar metadata next to transformed bytes.
type ResizedEntry struct {
	Request     ResizeRequest `json:"request"`
	ContentType string        `json:"content_type"`
}

func (e ResizedEntry) CacheKey() (CacheKey, error) {
	return e.Request.CacheKey()
}

func (e ResizedEntry) ObjectContentType() string {
	return e.ContentType
}

func digest(v any) (CacheKey, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("entity - digest - json.Marshal: %w", err)
	}

	sum := sha256.Sum256(b)

	return CacheKey(hex.EncodeToString(sum[:])), nil
}
