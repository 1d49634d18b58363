package dto

import (
	"io"

	"github.com/andreyxaxa/miniaturs/internal/entity"
)

// ResizeInput is what the transport layer extracts from a signed request.
type ResizeInput struct {
	Signature string
	// PathAndQuery is the canonical signed message, still carrying the "/{signature}/" prefix.
	PathAndQuery string
	// Size is the raw "WxH" segment.
	Size string
	URL  string
}

type ResizedImage struct {
	Data        []byte
	ContentType string
}

type OperationsMetadata struct {
	URL        string
	Operations entity.Operations
}

// OriginResponse is an opened origin fetch. Body is unread.
type OriginResponse struct {
	Body         io.ReadCloser
	DeclaredSize *uint64
	ContentType  *string
}
