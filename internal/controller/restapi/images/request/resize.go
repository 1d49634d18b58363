// Package request turns a raw request URI into the input of the resize usecase.
package request

import (
	"errors"
	"strings"

	"github.com/andreyxaxa/miniaturs/internal/dto"
	"github.com/andreyxaxa/miniaturs/pkg/signature"
)

const metaSegment = "meta"

var ErrMalformedPath = errors.New("path does not match /{signature}/[meta/]{size}/{url}")

// ParseResize reads the signature, size and source url from the raw request URI. The
// URI is used undecoded so the signed message matches what the signer saw.
func ParseResize(requestURI string, meta, stripEmptyQuery bool) (dto.ResizeInput, error) {
	path, rawQuery, hasQuery := strings.Cut(requestURI, "?")

	rest, ok := strings.CutPrefix(path, "/")
	if !ok {
		return dto.ResizeInput{}, ErrMalformedPath
	}

	sig, rest, ok := strings.Cut(rest, "/")
	if !ok || sig == "" {
		return dto.ResizeInput{}, ErrMalformedPath
	}

	if meta {
		rest, ok = strings.CutPrefix(rest, metaSegment+"/")
		if !ok {
			return dto.ResizeInput{}, ErrMalformedPath
		}
	}

	size, url, ok := strings.Cut(rest, "/")
	if !ok {
		return dto.ResizeInput{}, ErrMalformedPath
	}

	if hasQuery && strings.TrimSpace(rawQuery) != "" {
		url += "?" + rawQuery
	}

	return dto.ResizeInput{
		Signature:    sig,
		PathAndQuery: signature.CanonicalPathAndQuery(path, rawQuery, hasQuery, stripEmptyQuery),
		Size:         size,
		URL:          url,
	}, nil
}
