// Package signature signs and verifies request paths with an HMAC-SHA1 shared secret.
package signature

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"strings"
)

var (
	ErrBadSignature   = errors.New("bad signature received; it did not pass the check")
	ErrCouldNotUseKey = errors.New("the secret key could not be used")
)

// Sign returns the URL-safe base64 HMAC-SHA1 of message.
func Sign(secret, message string) (string, error) {
	mac, err := newMAC(secret)
	if err != nil {
		return "", err
	}

	mac.Write([]byte(message))

	return base64.URLEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify checks signature against pathAndQuery. A leading "/{signature}/" is stripped
// from pathAndQuery before hashing.
func Verify(secret, pathAndQuery, signature string) error {
	expected, err := decode(signature)
	if err != nil {
		return ErrBadSignature
	}

	message := strings.TrimPrefix(pathAndQuery, "/"+signature+"/")

	mac, err := newMAC(secret)
	if err != nil {
		return err
	}

	mac.Write([]byte(message))

	if !hmac.Equal(mac.Sum(nil), expected) {
		return ErrBadSignature
	}

	return nil
}

// CanonicalPathAndQuery rebuilds the signed message from a request. Some gateways turn a
// query-less request into one with a bare "?"; when stripEmptyQuery is set that "?" is dropped.
func CanonicalPathAndQuery(path, rawQuery string, hasQuery, stripEmptyQuery bool) string {
	if !hasQuery {
		return path
	}

	if strings.TrimSpace(rawQuery) == "" && stripEmptyQuery {
		return path
	}

	return path + "?" + rawQuery
}

func newMAC(secret string) (hash.Hash, error) {
	if secret == "" {
		return nil, fmt.Errorf("signature - newMAC: %w", ErrCouldNotUseKey)
	}

	return hmac.New(sha1.New, []byte(secret)), nil
}

func decode(signature string) ([]byte, error) {
	if b, err := base64.URLEncoding.DecodeString(signature); err == nil {
		return b, nil
	}

	return base64.RawURLEncoding.DecodeString(signature)
}
