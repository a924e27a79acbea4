// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// minKeyBytes is the smallest HMAC key accepted for HS512 (512 bits).
const minKeyBytes = 64

// SigningKey holds the symmetric key material used to sign session tokens.
//
// # Concurrency
//
// A SigningKey is built once at startup and never mutated, so it is shared by
// every request goroutine without locking.
type SigningKey struct {
	material []byte
}

// NewSigningKey decodes a base64 secret into a [SigningKey].
// Both standard and URL-safe alphabets are accepted, with or without padding.
func NewSigningKey(encoded string) (*SigningKey, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, errors.New("sec: signing secret is empty")
	}

	material, err := decodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("sec: signing secret is not valid base64: %w", err)
	}

	return NewSigningKeyFromBytes(material)
}

// NewSigningKeyFromBytes wraps raw key material, copying it.
func NewSigningKeyFromBytes(material []byte) (*SigningKey, error) {
	if len(material) < minKeyBytes {
		return nil, fmt.Errorf("sec: signing key must be at least %d bytes, got %d", minKeyBytes, len(material))
	}

	return &SigningKey{material: append([]byte(nil), material...)}, nil
}

// bytes exposes the key material to the codec only.
func (k *SigningKey) bytes() []byte {
	return k.material
}

// String never reveals key material.
func (k *SigningKey) String() string {
	return "[REDACTED]"
}

func decodeBase64(encoded string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}

	var lastErr error
	for _, encoding := range encodings {
		material, err := encoding.DecodeString(encoded)
		if err == nil {
			return material, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
