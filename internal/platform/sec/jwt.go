// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing, the
// authority set) from the domain logic. The [Codec] is pure: it never touches
// storage, so it can run on every request without blocking.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Claims

// TokenClaims is the payload embedded inside a session token.
//
// Authorities travel as one "||"-joined string rather than a JSON array so
// that tokens stay compatible with those already issued.
type TokenClaims struct {
	jwt.RegisteredClaims

	Authorities string `json:"authorities"`
}

// Principal materializes the claims into a [Principal], validating every authority.
func (c *TokenClaims) Principal() (*Principal, error) {
	authorities, err := SplitAuthorities(c.Authorities)
	if err != nil {
		return nil, err
	}

	return &Principal{
		Subject:     c.Subject,
		Authorities: authorities,
	}, nil
}

// # Token Errors

// TokenErrorKind classifies why a token was rejected.
type TokenErrorKind int

const (
	TokenUnknown TokenErrorKind = iota
	TokenMalformed
	TokenExpired
	TokenUnsupported
)

// String returns the kind as used in logs.
func (k TokenErrorKind) String() string {
	switch k {
	case TokenMalformed:
		return "malformed"
	case TokenExpired:
		return "expired"
	case TokenUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// MessageCode returns the message catalog key describing the kind.
func (k TokenErrorKind) MessageCode() string {
	switch k {
	case TokenMalformed:
		return "JWT.malformed"
	case TokenExpired:
		return "JWT.expired"
	case TokenUnsupported:
		return "JWT.unsupported"
	default:
		return "JWT.error"
	}
}

// ErrorCode returns the machine-readable code sent to clients.
func (k TokenErrorKind) ErrorCode() string {
	switch k {
	case TokenMalformed:
		return "TOKEN_MALFORMED"
	case TokenExpired:
		return "TOKEN_EXPIRED"
	case TokenUnsupported:
		return "TOKEN_UNSUPPORTED"
	default:
		return "TOKEN_INVALID"
	}
}

// TokenError is the only error returned by token validation.
type TokenError struct {
	Kind  TokenErrorKind
	Cause error
}

// Sentinels for errors.Is matching on kind alone.
var (
	ErrTokenMalformed   = &TokenError{Kind: TokenMalformed}
	ErrTokenExpired     = &TokenError{Kind: TokenExpired}
	ErrTokenUnsupported = &TokenError{Kind: TokenUnsupported}
	ErrTokenUnknown     = &TokenError{Kind: TokenUnknown}
)

func (e *TokenError) Error() string {
	if e.Cause == nil {
		return "token " + e.Kind.String()
	}
	return "token " + e.Kind.String() + ": " + e.Cause.Error()
}

func (e *TokenError) Unwrap() error { return e.Cause }

// Is matches any *TokenError of the same kind.
func (e *TokenError) Is(target error) bool {
	var other *TokenError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// AsTokenError extracts the [*TokenError] from err's chain, or nil.
func AsTokenError(err error) *TokenError {
	var tokenErr *TokenError
	if errors.As(err, &tokenErr) {
		return tokenErr
	}
	return nil
}

var (
	errUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	errMissingSubject       = errors.New("token has no subject")
)

// # Codec

// Codec signs and verifies session tokens with HS512.
type Codec struct {
	key      *SigningKey
	validity time.Duration
	now      func() time.Time
}

// CodecOption customizes a [Codec].
type CodecOption func(*Codec)

// WithClock replaces the wall clock used for iat/exp and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec creates a [Codec] issuing tokens valid for validity.
func NewCodec(key *SigningKey, validity time.Duration, options ...CodecOption) *Codec {
	codec := &Codec{
		key:      key,
		validity: validity,
		now:      time.Now,
	}
	for _, option := range options {
		option(codec)
	}
	return codec
}

// Validity returns the configured token lifetime.
func (c *Codec) Validity() time.Duration {
	return c.validity
}

// Encode signs a token for subject carrying authorities.
// expires-at is exactly issued-at plus the validity window.
func (c *Codec) Encode(subject string, authorities []Authority) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("sec: failed to sign token: %w", errMissingSubject)
	}

	issuedAt := c.now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.validity)),
		},
		Authorities: JoinAuthorities(authorities),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signedToken, err := token.SignedString(c.key.bytes())
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Decode verifies the signature and expiry of tokenString and returns its claims.
// Every failure is a [*TokenError].
//
// Segments are decoded strictly: a signature whose unused trailing bits differ
// from the issued one is rejected even though it carries the same MAC.
func (c *Codec) Decode(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, c.keyFunc,
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, &TokenError{Kind: TokenUnknown, Cause: errors.New("token claims could not be decoded")}
	}

	if claims.Subject == "" {
		return nil, &TokenError{Kind: TokenMalformed, Cause: errMissingSubject}
	}

	return claims, nil
}

func (c *Codec) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS512.Alg() {
		return nil, fmt.Errorf("%w: %v", errUnsupportedAlgorithm, token.Header["alg"])
	}
	return c.key.bytes(), nil
}

// classify maps jwt parse failures onto the four token error kinds.
func classify(err error) *TokenError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return &TokenError{Kind: TokenExpired, Cause: err}
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return &TokenError{Kind: TokenMalformed, Cause: err}
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return &TokenError{Kind: TokenUnsupported, Cause: err}
	default:
		return &TokenError{Kind: TokenUnknown, Cause: err}
	}
}
