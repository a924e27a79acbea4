// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/taibuivan/advisor/internal/platform/constants"
	"github.com/taibuivan/advisor/internal/platform/sec"
)

// # Contracts

// PrincipalLoader resolves an identity key to a fresh principal.
type PrincipalLoader interface {
	LoadPrincipal(context context.Context, email string) (*sec.Principal, error)
}

// # Token Service

// TokenService creates, validates, authenticates and refreshes session tokens.
//
// Validation and authentication are CPU-only: claims inside a valid token are
// trusted until expiry and no store is consulted. Creation and refresh read the
// identity so that new tokens carry current authorities.
type TokenService struct {
	codec     *sec.Codec
	principal PrincipalLoader
}

// NewTokenService constructs a [TokenService].
func NewTokenService(codec *sec.Codec, principal PrincipalLoader) *TokenService {
	return &TokenService{codec: codec, principal: principal}
}

// Validity returns how long issued tokens stay valid.
func (service *TokenService) Validity() time.Duration {
	return service.codec.Validity()
}

/*
CreateToken resolves email and signs a token carrying its authorities.

Returns:
  - string: Signed token
  - error: ErrIdentityNotFound or signing failures
*/
func (service *TokenService) CreateToken(context context.Context, email string) (string, error) {
	principal, err := service.principal.LoadPrincipal(context, email)
	if err != nil {
		return "", fmt.Errorf("token_create_failed: %w", err)
	}
	return service.IssueFor(principal)
}

// IssueFor signs a token for an already resolved principal.
func (service *TokenService) IssueFor(principal *sec.Principal) (string, error) {
	token, err := service.codec.Encode(principal.Subject, principal.Authorities)
	if err != nil {
		return "", fmt.Errorf("token_sign_failed: %w", err)
	}
	return token, nil
}

// ValidateToken checks signature, algorithm and expiry.
// The error, if any, is a [*sec.TokenError].
func (service *TokenService) ValidateToken(token string) error {
	_, err := service.Authenticate(token)
	return err
}

/*
Authenticate decodes a valid token into a [sec.Principal].

An unknown authority inside an otherwise valid token is reported as a
[sec.TokenUnknown] error.
*/
func (service *TokenService) Authenticate(token string) (*sec.Principal, error) {
	claims, err := service.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	principal, err := claims.Principal()
	if err != nil {
		return nil, &sec.TokenError{Kind: sec.TokenUnknown, Cause: err}
	}

	return principal, nil
}

/*
AuthenticateHeader authenticates the bearer token in header.

Returns:
  - nil, nil: No Authorization header, or a non-bearer scheme
  - *sec.Principal: The authenticated caller
  - error: [*sec.TokenError]
*/
func (service *TokenService) AuthenticateHeader(header http.Header) (*sec.Principal, error) {
	token, ok := sec.BearerToken(header.Get(constants.HeaderAuthorization))
	if !ok {
		return nil, nil
	}
	return service.Authenticate(token)
}

/*
RefreshToken validates token and issues a new one for its subject.

Authorities are re-read from the identity store.

Returns:
  - string: New token
  - error: [*sec.TokenError] for an invalid input token, ErrIdentityNotFound if the subject is gone
*/
func (service *TokenService) RefreshToken(context context.Context, token string) (string, error) {
	principal, err := service.Authenticate(token)
	if err != nil {
		return "", err
	}
	return service.CreateToken(context, principal.Subject)
}
