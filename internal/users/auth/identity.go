// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements member identity and token authentication.

It resolves identities and their authorities, mints and verifies session
tokens through [sec.Codec], and manages short-lived temporary tokens used by
the password reset flow.

# Architecture

  - Resolver: email to Identity and Principal, applying the default authority policy.
  - TokenService: create, validate, authenticate and refresh session tokens.
  - TempTokenService: issue and read reset tokens, mail the reset link.
  - Repositories: Postgres for identities, Postgres or Redis for temporary tokens.
*/
package auth

import (
	"strings"
	"time"

	"github.com/taibuivan/advisor/internal/platform/constants"
	"github.com/taibuivan/advisor/internal/platform/sec"
	"github.com/taibuivan/advisor/pkg/slice"
)

// # Domain Entities

// Identity is a registered member as stored by the identity repository.
//
// The auth core only reads identities; registration and password changes are
// driven by the account package through [IdentityRepository].
type Identity struct {
	ID                  string          `json:"id"`
	Email               string          `json:"email"`
	PasswordHash        string          `json:"-"`
	Name                string          `json:"name"`
	Mobile              string          `json:"mobile"`
	Enabled             bool            `json:"enabled"`
	OptionalTerms       []string        `json:"optional_terms,omitempty"`
	Authorities         []sec.Authority `json:"authorities"`
	CredentialChangedAt time.Time       `json:"credential_changed_at"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Principal returns the request-scoped view of the identity.
func (identity *Identity) Principal() *sec.Principal {
	return &sec.Principal{
		Subject:     identity.Email,
		Authorities: identity.Authorities,
	}
}

// Action tags what a temporary token authorizes.
type Action string

const (
	ActionPasswordChange Action = "PASSWORD_CHANGE"
)

// TempToken is a short-lived, random token bound to one identity and action.
// It is never mutated after issuance.
type TempToken struct {
	Token      string    `json:"token"`
	IdentityID string    `json:"identity_id"`
	Email      string    `json:"email"`
	Action     Action    `json:"action"`
	Origin     string    `json:"origin"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// Expired reports whether the token is no longer usable at now.
// A token is expired at exactly its expiry instant.
func (token *TempToken) Expired(now time.Time) bool {
	return !now.Before(token.ExpiresAt)
}

// Link is the URL mailed to the member: origin and token concatenated as-is.
func (token *TempToken) Link() string {
	return token.Origin + token.Token
}

// # Terms Encoding

// JoinTerms stores optional terms as one "||"-delimited column.
func JoinTerms(terms []string) string {
	kept := slice.Filter(terms, func(term string) bool { return strings.TrimSpace(term) != "" })
	return strings.Join(kept, constants.AuthoritySeparator)
}

// SplitTerms is the inverse of [JoinTerms].
func SplitTerms(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, constants.AuthoritySeparator)
}

// # Field Identifiers

const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldName            = "name"
	FieldMobile          = "mobile"
	FieldRequiredTerms   = "requiredTerms"
	FieldOptionalTerms   = "optionalTerms"
	FieldToken           = "token"
	FieldOrigin          = "origin"
	FieldAuthorities     = "authorities"
)
