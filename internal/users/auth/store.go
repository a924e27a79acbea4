// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/advisor/internal/platform/sec"
)

// # Identity Data Access

// IdentityRepository defines the data access contract for member identities.
//
// Lookups return [ErrIdentityNotFound] (wrapped) when nothing matches.
type IdentityRepository interface {

	/*
		FindByEmail returns the identity keyed by email, with its ordered authorities.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Identity: Hydrated entity
		  - error: ErrIdentityNotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*Identity, error)

	/*
		FindByID returns the identity with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Identity: Hydrated entity
		  - error: ErrIdentityNotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Identity, error)

	/*
		FindByNameAndMobile returns the identity registered with both name and mobile.

		Parameters:
		  - context: context.Context
		  - name: string
		  - mobile: string

		Returns:
		  - *Identity: Hydrated entity
		  - error: ErrIdentityNotFound or storage failures
	*/
	FindByNameAndMobile(context context.Context, name, mobile string) (*Identity, error)

	/*
		Create persists a new identity together with its authorities.

		Parameters:
		  - context: context.Context
		  - identity: *Identity

		Returns:
		  - error: ErrIdentityExists on duplicate email, or storage failures
	*/
	Create(context context.Context, identity *Identity) error

	/*
		UpdatePassword replaces the password hash and credential-changed timestamp.

		Parameters:
		  - context: context.Context
		  - id: string
		  - passwordHash: string
		  - changedAt: time.Time

		Returns:
		  - error: ErrIdentityNotFound or storage failures
	*/
	UpdatePassword(context context.Context, id, passwordHash string, changedAt time.Time) error

	/*
		ReplaceAuthorities swaps the whole authority set, keeping the given order.

		Parameters:
		  - context: context.Context
		  - id: string
		  - authorities: []sec.Authority

		Returns:
		  - error: ErrIdentityNotFound or storage failures
	*/
	ReplaceAuthorities(context context.Context, id string, authorities []sec.Authority) error
}

// # Temporary Token Data Access

// TempTokenRepository stores temporary tokens.
//
// Implementations may keep expired records; expiry is decided by [TempTokenService].
type TempTokenRepository interface {

	/*
		Save persists a freshly issued token.

		Parameters:
		  - context: context.Context
		  - token: *TempToken

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, token *TempToken) error

	/*
		Find returns the record for the token string.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *TempToken: Stored record, possibly expired
		  - error: ErrTempTokenNotFound or storage failures
	*/
	Find(context context.Context, token string) (*TempToken, error)
}
