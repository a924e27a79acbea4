// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/advisor/internal/platform/sec"
)

// # Identity Resolution

// Resolver maps an identity key (email) to an [Identity] and its [sec.Principal].
type Resolver struct {
	identities IdentityRepository
}

// NewResolver constructs a [Resolver] over identities.
func NewResolver(identities IdentityRepository) *Resolver {
	return &Resolver{identities: identities}
}

// WithDefaultAuthority is the default-authority policy: an empty authority set
// becomes exactly {USER}. Non-empty sets are returned unchanged.
//
// It is applied both when an identity is registered and when one is resolved.
func WithDefaultAuthority(authorities []sec.Authority) []sec.Authority {
	if len(authorities) == 0 {
		return []sec.Authority{sec.AuthorityUser}
	}
	return authorities
}

/*
FindIdentity loads the identity for email with the default-authority policy applied.

The policy only changes the returned value; nothing is written back.

Returns:
  - *Identity: Identity with at least one authority
  - error: ErrIdentityNotFound or storage failures
*/
func (resolver *Resolver) FindIdentity(context context.Context, email string) (*Identity, error) {
	identity, err := resolver.identities.FindByEmail(context, email)
	if err != nil {
		return nil, fmt.Errorf("resolver_find_identity_failed: %w", err)
	}

	identity.Authorities = WithDefaultAuthority(identity.Authorities)
	return identity, nil
}

/*
LoadPrincipal resolves email into a [sec.Principal].

Returns:
  - *sec.Principal: Subject and authorities
  - error: ErrIdentityNotFound or storage failures
*/
func (resolver *Resolver) LoadPrincipal(context context.Context, email string) (*sec.Principal, error) {
	identity, err := resolver.FindIdentity(context, email)
	if err != nil {
		return nil, err
	}
	return identity.Principal(), nil
}
