// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package authtest provides in-memory repositories for tests of packages that
// depend on auth.
package authtest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/taibuivan/advisor/internal/platform/sec"
	"github.com/taibuivan/advisor/internal/users/auth"
)

// # Identities

// IdentityStore is a concurrency-safe in-memory [auth.IdentityRepository].
type IdentityStore struct {
	mu         sync.Mutex
	identities map[string]*auth.Identity
}

// NewIdentityStore returns a store seeded with identities.
func NewIdentityStore(identities ...*auth.Identity) *IdentityStore {
	store := &IdentityStore{identities: make(map[string]*auth.Identity)}
	for _, identity := range identities {
		store.identities[identity.ID] = clone(identity)
	}
	return store
}

func (store *IdentityStore) FindByEmail(_ context.Context, email string) (*auth.Identity, error) {
	return store.find(func(identity *auth.Identity) bool { return identity.Email == email })
}

func (store *IdentityStore) FindByID(_ context.Context, id string) (*auth.Identity, error) {
	return store.find(func(identity *auth.Identity) bool { return identity.ID == id })
}

func (store *IdentityStore) FindByNameAndMobile(_ context.Context, name, mobile string) (*auth.Identity, error) {
	return store.find(func(identity *auth.Identity) bool {
		return identity.Name == name && identity.Mobile == mobile
	})
}

func (store *IdentityStore) Create(_ context.Context, identity *auth.Identity) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, existing := range store.identities {
		if existing.Email == identity.Email {
			return auth.ErrIdentityExists
		}
	}
	store.identities[identity.ID] = clone(identity)
	return nil
}

func (store *IdentityStore) UpdatePassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	return store.update(id, func(identity *auth.Identity) {
		identity.PasswordHash = passwordHash
		identity.CredentialChangedAt = changedAt
	})
}

func (store *IdentityStore) ReplaceAuthorities(_ context.Context, id string, authorities []sec.Authority) error {
	return store.update(id, func(identity *auth.Identity) {
		identity.Authorities = slices.Clone(authorities)
	})
}

func (store *IdentityStore) find(match func(*auth.Identity) bool) (*auth.Identity, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, identity := range store.identities {
		if match(identity) {
			return clone(identity), nil
		}
	}
	return nil, auth.ErrIdentityNotFound
}

func (store *IdentityStore) update(id string, mutate func(*auth.Identity)) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	identity, ok := store.identities[id]
	if !ok {
		return auth.ErrIdentityNotFound
	}
	mutate(identity)
	return nil
}

func clone(identity *auth.Identity) *auth.Identity {
	copied := *identity
	copied.Authorities = slices.Clone(identity.Authorities)
	copied.OptionalTerms = slices.Clone(identity.OptionalTerms)
	return &copied
}

// # Temporary Tokens

// TempTokenStore is a concurrency-safe in-memory [auth.TempTokenRepository].
// Records are never evicted.
type TempTokenStore struct {
	mu     sync.Mutex
	tokens map[string]auth.TempToken
}

// NewTempTokenStore returns an empty store.
func NewTempTokenStore() *TempTokenStore {
	return &TempTokenStore{tokens: make(map[string]auth.TempToken)}
}

func (store *TempTokenStore) Save(_ context.Context, token *auth.TempToken) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.tokens[token.Token] = *token
	return nil
}

func (store *TempTokenStore) Find(_ context.Context, token string) (*auth.TempToken, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record, ok := store.tokens[token]
	if !ok {
		return nil, auth.ErrTempTokenNotFound
	}
	return &record, nil
}

// Len reports how many records the store holds.
func (store *TempTokenStore) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.tokens)
}

// # Mail

// Mailer records every template mail it is asked to send.
type Mailer struct {
	mu   sync.Mutex
	sent []auth.TemplateMail
	Err  error
}

func (mailer *Mailer) SendTemplate(_ context.Context, mail auth.TemplateMail) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()

	if mailer.Err != nil {
		return mailer.Err
	}
	mailer.sent = append(mailer.sent, mail)
	return nil
}

// Sent returns a copy of the mails sent so far.
func (mailer *Mailer) Sent() []auth.TemplateMail {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	return slices.Clone(mailer.sent)
}
