// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/advisor/internal/platform/constants"
)

// # Contracts

// TemplateMail is a message rendered by the email collaborator's general template.
type TemplateMail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// Mailer delivers template mails.
type Mailer interface {
	SendTemplate(context context.Context, mail TemplateMail) error
}

// # Temporary Token Service

// TempTokenService issues and reads short-lived tokens for mail-driven flows.
//
// Reading a token does not consume it: a token stays usable until it expires.
type TempTokenService struct {
	identities IdentityRepository
	tokens     TempTokenRepository
	mailer     Mailer
	ttl        time.Duration
	now        func() time.Time
	generate   func() string
}

// TempTokenOption customizes a [TempTokenService].
type TempTokenOption func(*TempTokenService)

// WithTempTokenClock replaces the wall clock used for issuance and expiry checks.
func WithTempTokenClock(now func() time.Time) TempTokenOption {
	return func(service *TempTokenService) {
		service.now = now
	}
}

// WithTokenGenerator replaces the random token generator.
func WithTokenGenerator(generate func() string) TempTokenOption {
	return func(service *TempTokenService) {
		service.generate = generate
	}
}

// NewTempTokenService constructs a [TempTokenService] issuing tokens valid for
// [constants.TempTokenTTL].
func NewTempTokenService(identities IdentityRepository, tokens TempTokenRepository, mailer Mailer, options ...TempTokenOption) *TempTokenService {
	service := &TempTokenService{
		identities: identities,
		tokens:     tokens,
		mailer:     mailer,
		ttl:        constants.TempTokenTTL,
		now:        time.Now,
		generate:   uuid.NewString,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

/*
Issue creates and persists a token for the identity keyed by email.

Parameters:
  - context: context.Context
  - email: string (identity key)
  - action: Action the token authorizes
  - origin: string (prefix of the mailed link)

Returns:
  - *TempToken: The persisted token, expiring TempTokenTTL after issuance
  - error: ErrIdentityNotFound or storage failures
*/
func (service *TempTokenService) Issue(context context.Context, email string, action Action, origin string) (*TempToken, error) {
	identity, err := service.identities.FindByEmail(context, email)
	if err != nil {
		return nil, fmt.Errorf("temp_token_issue_failed: %w", err)
	}

	issuedAt := service.now()
	token := &TempToken{
		Token:      service.generate(),
		IdentityID: identity.ID,
		Email:      identity.Email,
		Action:     action,
		Origin:     origin,
		ExpiresAt:  issuedAt.Add(service.ttl),
		CreatedAt:  issuedAt,
	}

	if err := service.tokens.Save(context, token); err != nil {
		return nil, fmt.Errorf("temp_token_issue_failed: %w", err)
	}

	return token, nil
}

/*
Get returns the token if it exists and has not expired.

Expiry is checked on every read, even if the store still holds the record.

Returns:
  - *TempToken: Usable token
  - error: ErrTempTokenNotFound, ErrTempTokenExpired or storage failures
*/
func (service *TempTokenService) Get(context context.Context, tokenString string) (*TempToken, error) {
	if tokenString == "" {
		return nil, ErrTempTokenNotFound
	}

	token, err := service.tokens.Find(context, tokenString)
	if err != nil {
		return nil, fmt.Errorf("temp_token_get_failed: %w", err)
	}

	if token.Expired(service.now()) {
		return nil, ErrTempTokenExpired
	}

	return token, nil
}

/*
SendEmail mails the token link (origin followed by the token) to its owner.
*/
func (service *TempTokenService) SendEmail(context context.Context, token *TempToken, subject string) error {
	err := service.mailer.SendTemplate(context, TemplateMail{
		To:      token.Email,
		Subject: subject,
		Content: token.Link(),
	})
	if err != nil {
		return fmt.Errorf("temp_token_send_email_failed: %w", err)
	}
	return nil
}
