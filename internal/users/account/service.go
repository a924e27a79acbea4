// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/advisor/internal/platform/apperr"
	"github.com/taibuivan/advisor/internal/platform/message"
	"github.com/taibuivan/advisor/internal/platform/sec"
	"github.com/taibuivan/advisor/internal/platform/validate"
	"github.com/taibuivan/advisor/internal/users/auth"
	"github.com/taibuivan/advisor/pkg/uuid"
)

// # Service Layer

// Service orchestrates the member account flows.
type Service struct {
	identities auth.IdentityRepository
	resolver   *auth.Resolver
	tokens     *auth.TokenService
	tempTokens *auth.TempTokenService
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(
	identities auth.IdentityRepository,
	resolver *auth.Resolver,
	tokens *auth.TokenService,
	tempTokens *auth.TempTokenService,
	logger *slog.Logger,
) *Service {
	return &Service{
		identities: identities,
		resolver:   resolver,
		tokens:     tokens,
		tempTokens: tempTokens,
		logger:     logger,
		now:        time.Now,
	}
}

// # Registration

/*
Register validates the join form and persists a new member with the default authority.

Returns:
  - *Session: Token and the created identity
  - error: Validation errors, Conflict on duplicate email, or storage failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		MaxLen(auth.FieldEmail, input.Email, auth.MaxEmailLength).
		PasswordLength(auth.FieldPassword, input.Password, auth.MinPasswordLength, sec.MaxPasswordBytes).
		Equal(auth.FieldConfirmPassword, input.ConfirmPassword, input.Password, message.PasswordMismatch).
		Required(auth.FieldName, input.Name).
		MaxLen(auth.FieldName, input.Name, auth.MaxNameLength).
		Mobile(auth.FieldMobile, input.Mobile).
		True(auth.FieldRequiredTerms, input.RequiredTerms).
		Custom(auth.FieldOptionalTerms, len(input.OptionalTerms) > auth.MaxOptionalTerms, message.TooManyTerms)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_register_hash_failed: %w", err)
	}

	now := service.now()
	identity := &auth.Identity{
		ID:                  uuid.New(),
		Email:               input.Email,
		PasswordHash:        hashedPassword,
		Name:                input.Name,
		Mobile:              input.Mobile,
		Enabled:             true,
		OptionalTerms:       input.OptionalTerms,
		Authorities:         auth.WithDefaultAuthority(nil),
		CredentialChangedAt: now,
		CreatedAt:           now,
	}

	if err := service.identities.Create(context, identity); err != nil {
		return nil, fmt.Errorf("account_register_failed: %w", err)
	}

	token, err := service.tokens.IssueFor(identity.Principal())
	if err != nil {
		return nil, fmt.Errorf("account_register_token_failed: %w", err)
	}

	service.logger.InfoContext(context, "member_registered", slog.String("member_id", identity.ID))

	return &Session{Token: token, Identity: identity}, nil
}

// # Authentication

/*
Login checks the credentials and issues a session token.

Returns:
  - *Session: Token and identity
  - error: ErrLoginFailed, ErrMemberDisabled or storage failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	email := normalizeEmail(input.Email)

	validator := &validate.Validator{}
	if err := validator.Required(auth.FieldEmail, email).Required(auth.FieldPassword, input.Password).Err(); err != nil {
		return nil, err
	}

	identity, err := service.resolver.FindIdentity(context, email)
	if err != nil {
		if errors.Is(err, auth.ErrIdentityNotFound) {
			return nil, ErrLoginFailed
		}
		return nil, fmt.Errorf("account_login_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, identity.PasswordHash) {
		return nil, ErrLoginFailed
	}

	if !identity.Enabled {
		return nil, ErrMemberDisabled
	}

	token, err := service.tokens.CreateToken(context, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("account_login_token_failed: %w", err)
	}

	return &Session{Token: token, Identity: identity}, nil
}

/*
Me returns the identity of the authenticated principal.
*/
func (service *Service) Me(context context.Context, principal *sec.Principal) (*auth.Identity, error) {
	identity, err := service.resolver.FindIdentity(context, principal.Subject)
	if err != nil {
		return nil, fmt.Errorf("account_me_failed: %w", err)
	}
	return identity, nil
}

/*
Refresh exchanges a still-valid token for a new one.
*/
func (service *Service) Refresh(context context.Context, token string) (string, error) {
	refreshed, err := service.tokens.RefreshToken(context, token)
	if err != nil {
		return "", fmt.Errorf("account_refresh_failed: %w", err)
	}
	return refreshed, nil
}

// # Recovery

/*
FindEmail looks up the email registered with name and mobile, partially masked.
*/
func (service *Service) FindEmail(context context.Context, name, mobile string) (string, error) {
	name = strings.TrimSpace(name)

	validator := &validate.Validator{}
	if err := validator.Required(auth.FieldName, name).Mobile(auth.FieldMobile, mobile).Err(); err != nil {
		return "", err
	}

	identity, err := service.identities.FindByNameAndMobile(context, name, mobile)
	if err != nil {
		return "", fmt.Errorf("account_find_email_failed: %w", err)
	}

	return MaskEmail(identity.Email), nil
}

/*
RequestPasswordReset issues a PASSWORD_CHANGE token for the member matching
name and mobile and mails them the link.
*/
func (service *Service) RequestPasswordReset(context context.Context, input PasswordResetInput) error {
	input.Name = strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.
		Required(auth.FieldName, input.Name).
		Mobile(auth.FieldMobile, input.Mobile).
		Required(auth.FieldOrigin, input.Origin).
		MaxLen(auth.FieldOrigin, input.Origin, auth.MaxOriginLength)

	if err := validator.Err(); err != nil {
		return err
	}

	identity, err := service.identities.FindByNameAndMobile(context, input.Name, input.Mobile)
	if err != nil {
		return fmt.Errorf("account_password_reset_failed: %w", err)
	}

	token, err := service.tempTokens.Issue(context, identity.Email, auth.ActionPasswordChange, input.Origin)
	if err != nil {
		return fmt.Errorf("account_password_reset_failed: %w", err)
	}

	if err := service.tempTokens.SendEmail(context, token, input.Subject); err != nil {
		return fmt.Errorf("account_password_reset_failed: %w", err)
	}

	service.logger.InfoContext(context, "password_reset_link_sent", slog.String("member_id", identity.ID))
	return nil
}

/*
ChangePassword sets a new password using a PASSWORD_CHANGE token.

The token stays readable until it expires.

Returns:
  - error: auth.ErrTempTokenNotFound (also for tokens of another action),
    auth.ErrTempTokenExpired, validation errors or storage failures
*/
func (service *Service) ChangePassword(context context.Context, input ChangePasswordInput) error {
	validator := &validate.Validator{}
	validator.
		Required(auth.FieldToken, input.Token).
		PasswordLength(auth.FieldPassword, input.Password, auth.MinPasswordLength, sec.MaxPasswordBytes).
		PasswordComplexity(auth.FieldPassword, input.Password).
		Equal(auth.FieldConfirmPassword, input.ConfirmPassword, input.Password, message.PasswordMismatch)

	if err := validator.Err(); err != nil {
		return err
	}

	token, err := service.tempTokens.Get(context, input.Token)
	if err != nil {
		return fmt.Errorf("account_change_password_failed: %w", err)
	}

	if token.Action != auth.ActionPasswordChange {
		return fmt.Errorf("account_change_password_failed: %w", auth.ErrTempTokenNotFound)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return fmt.Errorf("account_change_password_hash_failed: %w", err)
	}

	if err := service.identities.UpdatePassword(context, token.IdentityID, hashedPassword, service.now()); err != nil {
		return fmt.Errorf("account_change_password_failed: %w", err)
	}

	service.logger.InfoContext(context, "password_changed", slog.String("member_id", token.IdentityID))
	return nil
}

// # Administration

/*
UpdateAuthorities replaces a member's authority set.

Every value must belong to the closed authority set; duplicates are dropped
keeping first-seen order.
*/
func (service *Service) UpdateAuthorities(context context.Context, memberID string, values []string) (*auth.Identity, error) {
	validator := &validate.Validator{}
	validator.
		UUID("id", memberID).
		Custom(auth.FieldAuthorities, len(values) == 0, message.AuthorityRequired)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	authorities, err := sec.ParseAuthorities(values)
	if err != nil {
		return nil, apperr.ValidationError(message.ValidationFailed, apperr.FieldError{
			Field:   auth.FieldAuthorities,
			Message: message.InvalidAuthority,
		}).WithCode(apperr.CodeInvalidAuthority).WithCause(err)
	}

	if err := service.identities.ReplaceAuthorities(context, memberID, authorities); err != nil {
		return nil, fmt.Errorf("account_update_authorities_failed: %w", err)
	}

	identity, err := service.identities.FindByID(context, memberID)
	if err != nil {
		return nil, fmt.Errorf("account_update_authorities_failed: %w", err)
	}

	service.logger.InfoContext(context, "member_authorities_updated",
		slog.String("member_id", memberID),
		slog.String("authorities", sec.JoinAuthorities(authorities)),
	)

	return identity, nil
}

/*
Member returns a member by ID for administrators.
*/
func (service *Service) Member(context context.Context, memberID string) (*auth.Identity, error) {
	validator := &validate.Validator{}
	if err := validator.UUID("id", memberID).Err(); err != nil {
		return nil, err
	}

	identity, err := service.identities.FindByID(context, memberID)
	if err != nil {
		return nil, fmt.Errorf("account_member_failed: %w", err)
	}
	identity.Authorities = auth.WithDefaultAuthority(identity.Authorities)
	return identity, nil
}

// # Helpers

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MaskEmail hides all but the first two characters of the local part.
func MaskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return email
	}

	visible := min(2, len(local))
	return local[:visible] + strings.Repeat("*", len(local)-visible) + "@" + domain
}
