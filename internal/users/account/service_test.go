// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/advisor/internal/platform/apperr"
	"github.com/taibuivan/advisor/internal/platform/sec"
	"github.com/taibuivan/advisor/internal/users/account"
	"github.com/taibuivan/advisor/internal/users/auth"
	"github.com/taibuivan/advisor/internal/users/auth/authtest"
)

const (
	memberID       = "0b8e3c4a-6f2d-4e7a-9a51-3d2c1b0a9f11"
	adminID        = "7c1d2e3f-4a5b-4c6d-8e7f-9a0b1c2d3e4f"
	disabledID     = "5e6f7a8b-9c0d-4e1f-a2b3-c4d5e6f7a8b9"
	memberPassword = "Passw0rd!"
	resetOrigin    = "https://www.example.com/reset?token="
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time              { return c.now }
func (c *clock) Advance(delta time.Duration) { c.now = c.now.Add(delta) }

type fixture struct {
	clock      *clock
	identities *authtest.IdentityStore
	tempTokens *authtest.TempTokenStore
	mailer     *authtest.Mailer
	tokens     *auth.TokenService
	service    *account.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, err := sec.NewSigningKeyFromBytes(bytes.Repeat([]byte("k"), 64))
	require.NoError(t, err)

	hash, err := sec.HashPassword(memberPassword)
	require.NoError(t, err)

	seed := func(id, email, name, mobile string, enabled bool, authorities ...sec.Authority) *auth.Identity {
		return &auth.Identity{
			ID:           id,
			Email:        email,
			PasswordHash: hash,
			Name:         name,
			Mobile:       mobile,
			Enabled:      enabled,
			Authorities:  authorities,
		}
	}

	c := &clock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	identities := authtest.NewIdentityStore(
		seed(memberID, "member@example.com", "Kim Member", "01012345678", true),
		seed(adminID, "admin@example.com", "Lee Admin", "01087654321", true, sec.AuthorityUser, sec.AuthorityAdmin),
		seed(disabledID, "disabled@example.com", "Park Disabled", "0211112222", false),
	)
	tempTokens := authtest.NewTempTokenStore()
	mailer := &authtest.Mailer{}

	resolver := auth.NewResolver(identities)
	tokens := auth.NewTokenService(sec.NewCodec(key, time.Hour, sec.WithClock(c.Now)), resolver)
	tempTokenService := auth.NewTempTokenService(identities, tempTokens, mailer, auth.WithTempTokenClock(c.Now))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		clock:      c,
		identities: identities,
		tempTokens: tempTokens,
		mailer:     mailer,
		tokens:     tokens,
		service:    account.NewService(identities, resolver, tokens, tempTokenService, logger),
	}
}

func validJoin() account.RegisterInput {
	return account.RegisterInput{
		Email:           "  New.Member@Example.com ",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
		Name:            "Choi New",
		Mobile:          "01055556666",
		RequiredTerms:   true,
		OptionalTerms:   []string{"marketing"},
	}
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an AppError, got %v", err)
	return appError.Code
}

/*
TestService_Register verifies a new member gets the default authority and a usable token.
*/
func TestService_Register(t *testing.T) {
	fixture := newFixture(t)

	session, err := fixture.service.Register(context.Background(), validJoin())
	require.NoError(t, err)

	assert.Equal(t, "new.member@example.com", session.Identity.Email)
	assert.Equal(t, []sec.Authority{sec.AuthorityUser}, session.Identity.Authorities)
	assert.NotEqual(t, "s3cret-pass", session.Identity.PasswordHash)

	principal, err := fixture.tokens.Authenticate(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "new.member@example.com", principal.Subject)
	assert.Equal(t, []sec.Authority{sec.AuthorityUser}, principal.Authorities)

	stored, err := fixture.identities.FindByEmail(context.Background(), "new.member@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"marketing"}, stored.OptionalTerms)
}

/*
TestService_Register_Rejections covers duplicate emails and invalid forms.
*/
func TestService_Register_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*account.RegisterInput)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "duplicate_email",
			mutate: func(input *account.RegisterInput) { input.Email = "MEMBER@example.com" },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, auth.ErrIdentityExists)
			},
		},
		{
			name:   "password_mismatch",
			mutate: func(input *account.RegisterInput) { input.ConfirmPassword = "other-pass" },
			check: func(t *testing.T, err error) {
				assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
			},
		},
		{
			name:   "terms_not_accepted",
			mutate: func(input *account.RegisterInput) { input.RequiredTerms = false },
			check: func(t *testing.T, err error) {
				assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
			},
		},
		{
			name:   "password_over_bcrypt_limit",
			mutate: func(input *account.RegisterInput) {
				input.Password = strings.Repeat("a", 73)
				input.ConfirmPassword = input.Password
			},
			check: func(t *testing.T, err error) {
				assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newFixture(t)
			input := validJoin()
			tt.mutate(&input)

			_, err := fixture.service.Register(context.Background(), input)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

/*
TestService_Login covers credential checks and the disabled flag.
*/
func TestService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"success", "Member@Example.com", memberPassword, nil},
		{"wrong_password", "member@example.com", "Passw0rd?", account.ErrLoginFailed},
		{"unknown_email", "ghost@example.com", memberPassword, account.ErrLoginFailed},
		{"disabled", "disabled@example.com", memberPassword, account.ErrMemberDisabled},
		{"disabled_wrong_password", "disabled@example.com", "nope-nope", account.ErrLoginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := newFixture(t)

			session, err := fixture.service.Login(context.Background(), account.LoginInput{
				Email:    tt.email,
				Password: tt.password,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			principal, err := fixture.tokens.Authenticate(session.Token)
			require.NoError(t, err)
			assert.Equal(t, "member@example.com", principal.Subject)
			assert.Equal(t, []sec.Authority{sec.AuthorityUser}, principal.Authorities)
		})
	}
}

/*
TestService_Refresh verifies refresh issues a token re-reading stored authorities,
and refuses expired tokens.
*/
func TestService_Refresh(t *testing.T) {
	fixture := newFixture(t)
	ctx := context.Background()

	session, err := fixture.service.Login(ctx, account.LoginInput{Email: "member@example.com", Password: memberPassword})
	require.NoError(t, err)

	require.NoError(t, fixture.identities.ReplaceAuthorities(ctx, memberID, []sec.Authority{sec.AuthorityModerator}))

	fixture.clock.Advance(time.Minute)
	refreshed, err := fixture.service.Refresh(ctx, session.Token)
	require.NoError(t, err)

	principal, err := fixture.tokens.Authenticate(refreshed)
	require.NoError(t, err)
	assert.Equal(t, []sec.Authority{sec.AuthorityModerator}, principal.Authorities)

	fixture.clock.Advance(time.Hour)
	_, err = fixture.service.Refresh(ctx, refreshed)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestService_PasswordReset walks the mailed-link flow end to end.
*/
func TestService_PasswordReset(t *testing.T) {
	fixture := newFixture(t)
	ctx := context.Background()

	err := fixture.service.RequestPasswordReset(ctx, account.PasswordResetInput{
		Name:    "Kim Member",
		Mobile:  "01012345678",
		Origin:  resetOrigin,
		Subject: "Password change instructions",
	})
	require.NoError(t, err)

	sent := fixture.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "member@example.com", sent[0].To)
	assert.Equal(t, "Password change instructions", sent[0].Subject)
	require.True(t, strings.HasPrefix(sent[0].Content, resetOrigin))
	token := strings.TrimPrefix(sent[0].Content, resetOrigin)

	change := account.ChangePasswordInput{Token: token, Password: "n3w-Passw0rd", ConfirmPassword: "n3w-Passw0rd"}
	fixture.clock.Advance(time.Minute)
	require.NoError(t, fixture.service.ChangePassword(ctx, change))

	_, err = fixture.service.Login(ctx, account.LoginInput{Email: "member@example.com", Password: memberPassword})
	assert.ErrorIs(t, err, account.ErrLoginFailed)

	_, err = fixture.service.Login(ctx, account.LoginInput{Email: "member@example.com", Password: "n3w-Passw0rd"})
	assert.NoError(t, err)

	// The token stays readable until it expires.
	assert.NoError(t, fixture.service.ChangePassword(ctx, change))

	fixture.clock.Advance(2 * time.Minute)
	assert.ErrorIs(t, fixture.service.ChangePassword(ctx, change), auth.ErrTempTokenExpired)
}

/*
TestService_ChangePassword_Rejections covers unknown tokens, foreign actions and weak passwords.
*/
func TestService_ChangePassword_Rejections(t *testing.T) {
	fixture := newFixture(t)
	ctx := context.Background()

	require.NoError(t, fixture.tempTokens.Save(ctx, &auth.TempToken{
		Token:      "verify-token",
		IdentityID: memberID,
		Email:      "member@example.com",
		Action:     auth.Action("EMAIL_VERIFY"),
		Origin:     resetOrigin,
		CreatedAt:  fixture.clock.now,
		ExpiresAt:  fixture.clock.now.Add(3 * time.Minute),
	}))

	err := fixture.service.ChangePassword(ctx, account.ChangePasswordInput{
		Token: "verify-token", Password: "n3w-Passw0rd", ConfirmPassword: "n3w-Passw0rd",
	})
	assert.ErrorIs(t, err, auth.ErrTempTokenNotFound)

	err = fixture.service.ChangePassword(ctx, account.ChangePasswordInput{
		Token: "missing", Password: "n3w-Passw0rd", ConfirmPassword: "n3w-Passw0rd",
	})
	assert.ErrorIs(t, err, auth.ErrTempTokenNotFound)

	err = fixture.service.ChangePassword(ctx, account.ChangePasswordInput{
		Token: "verify-token", Password: "onlyletters", ConfirmPassword: "onlyletters",
	})
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}

/*
TestService_FindEmail verifies the lookup by name and mobile returns a masked address.
*/
func TestService_FindEmail(t *testing.T) {
	fixture := newFixture(t)

	email, err := fixture.service.FindEmail(context.Background(), " Kim Member ", "01012345678")
	require.NoError(t, err)
	assert.Equal(t, "me****@example.com", email)

	_, err = fixture.service.FindEmail(context.Background(), "Kim Member", "01000000000")
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
}

/*
TestService_UpdateAuthorities verifies the closed authority set and first-seen order.
*/
func TestService_UpdateAuthorities(t *testing.T) {
	fixture := newFixture(t)
	ctx := context.Background()

	identity, err := fixture.service.UpdateAuthorities(ctx, memberID, []string{"MODERATOR", "USER", "MODERATOR"})
	require.NoError(t, err)
	assert.Equal(t, []sec.Authority{sec.AuthorityModerator, sec.AuthorityUser}, identity.Authorities)

	_, err = fixture.service.UpdateAuthorities(ctx, memberID, []string{"USER", "ROOT"})
	assert.Equal(t, "INVALID_AUTHORITY", appCode(t, err))

	_, err = fixture.service.UpdateAuthorities(ctx, memberID, nil)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}

/*
TestMaskEmail verifies only the first two characters of the local part stay visible.
*/
func TestMaskEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"member@example.com", "me****@example.com"},
		{"ab@example.com", "ab@example.com"},
		{"a@example.com", "a@example.com"},
		{"not-an-email", "not-an-email"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, account.MaskEmail(tt.email), tt.email)
	}
}
