// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements the member-facing flows built on the auth core:
registration, login, profile lookup, token refresh, password reset by mail
and administrative authority changes.

# Architecture

  - Service: validates input and drives auth's repositories and token services.
  - Handler: chi routes, login cookies, and translation of domain errors into
    localized HTTP errors.
*/
package account

import (
	"errors"

	"github.com/taibuivan/advisor/internal/users/auth"
)

// # Inputs

// RegisterInput is the join form.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	Mobile          string
	RequiredTerms   bool
	OptionalTerms   []string
}

// LoginInput holds member credentials.
type LoginInput struct {
	Email    string
	Password string
}

// PasswordResetInput identifies the member asking for a reset link.
type PasswordResetInput struct {
	Name    string
	Mobile  string
	Origin  string
	Subject string
}

// ChangePasswordInput consumes a reset token.
type ChangePasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

// # Outputs

// Session is returned by registration and login.
type Session struct {
	Token    string         `json:"token"`
	Identity *auth.Identity `json:"member"`
}

// # Errors

var (
	// ErrLoginFailed hides whether the email or the password was wrong.
	ErrLoginFailed = errors.New("login failed")

	// ErrMemberDisabled is returned when a disabled member tries to log in.
	ErrMemberDisabled = errors.New("member disabled")
)
