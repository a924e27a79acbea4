// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Password Constraints

const (
	// MinPasswordLength applies to registration and password change.
	MinPasswordLength = 8

	// MaxNameLength bounds the display name stored with an identity.
	MaxNameLength = 40

	// MaxOptionalTerms bounds how many optional terms a member may accept.
	MaxOptionalTerms = 10
)

// # Column Limits

const (
	// MaxEmailLength matches member.account.email.
	MaxEmailLength = 320

	// MaxOriginLength matches member.temp_token.origin.
	MaxOriginLength = 2048
)
