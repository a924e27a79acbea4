// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level rule failures from service inputs and
// folds them into one VALIDATION_ERROR.
//
// Rules run in call order and never short-circuit, so a client sees every
// broken field of a form in a single response. Failure messages are
// [message] codes; handlers resolve them for the request's language.
package validate

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/taibuivan/advisor/internal/platform/apperr"
	"github.com/taibuivan/advisor/internal/platform/message"
)

// ErrInvalidJSON is returned when a request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError(message.InvalidJSON)

var mobilePattern = regexp.MustCompile(`^\d{10,11}$`)

// # Validator

// Validator accumulates failures. The zero value is ready to use; it is not
// safe for concurrent use.
type Validator struct {
	failures []apperr.FieldError
}

// Check records code against field unless ok holds.
func (v *Validator) Check(field string, ok bool, code string) *Validator {
	if !ok {
		v.failures = append(v.failures, apperr.FieldError{Field: field, Message: code})
	}
	return v
}

// Custom records code when failed is true.
func (v *Validator) Custom(field string, failed bool, code string) *Validator {
	return v.Check(field, !failed, code)
}

// Err folds the recorded failures into a validation [apperr.AppError], or nil.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError(message.ValidationFailed, v.failures...)
}

// HasErrors reports whether any rule failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.failures) > 0
}

// # Rules

func (v *Validator) Required(field, value string) *Validator {
	return v.Check(field, strings.TrimSpace(value) != "", message.FieldRequired)
}

// True is for mandatory agreements such as terms of service.
func (v *Validator) True(field string, value bool) *Validator {
	return v.Check(field, value, message.FieldAccepted)
}

// MaxLen counts characters, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.Check(field, utf8.RuneCountInString(value) <= max, message.FieldTooLong)
}

// Email accepts a bare RFC 5322 address; display names are rejected.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.Check(field, err == nil && address.Address == value, message.InvalidEmail)
}

// Mobile accepts 10 or 11 digits without separators.
func (v *Validator) Mobile(field, value string) *Validator {
	return v.Check(field, mobilePattern.MatchString(value), message.InvalidMobile)
}

func (v *Validator) UUID(field, value string) *Validator {
	return v.Check(field, uuid.Validate(value) == nil && len(value) == 36, message.InvalidID)
}

// Equal is for confirmation fields; code explains the mismatch.
func (v *Validator) Equal(field, value, other, code string) *Validator {
	return v.Check(field, value == other, code)
}

// PasswordLength requires at least minLength characters and at most maxBytes
// bytes, the latter being what bcrypt can hash.
func (v *Validator) PasswordLength(field, value string, minLength, maxBytes int) *Validator {
	return v.Check(field, utf8.RuneCountInString(value) >= minLength && len(value) <= maxBytes, message.PasswordSize)
}

// PasswordComplexity requires a letter, a digit and a symbol.
func (v *Validator) PasswordComplexity(field, value string) *Validator {
	return v.Check(field, IsComplexPassword(value), message.PasswordComplexity)
}

// IsComplexPassword reports whether password mixes letters, digits and at
// least one other non-space character.
func IsComplexPassword(password string) bool {
	var letters, digits, others int
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		case !unicode.IsSpace(r):
			others++
		}
	}
	return letters > 0 && digits > 0 && others > 0
}
