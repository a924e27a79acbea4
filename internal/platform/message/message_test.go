// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package message_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/advisor/internal/platform/message"
)

/*
TestCatalog_Lookup checks language negotiation and fallbacks.
*/
func TestCatalog_Lookup(t *testing.T) {
	catalog := message.NewCatalog()

	tests := []struct {
		name           string
		acceptLanguage string
		code           string
		want           string
	}{
		{"default_english", "", message.TokenExpired, "The token has expired."},
		{"korean", "ko-KR,ko;q=0.9", message.TokenExpired, "만료된 토큰입니다."},
		{"weighted_prefers_korean", "fr;q=0.2, ko;q=0.8", message.TempTokenExpired, "만료된 링크입니다. 다시 요청해 주세요."},
		{"unsupported_language", "de-DE", message.TokenMalformed, "The token is malformed or its signature is invalid."},
		{"garbage_header", ";;;", message.TokenError, "The token could not be verified."},
		{"unknown_code", "en", "Some.code", "Some.code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.Lookup(tt.acceptLanguage, tt.code))
		})
	}
}

/*
TestCatalog_Resolve reads the language from the request header.
*/
func TestCatalog_Resolve(t *testing.T) {
	catalog := message.NewCatalog()

	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set("Accept-Language", "ko")

	assert.Equal(t, "비밀번호 변경 안내입니다.", catalog.Resolve(request, message.SubjectPasswordChange))
}

/*
TestCatalog_EveryCodeTranslated verifies each code has distinct English and
Korean text, so no code falls back to itself.
*/
func TestCatalog_EveryCodeTranslated(t *testing.T) {
	catalog := message.NewCatalog()

	codes := []string{
		message.TokenMalformed, message.TokenExpired, message.TokenUnsupported, message.TokenError,
		message.AuthenticationRequired, message.InsufficientAuthority, message.InvalidAuthority,
		message.LoginFailed, message.MemberDisabled, message.MemberNotFound, message.MemberDuplicated,
		message.TempTokenNotFound, message.TempTokenExpired, message.AuthorityRequired, message.TooManyTerms,
		message.PasswordSize, message.PasswordComplexity, message.PasswordMismatch, message.PasswordChanged,
		message.ResetLinkSent, message.SubjectPasswordChange,
		message.ValidationFailed, message.InvalidJSON, message.FieldRequired, message.FieldAccepted,
		message.FieldTooLong, message.InvalidEmail, message.InvalidMobile, message.InvalidID,
	}

	for _, code := range codes {
		english := catalog.Lookup("en", code)
		korean := catalog.Lookup("ko", code)

		assert.NotEqual(t, code, english, code)
		assert.NotEqual(t, code, korean, code)
		assert.NotEqual(t, english, korean, code)
	}
}
