// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package message resolves client-facing text from message codes.

Error kinds and mail subjects are identified by stable codes ("JWT.expired",
"Expired.tempToken"). The text is chosen per request from the Accept-Language
header using [language.Matcher]; English is the fallback.
*/
package message

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/taibuivan/advisor/internal/platform/constants"
)

// # Message Codes

const (
	TokenMalformed   = "JWT.malformed"
	TokenExpired     = "JWT.expired"
	TokenUnsupported = "JWT.unsupported"
	TokenError       = "JWT.error"

	AuthenticationRequired = "Required.authentication"
	InsufficientAuthority  = "Forbidden.authority"
	InvalidAuthority       = "Invalid.authority"
	LoginFailed            = "Failed.login"
	MemberDisabled         = "Disabled.member"
	MemberNotFound         = "NotFound.member"
	MemberDuplicated       = "Duplicated.email"
	TempTokenNotFound      = "NotFound.tempToken"
	TempTokenExpired       = "Expired.tempToken"
	AuthorityRequired      = "Required.authority"
	TooManyTerms           = "Size.optionalTerms"
	PasswordSize           = "Size.password"
	PasswordComplexity     = "Complexity.password"
	PasswordMismatch       = "Mismatch.confirmPassword"
	PasswordChanged        = "Changed.password"
	ResetLinkSent          = "Sent.resetLink"
	SubjectPasswordChange  = "Subject.passwordChange"
)

// Validation codes, recorded by the validate package and resolved by handlers.
const (
	ValidationFailed = "Invalid.request"
	InvalidJSON      = "Invalid.json"
	FieldRequired    = "Required.field"
	FieldAccepted    = "Accepted.field"
	FieldTooLong     = "Size.field"
	InvalidEmail     = "Invalid.email"
	InvalidMobile    = "Invalid.mobile"
	InvalidID        = "Invalid.id"
)

var english = map[string]string{
	TokenMalformed:   "The token is malformed or its signature is invalid.",
	TokenExpired:     "The token has expired.",
	TokenUnsupported: "The token type is not supported.",
	TokenError:       "The token could not be verified.",

	AuthenticationRequired: "Authentication required.",
	InsufficientAuthority:  "Insufficient permissions.",
	InvalidAuthority:       "Unknown authority.",
	LoginFailed:            "Invalid email or password.",
	MemberDisabled:         "This account is disabled.",
	MemberNotFound:         "Member not found.",
	MemberDuplicated:       "This email is already registered.",
	TempTokenNotFound:      "The link is invalid.",
	TempTokenExpired:       "The link has expired. Please request a new one.",
	AuthorityRequired:      "At least one authority is required.",
	TooManyTerms:           "Too many optional terms.",
	PasswordSize:           "Password must be at least 8 characters and at most 72 bytes.",
	PasswordComplexity:     "Password must contain letters, digits and special characters.",
	PasswordMismatch:       "Passwords do not match.",
	PasswordChanged:        "Password changed successfully.",
	ResetLinkSent:          "A password reset link has been sent to your email.",
	SubjectPasswordChange:  "Password change instructions",

	ValidationFailed: "Validation failed.",
	InvalidJSON:      "Invalid JSON payload.",
	FieldRequired:    "This field is required.",
	FieldAccepted:    "This field must be accepted.",
	FieldTooLong:     "This field is too long.",
	InvalidEmail:     "Must be a valid email address.",
	InvalidMobile:    "Must be 10 or 11 digits.",
	InvalidID:        "Must be a valid identifier.",
}

var korean = map[string]string{
	TokenMalformed:   "잘못된 형식의 토큰입니다.",
	TokenExpired:     "만료된 토큰입니다.",
	TokenUnsupported: "지원하지 않는 토큰입니다.",
	TokenError:       "토큰을 확인할 수 없습니다.",

	AuthenticationRequired: "로그인이 필요합니다.",
	InsufficientAuthority:  "권한이 없습니다.",
	InvalidAuthority:       "알 수 없는 권한입니다.",
	LoginFailed:            "이메일 또는 비밀번호가 일치하지 않습니다.",
	MemberDisabled:         "사용이 중지된 계정입니다.",
	MemberNotFound:         "회원을 찾을 수 없습니다.",
	MemberDuplicated:       "이미 가입된 이메일입니다.",
	TempTokenNotFound:      "유효하지 않은 링크입니다.",
	TempTokenExpired:       "만료된 링크입니다. 다시 요청해 주세요.",
	AuthorityRequired:      "권한을 하나 이상 지정해야 합니다.",
	TooManyTerms:           "선택 약관이 너무 많습니다.",
	PasswordSize:           "비밀번호는 8자 이상, 72바이트 이하여야 합니다.",
	PasswordComplexity:     "비밀번호는 알파벳, 숫자, 특수문자를 포함해야 합니다.",
	PasswordMismatch:       "비밀번호가 일치하지 않습니다.",
	PasswordChanged:        "비밀번호가 변경되었습니다.",
	ResetLinkSent:          "비밀번호 재설정 링크가 이메일로 전송되었습니다.",
	SubjectPasswordChange:  "비밀번호 변경 안내입니다.",

	ValidationFailed: "입력값을 확인해 주세요.",
	InvalidJSON:      "요청 형식이 올바르지 않습니다.",
	FieldRequired:    "필수 입력 항목입니다.",
	FieldAccepted:    "동의가 필요합니다.",
	FieldTooLong:     "입력값이 너무 깁니다.",
	InvalidEmail:     "올바른 이메일 주소가 아닙니다.",
	InvalidMobile:    "휴대폰 번호는 10~11자리 숫자여야 합니다.",
	InvalidID:        "올바른 식별자가 아닙니다.",
}

// # Catalog

// Catalog holds translated messages and picks the best language per request.
//
// A Catalog is immutable after [NewCatalog] and safe for concurrent use.
type Catalog struct {
	tags     []language.Tag
	matcher  language.Matcher
	messages map[language.Tag]map[string]string
}

// NewCatalog builds the catalog with English (default) and Korean texts.
func NewCatalog() *Catalog {
	tags := []language.Tag{language.English, language.Korean}

	return &Catalog{
		tags:    tags,
		matcher: language.NewMatcher(tags),
		messages: map[language.Tag]map[string]string{
			language.English: english,
			language.Korean:  korean,
		},
	}
}

// Lookup resolves code for an Accept-Language header value.
// Unknown codes are returned verbatim.
func (c *Catalog) Lookup(acceptLanguage, code string) string {
	tag := c.match(acceptLanguage)

	if text, ok := c.messages[tag][code]; ok {
		return text
	}
	if text, ok := c.messages[language.English][code]; ok {
		return text
	}
	return code
}

// Resolve resolves code using the request's Accept-Language header.
func (c *Catalog) Resolve(request *http.Request, code string) string {
	return c.Lookup(request.Header.Get(constants.HeaderAcceptLanguage), code)
}

func (c *Catalog) match(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return language.English
	}

	preferred, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(preferred) == 0 {
		return language.English
	}

	_, index, confidence := c.matcher.Match(preferred...)
	if confidence == language.No {
		return language.English
	}
	return c.tags[index]
}
