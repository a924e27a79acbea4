// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taibuivan/advisor/internal/platform/constants"
	"github.com/taibuivan/advisor/pkg/slice"
)

// # Member Authorities

// Authority is a role drawn from a fixed, closed set. Values are case-sensitive.
type Authority string

const (
	// Default authority for every registered member
	AuthorityUser Authority = "USER"

	// Unrestricted administrative access
	AuthorityAdmin Authority = "ADMIN"

	// Can moderate community content
	AuthorityModerator Authority = "MODERATOR"
)

// ErrInvalidAuthority is returned when a role string is outside the closed set.
var ErrInvalidAuthority = errors.New("invalid authority")

// Authorities lists every known authority in declaration order.
func Authorities() []Authority {
	return []Authority{AuthorityUser, AuthorityAdmin, AuthorityModerator}
}

// # Parsing

// ParseAuthority validates value against the closed set.
func ParseAuthority(value string) (Authority, error) {
	switch authority := Authority(value); authority {
	case AuthorityUser, AuthorityAdmin, AuthorityModerator:
		return authority, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAuthority, value)
	}
}

// ParseAuthorities validates every value and drops duplicates, keeping first-seen order.
// The first unknown value aborts the whole list.
func ParseAuthorities(values []string) ([]Authority, error) {
	parsed := make([]Authority, 0, len(values))
	for _, value := range values {
		authority, err := ParseAuthority(value)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, authority)
	}
	return slice.Unique(parsed), nil
}

// # Transport Encoding

// JoinAuthorities renders authorities as the single "||"-delimited claim string.
func JoinAuthorities(authorities []Authority) string {
	parts := make([]string, len(authorities))
	for i, authority := range authorities {
		parts[i] = string(authority)
	}
	return strings.Join(parts, constants.AuthoritySeparator)
}

// SplitAuthorities parses a "||"-delimited claim string back into validated authorities.
// An empty claim yields an empty list.
func SplitAuthorities(claim string) ([]Authority, error) {
	if claim == "" {
		return []Authority{}, nil
	}
	return ParseAuthorities(strings.Split(claim, constants.AuthoritySeparator))
}

// # Bearer Header

// BearerToken extracts the token from an Authorization header value.
// It reports false when the header is empty or uses another scheme.
func BearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, constants.BearerScheme+" ")
	if !found {
		return "", false
	}
	return strings.TrimSpace(token), true
}
