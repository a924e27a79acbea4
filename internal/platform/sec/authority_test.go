// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/advisor/internal/platform/sec"
)

/*
TestParseAuthority checks the closed, case-sensitive authority set.
*/
func TestParseAuthority(t *testing.T) {
	tests := []struct {
		value   string
		isValid bool
	}{
		{"USER", true},
		{"ADMIN", true},
		{"MODERATOR", true},
		{"user", false},
		{"Admin", false},
		{"ROOT", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			authority, err := sec.ParseAuthority(tt.value)
			if tt.isValid {
				require.NoError(t, err)
				assert.Equal(t, sec.Authority(tt.value), authority)
			} else {
				assert.ErrorIs(t, err, sec.ErrInvalidAuthority)
			}
		})
	}
}

/*
TestParseAuthorities verifies de-duplication keeps first-seen order.
*/
func TestParseAuthorities(t *testing.T) {
	authorities, err := sec.ParseAuthorities([]string{"ADMIN", "USER", "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, []sec.Authority{sec.AuthorityAdmin, sec.AuthorityUser}, authorities)

	_, err = sec.ParseAuthorities([]string{"USER", "GUEST"})
	assert.ErrorIs(t, err, sec.ErrInvalidAuthority)
}

/*
TestJoinSplitAuthorities verifies the "||" transport encoding.
*/
func TestJoinSplitAuthorities(t *testing.T) {
	joined := sec.JoinAuthorities([]sec.Authority{sec.AuthorityUser, sec.AuthorityModerator})
	assert.Equal(t, "USER||MODERATOR", joined)

	split, err := sec.SplitAuthorities(joined)
	require.NoError(t, err)
	assert.Equal(t, []sec.Authority{sec.AuthorityUser, sec.AuthorityModerator}, split)

	empty, err := sec.SplitAuthorities("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

/*
TestPrincipal_HasAuthority covers nil-safety and membership.
*/
func TestPrincipal_HasAuthority(t *testing.T) {
	var anonymous *sec.Principal
	assert.False(t, anonymous.HasAuthority(sec.AuthorityUser))

	principal := &sec.Principal{Subject: "a@b.c", Authorities: []sec.Authority{sec.AuthorityAdmin}}
	assert.True(t, principal.HasAuthority(sec.AuthorityAdmin))
	assert.False(t, principal.HasAuthority(sec.AuthorityUser))
}

/*
TestNewSigningKey covers secret decoding and the minimum key size.
*/
func TestNewSigningKey(t *testing.T) {
	material := bytes.Repeat([]byte{0x5a}, 64)

	_, err := sec.NewSigningKey(base64.StdEncoding.EncodeToString(material))
	require.NoError(t, err)

	_, err = sec.NewSigningKey(base64.RawURLEncoding.EncodeToString(material))
	require.NoError(t, err)

	_, err = sec.NewSigningKey(base64.StdEncoding.EncodeToString(material[:32]))
	assert.Error(t, err)

	_, err = sec.NewSigningKey("%%% not base64 %%%")
	assert.Error(t, err)

	_, err = sec.NewSigningKey("")
	assert.Error(t, err)

	key, err := sec.NewSigningKeyFromBytes(material)
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", key.String())
}

/*
TestPasswordHash verifies bcrypt hashing and comparison.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("s3cret!pass")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("s3cret!pass", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
	assert.False(t, sec.CheckPasswordHash("s3cret!pass", "not-a-hash"))

	_, err = sec.HashPassword(string(bytes.Repeat([]byte("a"), sec.MaxPasswordBytes+1)))
	assert.ErrorIs(t, err, sec.ErrPasswordTooLong)
}

/*
TestBearerToken covers Authorization header parsing.
*/
func TestBearerToken(t *testing.T) {
	token, ok := sec.BearerToken("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	_, ok = sec.BearerToken("")
	assert.False(t, ok)

	_, ok = sec.BearerToken("Token abc")
	assert.False(t, ok)

	_, ok = sec.BearerToken("bearer abc")
	assert.False(t, ok)
}
