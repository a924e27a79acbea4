// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/advisor/internal/users/auth"
)

/*
TestTerms verifies optional terms survive the single-column encoding.
*/
func TestTerms(t *testing.T) {
	joined := auth.JoinTerms([]string{"marketing", " ", "sms"})

	assert.Equal(t, "marketing||sms", joined)
	assert.Equal(t, []string{"marketing", "sms"}, auth.SplitTerms(joined))
	assert.Nil(t, auth.SplitTerms(""))
	assert.Equal(t, "", auth.JoinTerms(nil))
}
