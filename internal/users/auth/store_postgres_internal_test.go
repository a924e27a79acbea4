// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

/*
TestWrapAccountWrite verifies that a write referencing a vanished account
reports ErrIdentityNotFound while other failures keep their cause.
*/
func TestWrapAccountWrite(t *testing.T) {
	assert.NoError(t, wrapAccountWrite(nil, "postgres_temp_token_save"))

	gone := wrapAccountWrite(&pgconn.PgError{Code: "23503"}, "postgres_temp_token_save")
	assert.ErrorIs(t, gone, ErrIdentityNotFound)
	assert.EqualError(t, gone, "postgres_temp_token_save_failed: "+ErrIdentityNotFound.Error())

	boom := errors.New("connection reset")
	other := wrapAccountWrite(boom, "postgres_temp_token_save")
	assert.ErrorIs(t, other, boom)
	assert.NotErrorIs(t, other, ErrIdentityNotFound)
}
