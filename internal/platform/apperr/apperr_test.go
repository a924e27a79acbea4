// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/advisor/internal/platform/apperr"
)

/*
TestConstructors verifies status and generic code for every constructor.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *apperr.AppError
		wantStatus int
		wantCode   string
	}{
		{"not_found", apperr.NotFound("Member"), http.StatusNotFound, apperr.CodeNotFound},
		{"unauthorized", apperr.Unauthorized("Authentication required."), http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"forbidden", apperr.Forbidden("Insufficient permissions."), http.StatusForbidden, apperr.CodeForbidden},
		{"conflict", apperr.Conflict("This email is already registered."), http.StatusConflict, apperr.CodeConflict},
		{"validation", apperr.ValidationError("Validation failed"), http.StatusBadRequest, apperr.CodeValidation},
		{"too_many", apperr.TooManyRequests("Rate limit exceeded"), http.StatusTooManyRequests, apperr.CodeTooMany},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}

	assert.Equal(t, "Member not found", apperr.NotFound("Member").Error())
	assert.Equal(t, "An unexpected error occurred", apperr.Internal(errors.New("dial tcp")).Message)
}

/*
TestBuilders verifies builders refine a copy and leave the receiver untouched.
*/
func TestBuilders(t *testing.T) {
	base := apperr.NotFound("Member")
	cause := errors.New("no rows")

	derived := base.
		WithCode(apperr.CodeMemberNotFound).
		WithMessage("회원을 찾을 수 없습니다.").
		WithCause(cause)

	assert.Equal(t, apperr.CodeNotFound, base.Code)
	assert.Equal(t, "Member not found", base.Message)
	assert.Nil(t, base.Cause)

	assert.Equal(t, apperr.CodeMemberNotFound, derived.Code)
	assert.Equal(t, "회원을 찾을 수 없습니다.", derived.Error())
	assert.Equal(t, http.StatusNotFound, derived.HTTPStatus)
	assert.ErrorIs(t, derived, cause)
}

/*
TestAs verifies extraction through wrapped chains.
*/
func TestAs(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("member_lookup_failed: %w", apperr.Internal(cause))

	require.True(t, apperr.IsAppError(wrapped))
	appError := apperr.As(wrapped)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusInternalServerError, appError.HTTPStatus)
	assert.ErrorIs(t, wrapped, cause)

	assert.False(t, apperr.IsAppError(cause))
	assert.Nil(t, apperr.As(cause))
}
