// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads typed input out of member API requests: JSON
// bodies, chi path parameters and the authenticated principal.
//
// Error responses stay with the callers, which localize them.
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/advisor/internal/platform/ctxutil"
	"github.com/taibuivan/advisor/internal/platform/sec"
	"github.com/taibuivan/advisor/internal/platform/validate"
)

// MaxBodyBytes caps every decoded request body.
const MaxBodyBytes = 64 << 10

// DecodeJSON decodes exactly one JSON value from the body into target.
// Oversized, malformed or trailing input yields [validate.ErrInvalidJSON].
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, MaxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns the chi URL parameter name, or "".
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Principal returns the principal set by the authentication filter.
// ok is false for anonymous requests.
func Principal(request *http.Request) (principal *sec.Principal, ok bool) {
	principal = ctxutil.GetPrincipal(request.Context())
	return principal, principal != nil
}
