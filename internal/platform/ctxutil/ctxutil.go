// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries the request-scoped values of the member API through
[context.Context]: the correlation ID, the per-request logger and the
authenticated [sec.Principal].

Keys are unexported struct types, so no other package can read or overwrite
these values except through the accessors below.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/advisor/internal/platform/sec"
)

type (
	requestIDKey struct{}
	loggerKey    struct{}
	principalKey struct{}
)

// # Request Tracing

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// GetRequestID returns the correlation value, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// # Structured Logging

// WithLogger attaches the per-request logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger returns the per-request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Principal

// WithPrincipal binds the authenticated principal to one request's context.
// Nothing is stored outside the returned context.
func WithPrincipal(ctx context.Context, principal *sec.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal returns the authenticated principal, or nil for anonymous requests.
func GetPrincipal(ctx context.Context) *sec.Principal {
	principal, _ := ctx.Value(principalKey{}).(*sec.Principal)
	return principal
}

// Subject returns the principal's subject, or "" for anonymous requests.
func Subject(ctx context.Context) string {
	if principal := GetPrincipal(ctx); principal != nil {
		return principal.Subject
	}
	return ""
}
