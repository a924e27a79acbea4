// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/advisor/internal/platform/apperr"
	"github.com/taibuivan/advisor/internal/platform/constants"
	"github.com/taibuivan/advisor/internal/platform/ctxutil"
	"github.com/taibuivan/advisor/internal/platform/message"
	"github.com/taibuivan/advisor/internal/platform/respond"
	"github.com/taibuivan/advisor/internal/platform/sec"
)

// TokenAuthenticator turns a bearer token into a [*sec.Principal].
//
// Rejections must be [*sec.TokenError]; any other error is treated as an
// internal failure.
type TokenAuthenticator interface {
	Authenticate(token string) (*sec.Principal, error)
}

// MessageResolver resolves a message code for the request's language.
type MessageResolver interface {
	Resolve(request *http.Request, code string) string
}

// PostAuthHook is notified after a request authenticated successfully.
// Implementations must not block the request.
type PostAuthHook interface {
	AfterAuthentication(ctx context.Context, principal *sec.Principal, token string)
}

// Authenticate is the request authentication filter.
//
// # Flow
//  1. No Authorization header, or a non-bearer scheme: continue anonymously.
//  2. Authenticate the token; on success bind the principal to the request context.
//  3. [*sec.TokenError]: 401 with a localized message, the chain stops.
//  4. Any other failure: 500, the chain stops.
//  5. Notify hooks, then continue.
func Authenticate(authenticator TokenAuthenticator, messages MessageResolver, hooks ...PostAuthHook) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, ok := sec.BearerToken(request.Header.Get(constants.HeaderAuthorization))
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}

			principal, err := authenticator.Authenticate(token)
			if err != nil {
				rejectToken(writer, request, messages, err)
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			recordSubject(ctx, principal.Subject)

			for _, hook := range hooks {
				hook.AfterAuthentication(ctx, principal, token)
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func rejectToken(writer http.ResponseWriter, request *http.Request, messages MessageResolver, err error) {
	tokenErr := sec.AsTokenError(err)
	if tokenErr == nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	// Token contents never reach the log, only the kind.
	ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "token_rejected",
		slog.String("kind", tokenErr.Kind.String()),
	)

	text := messages.Resolve(request, tokenErr.Kind.MessageCode())
	respond.Error(writer, request, apperr.Unauthorized(text).
		WithCode(tokenErr.Kind.ErrorCode()).
		WithCause(err))
}

// # Authorization

// RequireAuth blocks anonymous requests with a localized 401.
// Must be registered after [Authenticate].
func RequireAuth(messages MessageResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if ctxutil.GetPrincipal(request.Context()) == nil {
				respond.Error(writer, request, apperr.Unauthorized(messages.Resolve(request, message.AuthenticationRequired)))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAuthority blocks requests whose principal lacks authority.
// Anonymous requests get 401, authenticated ones without the authority get 403.
func RequireAuthority(messages MessageResolver, authority sec.Authority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized(messages.Resolve(request, message.AuthenticationRequired)))
				return
			}

			if !principal.HasAuthority(authority) {
				respond.Error(writer, request, apperr.Forbidden(messages.Resolve(request, message.InsufficientAuthority)))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
