// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware is the member API's HTTP decorator chain.

Files:

  - middleware.go: request IDs and the access log.
  - guard.go: per-IP rate limiting, CORS and panic recovery.
  - authn.go: the bearer token filter and authority checks.
*/
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/advisor/internal/platform/constants"
	"github.com/taibuivan/advisor/internal/platform/ctxutil"
)

// # Request Tracing

// RequestID reuses the caller's X-Request-ID or mints a UUIDv7, and echoes it back.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = newRequestID()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// # Access Log

// accessRecord collects what the access log line needs from further down the chain.
type accessRecord struct {
	http.ResponseWriter
	status  int
	subject string
}

func (record *accessRecord) WriteHeader(code int) {
	record.status = code
	record.ResponseWriter.WriteHeader(code)
}

type accessRecordKey struct{}

// recordSubject reports the authenticated subject to the access log.
// The principal itself lives in a context the logger never sees.
func recordSubject(ctx context.Context, subject string) {
	if record, ok := ctx.Value(accessRecordKey{}).(*accessRecord); ok {
		record.subject = subject
	}
}

func (record *accessRecord) level() slog.Level {
	switch {
	case record.status >= http.StatusInternalServerError:
		return slog.LevelError
	case record.status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// StructuredLogger installs a request-scoped logger and writes one
// "http_request_finished" line per request.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			record := &accessRecord{ResponseWriter: writer, status: http.StatusOK}
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			ctx = context.WithValue(ctx, accessRecordKey{}, record)

			next.ServeHTTP(record, request.WithContext(ctx))

			attributes := []slog.Attr{
				slog.Int("status", record.status),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}
			if record.subject != "" {
				attributes = append(attributes, slog.String("principal", record.subject))
			}

			requestLogger.LogAttrs(ctx, record.level(), "http_request_finished", attributes...)
		})
	}
}
