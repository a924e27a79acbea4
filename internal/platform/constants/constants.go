// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants holds the fixed values shared across the member API:
server timing, rate limits, token lifetimes, header and field names, and the
storage namespaces.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "advisor-member"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout bounds a whole request, and every SQL statement with it.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is shared by the HTTP drain and the post-auth drain.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	RateLimitCleanupInterval = time.Minute

	// RateLimitClientTTL is the idle time after which an IP's bucket is dropped.
	RateLimitClientTTL = 3 * time.Minute
)

// # Tokens

const (
	// BearerScheme is the Authorization scheme and the token_type of login responses.
	BearerScheme = "Bearer"

	// AuthoritySeparator joins authorities inside the single "authorities" claim.
	AuthoritySeparator = "||"

	// LoginCookieName is set on every front domain after login.
	LoginCookieName = "token"

	// TempTokenTTL is how long a password reset link works.
	TempTokenTTL = 3 * time.Minute

	// TempTokenRetention keeps expired reset tokens readable so a late click
	// reports "expired" rather than "invalid".
	TempTokenRetention = 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderAuthorization  = "Authorization"
	HeaderAcceptLanguage = "Accept-Language"
	HeaderContentType    = "Content-Type"
	HeaderOrigin         = "Origin"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXRealIP        = "X-Real-IP"
	HeaderXForwardedFor  = "X-Forwarded-For"
)

// # Response Fields

const (
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Storage Namespaces

const (
	SchemaMember         = "member"
	RedisPrefixTempToken = "member:temp_token:"
)
