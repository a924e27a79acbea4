// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "errors"

// Domain errors. Repositories and services return these (possibly wrapped);
// the HTTP layer translates them.
var (
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrIdentityExists    = errors.New("identity already exists")
	ErrTempTokenNotFound = errors.New("temporary token not found")
	ErrTempTokenExpired  = errors.New("temporary token expired")
)
