// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the time-ordered identifiers used as member primary keys.

Version 7 values sort by creation time, which keeps B-tree inserts on the
account table append-only.
*/
package uuid

import googleuuid "github.com/google/uuid"

// New returns a fresh UUIDv7 in canonical text form.
// It panics only if the system random source fails.
func New() string {
	return googleuuid.Must(googleuuid.NewV7()).String()
}
