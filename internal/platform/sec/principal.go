// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "slices"

// Principal is the per-request view of an authenticated member.
//
// It is built from validated token claims (or from a fresh identity lookup at login)
// and is never persisted.
type Principal struct {
	// Subject is the member's email, the identity key.
	Subject string `json:"subject"`

	// Authorities is the ordered, duplicate-free authority list.
	Authorities []Authority `json:"authorities"`
}

// HasAuthority reports whether the principal carries authority.
func (p *Principal) HasAuthority(authority Authority) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Authorities, authority)
}
