package auth

// Package auth contains domain-level types for identities, sessions and roles.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role is the effective permission level of a visitor.
// Keep string form for easy persistence and JSON.
type Role string

const (
	RoleStudent Role = "student"
	RoleClient  Role = "client"
	RoleAdmin   Role = "admin"
	// RoleDeveloper is a display-time elevation of admin privileges granted
	// through the developer allowlist. It is never persisted.
	RoleDeveloper Role = "developer"
)

// IsElevated reports whether the role bypasses area checks.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleDeveloper
}

// Persistable reports whether r may be written to durable role storage.
func (r Role) Persistable() bool {
	switch r {
	case RoleStudent, RoleClient, RoleAdmin:
		return true
	default:
		return false
	}
}

// NormalizeRole maps any raw role value onto {student, client, admin}.
// Unrecognized, empty and developer values fall back to client.
func NormalizeRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleClient
	}
}

// Identity represents a signed-in principal returned by an IdP.
// ClaimedRole comes from self-reported sign-up metadata and is untrusted.
type Identity struct {
	UserID      string
	Email       string
	ClaimedRole string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ExpiresAt   time.Time // absolute expiry from IdP token
}

// Session is the server-side record persisted for a visitor.
// A session is either bound to an identity or a guest session, never both.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	Email       string    `json:"email,omitempty"`
	ClaimedRole string    `json:"claimed_role,omitempty"`
	Guest       bool      `json:"guest"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsGuest returns true for sessions created through guest entry.
func (s Session) IsGuest() bool { return s.Guest }

// Authenticated returns true when the session is bound to an identity.
func (s Session) Authenticated() bool { return !s.Guest && s.UserID != "" }

// Identity rebuilds the identity view of an authenticated session.
func (s Session) Identity() Identity {
	return Identity{
		UserID:      s.UserID,
		Email:       s.Email,
		ClaimedRole: s.ClaimedRole,
		CreatedAt:   s.CreatedAt,
		ExpiresAt:   s.ExpiresAt,
	}
}

// RoleSource names the rule that produced a resolved role.
type RoleSource string

const (
	SourceAllowlist RoleSource = "allowlist"
	SourceStored    RoleSource = "stored"
	SourceClaim     RoleSource = "claim"
	SourceFallback  RoleSource = "fallback"
)

// Resolution is a resolved role with its provenance.
type Resolution struct {
	Role   Role
	Source RoleSource
}
