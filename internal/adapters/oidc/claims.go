package oidc

import (
	"fmt"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
)

type idFields struct {
	userID      string
	email       string
	claimedRole string
	createdAt   time.Time
	updatedAt   time.Time
}

// merge fills empty fields of f from other.
func (f *idFields) merge(other idFields) {
	if f.userID == "" {
		f.userID = other.userID
	}
	if f.email == "" {
		f.email = other.email
	}
	if f.claimedRole == "" {
		f.claimedRole = other.claimedRole
	}
	if f.createdAt.IsZero() {
		f.createdAt = other.createdAt
	}
	if f.updatedAt.IsZero() {
		f.updatedAt = other.updatedAt
	}
}

type claimSearcher interface {
	Search(data any) (any, error)
}

// claimMapper turns a decoded claim set into identity fields.
type claimMapper struct {
	rolePath string
	roleExpr claimSearcher
}

func newClaimMapper(rolePath string) (claimMapper, error) {
	rolePath = strings.TrimSpace(rolePath)
	if rolePath == "" {
		rolePath = DefaultRoleClaimPath
	}
	expr, err := jmespath.Compile(rolePath)
	if err != nil {
		return claimMapper{}, fmt.Errorf("invalid role claim path %q: %w", rolePath, err)
	}
	return claimMapper{rolePath: rolePath, roleExpr: expr}, nil
}

func (m claimMapper) fields(claims map[string]any) idFields {
	return idFields{
		userID:      stringClaim(claims, "sub"),
		email:       stringClaim(claims, "email"),
		claimedRole: m.role(claims),
		createdAt:   timeClaim(claims["created_at"]),
		updatedAt:   timeClaim(claims["updated_at"]),
	}
}

// role returns the claimed role or "" when the path is missing or not a string.
// The value is untrusted and normalized later.
func (m claimMapper) role(claims map[string]any) string {
	if m.roleExpr == nil {
		return ""
	}
	v, err := m.roleExpr.Search(claims)
	if err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func stringClaim(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return strings.TrimSpace(s)
}

// timeClaim accepts RFC 3339 strings and numeric unix seconds.
func timeClaim(v any) time.Time {
	switch t := v.(type) {
	case string:
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts
		}
	case float64:
		return time.Unix(int64(t), 0).UTC()
	}
	return time.Time{}
}
