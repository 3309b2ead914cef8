package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
)

func TestPasscodePolicy_Defaults(t *testing.T) {
	p := NewPasscodePolicy("", "", "")

	assert.True(t, p.Verify(domainauth.RoleStudent, "STU-2025"))
	assert.True(t, p.Verify(domainauth.RoleClient, " CLI-2025 "))
	assert.True(t, p.Verify(domainauth.RoleAdmin, "ADM-2025"))

	assert.False(t, p.Verify(domainauth.RoleStudent, "CLI-2025"))
	assert.False(t, p.Verify(domainauth.RoleAdmin, ""))
	assert.False(t, p.Verify(domainauth.RoleDeveloper, "ADM-2025"))
}

func TestPasscodePolicy_Rotated(t *testing.T) {
	p := NewPasscodePolicy("STU-2026", "", "")
	assert.True(t, p.Verify(domainauth.RoleStudent, "STU-2026"))
	assert.False(t, p.Verify(domainauth.RoleStudent, "STU-2025"))
	assert.True(t, p.Verify(domainauth.RoleClient, "CLI-2025"))
}
