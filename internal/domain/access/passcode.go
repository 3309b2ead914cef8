package access

import (
	"crypto/subtle"
	"strings"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
)

// Default passcodes accepted on the waitlist and signup forms.
const (
	DefaultStudentPasscode = "STU-2025"
	DefaultClientPasscode  = "CLI-2025"
	DefaultAdminPasscode   = "ADM-2025"
)

// PasscodePolicy holds the per-role passcodes. Inject it from configuration
// so codes can be rotated without a code change.
type PasscodePolicy struct {
	codes map[domainauth.Role]string
}

// NewPasscodePolicy builds a policy; empty values fall back to the defaults.
func NewPasscodePolicy(student, client, admin string) PasscodePolicy {
	return PasscodePolicy{codes: map[domainauth.Role]string{
		domainauth.RoleStudent: orDefault(student, DefaultStudentPasscode),
		domainauth.RoleClient:  orDefault(client, DefaultClientPasscode),
		domainauth.RoleAdmin:   orDefault(admin, DefaultAdminPasscode),
	}}
}

// Verify reports whether passcode unlocks role.
func (p PasscodePolicy) Verify(role domainauth.Role, passcode string) bool {
	want, ok := p.codes[role]
	if !ok || want == "" {
		return false
	}
	got := strings.TrimSpace(passcode)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
