package config

import (
	"strings"
	"time"

	"github.com/target/talent-ui-api/internal/domain/access"
)

// AccessConfig controls role resolution, the developer allowlist and signup passcodes.
type AccessConfig struct {
	// DeveloperEmails is a comma-separated list merged with the built-in fallback list.
	DeveloperEmails string `env:"DEVELOPER_EMAILS"`

	// RoleResolutionTimeout bounds the durable role lookup and the guard's loading grace period.
	RoleResolutionTimeout time.Duration `env:"ROLE_RESOLUTION_TIMEOUT" envDefault:"5s"`

	// RoleRefreshInterval bounds how long a session serves its durable role
	// before the role store is consulted again.
	RoleRefreshInterval time.Duration `env:"ROLE_REFRESH_INTERVAL" envDefault:"30s"`

	// DeveloperOverrideKey is the Redis set holding operator-managed developer emails.
	DeveloperOverrideKey string `env:"DEVELOPER_OVERRIDE_KEY" envDefault:"talent:developer-overrides"`

	// DeveloperRefreshInterval controls how often the override set is reloaded.
	DeveloperRefreshInterval time.Duration `env:"DEVELOPER_REFRESH_INTERVAL" envDefault:"30s"`

	StudentPasscode string `env:"STUDENT_PASSCODE" envDefault:"STU-2025"`
	ClientPasscode  string `env:"CLIENT_PASSCODE"  envDefault:"CLI-2025"`
	AdminPasscode   string `env:"ADMIN_PASSCODE"   envDefault:"ADM-2025"`
}

// Sanitize applies guardrails to access configuration values.
func (c *AccessConfig) Sanitize() {
	if c.RoleResolutionTimeout <= 0 {
		c.RoleResolutionTimeout = access.DefaultGracePeriod
	}
	if c.RoleRefreshInterval <= 0 {
		c.RoleRefreshInterval = 30 * time.Second
	}
	if c.DeveloperRefreshInterval < time.Second {
		c.DeveloperRefreshInterval = time.Second
	}
	c.DeveloperOverrideKey = strings.TrimSpace(c.DeveloperOverrideKey)
}

// DeveloperEmailList splits DEVELOPER_EMAILS. Blank and malformed entries are
// dropped when the list is merged into an allowlist.
func (c *AccessConfig) DeveloperEmailList() []string {
	return access.ParseEmailList(c.DeveloperEmails)
}

// Passcodes builds the signup passcode policy.
func (c *AccessConfig) Passcodes() access.PasscodePolicy {
	return access.NewPasscodePolicy(c.StudentPasscode, c.ClientPasscode, c.AdminPasscode)
}
