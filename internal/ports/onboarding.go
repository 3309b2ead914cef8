package ports

import (
	"context"
	"time"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
)

// WaitlistEntry is one signup request captured by the onboarding funnel.
type WaitlistEntry struct {
	ID        string          `db:"id"         json:"id"`
	Email     string          `db:"email"      json:"email"`
	Name      string          `db:"name"       json:"name"`
	Role      domainauth.Role `db:"role"       json:"role"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// WaitlistRepository persists waitlist entries.
type WaitlistRepository interface {
	Create(ctx context.Context, email, name string, role domainauth.Role) (*WaitlistEntry, error)
	List(ctx context.Context, limit int) ([]WaitlistEntry, error)
}

// SettingsStore keeps the per-role settings blobs and the 2FA flag.
type SettingsStore interface {
	GetSettings(ctx context.Context, userID string, role domainauth.Role) ([]byte, error)
	PutSettings(ctx context.Context, userID string, role domainauth.Role, blob []byte) error
	GetTwoFactor(ctx context.Context, userID string) (bool, error)
	SetTwoFactor(ctx context.Context, userID string, enabled bool) error
}
