package service

import (
	"context"
	"encoding/json"
	"fmt"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	apperrors "github.com/target/talent-ui-api/internal/errors"
	"github.com/target/talent-ui-api/internal/ports"
)

// MaxSettingsBytes caps one settings blob.
const MaxSettingsBytes = 64 << 10

var emptySettings = json.RawMessage(`{}`)

// SettingsService stores the per-role settings blob and the 2FA flag of a user.
type SettingsService struct {
	store ports.SettingsStore
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(store ports.SettingsStore) *SettingsService {
	if store == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("SettingsStore is required")
	}
	return &SettingsService{store: store}
}

// Settings is the settings view returned to a user.
type Settings struct {
	Role      domainauth.Role `json:"role"`
	Settings  json.RawMessage `json:"settings"`
	TwoFactor bool            `json:"two_factor_enabled"`
}

// Get returns the blob for the user's role, or an empty object.
func (s *SettingsService) Get(ctx context.Context, userID string, role domainauth.Role) (*Settings, error) {
	bucket := settingsBucket(role)
	blob, err := s.store.GetSettings(ctx, userID, bucket)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if len(blob) == 0 {
		blob = emptySettings
	}
	twoFactor, err := s.store.GetTwoFactor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get two-factor flag: %w", err)
	}
	return &Settings{Role: bucket, Settings: json.RawMessage(blob), TwoFactor: twoFactor}, nil
}

// Put replaces the blob for the user's role. The blob must be a JSON object.
func (s *SettingsService) Put(ctx context.Context, userID string, role domainauth.Role, blob []byte) error {
	if len(blob) > MaxSettingsBytes {
		return apperrors.ValidationField("settings", "Settings payload is too large.")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(blob, &obj); err != nil || obj == nil {
		return apperrors.ValidationField("settings", "Settings must be a JSON object.")
	}
	if err := s.store.PutSettings(ctx, userID, settingsBucket(role), blob); err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}

// SetTwoFactor toggles the 2FA flag.
func (s *SettingsService) SetTwoFactor(ctx context.Context, userID string, enabled bool) error {
	if err := s.store.SetTwoFactor(ctx, userID, enabled); err != nil {
		return fmt.Errorf("set two-factor flag: %w", err)
	}
	return nil
}

// settingsBucket keys developer settings with admin, since developer is a
// display label over admin privileges.
func settingsBucket(role domainauth.Role) domainauth.Role {
	if role == domainauth.RoleDeveloper {
		return domainauth.RoleAdmin
	}
	return domainauth.NormalizeRole(string(role))
}
