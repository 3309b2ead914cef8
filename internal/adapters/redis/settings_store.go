package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	"github.com/target/talent-ui-api/internal/ports"
)

const (
	settingsPrefix  = "talent:settings:"
	twoFactorField  = "2fa"
	roleFieldPrefix = "role:"
)

var _ ports.SettingsStore = (*SettingsStore)(nil)

// SettingsStore keeps one hash per user: a field per role blob plus the 2FA flag.
type SettingsStore struct {
	client redis.UniversalClient
}

// NewSettingsStore creates a Redis settings store.
func NewSettingsStore(client redis.UniversalClient) *SettingsStore {
	return &SettingsStore{client: client}
}

// GetSettings returns nil when nothing is stored.
func (s *SettingsStore) GetSettings(ctx context.Context, userID string, role domainauth.Role) ([]byte, error) {
	blob, err := s.client.HGet(ctx, settingsPrefix+userID, roleFieldPrefix+string(role)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget: %w", err)
	}
	return blob, nil
}

func (s *SettingsStore) PutSettings(ctx context.Context, userID string, role domainauth.Role, blob []byte) error {
	if err := s.client.HSet(ctx, settingsPrefix+userID, roleFieldPrefix+string(role), blob).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *SettingsStore) GetTwoFactor(ctx context.Context, userID string) (bool, error) {
	v, err := s.client.HGet(ctx, settingsPrefix+userID, twoFactorField).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis hget: %w", err)
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse 2fa flag: %w", err)
	}
	return enabled, nil
}

func (s *SettingsStore) SetTwoFactor(ctx context.Context, userID string, enabled bool) error {
	if err := s.client.HSet(ctx, settingsPrefix+userID, twoFactorField, strconv.FormatBool(enabled)).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}
