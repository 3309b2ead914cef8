package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/target/talent-ui-api/internal/ports"
)

// DefaultDeveloperOverrideKey is the set holding operator-added developer emails.
const DefaultDeveloperOverrideKey = "talent:developer-overrides"

var _ ports.DeveloperOverrideStore = (*DeveloperOverrideStore)(nil)

// DeveloperOverrideStore keeps developer override emails in a Redis set.
type DeveloperOverrideStore struct {
	client redis.UniversalClient
	key    string
}

// NewDeveloperOverrideStore creates a store on key, or the default key when empty.
func NewDeveloperOverrideStore(client redis.UniversalClient, key string) *DeveloperOverrideStore {
	if key == "" {
		key = DefaultDeveloperOverrideKey
	}
	return &DeveloperOverrideStore{client: client, key: key}
}

// List returns the stored emails sorted.
func (s *DeveloperOverrideStore) List(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	sort.Strings(members)
	return members, nil
}

func (s *DeveloperOverrideStore) Add(ctx context.Context, email string) error {
	if err := s.client.SAdd(ctx, s.key, email).Err(); err != nil {
		return fmt.Errorf("redis sadd: %w", err)
	}
	return nil
}

func (s *DeveloperOverrideStore) Remove(ctx context.Context, email string) error {
	if err := s.client.SRem(ctx, s.key, email).Err(); err != nil {
		return fmt.Errorf("redis srem: %w", err)
	}
	return nil
}
