package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/talent-ui-api/internal/domain/access"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	"github.com/target/talent-ui-api/internal/mocks"
	authmocks "github.com/target/talent-ui-api/internal/mocks/auth"
	"github.com/target/talent-ui-api/internal/ports"
)

func newTestResolver(store ports.RoleStore, developers ...string) *RoleResolver {
	allow := access.NewDeveloperAllowlist(developers)
	return NewRoleResolver(RoleResolverOptions{
		Store:      store,
		Developers: allow,
		Config:     RoleResolverConfig{LookupTimeout: time.Second},
	})
}

func drainResolver(t *testing.T, r *RoleResolver) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Drain(ctx))
}

func TestRoleResolver_DeveloperWinsOverEverything(t *testing.T) {
	store := authmocks.NewMemoryRoleStore(map[string]string{"u1": "student"})
	r := newTestResolver(store, "Dev@Example.com")

	for _, email := range []string{"dev@example.com", "  DEV@example.COM ", "Dev@Example.com"} {
		id := domainauth.Identity{UserID: "u1", Email: email, ClaimedRole: "client"}

		res := r.Resolve(context.Background(), id)

		assert.Equal(t, domainauth.RoleDeveloper, res.Role, email)
		assert.Equal(t, domainauth.SourceAllowlist, res.Source)
		assert.Equal(t, domainauth.RoleDeveloper, r.Preliminary(id).Role)
	}
	drainResolver(t, r)
}

func TestRoleResolver_StoredRoleWins(t *testing.T) {
	tests := []struct {
		stored string
		want   domainauth.Role
	}{
		{"student", domainauth.RoleStudent},
		{"client", domainauth.RoleClient},
		{"admin", domainauth.RoleAdmin},
		{" Admin ", domainauth.RoleAdmin},
		{"developer", domainauth.RoleClient},
		{"owner", domainauth.RoleClient},
	}

	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockRoleStore(ctrl)
			store.EXPECT().GetRole(gomock.Any(), "u1").Return(tt.stored, true, nil)

			r := newTestResolver(store)
			res := r.Resolve(context.Background(), domainauth.Identity{
				UserID:      "u1",
				Email:       "someone@example.com",
				ClaimedRole: "student",
			})

			assert.Equal(t, tt.want, res.Role)
			assert.Equal(t, domainauth.SourceStored, res.Source)
		})
	}
}

func TestRoleResolver_ClaimedRoleWithoutRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockRoleStore(ctrl)
	ensured := make(chan ports.RoleRecord, 1)
	store.EXPECT().GetRole(gomock.Any(), "u1").Return("", false, nil)
	store.EXPECT().EnsureRole(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rec ports.RoleRecord) error {
			ensured <- rec
			return nil
		},
	)

	r := newTestResolver(store)
	id := domainauth.Identity{UserID: "u1", Email: "A@Example.com", ClaimedRole: "admin"}

	assert.Equal(t, domainauth.RoleAdmin, r.Preliminary(id).Role)

	res := r.Resolve(context.Background(), id)
	assert.Equal(t, domainauth.RoleAdmin, res.Role)
	assert.Equal(t, domainauth.SourceClaim, res.Source)

	drainResolver(t, r)
	rec := <-ensured
	assert.Equal(t, ports.RoleRecord{UserID: "u1", Email: "a@example.com", Role: domainauth.RoleAdmin}, rec)
}

func TestRoleResolver_UnrecognizedClaimIsClient(t *testing.T) {
	r := newTestResolver(nil)

	for _, claim := range []string{"superuser", "ADMINISTRATOR", "developer"} {
		res := r.Resolve(context.Background(), domainauth.Identity{UserID: "u1", ClaimedRole: claim})
		assert.Equal(t, domainauth.RoleClient, res.Role, claim)
		assert.Equal(t, domainauth.SourceClaim, res.Source)
	}

	res := r.Resolve(context.Background(), domainauth.Identity{UserID: "u1"})
	assert.Equal(t, domainauth.Resolution{Role: domainauth.RoleClient, Source: domainauth.SourceFallback}, res)
}

func TestRoleResolver_DeveloperNeverPersisted(t *testing.T) {
	store := authmocks.NewMemoryRoleStore(nil)
	store.Ensured = make(chan ports.RoleRecord, 1)
	r := newTestResolver(store, "dev@example.com")

	res := r.Resolve(context.Background(), domainauth.Identity{UserID: "u1", Email: "dev@example.com"})
	assert.Equal(t, domainauth.RoleDeveloper, res.Role)

	drainResolver(t, r)
	rec := <-store.Ensured
	assert.Equal(t, domainauth.RoleClient, rec.Role)
}

func TestRoleResolver_LookupErrorKeepsClaim(t *testing.T) {
	store := authmocks.NewMemoryRoleStore(nil)
	store.GetErr = errors.New("connection refused")
	r := newTestResolver(store)

	res := r.Resolve(context.Background(), domainauth.Identity{UserID: "u1", ClaimedRole: "student"})

	assert.Equal(t, domainauth.RoleStudent, res.Role)
	assert.Equal(t, domainauth.SourceClaim, res.Source)
	_, found := store.Role("u1")
	assert.False(t, found, "no row is created when the lookup fails")
}

func TestRoleResolver_Idempotent(t *testing.T) {
	store := authmocks.NewMemoryRoleStore(map[string]string{"u2": "student"})
	r := newTestResolver(store, "dev@example.com")

	ids := []domainauth.Identity{
		{UserID: "u1", Email: "x@example.com", ClaimedRole: "admin"},
		{UserID: "u2", Email: "y@example.com", ClaimedRole: "client"},
		{UserID: "u3", Email: "dev@example.com"},
	}
	for _, id := range ids {
		first := r.Resolve(context.Background(), id)
		drainResolver(t, r)
		second := r.Resolve(context.Background(), id)
		assert.Equal(t, first.Role, second.Role, id.UserID)
	}
}
