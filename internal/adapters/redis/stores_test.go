package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	"github.com/target/talent-ui-api/internal/testutil"
)

func TestDeveloperOverrideStore(t *testing.T) {
	mr, client := testutil.SetupTestRedis(t)
	store := NewDeveloperOverrideStore(client, "")
	ctx := context.Background()

	emails, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, emails)

	require.NoError(t, store.Add(ctx, "b@example.com"))
	require.NoError(t, store.Add(ctx, "a@example.com"))
	require.NoError(t, store.Add(ctx, "a@example.com"))

	emails, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, emails)

	members, err := mr.Members(DefaultDeveloperOverrideKey)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	require.NoError(t, store.Remove(ctx, "b@example.com"))
	emails, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com"}, emails)
}

func TestSettingsStore(t *testing.T) {
	_, client := testutil.SetupTestRedis(t)
	store := NewSettingsStore(client)
	ctx := context.Background()

	blob, err := store.GetSettings(ctx, "u1", domainauth.RoleStudent)
	require.NoError(t, err)
	assert.Nil(t, blob)

	require.NoError(t, store.PutSettings(ctx, "u1", domainauth.RoleStudent, []byte(`{"theme":"dark"}`)))
	require.NoError(t, store.PutSettings(ctx, "u1", domainauth.RoleClient, []byte(`{"digest":true}`)))

	blob, err = store.GetSettings(ctx, "u1", domainauth.RoleStudent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, string(blob))

	enabled, err := store.GetTwoFactor(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, store.SetTwoFactor(ctx, "u1", true))
	enabled, err = store.GetTwoFactor(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, enabled)

	blob, err = store.GetSettings(ctx, "u1", domainauth.RoleClient)
	require.NoError(t, err)
	assert.JSONEq(t, `{"digest":true}`, string(blob))
}
