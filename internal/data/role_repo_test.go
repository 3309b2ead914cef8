package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	apperrors "github.com/target/talent-ui-api/internal/errors"
	"github.com/target/talent-ui-api/internal/ports"
	"github.com/target/talent-ui-api/internal/testutil"
)

func TestRoleRepo_EnsureDoesNotOverwrite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRoleRepo(db)
	ctx := context.Background()

	_, found, err := repo.GetRole(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.EnsureRole(ctx, ports.RoleRecord{UserID: "u-1", Email: "a@example.com", Role: domainauth.RoleStudent}))
	require.NoError(t, repo.EnsureRole(ctx, ports.RoleRecord{UserID: "u-1", Email: "a@example.com", Role: domainauth.RoleAdmin}))

	role, found, err := repo.GetRole(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "student", role)
}

func TestRoleRepo_ReplaceReturnsPrevious(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewRoleRepo(db)
	ctx := context.Background()

	prev, err := repo.Replace(ctx, ports.RoleRecord{UserID: "u-2", Email: "b@example.com", Role: domainauth.RoleClient})
	require.NoError(t, err)
	assert.Empty(t, prev)

	prev, err = repo.Replace(ctx, ports.RoleRecord{UserID: "u-2", Role: domainauth.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "client", prev)

	row, err := repo.Get(ctx, "u-2")
	require.NoError(t, err)
	assert.Equal(t, "admin", row.Role)
	assert.Equal(t, "b@example.com", row.Email, "empty email keeps the stored one")
	assert.False(t, row.UpdatedAt.Before(row.CreatedAt))
}

func TestRoleRepo_Validation(t *testing.T) {
	repo := NewRoleRepo(nil)
	ctx := context.Background()

	err := repo.EnsureRole(ctx, ports.RoleRecord{Role: domainauth.RoleStudent})
	assert.Equal(t, "user_id", apperrors.GetField(err))

	err = repo.SetRole(ctx, ports.RoleRecord{UserID: "u", Role: domainauth.RoleDeveloper})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "role", apperrors.GetField(err))

	_, err = repo.Get(ctx, " ")
	assert.True(t, apperrors.IsValidation(err))
}

func TestRoleRepo_NilDB(t *testing.T) {
	_, _, err := NewRoleRepo(nil).GetRole(context.Background(), "u")
	require.ErrorContains(t, err, "database is not configured")
}
