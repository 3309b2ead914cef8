package data

import (
	"context"
	"database/sql"

	"github.com/target/talent-ui-api/internal/migrate"
)

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}

// MigrationStatus reports which embedded migrations have been applied.
func MigrationStatus(ctx context.Context, db *sql.DB) ([]migrate.Version, error) {
	return migrate.Status(ctx, db)
}
