package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/target/talent-ui-api/internal/data/pgxutil"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	apperrors "github.com/target/talent-ui-api/internal/errors"
	"github.com/target/talent-ui-api/internal/ports"
)

var _ ports.WaitlistRepository = (*WaitlistRepo)(nil)

// WaitlistRepo stores waitlist signups in the waitlist_entries table.
type WaitlistRepo struct {
	DB *sql.DB
}

// NewWaitlistRepo creates a new waitlist repository.
func NewWaitlistRepo(db *sql.DB) *WaitlistRepo {
	return &WaitlistRepo{DB: db}
}

const waitlistColumns = `id::text AS id, email, name, role, created_at`

// Create inserts a new entry. A duplicate email maps to a conflict error.
func (r *WaitlistRepo) Create(
	ctx context.Context,
	email, name string,
	role domainauth.Role,
) (*ports.WaitlistEntry, error) {
	var entry ports.WaitlistEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `
			INSERT INTO waitlist_entries (email, name, role)
			VALUES ($1, $2, $3)
			RETURNING ` + waitlistColumns

		rows, err := conn.Query(ctx, query, email, name, string(role))
		if err != nil {
			return err
		}
		defer rows.Close()

		entry, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[ports.WaitlistEntry])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &entry, nil
}

// List returns up to limit entries, newest first.
func (r *WaitlistRepo) List(ctx context.Context, limit int) ([]ports.WaitlistEntry, error) {
	var entries []ports.WaitlistEntry
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := `SELECT ` + waitlistColumns + ` FROM waitlist_entries ORDER BY created_at DESC LIMIT $1`
		rows, err := conn.Query(ctx, query, limit)
		if err != nil {
			return err
		}
		entries, err = pgx.CollectRows(rows, pgx.RowToStructByName[ports.WaitlistEntry])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return entries, nil
}
