package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/target/talent-ui-api/internal/data/pgxutil"
	apperrors "github.com/target/talent-ui-api/internal/errors"
	"github.com/target/talent-ui-api/internal/ports"
)

var _ ports.RoleStore = (*RoleRepo)(nil)

// RoleRow is one durable role record.
type RoleRow struct {
	UserID    string    `db:"user_id"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// RoleRepo stores durable roles in the user_roles table.
type RoleRepo struct {
	DB *sql.DB
}

// NewRoleRepo creates a new role repository.
func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{DB: db}
}

const roleColumns = `user_id, email, role, created_at, updated_at`

// GetRole returns the stored role value and whether a row exists.
func (r *RoleRepo) GetRole(ctx context.Context, userID string) (string, bool, error) {
	row, err := r.Get(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Role, true, nil
}

// Get returns the full row for userID.
func (r *RoleRepo) Get(ctx context.Context, userID string) (*RoleRow, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.ValidationField("user_id", "user id is required")
	}

	var row RoleRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+roleColumns+` FROM user_roles WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		row, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[RoleRow])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &row, nil
}

// EnsureRole inserts a row unless one already exists for the user.
func (r *RoleRepo) EnsureRole(ctx context.Context, rec ports.RoleRecord) error {
	if err := validateRoleRecord(rec); err != nil {
		return err
	}
	const query = `
		INSERT INTO user_roles (user_id, email, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`
	return r.exec(ctx, query, rec)
}

// SetRole inserts or overwrites the row for the user.
func (r *RoleRepo) SetRole(ctx context.Context, rec ports.RoleRecord) error {
	_, err := r.Replace(ctx, rec)
	return err
}

// Replace overwrites the user's role and returns the previous stored value,
// or "" when no row existed.
func (r *RoleRepo) Replace(ctx context.Context, rec ports.RoleRecord) (string, error) {
	if err := validateRoleRecord(rec); err != nil {
		return "", err
	}

	var previous string
	err := pgxutil.WithPgxTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1 FOR UPDATE`, rec.UserID).
			Scan(&previous)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, email, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id) DO UPDATE
			SET role = EXCLUDED.role,
			    email = COALESCE(NULLIF(EXCLUDED.email, ''), user_roles.email),
			    updated_at = NOW()`,
			rec.UserID, rec.Email, string(rec.Role))
		return err
	})
	if err != nil {
		return "", fmt.Errorf("replace user role: %w", apperrors.MapDBError(err))
	}
	return previous, nil
}

func (r *RoleRepo) exec(ctx context.Context, query string, rec ports.RoleRecord) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, query, rec.UserID, rec.Email, string(rec.Role))
		return err
	})
	if err != nil {
		return fmt.Errorf("write user role: %w", apperrors.MapDBError(err))
	}
	return nil
}

func validateRoleRecord(rec ports.RoleRecord) error {
	if strings.TrimSpace(rec.UserID) == "" {
		return apperrors.ValidationField("user_id", "user id is required")
	}
	if !rec.Role.Persistable() {
		return apperrors.ValidationField("role", "role must be student, client or admin")
	}
	return nil
}
