package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// reKeyField extracts the column from "Key (email)=(a@b.c) already exists.".
var reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)

// conflictMessages holds user-facing messages for known unique constraints.
var conflictMessages = map[string]string{
	"waitlist_entries_email_key": "This email is already on the waitlist.",
	"user_roles_pkey":            "A role already exists for this user.",
}

// MapDBError maps database errors to AppError instances:
//   - pgx.ErrNoRows → NotFound
//   - unique violations → Conflict
//   - check and NOT NULL violations → Validation
//   - context deadline/cancel → Timeout/Canceled
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Resource not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return mapUniqueViolation(pgErr)
	case pgerrcode.CheckViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "This field has an invalid value.",
			Field:   firstNonEmpty(pgErr.ColumnName, inferFieldFromConstraint(pgErr.ConstraintName)),
			Cause:   pgErr,
		}
	case pgerrcode.NotNullViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "This field is required.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	default:
		return Wrap(pgErr, ErrCodeInternal, "A database error occurred. Please try again.")
	}
}

func mapUniqueViolation(pgErr *pgconn.PgError) error {
	field := pgErr.ColumnName
	if field == "" && pgErr.Detail != "" {
		if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			field = m[1]
		}
	}
	if field == "" {
		field = inferFieldFromConstraint(pgErr.ConstraintName)
	}

	message, ok := conflictMessages[pgErr.ConstraintName]
	if !ok {
		message = "This value already exists. Please choose a different one."
	}
	return &AppError{Code: ErrCodeConflict, Message: message, Field: field, Cause: pgErr}
}

// knownTables lists table prefixes so constraint names like
// "waitlist_entries_email_key" split into table, column, suffix.
var knownTables = []string{"waitlist_entries", "user_roles"}

// inferFieldFromConstraint guesses the column from a "<table>_<column>_<suffix>"
// constraint name. Returns "" when the name is ambiguous.
func inferFieldFromConstraint(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	for _, table := range knownTables {
		if rest, ok := strings.CutPrefix(name, table+"_"); ok {
			name = rest
			break
		}
	}
	i := strings.LastIndex(name, "_")
	if i <= 0 || !constraintSuffixes[name[i+1:]] {
		return ""
	}
	name = name[:i]
	if strings.Contains(name, "_") || name == "lower" {
		return ""
	}
	return name
}

var constraintSuffixes = map[string]bool{"key": true, "check": true, "unique": true, "idx": true}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
