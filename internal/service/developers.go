package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/target/talent-ui-api/internal/domain/access"
	apperrors "github.com/target/talent-ui-api/internal/errors"
	"github.com/target/talent-ui-api/internal/ports"
)

// DeveloperDirectoryOptions groups dependencies for DeveloperDirectory.
type DeveloperDirectoryOptions struct {
	Configured []string                     // Build-time configured emails
	Overrides  ports.DeveloperOverrideStore // Optional: operator-managed overrides
	Logger     *slog.Logger                 // Optional
}

// DeveloperDirectory owns the merged developer allowlist: configured emails,
// operator overrides and the fixed fallback list.
type DeveloperDirectory struct {
	base      access.DeveloperAllowlist
	overrides ports.DeveloperOverrideStore
	logger    *slog.Logger

	current atomic.Pointer[access.DeveloperAllowlist]
}

var errOverridesUnavailable = errors.New("developer overrides are not configured")

// NewDeveloperDirectory constructs a DeveloperDirectory seeded with the
// configured and fallback emails. Call Refresh to merge stored overrides.
func NewDeveloperDirectory(opts DeveloperDirectoryOptions) *DeveloperDirectory {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := &DeveloperDirectory{
		base:      access.NewDeveloperAllowlist(opts.Configured, access.DefaultDeveloperEmails),
		overrides: opts.Overrides,
		logger:    logger.With("component", "developer_directory"),
	}
	base := d.base
	d.current.Store(&base)
	return d
}

// Allowlist returns the current merged allowlist snapshot.
func (d *DeveloperDirectory) Allowlist() access.DeveloperAllowlist {
	return *d.current.Load()
}

// IsDeveloper reports whether email is on the merged allowlist.
func (d *DeveloperDirectory) IsDeveloper(email string) bool {
	return d.current.Load().IsDeveloper(email)
}

// Refresh reloads the override list and swaps in a new merged snapshot.
// On error the previous snapshot stays active.
func (d *DeveloperDirectory) Refresh(ctx context.Context) error {
	if d.overrides == nil {
		return nil
	}
	extra, err := d.overrides.List(ctx)
	if err != nil {
		return fmt.Errorf("list developer overrides: %w", err)
	}
	next := d.base.With(extra)
	d.current.Store(&next)
	return nil
}

// Watch refreshes the snapshot every interval until ctx is done.
func (d *DeveloperDirectory) Watch(ctx context.Context, interval time.Duration) {
	if d.overrides == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Refresh(ctx); err != nil && ctx.Err() == nil {
				d.logger.WarnContext(ctx, "developer override refresh failed", "error", err)
			}
		}
	}
}

// Overrides returns the stored override emails.
func (d *DeveloperDirectory) Overrides(ctx context.Context) ([]string, error) {
	if d.overrides == nil {
		return nil, nil
	}
	emails, err := d.overrides.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list developer overrides: %w", err)
	}
	return emails, nil
}

// AddOverride stores an override email and refreshes the snapshot.
func (d *DeveloperDirectory) AddOverride(ctx context.Context, email string) error {
	normalized, err := d.validate(email)
	if err != nil {
		return err
	}
	if addErr := d.overrides.Add(ctx, normalized); addErr != nil {
		return fmt.Errorf("add developer override: %w", addErr)
	}
	d.logger.InfoContext(ctx, "developer override added", "email", normalized)
	return d.Refresh(ctx)
}

// RemoveOverride deletes an override email and refreshes the snapshot.
// Configured and fallback emails cannot be removed this way.
func (d *DeveloperDirectory) RemoveOverride(ctx context.Context, email string) error {
	normalized, err := d.validate(email)
	if err != nil {
		return err
	}
	if rmErr := d.overrides.Remove(ctx, normalized); rmErr != nil {
		return fmt.Errorf("remove developer override: %w", rmErr)
	}
	d.logger.InfoContext(ctx, "developer override removed", "email", normalized)
	return d.Refresh(ctx)
}

func (d *DeveloperDirectory) validate(email string) (string, error) {
	if d.overrides == nil {
		return "", apperrors.Wrap(errOverridesUnavailable, apperrors.ErrCodeConflict, "Developer overrides are disabled.")
	}
	normalized := access.NormalizeEmail(email)
	if normalized == "" || !strings.Contains(normalized, "@") {
		return "", apperrors.ValidationField("email", "A valid email address is required.")
	}
	return normalized, nil
}
