package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/target/talent-ui-api/internal/domain/access"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	apperrors "github.com/target/talent-ui-api/internal/errors"
	"github.com/target/talent-ui-api/internal/ports"
)

const maxWaitlistNameLen = 200

// WaitlistServiceOptions groups dependencies for WaitlistService.
type WaitlistServiceOptions struct {
	Repo      ports.WaitlistRepository // Required
	Passcodes access.PasscodePolicy
	Logger    *slog.Logger // Optional
}

// WaitlistService gates waitlist signups behind per-role passcodes.
type WaitlistService struct {
	repo      ports.WaitlistRepository
	passcodes access.PasscodePolicy
	logger    *slog.Logger
}

// NewWaitlistService constructs a WaitlistService.
func NewWaitlistService(opts WaitlistServiceOptions) *WaitlistService {
	if opts.Repo == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("WaitlistRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WaitlistService{repo: opts.Repo, passcodes: opts.Passcodes, logger: logger}
}

// JoinWaitlistRequest is a waitlist signup submission.
type JoinWaitlistRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Passcode string `json:"passcode"`
}

// Join validates the submission and stores it.
func (s *WaitlistService) Join(ctx context.Context, req JoinWaitlistRequest) (*ports.WaitlistEntry, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, apperrors.ValidationField("email", "A valid email address is required.")
	}
	email := access.NormalizeEmail(addr.Address)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationField("name", "Name is required.")
	}
	if len(name) > maxWaitlistNameLen {
		return nil, apperrors.ValidationField("name", "Name is too long.")
	}

	role := domainauth.NormalizeRole(req.Role)
	if !s.passcodes.Verify(role, req.Passcode) {
		s.logger.InfoContext(ctx, "waitlist passcode rejected", "role", role)
		return nil, apperrors.ValidationField("passcode", "Invalid passcode for the selected role.")
	}

	entry, err := s.repo.Create(ctx, email, name, role)
	if err != nil {
		return nil, fmt.Errorf("create waitlist entry: %w", err)
	}

	s.logger.InfoContext(ctx, "waitlist entry created", "id", entry.ID, "role", entry.Role)
	return entry, nil
}

// List returns the newest entries first.
func (s *WaitlistService) List(ctx context.Context, limit int) ([]ports.WaitlistEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list waitlist entries: %w", err)
	}
	return entries, nil
}
