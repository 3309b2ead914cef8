package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/target/talent-ui-api/internal/data"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	apperrors "github.com/target/talent-ui-api/internal/errors"
	"github.com/target/talent-ui-api/internal/ports"
)

func runRoleGet(cmdCtx *commandContext, args []string) error {
	userID, err := singleArg(args, "user-id")
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, func(db *sql.DB) error {
		row, getErr := data.NewRoleRepo(db).Get(cmdCtx.Ctx, userID)
		if apperrors.IsNotFound(getErr) {
			return writef(cmdCtx.Out, "%s has no stored role; it resolves from the sign-up claim\n", userID)
		}
		if getErr != nil {
			return getErr
		}
		return writef(cmdCtx.Out, "user_id=%s email=%s role=%s updated_at=%s\n",
			row.UserID, row.Email, row.Role, row.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"))
	})
}

type roleSetArgs struct {
	UserID string
	Email  string
	Role   domainauth.Role
}

func parseRoleSetArgs(args []string) (roleSetArgs, error) {
	if len(args) != 3 {
		return roleSetArgs{}, errors.New("usage: role-set <user-id> <email> <student|client|admin>")
	}
	role := domainauth.Role(strings.ToLower(strings.TrimSpace(args[2])))
	if !role.Persistable() {
		return roleSetArgs{}, fmt.Errorf("role %q cannot be stored; use student, client or admin", args[2])
	}
	return roleSetArgs{UserID: strings.TrimSpace(args[0]), Email: strings.TrimSpace(args[1]), Role: role}, nil
}

func runRoleSet(cmdCtx *commandContext, args []string) error {
	parsed, err := parseRoleSetArgs(args)
	if err != nil {
		return err
	}
	return withDatabase(cmdCtx, func(db *sql.DB) error {
		previous, setErr := data.NewRoleRepo(db).Replace(cmdCtx.Ctx, ports.RoleRecord{
			UserID: parsed.UserID,
			Email:  parsed.Email,
			Role:   parsed.Role,
		})
		if setErr != nil {
			return setErr
		}
		if previous == "" {
			previous = "(none)"
		}
		cmdCtx.Logger.Info("stored role replaced", "user_id", parsed.UserID, "previous", previous, "role", parsed.Role)
		return writef(cmdCtx.Out, "%s: %s -> %s\n", parsed.UserID, previous, parsed.Role)
	})
}
