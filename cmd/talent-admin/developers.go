package main

import (
	"errors"
	"slices"

	"github.com/redis/go-redis/v9"

	redisadapter "github.com/target/talent-ui-api/internal/adapters/redis"
	"github.com/target/talent-ui-api/internal/service"
)

func (cmdCtx *commandContext) developerDirectory(client redis.UniversalClient) *service.DeveloperDirectory {
	return service.NewDeveloperDirectory(service.DeveloperDirectoryOptions{
		Configured: cmdCtx.Config.Access.DeveloperEmailList(),
		Overrides:  redisadapter.NewDeveloperOverrideStore(client, cmdCtx.Config.Access.DeveloperOverrideKey),
		Logger:     cmdCtx.Logger,
	})
}

func runDevelopersList(cmdCtx *commandContext, _ []string) error {
	return withRedis(cmdCtx, func(client redis.UniversalClient) error {
		dir := cmdCtx.developerDirectory(client)
		if err := dir.Refresh(cmdCtx.Ctx); err != nil {
			return err
		}
		overrides, err := dir.Overrides(cmdCtx.Ctx)
		if err != nil {
			return err
		}

		emails := dir.Allowlist().Emails()
		slices.Sort(emails)
		for _, email := range emails {
			source := "configured"
			if slices.Contains(overrides, email) {
				source = "override"
			}
			if err := writef(cmdCtx.Out, "%s\t%s\n", email, source); err != nil {
				return err
			}
		}
		return nil
	})
}

func runDevelopersAdd(cmdCtx *commandContext, args []string) error {
	email, err := singleArg(args, "email")
	if err != nil {
		return err
	}
	return withRedis(cmdCtx, func(client redis.UniversalClient) error {
		if err := cmdCtx.developerDirectory(client).AddOverride(cmdCtx.Ctx, email); err != nil {
			return err
		}
		return writeln(cmdCtx.Out, "added", email)
	})
}

func runDevelopersRemove(cmdCtx *commandContext, args []string) error {
	email, err := singleArg(args, "email")
	if err != nil {
		return err
	}
	return withRedis(cmdCtx, func(client redis.UniversalClient) error {
		if err := cmdCtx.developerDirectory(client).RemoveOverride(cmdCtx.Ctx, email); err != nil {
			return err
		}
		return writeln(cmdCtx.Out, "removed", email)
	})
}

func singleArg(args []string, name string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", errors.New("expected exactly one " + name + " argument")
	}
	return args[0], nil
}
