package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/talent-ui-api/config"
	"github.com/target/talent-ui-api/internal/bootstrap"
	"github.com/target/talent-ui-api/internal/data"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	usage       string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer

	// openDB and openRedis default to the bootstrap connectors.
	openDB    func() (*sql.DB, error)
	openRedis func() (redis.UniversalClient, error)
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger("info")

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stderr); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx := newCommandContext(ctx, logger, cfg, os.Stdout)
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func newCommandContext(ctx context.Context, logger *slog.Logger, cfg config.AppConfig, out io.Writer) *commandContext {
	dbCfg := bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}
	return &commandContext{
		Ctx:       ctx,
		Logger:    logger,
		Config:    cfg,
		Out:       out,
		openDB:    func() (*sql.DB, error) { return bootstrap.ConnectDB(dbCfg) },
		openRedis: func() (redis.UniversalClient, error) { return bootstrap.ConnectRedis(dbCfg) },
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			usage:       "[--timeout 5m] [--status]",
			description: "Run database migrations, or list their state with --status",
			run:         runMigrations,
		},
		"developers-list": {
			name:        "developers-list",
			description: "List configured and operator-added developer emails",
			run:         runDevelopersList,
		},
		"developers-add": {
			name:        "developers-add",
			usage:       "<email>",
			description: "Add an email to the developer override list",
			run:         runDevelopersAdd,
		},
		"developers-remove": {
			name:        "developers-remove",
			usage:       "<email>",
			description: "Remove an email from the developer override list",
			run:         runDevelopersRemove,
		},
		"role-get": {
			name:        "role-get",
			usage:       "<user-id>",
			description: "Show the stored role of a user",
			run:         runRoleGet,
		},
		"role-set": {
			name:        "role-set",
			usage:       "<user-id> <email> <student|client|admin>",
			description: "Create or replace the stored role of a user",
			run:         runRoleSet,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: talent-admin <command> [flags]\n\nAvailable commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	slices.Sort(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range names {
		c := cmds[name]
		if err := writef(tw, "  %s %s\t%s\n", c.name, c.usage, c.description); err != nil {
			return err
		}
	}
	return tw.Flush()
}

type migrateOptions struct {
	Timeout time.Duration
	Status  bool
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration to wait for migrations to complete")
	fs.BoolVar(&opts.Status, "status", false, "List migrations and whether they are applied")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	return withDatabase(cmdCtx, func(db *sql.DB) error {
		if opts.Status {
			return printMigrationStatus(ctx, cmdCtx.Out, db)
		}

		cmdCtx.Logger.Info("running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func printMigrationStatus(ctx context.Context, w io.Writer, db *sql.DB) error {
	versions, err := data.MigrationStatus(ctx, db)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "VERSION\tAPPLIED\n"); err != nil {
		return err
	}
	for _, v := range versions {
		if err := writef(tw, "%s\t%t\n", v.Version, v.Applied); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// withDatabase opens Postgres for the duration of fn.
func withDatabase(cmdCtx *commandContext, fn func(*sql.DB) error) error {
	db, err := cmdCtx.openDB()
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()
	return fn(db)
}

// withRedis opens Redis for the duration of fn.
func withRedis(cmdCtx *commandContext, fn func(redis.UniversalClient) error) error {
	client, err := cmdCtx.openRedis()
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()
	return fn(client)
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
