package bootstrap

import (
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/target/talent-ui-api/config"
	redisadapter "github.com/target/talent-ui-api/internal/adapters/redis"
	"github.com/target/talent-ui-api/internal/data"
	"github.com/target/talent-ui-api/internal/ports"
)

// serviceRepositories groups data adapters backing service ports; no business rules here.
type serviceRepositories struct {
	Sessions  ports.SessionStore
	Overrides ports.DeveloperOverrideStore
	Settings  ports.SettingsStore
	Roles     ports.RoleStore
	Waitlist  ports.WaitlistRepository
}

// buildRepositories builds the Redis and Postgres adapters. A nil db leaves
// the durable role store unset, so roles resolve from claims only.
func buildRepositories(db *sql.DB, client redis.UniversalClient, cfg config.AccessConfig) serviceRepositories {
	repos := serviceRepositories{
		Sessions:  redisadapter.NewSessionStore(client),
		Overrides: redisadapter.NewDeveloperOverrideStore(client, cfg.DeveloperOverrideKey),
		Settings:  redisadapter.NewSettingsStore(client),
	}
	if db != nil {
		repos.Roles = data.NewRoleRepo(db)
		repos.Waitlist = data.NewWaitlistRepo(db)
	}
	return repos
}
