package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-ugm/pkg/accesscontrol"
	"github.com/tendant/simple-ugm/pkg/auth"
	"github.com/tendant/simple-ugm/pkg/config"
	"github.com/tendant/simple-ugm/pkg/delegation"
	"github.com/tendant/simple-ugm/pkg/directory"
)

type Config struct {
	UGM config.UGMConfig

	// Directory store: "inmem" or "postgres"
	DirectoryStore string `env:"UGM_DIRECTORY_STORE" env-default:"inmem"`

	// Database (postgres store only)
	DBHost     string `env:"UGM_PG_HOST" env-default:"localhost"`
	DBPort     uint16 `env:"UGM_PG_PORT" env-default:"5432"`
	DBDatabase string `env:"UGM_PG_DATABASE" env-default:"ugm_db"`
	DBUser     string `env:"UGM_PG_USER" env-default:"ugm"`
	DBPassword string `env:"UGM_PG_PASSWORD" env-default:"pwd"`

	// Demo check: authorize Subject for Permission on user node TargetUser
	Subject    string `env:"UGM_CHECK_SUBJECT" env-default:"alice"`
	TargetUser string `env:"UGM_CHECK_TARGET_USER" env-default:"bob"`
	Permission string `env:"UGM_CHECK_PERMISSION" env-default:"edit_user"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	slog.SetDefault(logger)

	config := Config{}
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	usersFactory, groupsFactory, err := buildDirectory(ctx, config)
	if err != nil {
		slog.Error("Failed to set up directory store", "error", err)
		os.Exit(1)
	}

	session, err := directory.NewSession(usersFactory, groupsFactory)
	if err != nil {
		slog.Error("Failed to bind directory session", "error", err)
		os.Exit(1)
	}
	users := directory.NewUsersContainer(session)
	groups := directory.NewGroupsContainer(session)

	rules := delegation.NewRuleSet(config.UGM.DelegationConfigPath)
	if err := rules.Load(); err != nil {
		slog.Error("Failed to load delegation rules", "error", err)
		os.Exit(1)
	}
	slog.Info("Delegation rules loaded",
		"path", config.UGM.DelegationConfigPath,
		"adminGroups", rules.AdminGroupIDs())

	resolver := delegation.NewResolver(rules, groups, config.UGM)
	checker := accesscontrol.NewChecker(
		accesscontrol.NewDelegationProvider(resolver),
		accesscontrol.NewStaticProvider(),
	)

	// look up the subject's memberships to build its auth context
	authCtx := auth.AuthContext{UserID: config.Subject}
	if subject, err := users.Get(ctx, config.Subject); err == nil {
		authCtx.GroupIDs = subject.GroupIDs()
	} else if !directory.IsNotFound(err) {
		slog.Error("Failed to look up subject", "subject", config.Subject, "error", err)
		os.Exit(1)
	}

	node := accesscontrol.UserNode(config.TargetUser)
	decision, err := checker.Authorize(ctx, node, authCtx, config.Permission)
	if err != nil {
		slog.Error("Authorization failed closed", "error", err)
		os.Exit(1)
	}

	slog.Info("Authorization decision",
		"subject", config.Subject,
		"node", node.Kind, "id", node.ID,
		"permission", config.Permission,
		"allowed", decision.Allowed)
}

func buildDirectory(ctx context.Context, config Config) (directory.BackendFactory, directory.BackendFactory, error) {
	if config.DirectoryStore == "postgres" {
		pool, err := pgxpool.New(ctx, toDatabaseURL(config))
		if err != nil {
			return nil, nil, err
		}
		dir := directory.NewPostgresDirectory(pool)
		return dir.UsersFactory(), dir.GroupsFactory(), nil
	}

	dir := directory.NewInMemDirectory()
	seedDemoDirectory(ctx, dir)
	return dir.UsersFactory(), dir.GroupsFactory(), nil
}

// seedDemoDirectory installs a small fixture so the demo check has
// something to decide on.
func seedDemoDirectory(ctx context.Context, dir *directory.InMemDirectory) {
	dir.CreateGroup(ctx, directory.PrincipalRecord{ID: "managers_g"})
	dir.CreateGroup(ctx, directory.PrincipalRecord{ID: "staff_g"})
	dir.CreateUser(ctx, directory.PrincipalRecord{
		ID:         "alice",
		Attributes: map[string]string{"uid": "alice", "cn": "Alice"},
		GroupIDs:   []string{"managers_g"},
	})
	dir.CreateUser(ctx, directory.PrincipalRecord{
		ID:         "bob",
		Attributes: map[string]string{"uid": "bob", "cn": "Bob"},
		GroupIDs:   []string{"staff_g"},
	})
}

func toDatabaseURL(config Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		config.DBUser, config.DBPassword, config.DBHost, config.DBPort, config.DBDatabase)
}
