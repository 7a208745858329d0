package directory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDatabase(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	dbName := "ugm_db"
	dbUser := "ugm"
	dbPassword := "pwd"

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithInitScripts(filepath.Join("../../migrations", "ugm_db.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	connString, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	poolConfig, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return pool, cleanup
}

func TestPostgresDirectory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres-backed test in short mode")
	}

	ctx := context.Background()
	pool, cleanup := setupTestDatabase(t)
	defer cleanup()

	dir := NewPostgresDirectory(pool)

	require.NoError(t, dir.CreateGroup(ctx, PrincipalRecord{
		ID:         "staff_g",
		Attributes: map[string]string{"cn": "Staff"},
	}))
	require.NoError(t, dir.CreateUser(ctx, PrincipalRecord{
		ID:         "alice",
		Attributes: map[string]string{"uid": "alice", "cn": "Alice", "mail": "alice@example.com"},
		GroupIDs:   []string{"staff_g"},
	}))
	require.NoError(t, dir.CreateUser(ctx, PrincipalRecord{
		ID:         "bob",
		Attributes: map[string]string{"uid": "bob", "cn": "Bob"},
	}))

	users, err := dir.UsersFactory()()
	require.NoError(t, err)
	groups, err := dir.GroupsFactory()()
	require.NoError(t, err)

	t.Run("Get", func(t *testing.T) {
		alice, err := users.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "Alice", alice.Attributes["cn"])
		assert.Equal(t, []string{"staff_g"}, alice.GroupIDs)

		staff, err := groups.Get(ctx, "staff_g")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, staff.MemberIDs)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		_, err := users.Get(ctx, "nobody")
		assert.True(t, IsNotFound(err))
	})

	t.Run("KindsAreSeparate", func(t *testing.T) {
		_, err := groups.Get(ctx, "alice")
		assert.True(t, IsNotFound(err))
	})

	t.Run("Search", func(t *testing.T) {
		results, err := users.Search(ctx, map[string]string{"mail": "alice@example.com"}, []string{"cn"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "alice", results[0].ID)
		assert.Equal(t, "Alice", results[0].Attributes["cn"])
	})

	t.Run("List", func(t *testing.T) {
		ids, err := users.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, ids)
	})

	t.Run("Membership", func(t *testing.T) {
		require.NoError(t, dir.AddMember(ctx, "staff_g", "bob"))
		staff, err := groups.Get(ctx, "staff_g")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, staff.MemberIDs)

		require.NoError(t, dir.RemoveMember(ctx, "staff_g", "bob"))
		staff, err = groups.Get(ctx, "staff_g")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, staff.MemberIDs)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, dir.DeleteUser(ctx, "alice"))
		_, err := users.Get(ctx, "alice")
		assert.True(t, IsNotFound(err))

		staff, err := groups.Get(ctx, "staff_g")
		require.NoError(t, err)
		assert.Empty(t, staff.MemberIDs)

		err = dir.DeleteUser(ctx, "alice")
		assert.True(t, IsNotFound(err))
	})
}
