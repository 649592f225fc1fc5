//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/testutil"
)

// integrationEnv is a Repository on DATABASE_URL holding the shared test lock.
type integrationEnv struct {
	ctx   context.Context
	repo  *Repository
	dbURL string
}

// newIntegrationEnv connects, serializes against other integration tests
// and, when fresh is set, rebuilds the schema from the embedded migrations.
func newIntegrationEnv(t *testing.T, fresh bool) integrationEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	env := integrationEnv{
		ctx:   context.Background(),
		dbURL: testutil.RequireEnv(t, "DATABASE_URL"),
	}

	repo, err := New(env.ctx, env.dbURL, DefaultPoolConfig())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)
	env.repo = repo

	unlock, err := testutil.AcquireDBLock(env.ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if fresh {
		env.dropSchema(t)
		if err := Migrate(env.dbURL); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return env
}

func (e integrationEnv) dropSchema(t *testing.T) {
	t.Helper()
	if _, err := e.repo.Pool().Exec(e.ctx,
		"DROP TABLE IF EXISTS expenses, categories, users, schema_migrations CASCADE",
	); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
}

func (e integrationEnv) exists(t *testing.T, query string, args ...any) bool {
	t.Helper()
	var ok bool
	if err := e.repo.Pool().QueryRow(e.ctx, "SELECT EXISTS ("+query+")", args...).Scan(&ok); err != nil {
		t.Fatalf("exists query: %v", err)
	}
	return ok
}

func newStoreTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	env := newIntegrationEnv(t, true)
	return env.ctx, env.repo
}

func createUser(t *testing.T, ctx context.Context, repo *Repository) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, "user")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}
