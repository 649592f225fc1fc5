// Package testutil holds fixtures shared by store, service and handler tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/spendwise/spendwise/internal/model"
)

// placeholderHash is a well-formed Argon2id hash that matches no password.
const placeholderHash = "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"

// integrationLockKey serializes Postgres integration tests across packages.
const integrationLockKey int64 = 0x5350454e44

var seq atomic.Uint64

// RequireEnv returns the value of key or skips the test when it is unset.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set", key)
	}
	return v
}

// AcquireDBLock holds a session advisory lock on a dedicated connection
// until the returned func is called.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", integrationLockKey); err != nil {
		conn.Release()
		return nil, fmt.Errorf("lock: %w", err)
	}
	return func() error {
		defer conn.Release()
		_, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", integrationLockKey)
		return err
	}, nil
}

// FlushRedis empties the selected Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// UniqueName returns prefix with a process-unique suffix.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// NewTestUser returns an unsaved user with a unique username and email.
// Its password hash never verifies.
func NewTestUser(t testing.TB, prefix string) *model.User {
	t.Helper()
	name := UniqueName(prefix)
	return &model.User{
		ID:           model.NewID(),
		Username:     name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: placeholderHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

// NewTestExpense returns an unsaved expense of amount in category, owned
// by userID. A zero createdAt lets the store pick the time.
func NewTestExpense(t testing.TB, userID, amount, category string, createdAt time.Time) *model.Expense {
	t.Helper()
	a, err := model.ParseAmount(amount)
	if err != nil {
		t.Fatalf("parse amount %q: %v", amount, err)
	}
	return &model.Expense{
		ID:          model.NewID(),
		UserID:      userID,
		Amount:      a,
		Description: category + " expense",
		Category:    category,
		CreatedAt:   createdAt.UTC(),
	}
}

// Date returns midnight UTC of the given day, shifted by offset.
func Date(year int, month time.Month, day int, offset time.Duration) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Add(offset)
}
