package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/postgres"
	"github.com/phrazzld/task-manager-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sharedDB     *sql.DB
	sharedDBErr  error
	sharedDBOnce sync.Once
)

// withTx opens a transaction against DATABASE_URL that is rolled back when
// the test ends. The test is skipped when DATABASE_URL is unset.
func withTx(t *testing.T) *sql.Tx {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	sharedDBOnce.Do(func() {
		sharedDB, sharedDBErr = sql.Open("pgx", dbURL)
		if sharedDBErr != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sharedDBErr = postgres.Migrate(ctx, sharedDB, nil, "up")
	})
	require.NoError(t, sharedDBErr)

	tx, err := sharedDB.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })
	return tx
}

func createUser(t *testing.T, users store.UserStore, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "$2a$04$abcdefghijklmnopqrstuv")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestIntegration_UserLifecycle(t *testing.T) {
	tx := withTx(t)
	ctx := context.Background()
	users := postgres.NewPostgresUserStore(tx, nil)

	user := createUser(t, users, "lifecycle@example.com")
	assert.Positive(t, user.ID)

	got, err := users.GetByEmail(ctx, "lifecycle@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	require.NoError(t, users.UpdatePassword(ctx, user.ID, "new-hash"))
	got, err = users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.HashedPassword)

	require.NoError(t, users.Delete(ctx, user.ID))
	_, err = users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	// a failed statement aborts the transaction, so this runs last
	createUser(t, users, "kept@example.com")
	dup, err := domain.NewUser("KEPT@example.com", "hash")
	require.NoError(t, err)
	assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)
}

func TestIntegration_TaskFiltersAndCascade(t *testing.T) {
	tx := withTx(t)
	ctx := context.Background()
	users := postgres.NewPostgresUserStore(tx, nil)
	tasks := postgres.NewPostgresTaskStore(tx, nil)
	tags := postgres.NewPostgresTagStore(tx, nil)

	owner := createUser(t, users, "owner@example.com")
	other := createUser(t, users, "other@example.com")

	tag, err := domain.NewTag("integration-errands")
	require.NoError(t, err)
	require.NoError(t, tags.Create(ctx, tag))

	for i, title := range []string{"Buy milk", "Write report", "buy bread"} {
		task, err := domain.NewTask(owner.ID, title, domain.PriorityMedium)
		require.NoError(t, err)
		task.CreatedAt = task.CreatedAt.Add(time.Duration(i) * time.Second)
		if i != 1 {
			task.TagID = &tag.ID
		}
		require.NoError(t, tasks.Create(ctx, task))
	}
	foreign, err := domain.NewTask(other.ID, "buy nothing", domain.PriorityLow)
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, foreign))

	items, total, err := tasks.List(ctx, domain.TaskFilter{UserID: owner.ID, Query: "BUY", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "buy bread", items[0].Title)

	_, total, err = tasks.List(ctx, domain.TaskFilter{UserID: owner.ID, TagID: &tag.ID, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	// deleting the tag detaches it
	require.NoError(t, tags.Delete(ctx, tag.ID))
	_, total, err = tasks.List(ctx, domain.TaskFilter{UserID: owner.ID, TagID: &tag.ID, Limit: 20})
	require.NoError(t, err)
	assert.Zero(t, total)

	// deleting the user removes their tasks
	require.NoError(t, users.Delete(ctx, other.ID))
	_, err = tasks.GetByID(ctx, foreign.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestIntegration_TaskUnknownTag(t *testing.T) {
	tx := withTx(t)
	ctx := context.Background()
	users := postgres.NewPostgresUserStore(tx, nil)
	tasks := postgres.NewPostgresTaskStore(tx, nil)

	owner := createUser(t, users, "tagless@example.com")
	task, err := domain.NewTask(owner.ID, "orphan", domain.PriorityLow)
	require.NoError(t, err)
	missing := int64(987654321)
	task.TagID = &missing

	assert.ErrorIs(t, tasks.Create(ctx, task), store.ErrUnknownTag)
}

func TestIntegration_PasswordResetSingleUse(t *testing.T) {
	tx := withTx(t)
	ctx := context.Background()
	users := postgres.NewPostgresUserStore(tx, nil)
	resets := postgres.NewPostgresPasswordResetStore(tx, nil)

	owner := createUser(t, users, "reset@example.com")
	now := time.Now().UTC()

	expired := domain.NewPasswordReset(owner.ID, "expired-digest", now.Add(-2*time.Hour), time.Hour)
	require.NoError(t, resets.Create(ctx, expired))
	_, err := resets.GetUsableByHash(ctx, "expired-digest", now)
	assert.ErrorIs(t, err, store.ErrPasswordResetNotFound)

	live := domain.NewPasswordReset(owner.ID, "live-digest", now, time.Hour)
	require.NoError(t, resets.Create(ctx, live))

	got, err := resets.GetUsableByHash(ctx, "live-digest", now)
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)

	require.NoError(t, resets.MarkUsed(ctx, got.ID))
	_, err = resets.GetUsableByHash(ctx, "live-digest", now)
	assert.ErrorIs(t, err, store.ErrPasswordResetNotFound)
}
